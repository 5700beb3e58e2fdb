package docrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/project"
)

type (
	projectRecord struct {
		Title       string            `json:"titulo" bson:"titulo"`
		Description string            `json:"descricao" bson:"descricao"`
		AdvisorID   string            `json:"orientador" bson:"orientador"`
		StartDate   time.Time         `json:"dataInicio" bson:"dataInicio"`
		EndDate     *time.Time        `json:"dataFim" bson:"dataFim"`
		Status      string            `json:"status" bson:"status"`
		MemberIDs   []string          `json:"alunos" bson:"alunos"`
		Submission  *submissionRecord `json:"entrega,omitempty" bson:"entrega,omitempty"`
		CreatedAt   time.Time         `json:"createdAt" bson:"createdAt"`
		UpdatedAt   time.Time         `json:"updatedAt" bson:"updatedAt"`
	}

	submissionRecord struct {
		ID          string     `json:"id,omitempty" bson:"id,omitempty"`
		SubmittedAt *time.Time `json:"dataEntrega,omitempty" bson:"dataEntrega,omitempty"`
		FileURL     string     `json:"arquivoUrl,omitempty" bson:"arquivoUrl,omitempty"`
		Notes       string     `json:"observacoes,omitempty" bson:"observacoes,omitempty"`
		Grade       *float64   `json:"avaliacao,omitempty" bson:"avaliacao,omitempty"`
	}
)

func newProjectRecord(p project.Project) projectRecord {
	rec := projectRecord{
		Title:       p.Title,
		Description: p.Description,
		AdvisorID:   p.AdvisorID,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Status:      p.Status,
		MemberIDs:   nonNil(p.MemberIDs),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if sub := p.Submission; sub != nil {
		rec.Submission = &submissionRecord{
			ID:          sub.ID,
			SubmittedAt: sub.SubmittedAt,
			FileURL:     sub.FileURL,
			Notes:       sub.Notes,
			Grade:       sub.Grade,
		}
	}
	return rec
}

func (r projectRecord) toProject(id string) project.Project {
	p := project.Project{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		AdvisorID:   r.AdvisorID,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Status:      r.Status,
		MemberIDs:   nonNil(r.MemberIDs),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if sub := r.Submission; sub != nil {
		p.Submission = &project.Submission{
			ID:          sub.ID,
			SubmittedAt: sub.SubmittedAt,
			FileURL:     sub.FileURL,
			Notes:       sub.Notes,
			Grade:       sub.Grade,
		}
	}
	return p
}

type projectRepository struct {
	coll core.Collection
}

var _ project.Repository = (*projectRepository)(nil)

func NewProjectRepository(store core.DocStore) project.Repository {
	return &projectRepository{coll: store.Collection(ProjectCollection)}
}

func (repo *projectRepository) CreateProject(ctx context.Context, proj project.Project) (project.Project, error) {
	id, err := repo.coll.Add(ctx, newProjectRecord(proj))
	if err != nil {
		return project.Project{}, err
	}
	proj.ID = id
	proj.MemberIDs = nonNil(proj.MemberIDs)
	return proj, nil
}

func (repo *projectRepository) QueryAllProjects(ctx context.Context) ([]project.Project, error) {
	docs, err := repo.coll.All(ctx)
	if err != nil {
		return nil, err
	}
	projs := make([]project.Project, 0, len(docs))
	for _, doc := range docs {
		var rec projectRecord
		if err = doc.DataTo(&rec); err != nil {
			return nil, errors.Wrap(err, "decoding project")
		}
		projs = append(projs, rec.toProject(doc.ID()))
	}
	return projs, nil
}

func (repo *projectRepository) GetProjectByID(ctx context.Context, id string) (project.Project, error) {
	var rec projectRecord
	if err := getDoc(ctx, repo.coll, id, project.ErrNotFound, &rec); err != nil {
		return project.Project{}, err
	}
	return rec.toProject(id), nil
}

// UpdateProject leaves the member set alone and returns the project as stored afterwards.
func (repo *projectRepository) UpdateProject(ctx context.Context, proj project.Project) (project.Project, error) {
	rec := newProjectRecord(proj)
	err := repo.coll.Update(ctx, proj.ID, core.Fields{
		"titulo":     rec.Title,
		"descricao":  rec.Description,
		"orientador": rec.AdvisorID,
		"dataInicio": rec.StartDate,
		"dataFim":    rec.EndDate,
		"status":     rec.Status,
		"entrega":    rec.Submission,
		"updatedAt":  rec.UpdatedAt,
	})
	if err != nil {
		return project.Project{}, mapNotFound(err, project.ErrNotFound)
	}
	return repo.GetProjectByID(ctx, proj.ID)
}

func (repo *projectRepository) AddMember(ctx context.Context, projectID, studentID string) error {
	err := repo.coll.Update(ctx, projectID, core.Fields{"alunos": core.Union(studentID)})
	return mapNotFound(err, project.ErrNotFound)
}

func (repo *projectRepository) RemoveMember(ctx context.Context, projectID, studentID string) error {
	err := repo.coll.Update(ctx, projectID, core.Fields{"alunos": core.Remove(studentID)})
	return mapNotFound(err, project.ErrNotFound)
}

func (repo *projectRepository) DeleteProject(ctx context.Context, id string) error {
	return mapNotFound(repo.coll.Delete(ctx, id), project.ErrNotFound)
}
