package docrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/professor"
)

var professorDuplicates = map[string]error{ProfessorSiapeIndex: professor.ErrSiapeExists}

type professorRecord struct {
	Name       string    `json:"nome" bson:"nome"`
	Siape      string    `json:"siape" bson:"siape"`
	Email      string    `json:"email" bson:"email"`
	Department string    `json:"departamento" bson:"departamento"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

func newProfessorRecord(p professor.Professor) professorRecord {
	return professorRecord{
		Name:       p.Name,
		Siape:      p.Siape,
		Email:      p.Email,
		Department: p.Department,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (r professorRecord) toProfessor(id string) professor.Professor {
	return professor.Professor{
		ID:         id,
		Name:       r.Name,
		Siape:      r.Siape,
		Email:      r.Email,
		Department: r.Department,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type professorRepository struct {
	coll core.Collection
}

var _ professor.Repository = (*professorRepository)(nil)

func NewProfessorRepository(store core.DocStore) professor.Repository {
	return &professorRepository{coll: store.Collection(ProfessorCollection)}
}

func (repo *professorRepository) decodeAll(docs []core.Document) ([]professor.Professor, error) {
	profs := make([]professor.Professor, 0, len(docs))
	for _, doc := range docs {
		var rec professorRecord
		if err := doc.DataTo(&rec); err != nil {
			return nil, errors.Wrap(err, "decoding professor")
		}
		profs = append(profs, rec.toProfessor(doc.ID()))
	}
	return profs, nil
}

func (repo *professorRepository) where(ctx context.Context, field, value string) ([]professor.Professor, error) {
	docs, err := repo.coll.Where(ctx, field, value)
	if err != nil {
		return nil, err
	}
	return repo.decodeAll(docs)
}

func (repo *professorRepository) CreateProfessor(ctx context.Context, prof professor.Professor) (professor.Professor, error) {
	id, err := repo.coll.Add(ctx, newProfessorRecord(prof))
	if err != nil {
		return professor.Professor{}, mapDuplicate(err, professorDuplicates)
	}
	prof.ID = id
	return prof, nil
}

func (repo *professorRepository) QueryAllProfessors(ctx context.Context) ([]professor.Professor, error) {
	docs, err := repo.coll.All(ctx)
	if err != nil {
		return nil, err
	}
	return repo.decodeAll(docs)
}

func (repo *professorRepository) QueryProfessorsByName(ctx context.Context, name string) ([]professor.Professor, error) {
	return repo.where(ctx, "nome", name)
}

func (repo *professorRepository) GetProfessorByID(ctx context.Context, id string) (professor.Professor, error) {
	var rec professorRecord
	if err := getDoc(ctx, repo.coll, id, professor.ErrNotFound, &rec); err != nil {
		return professor.Professor{}, err
	}
	return rec.toProfessor(id), nil
}

func (repo *professorRepository) GetProfessorBySiape(ctx context.Context, siape string) (professor.Professor, error) {
	profs, err := repo.where(ctx, "siape", siape)
	if err != nil {
		return professor.Professor{}, err
	}
	if len(profs) == 0 {
		return professor.Professor{}, professor.ErrNotFound
	}
	return profs[0], nil
}

func (repo *professorRepository) UpdateProfessor(ctx context.Context, prof professor.Professor) (professor.Professor, error) {
	rec := newProfessorRecord(prof)
	err := repo.coll.Update(ctx, prof.ID, core.Fields{
		"nome":         rec.Name,
		"siape":        rec.Siape,
		"email":        rec.Email,
		"departamento": rec.Department,
		"updatedAt":    rec.UpdatedAt,
	})
	if err != nil {
		return professor.Professor{}, mapDuplicate(mapNotFound(err, professor.ErrNotFound), professorDuplicates)
	}
	return prof, nil
}

func (repo *professorRepository) DeleteProfessor(ctx context.Context, id string) error {
	return mapNotFound(repo.coll.Delete(ctx, id), professor.ErrNotFound)
}
