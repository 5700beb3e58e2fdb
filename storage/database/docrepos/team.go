package docrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/team"
)

var linkDuplicates = map[string]error{
	LinkPairIndex:   team.ErrLinkExists,
	LinkLeaderIndex: team.ErrLeaderExists,
}

type linkRecord struct {
	StudentID string    `json:"idAluno" bson:"idAluno"`
	ProjectID string    `json:"idProjeto" bson:"idProjeto"`
	Role      string    `json:"papel" bson:"papel"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

func (r linkRecord) toLink(id string) team.Link {
	return team.Link{
		ID:        id,
		StudentID: r.StudentID,
		ProjectID: r.ProjectID,
		Role:      r.Role,
		CreatedAt: r.CreatedAt,
	}
}

type linkRepository struct {
	coll core.Collection
}

var _ team.Repository = (*linkRepository)(nil)

func NewLinkRepository(store core.DocStore) team.Repository {
	return &linkRepository{coll: store.Collection(LinkCollection)}
}

func (repo *linkRepository) decodeAll(docs []core.Document) ([]team.Link, error) {
	links := make([]team.Link, 0, len(docs))
	for _, doc := range docs {
		var rec linkRecord
		if err := doc.DataTo(&rec); err != nil {
			return nil, errors.Wrap(err, "decoding link")
		}
		links = append(links, rec.toLink(doc.ID()))
	}
	return links, nil
}

func (repo *linkRepository) where(ctx context.Context, field, value string) ([]team.Link, error) {
	docs, err := repo.coll.Where(ctx, field, value)
	if err != nil {
		return nil, err
	}
	return repo.decodeAll(docs)
}

func (repo *linkRepository) CreateLink(ctx context.Context, link team.Link) (team.Link, error) {
	id, err := repo.coll.Add(ctx, linkRecord{
		StudentID: link.StudentID,
		ProjectID: link.ProjectID,
		Role:      link.Role,
		CreatedAt: link.CreatedAt,
	})
	if err != nil {
		return team.Link{}, mapDuplicate(err, linkDuplicates)
	}
	link.ID = id
	return link, nil
}

func (repo *linkRepository) QueryAllLinks(ctx context.Context) ([]team.Link, error) {
	docs, err := repo.coll.All(ctx)
	if err != nil {
		return nil, err
	}
	return repo.decodeAll(docs)
}

func (repo *linkRepository) QueryLinksByProject(ctx context.Context, projectID string) ([]team.Link, error) {
	return repo.where(ctx, "idProjeto", projectID)
}

func (repo *linkRepository) QueryLinksByStudent(ctx context.Context, studentID string) ([]team.Link, error) {
	return repo.where(ctx, "idAluno", studentID)
}

func (repo *linkRepository) GetLinkByID(ctx context.Context, id string) (team.Link, error) {
	var rec linkRecord
	if err := getDoc(ctx, repo.coll, id, team.ErrNotFound, &rec); err != nil {
		return team.Link{}, err
	}
	return rec.toLink(id), nil
}

func (repo *linkRepository) GetLinkByPair(ctx context.Context, studentID, projectID string) (team.Link, error) {
	links, err := repo.where(ctx, "idAluno", studentID)
	if err != nil {
		return team.Link{}, err
	}
	for _, l := range links {
		if l.ProjectID == projectID {
			return l, nil
		}
	}
	return team.Link{}, team.ErrNotFound
}

func (repo *linkRepository) DeleteLink(ctx context.Context, id string) error {
	return mapNotFound(repo.coll.Delete(ctx, id), team.ErrNotFound)
}

func (repo *linkRepository) DeleteLinksByProject(ctx context.Context, projectID string) (int, error) {
	docs, err := repo.coll.Where(ctx, "idProjeto", projectID)
	if err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID())
	}
	if err = repo.coll.DeleteBatch(ctx, ids...); err != nil {
		return 0, err
	}
	return len(ids), nil
}
