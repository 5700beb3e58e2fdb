package project

import (
	"context"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/outbox"
	"github.com/gabriel-goncalves1122/SGPA/core/professor"
)

// KindCascadeDelete is the outbox entry kind deleting a project together with its team-links.
const KindCascadeDelete = "project.cascade_delete"

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("project not found")
	ErrAdvisorNotFound = core.NewBadReferenceError("advisor (professor) not found")

	// OrderingFields are the fields a project list may be ordered by.
	OrderingFields = []string{"titulo", "dataInicio", "createdAt", "status"}

	defaultOrdering = []core.DBOrdering{{Field: "dataInicio", Ascending: false}}
)

type (
	Repository interface {
		CreateProject(ctx context.Context, proj Project) (Project, error)
		QueryAllProjects(ctx context.Context) ([]Project, error)
		GetProjectByID(ctx context.Context, id string) (Project, error)
		// UpdateProject writes every field but MemberIDs, which only AddMember and RemoveMember change.
		UpdateProject(ctx context.Context, proj Project) (Project, error)
		// AddMember adds studentID to the project members unless already there.
		AddMember(ctx context.Context, projectID, studentID string) error
		RemoveMember(ctx context.Context, projectID, studentID string) error
		DeleteProject(ctx context.Context, id string) error
	}

	AdvisorGetter interface {
		GetProfessorByID(ctx context.Context, id string) (professor.Professor, error)
	}

	// LinkRemover deletes the team-links of a project.
	LinkRemover interface {
		DeleteLinksByProject(ctx context.Context, projectID string) (int, error)
	}

	Service struct {
		repo       Repository
		advisors   AdvisorGetter
		links      LinkRemover
		outbox     outbox.Outbox
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(
	repo Repository,
	advisors AdvisorGetter,
	links LinkRemover,
	ob outbox.Outbox,
	validate *validator.Validate,
	translator ut.Translator,
) *Service {
	svc := &Service{
		repo:       repo,
		advisors:   advisors,
		links:      links,
		outbox:     ob,
		validate:   validate,
		translator: translator,
	}
	ob.Register(KindCascadeDelete, svc.cascadeDelete)
	return svc
}

func (svc *Service) Create(ctx context.Context, np NewProject) (Project, error) {
	if err := np.Validate(svc.validate, svc.translator); err != nil {
		return Project{}, err
	}
	if _, err := svc.advisors.GetProfessorByID(ctx, np.AdvisorID); err != nil {
		if errors.Cause(err) == professor.ErrNotFound {
			return Project{}, ErrAdvisorNotFound
		}
		return Project{}, errors.Wrap(err, "getting advisor")
	}

	now := core.Now()
	proj, err := svc.repo.CreateProject(ctx, Project{
		Title:       np.Title,
		Description: np.Description,
		AdvisorID:   np.AdvisorID,
		StartDate:   np.StartDate.Time,
		EndDate:     np.EndDate.Ptr(),
		Status:      np.Status,
		MemberIDs:   []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	return proj, errors.Wrap(err, "creating project")
}

// Query returns the projects matching filter, ordered by orderings (newest start date first
// when none is given).
func (svc *Service) Query(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Project, error) {
	projs, err := svc.repo.QueryAllProjects(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying projects")
	}
	filter.Clean()
	matched := make([]Project, 0, len(projs))
	for _, p := range projs {
		if filter.Match(p) {
			matched = append(matched, p)
		}
	}
	if len(orderings) == 0 {
		orderings = defaultOrdering
	}
	sortProjects(matched, orderings)
	return matched, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Project, error) {
	proj, err := svc.repo.GetProjectByID(ctx, id)
	return proj, errors.Wrap(err, "getting project")
}

func (svc *Service) Update(ctx context.Context, id string, up UpdateProject) (Project, error) {
	orig, err := svc.repo.GetProjectByID(ctx, id)
	if err != nil {
		return Project{}, errors.Wrap(err, "getting project")
	}
	proj, err := up.Merge(orig, svc.validate, svc.translator)
	if err != nil {
		return Project{}, err
	}
	proj.UpdatedAt = core.Now()
	proj, err = svc.repo.UpdateProject(ctx, proj)
	return proj, errors.Wrap(err, "updating project")
}

// Delete removes the project and all its team-links.
// The cascade is recorded in the outbox first: if it fails midway the relay completes it later.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.repo.GetProjectByID(ctx, id); err != nil {
		return errors.Wrap(err, "getting project")
	}
	entry, err := svc.outbox.Enqueue(ctx, KindCascadeDelete, id)
	if err != nil {
		return errors.Wrap(err, "scheduling project deletion")
	}
	return errors.Wrap(svc.outbox.Dispatch(ctx, entry), "deleting project")
}

func (svc *Service) cascadeDelete(ctx context.Context, e outbox.Entry) error {
	if _, err := svc.links.DeleteLinksByProject(ctx, e.Ref); err != nil {
		return errors.Wrap(err, "deleting project team-links")
	}
	if err := svc.repo.DeleteProject(ctx, e.Ref); err != nil && errors.Cause(err) != ErrNotFound {
		return errors.Wrap(err, "deleting project")
	}
	return nil
}

func sortProjects(projs []Project, orderings []core.DBOrdering) {
	sort.SliceStable(projs, func(i, j int) bool {
		for _, ord := range orderings {
			c := compareField(projs[i], projs[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func compareField(a, b Project, field string) int {
	switch field {
	case "titulo":
		return strings.Compare(a.Title, b.Title)
	case "status":
		return strings.Compare(a.Status, b.Status)
	case "dataInicio":
		return compareTimes(a.StartDate.UnixNano(), b.StartDate.UnixNano())
	case "createdAt":
		return compareTimes(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	}
	return 0
}

func compareTimes(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
