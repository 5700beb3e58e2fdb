package team

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/project"
	"github.com/gabriel-goncalves1122/SGPA/core/student"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("team-link not found")
	ErrStudentNotFound = core.NewBadReferenceError("student not found")
	ErrProjectNotFound = core.NewBadReferenceError("project not found")
	ErrLeaderExists    = core.NewConflictError("student is already the leader of a project")
	ErrLinkExists      = core.NewConflictError("student is already linked to this project")
)

type (
	Repository interface {
		// CreateLink fails with ErrLinkExists for a repeated (student, project) pair and with
		// ErrLeaderExists for a second leader link of the same student.
		CreateLink(ctx context.Context, link Link) (Link, error)
		QueryAllLinks(ctx context.Context) ([]Link, error)
		QueryLinksByProject(ctx context.Context, projectID string) ([]Link, error)
		QueryLinksByStudent(ctx context.Context, studentID string) ([]Link, error)
		GetLinkByID(ctx context.Context, id string) (Link, error)
		GetLinkByPair(ctx context.Context, studentID, projectID string) (Link, error)
		DeleteLink(ctx context.Context, id string) error
		DeleteLinksByProject(ctx context.Context, projectID string) (int, error)
	}

	StudentGetter interface {
		GetStudentByID(ctx context.Context, id string) (student.Student, error)
	}

	// ProjectMembers reads projects and maintains their member set.
	ProjectMembers interface {
		GetProjectByID(ctx context.Context, id string) (project.Project, error)
		AddMember(ctx context.Context, projectID, studentID string) error
		RemoveMember(ctx context.Context, projectID, studentID string) error
	}

	Service struct {
		repo       Repository
		students   StudentGetter
		projects   ProjectMembers
		logger     core.Logger
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(
	repo Repository,
	students StudentGetter,
	projects ProjectMembers,
	logger core.Logger,
	validate *validator.Validate,
	translator ut.Translator,
) *Service {
	return &Service{
		repo:       repo,
		students:   students,
		projects:   projects,
		logger:     logger,
		validate:   validate,
		translator: translator,
	}
}

// Create links a student to a project and adds them to the project members.
// The repository unique indexes back the leader and pair checks under concurrent requests.
func (svc *Service) Create(ctx context.Context, nl NewLink) (Link, error) {
	if err := nl.Validate(svc.validate, svc.translator); err != nil {
		return Link{}, err
	}

	if _, err := svc.students.GetStudentByID(ctx, nl.StudentID); err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return Link{}, ErrStudentNotFound
		}
		return Link{}, errors.Wrap(err, "getting student")
	}
	if _, err := svc.projects.GetProjectByID(ctx, nl.ProjectID); err != nil {
		if errors.Cause(err) == project.ErrNotFound {
			return Link{}, ErrProjectNotFound
		}
		return Link{}, errors.Wrap(err, "getting project")
	}

	if nl.Role == RoleLeader {
		links, err := svc.repo.QueryLinksByStudent(ctx, nl.StudentID)
		if err != nil {
			return Link{}, errors.Wrap(err, "querying student links")
		}
		for _, l := range links {
			if l.IsLeader() {
				return Link{}, ErrLeaderExists
			}
		}
	}
	if _, err := svc.repo.GetLinkByPair(ctx, nl.StudentID, nl.ProjectID); err == nil {
		return Link{}, ErrLinkExists
	} else if errors.Cause(err) != ErrNotFound {
		return Link{}, errors.Wrap(err, "getting link by pair")
	}

	link, err := svc.repo.CreateLink(ctx, Link{
		StudentID: nl.StudentID,
		ProjectID: nl.ProjectID,
		Role:      nl.Role,
		CreatedAt: core.Now(),
	})
	if err != nil {
		return Link{}, errors.Wrap(err, "creating link")
	}

	if err = svc.projects.AddMember(ctx, link.ProjectID, link.StudentID); err != nil {
		// undo the link so that the request can be retried as a whole
		if dErr := svc.repo.DeleteLink(ctx, link.ID); dErr != nil {
			svc.logger.Error("removing link after failed member add", dErr, map[string]interface{}{"link": link.ID})
		}
		return Link{}, errors.Wrap(err, "adding project member")
	}
	return link, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Link, error) {
	var links []Link
	var err error
	switch {
	case filter.ProjectID != "":
		links, err = svc.repo.QueryLinksByProject(ctx, filter.ProjectID)
	case filter.StudentID != "":
		links, err = svc.repo.QueryLinksByStudent(ctx, filter.StudentID)
	default:
		links, err = svc.repo.QueryAllLinks(ctx)
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying links")
	}
	matched := make([]Link, 0, len(links))
	for _, l := range links {
		if filter.Match(l) {
			matched = append(matched, l)
		}
	}
	return matched, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Link, error) {
	link, err := svc.repo.GetLinkByID(ctx, id)
	return link, errors.Wrap(err, "getting link")
}

// IsMember reports whether the student holds a link to the project.
func (svc *Service) IsMember(ctx context.Context, studentID, projectID string) (bool, error) {
	_, err := svc.repo.GetLinkByPair(ctx, studentID, projectID)
	switch {
	case err == nil:
		return true, nil
	case errors.Cause(err) == ErrNotFound:
		return false, nil
	}
	return false, errors.Wrap(err, "getting link by pair")
}

// Delete removes the link and the student from the project members.
func (svc *Service) Delete(ctx context.Context, id string) error {
	link, err := svc.repo.GetLinkByID(ctx, id)
	if err != nil {
		return errors.Wrap(err, "getting link")
	}
	err = svc.projects.RemoveMember(ctx, link.ProjectID, link.StudentID)
	if err != nil && errors.Cause(err) != project.ErrNotFound {
		return errors.Wrap(err, "removing project member")
	}
	return errors.Wrap(svc.repo.DeleteLink(ctx, id), "deleting link")
}
