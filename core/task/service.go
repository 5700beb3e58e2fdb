package task

import (
	"context"
	"fmt"
	"sort"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/outbox"
	"github.com/gabriel-goncalves1122/SGPA/core/project"
)

// KindProgressLog is the outbox entry kind appending the progress-log of a completed task.
const KindProgressLog = "task.progress_log"

var (
	// errors
	ErrNotFound             = core.NewNotFoundError("task not found")
	ErrProjectNotFound      = core.NewBadReferenceError("project not found")
	ErrProjectNotInProgress = core.NewBadReferenceError("project is not in progress")
	ErrResponsibleNotMember = core.NewBadReferenceError("every responsible must be a member of the project")
)

type (
	Repository interface {
		CreateTask(ctx context.Context, t Task) (Task, error)
		QueryAllTasks(ctx context.Context) ([]Task, error)
		QueryTasksByProject(ctx context.Context, projectID string) ([]Task, error)
		GetTaskByID(ctx context.Context, id string) (Task, error)
		UpdateTask(ctx context.Context, t Task) (Task, error)
		DeleteTask(ctx context.Context, id string) error
	}

	ProgressRepository interface {
		// SetProgressLog creates or replaces the log with the given ID.
		SetProgressLog(ctx context.Context, log ProgressLog) error
		QueryProgressLogsByTask(ctx context.Context, taskID string) ([]ProgressLog, error)
	}

	ProjectGetter interface {
		GetProjectByID(ctx context.Context, id string) (project.Project, error)
	}

	MembershipChecker interface {
		IsMember(ctx context.Context, studentID, projectID string) (bool, error)
	}

	Service struct {
		repo       Repository
		progress   ProgressRepository
		projects   ProjectGetter
		members    MembershipChecker
		outbox     outbox.Outbox
		logger     core.Logger
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(
	repo Repository,
	progress ProgressRepository,
	projects ProjectGetter,
	members MembershipChecker,
	ob outbox.Outbox,
	logger core.Logger,
	validate *validator.Validate,
	translator ut.Translator,
) *Service {
	svc := &Service{
		repo:       repo,
		progress:   progress,
		projects:   projects,
		members:    members,
		outbox:     ob,
		logger:     logger,
		validate:   validate,
		translator: translator,
	}
	ob.Register(KindProgressLog, svc.appendProgressLog)
	return svc
}

// checkProjectLinkage verifies that the project exists, is in progress and counts every
// responsible among its members.
func (svc *Service) checkProjectLinkage(ctx context.Context, projectID string, responsibleIDs []string) error {
	proj, err := svc.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Cause(err) == project.ErrNotFound {
			return ErrProjectNotFound
		}
		return errors.Wrap(err, "getting project")
	}
	if !project.IsInProgress(proj.Status) {
		return ErrProjectNotInProgress
	}
	for _, id := range responsibleIDs {
		ok, err := svc.members.IsMember(ctx, id, projectID)
		if err != nil {
			return errors.Wrap(err, "checking project membership")
		}
		if !ok {
			return ErrResponsibleNotMember
		}
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nt NewTask) (Task, error) {
	if err := nt.Validate(svc.validate, svc.translator); err != nil {
		return Task{}, err
	}
	if nt.ProjectID != "" {
		if err := svc.checkProjectLinkage(ctx, nt.ProjectID, nt.ResponsibleIDs); err != nil {
			return Task{}, err
		}
	}

	now := core.Now()
	t, err := svc.repo.CreateTask(ctx, Task{
		Description:    nt.Description,
		ResponsibleIDs: nt.ResponsibleIDs,
		AdvisorID:      nt.AdvisorID,
		ProjectID:      nt.ProjectID,
		StartDate:      nt.StartDate.Ptr(),
		EndDate:        nt.EndDate.Ptr(),
		Status:         nt.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return Task{}, errors.Wrap(err, "creating task")
	}

	if t.IsDone() {
		entry, err := svc.outbox.Enqueue(ctx, KindProgressLog, t.ID, t.ResponsibleIDs...)
		if err != nil {
			return Task{}, errors.Wrap(err, "scheduling progress log")
		}
		svc.dispatch(ctx, entry)
	}
	return t, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Task, error) {
	filter.Clean()
	var tasks []Task
	var err error
	if filter.ProjectID != "" {
		tasks, err = svc.repo.QueryTasksByProject(ctx, filter.ProjectID)
	} else {
		tasks, err = svc.repo.QueryAllTasks(ctx)
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}
	matched := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if filter.Match(t) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Task, error) {
	t, err := svc.repo.GetTaskByID(ctx, id)
	return t, errors.Wrap(err, "getting task")
}

// Update modifies the task. Moving it into the done status from any other status appends
// one progress-log, through the outbox so that a failed append is retried later.
func (svc *Service) Update(ctx context.Context, id string, upd UpdateTask) (Task, error) {
	orig, err := svc.repo.GetTaskByID(ctx, id)
	if err != nil {
		return Task{}, errors.Wrap(err, "getting task")
	}
	t, err := upd.Merge(orig, svc.validate, svc.translator)
	if err != nil {
		return Task{}, err
	}
	linkageChanged := t.ProjectID != orig.ProjectID || !sameStrings(t.ResponsibleIDs, orig.ResponsibleIDs)
	if t.ProjectID != "" && linkageChanged {
		if err = svc.checkProjectLinkage(ctx, t.ProjectID, t.ResponsibleIDs); err != nil {
			return Task{}, err
		}
	}

	var entry outbox.Entry
	completing := t.IsDone() && !orig.IsDone()
	if completing {
		// recorded before the update: once the update lands the log is guaranteed
		if entry, err = svc.outbox.Enqueue(ctx, KindProgressLog, t.ID, t.ResponsibleIDs...); err != nil {
			return Task{}, errors.Wrap(err, "scheduling progress log")
		}
	}

	t.UpdatedAt = core.Now()
	if t, err = svc.repo.UpdateTask(ctx, t); err != nil {
		if completing {
			if cErr := svc.outbox.Cancel(ctx, entry, err.Error()); cErr != nil {
				svc.logger.Error("cancelling progress log", cErr, map[string]interface{}{"task": id})
			}
		}
		return Task{}, errors.Wrap(err, "updating task")
	}

	if completing {
		svc.dispatch(ctx, entry)
	}
	return t, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return errors.Wrap(svc.repo.DeleteTask(ctx, id), "deleting task")
}

// Progress returns the progress-logs of a task, oldest first.
func (svc *Service) Progress(ctx context.Context, taskID string) ([]ProgressLog, error) {
	if _, err := svc.repo.GetTaskByID(ctx, taskID); err != nil {
		return nil, errors.Wrap(err, "getting task")
	}
	logs, err := svc.progress.QueryProgressLogsByTask(ctx, taskID)
	if err != nil {
		return nil, errors.Wrap(err, "querying progress logs")
	}
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Date.Before(logs[j].Date) })
	return logs, nil
}

// dispatch runs the follow-up of an already committed change. Failures are left to the relay.
func (svc *Service) dispatch(ctx context.Context, entry outbox.Entry) {
	if err := svc.outbox.Dispatch(ctx, entry); err != nil {
		svc.logger.Warn(fmt.Sprintf("progress log of task %s deferred to the outbox relay", entry.Ref), err)
	}
}

// appendProgressLog writes the log of a task completion. The log reuses the entry ID so that
// handling the entry again overwrites the same log.
func (svc *Service) appendProgressLog(ctx context.Context, e outbox.Entry) error {
	t, err := svc.repo.GetTaskByID(ctx, e.Ref)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil // deleted meanwhile, nothing left to log
		}
		return errors.Wrap(err, "getting task")
	}
	if !t.IsDone() {
		return nil // the completing update never landed
	}
	err = svc.progress.SetProgressLog(ctx, ProgressLog{
		ID:             e.ID,
		TaskID:         e.Ref,
		Date:           e.CreatedAt,
		Message:        ProgressMessage,
		ResponsibleIDs: e.Values,
	})
	return errors.Wrap(err, "writing progress log")
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
