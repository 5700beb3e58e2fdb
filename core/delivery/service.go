package delivery

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/student"
	"github.com/gabriel-goncalves1122/SGPA/core/task"
)

var (
	// errors
	ErrNotFound          = core.NewNotFoundError("delivery not found")
	ErrTaskNotFound      = core.NewBadReferenceError("task not found")
	ErrTaskNotInProgress = core.NewBadReferenceError("task is not in progress")
	ErrStudentNotFound   = core.NewBadReferenceError("student not found")
)

type (
	Repository interface {
		CreateDelivery(ctx context.Context, d Delivery) (Delivery, error)
		QueryAllDeliveries(ctx context.Context) ([]Delivery, error)
		QueryDeliveriesByTask(ctx context.Context, taskID string) ([]Delivery, error)
		GetDeliveryByID(ctx context.Context, id string) (Delivery, error)
		DeleteDelivery(ctx context.Context, id string) error
	}

	TaskGetter interface {
		GetTaskByID(ctx context.Context, id string) (task.Task, error)
	}

	StudentGetter interface {
		GetStudentByID(ctx context.Context, id string) (student.Student, error)
	}

	Service struct {
		repo       Repository
		tasks      TaskGetter
		students   StudentGetter
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(
	repo Repository,
	tasks TaskGetter,
	students StudentGetter,
	validate *validator.Validate,
	translator ut.Translator,
) *Service {
	return &Service{
		repo:       repo,
		tasks:      tasks,
		students:   students,
		validate:   validate,
		translator: translator,
	}
}

// Create records a delivery for a task currently in progress.
func (svc *Service) Create(ctx context.Context, nd NewDelivery) (Delivery, error) {
	if err := nd.Validate(svc.validate, svc.translator); err != nil {
		return Delivery{}, err
	}

	t, err := svc.tasks.GetTaskByID(ctx, nd.TaskID)
	if err != nil {
		if errors.Cause(err) == task.ErrNotFound {
			return Delivery{}, ErrTaskNotFound
		}
		return Delivery{}, errors.Wrap(err, "getting task")
	}
	if !task.IsInProgress(t.Status) {
		return Delivery{}, ErrTaskNotInProgress
	}
	if nd.StudentID != "" {
		if _, err = svc.students.GetStudentByID(ctx, nd.StudentID); err != nil {
			if errors.Cause(err) == student.ErrNotFound {
				return Delivery{}, ErrStudentNotFound
			}
			return Delivery{}, errors.Wrap(err, "getting student")
		}
	}

	now := core.Now()
	submittedAt := now
	if nd.SubmittedAt.IsValid() {
		submittedAt = nd.SubmittedAt.Time
	}
	d, err := svc.repo.CreateDelivery(ctx, Delivery{
		TaskID:      nd.TaskID,
		File:        nd.File,
		SubmittedAt: submittedAt,
		StudentID:   nd.StudentID,
		CreatedAt:   now,
	})
	return d, errors.Wrap(err, "creating delivery")
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Delivery, error) {
	filter.Clean()
	var deliveries []Delivery
	var err error
	if filter.TaskID != "" {
		deliveries, err = svc.repo.QueryDeliveriesByTask(ctx, filter.TaskID)
	} else {
		deliveries, err = svc.repo.QueryAllDeliveries(ctx)
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying deliveries")
	}
	matched := make([]Delivery, 0, len(deliveries))
	for _, d := range deliveries {
		if filter.Match(d) {
			matched = append(matched, d)
		}
	}
	return matched, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Delivery, error) {
	d, err := svc.repo.GetDeliveryByID(ctx, id)
	return d, errors.Wrap(err, "getting delivery")
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return errors.Wrap(svc.repo.DeleteDelivery(ctx, id), "deleting delivery")
}
