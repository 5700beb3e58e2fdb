package student

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("student not found")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, stud Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByRegistration(ctx context.Context, registration string) (Student, error)
		UpdateStudent(ctx context.Context, stud Student) (Student, error)
		DeleteStudent(ctx context.Context, id string) error
	}

	Service struct {
		repo       Repository
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(repo Repository, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{repo: repo, validate: validate, translator: translator}
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validate, svc.translator); err != nil {
		return Student{}, err
	}
	now := core.Now()
	stud, err := svc.repo.CreateStudent(ctx, Student{
		Name:         ns.Name,
		Registration: ns.Registration,
		Email:        ns.Email,
		Course:       ns.Course,
		Phone:        ns.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return stud, errors.Wrap(err, "creating student")
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	studs, err := svc.repo.QueryAllStudents(ctx)
	return studs, errors.Wrap(err, "querying students")
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	stud, err := svc.repo.GetStudentByID(ctx, id)
	return stud, errors.Wrap(err, "getting student")
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	orig, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, errors.Wrap(err, "getting student")
	}
	stud, err := us.Merge(orig, svc.validate, svc.translator)
	if err != nil {
		return Student{}, err
	}
	stud.UpdatedAt = core.Now()
	stud, err = svc.repo.UpdateStudent(ctx, stud)
	return stud, errors.Wrap(err, "updating student")
}

// Delete removes the Student. References held by projects and tasks are left untouched.
func (svc *Service) Delete(ctx context.Context, id string) error {
	return errors.Wrap(svc.repo.DeleteStudent(ctx, id), "deleting student")
}
