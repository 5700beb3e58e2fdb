package professor

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
)

var (
	// errors
	ErrNotFound    = core.NewNotFoundError("professor not found")
	ErrSiapeExists = core.NewConflictError("a professor with this siape already exists")
)

type (
	Repository interface {
		// CreateProfessor fails with ErrSiapeExists when the siape is taken.
		CreateProfessor(ctx context.Context, prof Professor) (Professor, error)
		QueryAllProfessors(ctx context.Context) ([]Professor, error)
		QueryProfessorsByName(ctx context.Context, name string) ([]Professor, error)
		GetProfessorByID(ctx context.Context, id string) (Professor, error)
		GetProfessorBySiape(ctx context.Context, siape string) (Professor, error)
		// UpdateProfessor fails with ErrSiapeExists when the new siape is taken.
		UpdateProfessor(ctx context.Context, prof Professor) (Professor, error)
		DeleteProfessor(ctx context.Context, id string) error
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

// checkSiape fails with ErrSiapeExists if another professor than excludedID holds siape.
func (svc *Service) checkSiape(ctx context.Context, siape, excludedID string) error {
	prof, err := svc.repo.GetProfessorBySiape(ctx, siape)
	switch {
	case errors.Cause(err) == ErrNotFound:
		return nil
	case err != nil:
		return errors.Wrap(err, "getting professor by siape")
	case prof.ID != excludedID:
		return ErrSiapeExists
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, np NewProfessor) (Professor, error) {
	if err := np.Validate(svc.validate, svc.translator); err != nil {
		return Professor{}, err
	}
	if err := svc.checkSiape(ctx, np.Siape, ""); err != nil {
		return Professor{}, err
	}
	now := core.Now()
	prof, err := svc.repo.CreateProfessor(ctx, Professor{
		Name:       np.Name,
		Siape:      np.Siape,
		Email:      np.Email,
		Department: np.Department,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	return prof, errors.Wrap(err, "creating professor")
}

func (svc *Service) QueryAll(ctx context.Context) ([]Professor, error) {
	profs, err := svc.repo.QueryAllProfessors(ctx)
	return profs, errors.Wrap(err, "querying professors")
}

// QueryByName returns the professors whose name is exactly name.
func (svc *Service) QueryByName(ctx context.Context, name string) ([]Professor, error) {
	profs, err := svc.repo.QueryProfessorsByName(ctx, core.CleanString(name))
	return profs, errors.Wrap(err, "querying professors by name")
}

func (svc *Service) GetByID(ctx context.Context, id string) (Professor, error) {
	prof, err := svc.repo.GetProfessorByID(ctx, id)
	return prof, errors.Wrap(err, "getting professor")
}

func (svc *Service) Update(ctx context.Context, id string, up UpdateProfessor) (Professor, error) {
	orig, err := svc.repo.GetProfessorByID(ctx, id)
	if err != nil {
		return Professor{}, errors.Wrap(err, "getting professor")
	}
	prof, err := up.Merge(orig, svc.validate, svc.translator)
	if err != nil {
		return Professor{}, err
	}
	if prof.Siape != orig.Siape {
		if err = svc.checkSiape(ctx, prof.Siape, orig.ID); err != nil {
			return Professor{}, err
		}
	}
	prof.UpdatedAt = core.Now()
	prof, err = svc.repo.UpdateProfessor(ctx, prof)
	return prof, errors.Wrap(err, "updating professor")
}

// Delete removes the Professor. Projects they advise keep the dangling reference.
func (svc *Service) Delete(ctx context.Context, id string) error {
	return errors.Wrap(svc.repo.DeleteProfessor(ctx, id), "deleting professor")
}
