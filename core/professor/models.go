package professor

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/gabriel-goncalves1122/SGPA/core"
)

type Professor struct {
	ID         string    `json:"id"`
	Name       string    `json:"nome"`
	Siape      string    `json:"siape"` // staff id
	Email      string    `json:"email"`
	Department string    `json:"departamento"`
	CreatedAt  time.Time `json:"createdAt"` // UTC
	UpdatedAt  time.Time `json:"updatedAt"` // UTC
}

// NewProfessor contains information needed to create a new Professor.
type NewProfessor struct {
	Name       string `json:"nome" validate:"required,max=50"`
	Siape      string `json:"siape" validate:"required,max=20"`
	Email      string `json:"email" validate:"required,max=50,emailshape"`
	Department string `json:"departamento" validate:"required,max=40"`
}

func (np *NewProfessor) Validate(validate *validator.Validate, translator ut.Translator) error {
	np.Name = core.CleanString(np.Name)
	np.Siape = core.CleanString(np.Siape)
	np.Email = core.CleanString(np.Email, true /* lower */)
	np.Department = core.CleanString(np.Department)
	return core.ValidateStruct(validate, translator, np)
}

// UpdateProfessor defines what information may be provided to modify an existing Professor.
// Blank fields keep their stored value.
type UpdateProfessor struct {
	Name       string `json:"nome"`
	Siape      string `json:"siape"`
	Email      string `json:"email"`
	Department string `json:"departamento"`
}

func (up UpdateProfessor) Merge(orig Professor, validate *validator.Validate, translator ut.Translator) (Professor, error) {
	pick := func(val, orig string) string {
		if v := core.CleanString(val); v != "" {
			return v
		}
		return orig
	}
	merged := NewProfessor{
		Name:       pick(up.Name, orig.Name),
		Siape:      pick(up.Siape, orig.Siape),
		Email:      pick(up.Email, orig.Email),
		Department: pick(up.Department, orig.Department),
	}
	if err := merged.Validate(validate, translator); err != nil {
		return Professor{}, err
	}
	prof := orig
	prof.Name = merged.Name
	prof.Siape = merged.Siape
	prof.Email = merged.Email
	prof.Department = merged.Department
	return prof, nil
}
