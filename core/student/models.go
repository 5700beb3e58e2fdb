package student

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/gabriel-goncalves1122/SGPA/core"
)

type Student struct {
	ID           string    `json:"id"`
	Name         string    `json:"nome"`
	Registration string    `json:"matricula"`
	Email        string    `json:"email"`
	Course       string    `json:"curso"`
	Phone        string    `json:"telefone"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
	UpdatedAt    time.Time `json:"updatedAt"` // UTC
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name         string `json:"nome" validate:"required,max=50"`
	Registration string `json:"matricula" validate:"required,max=10"`
	Email        string `json:"email" validate:"required,max=50,emailshape"`
	Course       string `json:"curso" validate:"required,max=30"`
	Phone        string `json:"telefone" validate:"required,max=15"`
}

func (ns *NewStudent) clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Registration = core.CleanString(ns.Registration)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Course = core.CleanString(ns.Course)
	ns.Phone = core.CleanString(ns.Phone)
}

func (ns *NewStudent) Validate(validate *validator.Validate, translator ut.Translator) error {
	ns.clean()
	return core.ValidateStruct(validate, translator, ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Blank fields keep their stored value.
type UpdateStudent struct {
	Name         string `json:"nome"`
	Registration string `json:"matricula"`
	Email        string `json:"email"`
	Course       string `json:"curso"`
	Phone        string `json:"telefone"`
}

// Merge validates the update applied over orig and returns the resulting Student.
func (us UpdateStudent) Merge(orig Student, validate *validator.Validate, translator ut.Translator) (Student, error) {
	merged := NewStudent{
		Name:         pick(us.Name, orig.Name),
		Registration: pick(us.Registration, orig.Registration),
		Email:        pick(us.Email, orig.Email),
		Course:       pick(us.Course, orig.Course),
		Phone:        pick(us.Phone, orig.Phone),
	}
	if err := merged.Validate(validate, translator); err != nil {
		return Student{}, err
	}
	stud := orig
	stud.Name = merged.Name
	stud.Registration = merged.Registration
	stud.Email = merged.Email
	stud.Course = merged.Course
	stud.Phone = merged.Phone
	return stud, nil
}

func pick(val, orig string) string {
	if v := core.CleanString(val); v != "" {
		return v
	}
	return orig
}
