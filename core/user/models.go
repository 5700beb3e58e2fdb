package user

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/gabriel-goncalves1122/SGPA/core"
)

// Types
const (
	TypeAdmin     = "Administrador"
	TypeProfessor = "Professor"
	TypeStudent   = "Aluno"
)

var Types = []string{TypeAdmin, TypeProfessor, TypeStudent}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"nome"`
	Email        string    `json:"email"`
	Type         string    `json:"tipo"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
	UpdatedAt    time.Time `json:"updatedAt"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool {
	return u.Type == TypeAdmin
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name     string `json:"nome" validate:"required,max=24"`
	Email    string `json:"email" validate:"required,emailshape"`
	Password string `json:"senha" validate:"required"`
	Type     string `json:"tipo" validate:"required,usertipo"`
}

func (nu *NewUser) Validate(validate *validator.Validate, translator ut.Translator) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Type = core.CleanString(nu.Type)
	return core.ValidateStruct(validate, translator, nu)
}

// SetUserPassword carries a new password for an existing User.
// Name and Email are only used by the similarity policy.
type SetUserPassword struct {
	Name     string `json:"-"`
	Email    string `json:"-"`
	Password string `json:"senha" validate:"required"`
}

func (sp SetUserPassword) Validate(validate *validator.Validate, translator ut.Translator) error {
	return core.ValidateStruct(validate, translator, sp)
}
