package team

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/gabriel-goncalves1122/SGPA/core"
)

// Roles
const (
	RoleMember = "Participante"
	RoleLeader = "Líder"
)

var Roles = []string{RoleMember, RoleLeader}

// Link ties a student to a project under a role.
type Link struct {
	ID        string    `json:"id"`
	StudentID string    `json:"idAluno"`
	ProjectID string    `json:"idProjeto"`
	Role      string    `json:"papel"`
	CreatedAt time.Time `json:"createdAt"` // UTC
}

func (l Link) IsLeader() bool { return l.Role == RoleLeader }

// NewLink contains information needed to create a new Link.
type NewLink struct {
	StudentID string `json:"idAluno" validate:"required"`
	ProjectID string `json:"idProjeto" validate:"required"`
	Role      string `json:"papel" validate:"required,papel"`
}

func (nl *NewLink) Validate(validate *validator.Validate, translator ut.Translator) error {
	nl.StudentID = core.CleanString(nl.StudentID)
	nl.ProjectID = core.CleanString(nl.ProjectID)
	nl.Role = core.CleanString(nl.Role)
	return core.ValidateStruct(validate, translator, nl)
}

type QueryFilter struct {
	ProjectID string `query:"idProjeto"`
	StudentID string `query:"idAluno"`
}

func (qf QueryFilter) Match(l Link) bool {
	return (qf.ProjectID == "" || l.ProjectID == qf.ProjectID) &&
		(qf.StudentID == "" || l.StudentID == qf.StudentID)
}
