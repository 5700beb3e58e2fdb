package delivery

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/gabriel-goncalves1122/SGPA/core"
)

// Delivery is a file handed in for a task.
type Delivery struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"idTarefa"`
	File        string    `json:"arquivo"`
	SubmittedAt time.Time `json:"dataEnvio"` // UTC
	StudentID   string    `json:"alunoId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"` // UTC
}

// NewDelivery contains information needed to create a new Delivery.
type NewDelivery struct {
	TaskID      string    `json:"idTarefa" validate:"required"`
	File        string    `json:"arquivo" validate:"required"`
	SubmittedAt core.Date `json:"dataEnvio"`
	StudentID   string    `json:"alunoId"`
}

func (nd *NewDelivery) Validate(validate *validator.Validate, translator ut.Translator) error {
	nd.TaskID = core.CleanString(nd.TaskID)
	nd.File = core.CleanString(nd.File)
	nd.StudentID = core.CleanString(nd.StudentID)
	return core.ValidateStruct(validate, translator, nd)
}

type QueryFilter struct {
	TaskID    string `query:"idTarefa"`
	StudentID string `query:"alunoId"`
}

func (qf *QueryFilter) Clean() {
	qf.TaskID = core.CleanString(qf.TaskID)
	qf.StudentID = core.CleanString(qf.StudentID)
}

func (qf QueryFilter) Match(d Delivery) bool {
	return (qf.TaskID == "" || d.TaskID == qf.TaskID) &&
		(qf.StudentID == "" || d.StudentID == qf.StudentID)
}
