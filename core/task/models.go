package task

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/gabriel-goncalves1122/SGPA/core"
)

// Statuses
const (
	StatusPending    = "Pendente"
	StatusInProgress = "Em andamento"
	StatusDone       = "Concluída"
)

var Statuses = []string{StatusPending, StatusInProgress, StatusDone}

// IsInProgress reports whether status is the in-progress status, ignoring case.
func IsInProgress(status string) bool {
	return core.EqualFold(status, StatusInProgress)
}

type Task struct {
	ID             string     `json:"id"`
	Description    string     `json:"descricao"`
	ResponsibleIDs []string   `json:"responsaveis"`
	AdvisorID      string     `json:"orientador,omitempty"`
	ProjectID      string     `json:"idProjeto,omitempty"`
	StartDate      *time.Time `json:"dataInicio"`
	EndDate        *time.Time `json:"dataFim"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"` // UTC
	UpdatedAt      time.Time  `json:"updatedAt"` // UTC
}

func (t Task) IsDone() bool { return t.Status == StatusDone }

// NewTask contains information needed to create a new Task.
type NewTask struct {
	Description    string    `json:"descricao" validate:"required,max=200"`
	ResponsibleIDs []string  `json:"responsaveis" validate:"required,min=1"`
	AdvisorID      string    `json:"orientador"`
	ProjectID      string    `json:"idProjeto"`
	StartDate      core.Date `json:"dataInicio"`
	EndDate        core.Date `json:"dataFim"`
	Status         string    `json:"status" validate:"taskstatus"`
}

func (nt *NewTask) Validate(validate *validator.Validate, translator ut.Translator) error {
	nt.Description = core.CleanString(nt.Description)
	if nt.ResponsibleIDs != nil {
		nt.ResponsibleIDs = core.CleanStrings(nt.ResponsibleIDs)
	}
	nt.AdvisorID = core.CleanString(nt.AdvisorID)
	nt.ProjectID = core.CleanString(nt.ProjectID)
	nt.Status = core.CleanString(nt.Status)
	if nt.Status == "" {
		nt.Status = StatusPending
	}
	return core.ValidateStruct(validate, translator, nt)
}

// UpdateTask defines what information may be provided to modify an existing Task.
// Blank or absent fields keep their stored value.
type UpdateTask struct {
	Description    string    `json:"descricao"`
	ResponsibleIDs []string  `json:"responsaveis"`
	AdvisorID      *string   `json:"orientador"`
	ProjectID      *string   `json:"idProjeto"`
	StartDate      core.Date `json:"dataInicio"`
	EndDate        core.Date `json:"dataFim"`
	Status         string    `json:"status"`
}

// Merge validates the update applied over orig and returns the resulting Task.
func (upd UpdateTask) Merge(orig Task, validate *validator.Validate, translator ut.Translator) (Task, error) {
	merged := NewTask{
		Description:    orig.Description,
		ResponsibleIDs: orig.ResponsibleIDs,
		AdvisorID:      orig.AdvisorID,
		ProjectID:      orig.ProjectID,
		Status:         orig.Status,
	}
	if orig.StartDate != nil {
		merged.StartDate = core.NewDate(*orig.StartDate)
	}
	if orig.EndDate != nil {
		merged.EndDate = core.NewDate(*orig.EndDate)
	}
	if d := core.CleanString(upd.Description); d != "" {
		merged.Description = d
	}
	if upd.ResponsibleIDs != nil {
		merged.ResponsibleIDs = upd.ResponsibleIDs
	}
	if upd.AdvisorID != nil {
		merged.AdvisorID = *upd.AdvisorID
	}
	if upd.ProjectID != nil {
		merged.ProjectID = *upd.ProjectID
	}
	if upd.StartDate.IsSet() {
		merged.StartDate = upd.StartDate
	}
	if upd.EndDate.IsSet() {
		merged.EndDate = upd.EndDate
	}
	if s := core.CleanString(upd.Status); s != "" {
		merged.Status = s
	}
	if err := merged.Validate(validate, translator); err != nil {
		return Task{}, err
	}

	t := orig
	t.Description = merged.Description
	t.ResponsibleIDs = merged.ResponsibleIDs
	t.AdvisorID = merged.AdvisorID
	t.ProjectID = merged.ProjectID
	t.StartDate = merged.StartDate.Ptr()
	t.EndDate = merged.EndDate.Ptr()
	t.Status = merged.Status
	return t, nil
}

type QueryFilter struct {
	ResponsibleID string `query:"responsaveis"`
	Status        string `query:"status"` // case-insensitive
	ProjectID     string `query:"idProjeto"`
}

func (qf *QueryFilter) Clean() {
	qf.ResponsibleID = core.CleanString(qf.ResponsibleID)
	qf.Status = core.CleanString(qf.Status)
	qf.ProjectID = core.CleanString(qf.ProjectID)
}

func (qf QueryFilter) Match(t Task) bool {
	if qf.ResponsibleID != "" && !core.ContainsString(t.ResponsibleIDs, qf.ResponsibleID) {
		return false
	}
	if qf.Status != "" && !core.EqualFold(t.Status, qf.Status) {
		return false
	}
	if qf.ProjectID != "" && t.ProjectID != qf.ProjectID {
		return false
	}
	return true
}

// ProgressLog is appended when a task enters the done status.
type ProgressLog struct {
	ID             string    `json:"id"`
	TaskID         string    `json:"tarefaId"`
	Date           time.Time `json:"data"` // UTC
	Message        string    `json:"mensagem"`
	ResponsibleIDs []string  `json:"responsaveis"`
}

const ProgressMessage = "Tarefa marcada como Concluída"
