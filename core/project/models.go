package project

import (
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/gabriel-goncalves1122/SGPA/core"
)

// Statuses known to the application. Status is a free label, these are only the usual ones.
const (
	StatusInProgress = "Em andamento"
	StatusActive     = "Ativo"
	StatusDone       = "Concluído"
	StatusCancelled  = "Cancelado"

	DefaultStatus = StatusInProgress
)

// IsInProgress reports whether status is an in-progress equivalent, ignoring case.
func IsInProgress(status string) bool {
	return core.EqualFold(status, StatusInProgress) || core.EqualFold(status, StatusActive)
}

type Project struct {
	ID          string      `json:"id"`
	Title       string      `json:"titulo"`
	Description string      `json:"descricao"`
	AdvisorID   string      `json:"orientador"`
	StartDate   time.Time   `json:"dataInicio"`
	EndDate     *time.Time  `json:"dataFim"`
	Status      string      `json:"status"`
	MemberIDs   []string    `json:"alunos"`
	Submission  *Submission `json:"entrega,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"` // UTC
	UpdatedAt   time.Time   `json:"updatedAt"` // UTC
}

func (p Project) HasMember(studentID string) bool {
	return core.ContainsString(p.MemberIDs, studentID)
}

// Submission summarises the final delivery of a project.
type Submission struct {
	ID          string     `json:"id,omitempty"`
	SubmittedAt *time.Time `json:"dataEntrega,omitempty"`
	FileURL     string     `json:"arquivoUrl,omitempty"`
	Notes       string     `json:"observacoes,omitempty"`
	Grade       *float64   `json:"avaliacao,omitempty"`
}

// NewProject contains information needed to create a new Project.
type NewProject struct {
	Title       string    `json:"titulo" validate:"required,max=80"`
	Description string    `json:"descricao" validate:"max=500"`
	AdvisorID   string    `json:"orientador" validate:"required"`
	StartDate   core.Date `json:"dataInicio"`
	EndDate     core.Date `json:"dataFim"`
	Status      string    `json:"status" validate:"max=30"`
}

func (np *NewProject) Validate(validate *validator.Validate, translator ut.Translator) error {
	np.Title = core.CleanString(np.Title)
	np.Description = core.CleanString(np.Description)
	np.AdvisorID = core.CleanString(np.AdvisorID)
	np.Status = core.CleanString(np.Status)
	if np.Status == "" {
		np.Status = DefaultStatus
	}
	return core.ValidateStruct(validate, translator, np)
}

// UpdateProject defines what information may be provided to modify an existing Project.
// Title and advisor are write-once: they may only be repeated with their stored value.
type UpdateProject struct {
	Title       string      `json:"titulo"`
	AdvisorID   string      `json:"orientador"`
	Description *string     `json:"descricao"`
	StartDate   core.Date   `json:"dataInicio"`
	EndDate     core.Date   `json:"dataFim"`
	Status      string      `json:"status"`
	Submission  *Submission `json:"entrega"`
}

// Merge checks the write-once fields, validates the update applied over orig
// and returns the resulting Project.
func (up UpdateProject) Merge(orig Project, validate *validator.Validate, translator ut.Translator) (Project, error) {
	if title := core.CleanString(up.Title); title != "" && title != orig.Title {
		return Project{}, core.NewImmutableFieldError("titulo")
	}
	if advisor := core.CleanString(up.AdvisorID); advisor != "" && advisor != orig.AdvisorID {
		return Project{}, core.NewImmutableFieldError("orientador")
	}

	merged := NewProject{
		Title:       orig.Title,
		Description: orig.Description,
		AdvisorID:   orig.AdvisorID,
		StartDate:   core.NewDate(orig.StartDate),
		Status:      orig.Status,
	}
	if orig.EndDate != nil {
		merged.EndDate = core.NewDate(*orig.EndDate)
	}
	if up.Description != nil {
		merged.Description = *up.Description
	}
	if up.StartDate.IsSet() {
		merged.StartDate = up.StartDate
	}
	if up.EndDate.IsSet() {
		merged.EndDate = up.EndDate
	}
	if status := core.CleanString(up.Status); status != "" {
		merged.Status = status
	}
	if err := merged.Validate(validate, translator); err != nil {
		return Project{}, err
	}

	proj := orig
	proj.Description = merged.Description
	proj.StartDate = merged.StartDate.Time
	proj.EndDate = merged.EndDate.Ptr()
	proj.Status = merged.Status
	if up.Submission != nil {
		proj.Submission = up.Submission
	}
	return proj, nil
}

type QueryFilter struct {
	Title     string `query:"titulo"` // case-insensitive substring
	AdvisorID string `query:"orientador"`
	Status    string `query:"status"` // case-insensitive
}

func (qf *QueryFilter) Clean() {
	qf.Title = core.CleanString(qf.Title, true /* lower */)
	qf.AdvisorID = core.CleanString(qf.AdvisorID)
	qf.Status = core.CleanString(qf.Status)
}

func (qf QueryFilter) Match(p Project) bool {
	if qf.Title != "" && !strings.Contains(strings.ToLower(p.Title), qf.Title) {
		return false
	}
	if qf.AdvisorID != "" && p.AdvisorID != qf.AdvisorID {
		return false
	}
	if qf.Status != "" && !core.EqualFold(p.Status, qf.Status) {
		return false
	}
	return true
}
