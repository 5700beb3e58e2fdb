package report

import "github.com/gabriel-goncalves1122/SGPA/core"

// ProjectRow is the progress summary of one project.
type ProjectRow struct {
	ID               string  `json:"id"`
	Title            string  `json:"titulo"`
	Advisor          Advisor `json:"orientador"`
	NumStudents      int     `json:"numeroAlunos"`
	TotalTasks       int     `json:"totalTarefas"`
	PercentCompleted int     `json:"percentConcluidas"`
}

// Advisor names the project advisor. Name falls back to ID when the professor is missing.
type Advisor struct {
	ID   string `json:"id"`
	Name string `json:"nome"`
}

type QueryFilter struct {
	AdvisorID string `query:"orientador"`
	Status    string `query:"status"` // case-insensitive
	Course    string `query:"curso"`  // case-insensitive, applies to the project members
}

func (qf *QueryFilter) Clean() {
	qf.AdvisorID = core.CleanString(qf.AdvisorID)
	qf.Status = core.CleanString(qf.Status)
	qf.Course = core.CleanString(qf.Course)
}
