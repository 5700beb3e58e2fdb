package docrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/task"
)

type (
	taskRecord struct {
		Description    string     `json:"descricao" bson:"descricao"`
		ResponsibleIDs []string   `json:"responsaveis" bson:"responsaveis"`
		AdvisorID      string     `json:"orientador,omitempty" bson:"orientador,omitempty"`
		ProjectID      string     `json:"idProjeto,omitempty" bson:"idProjeto,omitempty"`
		StartDate      *time.Time `json:"dataInicio" bson:"dataInicio"`
		EndDate        *time.Time `json:"dataFim" bson:"dataFim"`
		Status         string     `json:"status" bson:"status"`
		CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"`
		UpdatedAt      time.Time  `json:"updatedAt" bson:"updatedAt"`
	}

	progressRecord struct {
		TaskID         string    `json:"tarefaId" bson:"tarefaId"`
		Date           time.Time `json:"data" bson:"data"`
		Message        string    `json:"mensagem" bson:"mensagem"`
		ResponsibleIDs []string  `json:"responsaveis" bson:"responsaveis"`
	}
)

func newTaskRecord(t task.Task) taskRecord {
	return taskRecord{
		Description:    t.Description,
		ResponsibleIDs: nonNil(t.ResponsibleIDs),
		AdvisorID:      t.AdvisorID,
		ProjectID:      t.ProjectID,
		StartDate:      t.StartDate,
		EndDate:        t.EndDate,
		Status:         t.Status,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func (r taskRecord) toTask(id string) task.Task {
	return task.Task{
		ID:             id,
		Description:    r.Description,
		ResponsibleIDs: nonNil(r.ResponsibleIDs),
		AdvisorID:      r.AdvisorID,
		ProjectID:      r.ProjectID,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type taskRepository struct {
	coll core.Collection
}

var _ task.Repository = (*taskRepository)(nil)

func NewTaskRepository(store core.DocStore) task.Repository {
	return &taskRepository{coll: store.Collection(TaskCollection)}
}

func (repo *taskRepository) decodeAll(docs []core.Document) ([]task.Task, error) {
	tasks := make([]task.Task, 0, len(docs))
	for _, doc := range docs {
		var rec taskRecord
		if err := doc.DataTo(&rec); err != nil {
			return nil, errors.Wrap(err, "decoding task")
		}
		tasks = append(tasks, rec.toTask(doc.ID()))
	}
	return tasks, nil
}

func (repo *taskRepository) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	id, err := repo.coll.Add(ctx, newTaskRecord(t))
	if err != nil {
		return task.Task{}, err
	}
	t.ID = id
	return t, nil
}

func (repo *taskRepository) QueryAllTasks(ctx context.Context) ([]task.Task, error) {
	docs, err := repo.coll.All(ctx)
	if err != nil {
		return nil, err
	}
	return repo.decodeAll(docs)
}

func (repo *taskRepository) QueryTasksByProject(ctx context.Context, projectID string) ([]task.Task, error) {
	docs, err := repo.coll.Where(ctx, "idProjeto", projectID)
	if err != nil {
		return nil, err
	}
	return repo.decodeAll(docs)
}

func (repo *taskRepository) GetTaskByID(ctx context.Context, id string) (task.Task, error) {
	var rec taskRecord
	if err := getDoc(ctx, repo.coll, id, task.ErrNotFound, &rec); err != nil {
		return task.Task{}, err
	}
	return rec.toTask(id), nil
}

func (repo *taskRepository) UpdateTask(ctx context.Context, t task.Task) (task.Task, error) {
	rec := newTaskRecord(t)
	err := repo.coll.Update(ctx, t.ID, core.Fields{
		"descricao":    rec.Description,
		"responsaveis": rec.ResponsibleIDs,
		"orientador":   rec.AdvisorID,
		"idProjeto":    rec.ProjectID,
		"dataInicio":   rec.StartDate,
		"dataFim":      rec.EndDate,
		"status":       rec.Status,
		"updatedAt":    rec.UpdatedAt,
	})
	if err != nil {
		return task.Task{}, mapNotFound(err, task.ErrNotFound)
	}
	return t, nil
}

func (repo *taskRepository) DeleteTask(ctx context.Context, id string) error {
	return mapNotFound(repo.coll.Delete(ctx, id), task.ErrNotFound)
}

type progressRepository struct {
	coll core.Collection
}

var _ task.ProgressRepository = (*progressRepository)(nil)

func NewProgressRepository(store core.DocStore) task.ProgressRepository {
	return &progressRepository{coll: store.Collection(ProgressCollection)}
}

func (repo *progressRepository) SetProgressLog(ctx context.Context, log task.ProgressLog) error {
	return repo.coll.Set(ctx, log.ID, progressRecord{
		TaskID:         log.TaskID,
		Date:           log.Date,
		Message:        log.Message,
		ResponsibleIDs: nonNil(log.ResponsibleIDs),
	})
}

func (repo *progressRepository) QueryProgressLogsByTask(ctx context.Context, taskID string) ([]task.ProgressLog, error) {
	docs, err := repo.coll.Where(ctx, "tarefaId", taskID)
	if err != nil {
		return nil, err
	}
	logs := make([]task.ProgressLog, 0, len(docs))
	for _, doc := range docs {
		var rec progressRecord
		if err = doc.DataTo(&rec); err != nil {
			return nil, errors.Wrap(err, "decoding progress log")
		}
		logs = append(logs, task.ProgressLog{
			ID:             doc.ID(),
			TaskID:         rec.TaskID,
			Date:           rec.Date,
			Message:        rec.Message,
			ResponsibleIDs: nonNil(rec.ResponsibleIDs),
		})
	}
	return logs, nil
}
