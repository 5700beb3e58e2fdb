package task_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabriel-goncalves1122/SGPA/core/outbox"
	"github.com/gabriel-goncalves1122/SGPA/core/project"
	"github.com/gabriel-goncalves1122/SGPA/core/task"
	"github.com/gabriel-goncalves1122/SGPA/core/team"
	"github.com/gabriel-goncalves1122/SGPA/tests"
)

var errUnavailable = errors.New("store unavailable")

// failingProgress fails its first `failures` writes.
type failingProgress struct {
	task.ProgressRepository
	failures int
}

func (r *failingProgress) SetProgressLog(ctx context.Context, log task.ProgressLog) error {
	if r.failures > 0 {
		r.failures--
		return errUnavailable
	}
	return r.ProgressRepository.SetProgressLog(ctx, log)
}

// failingTasks fails every update.
type failingTasks struct {
	task.Repository
}

func (failingTasks) UpdateTask(context.Context, task.Task) (task.Task, error) {
	return task.Task{}, errUnavailable
}

type fixture struct {
	env  *testutil.Env
	proj project.Project
	tsk  task.Task
	ana  string
}

func newFixture(t *testing.T) fixture {
	env := testutil.NewEnv(t)
	prof := testutil.CreateProfessor(t, env.Professors, "Dr. Roberto Alves", "123456")
	proj := testutil.CreateProject(t, env.Projects, "SGPA", prof.ID, project.StatusInProgress, time.Now())
	ana := testutil.CreateStudent(t, env.Students, "Ana Silva", "20240001", "Engenharia de Computação")
	testutil.CreateLink(t, env.Links, env.Projects, ana.ID, proj.ID, team.RoleLeader)
	tsk := testutil.CreateTask(t, env.Tasks, "Modelar o banco", proj.ID, task.StatusInProgress, ana.ID)
	return fixture{env: env, proj: proj, tsk: tsk, ana: ana.ID}
}

func (f fixture) service(tasks task.Repository, progress task.ProgressRepository) *task.Service {
	env := f.env
	teamSvc := team.NewService(env.Links, env.Students, env.Projects, env.Logger, env.Validate, env.Translator)
	return task.NewService(tasks, progress, env.Projects, teamSvc, env.Relay, env.Logger, env.Validate, env.Translator)
}

func TestService_Update_deferredProgressLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.service(f.env.Tasks, &failingProgress{ProgressRepository: f.env.Progress, failures: 1})

	done, err := svc.Update(ctx, f.tsk.ID, task.UpdateTask{Status: task.StatusDone})
	require.NoError(t, err, "a failed log append does not fail the update")
	assert.True(t, done.IsDone())

	logs, err := svc.Progress(ctx, f.tsk.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)

	n, err := f.env.Relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	logs, err = svc.Progress(ctx, f.tsk.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, []string{f.ana}, logs[0].ResponsibleIDs)
}

func TestService_progressLogIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.service(f.env.Tasks, f.env.Progress)

	_, err := svc.Update(ctx, f.tsk.ID, task.UpdateTask{Status: task.StatusDone})
	require.NoError(t, err)

	// handle the same entry again, as a relay would after a lost outcome
	entry, err := f.env.Relay.Enqueue(ctx, task.KindProgressLog, f.tsk.ID, f.ana)
	require.NoError(t, err)
	require.NoError(t, f.env.Relay.Dispatch(ctx, entry))
	require.NoError(t, f.env.Relay.Dispatch(ctx, entry))

	logs, err := svc.Progress(ctx, f.tsk.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 2, "one per entry")
}

func TestService_Update_failureCancelsProgressLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.service(failingTasks{Repository: f.env.Tasks}, f.env.Progress)

	_, err := svc.Update(ctx, f.tsk.ID, task.UpdateTask{Status: task.StatusDone})
	assert.Error(t, err)

	// nothing is left for the relay
	pending, err := f.env.Outbox.QueryPendingEntries(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	logs, err := svc.Progress(ctx, f.tsk.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestService_Create_done(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.service(f.env.Tasks, f.env.Progress)

	tsk, err := svc.Create(ctx, task.NewTask{
		Description:    "Já feita",
		ResponsibleIDs: []string{f.ana, " ", f.ana},
		ProjectID:      f.proj.ID,
		Status:         task.StatusDone,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{f.ana}, tsk.ResponsibleIDs)

	logs, err := svc.Progress(ctx, tsk.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestService_appendProgressLog_skipsStaleEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.service(f.env.Tasks, f.env.Progress)

	// the task is still in progress: the completing update never landed
	entry, err := f.env.Relay.Enqueue(ctx, task.KindProgressLog, f.tsk.ID, f.ana)
	require.NoError(t, err)
	require.NoError(t, f.env.Relay.Dispatch(ctx, entry))

	// the task is gone
	gone, err := f.env.Relay.Enqueue(ctx, task.KindProgressLog, "lol")
	require.NoError(t, err)
	require.NoError(t, f.env.Relay.Dispatch(ctx, gone))

	logs, err := svc.Progress(ctx, f.tsk.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)

	stored, err := f.env.Outbox.GetEntryByID(ctx, gone.ID)
	require.NoError(t, err)
	assert.Equal(t, outbox.StatusDone, stored.Status)
}
