package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabriel-goncalves1122/SGPA/core/delivery"
	"github.com/gabriel-goncalves1122/SGPA/core/project"
	"github.com/gabriel-goncalves1122/SGPA/core/task"
	"github.com/gabriel-goncalves1122/SGPA/core/user"
	"github.com/gabriel-goncalves1122/SGPA/tests"
)

func Test_deliveryApi(t *testing.T) {
	app, env := setup(t)
	token := getToken(t, env, testutil.CreateUser(t, env.Users, "Prof", "prof@unifei.edu.br", "", user.TypeProfessor))

	roberto := testutil.CreateProfessor(t, env.Professors, "Dr. Roberto Alves", "123456")
	sgpa := testutil.CreateProject(t, env.Projects, "SGPA", roberto.ID, project.StatusInProgress, time.Now())
	ana := testutil.CreateStudent(t, env.Students, "Ana Silva", "20240001", "Engenharia de Computação")
	doing := testutil.CreateTask(t, env.Tasks, "Modelar o banco", sgpa.ID, task.StatusInProgress, ana.ID)
	pending := testutil.CreateTask(t, env.Tasks, "Ler artigos", sgpa.ID, task.StatusPending, ana.ID)

	newDelivery := func(taskID, studentID string) []byte {
		return []byte(`{"idTarefa": "` + taskID + `", "arquivo": "https://files.unifei.edu.br/modelo.pdf", "alunoId": "` + studentID + `"}`)
	}

	tests := []httpTest{
		{name: "list empty", path: "/entregas", token: token, wantCode: http.StatusOK, wantData: marchallList(t)},
		{name: "retrieve unknown", path: "/entregas/lol", token: token, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "delivery not found"})},
		{
			name: "create invalid", method: http.MethodPost, path: "/entregas", token: token, body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErrs{Errors: []string{"idTarefa is required", "arquivo is required"}}),
		},
		{
			name: "create for unknown task", method: http.MethodPost, path: "/entregas", token: token,
			body: newDelivery("lol", ""), wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "task not found"}),
		},
		{
			name: "create for task not in progress", method: http.MethodPost, path: "/entregas", token: token,
			body: newDelivery(pending.ID, ""), wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "task is not in progress"}),
		},
		{
			name: "create by unknown student", method: http.MethodPost, path: "/entregas", token: token,
			body: newDelivery(doing.ID, "lol"), wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "student not found"}),
		},
		{name: "delete unknown", method: http.MethodDelete, path: "/entregas/lol", token: token, wantCode: http.StatusNotFound},
	}
	runHTTPTests(t, app, tests)

	t.Run("create, list and delete", func(t *testing.T) {
		rec := do(app, http.MethodPost, "/entregas", token, newDelivery(doing.ID, ana.ID))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var d delivery.Delivery
		unmarshal(t, rec, &d)
		assert.Equal(t, doing.ID, d.TaskID)
		assert.Equal(t, ana.ID, d.StudentID)
		assert.False(t, d.SubmittedAt.IsZero())

		rec = do(app, http.MethodPost, "/entregas", token,
			[]byte(`{"idTarefa": "`+doing.ID+`", "arquivo": "v2.pdf", "dataEnvio": "2024-05-02T14:30"}`))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var d2 delivery.Delivery
		unmarshal(t, rec, &d2)
		assert.Equal(t, time.Date(2024, 5, 2, 14, 30, 0, 0, time.UTC), d2.SubmittedAt)

		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, d)},
			do(app, http.MethodGet, "/entregas?alunoId="+ana.ID, token))
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, d, d2)},
			do(app, http.MethodGet, "/entregas?idTarefa="+doing.ID, token))

		rec = do(app, http.MethodDelete, "/entregas/"+d.ID, token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, d2)},
			do(app, http.MethodGet, "/entregas", token))
	})
}
