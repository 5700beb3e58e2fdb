package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabriel-goncalves1122/SGPA/core/project"
	"github.com/gabriel-goncalves1122/SGPA/core/team"
	"github.com/gabriel-goncalves1122/SGPA/core/user"
	"github.com/gabriel-goncalves1122/SGPA/tests"
)

func Test_teamApi(t *testing.T) {
	app, env := setup(t)
	token := getToken(t, env, testutil.CreateUser(t, env.Users, "Prof", "prof@unifei.edu.br", "", user.TypeProfessor))

	roberto := testutil.CreateProfessor(t, env.Professors, "Dr. Roberto Alves", "123456")
	sgpa := testutil.CreateProject(t, env.Projects, "SGPA", roberto.ID, project.StatusInProgress, time.Now())
	iot := testutil.CreateProject(t, env.Projects, "IoT na Agricultura", roberto.ID, project.StatusInProgress, time.Now())
	ana := testutil.CreateStudent(t, env.Students, "Ana Silva", "20240001", "Engenharia de Computação")
	bruno := testutil.CreateStudent(t, env.Students, "Bruno Costa", "20240002", "Engenharia de Computação")
	lead := testutil.CreateLink(t, env.Links, env.Projects, ana.ID, sgpa.ID, team.RoleLeader)

	newLink := func(studentID, projectID, role string) []byte {
		return []byte(`{"idAluno": "` + studentID + `", "idProjeto": "` + projectID + `", "papel": "` + role + `"}`)
	}

	tests := []httpTest{
		{name: "list", path: "/equipes", token: token, wantCode: http.StatusOK, wantData: marchallList(t, lead)},
		{name: "list by project", path: "/equipes?idProjeto=" + iot.ID, token: token, wantCode: http.StatusOK, wantData: marchallList(t)},
		{name: "list by student", path: "/equipes?idAluno=" + ana.ID, token: token, wantCode: http.StatusOK, wantData: marchallList(t, lead)},
		{name: "retrieve", path: "/equipes/" + lead.ID, token: token, wantCode: http.StatusOK, wantData: marchallObj(t, lead)},
		{name: "retrieve unknown", path: "/equipes/lol", token: token, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "team-link not found"})},
		{
			name: "create invalid", method: http.MethodPost, path: "/equipes", token: token,
			body:     []byte(`{"idAluno": "` + bruno.ID + `", "papel": "Chefe"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErrs{Errors: []string{"idProjeto is required", "papel must be one of: Participante, Líder"}}),
		},
		{
			name: "create with unknown student", method: http.MethodPost, path: "/equipes", token: token,
			body: newLink("lol", sgpa.ID, team.RoleMember), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "student not found"}),
		},
		{
			name: "create with unknown project", method: http.MethodPost, path: "/equipes", token: token,
			body: newLink(bruno.ID, "lol", team.RoleMember), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "project not found"}),
		},
		{
			name: "second leader link", method: http.MethodPost, path: "/equipes", token: token,
			body: newLink(ana.ID, iot.ID, team.RoleLeader), wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "student is already the leader of a project"}),
		},
		{
			name: "repeated pair", method: http.MethodPost, path: "/equipes", token: token,
			body: newLink(ana.ID, sgpa.ID, team.RoleMember), wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "student is already linked to this project"}),
		},
		{name: "delete unknown", method: http.MethodDelete, path: "/equipes/lol", token: token, wantCode: http.StatusNotFound},
	}
	runHTTPTests(t, app, tests)

	t.Run("members follow the links", func(t *testing.T) {
		rec := do(app, http.MethodPost, "/equipes", token, newLink(bruno.ID, sgpa.ID, team.RoleMember))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var link team.Link
		unmarshal(t, rec, &link)
		assert.Equal(t, team.RoleMember, link.Role)

		// a leader of one project may take part in others
		rec = do(app, http.MethodPost, "/equipes", token, newLink(ana.ID, iot.ID, team.RoleMember))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var proj project.Project
		unmarshal(t, do(app, http.MethodGet, "/projetos/"+sgpa.ID, token), &proj)
		assert.Equal(t, []string{ana.ID, bruno.ID}, proj.MemberIDs)

		rec = do(app, http.MethodDelete, "/equipes/"+link.ID, token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var msg struct{ Message string }
		unmarshal(t, rec, &msg)
		assert.Equal(t, "team-link "+link.ID+" removed", msg.Message)

		unmarshal(t, do(app, http.MethodGet, "/projetos/"+sgpa.ID, token), &proj)
		assert.Equal(t, []string{ana.ID}, proj.MemberIDs)
	})
}
