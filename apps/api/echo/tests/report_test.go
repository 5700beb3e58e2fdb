package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/gabriel-goncalves1122/SGPA/core/project"
	"github.com/gabriel-goncalves1122/SGPA/core/report"
	"github.com/gabriel-goncalves1122/SGPA/core/task"
	"github.com/gabriel-goncalves1122/SGPA/core/team"
	"github.com/gabriel-goncalves1122/SGPA/core/user"
	"github.com/gabriel-goncalves1122/SGPA/tests"
)

func Test_reportApi(t *testing.T) {
	app, env := setup(t)
	token := getToken(t, env, testutil.CreateUser(t, env.Users, "Prof", "prof@unifei.edu.br", "", user.TypeProfessor))

	roberto := testutil.CreateProfessor(t, env.Professors, "Dr. Roberto Alves", "123456")
	maria := testutil.CreateProfessor(t, env.Professors, "Dra. Maria Fernandes", "234567")
	sgpa := testutil.CreateProject(t, env.Projects, "SGPA", roberto.ID, project.StatusInProgress, time.Now())
	robot := testutil.CreateProject(t, env.Projects, "Robô Autônomo", maria.ID, project.StatusDone, time.Now())
	orphan := testutil.CreateProject(t, env.Projects, "Antigo", "gone", project.StatusCancelled, time.Now())

	ana := testutil.CreateStudent(t, env.Students, "Ana Silva", "20240001", "Engenharia de Computação")
	bruno := testutil.CreateStudent(t, env.Students, "Bruno Costa", "20240002", "Engenharia Elétrica")
	carla := testutil.CreateStudent(t, env.Students, "Carla Dias", "20240003", "Engenharia de Computação")
	testutil.CreateLink(t, env.Links, env.Projects, ana.ID, sgpa.ID, team.RoleLeader)
	testutil.CreateLink(t, env.Links, env.Projects, bruno.ID, sgpa.ID, team.RoleMember)
	testutil.CreateLink(t, env.Links, env.Projects, bruno.ID, robot.ID, team.RoleLeader)
	testutil.CreateLink(t, env.Links, env.Projects, carla.ID, robot.ID, team.RoleMember)

	testutil.CreateTask(t, env.Tasks, "a", sgpa.ID, task.StatusDone, ana.ID)
	testutil.CreateTask(t, env.Tasks, "b", sgpa.ID, task.StatusDone, bruno.ID)
	testutil.CreateTask(t, env.Tasks, "c", sgpa.ID, task.StatusInProgress, ana.ID)
	testutil.CreateTask(t, env.Tasks, "d", robot.ID, task.StatusDone, carla.ID)
	testutil.CreateTask(t, env.Tasks, "e", robot.ID, task.StatusPending, carla.ID)

	sgpaRow := report.ProjectRow{
		ID: sgpa.ID, Title: sgpa.Title, Advisor: report.Advisor{ID: roberto.ID, Name: roberto.Name},
		NumStudents: 2, TotalTasks: 3, PercentCompleted: 67,
	}
	robotRow := report.ProjectRow{
		ID: robot.ID, Title: robot.Title, Advisor: report.Advisor{ID: maria.ID, Name: maria.Name},
		NumStudents: 2, TotalTasks: 2, PercentCompleted: 50,
	}
	orphanRow := report.ProjectRow{
		ID: orphan.ID, Title: orphan.Title, Advisor: report.Advisor{ID: "gone", Name: "gone"},
	}

	path := "/relatorios/projetos"
	tests := []httpTest{
		{name: "no token", path: path, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "all, by title", path: path, token: token, wantCode: http.StatusOK, wantData: marchallList(t, orphanRow, robotRow, sgpaRow)},
		{name: "by advisor", path: path + "?orientador=" + maria.ID, token: token, wantCode: http.StatusOK, wantData: marchallList(t, robotRow)},
		{name: "by status", path: path + "?status=EM%20ANDAMENTO", token: token, wantCode: http.StatusOK, wantData: marchallList(t, sgpaRow)},
		{
			name: "by course counts matching members only", path: path + "?curso=engenharia%20el%C3%A9trica", token: token,
			wantCode: http.StatusOK,
			wantData: marchallList(t,
				report.ProjectRow{ID: robot.ID, Title: robot.Title, Advisor: robotRow.Advisor, NumStudents: 1, TotalTasks: 2, PercentCompleted: 50},
				report.ProjectRow{ID: sgpa.ID, Title: sgpa.Title, Advisor: sgpaRow.Advisor, NumStudents: 1, TotalTasks: 3, PercentCompleted: 67},
			),
		},
		{name: "by unknown course", path: path + "?curso=Medicina", token: token, wantCode: http.StatusOK, wantData: marchallList(t)},
	}
	runHTTPTests(t, app, tests)
}
