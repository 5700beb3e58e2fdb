package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/gabriel-goncalves1122/SGPA/apps/api/echo"
	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/delivery"
	"github.com/gabriel-goncalves1122/SGPA/core/professor"
	"github.com/gabriel-goncalves1122/SGPA/core/project"
	"github.com/gabriel-goncalves1122/SGPA/core/report"
	"github.com/gabriel-goncalves1122/SGPA/core/student"
	"github.com/gabriel-goncalves1122/SGPA/core/task"
	"github.com/gabriel-goncalves1122/SGPA/core/team"
	"github.com/gabriel-goncalves1122/SGPA/core/user"
	appfs "github.com/gabriel-goncalves1122/SGPA/fs"
	emailsvc "github.com/gabriel-goncalves1122/SGPA/services/email"
	"github.com/gabriel-goncalves1122/SGPA/tests"
)

var (
	errMissingToken = httpErr{Error: "token not provided"}
	errInvalidToken = httpErr{Error: "invalid token"}
)

func setup(t *testing.T) (*Server, *testutil.Env) {
	env := testutil.NewEnv(t)
	core.ParseEmailTemplates(appfs.FS, true, env.Logger)
	emailsvc.ResetSentMessages()

	v, tr := env.Validate, env.Translator
	teamSvc := team.NewService(env.Links, env.Students, env.Projects, env.Logger, v, tr)
	deps := &Deps{
		Store:        env.Store,
		StudentSvc:   student.NewService(env.Students, v, tr),
		ProfessorSvc: professor.NewService(env.Professors, v, tr),
		ProjectSvc:   project.NewService(env.Projects, env.Professors, env.Links, env.Relay, v, tr),
		TaskSvc:      task.NewService(env.Tasks, env.Progress, env.Projects, teamSvc, env.Relay, env.Logger, v, tr),
		TeamSvc:      teamSvc,
		DeliverySvc:  delivery.NewService(env.Deliveries, env.Tasks, env.Students, v, tr),
		UserSvc:      user.NewService(env.Users, emailsvc.NewConsoleServiceMock(env.Conf, env.Logger), v, tr),
		ReportSvc:    report.NewService(env.Projects, env.Tasks, env.Professors, env.Students),
	}
	return NewServer(env.Conf, env.Logger, deps, v, tr), env
}

type httpErr struct {
	Error string `json:"error"`
}

type httpErrs struct {
	Errors []string `json:"errors"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// do serves one request and returns the recorder.
func do(app *Server, method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	app.ServeHTTP(rec, req)
	return rec
}

func getToken(t *testing.T, env *testutil.Env, usr user.User) string {
	token, err := GenerateToken(env.Conf, GetUserClaims(env.Conf, usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal(%s) failed: %v", rec.Body.String(), err)
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, "status code")
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app *Server, tests []httpTest) {
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			rec := do(app, method, tt.path, tt.token, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}
