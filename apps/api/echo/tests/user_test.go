package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabriel-goncalves1122/SGPA/core/user"
	emailsvc "github.com/gabriel-goncalves1122/SGPA/services/email"
	"github.com/gabriel-goncalves1122/SGPA/tests"
)

func Test_userApi(t *testing.T) {
	app, env := setup(t)
	admin := testutil.CreateUser(t, env.Users, "Admin", "admin@unifei.edu.br", "", user.TypeAdmin)
	prof := testutil.CreateUser(t, env.Users, "Prof", "prof@unifei.edu.br", "", user.TypeProfessor)
	adminToken := getToken(t, env, admin)
	profToken := getToken(t, env, prof)

	forbidden := marchallObj(t, httpErr{Error: "permission denied"})
	tests := []httpTest{
		{name: "no token", path: "/usuarios", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "list as non admin", path: "/usuarios", token: profToken, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "create as non admin", method: http.MethodPost, path: "/usuarios", token: profToken, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "list", path: "/usuarios", token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t, admin, prof)},
		{name: "retrieve", path: "/usuarios/" + prof.ID, token: adminToken, wantCode: http.StatusOK, wantData: marchallObj(t, prof)},
		{name: "retrieve unknown", path: "/usuarios/lol", token: adminToken, wantCode: http.StatusNotFound},
		{
			name: "create invalid", method: http.MethodPost, path: "/usuarios", token: adminToken,
			body:     []byte(`{"nome": "Zé", "email": "ze", "senha": "short", "tipo": "Root"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErrs{Errors: []string{
				"email must be a valid email address",
				"tipo must be one of: Administrador, Professor, Aluno",
				"senha must contain at least 8 characters",
			}}),
		},
		{
			name: "create with taken email", method: http.MethodPost, path: "/usuarios", token: adminToken,
			body:     []byte(`{"nome": "Other", "email": "PROF@unifei.edu.br", "senha": "s3cr3t-p4ss", "tipo": "Professor"}`),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "a user with this email already exists"}),
		},
		{name: "delete self", method: http.MethodDelete, path: "/usuarios/" + admin.ID, token: adminToken, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "delete unknown", method: http.MethodDelete, path: "/usuarios/lol", token: adminToken, wantCode: http.StatusNotFound},
	}
	runHTTPTests(t, app, tests)

	t.Run("create sends a welcome email", func(t *testing.T) {
		emailsvc.ResetSentMessages()
		rec := do(app, http.MethodPost, "/usuarios", adminToken,
			[]byte(`{"nome": "Ana Aluna", "email": "Ana@Unifei.edu.br", "senha": "s3cr3t-p4ss", "tipo": "Aluno"}`))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var usr user.User
		unmarshal(t, rec, &usr)
		assert.Equal(t, "ana@unifei.edu.br", usr.Email)
		assert.Equal(t, user.TypeStudent, usr.Type)
		assert.NotContains(t, rec.Body.String(), "senha")

		require.Len(t, emailsvc.SentMessages, 1)
		msg := emailsvc.SentMessages[0]
		assert.Equal(t, "ana@unifei.edu.br", msg.To[0].Address)
		assert.Contains(t, msg.TextContent, "Ana Aluna")

		// the new user can log in
		rec = do(app, http.MethodPost, "/auth/login", "", []byte(`{"email": "ana@unifei.edu.br", "senha": "s3cr3t-p4ss"}`))
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("delete", func(t *testing.T) {
		rec := do(app, http.MethodDelete, "/usuarios/"+prof.ID, adminToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		rec = do(app, http.MethodGet, "/usuarios/"+prof.ID, adminToken)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
