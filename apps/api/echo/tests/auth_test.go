package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/gabriel-goncalves1122/SGPA/apps/api/echo"
	"github.com/gabriel-goncalves1122/SGPA/core/user"
	"github.com/gabriel-goncalves1122/SGPA/tests"
)

func Test_home(t *testing.T) {
	app, _ := setup(t)

	rec := do(app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to SGPA API!", rec.Body.String())

	rec = do(app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func Test_authApi_login(t *testing.T) {
	app, env := setup(t)
	testutil.CreateUser(t, env.Users, "Gabriel", "gabriel@unifei.edu.br", "s3nh4-f0rte", user.TypeProfessor)

	tests := []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/auth/login",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErrs{Errors: []string{"email is required", "senha is required"}}),
		},
		{
			name: "unknown email", method: http.MethodPost, path: "/auth/login",
			body:     []byte(`{"email": "lol@unifei.edu.br", "senha": "s3nh4-f0rte"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/auth/login",
			body:     []byte(`{"email": "gabriel@unifei.edu.br", "senha": "lol"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
	}
	runHTTPTests(t, app, tests)

	t.Run("success (email is case-insensitive)", func(t *testing.T) {
		rec := do(app, http.MethodPost, "/auth/login", "", []byte(`{"email": " Gabriel@UNIFEI.edu.br", "senha": "s3nh4-f0rte"}`))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp LoginResponse
		unmarshal(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)

		rec = do(app, http.MethodGet, "/auth/verify", resp.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func Test_authApi_verify(t *testing.T) {
	app, env := setup(t)
	usr := testutil.CreateUser(t, env.Users, "Gabriel", "gabriel@unifei.edu.br", "", user.TypeAdmin)

	expired := GetUserClaims(env.Conf, usr)
	expired.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	expiredToken, err := GenerateToken(env.Conf, expired)
	require.NoError(t, err)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, GetUserClaims(env.Conf, usr)).SignedString([]byte("lol"))
	require.NoError(t, err)

	tests := []httpTest{
		{name: "token missing", path: "/auth/verify", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "token malformed", path: "/auth/verify", token: "lol", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errInvalidToken)},
		{name: "token expired", path: "/auth/verify", token: expiredToken, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errInvalidToken)},
		{name: "token forged", path: "/auth/verify", token: forged, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errInvalidToken)},
		{
			name: "valid token", path: "/auth/verify", token: getToken(t, env, usr), wantCode: http.StatusOK,
			wantData: marchallObj(t, VerifyResponse{
				Message: "user authenticated",
				User:    TokenUser{ID: usr.ID, Name: usr.Name, Email: usr.Email, Type: usr.Type},
			}),
		},
		{name: "other routes need a token", path: "/alunos", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
	}
	runHTTPTests(t, app, tests)
}
