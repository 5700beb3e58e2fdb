package user_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/user"
	"github.com/gabriel-goncalves1122/SGPA/tests"
)

func TestSetUserPassword_Validate(t *testing.T) {
	validate, translator := testutil.NewValidator()
	tests := []struct {
		name string
		pwd  string
		want []string
	}{
		{"empty", "", []string{"senha is required"}},
		{"too short", "abc", []string{"senha must contain at least 8 characters"}},
		{"like the name", "anasilva1", []string{"senha cannot be similar to the user name or email"}},
		{"like the email", "ana@ufla.br", []string{"senha cannot be similar to the user name or email"}},
		{"strong", "Tr0ub4dor&3xyz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := user.SetUserPassword{Name: "Ana Silva", Email: "ana@ufla.br", Password: tt.pwd}.Validate(validate, translator)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			vErr, ok := errors.Cause(err).(*core.ValidationError)
			if !ok {
				t.Fatalf("Validate() error = %v, want a validation error", err)
			}
			assert.Equal(t, tt.want, vErr.Messages())
		})
	}
}

func TestNewUser_Validate(t *testing.T) {
	validate, translator := testutil.NewValidator()

	nu := user.NewUser{Name: "  Ana Silva ", Email: " ANA@UFLA.BR", Password: "Tr0ub4dor&3xyz", Type: " Aluno "}
	if assert.NoError(t, nu.Validate(validate, translator)) {
		assert.Equal(t, "Ana Silva", nu.Name)
		assert.Equal(t, "ana@ufla.br", nu.Email)
		assert.Equal(t, user.TypeStudent, nu.Type)
	}

	nu = user.NewUser{Name: "Ana", Email: "ana@ufla.br", Password: "Tr0ub4dor&3xyz", Type: "Coordenador"}
	err := nu.Validate(validate, translator)
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	if !ok {
		t.Fatalf("Validate() error = %v, want a validation error", err)
	}
	assert.Equal(t, []string{"tipo must be one of: Administrador, Professor, Aluno"}, vErr.Messages())
}
