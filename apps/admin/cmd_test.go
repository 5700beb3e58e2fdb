package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabriel-goncalves1122/SGPA/core/user"
	"github.com/gabriel-goncalves1122/SGPA/tests"
)

func setup(t *testing.T) (*commandLine, *testutil.Env, *bytes.Buffer) {
	env := testutil.NewEnv(t)
	logger = env.Logger
	out := new(bytes.Buffer)
	return newCommandLine(env.Conf, env.Store, out), env, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwd        string   // typed at the password prompt
	wantErr    error
	wantErrStr string
	wantOut    string // printed, as a substring
}

func runCLITests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			readPasswordFunc = func(int) ([]byte, error) { return []byte(tt.pwd), nil }

			err := cli.run(append([]string{"admin"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				assert.True(t, errors.Is(err, tt.wantErr), "cli.run() error = %v, wantErr %v", err, tt.wantErr)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, err.Error())
				}
			default:
				assert.NoError(t, err)
			}
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, _, out := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: "Usage:"},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp, wantOut: "Usage:"},
		{name: "unknown flag", args: []string{"report", "-lol"}, wantErr: errHelp},
	}
	runCLITests(t, cli, out, tests)
}

func Test_commandLine_createAdmin(t *testing.T) {
	cli, env, out := setup(t)
	prof := testutil.CreateUser(t, env.Users, "Prof", "prof@unifei.edu.br", "old-p4ssword", user.TypeProfessor)

	tests := []cliTest{
		{name: "no args", args: []string{"createadmin"}, wantErr: errHelp},
		{name: "email but no name", args: []string{"createadmin", "-email", "root@unifei.edu.br"}, wantErr: errHelp},
		{name: "empty password", args: []string{"createadmin", "-email", "root@unifei.edu.br", "-nome", "Root"}, wantErr: errEmptyPassword},
		{
			name: "weak password", args: []string{"createadmin", "-email", "root@unifei.edu.br", "-nome", "Root"}, pwd: "short",
			wantErrStr: "senha must contain at least 8 characters",
		},
		{
			name: "create", args: []string{"createadmin", "-email", "Root@Unifei.edu.br", "-nome", "Root"}, pwd: "s3cr3t-p4ss",
			wantOut: "administrator root@unifei.edu.br created",
		},
		{
			name: "promote existing user", args: []string{"createadmin", "-email", prof.Email, "-nome", "Chefe"}, pwd: "n3w-p4ssword",
			wantOut: "administrator prof@unifei.edu.br updated",
		},
	}
	runCLITests(t, cli, out, tests)

	ctx := context.Background()
	root, err := env.Users.GetUserByEmail(ctx, "root@unifei.edu.br")
	require.NoError(t, err)
	assert.True(t, root.IsAdmin())
	assert.NoError(t, root.CheckPassword("s3cr3t-p4ss"))

	promoted, err := env.Users.GetUserByID(ctx, prof.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())
	assert.Equal(t, "Chefe", promoted.Name)
	assert.NoError(t, promoted.CheckPassword("n3w-p4ssword"))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, env, out := setup(t)
	usr := testutil.CreateUser(t, env.Users, "User", "user@unifei.edu.br", "old-p4ssword", user.TypeStudent)

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@unifei.edu.br"}, wantErr: errEmptyPassword},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@unifei.edu.br"}, pwd: "n3w-p4ssword", wantErr: user.ErrNotFound},
		{
			name: "password like the email", args: []string{"resetpassword", "-email", usr.Email}, pwd: "user@unifei.edu",
			wantErrStr: "senha cannot be similar to the user name or email",
		},
		{
			name: "reset", args: []string{"resetpassword", "-email", "USER@unifei.edu.br"}, pwd: "n3w-p4ssword",
			wantOut: "password of user@unifei.edu.br updated",
		},
	}
	runCLITests(t, cli, out, tests)

	refreshed, err := env.Users.GetUserByID(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.NoError(t, refreshed.CheckPassword("n3w-p4ssword"))
	assert.NotEqual(t, usr.PasswordHash, refreshed.PasswordHash)
}

func Test_commandLine_seed(t *testing.T) {
	cli, env, out := setup(t)
	ctx := context.Background()

	require.NoError(t, cli.run([]string{"admin", "seed"}))
	assert.Contains(t, out.String(), "project Plataforma de Projetos added")

	count := func() (profs, studs, projs, links, tasks int) {
		p, err := env.Professors.QueryAllProfessors(ctx)
		require.NoError(t, err)
		s, err := env.Students.QueryAllStudents(ctx)
		require.NoError(t, err)
		pr, err := env.Projects.QueryAllProjects(ctx)
		require.NoError(t, err)
		l, err := env.Links.QueryAllLinks(ctx)
		require.NoError(t, err)
		tk, err := env.Tasks.QueryAllTasks(ctx)
		require.NoError(t, err)
		return len(p), len(s), len(pr), len(l), len(tk)
	}
	profs, studs, projs, links, tasks := count()
	assert.Equal(t, []int{3, 5, 2, 5, 5}, []int{profs, studs, projs, links, tasks})

	// running it again adds nothing
	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "seed"}))
	assert.Empty(t, out.String())
	profs, studs, projs, links, tasks = count()
	assert.Equal(t, []int{3, 5, 2, 5, 5}, []int{profs, studs, projs, links, tasks})
}

func Test_commandLine_report(t *testing.T) {
	cli, _, out := setup(t)
	require.NoError(t, cli.run([]string{"admin", "seed"}))

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "report"}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "TITULO"))
	assert.Contains(t, lines[1], "Monitoramento de Energia")
	assert.Contains(t, lines[1], "Dra. Maria Fernandes")
	assert.Contains(t, lines[2], "Plataforma de Projetos")

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "report", "-curso", "Engenharia Elétrica"}))
	lines = strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Monitoramento de Energia")
	fields := strings.Fields(lines[1])
	assert.Equal(t, []string{"1", "2", "0"}, fields[len(fields)-3:])
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, out := setup(t)

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "no postgres", args: []string{"migrate", "up"}, wantErr: errNoMigrations},
	}
	runCLITests(t, cli, out, tests)

	var ran []string
	cli.migrateFunc = func(command string, args ...string) error {
		if command == "lol" {
			return errors.New(`"lol": no such command`)
		}
		ran = append(ran, strings.Join(append([]string{command}, args...), " "))
		return nil
	}
	tests = []cliTest{
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: `"lol": no such command`},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "status", args: []string{"migrate", "status"}},
	}
	runCLITests(t, cli, out, tests)
	assert.Equal(t, []string{"up", "up-to 2", "status"}, ran)
}
