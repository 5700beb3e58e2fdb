package team_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabriel-goncalves1122/SGPA/core/project"
	"github.com/gabriel-goncalves1122/SGPA/core/team"
	"github.com/gabriel-goncalves1122/SGPA/tests"
)

// brokenMembers cannot add members.
type brokenMembers struct {
	team.ProjectMembers
}

func (brokenMembers) AddMember(context.Context, string, string) error {
	return errors.New("store unavailable")
}

func TestService_Create_undoesLinkOnFailedMemberAdd(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	svc := team.NewService(env.Links, env.Students, brokenMembers{env.Projects}, env.Logger, env.Validate, env.Translator)

	prof := testutil.CreateProfessor(t, env.Professors, "Dr. Roberto Alves", "123456")
	proj := testutil.CreateProject(t, env.Projects, "SGPA", prof.ID, project.StatusInProgress, time.Now())
	ana := testutil.CreateStudent(t, env.Students, "Ana Silva", "20240001", "Engenharia de Computação")

	_, err := svc.Create(ctx, team.NewLink{StudentID: ana.ID, ProjectID: proj.ID, Role: team.RoleLeader})
	require.Error(t, err)

	links, err := env.Links.QueryAllLinks(ctx)
	require.NoError(t, err)
	assert.Empty(t, links, "the request can be retried")
}

func TestService_leaderRace(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	prof := testutil.CreateProfessor(t, env.Professors, "Dr. Roberto Alves", "123456")
	p1 := testutil.CreateProject(t, env.Projects, "SGPA", prof.ID, project.StatusInProgress, time.Now())
	p2 := testutil.CreateProject(t, env.Projects, "IoT", prof.ID, project.StatusInProgress, time.Now())
	ana := testutil.CreateStudent(t, env.Students, "Ana Silva", "20240001", "Engenharia de Computação")

	// the unique index holds even when the service checks were passed by both writes
	_, err := env.Links.CreateLink(ctx, team.Link{StudentID: ana.ID, ProjectID: p1.ID, Role: team.RoleLeader})
	require.NoError(t, err)
	_, err = env.Links.CreateLink(ctx, team.Link{StudentID: ana.ID, ProjectID: p2.ID, Role: team.RoleLeader})
	assert.Equal(t, team.ErrLeaderExists, err)
	_, err = env.Links.CreateLink(ctx, team.Link{StudentID: ana.ID, ProjectID: p1.ID, Role: team.RoleMember})
	assert.Equal(t, team.ErrLinkExists, err)
}

func TestService_IsMember(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	svc := team.NewService(env.Links, env.Students, env.Projects, env.Logger, env.Validate, env.Translator)

	prof := testutil.CreateProfessor(t, env.Professors, "Dr. Roberto Alves", "123456")
	proj := testutil.CreateProject(t, env.Projects, "SGPA", prof.ID, project.StatusInProgress, time.Now())
	ana := testutil.CreateStudent(t, env.Students, "Ana Silva", "20240001", "Engenharia de Computação")
	testutil.CreateLink(t, env.Links, env.Projects, ana.ID, proj.ID, team.RoleMember)

	ok, err := svc.IsMember(ctx, ana.ID, proj.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsMember(ctx, "lol", proj.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
