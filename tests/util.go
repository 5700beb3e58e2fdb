package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/delivery"
	"github.com/gabriel-goncalves1122/SGPA/core/outbox"
	"github.com/gabriel-goncalves1122/SGPA/core/professor"
	"github.com/gabriel-goncalves1122/SGPA/core/project"
	"github.com/gabriel-goncalves1122/SGPA/core/student"
	"github.com/gabriel-goncalves1122/SGPA/core/task"
	"github.com/gabriel-goncalves1122/SGPA/core/team"
	"github.com/gabriel-goncalves1122/SGPA/core/user"
	logsvc "github.com/gabriel-goncalves1122/SGPA/services/logger"
	"github.com/gabriel-goncalves1122/SGPA/storage/database/docrepos"
	inmemdb "github.com/gabriel-goncalves1122/SGPA/storage/database/inmem"
)

// Env is a fresh in-memory store with its repositories and validators.
type Env struct {
	Conf       *core.Config
	Store      core.DocStore
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	Relay      *outbox.Relay

	Students   student.Repository
	Professors professor.Repository
	Projects   project.Repository
	Links      team.Repository
	Tasks      task.Repository
	Progress   task.ProgressRepository
	Deliveries delivery.Repository
	Users      user.Repository
	Outbox     outbox.Repository
}

func NewEnv(t *testing.T) *Env {
	t.Helper()
	conf := core.NewTestConfig()

	store, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	if err = docrepos.EnsureIndexes(context.Background(), store); err != nil {
		t.Fatalf("EnsureIndexes() failed: %v", err)
	}

	logger := NewLogger(conf)
	validate, translator := NewValidator()
	env := &Env{
		Conf:       conf,
		Store:      store,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		Students:   docrepos.NewStudentRepository(store),
		Professors: docrepos.NewProfessorRepository(store),
		Projects:   docrepos.NewProjectRepository(store),
		Links:      docrepos.NewLinkRepository(store),
		Tasks:      docrepos.NewTaskRepository(store),
		Progress:   docrepos.NewProgressRepository(store),
		Deliveries: docrepos.NewDeliveryRepository(store),
		Users:      docrepos.NewUserRepository(store),
		Outbox:     docrepos.NewOutboxRepository(store),
	}
	env.Relay = outbox.NewRelay(env.Outbox, logger, conf.Outbox)
	return env
}

// NewLogger returns a logger that only prints errors and never reaches rollbar.
func NewLogger(conf *core.Config) core.Logger {
	std := logsvc.NewStdLogger(conf)
	std.SetLevel(logrus.ErrorLevel)
	logger := logsvc.NewRollbarLogger(std, "TEST", conf)
	logger.Enable(false)
	return logger
}

// NewValidator returns a validator with every custom tag and translation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	project.InitValidators(validate, translator)
	task.InitValidators(validate, translator)
	team.InitValidators(validate, translator)
	delivery.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

func now(createdAt []time.Time) time.Time {
	if len(createdAt) > 0 {
		return createdAt[0].UTC().Truncate(time.Millisecond)
	}
	return core.Now()
}

func CreateStudent(t *testing.T, repo student.Repository, name, registration, course string, createdAt ...time.Time) student.Student {
	t.Helper()
	tstamp := now(createdAt)
	stud, err := repo.CreateStudent(context.Background(), student.Student{
		Name:         name,
		Registration: registration,
		Email:        registration + "@test.br",
		Course:       course,
		Phone:        "(35) 99999-0000",
		CreatedAt:    tstamp,
		UpdatedAt:    tstamp,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return stud
}

func CreateProfessor(t *testing.T, repo professor.Repository, name, siape string) professor.Professor {
	t.Helper()
	tstamp := core.Now()
	prof, err := repo.CreateProfessor(context.Background(), professor.Professor{
		Name:       name,
		Siape:      siape,
		Email:      siape + "@test.br",
		Department: "Computação",
		CreatedAt:  tstamp,
		UpdatedAt:  tstamp,
	})
	if err != nil {
		t.Fatalf("CreateProfessor() failed: %v", err)
	}
	return prof
}

func CreateProject(t *testing.T, repo project.Repository, title, advisorID, status string, start time.Time) project.Project {
	t.Helper()
	tstamp := core.Now()
	proj, err := repo.CreateProject(context.Background(), project.Project{
		Title:     title,
		AdvisorID: advisorID,
		StartDate: start.UTC().Truncate(time.Millisecond),
		Status:    status,
		MemberIDs: []string{},
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateProject() failed: %v", err)
	}
	return proj
}

// CreateLink links the student to the project and adds them to its members.
func CreateLink(t *testing.T, links team.Repository, projects project.Repository, studentID, projectID, role string) team.Link {
	t.Helper()
	ctx := context.Background()
	link, err := links.CreateLink(ctx, team.Link{
		StudentID: studentID,
		ProjectID: projectID,
		Role:      role,
		CreatedAt: core.Now(),
	})
	if err != nil {
		t.Fatalf("CreateLink() failed: %v", err)
	}
	if err = projects.AddMember(ctx, projectID, studentID); err != nil {
		t.Fatalf("AddMember() failed: %v", err)
	}
	return link
}

func CreateTask(t *testing.T, repo task.Repository, description, projectID, status string, responsibleIDs ...string) task.Task {
	t.Helper()
	tstamp := core.Now()
	tsk, err := repo.CreateTask(context.Background(), task.Task{
		Description:    description,
		ResponsibleIDs: responsibleIDs,
		ProjectID:      projectID,
		Status:         status,
		CreatedAt:      tstamp,
		UpdatedAt:      tstamp,
	})
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	return tsk
}

func CreateUser(t *testing.T, repo user.Repository, name, email, pwd, typ string) user.User {
	t.Helper()
	tstamp := core.Now()
	usr := user.User{
		Name:      name,
		Email:     email,
		Type:      typ,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
