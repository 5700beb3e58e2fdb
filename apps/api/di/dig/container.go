package dig_container

import (
	"context"
	"log"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/dig"

	echoapi "github.com/gabriel-goncalves1122/SGPA/apps/api/echo"
	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/delivery"
	"github.com/gabriel-goncalves1122/SGPA/core/outbox"
	"github.com/gabriel-goncalves1122/SGPA/core/professor"
	"github.com/gabriel-goncalves1122/SGPA/core/project"
	"github.com/gabriel-goncalves1122/SGPA/core/report"
	"github.com/gabriel-goncalves1122/SGPA/core/student"
	"github.com/gabriel-goncalves1122/SGPA/core/task"
	"github.com/gabriel-goncalves1122/SGPA/core/team"
	"github.com/gabriel-goncalves1122/SGPA/core/user"
	emailsvc "github.com/gabriel-goncalves1122/SGPA/services/email"
	logsvc "github.com/gabriel-goncalves1122/SGPA/services/logger"
	"github.com/gabriel-goncalves1122/SGPA/storage/database"
	"github.com/gabriel-goncalves1122/SGPA/storage/database/docrepos"
)

type StoreLoggerParam struct {
	dig.In
	Logger core.Logger `name:"storeLogger"`
}

type OutboxLoggerParam struct {
	dig.In
	Logger core.Logger `name:"outboxLogger"`
}

func newLoggerFactory(component string) func(*core.Config, *logrus.Logger) core.Logger {
	return func(conf *core.Config, std *logrus.Logger) core.Logger {
		logger := logsvc.NewRollbarLogger(std, component, conf)
		logger.Enable(!conf.Debug)
		return logger
	}
}

func newStore(conf *core.Config, loggerParam StoreLoggerParam) core.DocStore {
	store, err := database.Open(context.Background(), conf, loggerParam.Logger)
	if err != nil {
		loggerParam.Logger.Fatal("setting up database", err)
	}
	return store
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newRelay(conf *core.Config, repo outbox.Repository, loggerParam OutboxLoggerParam) *outbox.Relay {
	return outbox.NewRelay(repo, loggerParam.Logger, conf.Outbox)
}

func newProjectService(
	repo project.Repository,
	professors professor.Repository,
	links team.Repository,
	relay *outbox.Relay,
	validate *validator.Validate,
	translator ut.Translator,
) *project.Service {
	return project.NewService(repo, professors, links, relay, validate, translator)
}

func newTeamService(
	repo team.Repository,
	students student.Repository,
	projects project.Repository,
	logger core.Logger,
	validate *validator.Validate,
	translator ut.Translator,
) *team.Service {
	return team.NewService(repo, students, projects, logger, validate, translator)
}

func newTaskService(
	repo task.Repository,
	progress task.ProgressRepository,
	projects project.Repository,
	members *team.Service,
	relay *outbox.Relay,
	logger core.Logger,
	validate *validator.Validate,
	translator ut.Translator,
) *task.Service {
	return task.NewService(repo, progress, projects, members, relay, logger, validate, translator)
}

func newDeliveryService(
	repo delivery.Repository,
	tasks task.Repository,
	students student.Repository,
	validate *validator.Validate,
	translator ut.Translator,
) *delivery.Service {
	return delivery.NewService(repo, tasks, students, validate, translator)
}

func newReportService(
	projects project.Repository,
	tasks task.Repository,
	professors professor.Repository,
	students student.Repository,
) *report.Service {
	return report.NewService(projects, tasks, professors, students)
}

type serverParams struct {
	dig.In

	Conf         *core.Config
	Logger       core.Logger
	Store        core.DocStore
	StudentSvc   *student.Service
	ProfessorSvc *professor.Service
	ProjectSvc   *project.Service
	TaskSvc      *task.Service
	TeamSvc      *team.Service
	DeliverySvc  *delivery.Service
	UserSvc      *user.Service
	ReportSvc    *report.Service
	Validate     *validator.Validate
	Translator   ut.Translator
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(p.Conf, p.Logger, &echoapi.Deps{
		Store:        p.Store,
		StudentSvc:   p.StudentSvc,
		ProfessorSvc: p.ProfessorSvc,
		ProjectSvc:   p.ProjectSvc,
		TaskSvc:      p.TaskSvc,
		TeamSvc:      p.TeamSvc,
		DeliverySvc:  p.DeliverySvc,
		UserSvc:      p.UserSvc,
		ReportSvc:    p.ReportSvc,
	}, p.Validate, p.Translator)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(logsvc.NewStdLogger))
	must(c.Provide(newLoggerFactory("API")))
	must(c.Provide(newLoggerFactory("STORE"), dig.Name("storeLogger")))
	must(c.Provide(newLoggerFactory("OUTBOX"), dig.Name("outboxLogger")))
	must(c.Provide(newStore))
	must(c.Provide(newEmailService))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))

	// repositories
	must(c.Provide(docrepos.NewStudentRepository))
	must(c.Provide(docrepos.NewProfessorRepository))
	must(c.Provide(docrepos.NewProjectRepository))
	must(c.Provide(docrepos.NewLinkRepository))
	must(c.Provide(docrepos.NewTaskRepository))
	must(c.Provide(docrepos.NewProgressRepository))
	must(c.Provide(docrepos.NewDeliveryRepository))
	must(c.Provide(docrepos.NewUserRepository))
	must(c.Provide(docrepos.NewOutboxRepository))

	// services
	must(c.Provide(newRelay))
	must(c.Provide(student.NewService))
	must(c.Provide(professor.NewService))
	must(c.Provide(newProjectService))
	must(c.Provide(newTeamService))
	must(c.Provide(newTaskService))
	must(c.Provide(newDeliveryService))
	must(c.Provide(user.NewService))
	must(c.Provide(newReportService))

	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
