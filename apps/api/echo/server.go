package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/delivery"
	"github.com/gabriel-goncalves1122/SGPA/core/professor"
	"github.com/gabriel-goncalves1122/SGPA/core/project"
	"github.com/gabriel-goncalves1122/SGPA/core/report"
	"github.com/gabriel-goncalves1122/SGPA/core/student"
	"github.com/gabriel-goncalves1122/SGPA/core/task"
	"github.com/gabriel-goncalves1122/SGPA/core/team"
	"github.com/gabriel-goncalves1122/SGPA/core/user"
)

type (
	// Deps are the services exposed by the API.
	Deps struct {
		Store        core.DocStore
		StudentSvc   *student.Service
		ProfessorSvc *professor.Service
		ProjectSvc   *project.Service
		TaskSvc      *task.Service
		TeamSvc      *team.Service
		DeliverySvc  *delivery.Service
		UserSvc      *user.Service
		ReportSvc    *report.Service
	}

	Server struct {
		conf       *core.Config
		logger     core.Logger
		deps       *Deps
		validate   *validator.Validate
		translator ut.Translator
		app        *echo.Echo
		errors     chan error
		shutdown   chan os.Signal
	}
)

func NewServer(
	conf *core.Config,
	logger core.Logger,
	deps *Deps,
	validate *validator.Validate,
	translator ut.Translator,
) *Server {
	s := &Server{
		conf:       conf,
		logger:     logger,
		deps:       deps,
		validate:   validate,
		translator: translator,
		app:        echo.New(),
		errors:     make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	if len(s.conf.Server.AllowedOrigins) > 0 {
		s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.conf.Server.AllowedOrigins,
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.logger, s.SignalShutdown)
	s.app.Debug = s.conf.Debug

	s.app.GET("/", home)
	s.app.GET("/health", s.health)

	jwt := newJWTMiddleware(s.conf)
	g := s.app.Group("")

	registerAuthAPI(g, jwt, s.deps.UserSvc, s.conf, s.validate, s.translator)
	registerStudentAPI(g, jwt, s.deps.StudentSvc)
	registerProfessorAPI(g, jwt, s.deps.ProfessorSvc)
	registerProjectAPI(g, jwt, s.deps.ProjectSvc)
	registerTaskAPI(g, jwt, s.deps.TaskSvc)
	registerTeamAPI(g, jwt, s.deps.TeamSvc)
	registerDeliveryAPI(g, jwt, s.deps.DeliverySvc)
	registerUserAPI(g, jwt, s.deps.UserSvc)
	registerReportAPI(g, jwt, s.deps.ReportSvc)
}

// Start runs the HTTP listener. Its failure is reported on Errors.
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// SignalShutdown asks the application to shut down gracefully.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return errors.Wrap(s.app.Shutdown(ctx), "shutting down server")
}

func (s *Server) Close() error {
	return errors.Wrap(s.app.Close(), "closing server")
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to SGPA API!")
}

func (s *Server) health(ctx echo.Context) error {
	if err := s.deps.Store.Ping(ctx.Request().Context()); err != nil {
		s.logger.Error("health check failed", err)
		return ctx.JSON(http.StatusInternalServerError, echo.Map{"status": "unavailable"})
	}
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
