package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

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
	appfs "github.com/gabriel-goncalves1122/SGPA/fs"
	emailsvc "github.com/gabriel-goncalves1122/SGPA/services/email"
	"github.com/gabriel-goncalves1122/SGPA/storage/database/docrepos"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp          = errors.New("help provided")
	errNoMigrations  = errors.New("migrate is only available with the postgres engine")
	errEmptyPassword = errors.New("password cannot be empty")
)

type commandLine struct {
	out io.Writer

	usrSvc       *user.Service
	studentSvc   *student.Service
	professorSvc *professor.Service
	projectSvc   *project.Service
	teamSvc      *team.Service
	taskSvc      *task.Service
	reportSvc    *report.Service

	students   student.Repository
	professors professor.Repository

	migrateFunc func(command string, args ...string) error // nil unless postgres
}

// newCommandLine wires the services the commands use on top of store.
func newCommandLine(conf *core.Config, store core.DocStore, out io.Writer) *commandLine {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	project.InitValidators(validate, translator)
	task.InitValidators(validate, translator)
	team.InitValidators(validate, translator)
	delivery.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	core.ParseEmailTemplates(appfs.FS, false, logger)

	students := docrepos.NewStudentRepository(store)
	professors := docrepos.NewProfessorRepository(store)
	projects := docrepos.NewProjectRepository(store)
	links := docrepos.NewLinkRepository(store)
	tasks := docrepos.NewTaskRepository(store)
	relay := outbox.NewRelay(docrepos.NewOutboxRepository(store), logger, conf.Outbox)

	teamSvc := team.NewService(links, students, projects, logger, validate, translator)
	return &commandLine{
		out:          out,
		usrSvc:       user.NewService(docrepos.NewUserRepository(store), emailsvc.NewConsoleServiceMock(conf, logger), validate, translator),
		studentSvc:   student.NewService(students, validate, translator),
		professorSvc: professor.NewService(professors, validate, translator),
		projectSvc:   project.NewService(projects, professors, links, relay, validate, translator),
		teamSvc:      teamSvc,
		taskSvc:      task.NewService(tasks, docrepos.NewProgressRepository(store), projects, teamSvc, relay, logger, validate, translator),
		reportSvc:    report.NewService(projects, tasks, professors, students),
		students:     students,
		professors:   professors,
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  createadmin -email EMAIL -nome NAME - create or update an administrator")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset user's password")
	fmt.Fprintln(cli.out, "  seed - add sample professors, students, projects and tasks")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS...] - run goose migrations (postgres only)")
	fmt.Fprintln(cli.out, "  report [-orientador ID] [-status STATUS] [-curso COURSE] - print the projects report")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createAdminCmd := flag.NewFlagSet("createadmin", flag.ContinueOnError)
	createAdminEmail := createAdminCmd.String("email", "", "The administrator's email. The password will be prompted next.")
	createAdminName := createAdminCmd.String("nome", "", "The administrator's name.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportAdvisor := reportCmd.String("orientador", "", "Only projects advised by this professor ID.")
	reportStatus := reportCmd.String("status", "", "Only projects with this status.")
	reportCourse := reportCmd.String("curso", "", "Only count members of this course.")

	for _, fs := range []*flag.FlagSet{createAdminCmd, resetPasswordCmd, reportCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "createadmin":
		if err := createAdminCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *createAdminEmail == "" || *createAdminName == "" {
			createAdminCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword()
		if err != nil {
			return err
		}
		return cli.createAdmin(*createAdminName, *createAdminEmail, pwd)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword()
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)
	case "seed":
		return cli.seed()
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.report(report.QueryFilter{AdvisorID: *reportAdvisor, Status: *reportStatus, Course: *reportCourse})
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) readPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errEmptyPassword
	}
	return string(pwd), nil
}
