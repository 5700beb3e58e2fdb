package user

import (
	"context"
	"net/mail"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("user not found")
	ErrEmailExists        = core.NewConflictError("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	Repository interface {
		// CreateUser fails with ErrEmailExists when the email is taken.
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		DeleteUser(ctx context.Context, id string) error
	}

	Service struct {
		repo       Repository
		mailSvc    core.EmailService
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(repo Repository, mailSvc core.EmailService, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{
		repo:       repo,
		mailSvc:    mailSvc,
		validate:   validate,
		translator: translator,
	}
}

func (svc *Service) checkEmailUniqueness(ctx context.Context, email string) error {
	_, err := svc.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailExists
	case errors.Cause(err) == ErrNotFound:
		return nil
	}
	return errors.Wrap(err, "getting user by email")
}

// Create registers a new User and sends them a welcome email.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validate, svc.translator); err != nil {
		return User{}, err
	}
	if err := svc.checkEmailUniqueness(ctx, nu.Email); err != nil {
		return User{}, err
	}

	now := core.Now()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Type:      nu.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(err, "creating user")
	}

	svc.sendWelcomeMail(usr)
	return usr, nil
}

func (svc *Service) sendWelcomeMail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Welcome",
		TemplateName: "welcome",
		TemplateData: map[string]string{
			"Nome":  usr.Name,
			"Tipo":  usr.Type,
			"Email": usr.Email,
		},
	})
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	users, err := svc.repo.QueryAllUsers(ctx)
	return users, errors.Wrap(err, "querying users")
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	return usr, errors.Wrap(err, "getting user")
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	return usr, errors.Wrap(err, "getting user by email")
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return errors.Wrap(svc.repo.DeleteUser(ctx, id), "deleting user")
}

// Authenticate returns the User owning the email and password, or ErrInvalidCredentials.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

// SetPassword replaces the password of the User with the given email.
func (svc *Service) SetPassword(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	sp := SetUserPassword{Name: usr.Name, Email: usr.Email, Password: pwd}
	if err = sp.Validate(svc.validate, svc.translator); err != nil {
		return User{}, err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = core.Now()
	usr, err = svc.repo.UpdateUser(ctx, usr)
	return usr, errors.Wrap(err, "updating user")
}

// SaveAdmin creates an Administrador, or promotes the existing User with the same email
// and resets their name and password. created tells which one happened.
func (svc *Service) SaveAdmin(ctx context.Context, name, email, pwd string) (usr User, created bool, err error) {
	nu := NewUser{Name: name, Email: email, Password: pwd, Type: TypeAdmin}
	if err = nu.Validate(svc.validate, svc.translator); err != nil {
		return User{}, false, err
	}

	usr, err = svc.repo.GetUserByEmail(ctx, nu.Email)
	if err != nil {
		if errors.Cause(err) != ErrNotFound {
			return User{}, false, errors.Wrap(err, "getting user by email")
		}
		usr, err = svc.Create(ctx, nu)
		return usr, err == nil, err
	}

	usr.Name = nu.Name
	usr.Type = TypeAdmin
	if err = usr.SetPassword(nu.Password); err != nil {
		return User{}, false, errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = core.Now()
	usr, err = svc.repo.UpdateUser(ctx, usr)
	return usr, false, errors.Wrap(err, "updating user")
}
