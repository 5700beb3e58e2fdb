package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/user"
)

type authApi struct {
	svc        *user.Service
	conf       *core.Config
	validate   *validator.Validate
	translator ut.Translator
}

func registerAuthAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *user.Service,
	conf *core.Config,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := authApi{
		svc:        svc,
		conf:       conf,
		validate:   validate,
		translator: translator,
	}

	ag := g.Group("/auth")

	// TODO: rate limit `/login`
	ag.POST("/login", api.login)
	ag.GET("/verify", api.verify, jwt)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(api.conf, GetUserClaims(api.conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *authApi) verify(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, VerifyResponse{
		Message: "user authenticated",
		User: TokenUser{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
			Type:  claims.Type,
		},
	})
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"senha" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	TokenUser struct {
		ID    string `json:"id"`
		Name  string `json:"nome"`
		Email string `json:"email"`
		Type  string `json:"tipo"`
	}

	VerifyResponse struct {
		Message string    `json:"message"`
		User    TokenUser `json:"user"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate, translator ut.Translator) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return core.ValidateStruct(validate, translator, lr)
}
