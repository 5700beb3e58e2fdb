package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core/team"
)

type teamApi struct {
	svc *team.Service
}

func registerTeamAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *team.Service) {
	api := teamApi{svc: svc}

	tg := g.Group("/equipes", jwt)
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.GET("/:id", api.retrieve)
	tg.DELETE("/:id", api.destroy)
}

func (api *teamApi) create(ctx echo.Context) error {
	var data team.NewLink
	if err := bind(ctx, &data); err != nil {
		return err
	}
	link, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating team-link")
	}
	return ctx.JSON(http.StatusCreated, link)
}

func (api *teamApi) query(ctx echo.Context) error {
	var filter team.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return ctx.JSON(http.StatusOK, []team.Link{})
	}
	links, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying team-links")
	}
	return ctx.JSON(http.StatusOK, links)
}

func (api *teamApi) retrieve(ctx echo.Context) error {
	link, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting team-link")
	}
	return ctx.JSON(http.StatusOK, link)
}

func (api *teamApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting team-link")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("team-link %s removed", id)})
}
