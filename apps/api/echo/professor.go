package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core/professor"
)

type professorApi struct {
	svc *professor.Service
}

func registerProfessorAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *professor.Service) {
	api := professorApi{svc: svc}

	pg := g.Group("/professores", jwt)
	pg.GET("", api.query)
	pg.POST("", api.create)
	pg.GET("/nome/:nome", api.queryByName)
	pg.GET("/:id", api.retrieve)
	pg.PUT("/:id", api.update)
	pg.DELETE("/:id", api.destroy)
}

func (api *professorApi) create(ctx echo.Context) error {
	var data professor.NewProfessor
	if err := bind(ctx, &data); err != nil {
		return err
	}
	prof, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating professor")
	}
	return ctx.JSON(http.StatusCreated, prof)
}

func (api *professorApi) query(ctx echo.Context) error {
	profs, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying professors")
	}
	return ctx.JSON(http.StatusOK, nonNilProfessors(profs))
}

func (api *professorApi) queryByName(ctx echo.Context) error {
	profs, err := api.svc.QueryByName(ctx.Request().Context(), ctx.Param("nome"))
	if err != nil {
		return errors.Wrap(err, "querying professors by name")
	}
	return ctx.JSON(http.StatusOK, nonNilProfessors(profs))
}

func (api *professorApi) retrieve(ctx echo.Context) error {
	prof, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting professor")
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *professorApi) update(ctx echo.Context) error {
	var data professor.UpdateProfessor
	if err := bind(ctx, &data); err != nil {
		return err
	}
	prof, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating professor")
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *professorApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting professor")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("professor %s deleted", id)})
}

func nonNilProfessors(profs []professor.Professor) []professor.Professor {
	if profs == nil {
		return []professor.Professor{}
	}
	return profs
}
