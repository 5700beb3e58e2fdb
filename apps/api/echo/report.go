package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core/report"
)

type reportApi struct {
	svc *report.Service
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *report.Service) {
	api := reportApi{svc: svc}

	rg := g.Group("/relatorios", jwt)
	rg.GET("/projetos", api.projects)
}

func (api *reportApi) projects(ctx echo.Context) error {
	var filter report.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return ctx.JSON(http.StatusOK, []report.ProjectRow{})
	}
	rows, err := api.svc.Projects(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "building projects report")
	}
	if rows == nil {
		rows = []report.ProjectRow{}
	}
	return ctx.JSON(http.StatusOK, rows)
}
