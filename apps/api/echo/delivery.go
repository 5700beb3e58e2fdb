package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core/delivery"
)

type deliveryApi struct {
	svc *delivery.Service
}

func registerDeliveryAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *delivery.Service) {
	api := deliveryApi{svc: svc}

	dg := g.Group("/entregas", jwt)
	dg.GET("", api.query)
	dg.POST("", api.create)
	dg.GET("/:id", api.retrieve)
	dg.DELETE("/:id", api.destroy)
}

func (api *deliveryApi) create(ctx echo.Context) error {
	var data delivery.NewDelivery
	if err := bind(ctx, &data); err != nil {
		return err
	}
	d, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating delivery")
	}
	return ctx.JSON(http.StatusCreated, d)
}

func (api *deliveryApi) query(ctx echo.Context) error {
	var filter delivery.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return ctx.JSON(http.StatusOK, []delivery.Delivery{})
	}
	ds, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying deliveries")
	}
	return ctx.JSON(http.StatusOK, ds)
}

func (api *deliveryApi) retrieve(ctx echo.Context) error {
	d, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting delivery")
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *deliveryApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting delivery")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("delivery %s deleted", id)})
}
