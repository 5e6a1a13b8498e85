package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tspagiari/oficinas/core/workshop"
)

type workshopApi struct {
	svc      workshop.Service
	validate *validator.Validate
}

func registerWorkshopAPI(g *echo.Group, jwt, admin echo.MiddlewareFunc, deps ServerDeps) {
	api := workshopApi{
		svc:      deps.WorkshopSvc,
		validate: deps.Validate,
	}

	wg := g.Group("/workshop-requests", jwt)
	wg.POST("", api.create)
	wg.GET("", api.query, admin)
	wg.PUT("/:id/status", api.updateStatus, admin)
}

// Handlers

func (api *workshopApi) create(ctx echo.Context) error {
	var data workshop.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}

	req, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, req)
}

// query lists requests by status; the admin review page opens on the
// pending queue, so that is the default.
func (api *workshopApi) query(ctx echo.Context) error {
	status := workshop.Status(ctx.QueryParam("status"))
	if status == "" {
		status = workshop.StatusPending
	}

	reqs, err := api.svc.ByStatus(ctx.Request().Context(), status)
	if err != nil {
		return err
	}
	if reqs == nil {
		reqs = []workshop.Request{}
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *workshopApi) updateStatus(ctx echo.Context) error {
	var data UpdateStatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStatusRequest")
	}

	req, err := api.svc.UpdateStatus(ctx.Request().Context(), ctx.Param("id"), workshop.Status(data.Status))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, req)
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
