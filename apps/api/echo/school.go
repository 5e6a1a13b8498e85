package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tspagiari/oficinas/core/school"
	"github.com/tspagiari/oficinas/core/user"
)

type schoolApi struct {
	svc      school.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerSchoolAPI(g *echo.Group, jwt, admin echo.MiddlewareFunc, deps ServerDeps) {
	api := schoolApi{
		svc:      deps.SchoolSvc,
		usrSvc:   deps.UserSvc,
		validate: deps.Validate,
	}

	sg := g.Group("/schools")

	// public self-service registration: school + first representative
	sg.POST("/register", api.register)

	ag := sg.Group("", jwt)
	ag.GET("", api.query)
	ag.POST("", api.create, admin)

	dg := ag.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, admin)
	dg.DELETE("", api.destroy, admin)
	dg.POST("/deactivate", api.deactivate, admin)
	dg.POST("/activate", api.activate, admin)
}

// Handlers

func (api *schoolApi) register(ctx echo.Context) error {
	var data user.NewSchoolRepresentative
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchoolRepresentative")
	}

	sch, usr, err := api.usrSvc.RegisterSchool(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, RegisterSchoolResponse{School: sch, User: usr})
}

func (api *schoolApi) create(ctx echo.Context) error {
	var data school.NewSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchool")
	}

	sch, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sch)
}

func (api *schoolApi) query(ctx echo.Context) error {
	var (
		schs []school.School
		err  error
	)
	if status := ctx.QueryParam("status"); status != "" {
		schs, err = api.svc.ByStatus(ctx.Request().Context(), school.Status(status))
	} else {
		schs, err = api.svc.All(ctx.Request().Context())
	}
	if err != nil {
		return err
	}
	if schs == nil {
		schs = []school.School{}
	}
	return ctx.JSON(http.StatusOK, schs)
}

func (api *schoolApi) retrieve(ctx echo.Context) error {
	sch, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *schoolApi) update(ctx echo.Context) error {
	var data school.UpdateSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSchool")
	}

	id := ctx.Param("id")
	if err := api.svc.Update(ctx.Request().Context(), id, data); err != nil {
		return err
	}
	sch, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *schoolApi) deactivate(ctx echo.Context) error {
	if err := api.svc.Deactivate(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *schoolApi) activate(ctx echo.Context) error {
	if err := api.svc.Activate(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *schoolApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

type RegisterSchoolResponse struct {
	School school.School `json:"school"`
	User   user.User     `json:"user"`
}
