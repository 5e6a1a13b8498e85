package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tspagiari/oficinas/core"
	"github.com/tspagiari/oficinas/core/school"
	"github.com/tspagiari/oficinas/core/user"
)

type userApi struct {
	svc        user.Service
	conf       *core.Config
	validate   *validator.Validate
	translator ut.Translator
}

func registerUserAPI(g *echo.Group, jwt, admin echo.MiddlewareFunc, deps ServerDeps) {
	api := userApi{
		svc:        deps.UserSvc,
		conf:       deps.Conf,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/login", api.login)
	ug.POST("/register-representative", api.registerRepresentative)

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.POST("/logout", api.logout)
	ag.GET("/me", api.me)
	ag.POST("/register-admin", api.registerAdmin, admin)
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Login(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return core.ErrInvalidCredentials
		}
		return err
	}

	token, err := GenerateToken(GetUserClaims(usr, api.conf), api.conf)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

func (api *userApi) logout(ctx echo.Context) error {
	if err := api.svc.Logout(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// me resolves the session context: the caller's role and, for
// representatives, their school.
func (api *userApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	role, err := api.svc.GetRole(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "resolving role")
	}
	res := SessionResponse{
		UID:         claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		Role:        role,
	}
	if role == user.RoleSchoolRepresentative {
		sch, err := api.svc.GetSchoolFor(ctx.Request().Context(), claims.Subject)
		if err != nil {
			return errors.Wrap(err, "resolving school")
		}
		res.School = sch
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *userApi) registerRepresentative(ctx echo.Context) error {
	var data user.NewRepresentative
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRepresentative")
	}

	usr, err := api.svc.RegisterRepresentative(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) registerAdmin(ctx echo.Context) error {
	var data user.NewAdmin
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAdmin")
	}

	usr, err := api.svc.RegisterAdmin(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, usr)
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}

	SessionResponse struct {
		UID         string         `json:"uid"`
		Email       string         `json:"email"`
		DisplayName string         `json:"displayName"`
		Role        user.Role      `json:"role"`
		School      *school.School `json:"school,omitempty"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
