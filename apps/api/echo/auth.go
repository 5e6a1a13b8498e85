package echoapi

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tspagiari/oficinas/core"
	"github.com/tspagiari/oficinas/core/user"
)

const (
	contextClaimsKey = "userClaims"
	authScheme       = "Bearer"
)

// Claims represents the authorization claims transmitted via a JWT.
// Role and SchoolID are resolved once at login; they are the session's
// authorization context, so a role change only takes effect on the
// next login.
type Claims struct {
	jwt.RegisteredClaims
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"displayName,omitempty"`
	Role        user.Role `json:"role,omitempty"`
	SchoolID    string    `json:"schoolId,omitempty"`
	IsAdmin     bool      `json:"is_admin,omitempty"`
}

func GetUserClaims(usr user.User, conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    conf.AppName,
			Subject:   usr.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(conf.Server.JWTExpirationDelta)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email:       usr.Email,
		DisplayName: usr.DisplayName,
		Role:        usr.Role,
		SchoolID:    usr.SchoolID,
		IsAdmin:     usr.IsAdmin(),
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims, conf *core.Config) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	return ss, errors.Wrap(err, "signing token")
}

func parseToken(tokenStr string, conf *core.Config) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		new(Claims),
		func(*jwt.Token) (interface{}, error) { return []byte(conf.SecretKey), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if claims, ok := ctx.Get(contextClaimsKey).(*Claims); ok {
		return *claims, nil
	}
	return Claims{}, errUnauthorized
}
