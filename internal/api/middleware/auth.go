package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rwandabill/identity-service/internal/core/service"
)

// Context keys set by the auth middleware.
const (
	KeyIdentityID = "identity_id"
	KeyEmail      = "email"
)

// Auth validates the bearer token and injects the caller's id and email into
// the request context. Tokens carry no role claim: role checks always go
// through the store.
func Auth(tokens *service.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err != nil {
				return err
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(KeyIdentityID, claims.ID)
			c.Set(KeyEmail, claims.Email)

			return next(c)
		}
	}
}

// OptionalAuth injects claims when a bearer token is present but lets
// anonymous requests through. A present-but-invalid token is still rejected.
// Used on the super-admin signup route, which must accept the unauthenticated
// bootstrap call.
func OptionalAuth(tokens *service.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}

			raw, err := bearerToken(c)
			if err != nil {
				return err
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(KeyIdentityID, claims.ID)
			c.Set(KeyEmail, claims.Email)

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}
