package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rwandabill/identity-service/internal/api/middleware"
	"github.com/rwandabill/identity-service/internal/core/ports"
)

// ctxCaller extracts the caller injected by the Auth middleware. Presence of
// both claims proves the middleware ran; anything less is rejected before a
// service call is made.
func ctxCaller(c echo.Context) (ports.Caller, error) {
	id, ok := c.Get(middleware.KeyIdentityID).(int64)
	if !ok || id == 0 {
		return ports.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	email, _ := c.Get(middleware.KeyEmail).(string)
	if email == "" {
		return ports.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	return ports.Caller{ID: id, Email: email}, nil
}

// ctxOptionalCaller returns the caller when the request was authenticated,
// or nil for anonymous requests (the super-admin bootstrap path).
func ctxOptionalCaller(c echo.Context) *ports.Caller {
	id, ok := c.Get(middleware.KeyIdentityID).(int64)
	if !ok || id == 0 {
		return nil
	}
	email, _ := c.Get(middleware.KeyEmail).(string)
	if email == "" {
		return nil
	}
	return &ports.Caller{ID: id, Email: email}
}
