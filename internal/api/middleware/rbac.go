package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rwandabill/identity-service/internal/core/ports"
)

// RBAC enforces role-based access control on read routes. The caller's role
// is resolved from the store on every request rather than read from token
// claims, so a role change takes effect as soon as it is persisted.
func RBAC(repo ports.IdentityRepository, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := c.Get(KeyIdentityID).(int64)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			identity, err := repo.FindByID(c.Request().Context(), id)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			if _, ok := allowed[identity.Role]; !ok || !identity.Active {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}

			return next(c)
		}
	}
}
