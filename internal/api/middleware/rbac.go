package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campushq/student-system/internal/pkg/token"
)

// RBAC enforces role-based access control over claims set by Auth. Requests
// with no claims at all are unauthenticated (401); a known identity with a
// role outside the allow list is forbidden (403).
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(ClaimsKey).(*token.Claims)
			if !ok || claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if _, ok := allowed[claims.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}
