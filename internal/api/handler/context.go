package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campushq/student-system/internal/api/middleware"
	"github.com/campushq/student-system/internal/pkg/token"
)

// ctxClaims extracts the claims injected by the Auth middleware. Absence means
// a route was wired without the middleware or the middleware was bypassed;
// either way the request is unauthenticated.
func ctxClaims(c echo.Context) (*token.Claims, error) {
	claims, ok := c.Get(middleware.ClaimsKey).(*token.Claims)
	if !ok || claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

// ctxRawToken returns the bearer token string the Auth middleware validated.
func ctxRawToken(c echo.Context) (string, error) {
	raw, ok := c.Get(middleware.RawTokenKey).(string)
	if !ok || raw == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}
	return raw, nil
}
