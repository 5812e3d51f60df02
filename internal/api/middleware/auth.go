package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campushq/student-system/internal/api/metrics"
	"github.com/campushq/student-system/internal/pkg/token"
)

// Context keys set by Auth for downstream handlers.
const (
	ClaimsKey   = "auth_claims"
	RawTokenKey = "auth_raw_token"
)

// TokenVerifier validates a raw bearer token and returns its claims.
type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

// RevocationChecker reports whether a token was revoked before its expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, rawToken string) (bool, error)
}

// Auth validates the bearer token and injects its claims into the context.
// The revocation check runs after signature and expiry validation so the
// store is only consulted for otherwise-valid tokens. A nil revoked checker
// disables revocation entirely.
func Auth(verifier TokenVerifier, revoked RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenRejectionsTotal.WithLabelValues("malformed").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}
			raw := parts[1]

			claims, err := verifier.Verify(raw)
			if err != nil {
				switch {
				case errors.Is(err, token.ErrTokenExpired):
					metrics.TokenRejectionsTotal.WithLabelValues("expired").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				case errors.Is(err, token.ErrTokenMalformed):
					metrics.TokenRejectionsTotal.WithLabelValues("malformed").Inc()
				default:
					metrics.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if revoked != nil {
				isRevoked, err := revoked.IsRevoked(c.Request().Context(), raw)
				if err != nil {
					// Fail closed: an unverifiable token is not accepted.
					return echo.NewHTTPError(http.StatusUnauthorized, "unable to validate token")
				}
				if isRevoked {
					metrics.TokenRejectionsTotal.WithLabelValues("revoked").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
				}
			}

			c.Set(ClaimsKey, claims)
			c.Set(RawTokenKey, raw)

			return next(c)
		}
	}
}
