package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campushq/student-system/internal/core/domain"
	"github.com/campushq/student-system/internal/pkg/token"
)

type stubRevocation struct {
	revoked map[string]bool
	err     error
}

func (s *stubRevocation) IsRevoked(_ context.Context, raw string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.revoked[raw], nil
}

func newManager(t *testing.T) *token.Manager {
	t.Helper()
	mgr, err := token.NewManager("secret", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return mgr
}

func issue(t *testing.T, mgr *token.Manager) string {
	t.Helper()
	raw, err := mgr.Issue(&domain.User{ID: "u_1", Username: "alice", Email: "a@x.com", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return raw
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, called, err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	mgr := newManager(t)
	raw := issue(t, mgr)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(mgr, &stubRevocation{})(func(c echo.Context) error {
		called = true
		claims, ok := c.Get(ClaimsKey).(*token.Claims)
		if !ok || claims == nil {
			t.Fatalf("claims not set")
		}
		if claims.Username != "alice" || claims.Role != domain.RoleAdmin {
			t.Fatalf("unexpected claims: %+v", claims)
		}
		if c.Get(RawTokenKey) != raw {
			t.Fatalf("raw token not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	mw := Auth(newManager(t), nil)

	_, called, err := invoke(t, mw, "")
	if called {
		t.Fatalf("next must not run")
	}
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuthMiddleware_BadScheme(t *testing.T) {
	mgr := newManager(t)
	mw := Auth(mgr, nil)

	_, called, err := invoke(t, mw, "Basic "+issue(t, mgr))
	if called {
		t.Fatalf("next must not run")
	}
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	issuer, err := token.NewManager("secret", time.Nanosecond)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	raw := issue(t, issuer)
	time.Sleep(2 * time.Millisecond)

	_, called, mwErr := invoke(t, Auth(issuer, nil), "Bearer "+raw)
	if called {
		t.Fatalf("next must not run")
	}
	assertHTTPError(t, mwErr, http.StatusUnauthorized)
}

func TestAuthMiddleware_WrongKey(t *testing.T) {
	issuer, _ := token.NewManager("other-secret", time.Hour)
	raw := issue(t, issuer)

	_, called, err := invoke(t, Auth(newManager(t), nil), "Bearer "+raw)
	if called {
		t.Fatalf("next must not run")
	}
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuthMiddleware_RevokedToken(t *testing.T) {
	mgr := newManager(t)
	raw := issue(t, mgr)

	mw := Auth(mgr, &stubRevocation{revoked: map[string]bool{raw: true}})
	_, called, err := invoke(t, mw, "Bearer "+raw)
	if called {
		t.Fatalf("next must not run for a revoked token")
	}
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuthMiddleware_RevocationStoreDown(t *testing.T) {
	mgr := newManager(t)
	raw := issue(t, mgr)

	mw := Auth(mgr, &stubRevocation{err: errors.New("connection refused")})
	_, called, err := invoke(t, mw, "Bearer "+raw)
	if called {
		t.Fatalf("must fail closed when the revocation store is unavailable")
	}
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func assertHTTPError(t *testing.T, err error, want int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != want {
		t.Fatalf("expected status %d, got %d", want, he.Code)
	}
}
