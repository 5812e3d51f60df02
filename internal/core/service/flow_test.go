package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/campushq/student-system/internal/api/middleware"
	"github.com/campushq/student-system/internal/core/domain"
	"github.com/campushq/student-system/internal/core/ports"
)

// Exercises the whole credential flow: register, fail a login with a wrong
// password, log in properly, then hit an admin-gated route with the
// resulting user-role token.
func TestCredentialFlow_EndToEnd(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(t, repo, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, ports.RegisterInput{
		Username:        "alice",
		Email:           "a@x.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected least-privileged default role, got %q", user.Role)
	}

	if _, _, err := svc.Login(ctx, "a@x.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}

	raw, _, err := svc.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Present the token on an admin-only route.
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/students", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	chain := middleware.Auth(svc.tokens, nil)(
		middleware.RBAC(domain.RoleAdmin)(func(c echo.Context) error {
			t.Fatalf("admin handler must not run for a user-role token")
			return nil
		}),
	)

	var he *echo.HTTPError
	if err := chain(c); !errors.As(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong role, got %v", err)
	}
}
