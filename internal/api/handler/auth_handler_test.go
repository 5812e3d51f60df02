package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/campushq/student-system/internal/api/middleware"
	"github.com/campushq/student-system/internal/core/domain"
	"github.com/campushq/student-system/internal/core/ports"
	"github.com/campushq/student-system/internal/pkg/token"
)

type stubAuthService struct {
	registerFn   func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn      func(ctx context.Context, email, password string) (string, *domain.User, error)
	logoutFn     func(ctx context.Context, actor, rawToken string, ttl time.Duration) error
	changeRoleFn func(ctx context.Context, actor, id, role string) (*domain.User, error)
	setActiveFn  func(ctx context.Context, actor, id string, active bool) (*domain.User, error)
	deleteUserFn func(ctx context.Context, actor, id string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ChangeRole(ctx context.Context, actor, id, role string) (*domain.User, error) {
	return s.changeRoleFn(ctx, actor, id, role)
}

func (s *stubAuthService) Logout(ctx context.Context, actor, rawToken string, ttl time.Duration) error {
	return s.logoutFn(ctx, actor, rawToken, ttl)
}

func (s *stubAuthService) SetActive(ctx context.Context, actor, id string, active bool) (*domain.User, error) {
	return s.setActiveFn(ctx, actor, id, active)
}

func (s *stubAuthService) DeleteUser(ctx context.Context, actor, id string) (*domain.User, error) {
	return s.deleteUserFn(ctx, actor, id)
}

func newAuthContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Username != "alice" || input.Email != "a@x.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: "u_1", Username: "alice", Email: "a@x.com", Role: domain.RoleUser, Active: true, PasswordHash: "$2a$10$x"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"a@x.com","password":"secret1","confirmPassword":"secret1"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	body := rec.Body.String()
	if strings.Contains(body, "secret1") || strings.Contains(body, "$2a$") {
		t.Fatalf("response leaks credentials: %s", body)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["username"] != "alice" || user["role"] != domain.RoleUser {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestAuthHandler_Register_ValidationShortCircuits(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, _ ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	// Missing email, short password.
	c, _ := newAuthContext(t, http.MethodPost, "/auth/register",
		`{"username":"alice","password":"abc","confirmPassword":"abc"}`)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, _ ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newAuthContext(t, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"a@x.com","password":"secret1","confirmPassword":"secret1"}`)

	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if email != "a@x.com" || password != "secret1" {
				t.Fatalf("unexpected credentials: %s", email)
			}
			return "signed-token", &domain.User{ID: "u_1", Username: "alice", Email: email, Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"secret1"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "signed-token" {
		t.Fatalf("token missing from response: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, _, _ string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newAuthContext(t, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"wrong"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Logout_RevokesRemainingLifetime(t *testing.T) {
	var gotActor, gotRaw string
	var gotTTL time.Duration
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, actor, rawToken string, ttl time.Duration) error {
			gotActor, gotRaw, gotTTL = actor, rawToken, ttl
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodPost, "/auth/logout", "")
	c.Set(middleware.ClaimsKey, &token.Claims{
		UserID: "u_1",
		Email:  "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
		},
	})
	c.Set(middleware.RawTokenKey, "raw-token")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotActor != "a@x.com" || gotRaw != "raw-token" {
		t.Fatalf("unexpected logout args: %q %q", gotActor, gotRaw)
	}
	if gotTTL <= 0 || gotTTL > 30*time.Minute {
		t.Fatalf("ttl should be the remaining lifetime, got %v", gotTTL)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newAuthContext(t, http.MethodGet, "/auth/me", "")
	c.Set(middleware.ClaimsKey, &token.Claims{UserID: "u_1", Username: "alice", Email: "a@x.com", Role: domain.RoleAdmin})

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"role":"admin"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_ChangeRole_UnknownRoleRejected(t *testing.T) {
	stub := &stubAuthService{
		changeRoleFn: func(_ context.Context, _, _, _ string) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newAuthContext(t, http.MethodPatch, "/auth/users/u_2/role", `{"role":"superuser"}`)
	c.SetParamNames("id")
	c.SetParamValues("u_2")
	c.Set(middleware.ClaimsKey, &token.Claims{Email: "admin@x.com", Role: domain.RoleAdmin})

	err := h.ChangeRole(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_SetActive(t *testing.T) {
	stub := &stubAuthService{
		setActiveFn: func(_ context.Context, actor, id string, active bool) (*domain.User, error) {
			if actor != "admin@x.com" || id != "u_2" || active {
				t.Fatalf("unexpected args: %s %s %v", actor, id, active)
			}
			return &domain.User{ID: id, Active: active}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodPatch, "/auth/users/u_2/active", `{"active":false}`)
	c.SetParamNames("id")
	c.SetParamValues("u_2")
	c.Set(middleware.ClaimsKey, &token.Claims{Email: "admin@x.com", Role: domain.RoleAdmin})

	if err := h.SetActive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_DeleteUser(t *testing.T) {
	stub := &stubAuthService{
		deleteUserFn: func(_ context.Context, actor, id string) (*domain.User, error) {
			if actor != "admin@x.com" || id != "u_2" {
				t.Fatalf("unexpected args: %s %s", actor, id)
			}
			return &domain.User{ID: id, Username: "bob", Email: "b@x.com"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodDelete, "/auth/users/u_2", "")
	c.SetParamNames("id")
	c.SetParamValues("u_2")
	c.Set(middleware.ClaimsKey, &token.Claims{Email: "admin@x.com", Role: domain.RoleAdmin})

	if err := h.DeleteUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"username":"bob"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_DeleteUser_NotFound(t *testing.T) {
	stub := &stubAuthService{
		deleteUserFn: func(_ context.Context, _, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newAuthContext(t, http.MethodDelete, "/auth/users/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	c.Set(middleware.ClaimsKey, &token.Claims{Email: "admin@x.com", Role: domain.RoleAdmin})

	if err := h.DeleteUser(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
