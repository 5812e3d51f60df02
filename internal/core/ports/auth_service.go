package ports

import (
	"context"
	"time"

	"github.com/campushq/student-system/internal/core/domain"
)

// TokenRevoker stores a token as revoked for the remainder of its lifetime. A
// non-positive ttl means the token has already expired and nothing is stored.
type TokenRevoker interface {
	Revoke(ctx context.Context, rawToken string, ttl time.Duration) error
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, actor, rawToken string, ttl time.Duration) error
	ChangeRole(ctx context.Context, actor, id, role string) (*domain.User, error)
	SetActive(ctx context.Context, actor, id string, active bool) (*domain.User, error)
	DeleteUser(ctx context.Context, actor, id string) (*domain.User, error)
}
