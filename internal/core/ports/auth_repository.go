package ports

import (
	"context"

	"github.com/campushq/student-system/internal/core/domain"
)

// AuthRepository defines the interface for account persistence. The store
// enforces uniqueness of email and username at write time; Create returns
// domain.ErrUserExists on a conflict regardless of any earlier pre-check.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateRole(ctx context.Context, id, role string) (*domain.User, error)
	UpdateActive(ctx context.Context, id string, active bool) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
}
