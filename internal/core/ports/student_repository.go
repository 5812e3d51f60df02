package ports

import (
	"context"

	"github.com/campushq/student-system/internal/core/domain"
)

// StudentRepository defines the interface for student persistence. Email and
// roll number carry unique indexes; Create and Update surface conflicts as
// domain.ErrDuplicateStudent.
type StudentRepository interface {
	FindAll(ctx context.Context) ([]domain.Student, error)
	FindByID(ctx context.Context, id string) (*domain.Student, error)
	SearchByName(ctx context.Context, name string) ([]domain.Student, error)
	Create(ctx context.Context, student *domain.Student) (*domain.Student, error)
	Update(ctx context.Context, student *domain.Student) (*domain.Student, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}
