package ports

import (
	"context"

	"github.com/campushq/student-system/internal/core/domain"
)

// CreateStudentInput carries the fields accepted when creating a student.
// CreatedBy is the account id of the authenticated caller.
type CreateStudentInput struct {
	Name           string
	Email          string
	RollNumber     string
	CourseEnrolled string
	GPA            float64
	PhoneNumber    string
	Address        string
	CreatedBy      string
}

// UpdateStudentInput carries a partial update; nil fields are left untouched.
type UpdateStudentInput struct {
	Name           *string
	Email          *string
	RollNumber     *string
	CourseEnrolled *string
	GPA            *float64
	PhoneNumber    *string
	Address        *string
}

type StudentService interface {
	List(ctx context.Context) ([]domain.Student, error)
	Get(ctx context.Context, id string) (*domain.Student, error)
	Search(ctx context.Context, name string) ([]domain.Student, error)
	Create(ctx context.Context, input CreateStudentInput) (*domain.Student, error)
	Update(ctx context.Context, id string, input UpdateStudentInput) (*domain.Student, error)
	UpdateStatus(ctx context.Context, id string, status domain.StudentStatus) (*domain.Student, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context, actor string) (int64, error)
	AttachDocument(ctx context.Context, id, url string) (*domain.Student, error)
}
