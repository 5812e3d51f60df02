package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campushq/student-system/internal/core/domain"
	"github.com/campushq/student-system/internal/core/ports"
)

// StudentService implements the student record operations. Duplicate email or
// roll number is reported by the repository from its unique indexes.
type StudentService struct {
	repo   ports.StudentRepository
	audit  ports.AuditSink
	logger zerolog.Logger
}

func NewStudentService(repo ports.StudentRepository, audit ports.AuditSink, logger zerolog.Logger) *StudentService {
	return &StudentService{repo: repo, audit: audit, logger: logger}
}

func (s *StudentService) List(ctx context.Context) ([]domain.Student, error) {
	return s.repo.FindAll(ctx)
}

func (s *StudentService) Get(ctx context.Context, id string) (*domain.Student, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *StudentService) Search(ctx context.Context, name string) ([]domain.Student, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name parameter is required", domain.ErrValidation)
	}
	return s.repo.SearchByName(ctx, name)
}

func (s *StudentService) Create(ctx context.Context, input ports.CreateStudentInput) (*domain.Student, error) {
	if input.GPA < 0 || input.GPA > 4 {
		return nil, fmt.Errorf("%w: gpa must be between 0 and 4", domain.ErrValidation)
	}

	now := time.Now().UTC()
	student := &domain.Student{
		Name:           strings.TrimSpace(input.Name),
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		RollNumber:     strings.TrimSpace(input.RollNumber),
		CourseEnrolled: strings.TrimSpace(input.CourseEnrolled),
		GPA:            input.GPA,
		Status:         domain.StudentActive,
		PhoneNumber:    input.PhoneNumber,
		Address:        input.Address,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.repo.Create(ctx, student)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("roll_number", created.RollNumber).Msg("student created")
	return created, nil
}

func (s *StudentService) Update(ctx context.Context, id string, input ports.UpdateStudentInput) (*domain.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		student.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		student.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.RollNumber != nil {
		student.RollNumber = strings.TrimSpace(*input.RollNumber)
	}
	if input.CourseEnrolled != nil {
		student.CourseEnrolled = strings.TrimSpace(*input.CourseEnrolled)
	}
	if input.GPA != nil {
		if *input.GPA < 0 || *input.GPA > 4 {
			return nil, fmt.Errorf("%w: gpa must be between 0 and 4", domain.ErrValidation)
		}
		student.GPA = *input.GPA
	}
	if input.PhoneNumber != nil {
		student.PhoneNumber = *input.PhoneNumber
	}
	if input.Address != nil {
		student.Address = *input.Address
	}
	student.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, student)
}

func (s *StudentService) UpdateStatus(ctx context.Context, id string, status domain.StudentStatus) (*domain.Student, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be one of active, inactive, suspended", domain.ErrValidation)
	}

	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	student.Status = status
	student.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, student)
}

func (s *StudentService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// DeleteAll removes every student record. Admin-gated at the transport.
func (s *StudentService) DeleteAll(ctx context.Context, actor string) (int64, error) {
	count, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	if s.audit != nil {
		s.audit.Record(domain.AuditEvent{
			Actor:  actor,
			Action: domain.AuditStudentsPurged,
			Detail: fmt.Sprintf("%d records", count),
			At:     time.Now().UTC(),
		})
	}
	s.logger.Warn().Int64("count", count).Str("actor", actor).Msg("all students deleted")
	return count, nil
}

func (s *StudentService) AttachDocument(ctx context.Context, id, url string) (*domain.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	student.DocumentURL = url
	student.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, student)
}
