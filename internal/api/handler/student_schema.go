package handler

import "github.com/campushq/student-system/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses, rendered by the central error handler.
type errorResponse struct {
	Error string `json:"error"`
}

type createStudentRequest struct {
	Name           string  `json:"name"            validate:"required,min=2,max=100"`
	Email          string  `json:"email"           validate:"required,email"`
	RollNumber     string  `json:"roll_number"     validate:"required"`
	CourseEnrolled string  `json:"course_enrolled" validate:"required"`
	GPA            float64 `json:"gpa"             validate:"gte=0,lte=4"`
	PhoneNumber    string  `json:"phone_number"`
	Address        string  `json:"address"`
}

type updateStudentRequest struct {
	Name           *string  `json:"name"            validate:"omitempty,min=2,max=100"`
	Email          *string  `json:"email"           validate:"omitempty,email"`
	RollNumber     *string  `json:"roll_number"     validate:"omitempty,min=1"`
	CourseEnrolled *string  `json:"course_enrolled" validate:"omitempty,min=1"`
	GPA            *float64 `json:"gpa"             validate:"omitempty,gte=0,lte=4"`
	PhoneNumber    *string  `json:"phone_number"`
	Address        *string  `json:"address"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive suspended"`
}

type studentResponse struct {
	Data *domain.Student `json:"data"`
}

type studentListResponse struct {
	Data  []domain.Student `json:"data"`
	Count int              `json:"count"`
}

type deleteResponse struct {
	DeletedID string `json:"deleted_id"`
}

type purgeResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}
