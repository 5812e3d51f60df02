package domain

import (
	"errors"
	"time"
)

// StudentStatus represents the enrollment state of a student record.
type StudentStatus string

const (
	StudentActive    StudentStatus = "active"
	StudentInactive  StudentStatus = "inactive"
	StudentSuspended StudentStatus = "suspended"
)

// Valid reports whether s is a member of the known status set.
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentActive, StudentInactive, StudentSuspended:
		return true
	}
	return false
}

var ErrStudentNotFound = errors.New("student not found")
var ErrDuplicateStudent = errors.New("student already exists")

// Student is the record the API manages. Email and RollNumber are each
// globally unique, enforced by indexes in the storage layer.
type Student struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	RollNumber     string        `json:"roll_number"`
	CourseEnrolled string        `json:"course_enrolled"`
	GPA            float64       `json:"gpa"`
	Status         StudentStatus `json:"status"`
	PhoneNumber    string        `json:"phone_number,omitempty"`
	Address        string        `json:"address,omitempty"`
	DocumentURL    string        `json:"document_url,omitempty"`
	CreatedBy      string        `json:"created_by"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
