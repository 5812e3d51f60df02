package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campushq/student-system/internal/api/metrics"
	"github.com/campushq/student-system/internal/core/domain"
	"github.com/campushq/student-system/internal/core/ports"
)

const maxDocumentSize = 10 << 20 // 10 MiB

type StudentHandler struct {
	studentService ports.StudentService
	uploadDir      string
}

func NewStudentHandler(studentService ports.StudentService, uploadDir string) *StudentHandler {
	return &StudentHandler{studentService: studentService, uploadDir: uploadDir}
}

// List returns all students.
//
// @Summary      List students
// @Tags         students
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  studentListResponse
// @Router       /api/students [get]
func (h *StudentHandler) List(c echo.Context) error {
	students, err := h.studentService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, studentListResponse{Data: students, Count: len(students)})
}

// Search finds students whose name contains the query, case-insensitively.
//
// @Summary      Search students by name
// @Tags         students
// @Security     BearerAuth
// @Produce      json
// @Param        name  query     string  true  "Name fragment"
// @Success      200   {object}  studentListResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/students/search [get]
func (h *StudentHandler) Search(c echo.Context) error {
	students, err := h.studentService.Search(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, studentListResponse{Data: students, Count: len(students)})
}

// Get returns a single student by id.
//
// @Summary      Get a student
// @Tags         students
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Student id"
// @Success      200  {object}  studentResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/students/{id} [get]
func (h *StudentHandler) Get(c echo.Context) error {
	student, err := h.studentService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, studentResponse{Data: student})
}

// Create adds a student record owned by the authenticated caller.
//
// @Summary      Create a student
// @Tags         students
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      createStudentRequest  true  "Student details"
// @Success      201   {object}  studentResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/students [post]
func (h *StudentHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createStudentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	student, err := h.studentService.Create(c.Request().Context(), ports.CreateStudentInput{
		Name:           req.Name,
		Email:          req.Email,
		RollNumber:     req.RollNumber,
		CourseEnrolled: req.CourseEnrolled,
		GPA:            req.GPA,
		PhoneNumber:    req.PhoneNumber,
		Address:        req.Address,
		CreatedBy:      claims.UserID,
	})
	if err != nil {
		return err
	}

	metrics.StudentsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, studentResponse{Data: student})
}

// Update applies a partial update; omitted fields are left unchanged.
//
// @Summary      Update a student
// @Tags         students
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Student id"
// @Param        body  body      updateStudentRequest  true  "Fields to update"
// @Success      200   {object}  studentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/students/{id} [put]
func (h *StudentHandler) Update(c echo.Context) error {
	var req updateStudentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	student, err := h.studentService.Update(c.Request().Context(), c.Param("id"), ports.UpdateStudentInput{
		Name:           req.Name,
		Email:          req.Email,
		RollNumber:     req.RollNumber,
		CourseEnrolled: req.CourseEnrolled,
		GPA:            req.GPA,
		PhoneNumber:    req.PhoneNumber,
		Address:        req.Address,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, studentResponse{Data: student})
}

// UpdateStatus moves a student to another enrollment status.
//
// @Summary      Update student status
// @Tags         students
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Student id"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  studentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/students/{id}/status [patch]
func (h *StudentHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	student, err := h.studentService.UpdateStatus(c.Request().Context(), c.Param("id"), domain.StudentStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, studentResponse{Data: student})
}

// Delete removes a single student.
//
// @Summary      Delete a student
// @Tags         students
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Student id"
// @Success      200  {object}  deleteResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/students/{id} [delete]
func (h *StudentHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.studentService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	metrics.StudentsDeletedTotal.Inc()
	return c.JSON(http.StatusOK, deleteResponse{DeletedID: id})
}

// DeleteAll removes every student record. Admin only.
//
// @Summary      Delete all students
// @Tags         students
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  purgeResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/students [delete]
func (h *StudentHandler) DeleteAll(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	count, err := h.studentService.DeleteAll(c.Request().Context(), claims.Email)
	if err != nil {
		return err
	}
	metrics.StudentsDeletedTotal.Add(float64(count))
	return c.JSON(http.StatusOK, purgeResponse{DeletedCount: count})
}

// UploadDocument stores a document for a student under the uploads directory
// and records its URL on the record.
//
// @Summary      Upload a student document
// @Tags         students
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id        path      string  true  "Student id"
// @Param        document  formData  file    true  "Document"
// @Success      200       {object}  studentResponse
// @Failure      400       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/students/{id}/document [post]
func (h *StudentHandler) UploadDocument(c echo.Context) error {
	id := c.Param("id")

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no file uploaded")
	}
	if fileHeader.Size > maxDocumentSize {
		return echo.NewHTTPError(http.StatusBadRequest, "file too large")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	// The stored name is derived from the student id, never from the client
	// filename, so uploads cannot escape the upload directory.
	name := fmt.Sprintf("%s_%d%s", id, time.Now().UnixNano(), filepath.Ext(fileHeader.Filename))
	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write upload: %w", err)
	}

	student, err := h.studentService.AttachDocument(c.Request().Context(), id, "/uploads/"+name)
	if err != nil {
		// The record does not exist; do not keep the orphaned file.
		_ = os.Remove(filepath.Join(h.uploadDir, name))
		return err
	}
	return c.JSON(http.StatusOK, studentResponse{Data: student})
}
