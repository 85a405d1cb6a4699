package handlers

import (
	"net/http"

	"course-enrollment/internal/domain/user"

	"github.com/gin-gonic/gin"
)

// StudentHandler handles student-related HTTP requests
type StudentHandler struct {
	studentService user.StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService user.StudentService) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
	}
}

// CreateStudent handles POST /api/students
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req user.CreateStudentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	student, err := h.studentService.CreateStudent(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Student created successfully",
		Data:    student,
	})
}

// GetStudent handles GET /api/students/:id. The id may be the internal id or
// the student number.
func (h *StudentHandler) GetStudent(c *gin.Context) {
	student, err := h.studentService.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    student,
	})
}

// UpdateStudent handles PUT /api/students/:id
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	var req user.UpdateStudentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	student, err := h.studentService.UpdateStudent(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Student updated successfully",
		Data:    student,
	})
}

// DeleteStudent handles DELETE /api/students/:id
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	if err := h.studentService.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Student deleted successfully",
	})
}

// ListStudents handles GET /api/students
func (h *StudentHandler) ListStudents(c *gin.Context) {
	limit, offset := pagination(c)

	students, err := h.studentService.ListStudents(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	if students == nil {
		students = []*user.Student{}
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    students,
	})
}
