package handlers

import (
	"net/http"

	"course-enrollment/internal/domain/user"

	"github.com/gin-gonic/gin"
)

// TeacherHandler handles teacher-related HTTP requests
type TeacherHandler struct {
	teacherService user.TeacherService
}

// NewTeacherHandler creates a new teacher handler
func NewTeacherHandler(teacherService user.TeacherService) *TeacherHandler {
	return &TeacherHandler{
		teacherService: teacherService,
	}
}

// CreateTeacher handles POST /api/teachers
func (h *TeacherHandler) CreateTeacher(c *gin.Context) {
	var req user.CreateTeacherRequest
	if !bindAndValidate(c, &req) {
		return
	}

	teacher, err := h.teacherService.CreateTeacher(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Teacher created successfully",
		Data:    teacher,
	})
}

// GetTeacher handles GET /api/teachers/:id. The id may be the internal id or
// the teacher number.
func (h *TeacherHandler) GetTeacher(c *gin.Context) {
	teacher, err := h.teacherService.GetTeacher(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    teacher,
	})
}

// UpdateTeacher handles PUT /api/teachers/:id
func (h *TeacherHandler) UpdateTeacher(c *gin.Context) {
	var req user.UpdateTeacherRequest
	if !bindAndValidate(c, &req) {
		return
	}

	teacher, err := h.teacherService.UpdateTeacher(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Teacher updated successfully",
		Data:    teacher,
	})
}

// DeleteTeacher handles DELETE /api/teachers/:id
func (h *TeacherHandler) DeleteTeacher(c *gin.Context) {
	if err := h.teacherService.DeleteTeacher(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Teacher deleted successfully",
	})
}

// ListTeachers handles GET /api/teachers
func (h *TeacherHandler) ListTeachers(c *gin.Context) {
	limit, offset := pagination(c)

	teachers, err := h.teacherService.ListTeachers(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	if teachers == nil {
		teachers = []*user.Teacher{}
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    teachers,
	})
}
