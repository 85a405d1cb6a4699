package handlers

import (
	"net/http"

	"course-enrollment/internal/domain/catalog"

	"github.com/gin-gonic/gin"
)

// CourseHandler handles course catalog HTTP requests
type CourseHandler struct {
	courseService catalog.Service
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService catalog.Service) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
	}
}

// ListCourses handles GET /api/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.ListCourses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if courses == nil {
		courses = []*catalog.Course{}
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    courses,
	})
}

// GetCourse handles GET /api/courses/:id. The id may also be a course code.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courseService.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    course,
	})
}

// GetCourseByCode handles GET /api/courses/code/:code
func (h *CourseHandler) GetCourseByCode(c *gin.Context) {
	course, err := h.courseService.GetCourseByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    course,
	})
}

// CreateCourse handles POST /api/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req catalog.CreateCourseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	course, err := h.courseService.CreateCourse(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Course created successfully",
		Data:    course,
	})
}

// UpdateCourse handles PUT /api/courses/:id. Only the supplied fields change,
// which is how the enrollment service pushes {"enrolled": n}.
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	var req catalog.UpdateCourseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	course, err := h.courseService.UpdateCourse(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Course updated successfully",
		Data:    course,
	})
}

// DeleteCourse handles DELETE /api/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	if err := h.courseService.DeleteCourse(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Course deleted successfully",
	})
}
