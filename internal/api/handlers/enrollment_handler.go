package handlers

import (
	"net/http"

	"course-enrollment/internal/domain/enrollment"

	"github.com/gin-gonic/gin"
)

// EnrollmentHandler handles enrollment-related HTTP requests
type EnrollmentHandler struct {
	enrollmentService enrollment.Service
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(enrollmentService enrollment.Service) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
	}
}

// CreateEnrollment handles POST /api/enrollments
func (h *EnrollmentHandler) CreateEnrollment(c *gin.Context) {
	var req enrollment.CreateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	record, err := h.enrollmentService.CreateEnrollment(c.Request.Context(), req.CourseID, req.StudentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Enrollment created successfully",
		Data:    record,
	})
}

// DeleteEnrollment handles DELETE /api/enrollments/:id
func (h *EnrollmentHandler) DeleteEnrollment(c *gin.Context) {
	if err := h.enrollmentService.DeleteEnrollment(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Enrollment deleted successfully",
	})
}

// GetEnrollment handles GET /api/enrollments/:id
func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	record, err := h.enrollmentService.GetEnrollment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    record,
	})
}

// ListEnrollments handles GET /api/enrollments
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	records, err := h.enrollmentService.ListEnrollments(c.Request.Context())
	h.respondList(c, records, err)
}

// ListByCourse handles GET /api/enrollments/course/:courseId
func (h *EnrollmentHandler) ListByCourse(c *gin.Context) {
	records, err := h.enrollmentService.ListByCourse(c.Request.Context(), c.Param("courseId"))
	h.respondList(c, records, err)
}

// ListByStudent handles GET /api/enrollments/student/:studentId
func (h *EnrollmentHandler) ListByStudent(c *gin.Context) {
	records, err := h.enrollmentService.ListByStudent(c.Request.Context(), c.Param("studentId"))
	h.respondList(c, records, err)
}

// Exists handles GET /api/enrollments/exists?courseId=&studentId=
func (h *EnrollmentHandler) Exists(c *gin.Context) {
	courseID := c.Query("courseId")
	studentID := c.Query("studentId")

	exists, err := h.enrollmentService.Exists(c.Request.Context(), courseID, studentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: enrollment.ExistsResponse{
			CourseID:  courseID,
			StudentID: studentID,
			Exists:    exists,
		},
	})
}

// CountByCourse handles GET /api/enrollments/course/:courseId/count
func (h *EnrollmentHandler) CountByCourse(c *gin.Context) {
	courseID := c.Param("courseId")

	count, err := h.enrollmentService.CountByCourse(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    enrollment.CountResponse{CourseID: courseID, Count: count},
	})
}

func (h *EnrollmentHandler) respondList(c *gin.Context, records []*enrollment.Record, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []*enrollment.Record{}
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    records,
	})
}
