package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"course-enrollment/internal/domain"
	"course-enrollment/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.SetOutput(io.Discard)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "validation",
			err:     fmt.Errorf("%w: courseId is required", domain.ErrValidation),
			status:  http.StatusBadRequest,
			message: "validation failed: courseId is required",
		},
		{
			name:    "not found",
			err:     fmt.Errorf("%w: student S9", domain.ErrNotFound),
			status:  http.StatusNotFound,
			message: "not found: student S9",
		},
		{
			name:    "duplicate",
			err:     fmt.Errorf("%w: student S1 in course CS101", domain.ErrDuplicateEnrollment),
			status:  http.StatusConflict,
			message: "already enrolled in this course: student S1 in course CS101",
		},
		{
			name:    "full",
			err:     domain.ErrCapacityExceeded,
			status:  http.StatusConflict,
			message: "course is full",
		},
		{
			name:    "conflict",
			err:     fmt.Errorf("%w: course code CS101 already exists", domain.ErrConflict),
			status:  http.StatusConflict,
			message: "conflict: course code CS101 already exists",
		},
		{
			name:    "unavailable",
			err:     fmt.Errorf("%w: user-service has no live instance", domain.ErrServiceUnavailable),
			status:  http.StatusServiceUnavailable,
			message: "service unavailable: user-service has no live instance",
		},
		{
			name:    "upstream hides the cause",
			err:     domain.NewUpstreamError("catalog-service", errors.New("dial tcp 10.0.0.1:8081: connection refused")),
			status:  http.StatusBadGateway,
			message: "failed to call catalog-service",
		},
		{
			name:    "idempotency key reused",
			err:     domain.ErrIdempotencyKeyReused,
			status:  http.StatusUnprocessableEntity,
			message: domain.ErrIdempotencyKeyReused.Error(),
		},
		{
			name:    "unclassified",
			err:     errors.New("pq: relation enrollments does not exist"),
			status:  http.StatusInternalServerError,
			message: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/enrollments", nil)

			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestBindAndValidate(t *testing.T) {
	type request struct {
		CourseID string `json:"courseId" validate:"required,notblank"`
	}

	t.Run("malformed json", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", stringsReader(`{"courseId":`))
		c.Request.Header.Set("Content-Type", "application/json")

		var req request
		assert.False(t, bindAndValidate(c, &req))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid request format")
	})

	t.Run("blank field", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", stringsReader(`{"courseId":"   "}`))
		c.Request.Header.Set("Content-Type", "application/json")

		var req request
		assert.False(t, bindAndValidate(c, &req))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "courseId is required")
	})

	t.Run("valid", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", stringsReader(`{"courseId":"CS101"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		var req request
		assert.True(t, bindAndValidate(c, &req))
		assert.Equal(t, "CS101", req.CourseID)
	})
}

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}
