package directory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"course-enrollment/internal/domain"
	"course-enrollment/internal/domain/enrollment"
)

// UserService is the name used in upstream error messages.
const UserService = "user-service"

// StudentClient checks students against the user service.
type StudentClient struct {
	client
}

var _ enrollment.StudentDirectory = (*StudentClient)(nil)

func NewStudentClient(baseURL string, httpClient *http.Client) *StudentClient {
	return &StudentClient{client: newClient(UserService, baseURL, httpClient)}
}

// EnsureStudentExists calls GET /api/students/{studentId}; any 2xx means the
// student exists and the body is ignored.
func (c *StudentClient) EnsureStudentExists(ctx context.Context, studentID string) error {
	_, err := c.do(ctx, http.MethodGet, "/api/students/"+url.PathEscape(studentID), nil)
	if errors.Is(err, errStatusNotFound) {
		return fmt.Errorf("%w: student %s", domain.ErrNotFound, studentID)
	}
	return err
}
