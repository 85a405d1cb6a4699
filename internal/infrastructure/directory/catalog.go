package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"course-enrollment/internal/domain"
	"course-enrollment/internal/domain/enrollment"
)

// CatalogService is the name used in upstream error messages.
const CatalogService = "catalog-service"

// CatalogClient reads and updates course seat counts over HTTP.
type CatalogClient struct {
	client
}

var _ enrollment.CourseDirectory = (*CatalogClient)(nil)

func NewCatalogClient(baseURL string, httpClient *http.Client) *CatalogClient {
	return &CatalogClient{client: newClient(CatalogService, baseURL, httpClient)}
}

// GetCourseSeats fetches GET /api/courses/{id} and extracts capacity and enrolled.
func (c *CatalogClient) GetCourseSeats(ctx context.Context, courseID string) (*enrollment.CourseSeats, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/courses/"+url.PathEscape(courseID), nil)
	if errors.Is(err, errStatusNotFound) {
		return nil, fmt.Errorf("%w: course %s", domain.ErrNotFound, courseID)
	}
	if err != nil {
		return nil, err
	}

	payload, err := coursePayload(body)
	if err != nil {
		return nil, domain.NewUpstreamError(c.service, err)
	}

	return &enrollment.CourseSeats{
		CourseID: courseID,
		Capacity: intField(payload, "capacity"),
		Enrolled: intField(payload, "enrolled"),
	}, nil
}

type enrolledUpdate struct {
	Enrolled int `json:"enrolled"`
}

// UpdateEnrolled sends PUT /api/courses/{id} with {"enrolled": n}. Only the
// status code of the response is looked at.
func (c *CatalogClient) UpdateEnrolled(ctx context.Context, courseID string, enrolled int) error {
	_, err := c.do(ctx, http.MethodPut, "/api/courses/"+url.PathEscape(courseID), enrolledUpdate{Enrolled: enrolled})
	if errors.Is(err, errStatusNotFound) {
		return fmt.Errorf("%w: course %s", domain.ErrNotFound, courseID)
	}
	return err
}

// coursePayload unwraps the response envelope. A nested "data" object wins;
// otherwise a non-empty top-level object is taken as the course itself.
func coursePayload(body []byte) (map[string]any, error) {
	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}
	if data, ok := envelope["data"].(map[string]any); ok {
		return data, nil
	}
	if len(envelope) > 0 {
		return envelope, nil
	}
	return nil, errors.New("invalid response: empty body")
}

// intField reads a JSON number as an int; missing or non-numeric values are 0.
func intField(payload map[string]any, key string) int {
	n, ok := payload[key].(float64)
	if !ok {
		return 0
	}
	return int(n)
}
