package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name   string
		checks map[string]HealthCheckFunc
		status int
	}{
		{name: "no dependencies", checks: nil, status: http.StatusOK},
		{name: "all healthy", checks: map[string]HealthCheckFunc{"database": healthy, "redis": healthy}, status: http.StatusOK},
		{name: "redis down", checks: map[string]HealthCheckFunc{"database": healthy, "redis": down}, status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("enrollment-service", "1.0.0", tt.checks)
			r := gin.New()
			r.GET("/health", h.HealthCheck)
			r.GET("/ready", h.ReadinessCheck)
			r.GET("/live", h.LivenessCheck)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.status, w.Code)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "enrollment-service", resp.Service)
			assert.Len(t, resp.Services, len(tt.checks))

			w = httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.status, w.Code)

			w = httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}
