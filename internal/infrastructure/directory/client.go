// Package directory holds the HTTP clients the enrollment service uses to
// reach the catalog and user services.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"course-enrollment/internal/domain"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 1 << 20

// errStatusNotFound marks a 404 from the remote service; callers turn it
// into domain.ErrNotFound naming what was missing.
var errStatusNotFound = errors.New("remote returned 404")

// NewHTTPClient returns a client with the given timeout whose transport
// propagates trace context to the called service.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

type client struct {
	service string
	baseURL string
	http    *http.Client
}

func newClient(service, baseURL string, httpClient *http.Client) client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// do sends the request and returns the body of a 2xx response. A 404 comes
// back as errStatusNotFound; every other failure is an *domain.UpstreamError.
func (c client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, domain.NewUpstreamError(c.service, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.NewUpstreamError(c.service, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, domain.NewUpstreamError(c.service, fmt.Errorf("failed to read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errStatusNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, domain.NewUpstreamError(c.service, fmt.Errorf("%s %s returned status %d", method, path, resp.StatusCode))
	}
	return data, nil
}
