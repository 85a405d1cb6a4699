// Package domain holds the error taxonomy shared by the catalog, user and
// enrollment services. Handlers map these sentinels to HTTP statuses with
// errors.Is, so wrap them with fmt.Errorf("%w: ...") rather than replacing them.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned for missing or blank required input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced student, course or enrollment does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a directory uniqueness rule (course code,
	// student number, teacher number) would be broken.
	ErrConflict = errors.New("conflict")

	// ErrDuplicateEnrollment is returned when the (course, student) pair is already enrolled.
	ErrDuplicateEnrollment = errors.New("already enrolled in this course")

	// ErrCapacityExceeded is returned when the course has no free seats.
	ErrCapacityExceeded = errors.New("course is full")

	// ErrServiceUnavailable is returned when the locator reports no live instance of a dependency.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrUpstream is returned when a directory call fails for any reason other than 404.
	ErrUpstream = errors.New("upstream service error")
)

// UpstreamError wraps a failed call to another service. It matches both
// ErrUpstream and the underlying cause.
type UpstreamError struct {
	Service string
	Err     error
}

// NewUpstreamError returns an UpstreamError for service wrapping err.
func NewUpstreamError(service string, err error) error {
	return &UpstreamError{Service: service, Err: err}
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrUpstream, e.Service)
	}
	return fmt.Sprintf("%s: %s: %v", ErrUpstream, e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUpstream}
	}
	return []error{ErrUpstream, e.Err}
}

// PublicMessage is the caller-facing text; the cause stays in the logs.
func (e *UpstreamError) PublicMessage() string {
	return "failed to call " + e.Service
}
