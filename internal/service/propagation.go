package service

import (
	"context"
	"time"

	"course-enrollment/internal/domain/enrollment"
	"course-enrollment/pkg/logger"
)

const defaultPropagationTimeout = 10 * time.Second

// DirectSeatPropagator calls the catalog inline. Errors are logged and
// swallowed, and the caller's cancellation does not abort the call.
type DirectSeatPropagator struct {
	courses enrollment.CourseDirectory
	timeout time.Duration
}

var _ enrollment.SeatCountPropagator = (*DirectSeatPropagator)(nil)

func NewDirectSeatPropagator(courses enrollment.CourseDirectory, timeout time.Duration) *DirectSeatPropagator {
	if timeout <= 0 {
		timeout = defaultPropagationTimeout
	}
	return &DirectSeatPropagator{courses: courses, timeout: timeout}
}

func (p *DirectSeatPropagator) Propagate(ctx context.Context, courseID string, enrolled int) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.courses.UpdateEnrolled(ctx, courseID, enrolled); err != nil {
		logger.Error("Failed to update enrolled count for course %s to %d: %v", courseID, enrolled, err)
		return
	}
	logger.Debug("Course %s enrolled count set to %d", courseID, enrolled)
}
