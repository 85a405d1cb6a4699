package enrollment

import (
	"context"
)

// Repository defines the interface for enrollment data access.
// Create must reject a second record for the same (course, student) pair
// with domain.ErrDuplicateEnrollment; lookups of a missing id return
// domain.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, record *Record) error
	GetByID(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Record, error)
	ListByCourseID(ctx context.Context, courseID string) ([]*Record, error)
	ListByStudentID(ctx context.Context, studentID string) ([]*Record, error)
	ExistsByCourseAndStudent(ctx context.Context, courseID, studentID string) (bool, error)
	CountByCourseID(ctx context.Context, courseID string) (int64, error)
	CountByStudentID(ctx context.Context, studentID string) (int64, error)
}

// CourseDirectory is the catalog service as seen by the workflow.
type CourseDirectory interface {
	GetCourseSeats(ctx context.Context, courseID string) (*CourseSeats, error)
	UpdateEnrolled(ctx context.Context, courseID string, enrolled int) error
}

// StudentDirectory is the user service as seen by the workflow.
type StudentDirectory interface {
	EnsureStudentExists(ctx context.Context, studentID string) error
}

// ServiceLocator answers whether at least one live instance of a service is registered.
type ServiceLocator interface {
	IsAvailable(ctx context.Context, serviceName string) bool
}

// SeatCountPropagator pushes a course's enrolled count back to the catalog.
// Implementations log failures and never report them to the caller.
type SeatCountPropagator interface {
	Propagate(ctx context.Context, courseID string, enrolled int)
}

// Service defines the enrollment workflow.
type Service interface {
	CreateEnrollment(ctx context.Context, courseID, studentID string) (*Record, error)
	DeleteEnrollment(ctx context.Context, id string) error
	GetEnrollment(ctx context.Context, id string) (*Record, error)
	ListEnrollments(ctx context.Context) ([]*Record, error)
	ListByCourse(ctx context.Context, courseID string) ([]*Record, error)
	ListByStudent(ctx context.Context, studentID string) ([]*Record, error)
	Exists(ctx context.Context, courseID, studentID string) (bool, error)
	CountByCourse(ctx context.Context, courseID string) (int64, error)
	CountByStudent(ctx context.Context, studentID string) (int64, error)
}
