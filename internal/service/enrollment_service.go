package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"course-enrollment/internal/domain"
	"course-enrollment/internal/domain/enrollment"
	"course-enrollment/pkg/logger"

	"github.com/google/uuid"
)

var _ enrollment.Service = (*EnrollmentService)(nil)

// EnrollmentDeps wires the workflow. Locator may be nil, which turns the
// availability checks off. Propagator defaults to a synchronous call on Courses.
type EnrollmentDeps struct {
	Repository         enrollment.Repository
	Courses            enrollment.CourseDirectory
	Students           enrollment.StudentDirectory
	Locator            enrollment.ServiceLocator
	Propagator         enrollment.SeatCountPropagator
	UserServiceName    string
	CatalogServiceName string
}

// EnrollmentService runs the enrollment workflow: validate against the
// student and course directories, commit locally, then push the new seat
// count to the catalog on a best-effort basis. Nothing locks the capacity
// read, so concurrent creates for one course can both be admitted; only the
// (course, student) pair is enforced atomically, by the store.
type EnrollmentService struct {
	repo               enrollment.Repository
	courses            enrollment.CourseDirectory
	students           enrollment.StudentDirectory
	locator            enrollment.ServiceLocator
	propagator         enrollment.SeatCountPropagator
	userServiceName    string
	catalogServiceName string
}

func NewEnrollmentService(deps EnrollmentDeps) *EnrollmentService {
	propagator := deps.Propagator
	if propagator == nil {
		propagator = NewDirectSeatPropagator(deps.Courses, 0)
	}

	userName, catalogName := deps.UserServiceName, deps.CatalogServiceName
	if userName == "" {
		userName = "user-service"
	}
	if catalogName == "" {
		catalogName = "catalog-service"
	}

	return &EnrollmentService{
		repo:               deps.Repository,
		courses:            deps.Courses,
		students:           deps.Students,
		locator:            deps.Locator,
		propagator:         propagator,
		userServiceName:    userName,
		catalogServiceName: catalogName,
	}
}

func (s *EnrollmentService) CreateEnrollment(ctx context.Context, courseID, studentID string) (*enrollment.Record, error) {
	courseID = strings.TrimSpace(courseID)
	studentID = strings.TrimSpace(studentID)
	if err := requireIDs(courseID, studentID); err != nil {
		return nil, err
	}

	logger.Info("Enrolling student %s in course %s", studentID, courseID)

	if err := s.ensureAvailable(ctx, s.userServiceName); err != nil {
		return nil, err
	}
	if err := s.students.EnsureStudentExists(ctx, studentID); err != nil {
		return nil, asUpstream(s.userServiceName, err)
	}

	if err := s.ensureAvailable(ctx, s.catalogServiceName); err != nil {
		return nil, err
	}
	seats, err := s.courses.GetCourseSeats(ctx, courseID)
	if err != nil {
		return nil, asUpstream(s.catalogServiceName, err)
	}
	if seats.Full() {
		return nil, fmt.Errorf("%w: course %s has %d of %d seats taken",
			domain.ErrCapacityExceeded, courseID, seats.Enrolled, seats.Capacity)
	}

	exists, err := s.repo.ExistsByCourseAndStudent(ctx, courseID, studentID)
	if err != nil {
		logger.Error("Failed to check existing enrollment: %v", err)
		return nil, fmt.Errorf("failed to check existing enrollment: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: student %s in course %s", domain.ErrDuplicateEnrollment, studentID, courseID)
	}

	record := &enrollment.Record{
		ID:         uuid.NewString(),
		CourseID:   courseID,
		StudentID:  studentID,
		EnrolledAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		if errors.Is(err, domain.ErrDuplicateEnrollment) {
			return nil, err
		}
		logger.Error("Failed to create enrollment: %v", err)
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	logger.Info("Enrollment %s created for student %s in course %s", record.ID, studentID, courseID)

	s.propagator.Propagate(ctx, courseID, seats.Enrolled+1)
	return record, nil
}

// DeleteEnrollment removes the record and pushes the course's recounted
// total, which also repairs any drift left by earlier failed pushes.
func (s *EnrollmentService) DeleteEnrollment(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: enrollment id is required", domain.ErrValidation)
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		logger.Error("Failed to delete enrollment %s: %v", id, err)
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	logger.Info("Enrollment %s deleted (student %s, course %s)", id, record.StudentID, record.CourseID)

	count, err := s.repo.CountByCourseID(ctx, record.CourseID)
	if err != nil {
		logger.Error("Failed to recount course %s after delete, skipping seat update: %v", record.CourseID, err)
		return nil
	}

	s.propagator.Propagate(ctx, record.CourseID, int(count))
	return nil
}

func (s *EnrollmentService) GetEnrollment(ctx context.Context, id string) (*enrollment.Record, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *EnrollmentService) ListEnrollments(ctx context.Context) ([]*enrollment.Record, error) {
	return s.repo.List(ctx)
}

func (s *EnrollmentService) ListByCourse(ctx context.Context, courseID string) ([]*enrollment.Record, error) {
	return s.repo.ListByCourseID(ctx, strings.TrimSpace(courseID))
}

func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID string) ([]*enrollment.Record, error) {
	return s.repo.ListByStudentID(ctx, strings.TrimSpace(studentID))
}

func (s *EnrollmentService) Exists(ctx context.Context, courseID, studentID string) (bool, error) {
	courseID = strings.TrimSpace(courseID)
	studentID = strings.TrimSpace(studentID)
	if err := requireIDs(courseID, studentID); err != nil {
		return false, err
	}
	return s.repo.ExistsByCourseAndStudent(ctx, courseID, studentID)
}

func (s *EnrollmentService) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	return s.repo.CountByCourseID(ctx, strings.TrimSpace(courseID))
}

func (s *EnrollmentService) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	return s.repo.CountByStudentID(ctx, strings.TrimSpace(studentID))
}

func (s *EnrollmentService) ensureAvailable(ctx context.Context, serviceName string) error {
	if s.locator == nil {
		return nil
	}
	if !s.locator.IsAvailable(ctx, serviceName) {
		logger.Warn("No live instance of %s registered", serviceName)
		return fmt.Errorf("%w: %s has no live instance", domain.ErrServiceUnavailable, serviceName)
	}
	return nil
}

func requireIDs(courseID, studentID string) error {
	switch {
	case courseID == "" && studentID == "":
		return fmt.Errorf("%w: courseId and studentId are required", domain.ErrValidation)
	case courseID == "":
		return fmt.Errorf("%w: courseId is required", domain.ErrValidation)
	case studentID == "":
		return fmt.Errorf("%w: studentId is required", domain.ErrValidation)
	}
	return nil
}

// asUpstream keeps not-found and already classified upstream errors as they
// are and wraps anything else as a failure of service.
func asUpstream(service string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUpstream) {
		return err
	}
	return domain.NewUpstreamError(service, err)
}
