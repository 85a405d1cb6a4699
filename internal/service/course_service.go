package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"course-enrollment/internal/domain"
	"course-enrollment/internal/domain/catalog"
	"course-enrollment/pkg/logger"
)

// courseService implements catalog.Service
type courseService struct {
	courseRepo catalog.Repository
}

func NewCourseService(courseRepo catalog.Repository) catalog.Service {
	return &courseService{
		courseRepo: courseRepo,
	}
}

func (s *courseService) ListCourses(ctx context.Context) ([]*catalog.Course, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		logger.Error("Failed to list courses: %v", err)
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// GetCourse looks the course up by id, then by code.
func (s *courseService) GetCourse(ctx context.Context, idOrCode string) (*catalog.Course, error) {
	idOrCode = strings.TrimSpace(idOrCode)
	if idOrCode == "" {
		return nil, fmt.Errorf("%w: course id is required", domain.ErrValidation)
	}

	course, err := s.courseRepo.GetByID(ctx, idOrCode)
	if err == nil {
		return course, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		logger.Error("Failed to get course %s: %v", idOrCode, err)
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return s.GetCourseByCode(ctx, idOrCode)
}

func (s *courseService) GetCourseByCode(ctx context.Context, code string) (*catalog.Course, error) {
	code = strings.TrimSpace(code)
	course, err := s.courseRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		logger.Error("Failed to get course by code %s: %v", code, err)
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *courseService) CreateCourse(ctx context.Context, req *catalog.CreateCourseRequest) (*catalog.Course, error) {
	logger.Info("Creating course with code: %s", req.Code)

	code := strings.TrimSpace(req.Code)
	if _, err := s.courseRepo.GetByCode(ctx, code); err == nil {
		return nil, fmt.Errorf("%w: course code %s already exists", domain.ErrConflict, code)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check course code: %w", err)
	}

	course := catalog.NewCourse(req)
	if err := s.courseRepo.Create(ctx, course); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		logger.Error("Failed to create course: %v", err)
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	logger.Info("Course created successfully with ID: %s", course.ID)
	return course, nil
}

// UpdateCourse applies only the supplied fields. A code change is checked
// against the other courses first.
func (s *courseService) UpdateCourse(ctx context.Context, idOrCode string, req *catalog.UpdateCourseRequest) (*catalog.Course, error) {
	course, err := s.GetCourse(ctx, idOrCode)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		newCode := strings.TrimSpace(*req.Code)
		if newCode != course.Code {
			existing, err := s.courseRepo.GetByCode(ctx, newCode)
			if err == nil && existing.ID != course.ID {
				return nil, fmt.Errorf("%w: course code %s already exists", domain.ErrConflict, newCode)
			}
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("failed to check course code: %w", err)
			}
		}
	}

	course.Apply(req)
	course.UpdatedAt = time.Now().UTC()

	if err := s.courseRepo.Update(ctx, course); err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		logger.Error("Failed to update course %s: %v", course.ID, err)
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	logger.Info("Course %s updated (enrolled=%d, capacity=%d)", course.Code, course.Enrolled, course.Capacity)
	return course, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, idOrCode string) error {
	course, err := s.GetCourse(ctx, idOrCode)
	if err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, course.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		logger.Error("Failed to delete course %s: %v", course.ID, err)
		return fmt.Errorf("failed to delete course: %w", err)
	}

	logger.Info("Course %s deleted", course.Code)
	return nil
}

func (s *courseService) Exists(ctx context.Context, idOrCode string) (bool, error) {
	_, err := s.GetCourse(ctx, idOrCode)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
