package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"course-enrollment/internal/domain"
	"course-enrollment/internal/domain/user"
	"course-enrollment/pkg/logger"
)

// studentService implements the StudentService interface
type studentService struct {
	studentRepo user.StudentRepository
}

func NewStudentService(studentRepo user.StudentRepository) user.StudentService {
	return &studentService{
		studentRepo: studentRepo,
	}
}

func (s *studentService) CreateStudent(ctx context.Context, req *user.CreateStudentRequest) (*user.Student, error) {
	logger.Info("Creating student with student ID: %s", req.StudentID)

	studentID := strings.TrimSpace(req.StudentID)
	if _, err := s.studentRepo.GetByStudentID(ctx, studentID); err == nil {
		return nil, fmt.Errorf("%w: student ID %s already exists", domain.ErrConflict, studentID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check student ID: %w", err)
	}

	student := user.NewStudent(req)
	if err := s.studentRepo.Create(ctx, student); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		logger.Error("Failed to create student: %v", err)
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	logger.Info("Student created successfully with ID: %s", student.ID)
	return student, nil
}

// GetStudent accepts the internal id or the student number.
func (s *studentService) GetStudent(ctx context.Context, id string) (*user.Student, error) {
	id = strings.TrimSpace(id)
	logger.Debug("Getting student: %s", id)

	student, err := s.studentRepo.GetByID(ctx, id)
	if err == nil {
		return student, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		logger.Error("Failed to get student: %v", err)
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	student, err = s.studentRepo.GetByStudentID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		logger.Error("Failed to get student by student ID: %v", err)
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

func (s *studentService) UpdateStudent(ctx context.Context, id string, req *user.UpdateStudentRequest) (*user.Student, error) {
	logger.Info("Updating student: %s", id)

	student, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StudentID != nil {
		newID := strings.TrimSpace(*req.StudentID)
		existing, err := s.studentRepo.GetByStudentID(ctx, newID)
		if err == nil && existing.ID != student.ID {
			return nil, fmt.Errorf("%w: student ID %s already taken", domain.ErrConflict, newID)
		}
		student.StudentID = newID
	}
	if req.Name != nil {
		student.Name = strings.TrimSpace(*req.Name)
	}
	if req.Major != nil {
		student.Major = strings.TrimSpace(*req.Major)
	}
	if req.Grade != nil {
		student.Grade = *req.Grade
	}
	if req.Email != nil {
		student.Email = strings.TrimSpace(*req.Email)
	}
	student.UpdatedAt = time.Now().UTC()

	if err := s.studentRepo.Update(ctx, student); err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		logger.Error("Failed to update student: %v", err)
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	logger.Info("Student updated successfully: %s", student.ID)
	return student, nil
}

func (s *studentService) DeleteStudent(ctx context.Context, id string) error {
	logger.Info("Deleting student: %s", id)

	student, err := s.GetStudent(ctx, id)
	if err != nil {
		return err
	}

	if err := s.studentRepo.Delete(ctx, student.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		logger.Error("Failed to delete student: %v", err)
		return fmt.Errorf("failed to delete student: %w", err)
	}

	logger.Info("Student deleted successfully: %s", student.ID)
	return nil
}

func (s *studentService) ListStudents(ctx context.Context, limit, offset int) ([]*user.Student, error) {
	logger.Debug("Listing students with limit: %d, offset: %d", limit, offset)

	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	students, err := s.studentRepo.List(ctx, limit, offset)
	if err != nil {
		logger.Error("Failed to list students: %v", err)
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}
