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

type teacherService struct {
	teacherRepo user.TeacherRepository
}

func NewTeacherService(teacherRepo user.TeacherRepository) user.TeacherService {
	return &teacherService{
		teacherRepo: teacherRepo,
	}
}

func (s *teacherService) CreateTeacher(ctx context.Context, req *user.CreateTeacherRequest) (*user.Teacher, error) {
	logger.Info("Creating teacher with teacher ID: %s", req.TeacherID)

	teacherID := strings.TrimSpace(req.TeacherID)
	if _, err := s.teacherRepo.GetByTeacherID(ctx, teacherID); err == nil {
		return nil, fmt.Errorf("%w: teacher ID %s already exists", domain.ErrConflict, teacherID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check teacher ID: %w", err)
	}

	teacher := user.NewTeacher(req)
	if err := s.teacherRepo.Create(ctx, teacher); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		logger.Error("Failed to create teacher: %v", err)
		return nil, fmt.Errorf("failed to create teacher: %w", err)
	}

	logger.Info("Teacher created successfully with ID: %s", teacher.ID)
	return teacher, nil
}

func (s *teacherService) GetTeacher(ctx context.Context, id string) (*user.Teacher, error) {
	id = strings.TrimSpace(id)

	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err == nil {
		return teacher, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}

	teacher, err = s.teacherRepo.GetByTeacherID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	return teacher, nil
}

func (s *teacherService) UpdateTeacher(ctx context.Context, id string, req *user.UpdateTeacherRequest) (*user.Teacher, error) {
	teacher, err := s.GetTeacher(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TeacherID != nil {
		newID := strings.TrimSpace(*req.TeacherID)
		existing, err := s.teacherRepo.GetByTeacherID(ctx, newID)
		if err == nil && existing.ID != teacher.ID {
			return nil, fmt.Errorf("%w: teacher ID %s already taken", domain.ErrConflict, newID)
		}
		teacher.TeacherID = newID
	}
	if req.Name != nil {
		teacher.Name = strings.TrimSpace(*req.Name)
	}
	if req.Department != nil {
		teacher.Department = strings.TrimSpace(*req.Department)
	}
	if req.Email != nil {
		teacher.Email = strings.TrimSpace(*req.Email)
	}
	teacher.UpdatedAt = time.Now().UTC()

	if err := s.teacherRepo.Update(ctx, teacher); err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		logger.Error("Failed to update teacher: %v", err)
		return nil, fmt.Errorf("failed to update teacher: %w", err)
	}

	logger.Info("Teacher updated successfully: %s", teacher.ID)
	return teacher, nil
}

func (s *teacherService) DeleteTeacher(ctx context.Context, id string) error {
	teacher, err := s.GetTeacher(ctx, id)
	if err != nil {
		return err
	}

	if err := s.teacherRepo.Delete(ctx, teacher.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete teacher: %w", err)
	}

	logger.Info("Teacher deleted successfully: %s", teacher.ID)
	return nil
}

func (s *teacherService) ListTeachers(ctx context.Context, limit, offset int) ([]*user.Teacher, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	teachers, err := s.teacherRepo.List(ctx, limit, offset)
	if err != nil {
		logger.Error("Failed to list teachers: %v", err)
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	return teachers, nil
}
