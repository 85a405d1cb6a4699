package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"course-enrollment/internal/domain"
	"course-enrollment/internal/domain/catalog"
)

// MemoryCourseRepository is an in-memory implementation of catalog.Repository.
type MemoryCourseRepository struct {
	courses map[string]*catalog.Course
	mutex   sync.RWMutex
}

var _ catalog.Repository = (*MemoryCourseRepository)(nil)

func NewMemoryCourseRepository() *MemoryCourseRepository {
	return &MemoryCourseRepository{
		courses: make(map[string]*catalog.Course),
	}
}

func (r *MemoryCourseRepository) Create(_ context.Context, course *catalog.Course) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.courses[course.ID]; exists {
		return fmt.Errorf("%w: course %s already exists", domain.ErrConflict, course.ID)
	}
	if r.codeTakenLocked(course.Code, "") {
		return fmt.Errorf("%w: course %s already exists", domain.ErrConflict, course.Code)
	}

	stored := *course
	r.courses[course.ID] = &stored
	return nil
}

func (r *MemoryCourseRepository) GetByID(_ context.Context, id string) (*catalog.Course, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	course, exists := r.courses[id]
	if !exists {
		return nil, fmt.Errorf("%w: course %s", domain.ErrNotFound, id)
	}
	out := *course
	return &out, nil
}

func (r *MemoryCourseRepository) GetByCode(_ context.Context, code string) (*catalog.Course, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, course := range r.courses {
		if course.Code == code {
			out := *course
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: course %s", domain.ErrNotFound, code)
}

func (r *MemoryCourseRepository) List(_ context.Context) ([]*catalog.Course, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	courses := make([]*catalog.Course, 0, len(r.courses))
	for _, course := range r.courses {
		out := *course
		courses = append(courses, &out)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	return courses, nil
}

func (r *MemoryCourseRepository) Update(_ context.Context, course *catalog.Course) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.courses[course.ID]; !exists {
		return fmt.Errorf("%w: course %s", domain.ErrNotFound, course.ID)
	}
	if r.codeTakenLocked(course.Code, course.ID) {
		return fmt.Errorf("%w: course %s already exists", domain.ErrConflict, course.Code)
	}

	stored := *course
	r.courses[course.ID] = &stored
	return nil
}

func (r *MemoryCourseRepository) Delete(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.courses[id]; !exists {
		return fmt.Errorf("%w: course %s", domain.ErrNotFound, id)
	}
	delete(r.courses, id)
	return nil
}

func (r *MemoryCourseRepository) codeTakenLocked(code, exceptID string) bool {
	for id, course := range r.courses {
		if id != exceptID && course.Code == code {
			return true
		}
	}
	return false
}
