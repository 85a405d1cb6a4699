package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"course-enrollment/internal/domain"
	"course-enrollment/internal/domain/user"
)

// MemoryStudentRepository is an in-memory implementation of user.StudentRepository
type MemoryStudentRepository struct {
	students map[string]*user.Student
	mutex    sync.RWMutex
}

var _ user.StudentRepository = (*MemoryStudentRepository)(nil)

func NewMemoryStudentRepository() *MemoryStudentRepository {
	return &MemoryStudentRepository{
		students: make(map[string]*user.Student),
	}
}

func (r *MemoryStudentRepository) Create(_ context.Context, student *user.Student) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.students[student.ID]; exists {
		return fmt.Errorf("%w: student %s already exists", domain.ErrConflict, student.ID)
	}
	for _, existing := range r.students {
		if existing.StudentID == student.StudentID {
			return fmt.Errorf("%w: student %s already exists", domain.ErrConflict, student.StudentID)
		}
	}

	stored := *student
	r.students[student.ID] = &stored
	return nil
}

func (r *MemoryStudentRepository) GetByID(_ context.Context, id string) (*user.Student, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	student, exists := r.students[id]
	if !exists {
		return nil, fmt.Errorf("%w: student %s", domain.ErrNotFound, id)
	}
	out := *student
	return &out, nil
}

func (r *MemoryStudentRepository) GetByStudentID(_ context.Context, studentID string) (*user.Student, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, student := range r.students {
		if student.StudentID == studentID {
			out := *student
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: student %s", domain.ErrNotFound, studentID)
}

func (r *MemoryStudentRepository) Update(_ context.Context, student *user.Student) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.students[student.ID]; !exists {
		return fmt.Errorf("%w: student %s", domain.ErrNotFound, student.ID)
	}
	for id, existing := range r.students {
		if id != student.ID && existing.StudentID == student.StudentID {
			return fmt.Errorf("%w: student %s already exists", domain.ErrConflict, student.StudentID)
		}
	}

	stored := *student
	r.students[student.ID] = &stored
	return nil
}

func (r *MemoryStudentRepository) Delete(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.students[id]; !exists {
		return fmt.Errorf("%w: student %s", domain.ErrNotFound, id)
	}
	delete(r.students, id)
	return nil
}

func (r *MemoryStudentRepository) List(_ context.Context, limit, offset int) ([]*user.Student, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	students := make([]*user.Student, 0, len(r.students))
	for _, student := range r.students {
		out := *student
		students = append(students, &out)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].StudentID < students[j].StudentID })
	return paginate(students, limit, offset), nil
}

// MemoryTeacherRepository is an in-memory implementation of user.TeacherRepository
type MemoryTeacherRepository struct {
	teachers map[string]*user.Teacher
	mutex    sync.RWMutex
}

var _ user.TeacherRepository = (*MemoryTeacherRepository)(nil)

func NewMemoryTeacherRepository() *MemoryTeacherRepository {
	return &MemoryTeacherRepository{
		teachers: make(map[string]*user.Teacher),
	}
}

func (r *MemoryTeacherRepository) Create(_ context.Context, teacher *user.Teacher) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.teachers[teacher.ID]; exists {
		return fmt.Errorf("%w: teacher %s already exists", domain.ErrConflict, teacher.ID)
	}
	for _, existing := range r.teachers {
		if existing.TeacherID == teacher.TeacherID {
			return fmt.Errorf("%w: teacher %s already exists", domain.ErrConflict, teacher.TeacherID)
		}
	}

	stored := *teacher
	r.teachers[teacher.ID] = &stored
	return nil
}

func (r *MemoryTeacherRepository) GetByID(_ context.Context, id string) (*user.Teacher, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	teacher, exists := r.teachers[id]
	if !exists {
		return nil, fmt.Errorf("%w: teacher %s", domain.ErrNotFound, id)
	}
	out := *teacher
	return &out, nil
}

func (r *MemoryTeacherRepository) GetByTeacherID(_ context.Context, teacherID string) (*user.Teacher, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, teacher := range r.teachers {
		if teacher.TeacherID == teacherID {
			out := *teacher
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: teacher %s", domain.ErrNotFound, teacherID)
}

func (r *MemoryTeacherRepository) Update(_ context.Context, teacher *user.Teacher) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.teachers[teacher.ID]; !exists {
		return fmt.Errorf("%w: teacher %s", domain.ErrNotFound, teacher.ID)
	}
	for id, existing := range r.teachers {
		if id != teacher.ID && existing.TeacherID == teacher.TeacherID {
			return fmt.Errorf("%w: teacher %s already exists", domain.ErrConflict, teacher.TeacherID)
		}
	}

	stored := *teacher
	r.teachers[teacher.ID] = &stored
	return nil
}

func (r *MemoryTeacherRepository) Delete(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.teachers[id]; !exists {
		return fmt.Errorf("%w: teacher %s", domain.ErrNotFound, id)
	}
	delete(r.teachers, id)
	return nil
}

func (r *MemoryTeacherRepository) List(_ context.Context, limit, offset int) ([]*user.Teacher, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	teachers := make([]*user.Teacher, 0, len(r.teachers))
	for _, teacher := range r.teachers {
		out := *teacher
		teachers = append(teachers, &out)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].TeacherID < teachers[j].TeacherID })
	return paginate(teachers, limit, offset), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
