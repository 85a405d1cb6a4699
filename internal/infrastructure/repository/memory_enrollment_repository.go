package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"course-enrollment/internal/domain"
	"course-enrollment/internal/domain/enrollment"
)

// MemoryEnrollmentRepository is an in-memory enrollment store for local runs
// and tests. The pair check and the insert happen under one lock, so it
// enforces (course, student) uniqueness as atomically as the SQL index does.
type MemoryEnrollmentRepository struct {
	records map[string]*enrollment.Record
	mutex   sync.RWMutex
}

var _ enrollment.Repository = (*MemoryEnrollmentRepository)(nil)

func NewMemoryEnrollmentRepository() *MemoryEnrollmentRepository {
	return &MemoryEnrollmentRepository{
		records: make(map[string]*enrollment.Record),
	}
}

func (r *MemoryEnrollmentRepository) Create(_ context.Context, record *enrollment.Record) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return fmt.Errorf("%w: enrollment %s", domain.ErrConflict, record.ID)
	}
	for _, existing := range r.records {
		if existing.CourseID == record.CourseID && existing.StudentID == record.StudentID {
			return fmt.Errorf("%w: student %s in course %s", domain.ErrDuplicateEnrollment, record.StudentID, record.CourseID)
		}
	}

	stored := *record
	r.records[record.ID] = &stored
	return nil
}

func (r *MemoryEnrollmentRepository) GetByID(_ context.Context, id string) (*enrollment.Record, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, fmt.Errorf("%w: enrollment %s", domain.ErrNotFound, id)
	}
	out := *record
	return &out, nil
}

func (r *MemoryEnrollmentRepository) Delete(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.records[id]; !exists {
		return fmt.Errorf("%w: enrollment %s", domain.ErrNotFound, id)
	}
	delete(r.records, id)
	return nil
}

func (r *MemoryEnrollmentRepository) List(_ context.Context) ([]*enrollment.Record, error) {
	return r.filter(func(*enrollment.Record) bool { return true }), nil
}

func (r *MemoryEnrollmentRepository) ListByCourseID(_ context.Context, courseID string) ([]*enrollment.Record, error) {
	return r.filter(func(rec *enrollment.Record) bool { return rec.CourseID == courseID }), nil
}

func (r *MemoryEnrollmentRepository) ListByStudentID(_ context.Context, studentID string) ([]*enrollment.Record, error) {
	return r.filter(func(rec *enrollment.Record) bool { return rec.StudentID == studentID }), nil
}

func (r *MemoryEnrollmentRepository) ExistsByCourseAndStudent(_ context.Context, courseID, studentID string) (bool, error) {
	matches := r.filter(func(rec *enrollment.Record) bool {
		return rec.CourseID == courseID && rec.StudentID == studentID
	})
	return len(matches) > 0, nil
}

func (r *MemoryEnrollmentRepository) CountByCourseID(_ context.Context, courseID string) (int64, error) {
	return int64(len(r.filter(func(rec *enrollment.Record) bool { return rec.CourseID == courseID }))), nil
}

func (r *MemoryEnrollmentRepository) CountByStudentID(_ context.Context, studentID string) (int64, error) {
	return int64(len(r.filter(func(rec *enrollment.Record) bool { return rec.StudentID == studentID }))), nil
}

// filter returns copies of the matching records, oldest first.
func (r *MemoryEnrollmentRepository) filter(keep func(*enrollment.Record) bool) []*enrollment.Record {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*enrollment.Record, 0, len(r.records))
	for _, record := range r.records {
		if keep(record) {
			out := *record
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].EnrolledAt.Equal(result[j].EnrolledAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].EnrolledAt.Before(result[j].EnrolledAt)
	})
	return result
}
