package repository

import (
	"context"
	"errors"
	"fmt"

	"course-enrollment/internal/domain"
	"course-enrollment/internal/domain/enrollment"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	db *gorm.DB
}

var _ enrollment.Repository = (*EnrollmentRepository)(nil)

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
	}
}

// Create inserts the record in its own transaction. The (course_id, student_id)
// unique index is what makes a concurrent twin insert fail here.
func (r *EnrollmentRepository) Create(ctx context.Context, record *enrollment.Record) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(record).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: student %s in course %s", domain.ErrDuplicateEnrollment, record.StudentID, record.CourseID)
	}
	return err
}

func (r *EnrollmentRepository) GetByID(ctx context.Context, id string) (*enrollment.Record, error) {
	var record enrollment.Record
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "enrollment "+id)
	}
	return &record, nil
}

func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&enrollment.Record{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: enrollment %s", domain.ErrNotFound, id)
		}
		return nil
	})
}

func (r *EnrollmentRepository) List(ctx context.Context) ([]*enrollment.Record, error) {
	var records []*enrollment.Record
	err := r.db.WithContext(ctx).Order("enrolled_at ASC").Find(&records).Error
	return records, err
}

func (r *EnrollmentRepository) ListByCourseID(ctx context.Context, courseID string) ([]*enrollment.Record, error) {
	var records []*enrollment.Record
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("enrolled_at ASC").
		Find(&records).Error
	return records, err
}

func (r *EnrollmentRepository) ListByStudentID(ctx context.Context, studentID string) ([]*enrollment.Record, error) {
	var records []*enrollment.Record
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("enrolled_at ASC").
		Find(&records).Error
	return records, err
}

func (r *EnrollmentRepository) ExistsByCourseAndStudent(ctx context.Context, courseID, studentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&enrollment.Record{}).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *EnrollmentRepository) CountByCourseID(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&enrollment.Record{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) CountByStudentID(ctx context.Context, studentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&enrollment.Record{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	return count, err
}
