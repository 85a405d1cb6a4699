package repository

import (
	"context"

	"course-enrollment/internal/domain/user"

	"gorm.io/gorm"
)

type StudentRepository struct {
	db *gorm.DB
}

var _ user.StudentRepository = (*StudentRepository)(nil)

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

func (r *StudentRepository) Create(ctx context.Context, student *user.Student) error {
	err := r.db.WithContext(ctx).Create(student).Error
	return translateError(err, "student "+student.StudentID)
}

func (r *StudentRepository) GetByID(ctx context.Context, id string) (*user.Student, error) {
	var student user.Student
	err := r.db.WithContext(ctx).First(&student, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "student "+id)
	}
	return &student, nil
}

func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (*user.Student, error) {
	var student user.Student
	err := r.db.WithContext(ctx).First(&student, "student_id = ?", studentID).Error
	if err != nil {
		return nil, translateError(err, "student "+studentID)
	}
	return &student, nil
}

func (r *StudentRepository) Update(ctx context.Context, student *user.Student) error {
	result := r.db.WithContext(ctx).Model(student).Select("*").Omit("created_at").Updates(student)
	if result.Error != nil {
		return translateError(result.Error, "student "+student.StudentID)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "student "+student.ID)
	}
	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&user.Student{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "student "+id)
	}
	return nil
}

func (r *StudentRepository) List(ctx context.Context, limit, offset int) ([]*user.Student, error) {
	var students []*user.Student
	query := r.db.WithContext(ctx).Order("student_id ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Find(&students).Error
	return students, err
}
