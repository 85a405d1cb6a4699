package repository

import (
	"context"

	"course-enrollment/internal/domain/user"

	"gorm.io/gorm"
)

type TeacherRepository struct {
	db *gorm.DB
}

var _ user.TeacherRepository = (*TeacherRepository)(nil)

func NewTeacherRepository(db *gorm.DB) *TeacherRepository {
	return &TeacherRepository{
		db: db,
	}
}

func (r *TeacherRepository) Create(ctx context.Context, teacher *user.Teacher) error {
	err := r.db.WithContext(ctx).Create(teacher).Error
	return translateError(err, "teacher "+teacher.TeacherID)
}

func (r *TeacherRepository) GetByID(ctx context.Context, id string) (*user.Teacher, error) {
	var teacher user.Teacher
	err := r.db.WithContext(ctx).First(&teacher, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "teacher "+id)
	}
	return &teacher, nil
}

func (r *TeacherRepository) GetByTeacherID(ctx context.Context, teacherID string) (*user.Teacher, error) {
	var teacher user.Teacher
	err := r.db.WithContext(ctx).First(&teacher, "teacher_id = ?", teacherID).Error
	if err != nil {
		return nil, translateError(err, "teacher "+teacherID)
	}
	return &teacher, nil
}

func (r *TeacherRepository) Update(ctx context.Context, teacher *user.Teacher) error {
	result := r.db.WithContext(ctx).Model(teacher).Select("*").Omit("created_at").Updates(teacher)
	if result.Error != nil {
		return translateError(result.Error, "teacher "+teacher.TeacherID)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "teacher "+teacher.ID)
	}
	return nil
}

func (r *TeacherRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&user.Teacher{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "teacher "+id)
	}
	return nil
}

func (r *TeacherRepository) List(ctx context.Context, limit, offset int) ([]*user.Teacher, error) {
	var teachers []*user.Teacher
	query := r.db.WithContext(ctx).Order("teacher_id ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Find(&teachers).Error
	return teachers, err
}
