package repository

import (
	"context"

	"course-enrollment/internal/domain/catalog"

	"gorm.io/gorm"
)

type CourseRepository struct {
	db *gorm.DB
}

var _ catalog.Repository = (*CourseRepository)(nil)

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

func (r *CourseRepository) Create(ctx context.Context, course *catalog.Course) error {
	err := r.db.WithContext(ctx).Create(course).Error
	return translateError(err, "course "+course.Code)
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*catalog.Course, error) {
	var course catalog.Course
	err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "course "+id)
	}
	return &course, nil
}

func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*catalog.Course, error) {
	var course catalog.Course
	err := r.db.WithContext(ctx).First(&course, "code = ?", code).Error
	if err != nil {
		return nil, translateError(err, "course "+code)
	}
	return &course, nil
}

func (r *CourseRepository) List(ctx context.Context) ([]*catalog.Course, error) {
	var courses []*catalog.Course
	err := r.db.WithContext(ctx).Order("code ASC").Find(&courses).Error
	return courses, err
}

// Update writes every column of the course, zero values included.
func (r *CourseRepository) Update(ctx context.Context, course *catalog.Course) error {
	result := r.db.WithContext(ctx).Model(course).Select("*").Omit("created_at").Updates(course)
	if result.Error != nil {
		return translateError(result.Error, "course "+course.Code)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "course "+course.ID)
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Course{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "course "+id)
	}
	return nil
}
