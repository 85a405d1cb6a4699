package enrollment

import (
	"time"
)

// Record is a student's enrollment in a course. Only the ids are stored;
// the course and student themselves live in their own directories.
type Record struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	CourseID   string    `json:"courseId" gorm:"column:course_id;type:varchar(64);not null;uniqueIndex:uk_course_student;index:idx_enrollments_course_id"`
	StudentID  string    `json:"studentId" gorm:"column:student_id;type:varchar(64);not null;uniqueIndex:uk_course_student;index:idx_enrollments_student_id"`
	EnrolledAt time.Time `json:"enrolledAt" gorm:"column:enrolled_at;not null"`
}

// TableName pins the table name used by the migrations.
func (Record) TableName() string {
	return "enrollments"
}

// CourseSeats is the part of a course record the workflow reads.
type CourseSeats struct {
	CourseID string `json:"courseId"`
	Capacity int    `json:"capacity"`
	Enrolled int    `json:"enrolled"`
}

// Full reports whether no seat is left.
func (s CourseSeats) Full() bool {
	return s.Enrolled >= s.Capacity
}

// Request DTOs

// CreateRequest represents an enrollment request
type CreateRequest struct {
	CourseID  string `json:"courseId" validate:"required,notblank"`
	StudentID string `json:"studentId" validate:"required,notblank"`
}

// ExistsResponse is returned by the pair existence check.
type ExistsResponse struct {
	CourseID  string `json:"courseId"`
	StudentID string `json:"studentId"`
	Exists    bool   `json:"exists"`
}

// CountResponse is returned by the per-course count endpoint.
type CountResponse struct {
	CourseID string `json:"courseId"`
	Count    int64  `json:"count"`
}
