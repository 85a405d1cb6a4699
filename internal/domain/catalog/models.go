package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Course represents a course in the catalog
type Course struct {
	ID         string       `json:"id" gorm:"type:varchar(36);primaryKey"`
	Code       string       `json:"code" gorm:"type:varchar(64);uniqueIndex;not null"`
	Title      string       `json:"title" gorm:"not null"`
	Instructor Instructor   `json:"instructor" gorm:"embedded;embeddedPrefix:instructor_"`
	Schedule   ScheduleSlot `json:"schedule" gorm:"embedded;embeddedPrefix:schedule_"`
	Capacity   int          `json:"capacity" gorm:"not null"`
	Enrolled   int          `json:"enrolled" gorm:"not null"`
	CreatedAt  time.Time    `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time    `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName pins the table name used by the migrations.
func (Course) TableName() string {
	return "courses"
}

// Instructor is stored inline on the course row.
type Instructor struct {
	InstructorID string `json:"id" gorm:"column:id"`
	Name         string `json:"name" gorm:"column:name"`
	Email        string `json:"email" gorm:"column:email" validate:"omitempty,email"`
}

// ScheduleSlot is the weekly meeting slot of a course.
type ScheduleSlot struct {
	DayOfWeek string `json:"dayOfWeek" gorm:"column:day_of_week"`
	StartTime string `json:"startTime" gorm:"column:start_time"`
	EndTime   string `json:"endTime" gorm:"column:end_time"`
}

var daysOfWeek = map[string]bool{
	"MONDAY": true, "TUESDAY": true, "WEDNESDAY": true, "THURSDAY": true,
	"FRIDAY": true, "SATURDAY": true, "SUNDAY": true,
}

// Normalized upper-cases the day and clears it when it is not a weekday name.
func (s ScheduleSlot) Normalized() ScheduleSlot {
	day := strings.ToUpper(strings.TrimSpace(s.DayOfWeek))
	if !daysOfWeek[day] {
		day = ""
	}
	s.DayOfWeek = day
	return s
}

// Request DTOs

// CreateCourseRequest represents the request to create a course
type CreateCourseRequest struct {
	Code       string       `json:"code" validate:"required,notblank,max=64"`
	Title      string       `json:"title" validate:"required,notblank"`
	Instructor Instructor   `json:"instructor"`
	Schedule   ScheduleSlot `json:"schedule"`
	Capacity   int          `json:"capacity" validate:"gte=0"`
}

// UpdateCourseRequest is a partial update: only non-nil fields are applied.
type UpdateCourseRequest struct {
	Code       *string       `json:"code,omitempty" validate:"omitempty,notblank,max=64"`
	Title      *string       `json:"title,omitempty" validate:"omitempty,notblank"`
	Instructor *Instructor   `json:"instructor,omitempty"`
	Schedule   *ScheduleSlot `json:"schedule,omitempty"`
	Capacity   *int          `json:"capacity,omitempty" validate:"omitempty,gte=0"`
	Enrolled   *int          `json:"enrolled,omitempty" validate:"omitempty,gte=0"`
}

// Empty reports whether the request changes nothing.
func (r *UpdateCourseRequest) Empty() bool {
	return r.Code == nil && r.Title == nil && r.Instructor == nil &&
		r.Schedule == nil && r.Capacity == nil && r.Enrolled == nil
}

// NewCourse creates a new course with a generated ID and no seats taken
func NewCourse(req *CreateCourseRequest) *Course {
	now := time.Now().UTC()
	return &Course{
		ID:         uuid.NewString(),
		Code:       strings.TrimSpace(req.Code),
		Title:      strings.TrimSpace(req.Title),
		Instructor: req.Instructor,
		Schedule:   req.Schedule.Normalized(),
		Capacity:   req.Capacity,
		Enrolled:   0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Apply copies the supplied fields of req onto the course.
func (c *Course) Apply(req *UpdateCourseRequest) {
	if req.Code != nil {
		c.Code = strings.TrimSpace(*req.Code)
	}
	if req.Title != nil {
		c.Title = strings.TrimSpace(*req.Title)
	}
	if req.Instructor != nil {
		c.Instructor = *req.Instructor
	}
	if req.Schedule != nil {
		c.Schedule = req.Schedule.Normalized()
	}
	if req.Capacity != nil {
		c.Capacity = *req.Capacity
	}
	if req.Enrolled != nil {
		c.Enrolled = *req.Enrolled
	}
}

// AvailableSeats returns how many seats are left, never below zero.
func (c *Course) AvailableSeats() int {
	if c.Enrolled >= c.Capacity {
		return 0
	}
	return c.Capacity - c.Enrolled
}
