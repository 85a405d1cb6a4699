package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Student represents a student in the directory. StudentID is the
// public student number other services refer to.
type Student struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	StudentID string    `json:"studentId" gorm:"column:student_id;type:varchar(64);uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Major     string    `json:"major" gorm:"not null"`
	Grade     int       `json:"grade" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Student) TableName() string {
	return "students"
}

// Teacher represents a teacher in the directory
type Teacher struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	TeacherID  string    `json:"teacherId" gorm:"column:teacher_id;type:varchar(64);uniqueIndex;not null"`
	Name       string    `json:"name" gorm:"not null"`
	Department string    `json:"department" gorm:"not null"`
	Email      string    `json:"email" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Teacher) TableName() string {
	return "teachers"
}

// CreateStudentRequest represents the request to create a student
type CreateStudentRequest struct {
	StudentID string `json:"studentId" validate:"required,notblank,max=64"`
	Name      string `json:"name" validate:"required,notblank,max=100"`
	Major     string `json:"major" validate:"required,notblank,max=100"`
	Grade     int    `json:"grade" validate:"required,gte=1,lte=12"`
	Email     string `json:"email" validate:"required,email"`
}

// UpdateStudentRequest represents the request to update a student
type UpdateStudentRequest struct {
	StudentID *string `json:"studentId,omitempty" validate:"omitempty,notblank,max=64"`
	Name      *string `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Major     *string `json:"major,omitempty" validate:"omitempty,notblank,max=100"`
	Grade     *int    `json:"grade,omitempty" validate:"omitempty,gte=1,lte=12"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
}

// CreateTeacherRequest represents the request to create a teacher
type CreateTeacherRequest struct {
	TeacherID  string `json:"teacherId" validate:"required,notblank,max=64"`
	Name       string `json:"name" validate:"required,notblank,max=100"`
	Department string `json:"department" validate:"required,notblank,max=100"`
	Email      string `json:"email" validate:"required,email"`
}

// UpdateTeacherRequest represents the request to update a teacher
type UpdateTeacherRequest struct {
	TeacherID  *string `json:"teacherId,omitempty" validate:"omitempty,notblank,max=64"`
	Name       *string `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Department *string `json:"department,omitempty" validate:"omitempty,notblank,max=100"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
}

// NewStudent creates a new student with generated ID and timestamps
func NewStudent(req *CreateStudentRequest) *Student {
	now := time.Now().UTC()
	return &Student{
		ID:        uuid.NewString(),
		StudentID: strings.TrimSpace(req.StudentID),
		Name:      strings.TrimSpace(req.Name),
		Major:     strings.TrimSpace(req.Major),
		Grade:     req.Grade,
		Email:     strings.TrimSpace(req.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTeacher creates a new teacher with generated ID and timestamps
func NewTeacher(req *CreateTeacherRequest) *Teacher {
	now := time.Now().UTC()
	return &Teacher{
		ID:         uuid.NewString(),
		TeacherID:  strings.TrimSpace(req.TeacherID),
		Name:       strings.TrimSpace(req.Name),
		Department: strings.TrimSpace(req.Department),
		Email:      strings.TrimSpace(req.Email),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
