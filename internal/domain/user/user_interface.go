package user

import "context"

// StudentRepository defines the interface for student data access
type StudentRepository interface {
	Create(ctx context.Context, student *Student) error
	GetByID(ctx context.Context, id string) (*Student, error)
	GetByStudentID(ctx context.Context, studentID string) (*Student, error)
	Update(ctx context.Context, student *Student) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*Student, error)
}

// TeacherRepository defines the interface for teacher data access
type TeacherRepository interface {
	Create(ctx context.Context, teacher *Teacher) error
	GetByID(ctx context.Context, id string) (*Teacher, error)
	GetByTeacherID(ctx context.Context, teacherID string) (*Teacher, error)
	Update(ctx context.Context, teacher *Teacher) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*Teacher, error)
}

// StudentService defines the interface for student business logic.
// GetStudent accepts either the internal id or the student number.
type StudentService interface {
	CreateStudent(ctx context.Context, req *CreateStudentRequest) (*Student, error)
	GetStudent(ctx context.Context, id string) (*Student, error)
	UpdateStudent(ctx context.Context, id string, req *UpdateStudentRequest) (*Student, error)
	DeleteStudent(ctx context.Context, id string) error
	ListStudents(ctx context.Context, limit, offset int) ([]*Student, error)
}

// TeacherService defines the interface for teacher business logic
type TeacherService interface {
	CreateTeacher(ctx context.Context, req *CreateTeacherRequest) (*Teacher, error)
	GetTeacher(ctx context.Context, id string) (*Teacher, error)
	UpdateTeacher(ctx context.Context, id string, req *UpdateTeacherRequest) (*Teacher, error)
	DeleteTeacher(ctx context.Context, id string) error
	ListTeachers(ctx context.Context, limit, offset int) ([]*Teacher, error)
}
