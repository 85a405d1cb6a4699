package catalog

import "context"

// Repository defines the interface for course data access.
// Missing rows are reported as domain.ErrNotFound and a duplicate code as domain.ErrConflict.
type Repository interface {
	Create(ctx context.Context, course *Course) error
	GetByID(ctx context.Context, id string) (*Course, error)
	GetByCode(ctx context.Context, code string) (*Course, error)
	List(ctx context.Context) ([]*Course, error)
	Update(ctx context.Context, course *Course) error
	Delete(ctx context.Context, id string) error
}

// Service defines the interface for course business logic.
// Lookups by idOrCode try the internal id first, then the course code.
type Service interface {
	ListCourses(ctx context.Context) ([]*Course, error)
	GetCourse(ctx context.Context, idOrCode string) (*Course, error)
	GetCourseByCode(ctx context.Context, code string) (*Course, error)
	CreateCourse(ctx context.Context, req *CreateCourseRequest) (*Course, error)
	UpdateCourse(ctx context.Context, idOrCode string, req *UpdateCourseRequest) (*Course, error)
	DeleteCourse(ctx context.Context, idOrCode string) error
	Exists(ctx context.Context, idOrCode string) (bool, error)
}
