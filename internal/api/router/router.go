package router

import (
	"course-enrollment/internal/api/handlers"
	"course-enrollment/internal/api/middleware"
	"course-enrollment/internal/domain/catalog"
	"course-enrollment/internal/domain/enrollment"
	"course-enrollment/internal/domain/user"

	"github.com/gin-gonic/gin"
)

// Options carries what every service router shares.
type Options struct {
	AllowedOrigins []string
	Health         *handlers.HealthHandler
}

func newEngine(opts Options) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(gin.Recovery())

	health := opts.Health
	if health == nil {
		health = handlers.NewHealthHandler("", "", nil)
	}
	r.GET("/health", health.HealthCheck)
	r.GET("/ready", health.ReadinessCheck)
	r.GET("/live", health.LivenessCheck)

	return r
}

// NewCatalogRouter builds the course directory API.
func NewCatalogRouter(opts Options, courseService catalog.Service) *gin.Engine {
	r := newEngine(opts)
	courseHandler := handlers.NewCourseHandler(courseService)

	courses := r.Group("/api/courses")
	{
		courses.GET("", courseHandler.ListCourses)
		courses.POST("", courseHandler.CreateCourse)
		courses.GET("/code/:code", courseHandler.GetCourseByCode)
		courses.GET("/:id", courseHandler.GetCourse)
		courses.PUT("/:id", courseHandler.UpdateCourse)
		courses.DELETE("/:id", courseHandler.DeleteCourse)
	}
	return r
}

// NewUserRouter builds the student and teacher directory API.
func NewUserRouter(opts Options, studentService user.StudentService, teacherService user.TeacherService) *gin.Engine {
	r := newEngine(opts)
	studentHandler := handlers.NewStudentHandler(studentService)
	teacherHandler := handlers.NewTeacherHandler(teacherService)

	api := r.Group("/api")
	{
		students := api.Group("/students")
		{
			students.POST("", studentHandler.CreateStudent)
			students.GET("", studentHandler.ListStudents)
			students.GET("/:id", studentHandler.GetStudent)
			students.PUT("/:id", studentHandler.UpdateStudent)
			students.DELETE("/:id", studentHandler.DeleteStudent)
		}

		teachers := api.Group("/teachers")
		{
			teachers.POST("", teacherHandler.CreateTeacher)
			teachers.GET("", teacherHandler.ListTeachers)
			teachers.GET("/:id", teacherHandler.GetTeacher)
			teachers.PUT("/:id", teacherHandler.UpdateTeacher)
			teachers.DELETE("/:id", teacherHandler.DeleteTeacher)
		}
	}
	return r
}

// NewEnrollmentRouter builds the enrollment API. idempotency may be nil, in
// which case Idempotency-Key headers are ignored.
func NewEnrollmentRouter(opts Options, enrollmentService enrollment.Service, idempotency middleware.IdempotencyStore) *gin.Engine {
	r := newEngine(opts)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService)

	enrollments := r.Group("/api/enrollments")
	{
		enrollments.POST("", middleware.Idempotency(idempotency), enrollmentHandler.CreateEnrollment)
		enrollments.GET("", enrollmentHandler.ListEnrollments)
		enrollments.GET("/exists", enrollmentHandler.Exists)
		enrollments.GET("/course/:courseId", enrollmentHandler.ListByCourse)
		enrollments.GET("/course/:courseId/count", enrollmentHandler.CountByCourse)
		enrollments.GET("/student/:studentId", enrollmentHandler.ListByStudent)
		enrollments.GET("/:id", enrollmentHandler.GetEnrollment)
		enrollments.DELETE("/:id", enrollmentHandler.DeleteEnrollment)
	}
	return r
}
