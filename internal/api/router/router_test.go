package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"course-enrollment/internal/domain/catalog"
	"course-enrollment/internal/domain/user"
	"course-enrollment/internal/infrastructure/directory"
	"course-enrollment/internal/infrastructure/repository"
	"course-enrollment/internal/service"
	"course-enrollment/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.SetOutput(io.Discard)
}

type stack struct {
	enrollment *gin.Engine
	catalogSrv *httptest.Server
	userSrv    *httptest.Server
	courses    catalog.Service
	students   user.StudentService
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newStack(t *testing.T) *stack {
	t.Helper()

	courses := service.NewCourseService(repository.NewMemoryCourseRepository())
	students := service.NewStudentService(repository.NewMemoryStudentRepository())
	teachers := service.NewTeacherService(repository.NewMemoryTeacherRepository())

	catalogSrv := httptest.NewServer(NewCatalogRouter(Options{}, courses))
	t.Cleanup(catalogSrv.Close)
	userSrv := httptest.NewServer(NewUserRouter(Options{}, students, teachers))
	t.Cleanup(userSrv.Close)

	httpClient := directory.NewHTTPClient(2 * time.Second)
	enrollments := service.NewEnrollmentService(service.EnrollmentDeps{
		Repository: repository.NewMemoryEnrollmentRepository(),
		Courses:    directory.NewCatalogClient(catalogSrv.URL, httpClient),
		Students:   directory.NewStudentClient(userSrv.URL, httpClient),
	})

	ctx := context.Background()
	_, err := courses.CreateCourse(ctx, &catalog.CreateCourseRequest{Code: "CS101", Title: "Intro to Programming", Capacity: 2})
	require.NoError(t, err)
	for _, id := range []string{"S1", "S2", "S3"} {
		_, err := students.CreateStudent(ctx, &user.CreateStudentRequest{
			StudentID: id, Name: "Student " + id, Major: "CS", Grade: 1, Email: strings.ToLower(id) + "@example.com",
		})
		require.NoError(t, err)
	}

	return &stack{
		enrollment: NewEnrollmentRouter(Options{}, enrollments, nil),
		catalogSrv: catalogSrv,
		userSrv:    userSrv,
		courses:    courses,
		students:   students,
	}
}

func (s *stack) do(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.enrollment.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (s *stack) enroll(t *testing.T, courseID, studentID string) (int, envelope) {
	return s.do(t, http.MethodPost, "/api/enrollments", `{"courseId":"`+courseID+`","studentId":"`+studentID+`"}`)
}

func (s *stack) enrolled(t *testing.T) int {
	t.Helper()
	course, err := s.courses.GetCourse(context.Background(), "CS101")
	require.NoError(t, err)
	return course.Enrolled
}

func TestEnrollmentAPI_Lifecycle(t *testing.T) {
	s := newStack(t)

	status, env := s.enroll(t, "CS101", "S1")
	require.Equal(t, http.StatusCreated, status, env.Message)
	var record struct {
		ID        string `json:"id"`
		CourseID  string `json:"courseId"`
		StudentID string `json:"studentId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &record))
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "CS101", record.CourseID)
	assert.Equal(t, "S1", record.StudentID)
	assert.Equal(t, 1, s.enrolled(t))

	status, env = s.enroll(t, "CS101", "S1")
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, env.Message, "already enrolled")

	status, _ = s.enroll(t, "CS101", "S2")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 2, s.enrolled(t))

	status, env = s.enroll(t, "CS101", "S3")
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, env.Message, "course is full")

	status, env = s.do(t, http.MethodGet, "/api/enrollments/course/CS101/count", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"courseId":"CS101","count":2}`, string(env.Data))

	status, env = s.do(t, http.MethodGet, "/api/enrollments/exists?courseId=CS101&studentId=S1", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"courseId":"CS101","studentId":"S1","exists":true}`, string(env.Data))

	status, env = s.do(t, http.MethodGet, "/api/enrollments/student/S2", "")
	require.Equal(t, http.StatusOK, status)
	var byStudent []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &byStudent))
	assert.Len(t, byStudent, 1)

	status, _ = s.do(t, http.MethodGet, "/api/enrollments/"+record.ID, "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodDelete, "/api/enrollments/"+record.ID, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, s.enrolled(t))

	status, _ = s.do(t, http.MethodDelete, "/api/enrollments/"+record.ID, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, env = s.do(t, http.MethodGet, "/api/enrollments", "")
	require.Equal(t, http.StatusOK, status)
	var all []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, 1)
}

func TestEnrollmentAPI_Rejections(t *testing.T) {
	s := newStack(t)

	status, _ := s.do(t, http.MethodPost, "/api/enrollments", `{"courseId":"CS101"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env := s.enroll(t, "CS101", "S404")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, env.Message, "S404")

	status, env = s.enroll(t, "NOPE", "S1")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, env.Message, "NOPE")

	status, _ = s.do(t, http.MethodGet, "/api/enrollments/exists?courseId=CS101", "")
	assert.Equal(t, http.StatusBadRequest, status)

	assert.Equal(t, 0, s.enrolled(t))
}

func TestEnrollmentAPI_CatalogDown(t *testing.T) {
	s := newStack(t)
	s.catalogSrv.Close()

	status, env := s.enroll(t, "CS101", "S1")
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "failed to call "+directory.CatalogService, env.Message)

	status, env = s.do(t, http.MethodGet, "/api/enrollments", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestCatalogAPI_PartialUpdate(t *testing.T) {
	courses := service.NewCourseService(repository.NewMemoryCourseRepository())
	r := NewCatalogRouter(Options{}, courses)

	req := httptest.NewRequest(http.MethodPost, "/api/courses", strings.NewReader(
		`{"code":"MATH200","title":"Linear Algebra","capacity":30,"schedule":{"dayOfWeek":"tuesday","startTime":"10:00","endTime":"11:30"}}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	req = httptest.NewRequest(http.MethodPut, "/api/courses/MATH200", strings.NewReader(`{"enrolled":7}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env struct {
		Data catalog.Course `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, 7, env.Data.Enrolled)
	assert.Equal(t, 30, env.Data.Capacity)
	assert.Equal(t, "TUESDAY", env.Data.Schedule.DayOfWeek)

	req = httptest.NewRequest(http.MethodPost, "/api/courses", strings.NewReader(`{"code":"MATH200","title":"Again"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/courses/code/MATH200", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserAPI_StudentValidation(t *testing.T) {
	r := NewUserRouter(Options{},
		service.NewStudentService(repository.NewMemoryStudentRepository()),
		service.NewTeacherService(repository.NewMemoryTeacherRepository()))

	req := httptest.NewRequest(http.MethodPost, "/api/students", strings.NewReader(
		`{"studentId":"S1","name":"Ada","major":"CS","grade":2,"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email must be a valid email address")

	req = httptest.NewRequest(http.MethodGet, "/api/students/S1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/live", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
