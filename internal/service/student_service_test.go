package service

import (
	"context"
	"errors"
	"testing"

	"course-enrollment/internal/domain"
	"course-enrollment/internal/domain/user"
	"course-enrollment/internal/infrastructure/repository"
)

func newStudentRequest(studentID string) *user.CreateStudentRequest {
	return &user.CreateStudentRequest{
		StudentID: studentID,
		Name:      "Ada Lovelace",
		Major:     "Computer Science",
		Grade:     2,
		Email:     "ada@example.com",
	}
}

func TestStudentService_CreateStudent(t *testing.T) {
	studentService := NewStudentService(repository.NewMemoryStudentRepository())

	req := newStudentRequest(" S2024001 ")
	student, err := studentService.CreateStudent(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if student.ID == "" {
		t.Error("Expected generated ID")
	}
	if student.StudentID != "S2024001" {
		t.Errorf("Expected trimmed student ID S2024001, got %q", student.StudentID)
	}
	if student.Major != req.Major {
		t.Errorf("Expected major %s, got %s", req.Major, student.Major)
	}
	if student.Grade != 2 {
		t.Errorf("Expected grade 2, got %d", student.Grade)
	}
}

func TestStudentService_CreateStudent_DuplicateStudentID(t *testing.T) {
	studentService := NewStudentService(repository.NewMemoryStudentRepository())
	ctx := context.Background()

	if _, err := studentService.CreateStudent(ctx, newStudentRequest("S1")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err := studentService.CreateStudent(ctx, newStudentRequest("S1"))
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Expected conflict, got %v", err)
	}
}

func TestStudentService_GetStudent_ByIDOrStudentNumber(t *testing.T) {
	studentService := NewStudentService(repository.NewMemoryStudentRepository())
	ctx := context.Background()

	created, err := studentService.CreateStudent(ctx, newStudentRequest("S1"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	byID, err := studentService.GetStudent(ctx, created.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	byNumber, err := studentService.GetStudent(ctx, "S1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if byID.ID != byNumber.ID {
		t.Errorf("Expected the same student, got %s and %s", byID.ID, byNumber.ID)
	}

	_, err = studentService.GetStudent(ctx, "S404")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected not found, got %v", err)
	}
}

func TestStudentService_UpdateStudent(t *testing.T) {
	studentService := NewStudentService(repository.NewMemoryStudentRepository())
	ctx := context.Background()

	first, _ := studentService.CreateStudent(ctx, newStudentRequest("S1"))
	if _, err := studentService.CreateStudent(ctx, newStudentRequest("S2")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	major := "Mathematics"
	grade := 3
	updated, err := studentService.UpdateStudent(ctx, first.ID, &user.UpdateStudentRequest{Major: &major, Grade: &grade})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Major != major || updated.Grade != grade {
		t.Errorf("Expected major %s grade %d, got %s %d", major, grade, updated.Major, updated.Grade)
	}
	if updated.Name != "Ada Lovelace" {
		t.Errorf("Expected name to be unchanged, got %s", updated.Name)
	}

	taken := "S2"
	_, err = studentService.UpdateStudent(ctx, first.ID, &user.UpdateStudentRequest{StudentID: &taken})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Expected conflict, got %v", err)
	}
}

func TestStudentService_DeleteStudent(t *testing.T) {
	studentService := NewStudentService(repository.NewMemoryStudentRepository())
	ctx := context.Background()

	if _, err := studentService.CreateStudent(ctx, newStudentRequest("S1")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := studentService.DeleteStudent(ctx, "S1"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := studentService.DeleteStudent(ctx, "S1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected not found, got %v", err)
	}
}

func TestStudentService_ListStudents(t *testing.T) {
	studentService := NewStudentService(repository.NewMemoryStudentRepository())
	ctx := context.Background()

	for _, id := range []string{"S3", "S1", "S2"} {
		if _, err := studentService.CreateStudent(ctx, newStudentRequest(id)); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	students, err := studentService.ListStudents(ctx, 2, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("Expected 2 students, got %d", len(students))
	}
	if students[0].StudentID != "S2" || students[1].StudentID != "S3" {
		t.Errorf("Expected S2, S3, got %s, %s", students[0].StudentID, students[1].StudentID)
	}
}

func TestTeacherService_CRUD(t *testing.T) {
	teacherService := NewTeacherService(repository.NewMemoryTeacherRepository())
	ctx := context.Background()

	req := &user.CreateTeacherRequest{TeacherID: "T1", Name: "Grace Hopper", Department: "CS", Email: "grace@example.com"}
	created, err := teacherService.CreateTeacher(ctx, req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := teacherService.CreateTeacher(ctx, req); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Expected conflict, got %v", err)
	}

	dept := "Mathematics"
	updated, err := teacherService.UpdateTeacher(ctx, "T1", &user.UpdateTeacherRequest{Department: &dept})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Department != dept || updated.ID != created.ID {
		t.Errorf("Unexpected teacher after update: %+v", updated)
	}

	if err := teacherService.DeleteTeacher(ctx, created.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := teacherService.GetTeacher(ctx, "T1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected not found, got %v", err)
	}
}
