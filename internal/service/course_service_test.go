package service

import (
	"context"
	"testing"

	"course-enrollment/internal/domain"
	"course-enrollment/internal/domain/catalog"
	"course-enrollment/internal/infrastructure/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCS101(t *testing.T, svc catalog.Service) *catalog.Course {
	t.Helper()
	course, err := svc.CreateCourse(context.Background(), &catalog.CreateCourseRequest{
		Code:       "CS101",
		Title:      "Intro to Programming",
		Instructor: catalog.Instructor{InstructorID: "T1", Name: "Grace Hopper", Email: "grace@example.com"},
		Schedule:   catalog.ScheduleSlot{DayOfWeek: "monday", StartTime: "08:00", EndTime: "09:30"},
		Capacity:   2,
	})
	require.NoError(t, err)
	return course
}

func TestCourseService_CreateAndGet(t *testing.T) {
	svc := NewCourseService(repository.NewMemoryCourseRepository())
	ctx := context.Background()

	course := createCS101(t, svc)
	assert.NotEmpty(t, course.ID)
	assert.Equal(t, 0, course.Enrolled)
	assert.Equal(t, "MONDAY", course.Schedule.DayOfWeek)

	byID, err := svc.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	byCode, err := svc.GetCourse(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, byID.ID, byCode.ID)

	_, err = svc.GetCourse(ctx, "NOPE")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.CreateCourse(ctx, &catalog.CreateCourseRequest{Code: "CS101", Title: "Again"})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestCourseService_UpdateOnlySuppliedFields(t *testing.T) {
	svc := NewCourseService(repository.NewMemoryCourseRepository())
	ctx := context.Background()
	course := createCS101(t, svc)

	enrolled := 1
	updated, err := svc.UpdateCourse(ctx, "CS101", &catalog.UpdateCourseRequest{Enrolled: &enrolled})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Enrolled)
	assert.Equal(t, 2, updated.Capacity)
	assert.Equal(t, "Intro to Programming", updated.Title)
	assert.Equal(t, course.Instructor, updated.Instructor)

	schedule := catalog.ScheduleSlot{DayOfWeek: "someday", StartTime: "10:00", EndTime: "11:00"}
	updated, err = svc.UpdateCourse(ctx, course.ID, &catalog.UpdateCourseRequest{Schedule: &schedule})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Schedule.DayOfWeek)
	assert.Equal(t, "10:00", updated.Schedule.StartTime)
	assert.Equal(t, 1, updated.Enrolled)
}

func TestCourseService_UpdateCodeChecksUniqueness(t *testing.T) {
	svc := NewCourseService(repository.NewMemoryCourseRepository())
	ctx := context.Background()
	createCS101(t, svc)
	other, err := svc.CreateCourse(ctx, &catalog.CreateCourseRequest{Code: "MATH200", Title: "Linear Algebra", Capacity: 30})
	require.NoError(t, err)

	code := "CS101"
	_, err = svc.UpdateCourse(ctx, other.ID, &catalog.UpdateCourseRequest{Code: &code})
	require.ErrorIs(t, err, domain.ErrConflict)

	same := "MATH200"
	_, err = svc.UpdateCourse(ctx, other.ID, &catalog.UpdateCourseRequest{Code: &same})
	require.NoError(t, err)
}

func TestCourseService_DeleteAndExists(t *testing.T) {
	svc := NewCourseService(repository.NewMemoryCourseRepository())
	ctx := context.Background()
	createCS101(t, svc)

	exists, err := svc.Exists(ctx, "CS101")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, svc.DeleteCourse(ctx, "CS101"))
	require.ErrorIs(t, svc.DeleteCourse(ctx, "CS101"), domain.ErrNotFound)

	exists, err = svc.Exists(ctx, "CS101")
	require.NoError(t, err)
	assert.False(t, exists)

	courses, err := svc.ListCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)
}
