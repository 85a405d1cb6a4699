package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"course-enrollment/internal/domain"
	"course-enrollment/internal/domain/catalog"
	"course-enrollment/internal/domain/enrollment"
	"course-enrollment/internal/infrastructure/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), database.GormConfig("silent"))
	require.NoError(t, err)
	return db, mock
}

func TestEnrollmentRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "insert commits",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO "enrollments"`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "unique violation maps to duplicate enrollment",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO "enrollments"`).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uk_course_student"})
				mock.ExpectRollback()
			},
			wantErr: domain.ErrDuplicateEnrollment,
		},
		{
			name: "other errors pass through",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO "enrollments"`).
					WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.mock(mock)

			repo := NewEnrollmentRepository(db)
			err := repo.Create(ctx, &enrollment.Record{
				ID:         "enr-1",
				CourseID:   "CS101",
				StudentID:  "S1",
				EnrolledAt: time.Now().UTC(),
			})

			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEnrollmentRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	enrolledAt := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "student_id", "enrolled_at"}).
				AddRow("enr-1", "CS101", "S1", enrolledAt))

		record, err := NewEnrollmentRepository(db).GetByID(ctx, "enr-1")
		require.NoError(t, err)
		require.Equal(t, "CS101", record.CourseID)
		require.Equal(t, "S1", record.StudentID)
		require.True(t, record.EnrolledAt.Equal(enrolledAt))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing maps to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "student_id", "enrolled_at"}))

		_, err := NewEnrollmentRepository(db).GetByID(ctx, "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEnrollmentRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes one row", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "enrollments" WHERE id = \$1`).
			WithArgs("enr-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, NewEnrollmentRepository(db).Delete(ctx, "enr-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row rolls back with not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "enrollments" WHERE id = \$1`).
			WithArgs("enr-9").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := NewEnrollmentRepository(db).Delete(ctx, "enr-9")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEnrollmentRepository_Counts(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "enrollments" WHERE course_id = \$1`).
		WithArgs("CS101").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "enrollments" WHERE course_id = \$1 AND student_id = \$2`).
		WithArgs("CS101", "S1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "enrollments" WHERE student_id = \$1`).
		WithArgs("S2").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	count, err := repo.CountByCourseID(ctx, "CS101")
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	exists, err := repo.ExistsByCourseAndStudent(ctx, "CS101", "S1")
	require.NoError(t, err)
	require.True(t, exists)

	count, err = repo.CountByStudentID(ctx, "S2")
	require.NoError(t, err)
	require.Zero(t, count)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_CreateDuplicateCode(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "courses"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := NewCourseRepository(db).Create(context.Background(), &catalog.Course{
		ID:       "c-1",
		Code:     "CS101",
		Title:    "Intro to CS",
		Capacity: 30,
	})
	require.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}
