package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dojo-api/internal/models"
)

var classRowColumns = []string{"id", "title", "description", "instructor_id", "level", "type", "max_capacity", "version", "created_at", "updated_at"}

func TestClassListFiltersByInstructor(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(classRowColumns).
		AddRow("c-1", "Fundamentals", nil, "u-1", "beginner", "gi", 20, 1, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + classColumns + " FROM classes WHERE instructor_id = $1 ORDER BY title ASC")).
		WithArgs("u-1").
		WillReturnRows(rows)

	classes, err := repo.List(context.Background(), models.ClassFilter{InstructorID: "u-1"})
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "Fundamentals", classes[0].Title)
	require.NotNil(t, classes[0].MaxCapacity)
	assert.Equal(t, 20, *classes[0].MaxCapacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassListWithoutFilterReturnsEmptySlice(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + classColumns + " FROM classes ORDER BY title ASC")).
		WillReturnRows(sqlmock.NewRows(classRowColumns))

	classes, err := repo.List(context.Background(), models.ClassFilter{})
	require.NoError(t, err)
	assert.NotNil(t, classes)
	assert.Empty(t, classes)
}

func TestClassDeleteCascadeRunsInTransaction(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance WHERE session_id IN (SELECT id FROM class_sessions WHERE class_id = $1)")).
		WithArgs("c-1").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_sessions WHERE class_id = $1")).
		WithArgs("c-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM classes WHERE id = $1")).
		WithArgs("c-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteCascade(context.Background(), "c-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassDeleteCascadeRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM attendance").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM class_sessions").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.DeleteCascade(context.Background(), "c-1")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassDeleteCascadeMissingClass(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM attendance").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM class_sessions").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM classes").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteCascade(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassCountSessions(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM class_sessions WHERE class_id = $1")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountSessions(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
