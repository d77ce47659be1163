package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dojo-api/internal/models"
)

var sessionRowColumns = []string{"id", "class_id", "date", "start_time", "end_time", "notes", "version", "created_at", "updated_at"}

func TestSessionListByDateRange(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(sessionRowColumns).
		AddRow("s-1", "c-1", "2024-03-04", "18:00", "19:30", nil, 1, now, now).
		AddRow("s-2", "c-1", "2024-03-06", "18:00", "19:30", nil, 1, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM class_sessions WHERE date BETWEEN $1 AND $2 ORDER BY date ASC, start_time ASC")).
		WithArgs("2024-03-01", "2024-03-31").
		WillReturnRows(rows)

	sessions, err := repo.ListByDateRange(context.Background(), "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "2024-03-06", sessions[1].Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionCreateBatchCommits(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO class_sessions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO class_sessions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	batch := []models.ClassSession{
		{ClassID: "c-1", Date: "2024-03-04", StartTime: "18:00", EndTime: "19:00"},
		{ClassID: "c-1", Date: "2024-03-06", StartTime: "18:00", EndTime: "19:00"},
	}
	require.NoError(t, repo.CreateBatch(context.Background(), batch))
	for _, s := range batch {
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, 1, s.Version)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionCreateBatchRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO class_sessions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO class_sessions").WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	batch := []models.ClassSession{
		{ClassID: "c-1", Date: "2024-03-04", StartTime: "18:00", EndTime: "19:00"},
		{ClassID: "c-1", Date: "2024-03-06", StartTime: "18:00", EndTime: "19:00"},
	}
	require.Error(t, repo.CreateBatch(context.Background(), batch))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionUpdatePassesVersionGuard(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	expected := 1
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE class_sessions SET")).
		WithArgs("s-1", "c-1", "2024-03-04", "17:00", "18:00", nil, sqlmock.AnyArg(), &expected).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(2))

	session := &models.ClassSession{ID: "s-1", ClassID: "c-1", Date: "2024-03-04", StartTime: "17:00", EndTime: "18:00", Version: 1}
	require.NoError(t, repo.Update(context.Background(), session, &expected))
	assert.Equal(t, 2, session.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
