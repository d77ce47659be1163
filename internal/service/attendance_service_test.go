package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/models"
	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
)

type attendanceStore struct {
	records map[string]*models.Attendance
}

func (s *attendanceStore) ListBySession(ctx context.Context, sessionID string) ([]models.Attendance, error) {
	out := []models.Attendance{}
	for _, r := range s.records {
		if r.SessionID == sessionID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *attendanceStore) ListByStudent(ctx context.Context, studentID string) ([]models.AttendanceHistoryEntry, error) {
	out := []models.AttendanceHistoryEntry{}
	for _, r := range s.records {
		if r.StudentID == studentID {
			out = append(out, models.AttendanceHistoryEntry{Attendance: *r})
		}
	}
	return out, nil
}

func (s *attendanceStore) FindByID(ctx context.Context, id string) (*models.Attendance, error) {
	if r, ok := s.records[id]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (s *attendanceStore) Create(ctx context.Context, record *models.Attendance) error {
	for _, r := range s.records {
		if r.SessionID == record.SessionID && r.StudentID == record.StudentID {
			return fmt.Errorf("create attendance: %w", &pq.Error{Code: "23505"})
		}
	}
	record.ID = uuid.NewString()
	record.Version = 1
	clone := *record
	s.records[record.ID] = &clone
	return nil
}

func (s *attendanceStore) Update(ctx context.Context, record *models.Attendance, expectedVersion *int) error {
	current, ok := s.records[record.ID]
	if !ok || (expectedVersion != nil && current.Version != *expectedVersion) {
		return sql.ErrNoRows
	}
	record.Version = current.Version + 1
	clone := *record
	s.records[record.ID] = &clone
	return nil
}

func (s *attendanceStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.records[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.records, id)
	return nil
}

func newAttendanceFixture(t *testing.T) (*AttendanceService, string) {
	t.Helper()
	_, sessions, users := newScheduleFixture()
	session := &models.ClassSession{ClassID: "c1", Date: "2024-06-03", StartTime: "18:00", EndTime: "19:00"}
	require.NoError(t, sessions.Create(context.Background(), session))
	svc := NewAttendanceService(&attendanceStore{records: map[string]*models.Attendance{}}, sessions, users, nil, nil, nil)
	return svc, session.ID
}

func TestAttendanceServiceCreate(t *testing.T) {
	svc, sessionID := newAttendanceFixture(t)

	record, err := svc.Create(context.Background(), dto.CreateAttendanceRequest{SessionID: sessionID, StudentID: studentID, Status: "present"})
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, record.Status)

	_, err = svc.Create(context.Background(), dto.CreateAttendanceRequest{SessionID: sessionID, StudentID: studentID, Status: "late"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	list, err := svc.ListBySession(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	history, err := svc.History(context.Background(), studentID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestAttendanceServiceCreateValidation(t *testing.T) {
	svc, sessionID := newAttendanceFixture(t)

	_, err := svc.Create(context.Background(), dto.CreateAttendanceRequest{SessionID: sessionID, StudentID: studentID, Status: "excused"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "status", appErr.Details[0].Field)

	_, err = svc.Create(context.Background(), dto.CreateAttendanceRequest{SessionID: "55555555-5555-5555-5555-555555555555", StudentID: studentID, Status: "present"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), dto.CreateAttendanceRequest{SessionID: sessionID, StudentID: "66666666-6666-6666-6666-666666666666", Status: "present"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceUpdateAndDelete(t *testing.T) {
	svc, sessionID := newAttendanceFixture(t)
	record, err := svc.Create(context.Background(), dto.CreateAttendanceRequest{SessionID: sessionID, StudentID: studentID, Status: "present"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), record.ID, dto.UpdateAttendanceRequest{Status: strPtr("late")})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceLate, updated.Status)

	_, err = svc.Update(context.Background(), record.ID, dto.UpdateAttendanceRequest{Status: strPtr("absent"), Version: intPtr(1)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStaleWrite.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), record.ID))
	err = svc.Delete(context.Background(), record.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
