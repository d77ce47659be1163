package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dojo-api/internal/models"
)

const attendanceColumns = `id, session_id, student_id, status, notes, version, created_at, updated_at`

// AttendanceRepository persists per-session attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an attendance repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListBySession returns the attendance of a session.
func (r *AttendanceRepository) ListBySession(ctx context.Context, sessionID string) ([]models.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE session_id = $1 ORDER BY created_at ASC`
	records := []models.Attendance{}
	if err := r.db.SelectContext(ctx, &records, query, sessionID); err != nil {
		return nil, fmt.Errorf("list attendance by session: %w", err)
	}
	return records, nil
}

// ListByStudent returns the attendance history of a student, newest session first.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID string) ([]models.AttendanceHistoryEntry, error) {
	const query = `SELECT a.id, a.session_id, a.student_id, a.status, a.notes, a.version, a.created_at, a.updated_at,
to_char(s.date, 'YYYY-MM-DD') AS date, s.start_time, s.end_time, s.class_id, c.title AS class_title
FROM attendance a
JOIN class_sessions s ON s.id = a.session_id
JOIN classes c ON c.id = s.class_id
WHERE a.student_id = $1
ORDER BY s.date DESC, s.start_time DESC`
	entries := []models.AttendanceHistoryEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, studentID); err != nil {
		return nil, fmt.Errorf("list attendance by student: %w", err)
	}
	return entries, nil
}

// FindByID returns an attendance record.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE id = $1`
	var record models.Attendance
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return &record, nil
}

// Create inserts an attendance record. A second record for the same session and
// student violates uq_attendance_session_student.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	record.Version = 1

	const query = `INSERT INTO attendance (id, session_id, student_id, status, notes, version, created_at, updated_at)
VALUES (:id, :session_id, :student_id, :status, :notes, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// Update overwrites the status and notes guarded by an optional expected version.
func (r *AttendanceRepository) Update(ctx context.Context, record *models.Attendance, expectedVersion *int) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE attendance SET status = $2, notes = $3, version = version + 1, updated_at = $4
WHERE id = $1 AND ($5::int IS NULL OR version = $5) RETURNING version`
	err := r.db.GetContext(ctx, &record.Version, query, record.ID, record.Status, record.Notes, record.UpdatedAt, expectedVersion)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update attendance: %w", err)
	}
	return nil
}

// Delete removes an attendance record.
func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted attendance rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
