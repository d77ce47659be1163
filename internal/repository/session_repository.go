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

const sessionColumns = `id, class_id, to_char(date, 'YYYY-MM-DD') AS date, start_time, end_time, notes, version, created_at, updated_at`

const insertSessionQuery = `INSERT INTO class_sessions (id, class_id, date, start_time, end_time, notes, version, created_at, updated_at)
VALUES (:id, :class_id, :date, :start_time, :end_time, :notes, :version, :created_at, :updated_at)`

// SessionRepository manages scheduled class sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs a session repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// List returns every session in calendar order.
func (r *SessionRepository) List(ctx context.Context) ([]models.ClassSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM class_sessions ORDER BY date ASC, start_time ASC`
	sessions := []models.ClassSession{}
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// ListByClass returns the sessions of one class.
func (r *SessionRepository) ListByClass(ctx context.Context, classID string) ([]models.ClassSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM class_sessions WHERE class_id = $1 ORDER BY date ASC, start_time ASC`
	sessions := []models.ClassSession{}
	if err := r.db.SelectContext(ctx, &sessions, query, classID); err != nil {
		return nil, fmt.Errorf("list sessions by class: %w", err)
	}
	return sessions, nil
}

// ListByDateRange returns sessions dated between start and end inclusive.
func (r *SessionRepository) ListByDateRange(ctx context.Context, start, end string) ([]models.ClassSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM class_sessions WHERE date BETWEEN $1 AND $2 ORDER BY date ASC, start_time ASC`
	sessions := []models.ClassSession{}
	if err := r.db.SelectContext(ctx, &sessions, query, start, end); err != nil {
		return nil, fmt.Errorf("list sessions by date range: %w", err)
	}
	return sessions, nil
}

// FindByID returns a session by identifier.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.ClassSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM class_sessions WHERE id = $1`
	var session models.ClassSession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &session, nil
}

// Create inserts a single session.
func (r *SessionRepository) Create(ctx context.Context, session *models.ClassSession) error {
	prepareSession(session, time.Now().UTC())
	if _, err := r.db.NamedExecContext(ctx, insertSessionQuery, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// CreateBatch inserts a materialised series atomically; either every session is stored or none.
func (r *SessionRepository) CreateBatch(ctx context.Context, sessions []models.ClassSession) (err error) {
	if len(sessions) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session batch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for i := range sessions {
		prepareSession(&sessions[i], now)
		if _, err = tx.NamedExecContext(ctx, insertSessionQuery, &sessions[i]); err != nil {
			return fmt.Errorf("create session %s: %w", sessions[i].Date, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit session batch: %w", err)
	}
	return nil
}

func prepareSession(session *models.ClassSession, now time.Time) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	session.Version = 1
}

// Update overwrites a session guarded by an optional expected version.
func (r *SessionRepository) Update(ctx context.Context, session *models.ClassSession, expectedVersion *int) error {
	session.UpdatedAt = time.Now().UTC()
	const query = `UPDATE class_sessions SET class_id = $2, date = $3, start_time = $4, end_time = $5, notes = $6, version = version + 1, updated_at = $7
WHERE id = $1 AND ($8::int IS NULL OR version = $8) RETURNING version`
	err := r.db.GetContext(ctx, &session.Version, query,
		session.ID, session.ClassID, session.Date, session.StartTime, session.EndTime, session.Notes, session.UpdatedAt, expectedVersion)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// Delete removes a session. Attendance rows referencing it make Postgres reject the delete.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM class_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted session rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteCascade removes a session and its attendance in one transaction.
func (r *SessionRepository) DeleteCascade(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session delete: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM attendance WHERE session_id = $1`, id); err != nil {
		return fmt.Errorf("delete session attendance: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM class_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted session rows: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit session delete: %w", err)
	}
	return nil
}

// CountAttendance returns the number of attendance records of a session.
func (r *SessionRepository) CountAttendance(ctx context.Context, sessionID string) (int, error) {
	const query = `SELECT COUNT(*) FROM attendance WHERE session_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, sessionID); err != nil {
		return 0, fmt.Errorf("count session attendance: %w", err)
	}
	return count, nil
}
