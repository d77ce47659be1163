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

const classColumns = `id, title, description, instructor_id, level, type, max_capacity, version, created_at, updated_at`

// ClassRepository manages persistence for class templates.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes matching the filter ordered by title.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes`
	var args []interface{}
	if filter.InstructorID != "" {
		query += ` WHERE instructor_id = $1`
		args = append(args, filter.InstructorID)
	}
	query += ` ORDER BY title ASC`

	classes := []models.Class{}
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID returns a class record by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class: %w", err)
	}
	return &class, nil
}

// Create persists a class record.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now
	class.Version = 1

	const query = `INSERT INTO classes (id, title, description, instructor_id, level, type, max_capacity, version, created_at, updated_at)
VALUES (:id, :title, :description, :instructor_id, :level, :type, :max_capacity, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update overwrites a class guarded by an optional expected version.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class, expectedVersion *int) error {
	class.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classes SET title = $2, description = $3, instructor_id = $4, level = $5, type = $6, max_capacity = $7, version = version + 1, updated_at = $8
WHERE id = $1 AND ($9::int IS NULL OR version = $9) RETURNING version`
	err := r.db.GetContext(ctx, &class.Version, query,
		class.ID, class.Title, class.Description, class.InstructorID, class.Level, class.Type, class.MaxCapacity, class.UpdatedAt, expectedVersion)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class record.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted class rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteCascade removes a class with its sessions and their attendance in one transaction.
func (r *ClassRepository) DeleteCascade(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin class delete: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const deleteAttendance = `DELETE FROM attendance WHERE session_id IN (SELECT id FROM class_sessions WHERE class_id = $1)`
	if _, err = tx.ExecContext(ctx, deleteAttendance, id); err != nil {
		return fmt.Errorf("delete class attendance: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM class_sessions WHERE class_id = $1`, id); err != nil {
		return fmt.Errorf("delete class sessions: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted class rows: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit class delete: %w", err)
	}
	return nil
}

// CountSessions returns number of sessions scheduled for the class.
func (r *ClassRepository) CountSessions(ctx context.Context, classID string) (int, error) {
	const query = `SELECT COUNT(*) FROM class_sessions WHERE class_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, classID); err != nil {
		return 0, fmt.Errorf("count class sessions: %w", err)
	}
	return count, nil
}
