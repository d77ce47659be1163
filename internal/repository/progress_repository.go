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

const progressColumns = `id, student_id, belt_rank, stripes, to_char(last_promotion_date, 'YYYY-MM-DD') AS last_promotion_date, notes, version, created_at, updated_at`

// ProgressRepository persists the belt record of each student.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository constructs a progress repository.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// FindByStudent returns the progress record of a student.
func (r *ProgressRepository) FindByStudent(ctx context.Context, studentID string) (*models.StudentProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM student_progress WHERE student_id = $1 LIMIT 1`
	var progress models.StudentProgress
	if err := r.db.GetContext(ctx, &progress, query, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find progress by student: %w", err)
	}
	return &progress, nil
}

// FindByID returns a progress record by identifier.
func (r *ProgressRepository) FindByID(ctx context.Context, id string) (*models.StudentProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM student_progress WHERE id = $1`
	var progress models.StudentProgress
	if err := r.db.GetContext(ctx, &progress, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find progress: %w", err)
	}
	return &progress, nil
}

// Create inserts a progress record. uq_student_progress_student rejects a second one.
func (r *ProgressRepository) Create(ctx context.Context, progress *models.StudentProgress) error {
	if progress.ID == "" {
		progress.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if progress.CreatedAt.IsZero() {
		progress.CreatedAt = now
	}
	progress.UpdatedAt = now
	progress.Version = 1

	const query = `INSERT INTO student_progress (id, student_id, belt_rank, stripes, last_promotion_date, notes, version, created_at, updated_at)
VALUES (:id, :student_id, :belt_rank, :stripes, :last_promotion_date, :notes, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, progress); err != nil {
		return fmt.Errorf("create progress: %w", err)
	}
	return nil
}

// Update overwrites a progress record guarded by an optional expected version.
func (r *ProgressRepository) Update(ctx context.Context, progress *models.StudentProgress, expectedVersion *int) error {
	progress.UpdatedAt = time.Now().UTC()
	const query = `UPDATE student_progress SET belt_rank = $2, stripes = $3, last_promotion_date = $4, notes = $5, version = version + 1, updated_at = $6
WHERE id = $1 AND ($7::int IS NULL OR version = $7) RETURNING version`
	err := r.db.GetContext(ctx, &progress.Version, query,
		progress.ID, progress.BeltRank, progress.Stripes, progress.LastPromotionDate, progress.Notes, progress.UpdatedAt, expectedVersion)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}
