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

const progressNoteColumns = `id, member_id, author_id, to_char(date, 'YYYY-MM-DD') AS date, note_type, title, content, technique_id, version, created_at, updated_at`

// ProgressNoteRepository persists instructor notes about members.
type ProgressNoteRepository struct {
	db *sqlx.DB
}

// NewProgressNoteRepository constructs a progress note repository.
func NewProgressNoteRepository(db *sqlx.DB) *ProgressNoteRepository {
	return &ProgressNoteRepository{db: db}
}

// ListByMember returns the notes of a member, newest first.
func (r *ProgressNoteRepository) ListByMember(ctx context.Context, memberID string) ([]models.ProgressNote, error) {
	query := `SELECT ` + progressNoteColumns + ` FROM progress_notes WHERE member_id = $1 ORDER BY date DESC, created_at DESC`
	notes := []models.ProgressNote{}
	if err := r.db.SelectContext(ctx, &notes, query, memberID); err != nil {
		return nil, fmt.Errorf("list progress notes: %w", err)
	}
	return notes, nil
}

// FindByID returns a note by identifier.
func (r *ProgressNoteRepository) FindByID(ctx context.Context, id string) (*models.ProgressNote, error) {
	query := `SELECT ` + progressNoteColumns + ` FROM progress_notes WHERE id = $1`
	var note models.ProgressNote
	if err := r.db.GetContext(ctx, &note, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find progress note: %w", err)
	}
	return &note, nil
}

// Create inserts a note.
func (r *ProgressNoteRepository) Create(ctx context.Context, note *models.ProgressNote) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now
	note.Version = 1

	const query = `INSERT INTO progress_notes (id, member_id, author_id, date, note_type, title, content, technique_id, version, created_at, updated_at)
VALUES (:id, :member_id, :author_id, :date, :note_type, :title, :content, :technique_id, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, note); err != nil {
		return fmt.Errorf("create progress note: %w", err)
	}
	return nil
}

// Update overwrites a note guarded by an optional expected version.
func (r *ProgressNoteRepository) Update(ctx context.Context, note *models.ProgressNote, expectedVersion *int) error {
	note.UpdatedAt = time.Now().UTC()
	const query = `UPDATE progress_notes SET date = $2, note_type = $3, title = $4, content = $5, technique_id = $6, version = version + 1, updated_at = $7
WHERE id = $1 AND ($8::int IS NULL OR version = $8) RETURNING version`
	err := r.db.GetContext(ctx, &note.Version, query,
		note.ID, note.Date, note.NoteType, note.Title, note.Content, note.TechniqueID, note.UpdatedAt, expectedVersion)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update progress note: %w", err)
	}
	return nil
}

// Delete removes a note.
func (r *ProgressNoteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM progress_notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete progress note: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted progress note rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
