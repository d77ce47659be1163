package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dojo-api/internal/models"
)

const techniqueColumns = `id, name, description, category, belt_level, version, created_at, updated_at`

// TechniqueRepository manages the technique catalogue.
type TechniqueRepository struct {
	db *sqlx.DB
}

// NewTechniqueRepository constructs a technique repository.
func NewTechniqueRepository(db *sqlx.DB) *TechniqueRepository {
	return &TechniqueRepository{db: db}
}

// List returns techniques matching the filter ordered by name.
func (r *TechniqueRepository) List(ctx context.Context, filter models.TechniqueFilter) ([]models.Technique, error) {
	query := `SELECT ` + techniqueColumns + ` FROM techniques`
	var conditions []string
	var args []interface{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.BeltLevel != "" {
		args = append(args, filter.BeltLevel)
		conditions = append(conditions, fmt.Sprintf("belt_level = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name ASC"

	techniques := []models.Technique{}
	if err := r.db.SelectContext(ctx, &techniques, query, args...); err != nil {
		return nil, fmt.Errorf("list techniques: %w", err)
	}
	return techniques, nil
}

// FindByID returns a technique by identifier.
func (r *TechniqueRepository) FindByID(ctx context.Context, id string) (*models.Technique, error) {
	query := `SELECT ` + techniqueColumns + ` FROM techniques WHERE id = $1`
	var technique models.Technique
	if err := r.db.GetContext(ctx, &technique, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find technique: %w", err)
	}
	return &technique, nil
}

// Create inserts a technique.
func (r *TechniqueRepository) Create(ctx context.Context, technique *models.Technique) error {
	if technique.ID == "" {
		technique.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if technique.CreatedAt.IsZero() {
		technique.CreatedAt = now
	}
	technique.UpdatedAt = now
	technique.Version = 1

	const query = `INSERT INTO techniques (id, name, description, category, belt_level, version, created_at, updated_at)
VALUES (:id, :name, :description, :category, :belt_level, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, technique); err != nil {
		return fmt.Errorf("create technique: %w", err)
	}
	return nil
}

// Update overwrites a technique guarded by an optional expected version.
func (r *TechniqueRepository) Update(ctx context.Context, technique *models.Technique, expectedVersion *int) error {
	technique.UpdatedAt = time.Now().UTC()
	const query = `UPDATE techniques SET name = $2, description = $3, category = $4, belt_level = $5, version = version + 1, updated_at = $6
WHERE id = $1 AND ($7::int IS NULL OR version = $7) RETURNING version`
	err := r.db.GetContext(ctx, &technique.Version, query,
		technique.ID, technique.Name, technique.Description, technique.Category, technique.BeltLevel, technique.UpdatedAt, expectedVersion)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update technique: %w", err)
	}
	return nil
}

// Delete removes a technique. Notes pointing at it keep their text with a null reference.
func (r *TechniqueRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM techniques WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete technique: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted technique rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
