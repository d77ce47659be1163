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

const eventColumns = `id, title, description, event_type, to_char(date, 'YYYY-MM-DD') AS date, start_time, end_time, location, max_attendees,
registration_required, instructor_id, external_link, cost, created_by, version, created_at, updated_at`

// EventRepository persists academy events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an event repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns every event in calendar order.
func (r *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date ASC, start_time ASC`
	events := []models.Event{}
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// FindByID returns an event by identifier.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &event, nil
}

// Create inserts an event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	event.Version = 1

	const query = `INSERT INTO events (id, title, description, event_type, date, start_time, end_time, location, max_attendees,
registration_required, instructor_id, external_link, cost, created_by, version, created_at, updated_at)
VALUES (:id, :title, :description, :event_type, :date, :start_time, :end_time, :location, :max_attendees,
:registration_required, :instructor_id, :external_link, :cost, :created_by, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update overwrites an event guarded by an optional expected version.
func (r *EventRepository) Update(ctx context.Context, event *models.Event, expectedVersion *int) error {
	event.UpdatedAt = time.Now().UTC()
	const query = `UPDATE events SET title = $2, description = $3, event_type = $4, date = $5, start_time = $6, end_time = $7, location = $8,
max_attendees = $9, registration_required = $10, instructor_id = $11, external_link = $12, cost = $13, version = version + 1, updated_at = $14
WHERE id = $1 AND ($15::int IS NULL OR version = $15) RETURNING version`
	err := r.db.GetContext(ctx, &event.Version, query,
		event.ID, event.Title, event.Description, event.EventType, event.Date, event.StartTime, event.EndTime, event.Location,
		event.MaxAttendees, event.RegistrationRequired, event.InstructorID, event.ExternalLink, event.Cost, event.UpdatedAt, expectedVersion)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// Delete removes an event.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted event rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
