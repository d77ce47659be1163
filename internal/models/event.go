package models

import "time"

// Event is a seminar, tournament or social gathering published by staff.
type Event struct {
	ID                   string    `db:"id" json:"id"`
	Title                string    `db:"title" json:"title"`
	Description          string    `db:"description" json:"description"`
	EventType            string    `db:"event_type" json:"eventType"`
	Date                 string    `db:"date" json:"date"`
	StartTime            string    `db:"start_time" json:"startTime"`
	EndTime              string    `db:"end_time" json:"endTime"`
	Location             string    `db:"location" json:"location"`
	MaxAttendees         *int      `db:"max_attendees" json:"maxAttendees,omitempty"`
	RegistrationRequired bool      `db:"registration_required" json:"registrationRequired"`
	InstructorID         *string   `db:"instructor_id" json:"instructorId,omitempty"`
	ExternalLink         *string   `db:"external_link" json:"externalLink,omitempty"`
	Cost                 *string   `db:"cost" json:"cost,omitempty"`
	CreatedBy            string    `db:"created_by" json:"createdBy"`
	Version              int       `db:"version" json:"version"`
	CreatedAt            time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time `db:"updated_at" json:"updatedAt"`
}
