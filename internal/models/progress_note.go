package models

import "time"

// NoteType classifies instructor notes about a member.
type NoteType string

const (
	NoteTechnique NoteType = "technique"
	NotePromotion NoteType = "promotion"
	NoteGeneral   NoteType = "general"
)

// ProgressNote is an instructor's dated note about a member.
type ProgressNote struct {
	ID          string    `db:"id" json:"id"`
	MemberID    string    `db:"member_id" json:"memberId"`
	AuthorID    string    `db:"author_id" json:"authorId"`
	Date        string    `db:"date" json:"date"`
	NoteType    NoteType  `db:"note_type" json:"noteType"`
	Title       string    `db:"title" json:"title"`
	Content     string    `db:"content" json:"content"`
	TechniqueID *string   `db:"technique_id" json:"techniqueId,omitempty"`
	Version     int       `db:"version" json:"version"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
