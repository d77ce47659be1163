package models

import "time"

// Technique is a catalogued move with its minimum belt level.
type Technique struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Category    string    `db:"category" json:"category"`
	BeltLevel   *BeltRank `db:"belt_level" json:"beltLevel,omitempty"`
	Version     int       `db:"version" json:"version"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// TechniqueFilter narrows technique listings.
type TechniqueFilter struct {
	Category  string
	BeltLevel string
}
