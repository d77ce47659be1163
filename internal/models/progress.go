package models

import "time"

// BeltRank is the ordinal skill level.
type BeltRank string

const (
	BeltWhite  BeltRank = "white"
	BeltBlue   BeltRank = "blue"
	BeltPurple BeltRank = "purple"
	BeltBrown  BeltRank = "brown"
	BeltBlack  BeltRank = "black"
)

// BeltOrder lists ranks from lowest to highest.
var BeltOrder = []BeltRank{BeltWhite, BeltBlue, BeltPurple, BeltBrown, BeltBlack}

// StudentProgress is the single belt record of a student.
type StudentProgress struct {
	ID                string    `db:"id" json:"id"`
	StudentID         string    `db:"student_id" json:"studentId"`
	BeltRank          BeltRank  `db:"belt_rank" json:"beltRank"`
	Stripes           int       `db:"stripes" json:"stripes"`
	LastPromotionDate *string   `db:"last_promotion_date" json:"lastPromotionDate,omitempty"`
	Notes             *string   `db:"notes" json:"notes,omitempty"`
	Version           int       `db:"version" json:"version"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}
