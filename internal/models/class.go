package models

import "time"

// ClassLevel is the audience of a class template.
type ClassLevel string

const (
	LevelBeginner     ClassLevel = "beginner"
	LevelIntermediate ClassLevel = "intermediate"
	LevelAdvanced     ClassLevel = "advanced"
	LevelAllLevels    ClassLevel = "all-levels"
)

// ClassType distinguishes gi, no-gi and open mat classes.
type ClassType string

const (
	TypeGi      ClassType = "gi"
	TypeNoGi    ClassType = "no-gi"
	TypeOpenMat ClassType = "open-mat"
)

// Class is a reusable class template taught by an instructor.
type Class struct {
	ID           string     `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	Description  *string    `db:"description" json:"description,omitempty"`
	InstructorID string     `db:"instructor_id" json:"instructorId"`
	Level        ClassLevel `db:"level" json:"level"`
	Type         ClassType  `db:"type" json:"type"`
	MaxCapacity  *int       `db:"max_capacity" json:"maxCapacity,omitempty"`
	Version      int        `db:"version" json:"version"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// ClassFilter narrows class listings.
type ClassFilter struct {
	InstructorID string
}
