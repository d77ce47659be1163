package models

import "time"

// ClassSession is one scheduled occurrence of a class. Date is a calendar date
// (YYYY-MM-DD) and the times are HH:MM strings.
type ClassSession struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"classId"`
	Date      string    `db:"date" json:"date"`
	StartTime string    `db:"start_time" json:"startTime"`
	EndTime   string    `db:"end_time" json:"endTime"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// SessionWithClass carries class fields denormalised at read time.
type SessionWithClass struct {
	ClassSession
	ClassTitle string `json:"classTitle"`
	ClassType  string `json:"classType"`
	ClassLevel string `json:"classLevel"`
}

const (
	UnknownClassTitle = "Unknown Class"
	UnknownClassType  = "Unknown Type"
	UnknownClassLevel = "Unknown Level"
)
