package models

import "time"

// AttendanceStatus marks how a student showed up to a session.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// Attendance is a per-student, per-session presence record.
type Attendance struct {
	ID        string           `db:"id" json:"id"`
	SessionID string           `db:"session_id" json:"sessionId"`
	StudentID string           `db:"student_id" json:"studentId"`
	Status    AttendanceStatus `db:"status" json:"status"`
	Notes     *string          `db:"notes" json:"notes,omitempty"`
	Version   int              `db:"version" json:"version"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time        `db:"updated_at" json:"updatedAt"`
}

// AttendanceHistoryEntry joins an attendance record with its session and class.
type AttendanceHistoryEntry struct {
	Attendance
	Date       string `db:"date" json:"date"`
	StartTime  string `db:"start_time" json:"startTime"`
	EndTime    string `db:"end_time" json:"endTime"`
	ClassID    string `db:"class_id" json:"classId"`
	ClassTitle string `db:"class_title" json:"classTitle"`
}
