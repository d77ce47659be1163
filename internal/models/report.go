package models

import "time"

// CountByKey is a generic grouped count row.
type CountByKey struct {
	Key   string `db:"key" json:"key"`
	Count int    `db:"count" json:"count"`
}

// SummaryReport aggregates academy-wide counters.
type SummaryReport struct {
	TotalMembers       int            `json:"totalMembers"`
	MembersByRole      map[string]int `json:"membersByRole"`
	TotalClasses       int            `json:"totalClasses"`
	UpcomingSessions   int            `json:"upcomingSessions"`
	BeltDistribution   map[string]int `json:"beltDistribution"`
	AttendanceByStatus map[string]int `json:"attendanceByStatus"`
	GeneratedAt        time.Time      `json:"generatedAt"`
}

// ClassAttendanceRow is the per-class attendance aggregate.
type ClassAttendanceRow struct {
	ClassID        string  `db:"class_id" json:"classId"`
	ClassTitle     string  `db:"class_title" json:"classTitle"`
	SessionsHeld   int     `db:"sessions_held" json:"sessionsHeld"`
	Present        int     `db:"present" json:"present"`
	Late           int     `db:"late" json:"late"`
	Absent         int     `db:"absent" json:"absent"`
	AttendanceRate float64 `db:"-" json:"attendanceRate"`
}

// AttendanceReport covers every class over an optional date range.
type AttendanceReport struct {
	StartDate   string               `json:"startDate,omitempty"`
	EndDate     string               `json:"endDate,omitempty"`
	Classes     []ClassAttendanceRow `json:"classes"`
	GeneratedAt time.Time            `json:"generatedAt"`
}

// ReportRange bounds an attendance report. Empty values leave the side open.
type ReportRange struct {
	StartDate string
	EndDate   string
}
