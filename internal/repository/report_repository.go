package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dojo-api/internal/models"
)

// ReportRepository runs the aggregate queries behind the reports endpoints.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// CountUsersByRole groups members by role.
func (r *ReportRepository) CountUsersByRole(ctx context.Context) ([]models.CountByKey, error) {
	const query = `SELECT role AS key, COUNT(*) AS count FROM users GROUP BY role ORDER BY role`
	rows := []models.CountByKey{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}
	return rows, nil
}

// CountClasses returns the number of class templates.
func (r *ReportRepository) CountClasses(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM classes`); err != nil {
		return 0, fmt.Errorf("count classes: %w", err)
	}
	return count, nil
}

// CountSessionsBetween counts sessions dated within [start, end].
func (r *ReportRepository) CountSessionsBetween(ctx context.Context, start, end string) (int, error) {
	const query = `SELECT COUNT(*) FROM class_sessions WHERE date BETWEEN $1 AND $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, start, end); err != nil {
		return 0, fmt.Errorf("count sessions between: %w", err)
	}
	return count, nil
}

// BeltDistribution groups student progress records by belt.
func (r *ReportRepository) BeltDistribution(ctx context.Context) ([]models.CountByKey, error) {
	const query = `SELECT belt_rank AS key, COUNT(*) AS count FROM student_progress GROUP BY belt_rank ORDER BY belt_rank`
	rows := []models.CountByKey{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("belt distribution: %w", err)
	}
	return rows, nil
}

// AttendanceByStatus groups every attendance record by status.
func (r *ReportRepository) AttendanceByStatus(ctx context.Context) ([]models.CountByKey, error) {
	const query = `SELECT status AS key, COUNT(*) AS count FROM attendance GROUP BY status ORDER BY status`
	rows := []models.CountByKey{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("attendance by status: %w", err)
	}
	return rows, nil
}

// ClassAttendance aggregates sessions and attendance per class. Empty range bounds are open.
func (r *ReportRepository) ClassAttendance(ctx context.Context, rng models.ReportRange) ([]models.ClassAttendanceRow, error) {
	const query = `SELECT c.id AS class_id, c.title AS class_title,
COUNT(DISTINCT s.id) AS sessions_held,
COUNT(a.id) FILTER (WHERE a.status = 'present') AS present,
COUNT(a.id) FILTER (WHERE a.status = 'late') AS late,
COUNT(a.id) FILTER (WHERE a.status = 'absent') AS absent
FROM classes c
LEFT JOIN class_sessions s ON s.class_id = c.id AND ($1::date IS NULL OR s.date >= $1::date) AND ($2::date IS NULL OR s.date <= $2::date)
LEFT JOIN attendance a ON a.session_id = s.id
GROUP BY c.id, c.title
ORDER BY c.title ASC`
	rows := []models.ClassAttendanceRow{}
	if err := r.db.SelectContext(ctx, &rows, query, nullableString(rng.StartDate), nullableString(rng.EndDate)); err != nil {
		return nil, fmt.Errorf("class attendance: %w", err)
	}
	return rows, nil
}

func nullableString(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
