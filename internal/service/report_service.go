package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/models"
	appValidator "github.com/noah-isme/dojo-api/internal/validator"
	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
	"github.com/noah-isme/dojo-api/pkg/export"
)

const (
	cacheKeyReportSummary    = cacheKeyReports + "summary"
	cacheKeyReportAttendance = cacheKeyReports + "attendance:"
	upcomingWindowDays       = 7
)

type reportRepository interface {
	CountUsersByRole(ctx context.Context) ([]models.CountByKey, error)
	CountClasses(ctx context.Context) (int, error)
	CountSessionsBetween(ctx context.Context, start, end string) (int, error)
	BeltDistribution(ctx context.Context) ([]models.CountByKey, error)
	AttendanceByStatus(ctx context.Context) ([]models.CountByKey, error)
	ClassAttendance(ctx context.Context, rng models.ReportRange) ([]models.ClassAttendanceRow, error)
}

// ExportFile is a rendered report ready to be downloaded.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportService builds academy reports.
type ReportService struct {
	repo      reportRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(repo reportRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = appValidator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// Summary returns academy-wide counters. Upcoming sessions covers today and the next
// seven days.
func (s *ReportService) Summary(ctx context.Context) (*models.SummaryReport, error) {
	var cached models.SummaryReport
	if hit, _ := s.cache.Get(ctx, cacheKeyReportSummary, &cached); hit {
		return &cached, nil
	}

	roles, err := s.repo.CountUsersByRole(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count members")
	}
	classes, err := s.repo.CountClasses(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count classes")
	}
	today := s.now().UTC()
	upcoming, err := s.repo.CountSessionsBetween(ctx,
		today.Format(appValidator.DateLayout),
		today.AddDate(0, 0, upcomingWindowDays).Format(appValidator.DateLayout))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count upcoming sessions")
	}
	belts, err := s.repo.BeltDistribution(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load belt distribution")
	}
	statuses, err := s.repo.AttendanceByStatus(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count attendance")
	}

	report := &models.SummaryReport{
		MembersByRole:      toCountMap(roles, string(models.RoleStudent), string(models.RoleInstructor), string(models.RoleAdmin)),
		TotalClasses:       classes,
		UpcomingSessions:   upcoming,
		BeltDistribution:   toCountMap(belts, beltNames()...),
		AttendanceByStatus: toCountMap(statuses, string(models.AttendancePresent), string(models.AttendanceLate), string(models.AttendanceAbsent)),
		GeneratedAt:        s.now().UTC(),
	}
	for _, row := range roles {
		report.TotalMembers += row.Count
	}

	_ = s.cache.Set(ctx, cacheKeyReportSummary, report, 0)
	return report, nil
}

// Attendance returns per-class attendance over an optional date range.
func (s *ReportService) Attendance(ctx context.Context, query dto.ReportRangeQuery) (*models.AttendanceReport, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appValidator.ToAppError(err, "invalid report range")
	}
	if query.StartDate != "" && query.EndDate != "" && query.EndDate < query.StartDate {
		return nil, appValidator.Field("endDate", "must not be before startDate")
	}

	key := cacheKeyReportAttendance + query.StartDate + ":" + query.EndDate
	var cached models.AttendanceReport
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	rows, err := s.repo.ClassAttendance(ctx, models.ReportRange{StartDate: query.StartDate, EndDate: query.EndDate})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to build attendance report")
	}
	for i := range rows {
		rows[i].AttendanceRate = attendanceRate(rows[i])
	}

	report := &models.AttendanceReport{
		StartDate:   query.StartDate,
		EndDate:     query.EndDate,
		Classes:     rows,
		GeneratedAt: s.now().UTC(),
	}
	_ = s.cache.Set(ctx, key, report, 0)
	return report, nil
}

// ExportAttendance renders the attendance report as CSV or PDF.
func (s *ReportService) ExportAttendance(ctx context.Context, query dto.ExportQuery) (*ExportFile, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appValidator.ToAppError(err, "invalid export request")
	}
	format, err := export.ParseFormat(query.Format)
	if err != nil {
		return nil, appValidator.Field("format", "must be one of [csv pdf]")
	}

	report, err := s.Attendance(ctx, dto.ReportRangeQuery{StartDate: query.StartDate, EndDate: query.EndDate})
	if err != nil {
		return nil, err
	}

	data, err := export.Render(format, attendanceDataset(report))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render attendance export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("attendance-report-%s.%s", s.now().UTC().Format("20060102-150405"), format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

var attendanceHeaders = []string{"Class", "Sessions Held", "Present", "Late", "Absent", "Attendance Rate"}

func attendanceDataset(report *models.AttendanceReport) export.Dataset {
	title := "Attendance Report"
	switch {
	case report.StartDate != "" && report.EndDate != "":
		title += fmt.Sprintf(" (%s to %s)", report.StartDate, report.EndDate)
	case report.StartDate != "":
		title += " (from " + report.StartDate + ")"
	case report.EndDate != "":
		title += " (until " + report.EndDate + ")"
	}

	rows := make([]map[string]string, 0, len(report.Classes))
	for _, row := range report.Classes {
		rows = append(rows, map[string]string{
			"Class":           row.ClassTitle,
			"Sessions Held":   strconv.Itoa(row.SessionsHeld),
			"Present":         strconv.Itoa(row.Present),
			"Late":            strconv.Itoa(row.Late),
			"Absent":          strconv.Itoa(row.Absent),
			"Attendance Rate": strconv.FormatFloat(row.AttendanceRate*100, 'f', 1, 64) + "%",
		})
	}
	return export.Dataset{Title: title, Headers: attendanceHeaders, Rows: rows}
}

// attendanceRate counts late arrivals as attended. Classes without records rate 0.
func attendanceRate(row models.ClassAttendanceRow) float64 {
	total := row.Present + row.Late + row.Absent
	if total == 0 {
		return 0
	}
	rate := float64(row.Present+row.Late) / float64(total)
	return math.Round(rate*10000) / 10000
}

func toCountMap(rows []models.CountByKey, keys ...string) map[string]int {
	out := make(map[string]int, len(keys))
	for _, key := range keys {
		out[key] = 0
	}
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out
}

func beltNames() []string {
	names := make([]string, 0, len(models.BeltOrder))
	for _, belt := range models.BeltOrder {
		names = append(names, string(belt))
	}
	return names
}
