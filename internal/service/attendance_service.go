package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/models"
	"github.com/noah-isme/dojo-api/internal/repository"
	appValidator "github.com/noah-isme/dojo-api/internal/validator"
	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
)

type attendanceRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.Attendance, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.AttendanceHistoryEntry, error)
	FindByID(ctx context.Context, id string) (*models.Attendance, error)
	Create(ctx context.Context, record *models.Attendance) error
	Update(ctx context.Context, record *models.Attendance, expectedVersion *int) error
	Delete(ctx context.Context, id string) error
}

type sessionFinder interface {
	FindByID(ctx context.Context, id string) (*models.ClassSession, error)
}

// AttendanceService records who attended which session.
type AttendanceService struct {
	repo      attendanceRepository
	sessions  sessionFinder
	users     userFinder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, sessions sessionFinder, users userFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = appValidator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, sessions: sessions, users: users, cache: cache, validator: validate, logger: logger}
}

// ListBySession returns the attendance sheet of a session.
func (s *AttendanceService) ListBySession(ctx context.Context, sessionID string) ([]models.Attendance, error) {
	if _, err := s.sessions.FindByID(ctx, sessionID); err != nil {
		return nil, lookupError(err, "session")
	}
	records, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list attendance")
	}
	return records, nil
}

// History returns a member's attendance joined with session and class details.
func (s *AttendanceService) History(ctx context.Context, studentID string) ([]models.AttendanceHistoryEntry, error) {
	if _, err := s.users.FindByID(ctx, studentID); err != nil {
		return nil, lookupError(err, "member")
	}
	entries, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load attendance history")
	}
	return entries, nil
}

// Create records attendance. A student has at most one record per session.
func (s *AttendanceService) Create(ctx context.Context, req dto.CreateAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid attendance payload")
	}
	if _, err := s.sessions.FindByID(ctx, req.SessionID); err != nil {
		return nil, lookupError(err, "session")
	}
	if _, err := s.users.FindByID(ctx, req.StudentID); err != nil {
		return nil, lookupError(err, "student")
	}

	record := &models.Attendance{
		SessionID: req.SessionID,
		StudentID: req.StudentID,
		Status:    models.AttendanceStatus(req.Status),
		Notes:     req.Notes,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "attendance already recorded for this student and session")
		}
		return nil, writeError(err, nil, "attendance")
	}
	s.cache.Invalidate(ctx, cacheKeyReports+"*")
	return record, nil
}

// Update changes the status or notes of a record.
func (s *AttendanceService) Update(ctx context.Context, id string, req dto.UpdateAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid attendance payload")
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "attendance")
	}
	if err := checkVersion(req.Version, record.Version); err != nil {
		return nil, err
	}
	if req.Status != nil {
		record.Status = models.AttendanceStatus(*req.Status)
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, record, req.Version); err != nil {
		return nil, writeError(err, req.Version, "attendance")
	}
	s.cache.Invalidate(ctx, cacheKeyReports+"*")
	return record, nil
}

// Delete removes an attendance record.
func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "attendance")
	}
	s.cache.Invalidate(ctx, cacheKeyReports+"*")
	return nil
}
