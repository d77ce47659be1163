package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/models"
	appValidator "github.com/noah-isme/dojo-api/internal/validator"
	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
)

const cacheKeySessionsAll = cacheKeySessions + "all"

type sessionRepository interface {
	List(ctx context.Context) ([]models.ClassSession, error)
	ListByClass(ctx context.Context, classID string) ([]models.ClassSession, error)
	ListByDateRange(ctx context.Context, start, end string) ([]models.ClassSession, error)
	FindByID(ctx context.Context, id string) (*models.ClassSession, error)
	Create(ctx context.Context, session *models.ClassSession) error
	CreateBatch(ctx context.Context, sessions []models.ClassSession) error
	Update(ctx context.Context, session *models.ClassSession, expectedVersion *int) error
	Delete(ctx context.Context, id string) error
	DeleteCascade(ctx context.Context, id string) error
	CountAttendance(ctx context.Context, sessionID string) (int, error)
}

type classReader interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// SessionService schedules class sessions.
type SessionService struct {
	repo      sessionRepository
	classes   classReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService constructs a SessionService.
func NewSessionService(repo sessionRepository, classes classReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = appValidator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{repo: repo, classes: classes, cache: cache, validator: validate, logger: logger}
}

// List returns every session with the title, type and level of its class resolved at
// read time. Sessions whose class is gone carry placeholder values.
func (s *SessionService) List(ctx context.Context) ([]models.SessionWithClass, error) {
	var cached []models.SessionWithClass
	if hit, _ := s.cache.Get(ctx, cacheKeySessionsAll, &cached); hit {
		return cached, nil
	}

	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list sessions")
	}
	classes, err := s.classes.List(ctx, models.ClassFilter{})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list classes")
	}

	byID := make(map[string]models.Class, len(classes))
	for _, class := range classes {
		byID[class.ID] = class
	}

	result := make([]models.SessionWithClass, 0, len(sessions))
	for _, session := range sessions {
		item := models.SessionWithClass{
			ClassSession: session,
			ClassTitle:   models.UnknownClassTitle,
			ClassType:    models.UnknownClassType,
			ClassLevel:   models.UnknownClassLevel,
		}
		if class, ok := byID[session.ClassID]; ok {
			item.ClassTitle = class.Title
			item.ClassType = string(class.Type)
			item.ClassLevel = string(class.Level)
		}
		result = append(result, item)
	}

	_ = s.cache.Set(ctx, cacheKeySessionsAll, result, 0)
	return result, nil
}

// ListByDateRange returns sessions dated between start and end inclusive.
func (s *SessionService) ListByDateRange(ctx context.Context, query dto.SessionRangeQuery) ([]models.ClassSession, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appValidator.ToAppError(err, "invalid date range")
	}
	if query.EndDate < query.StartDate {
		return nil, appValidator.Field("endDate", "must not be before startDate")
	}
	sessions, err := s.repo.ListByDateRange(ctx, query.StartDate, query.EndDate)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list sessions")
	}
	return sessions, nil
}

// ListByClass returns the sessions of one class.
func (s *SessionService) ListByClass(ctx context.Context, classID string) ([]models.ClassSession, error) {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		return nil, lookupError(err, "class")
	}
	sessions, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list class sessions")
	}
	return sessions, nil
}

// Get returns a session by id.
func (s *SessionService) Get(ctx context.Context, id string) (*models.ClassSession, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "session")
	}
	return session, nil
}

// Create schedules a session. A recurring request materialises one session per
// matching weekday up to recurrenceEndDate, all written in one transaction.
func (s *SessionService) Create(ctx context.Context, req dto.CreateSessionRequest) ([]models.ClassSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid session payload")
	}
	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		return nil, lookupError(err, "class")
	}

	if !req.IsRecurring {
		session := &models.ClassSession{
			ClassID:   req.ClassID,
			Date:      req.Date,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Notes:     req.Notes,
		}
		if err := s.repo.Create(ctx, session); err != nil {
			return nil, writeError(err, nil, "session")
		}
		s.invalidate(ctx)
		return []models.ClassSession{*session}, nil
	}

	if len(req.DaysOfWeek) == 0 {
		return nil, appValidator.Field("daysOfWeek", "at least one day is required for a recurring session")
	}
	dates, err := weeklyDates(req.Date, stringValue(req.RecurrenceEndDate), req.DaysOfWeek)
	if err != nil {
		return nil, err
	}

	sessions := make([]models.ClassSession, 0, len(dates))
	for _, date := range dates {
		sessions = append(sessions, models.ClassSession{
			ClassID:   req.ClassID,
			Date:      date,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Notes:     req.Notes,
		})
	}
	if err := s.repo.CreateBatch(ctx, sessions); err != nil {
		return nil, writeError(err, nil, "session")
	}
	s.logger.Info("recurring sessions scheduled", zap.String("class_id", req.ClassID), zap.Int("count", len(sessions)))
	s.invalidate(ctx)
	return sessions, nil
}

// Update changes the provided session fields. The resulting times must still form a
// valid range.
func (s *SessionService) Update(ctx context.Context, id string, req dto.UpdateSessionRequest) (*models.ClassSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid session payload")
	}

	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "session")
	}
	if err := checkVersion(req.Version, session.Version); err != nil {
		return nil, err
	}

	if req.ClassID != nil && *req.ClassID != session.ClassID {
		if _, err := s.classes.FindByID(ctx, *req.ClassID); err != nil {
			return nil, lookupError(err, "class")
		}
		session.ClassID = *req.ClassID
	}
	if req.Date != nil {
		session.Date = *req.Date
	}
	if req.StartTime != nil {
		session.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		session.EndTime = *req.EndTime
	}
	if req.Notes != nil {
		session.Notes = req.Notes
	}
	if err := validateTimeRange(session.StartTime, session.EndTime); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, session, req.Version); err != nil {
		return nil, writeError(err, req.Version, "session")
	}
	s.invalidate(ctx)
	return session, nil
}

// Delete removes a session. Recorded attendance blocks the delete unless cascade is
// set, in which case the attendance is removed with it.
func (s *SessionService) Delete(ctx context.Context, id string, cascade bool) error {
	if cascade {
		if err := s.repo.DeleteCascade(ctx, id); err != nil {
			return deleteError(err, "session")
		}
		s.invalidate(ctx)
		return nil
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupError(err, "session")
	}
	count, err := s.repo.CountAttendance(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "failed to count session attendance")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "session has attendance records, delete with cascade=true to remove them")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "session")
	}
	s.invalidate(ctx)
	return nil
}

func (s *SessionService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cacheKeySessions+"*", cacheKeyReports+"*")
}

// validateTimeRange requires start to be strictly before end on the same day.
func validateTimeRange(start, end string) error {
	if appValidator.ClockMinutes(start) >= appValidator.ClockMinutes(end) {
		return appValidator.Field("endTime", "must be after startTime")
	}
	return nil
}
