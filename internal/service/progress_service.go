package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/models"
	"github.com/noah-isme/dojo-api/internal/repository"
	appValidator "github.com/noah-isme/dojo-api/internal/validator"
	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
)

type progressRepository interface {
	FindByStudent(ctx context.Context, studentID string) (*models.StudentProgress, error)
	FindByID(ctx context.Context, id string) (*models.StudentProgress, error)
	Create(ctx context.Context, progress *models.StudentProgress) error
	Update(ctx context.Context, progress *models.StudentProgress, expectedVersion *int) error
}

// ProgressService tracks the belt rank of each student.
type ProgressService struct {
	repo      progressRepository
	users     userFinder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgressService constructs a ProgressService.
func NewProgressService(repo progressRepository, users userFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ProgressService {
	if validate == nil {
		validate = appValidator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{repo: repo, users: users, cache: cache, validator: validate, logger: logger}
}

// GetByStudent returns the progress record of a student.
func (s *ProgressService) GetByStudent(ctx context.Context, studentID string) (*models.StudentProgress, error) {
	progress, err := s.repo.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, lookupError(err, "progress")
	}
	return progress, nil
}

// Create opens the progress record of a student. Each student has exactly one.
func (s *ProgressService) Create(ctx context.Context, req dto.CreateProgressRequest) (*models.StudentProgress, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid progress payload")
	}
	if _, err := s.users.FindByID(ctx, req.StudentID); err != nil {
		return nil, lookupError(err, "student")
	}
	if _, err := s.repo.FindByStudent(ctx, req.StudentID); err == nil {
		return nil, appValidator.Field("studentId", "progress record already exists for this student")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Internal(err, "failed to check progress")
	}

	progress := &models.StudentProgress{
		StudentID:         req.StudentID,
		BeltRank:          models.BeltRank(req.BeltRank),
		LastPromotionDate: req.LastPromotionDate,
		Notes:             req.Notes,
	}
	if req.Stripes != nil {
		progress.Stripes = *req.Stripes
	}
	if err := s.repo.Create(ctx, progress); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appValidator.Field("studentId", "progress record already exists for this student")
		}
		return nil, writeError(err, nil, "progress")
	}
	s.cache.Invalidate(ctx, cacheKeyReports+"*")
	return progress, nil
}

// Update changes the provided progress fields.
func (s *ProgressService) Update(ctx context.Context, id string, req dto.UpdateProgressRequest) (*models.StudentProgress, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid progress payload")
	}

	progress, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "progress")
	}
	if err := checkVersion(req.Version, progress.Version); err != nil {
		return nil, err
	}
	if req.BeltRank != nil {
		progress.BeltRank = models.BeltRank(*req.BeltRank)
	}
	if req.Stripes != nil {
		progress.Stripes = *req.Stripes
	}
	if req.LastPromotionDate != nil {
		progress.LastPromotionDate = req.LastPromotionDate
	}
	if req.Notes != nil {
		progress.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, progress, req.Version); err != nil {
		return nil, writeError(err, req.Version, "progress")
	}
	s.cache.Invalidate(ctx, cacheKeyReports+"*")
	return progress, nil
}
