package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/models"
	appValidator "github.com/noah-isme/dojo-api/internal/validator"
	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class, expectedVersion *int) error
	Delete(ctx context.Context, id string) error
	DeleteCascade(ctx context.Context, id string) error
	CountSessions(ctx context.Context, classID string) (int, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ClassService manages class templates.
type ClassService struct {
	repo      classRepository
	users     userFinder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, users userFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = appValidator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, users: users, cache: cache, validator: validate, logger: logger}
}

// List returns classes, optionally only those taught by one instructor.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error) {
	if filter.InstructorID != "" {
		if _, err := uuid.Parse(filter.InstructorID); err != nil {
			return nil, appValidator.Field("instructorId", "must be a valid UUID")
		}
	}
	classes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list classes")
	}
	return classes, nil
}

// Get returns a class by id.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "class")
	}
	return class, nil
}

// Create stores a new class template.
func (s *ClassService) Create(ctx context.Context, req dto.CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid class payload")
	}
	if err := s.ensureInstructor(ctx, req.InstructorID); err != nil {
		return nil, err
	}

	class := &models.Class{
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: req.InstructorID,
		Level:        models.ClassLevel(req.Level),
		Type:         models.ClassType(req.Type),
		MaxCapacity:  req.MaxCapacity,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, writeError(err, nil, "class")
	}
	s.cache.Invalidate(ctx, cacheKeyReports+"*")
	return class, nil
}

// Update changes the provided class fields.
func (s *ClassService) Update(ctx context.Context, id string, req dto.UpdateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid class payload")
	}

	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "class")
	}
	if err := checkVersion(req.Version, class.Version); err != nil {
		return nil, err
	}

	if req.Title != nil {
		class.Title = *req.Title
	}
	if req.Description != nil {
		class.Description = req.Description
	}
	if req.InstructorID != nil && *req.InstructorID != class.InstructorID {
		if err := s.ensureInstructor(ctx, *req.InstructorID); err != nil {
			return nil, err
		}
		class.InstructorID = *req.InstructorID
	}
	if req.Level != nil {
		class.Level = models.ClassLevel(*req.Level)
	}
	if req.Type != nil {
		class.Type = models.ClassType(*req.Type)
	}
	if req.MaxCapacity != nil {
		class.MaxCapacity = req.MaxCapacity
	}

	if err := s.repo.Update(ctx, class, req.Version); err != nil {
		return nil, writeError(err, req.Version, "class")
	}
	s.cache.Invalidate(ctx, cacheKeySessions+"*", cacheKeyReports+"*")
	return class, nil
}

// Delete removes a class. A class with scheduled sessions is only removed when
// cascade is set, in which case its sessions and their attendance go with it.
func (s *ClassService) Delete(ctx context.Context, id string, cascade bool) error {
	if cascade {
		if err := s.repo.DeleteCascade(ctx, id); err != nil {
			return deleteError(err, "class")
		}
		s.cache.Invalidate(ctx, cacheKeySessions+"*", cacheKeyReports+"*")
		return nil
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupError(err, "class")
	}
	count, err := s.repo.CountSessions(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "failed to count class sessions")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "class has scheduled sessions, delete with cascade=true to remove them")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "class")
	}
	s.cache.Invalidate(ctx, cacheKeySessions+"*", cacheKeyReports+"*")
	return nil
}

func (s *ClassService) ensureInstructor(ctx context.Context, id string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, "instructor")
	}
	if !user.Role.IsStaff() {
		return appValidator.Field("instructorId", "must reference an instructor or admin")
	}
	return nil
}
