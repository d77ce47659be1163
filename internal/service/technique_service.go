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

type techniqueRepository interface {
	List(ctx context.Context, filter models.TechniqueFilter) ([]models.Technique, error)
	FindByID(ctx context.Context, id string) (*models.Technique, error)
	Create(ctx context.Context, technique *models.Technique) error
	Update(ctx context.Context, technique *models.Technique, expectedVersion *int) error
	Delete(ctx context.Context, id string) error
}

// TechniqueService maintains the technique library.
type TechniqueService struct {
	repo      techniqueRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTechniqueService constructs a TechniqueService.
func NewTechniqueService(repo techniqueRepository, validate *validator.Validate, logger *zap.Logger) *TechniqueService {
	if validate == nil {
		validate = appValidator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TechniqueService{repo: repo, validator: validate, logger: logger}
}

// List returns techniques matching the optional category and belt filters.
func (s *TechniqueService) List(ctx context.Context, filter models.TechniqueFilter) ([]models.Technique, error) {
	if filter.BeltLevel != "" && !isBelt(filter.BeltLevel) {
		return nil, appValidator.Field("beltLevel", "must be one of [white blue purple brown black]")
	}
	techniques, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list techniques")
	}
	return techniques, nil
}

// Get returns a technique by id.
func (s *TechniqueService) Get(ctx context.Context, id string) (*models.Technique, error) {
	technique, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "technique")
	}
	return technique, nil
}

// Create catalogues a technique.
func (s *TechniqueService) Create(ctx context.Context, req dto.CreateTechniqueRequest) (*models.Technique, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid technique payload")
	}
	technique := &models.Technique{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		BeltLevel:   beltPtr(req.BeltLevel),
	}
	if err := s.repo.Create(ctx, technique); err != nil {
		return nil, writeError(err, nil, "technique")
	}
	return technique, nil
}

// Update changes the provided technique fields.
func (s *TechniqueService) Update(ctx context.Context, id string, req dto.UpdateTechniqueRequest) (*models.Technique, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid technique payload")
	}

	technique, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "technique")
	}
	if err := checkVersion(req.Version, technique.Version); err != nil {
		return nil, err
	}
	if req.Name != nil {
		technique.Name = *req.Name
	}
	if req.Description != nil {
		technique.Description = req.Description
	}
	if req.Category != nil {
		technique.Category = *req.Category
	}
	if req.BeltLevel != nil {
		technique.BeltLevel = beltPtr(req.BeltLevel)
	}

	if err := s.repo.Update(ctx, technique, req.Version); err != nil {
		return nil, writeError(err, req.Version, "technique")
	}
	return technique, nil
}

// Delete removes a technique. Notes that referenced it keep their text.
func (s *TechniqueService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "technique")
	}
	return nil
}

func isBelt(value string) bool {
	for _, belt := range models.BeltOrder {
		if string(belt) == value {
			return true
		}
	}
	return false
}

func beltPtr(value *string) *models.BeltRank {
	if value == nil {
		return nil
	}
	belt := models.BeltRank(*value)
	return &belt
}
