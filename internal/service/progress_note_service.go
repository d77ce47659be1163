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

type progressNoteRepository interface {
	ListByMember(ctx context.Context, memberID string) ([]models.ProgressNote, error)
	FindByID(ctx context.Context, id string) (*models.ProgressNote, error)
	Create(ctx context.Context, note *models.ProgressNote) error
	Update(ctx context.Context, note *models.ProgressNote, expectedVersion *int) error
	Delete(ctx context.Context, id string) error
}

type techniqueFinder interface {
	FindByID(ctx context.Context, id string) (*models.Technique, error)
}

// ProgressNoteService keeps instructor notes about members.
type ProgressNoteService struct {
	repo       progressNoteRepository
	users      userFinder
	techniques techniqueFinder
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewProgressNoteService constructs a ProgressNoteService.
func NewProgressNoteService(repo progressNoteRepository, users userFinder, techniques techniqueFinder, validate *validator.Validate, logger *zap.Logger) *ProgressNoteService {
	if validate == nil {
		validate = appValidator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressNoteService{repo: repo, users: users, techniques: techniques, validator: validate, logger: logger}
}

// ListByMember returns the notes of a member, newest first.
func (s *ProgressNoteService) ListByMember(ctx context.Context, memberID string) ([]models.ProgressNote, error) {
	if _, err := s.users.FindByID(ctx, memberID); err != nil {
		return nil, lookupError(err, "member")
	}
	notes, err := s.repo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list progress notes")
	}
	return notes, nil
}

// Create adds a note authored by the caller.
func (s *ProgressNoteService) Create(ctx context.Context, authorID string, req dto.CreateProgressNoteRequest) (*models.ProgressNote, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid progress note payload")
	}
	if _, err := s.users.FindByID(ctx, req.MemberID); err != nil {
		return nil, lookupError(err, "member")
	}
	if err := s.ensureTechnique(ctx, req.TechniqueID); err != nil {
		return nil, err
	}

	note := &models.ProgressNote{
		MemberID:    req.MemberID,
		AuthorID:    authorID,
		Date:        req.Date,
		NoteType:    models.NoteType(req.NoteType),
		Title:       req.Title,
		Content:     req.Content,
		TechniqueID: req.TechniqueID,
	}
	if err := s.repo.Create(ctx, note); err != nil {
		return nil, writeError(err, nil, "progress note")
	}
	return note, nil
}

// Update changes the provided note fields.
func (s *ProgressNoteService) Update(ctx context.Context, id string, req dto.UpdateProgressNoteRequest) (*models.ProgressNote, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid progress note payload")
	}

	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "progress note")
	}
	if err := checkVersion(req.Version, note.Version); err != nil {
		return nil, err
	}
	if req.Date != nil {
		note.Date = *req.Date
	}
	if req.NoteType != nil {
		note.NoteType = models.NoteType(*req.NoteType)
	}
	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.TechniqueID != nil {
		if err := s.ensureTechnique(ctx, req.TechniqueID); err != nil {
			return nil, err
		}
		note.TechniqueID = req.TechniqueID
	}

	if err := s.repo.Update(ctx, note, req.Version); err != nil {
		return nil, writeError(err, req.Version, "progress note")
	}
	return note, nil
}

// Delete removes a note.
func (s *ProgressNoteService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "progress note")
	}
	return nil
}

func (s *ProgressNoteService) ensureTechnique(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	if _, err := s.techniques.FindByID(ctx, *id); err != nil {
		return lookupError(err, "technique")
	}
	return nil
}
