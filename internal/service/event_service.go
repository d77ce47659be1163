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

type eventRepository interface {
	List(ctx context.Context) ([]models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event, expectedVersion *int) error
	Delete(ctx context.Context, id string) error
}

// EventService publishes academy events.
type EventService struct {
	repo      eventRepository
	users     userFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService constructs an EventService.
func NewEventService(repo eventRepository, users userFinder, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = appValidator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, users: users, validator: validate, logger: logger}
}

// List returns every event ordered by date.
func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list events")
	}
	return events, nil
}

// Get returns an event by id.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "event")
	}
	return event, nil
}

// Create publishes an event on behalf of the caller.
func (s *EventService) Create(ctx context.Context, createdBy string, req dto.CreateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid event payload")
	}
	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if err := s.ensureInstructor(ctx, req.InstructorID); err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:                req.Title,
		Description:          req.Description,
		EventType:            req.EventType,
		Date:                 req.Date,
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		Location:             req.Location,
		MaxAttendees:         req.MaxAttendees,
		RegistrationRequired: req.RegistrationRequired,
		InstructorID:         req.InstructorID,
		ExternalLink:         req.ExternalLink,
		Cost:                 req.Cost,
		CreatedBy:            createdBy,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, writeError(err, nil, "event")
	}
	return event, nil
}

// Update changes the provided event fields.
func (s *EventService) Update(ctx context.Context, id string, req dto.UpdateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid event payload")
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "event")
	}
	if err := checkVersion(req.Version, event.Version); err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.EventType != nil {
		event.EventType = *req.EventType
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = *req.EndTime
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.MaxAttendees != nil {
		event.MaxAttendees = req.MaxAttendees
	}
	if req.RegistrationRequired != nil {
		event.RegistrationRequired = *req.RegistrationRequired
	}
	if req.InstructorID != nil {
		if err := s.ensureInstructor(ctx, req.InstructorID); err != nil {
			return nil, err
		}
		event.InstructorID = req.InstructorID
	}
	if req.ExternalLink != nil {
		event.ExternalLink = req.ExternalLink
	}
	if req.Cost != nil {
		event.Cost = req.Cost
	}
	if err := validateTimeRange(event.StartTime, event.EndTime); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, event, req.Version); err != nil {
		return nil, writeError(err, req.Version, "event")
	}
	return event, nil
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "event")
	}
	return nil
}

func (s *EventService) ensureInstructor(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	if _, err := s.users.FindByID(ctx, *id); err != nil {
		return lookupError(err, "instructor")
	}
	return nil
}
