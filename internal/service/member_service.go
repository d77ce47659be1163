package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/models"
	appValidator "github.com/noah-isme/dojo-api/internal/validator"
	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
)

const defaultMemberPassword = "changeme123"

type memberRepository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User, expectedVersion *int) error
	Delete(ctx context.Context, id string) error
}

// MemberService manages the academy roster.
type MemberService struct {
	repo            memberRepository
	cache           *CacheService
	validator       *validator.Validate
	logger          *zap.Logger
	defaultPassword string
}

// NewMemberService constructs a MemberService. An empty default password falls back
// to the built-in one.
func NewMemberService(repo memberRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, defaultPassword string) *MemberService {
	if validate == nil {
		validate = appValidator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultPassword == "" {
		defaultPassword = defaultMemberPassword
	}
	return &MemberService{repo: repo, cache: cache, validator: validate, logger: logger, defaultPassword: defaultPassword}
}

// List returns every member.
func (s *MemberService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list members")
	}
	return users, nil
}

// Get returns a member by id.
func (s *MemberService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "member")
	}
	return user, nil
}

// Create adds a member with the requested role.
func (s *MemberService) Create(ctx context.Context, req dto.CreateMemberRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid member payload")
	}
	if err := s.ensureUsernameFree(ctx, req.Username, ""); err != nil {
		return nil, err
	}

	password := s.defaultPassword
	if req.Password != nil {
		password = *req.Password
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         models.UserRole(req.Role),
		JoinDate:     stringValue(req.JoinDate),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, writeError(err, nil, "member")
	}
	s.cache.Invalidate(ctx, cacheKeyReports+"*")
	return user, nil
}

// Update changes the provided member fields.
func (s *MemberService) Update(ctx context.Context, id string, req dto.UpdateMemberRequest) (*models.User, error) {
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		req.Username = &username
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appValidator.ToAppError(err, "invalid member payload")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "member")
	}
	if err := checkVersion(req.Version, user.Version); err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		if err := s.ensureUsernameFree(ctx, *req.Username, user.ID); err != nil {
			return nil, err
		}
		user.Username = *req.Username
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to hash password")
		}
		user.PasswordHash = string(hash)
	}
	if req.DisplayName != nil {
		user.DisplayName = req.DisplayName
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Role != nil {
		user.Role = models.UserRole(*req.Role)
	}
	if req.JoinDate != nil {
		user.JoinDate = *req.JoinDate
	}

	if err := s.repo.Update(ctx, user, req.Version); err != nil {
		return nil, writeError(err, req.Version, "member")
	}
	s.cache.Invalidate(ctx, cacheKeyReports+"*")
	return user, nil
}

// Delete removes a member. Members still referenced by classes, attendance or
// progress cannot be removed.
func (s *MemberService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "member")
	}
	s.cache.Invalidate(ctx, cacheKeyReports+"*")
	return nil
}

func (s *MemberService) ensureUsernameFree(ctx context.Context, username, selfID string) error {
	existing, err := s.repo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return appErrors.Internal(err, "failed to check username")
	case existing.ID != selfID:
		return appErrors.Clone(appErrors.ErrConflict, "username already exists")
	}
	return nil
}
