package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/models"
	appValidator "github.com/noah-isme/dojo-api/internal/validator"
	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
)

type mockAuthRepo struct {
	users     map[string]*models.User
	updateErr error
	auditLogs []*models.AuditLog
}

func newMockAuthRepo(users ...*models.User) *mockAuthRepo {
	repo := &mockAuthRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (m *mockAuthRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.NewString()
	user.Version = 1
	m.users[user.ID] = user
	return nil
}

func (m *mockAuthRepo) Update(ctx context.Context, user *models.User, expectedVersion *int) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	user.Version++
	m.users[user.ID] = user
	return nil
}

func (m *mockAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func newTestAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, appValidator.New(), zap.NewNop(), nil, AuthConfig{TokenSecret: "secret", TokenExpiry: time.Hour, Issuer: "test"})
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthServiceRegisterCreatesStudent(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newTestAuthService(repo)

	res, err := svc.Register(context.Background(), dto.RegisterRequest{Username: "alice", Password: "secret1"}, models.RequestMeta{IP: "127.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, res.User.Role)
	assert.NotEmpty(t, res.Token)
	assert.NotEqual(t, "secret1", res.User.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("secret1")))
	assert.Equal(t, int64(3600), res.ExpiresIn)
}

func TestAuthServiceRegisterRejectsStaffRole(t *testing.T) {
	svc := newTestAuthService(newMockAuthRepo())
	role := "admin"

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Username: "mallory", Password: "secret1", Role: &role}, models.RequestMeta{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "role", appErr.Details[0].Field)
}

func TestAuthServiceRegisterDuplicateUsername(t *testing.T) {
	repo := newMockAuthRepo(&models.User{ID: "u1", Username: "alice"})
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Username: "alice", Password: "secret1"}, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLogin(t *testing.T) {
	repo := newMockAuthRepo(&models.User{ID: "u1", Username: "alice", PasswordHash: hashed(t, "secret1"), Role: models.RoleStudent})
	svc := newTestAuthService(repo)

	res, err := svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "secret1"}, models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "u1", res.User.ID)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionLogin, repo.auditLogs[0].Action)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "wrong"}, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "nobody", Password: "secret1"}, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceBecomeAdmin(t *testing.T) {
	repo := newMockAuthRepo(&models.User{ID: "u1", Username: "alice", Role: models.RoleStudent, Version: 1})
	svc := newTestAuthService(repo)

	res, err := svc.BecomeAdmin(context.Background(), "u1", models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.User.Role)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	user, err := svc.CurrentUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionBecomeAdmin, repo.auditLogs[0].Action)
}

func TestAuthServiceCurrentUserMissing(t *testing.T) {
	svc := newTestAuthService(newMockAuthRepo())

	_, err := svc.CurrentUser(context.Background(), "gone")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateToken(t *testing.T) {
	svc := newTestAuthService(newMockAuthRepo())
	user := &models.User{ID: "u1", Username: "alice", Role: models.RoleInstructor}
	token, _, err := svc.generateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	other := NewAuthService(newMockAuthRepo(), nil, nil, nil, AuthConfig{TokenSecret: "different"})
	_, err = other.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
