package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/middleware"
	"github.com/noah-isme/dojo-api/internal/models"
	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
)

type authServiceStub struct {
	result     *models.AuthResult
	err        error
	lastLogin  dto.LoginRequest
	lastMeta   models.RequestMeta
	loggedOut  []string
	promotedID string
}

func (s *authServiceStub) Register(_ context.Context, _ dto.RegisterRequest, meta models.RequestMeta) (*models.AuthResult, error) {
	s.lastMeta = meta
	return s.result, s.err
}

func (s *authServiceStub) Login(_ context.Context, req dto.LoginRequest, meta models.RequestMeta) (*models.AuthResult, error) {
	s.lastLogin = req
	s.lastMeta = meta
	return s.result, s.err
}

func (s *authServiceStub) Logout(_ context.Context, userID string, _ models.RequestMeta) {
	s.loggedOut = append(s.loggedOut, userID)
}

func (s *authServiceStub) BecomeAdmin(_ context.Context, userID string, _ models.RequestMeta) (*models.AuthResult, error) {
	s.promotedID = userID
	return s.result, s.err
}

func newTestSessions() *middleware.SessionManager {
	store := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))
	store.Options = &sessions.Options{Path: "/", MaxAge: 3600, HttpOnly: true}
	return middleware.NewSessionManager(store, "dojo_session")
}

func TestAuthHandlerLoginStartsSession(t *testing.T) {
	svc := &authServiceStub{result: &models.AuthResult{
		User:  &models.User{ID: "user-1", Username: "alice", Role: models.RoleStudent},
		Token: "token",
	}}
	sm := newTestSessions()
	h := NewAuthHandler(svc, sm)

	c, w := newGinContext(http.MethodPost, "/api/login", []byte(`{"username":"alice","password":"secret1"}`))
	c.Request.Header.Set("User-Agent", "unit-test")

	h.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", svc.lastLogin.Username)
	assert.Equal(t, "unit-test", svc.lastMeta.UserAgent)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "dojo_session", cookies[0].Name)

	followUp := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	followUp.AddCookie(cookies[0])
	assert.Equal(t, "user-1", sm.UserID(followUp))

	var body struct {
		Data models.AuthResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "token", body.Data.Token)
}

func TestAuthHandlerLoginFailureSetsNoCookie(t *testing.T) {
	svc := &authServiceStub{err: appErrors.ErrInvalidCredentials}
	h := NewAuthHandler(svc, newTestSessions())

	c, w := newGinContext(http.MethodPost, "/api/login", []byte(`{"username":"alice","password":"wrong"}`))
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestAuthHandlerRegisterReturnsCreated(t *testing.T) {
	svc := &authServiceStub{result: &models.AuthResult{User: &models.User{ID: "user-2", Username: "bob"}}}
	h := NewAuthHandler(svc, newTestSessions())

	c, w := newGinContext(http.MethodPost, "/api/register", []byte(`{"username":"bob","password":"secret1"}`))
	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, w.Result().Cookies(), 1)
}

func TestAuthHandlerRegisterMalformedBody(t *testing.T) {
	h := NewAuthHandler(&authServiceStub{}, newTestSessions())

	c, w := newGinContext(http.MethodPost, "/api/register", []byte(`{"username":`))
	h.Register(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestAuthHandlerLogoutExpiresCookie(t *testing.T) {
	svc := &authServiceStub{}
	sm := newTestSessions()
	h := NewAuthHandler(svc, sm)

	login := httptest.NewRecorder()
	loginReq := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	require.NoError(t, sm.SignIn(login, loginReq, "user-1"))
	cookie := login.Result().Cookies()[0]

	c, w := newGinContext(http.MethodPost, "/api/logout", nil)
	c.Request.AddCookie(cookie)
	h.Logout(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"user-1"}, svc.loggedOut)
	header := w.Header().Get("Set-Cookie")
	assert.True(t, strings.Contains(header, "Max-Age=0"), header)
}

func TestAuthHandlerLogoutAnonymous(t *testing.T) {
	svc := &authServiceStub{}
	h := NewAuthHandler(svc, newTestSessions())

	c, w := newGinContext(http.MethodPost, "/api/logout", nil)
	h.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, svc.loggedOut)
}

func TestAuthHandlerUserRequiresAuthentication(t *testing.T) {
	h := NewAuthHandler(&authServiceStub{}, newTestSessions())

	c, w := newGinContext(http.MethodGet, "/api/user", nil)
	h.User(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newGinContext(http.MethodGet, "/api/user", nil)
	withUser(c, &models.User{ID: "user-1", Username: "alice"})
	h.User(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
}

func TestAuthHandlerBecomeAdmin(t *testing.T) {
	svc := &authServiceStub{result: &models.AuthResult{
		User:  &models.User{ID: "user-1", Role: models.RoleAdmin},
		Token: "fresh",
	}}
	h := NewAuthHandler(svc, newTestSessions())

	c, w := newGinContext(http.MethodPost, "/api/become-admin", nil)
	withUser(c, &models.User{ID: "user-1", Role: models.RoleStudent})
	h.BecomeAdmin(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", svc.promotedID)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
	assert.Len(t, w.Result().Cookies(), 1)
}
