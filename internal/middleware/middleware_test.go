package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dojo-api/internal/models"
	"github.com/noah-isme/dojo-api/internal/service"
)

type userTable map[string]*models.User

func (u userTable) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range u {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (u userTable) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (u userTable) Create(ctx context.Context, user *models.User) error { return nil }

func (u userTable) Update(ctx context.Context, user *models.User, expectedVersion *int) error {
	u[user.ID] = user
	return nil
}

func (u userTable) CreateAuditLog(ctx context.Context, log *models.AuditLog) error { return nil }

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthFixture() (*service.AuthService, *SessionManager, userTable) {
	users := userTable{
		"s1": {ID: "s1", Username: "alice", Role: models.RoleStudent},
		"i1": {ID: "i1", Username: "sensei", Role: models.RoleInstructor},
	}
	auth := service.NewAuthService(users, nil, nil, nil, service.AuthConfig{TokenSecret: "secret", TokenExpiry: time.Hour})
	store := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))
	return auth, NewSessionManager(store, "test_session"), users
}

func newProtectedEngine(auth *service.AuthService, sm *SessionManager, guards ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.POST("/login/:id", func(c *gin.Context) {
		if err := sm.SignIn(c.Writer, c.Request, c.Param("id")); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	handlers := append([]gin.HandlerFunc{Authenticate(auth, sm)}, guards...)
	handlers = append(handlers, func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.String(http.StatusOK, user.ID)
	})
	engine.GET("/members/:id", handlers...)
	return engine
}

func TestAuthenticateRejectsAnonymous(t *testing.T) {
	auth, sm, _ := newAuthFixture()
	engine := newProtectedEngine(auth, sm)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/members/s1", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateWithSessionCookie(t *testing.T) {
	auth, sm, _ := newAuthFixture()
	engine := newProtectedEngine(auth, sm)

	login := httptest.NewRecorder()
	engine.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/login/s1", nil))
	require.Equal(t, http.StatusNoContent, login.Code)
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/members/s1", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", rec.Body.String())
}

func TestAuthenticateWithBearerToken(t *testing.T) {
	auth, sm, users := newAuthFixture()
	engine := newProtectedEngine(auth, sm)
	res, err := auth.BecomeAdmin(context.Background(), "s1", models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, users["s1"].Role)

	req := httptest.NewRequest(http.MethodGet, "/members/s1", nil)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/members/s1", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSelfOrStaff(t *testing.T) {
	auth, sm, _ := newAuthFixture()
	engine := newProtectedEngine(auth, sm, SelfOrStaff())

	cases := []struct {
		name   string
		caller string
		target string
		status int
	}{
		{name: "student reads self", caller: "s1", target: "s1", status: http.StatusOK},
		{name: "student reads other", caller: "s1", target: "i1", status: http.StatusForbidden},
		{name: "instructor reads student", caller: "i1", target: "s1", status: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			login := httptest.NewRecorder()
			engine.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/login/"+tc.caller, nil))
			req := httptest.NewRequest(http.MethodGet, "/members/"+tc.target, nil)
			for _, ck := range login.Result().Cookies() {
				req.AddCookie(ck)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRequireStaffForbidsStudent(t *testing.T) {
	auth, sm, _ := newAuthFixture()
	engine := newProtectedEngine(auth, sm, RequireStaff())

	login := httptest.NewRecorder()
	engine.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/login/s1", nil))
	req := httptest.NewRequest(http.MethodGet, "/members/s1", nil)
	for _, ck := range login.Result().Cookies() {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
