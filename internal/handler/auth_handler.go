package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/middleware"
	"github.com/noah-isme/dojo-api/internal/models"
	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
	"github.com/noah-isme/dojo-api/pkg/response"
)

type authService interface {
	Register(ctx context.Context, req dto.RegisterRequest, meta models.RequestMeta) (*models.AuthResult, error)
	Login(ctx context.Context, req dto.LoginRequest, meta models.RequestMeta) (*models.AuthResult, error)
	Logout(ctx context.Context, userID string, meta models.RequestMeta)
	BecomeAdmin(ctx context.Context, userID string, meta models.RequestMeta) (*models.AuthResult, error)
}

// AuthHandler wires HTTP endpoints to the auth service and the login session.
type AuthHandler struct {
	service  authService
	sessions *middleware.SessionManager
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, sessions *middleware.SessionManager) *AuthHandler {
	return &AuthHandler{service: svc, sessions: sessions}
}

// Register godoc
// @Summary Register a student account
// @Description Creates the account and signs it in
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.service.Register(c.Request.Context(), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.signIn(c, res.User.ID) {
		return
	}
	response.Created(c, res)
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate user by username and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.service.Login(c.Request.Context(), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.signIn(c, res.User.ID) {
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Logout godoc
// @Summary Logout
// @Description Ends the login session. Succeeds for anonymous callers.
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := h.sessions.UserID(c.Request)
	if err := h.sessions.SignOut(c.Writer, c.Request); err != nil {
		response.Error(c, appErrors.Internal(err, "failed to end session"))
		return
	}
	if userID != "" {
		h.service.Logout(c.Request.Context(), userID, requestMeta(c))
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "logged out"})
}

// User godoc
// @Summary Current user
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /user [get]
func (h *AuthHandler) User(c *gin.Context) {
	user, ok := userFromContext(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, user)
}

// BecomeAdmin godoc
// @Summary Promote the caller to admin
// @Description Development helper that flips the caller's role and renews the session
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /become-admin [post]
func (h *AuthHandler) BecomeAdmin(c *gin.Context) {
	user, ok := userFromContext(c)
	if !ok {
		return
	}
	res, err := h.service.BecomeAdmin(c.Request.Context(), user.ID, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.signIn(c, res.User.ID) {
		return
	}
	response.JSON(c, http.StatusOK, res)
}

func (h *AuthHandler) signIn(c *gin.Context, userID string) bool {
	if err := h.sessions.SignIn(c.Writer, c.Request, userID); err != nil {
		response.Error(c, appErrors.Internal(err, "failed to start session"))
		return false
	}
	return true
}
