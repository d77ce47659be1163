package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dojo-api/internal/models"
	"github.com/noah-isme/dojo-api/internal/service"
	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
	"github.com/noah-isme/dojo-api/pkg/logger"
	"github.com/noah-isme/dojo-api/pkg/response"
)

// ContextUserKey is the gin context key storing the authenticated *models.User.
const ContextUserKey = "currentUser"

// Authenticate resolves the caller from the session cookie or a bearer token and
// reloads the user row on every request.
func Authenticate(authService *service.AuthService, sessions *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := resolveUserID(c, authService, sessions)
		if err != nil {
			response.Abort(c, err)
			return
		}
		if userID == "" {
			response.Abort(c, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required"))
			return
		}

		user, err := authService.CurrentUser(c.Request.Context(), userID)
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(ContextUserKey, user)
		logger.SetUser(c, user.ID, string(user.Role))
		c.Next()
	}
}

func resolveUserID(c *gin.Context, authService *service.AuthService, sessions *SessionManager) (string, error) {
	if id := sessions.UserID(c.Request); id != "" {
		return id, nil
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return "", nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
	}
	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// CurrentUser returns the authenticated user stored by Authenticate.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}
