package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/models"
	appValidator "github.com/noah-isme/dojo-api/internal/validator"
	"github.com/noah-isme/dojo-api/pkg/response"
)

type sessionService interface {
	List(ctx context.Context) ([]models.SessionWithClass, error)
	ListByDateRange(ctx context.Context, query dto.SessionRangeQuery) ([]models.ClassSession, error)
	ListByClass(ctx context.Context, classID string) ([]models.ClassSession, error)
	Get(ctx context.Context, id string) (*models.ClassSession, error)
	Create(ctx context.Context, req dto.CreateSessionRequest) ([]models.ClassSession, error)
	Update(ctx context.Context, id string, req dto.UpdateSessionRequest) (*models.ClassSession, error)
	Delete(ctx context.Context, id string, cascade bool) error
}

// SessionHandler exposes scheduled class sessions.
type SessionHandler struct {
	service sessionService
}

// NewSessionHandler constructs a session handler.
func NewSessionHandler(svc sessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// List godoc
// @Summary List sessions
// @Description Without a range every session is returned with its class title, type and level.
// @Tags Sessions
// @Produce json
// @Param startDate query string false "Range start (YYYY-MM-DD)"
// @Param endDate query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	_, hasStart := c.GetQuery("startDate")
	_, hasEnd := c.GetQuery("endDate")
	if hasStart || hasEnd {
		var query dto.SessionRangeQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			response.Error(c, appValidator.FromBindError(err))
			return
		}
		sessions, err := h.service.ListByDateRange(c.Request.Context(), query)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, sessions)
		return
	}

	sessions, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions)
}

// ListByClass godoc
// @Summary List sessions of a class
// @Tags Sessions
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{id}/sessions [get]
func (h *SessionHandler) ListByClass(c *gin.Context) {
	sessions, err := h.service.ListByClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions)
}

// Get godoc
// @Summary Get session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// Create godoc
// @Summary Schedule a session
// @Description A recurring request creates one session per matching weekday and returns the array.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.CreateSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	h.create(c, req)
}

// CreateForClass godoc
// @Summary Schedule a session for a class
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body dto.CreateSessionRequest true "Session payload, classId is taken from the path"
// @Success 201 {object} response.Envelope
// @Router /classes/{id}/sessions [post]
func (h *SessionHandler) CreateForClass(c *gin.Context) {
	var req dto.CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ClassID = c.Param("id")
	h.create(c, req)
}

func (h *SessionHandler) create(c *gin.Context, req dto.CreateSessionRequest) {
	sessions, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if req.IsRecurring {
		response.Created(c, sessions)
		return
	}
	response.Created(c, sessions[0])
}

// Update godoc
// @Summary Update session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.UpdateSessionRequest true "Session payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sessions/{id} [put]
func (h *SessionHandler) Update(c *gin.Context) {
	var req dto.UpdateSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// Delete godoc
// @Summary Delete session
// @Description Rejected with 412 while attendance exists unless cascade=true
// @Tags Sessions
// @Param id path string true "Session ID"
// @Param cascade query bool false "Also delete attendance records"
// @Success 204 {string} string "No Content"
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), cascadeParam(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
