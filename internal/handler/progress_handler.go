package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/service"
	"github.com/noah-isme/dojo-api/pkg/response"
)

// ProgressHandler exposes belt progress and instructor notes.
type ProgressHandler struct {
	progress *service.ProgressService
	notes    *service.ProgressNoteService
}

// NewProgressHandler constructs a progress handler.
func NewProgressHandler(progress *service.ProgressService, notes *service.ProgressNoteService) *ProgressHandler {
	return &ProgressHandler{progress: progress, notes: notes}
}

// GetByStudent godoc
// @Summary Belt progress of a student
// @Tags Progress
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/progress [get]
func (h *ProgressHandler) GetByStudent(c *gin.Context) {
	progress, err := h.progress.GetByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress)
}

// Create godoc
// @Summary Open the belt record of a student
// @Tags Progress
// @Accept json
// @Produce json
// @Param payload body dto.CreateProgressRequest true "Progress payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /progress [post]
func (h *ProgressHandler) Create(c *gin.Context) {
	var req dto.CreateProgressRequest
	if !bindJSON(c, &req) {
		return
	}
	progress, err := h.progress.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, progress)
}

// Update godoc
// @Summary Update belt progress
// @Tags Progress
// @Accept json
// @Produce json
// @Param id path string true "Progress ID"
// @Param payload body dto.UpdateProgressRequest true "Progress payload"
// @Success 200 {object} response.Envelope
// @Router /progress/{id} [put]
func (h *ProgressHandler) Update(c *gin.Context) {
	var req dto.UpdateProgressRequest
	if !bindJSON(c, &req) {
		return
	}
	progress, err := h.progress.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress)
}

// ListNotes godoc
// @Summary Progress notes of a member
// @Tags Progress
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} response.Envelope
// @Router /members/{id}/progress [get]
func (h *ProgressHandler) ListNotes(c *gin.Context) {
	notes, err := h.notes.ListByMember(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notes)
}

// CreateNote godoc
// @Summary Add a progress note
// @Description The caller is recorded as the note author
// @Tags Progress
// @Accept json
// @Produce json
// @Param payload body dto.CreateProgressNoteRequest true "Note payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /progress-notes [post]
func (h *ProgressHandler) CreateNote(c *gin.Context) {
	user, ok := userFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateProgressNoteRequest
	if !bindJSON(c, &req) {
		return
	}
	note, err := h.notes.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, note)
}

// UpdateNote godoc
// @Summary Update a progress note
// @Tags Progress
// @Accept json
// @Produce json
// @Param id path string true "Note ID"
// @Param payload body dto.UpdateProgressNoteRequest true "Note payload"
// @Success 200 {object} response.Envelope
// @Router /progress-notes/{id} [put]
func (h *ProgressHandler) UpdateNote(c *gin.Context) {
	var req dto.UpdateProgressNoteRequest
	if !bindJSON(c, &req) {
		return
	}
	note, err := h.notes.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, note)
}

// DeleteNote godoc
// @Summary Delete a progress note
// @Tags Progress
// @Param id path string true "Note ID"
// @Success 204 {string} string "No Content"
// @Router /progress-notes/{id} [delete]
func (h *ProgressHandler) DeleteNote(c *gin.Context) {
	if err := h.notes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
