package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/models"
	"github.com/noah-isme/dojo-api/internal/service"
	"github.com/noah-isme/dojo-api/pkg/response"
)

// TechniqueHandler exposes the technique catalogue.
type TechniqueHandler struct {
	service *service.TechniqueService
}

// NewTechniqueHandler constructs a technique handler.
func NewTechniqueHandler(svc *service.TechniqueService) *TechniqueHandler {
	return &TechniqueHandler{service: svc}
}

// List godoc
// @Summary List techniques
// @Tags Techniques
// @Produce json
// @Param category query string false "Filter by category"
// @Param beltLevel query string false "Filter by belt level"
// @Success 200 {object} response.Envelope
// @Router /techniques [get]
func (h *TechniqueHandler) List(c *gin.Context) {
	h.list(c, models.TechniqueFilter{
		Category:  strings.TrimSpace(c.Query("category")),
		BeltLevel: strings.TrimSpace(c.Query("beltLevel")),
	})
}

// ListByCategory godoc
// @Summary List techniques of a category
// @Tags Techniques
// @Produce json
// @Param category path string true "Category"
// @Success 200 {object} response.Envelope
// @Router /techniques/category/{category} [get]
func (h *TechniqueHandler) ListByCategory(c *gin.Context) {
	h.list(c, models.TechniqueFilter{Category: c.Param("category")})
}

// ListByBelt godoc
// @Summary List techniques of a belt level
// @Tags Techniques
// @Produce json
// @Param beltLevel path string true "Belt level"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /techniques/belt/{beltLevel} [get]
func (h *TechniqueHandler) ListByBelt(c *gin.Context) {
	h.list(c, models.TechniqueFilter{BeltLevel: c.Param("beltLevel")})
}

func (h *TechniqueHandler) list(c *gin.Context, filter models.TechniqueFilter) {
	techniques, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, techniques)
}

// Get godoc
// @Summary Get technique
// @Tags Techniques
// @Produce json
// @Param id path string true "Technique ID"
// @Success 200 {object} response.Envelope
// @Router /techniques/{id} [get]
func (h *TechniqueHandler) Get(c *gin.Context) {
	technique, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, technique)
}

// Create godoc
// @Summary Create technique
// @Tags Techniques
// @Accept json
// @Produce json
// @Param payload body dto.CreateTechniqueRequest true "Technique payload"
// @Success 201 {object} response.Envelope
// @Router /techniques [post]
func (h *TechniqueHandler) Create(c *gin.Context) {
	var req dto.CreateTechniqueRequest
	if !bindJSON(c, &req) {
		return
	}
	technique, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, technique)
}

// Update godoc
// @Summary Update technique
// @Tags Techniques
// @Accept json
// @Produce json
// @Param id path string true "Technique ID"
// @Param payload body dto.UpdateTechniqueRequest true "Technique payload"
// @Success 200 {object} response.Envelope
// @Router /techniques/{id} [put]
func (h *TechniqueHandler) Update(c *gin.Context) {
	var req dto.UpdateTechniqueRequest
	if !bindJSON(c, &req) {
		return
	}
	technique, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, technique)
}

// Delete godoc
// @Summary Delete technique
// @Tags Techniques
// @Param id path string true "Technique ID"
// @Success 204 {string} string "No Content"
// @Router /techniques/{id} [delete]
func (h *TechniqueHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
