package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/models"
	"github.com/noah-isme/dojo-api/internal/service"
	appValidator "github.com/noah-isme/dojo-api/internal/validator"
	"github.com/noah-isme/dojo-api/pkg/response"
)

type reportService interface {
	Summary(ctx context.Context) (*models.SummaryReport, error)
	Attendance(ctx context.Context, query dto.ReportRangeQuery) (*models.AttendanceReport, error)
	ExportAttendance(ctx context.Context, query dto.ExportQuery) (*service.ExportFile, error)
}

// ReportHandler exposes reporting endpoints.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(svc reportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Summary godoc
// @Summary Academy summary
// @Description Member counts by role, classes, sessions in the next 7 days, belt distribution and attendance totals
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// Attendance godoc
// @Summary Attendance per class
// @Tags Reports
// @Produce json
// @Param startDate query string false "Range start (YYYY-MM-DD)"
// @Param endDate query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports/attendance [get]
func (h *ReportHandler) Attendance(c *gin.Context) {
	var query dto.ReportRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appValidator.FromBindError(err))
		return
	}
	report, err := h.service.Attendance(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// ExportAttendance godoc
// @Summary Download the attendance report
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param startDate query string false "Range start (YYYY-MM-DD)"
// @Param endDate query string false "Range end (YYYY-MM-DD)"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /reports/attendance/export [get]
func (h *ReportHandler) ExportAttendance(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appValidator.FromBindError(err))
		return
	}
	file, err := h.service.ExportAttendance(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
