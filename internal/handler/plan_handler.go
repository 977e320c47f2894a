package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/curriculum-api/internal/dto"
	"github.com/noah-isme/curriculum-api/internal/models"
	"github.com/noah-isme/curriculum-api/internal/service"
	appErrors "github.com/noah-isme/curriculum-api/pkg/errors"
	"github.com/noah-isme/curriculum-api/pkg/response"
)

type planService interface {
	CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.CreatePlanResponse, error)
	HidePlan(ctx context.Context, planID int64) error
	CreditSummary(ctx context.Context, planID int64) (*models.CreditSummary, error)
}

type planExporter interface {
	ExportPlan(ctx context.Context, planID int64, format string) (*service.ExportFile, error)
}

// PlanHandler handles study plan endpoints.
type PlanHandler struct {
	service  planService
	exporter planExporter
}

// NewPlanHandler constructs a plan handler.
func NewPlanHandler(svc planService, exporter planExporter) *PlanHandler {
	return &PlanHandler{service: svc, exporter: exporter}
}

// Create godoc
// @Summary Create study plan
// @Tags CoursePlans
// @Accept json
// @Produce json
// @Param payload body dto.CreatePlanRequest true "Plan payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /course-plans [post]
func (h *PlanHandler) Create(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	resp, err := h.service.CreatePlan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// Hide godoc
// @Summary Hide study plan
// @Tags CoursePlans
// @Param id path int true "Plan ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /course-plans/{id}/hide [patch]
func (h *PlanHandler) Hide(c *gin.Context) {
	planID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.HidePlan(c.Request.Context(), planID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Credits godoc
// @Summary Credit requirements of a plan
// @Tags CoursePlans
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /course-plans/{id}/credits [get]
func (h *PlanHandler) Credits(c *gin.Context) {
	planID, ok := pathID(c)
	if !ok {
		return
	}
	summary, err := h.service.CreditSummary(c.Request.Context(), planID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// Export godoc
// @Summary Export plan subjects
// @Tags CoursePlans
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Plan ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 412 {object} response.Envelope
// @Router /course-plans/{id}/export [get]
func (h *PlanHandler) Export(c *gin.Context) {
	planID, ok := pathID(c)
	if !ok {
		return
	}
	file, err := h.exporter.ExportPlan(c.Request.Context(), planID, c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
