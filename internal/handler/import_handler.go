package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/curriculum-api/internal/models"
	appErrors "github.com/noah-isme/curriculum-api/pkg/errors"
	"github.com/noah-isme/curriculum-api/pkg/response"
)

type importService interface {
	Import(ctx context.Context, r io.Reader, filename string) (*models.ImportResult, error)
}

// ImportHandler accepts tabular subject uploads.
type ImportHandler struct {
	service importService
}

// NewImportHandler constructs an import handler.
func NewImportHandler(svc importService) *ImportHandler {
	return &ImportHandler{service: svc}
}

// Subjects godoc
// @Summary Import subjects
// @Description Reconciles a CSV, TSV or XLSX subject sheet into programs, plans and categories. The run is all or nothing.
// @Tags Imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Subject sheet"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /imports/subjects [post]
func (h *ImportHandler) Subjects(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to open upload"))
		return
	}
	defer file.Close()

	result, err := h.service.Import(c.Request.Context(), file, header.Filename)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
