package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/curriculum-api/internal/dto"
	"github.com/noah-isme/curriculum-api/internal/models"
	appErrors "github.com/noah-isme/curriculum-api/pkg/errors"
	"github.com/noah-isme/curriculum-api/pkg/response"
)

type subjectService interface {
	UpdateSubject(ctx context.Context, id int64, req dto.UpdateSubjectRequest) (*models.Subject, error)
	AssignSubject(ctx context.Context, req dto.AssignSubjectRequest) (*models.SubjectAssignment, error)
	RemoveAssignment(ctx context.Context, id int64) error
	CreatePrerequisite(ctx context.Context, req dto.PrerequisiteRequest) (*models.Prerequisite, error)
	UpdatePrerequisite(ctx context.Context, req dto.UpdatePrerequisiteRequest) (*models.Prerequisite, error)
	DeletePrerequisite(ctx context.Context, req dto.PrerequisiteRequest) error
}

// SubjectHandler handles single-subject edits, placements and prerequisite links.
type SubjectHandler struct {
	service subjectService
}

// NewSubjectHandler constructs a subject handler.
func NewSubjectHandler(svc subjectService) *SubjectHandler {
	return &SubjectHandler{service: svc}
}

// Update godoc
// @Summary Update subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path int true "Subject ID"
// @Param payload body dto.UpdateSubjectRequest true "Subject payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /subjects/{id} [put]
func (h *SubjectHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateSubjectRequest
	if !bindJSON(c, &req) {
		return
	}
	subject, err := h.service.UpdateSubject(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject)
}

// Assign godoc
// @Summary Place subject in plan
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body dto.AssignSubjectRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /subject-assignments [post]
func (h *SubjectHandler) Assign(c *gin.Context) {
	var req dto.AssignSubjectRequest
	if !bindJSON(c, &req) {
		return
	}
	assignment, err := h.service.AssignSubject(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Unassign godoc
// @Summary Remove subject from plan
// @Tags Subjects
// @Param id path int true "Assignment ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /subject-assignments/{id} [delete]
func (h *SubjectHandler) Unassign(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.RemoveAssignment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreatePrerequisite godoc
// @Summary Create prerequisite link
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body dto.PrerequisiteRequest true "Link payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /prerequisites [post]
func (h *SubjectHandler) CreatePrerequisite(c *gin.Context) {
	var req dto.PrerequisiteRequest
	if !bindJSON(c, &req) {
		return
	}
	link, err := h.service.CreatePrerequisite(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, link)
}

// UpdatePrerequisite godoc
// @Summary Move prerequisite link
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body dto.UpdatePrerequisiteRequest true "Original and new link"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /prerequisites [put]
func (h *SubjectHandler) UpdatePrerequisite(c *gin.Context) {
	var req dto.UpdatePrerequisiteRequest
	if !bindJSON(c, &req) {
		return
	}
	link, err := h.service.UpdatePrerequisite(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link)
}

// DeletePrerequisite godoc
// @Summary Delete prerequisite link
// @Tags Subjects
// @Param subject_id query int true "Subject ID"
// @Param previous_subject_id query int true "Prerequisite subject ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /prerequisites [delete]
func (h *SubjectHandler) DeletePrerequisite(c *gin.Context) {
	subjectID, err1 := strconv.ParseInt(c.Query("subject_id"), 10, 64)
	previousID, err2 := strconv.ParseInt(c.Query("previous_subject_id"), 10, 64)
	if err1 != nil || err2 != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "subject_id and previous_subject_id must be integers"))
		return
	}
	req := dto.PrerequisiteRequest{SubjectID: subjectID, PreviousSubjectID: previousID}
	if err := h.service.DeletePrerequisite(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}
