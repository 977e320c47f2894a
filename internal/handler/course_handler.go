package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/curriculum-api/internal/dto"
	"github.com/noah-isme/curriculum-api/internal/models"
	"github.com/noah-isme/curriculum-api/internal/service"
	appErrors "github.com/noah-isme/curriculum-api/pkg/errors"
	"github.com/noah-isme/curriculum-api/pkg/response"
)

type courseService interface {
	CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*dto.CreateCourseResponse, error)
	AppendCategories(ctx context.Context, courseID int64, req dto.AppendCategoriesRequest) ([]dto.CreatedCategory, error)
	CategoryTree(ctx context.Context, courseID int64) ([]*models.CategoryTreeNode, error)
}

// CourseHandler handles program and category endpoints.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(svc courseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// Create godoc
// @Summary Create program
// @Description Creates a program with either a nested category tree or catalog category keys.
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.CreateCourseRequest true "Program payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	resp, err := h.service.CreateCourse(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// AppendCategories godoc
// @Summary Append categories
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param payload body dto.AppendCategoriesRequest true "Category tree"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /courses/{id}/categories [post]
func (h *CourseHandler) AppendCategories(c *gin.Context) {
	courseID, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AppendCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	created, err := h.service.AppendCategories(c.Request.Context(), courseID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Categories godoc
// @Summary Category tree of a program
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/categories [get]
func (h *CourseHandler) Categories(c *gin.Context) {
	courseID, ok := pathID(c)
	if !ok {
		return
	}
	tree, err := h.service.CategoryTree(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tree)
}

// Catalog godoc
// @Summary Checkbox category catalog
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /categories/catalog [get]
func (h *CourseHandler) Catalog(c *gin.Context) {
	response.JSON(c, http.StatusOK, service.CategoryCatalog())
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id must be a positive integer"))
		return 0, false
	}
	return id, true
}
