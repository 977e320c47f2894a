package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/curriculum-api/internal/dto"
	"github.com/noah-isme/curriculum-api/internal/models"
	appErrors "github.com/noah-isme/curriculum-api/pkg/errors"
)

type courseStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Course, error)
}

type categoryStore interface {
	categoryWriter
	ListByCourse(ctx context.Context, exec sqlx.ExtContext, courseID int64) ([]models.SubjectCategory, error)
}

// CourseService creates programs and their category structures.
type CourseService struct {
	uow        unitOfWork
	courses    courseStore
	categories categoryStore
	builder    *CategoryTreeBuilder
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewCourseService constructs the service.
func NewCourseService(uow unitOfWork, courses courseStore, categories categoryStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		uow:        uow,
		courses:    courses,
		categories: categories,
		builder:    NewCategoryTreeBuilder(categories),
		cache:      cache,
		validator:  validate,
		logger:     logger,
	}
}

// CreateCourse inserts a program and its categories in one transaction. Categories come
// either from a nested tree or from catalog checkbox keys, never both.
func (s *CourseService) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*dto.CreateCourseResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if strings.TrimSpace(req.NameCourseTH) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name_course_th is required")
	}
	if len(req.Categories) > 0 && len(req.CategoryKeys) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "provide either categories or category_keys, not both")
	}
	if err := ValidateTree(req.Categories); err != nil {
		return nil, err
	}

	course := &models.Course{
		NameCourseTH:          strings.TrimSpace(req.NameCourseTH),
		NameCourseUse:         optional(req.NameCourseUse),
		NameCourseEng:         optional(req.NameCourseEng),
		NameFullDegreeTH:      optional(req.NameFullDegreeTH),
		NameFullDegreeEng:     optional(req.NameFullDegreeEng),
		NameInitialsDegreeTH:  optional(req.NameInitialsDegreeTH),
		NameInitialsDegreeEng: optional(req.NameInitialsDegreeEng),
		DepartmentID:          req.DepartmentID,
	}

	resp := &dto.CreateCourseResponse{}
	err := s.uow.WithinTransaction(ctx, func(exec sqlx.ExtContext) error {
		if err := s.courses.Create(ctx, exec, course); err != nil {
			return err
		}
		var err error
		if len(req.CategoryKeys) > 0 {
			resp.Categories, resp.Skipped, err = s.builder.BuildCatalog(ctx, exec, course.ID, req.CategoryKeys)
		} else {
			resp.Categories, err = s.builder.BuildTree(ctx, exec, course.ID, req.Categories)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	resp.CourseID = course.ID
	s.logger.Info("course created",
		zap.Int64("course_id", course.ID),
		zap.Int("categories", len(resp.Categories)),
		zap.Strings("skipped_keys", resp.Skipped),
	)
	return resp, nil
}

// AppendCategories adds a category tree to an existing program. Roots that already exist
// at level 1, and names repeated under one parent, are rejected as duplicates.
func (s *CourseService) AppendCategories(ctx context.Context, courseID int64, req dto.AppendCategoriesRequest) ([]dto.CreatedCategory, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid category payload")
	}

	var created []dto.CreatedCategory
	err := s.uow.WithinTransaction(ctx, func(exec sqlx.ExtContext) error {
		if _, err := s.courses.FindByID(ctx, exec, courseID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "course not found")
			}
			return err
		}
		existing, err := s.categories.ListByCourse(ctx, exec, courseID)
		if err != nil {
			return err
		}
		if err := ValidateAppend(req.Categories, existing); err != nil {
			return err
		}
		created, err = s.builder.BuildTree(ctx, exec, courseID, req.Categories)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, courseCategoriesKey(courseID))
	s.logger.Info("categories appended", zap.Int64("course_id", courseID), zap.Int("categories", len(created)))
	return created, nil
}

// CategoryTree returns the nested categories of a program.
func (s *CourseService) CategoryTree(ctx context.Context, courseID int64) ([]*models.CategoryTreeNode, error) {
	key := courseCategoriesKey(courseID)
	var cached []*models.CategoryTreeNode
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	if _, err := s.courses.FindByID(ctx, nil, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, ClassifyStoreError(err, "failed to load course")
	}
	categories, err := s.categories.ListByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, ClassifyStoreError(err, fmt.Sprintf("failed to list categories of course %d", courseID))
	}

	tree := models.BuildCategoryTree(categories)
	s.cache.Set(ctx, key, tree, 0)
	return tree, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
