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

type courseFinder interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Course, error)
}

type categoryLister interface {
	ListByCourse(ctx context.Context, exec sqlx.ExtContext, courseID int64) ([]models.SubjectCategory, error)
}

type planStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, plan *models.CoursePlan) error
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.CoursePlan, error)
	Hide(ctx context.Context, exec sqlx.ExtContext, id int64) error
}

type requirementReader interface {
	ListDetailsByPlan(ctx context.Context, exec sqlx.ExtContext, planID int64) ([]models.CreditRequirementDetail, error)
}

// PlanRepositories groups the stores used by PlanService.
type PlanRepositories struct {
	Courses      courseFinder
	Categories   categoryLister
	Plans        planStore
	Requirements interface {
		creditRequirementWriter
		requirementReader
	}
}

// PlanService manages study plans and their credit requirements.
type PlanService struct {
	uow        unitOfWork
	repos      PlanRepositories
	aggregator *CreditAggregator
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewPlanService constructs the service.
func NewPlanService(uow unitOfWork, repos PlanRepositories, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *PlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{
		uow:        uow,
		repos:      repos,
		aggregator: NewCreditAggregator(repos.Requirements),
		cache:      cache,
		validator:  validate,
		logger:     logger,
	}
}

// CreatePlan inserts a plan and its credit requirements atomically. Every credited category
// must belong to the plan's program.
func (s *PlanService) CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.CreatePlanResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan payload")
	}
	label := strings.TrimSpace(req.PlanCourse)
	if label == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "plan_course is required")
	}
	credits := make(map[int64]int, len(req.Credits))
	for _, c := range req.Credits {
		if _, dup := credits[c.CategoryID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("category %d is credited twice", c.CategoryID))
		}
		credits[c.CategoryID] = c.Credit
	}

	plan := &models.CoursePlan{
		CourseID:              req.CourseID,
		PlanCourse:            label,
		TotalCredit:           req.TotalCredit,
		GeneralSubjectCredit:  req.GeneralSubjectCredit,
		SpecificSubjectCredit: req.SpecificSubjectCredit,
		FreeSubjectCredit:     req.FreeSubjectCredit,
		InternshipHours:       req.InternshipHours,
		CreditIntern:          req.CreditIntern,
	}

	resp := &dto.CreatePlanResponse{}
	err := s.uow.WithinTransaction(ctx, func(exec sqlx.ExtContext) error {
		if _, err := s.repos.Courses.FindByID(ctx, exec, req.CourseID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrResolution, fmt.Sprintf("program %d not found", req.CourseID))
			}
			return err
		}
		categories, err := s.repos.Categories.ListByCourse(ctx, exec, req.CourseID)
		if err != nil {
			return err
		}
		owned := make(map[int64]struct{}, len(categories))
		for _, c := range categories {
			owned[c.ID] = struct{}{}
		}
		for id := range credits {
			if _, ok := owned[id]; !ok {
				return appErrors.Clone(appErrors.ErrResolution, fmt.Sprintf("category %d does not belong to program %d", id, req.CourseID))
			}
		}
		if req.UseCatalogDefaults {
			for id, credit := range CatalogDefaults(categories) {
				if _, given := credits[id]; !given {
					credits[id] = credit
				}
			}
		}

		if err := s.repos.Plans.Create(ctx, exec, plan); err != nil {
			return err
		}
		requirements, err := s.aggregator.Apply(ctx, exec, plan.ID, credits)
		if err != nil {
			return err
		}
		resp.Requirements = make([]int64, len(requirements))
		for i, r := range requirements {
			resp.Requirements[i] = r.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.PlanID = plan.ID
	s.logger.Info("course plan created",
		zap.Int64("plan_id", plan.ID),
		zap.Int64("course_id", plan.CourseID),
		zap.Int("requirements", len(resp.Requirements)),
	)
	return resp, nil
}

// HidePlan soft deletes a plan by clearing its visibility flag.
func (s *PlanService) HidePlan(ctx context.Context, planID int64) error {
	if err := s.repos.Plans.Hide(ctx, nil, planID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course plan not found")
		}
		return ClassifyStoreError(err, "failed to hide course plan")
	}
	s.cache.Invalidate(ctx, planCreditsKey(planID))
	s.logger.Info("course plan hidden", zap.Int64("plan_id", planID))
	return nil
}

// CreditSummary lists the plan's requirements with the rolled up credits of each
// category's direct children. Total sums the top level requirements.
func (s *PlanService) CreditSummary(ctx context.Context, planID int64) (*models.CreditSummary, error) {
	key := planCreditsKey(planID)
	var cached models.CreditSummary
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	plan, err := s.repos.Plans.FindByID(ctx, nil, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course plan not found")
		}
		return nil, ClassifyStoreError(err, "failed to load course plan")
	}
	details, err := s.repos.Requirements.ListDetailsByPlan(ctx, nil, planID)
	if err != nil {
		return nil, ClassifyStoreError(err, "failed to list credit requirements")
	}

	summary := &models.CreditSummary{Plan: *plan, Entries: Rollup(details)}
	for _, d := range details {
		if d.MasterCategory == nil {
			summary.Total += d.CreditRequire
		}
	}
	s.cache.Set(ctx, key, summary, 0)
	return summary, nil
}
