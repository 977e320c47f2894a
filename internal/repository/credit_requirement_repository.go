package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/curriculum-api/internal/models"
)

// CreditRequirementRepository persists minimum credits per plan and category.
type CreditRequirementRepository struct {
	db *sqlx.DB
}

// NewCreditRequirementRepository constructs repository.
func NewCreditRequirementRepository(db *sqlx.DB) *CreditRequirementRepository {
	return &CreditRequirementRepository{db: db}
}

// Upsert stores the requirement. A second submission for the same pair updates the credit.
func (r *CreditRequirementRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, req *models.CreditRequirement) error {
	if req == nil {
		return fmt.Errorf("credit requirement payload is nil")
	}
	const query = `
INSERT INTO credit_require (course_plan_id, subject_category_id, credit_require)
VALUES ($1, $2, $3)
ON CONFLICT (course_plan_id, subject_category_id) DO UPDATE SET credit_require = EXCLUDED.credit_require
RETURNING id`
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &req.ID, query, req.CoursePlanID, req.SubjectCategoryID, req.CreditRequire); err != nil {
		return fmt.Errorf("upsert credit requirement: %w", err)
	}
	return nil
}

// ListDetailsByPlan returns the requirements of a plan joined with their categories.
func (r *CreditRequirementRepository) ListDetailsByPlan(ctx context.Context, exec sqlx.ExtContext, planID int64) ([]models.CreditRequirementDetail, error) {
	const query = `
SELECT cr.id, cr.course_plan_id, cr.subject_category_id, cr.credit_require,
	sc.category_name, sc.category_level, sc.master_category
FROM credit_require cr
JOIN subject_category sc ON sc.id = cr.subject_category_id
WHERE cr.course_plan_id = $1
ORDER BY sc.category_level, sc.id`
	var details []models.CreditRequirementDetail
	if err := sqlx.SelectContext(ctx, pick(r.db, exec), &details, query, planID); err != nil {
		return nil, fmt.Errorf("list credit requirements: %w", err)
	}
	return details, nil
}
