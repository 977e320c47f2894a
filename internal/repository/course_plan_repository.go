package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/curriculum-api/internal/models"
)

const coursePlanColumns = `id, course_id, plan_course, total_credit, general_subject_credit, specific_subject_credit,
free_subject_credit, internship_hours, credit_intern, is_visible, created_at`

// CoursePlanRepository persists study plans.
type CoursePlanRepository struct {
	db *sqlx.DB
}

// NewCoursePlanRepository constructs repository.
func NewCoursePlanRepository(db *sqlx.DB) *CoursePlanRepository {
	return &CoursePlanRepository{db: db}
}

// Create inserts a visible plan and fills its identifier.
func (r *CoursePlanRepository) Create(ctx context.Context, exec sqlx.ExtContext, plan *models.CoursePlan) error {
	if plan == nil {
		return fmt.Errorf("course plan payload is nil")
	}
	plan.IsVisible = true
	const query = `
INSERT INTO course_plan (course_id, plan_course, total_credit, general_subject_credit, specific_subject_credit,
	free_subject_credit, internship_hours, credit_intern, is_visible)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at`
	row := pick(r.db, exec).QueryRowxContext(ctx, query,
		plan.CourseID,
		plan.PlanCourse,
		plan.TotalCredit,
		plan.GeneralSubjectCredit,
		plan.SpecificSubjectCredit,
		plan.FreeSubjectCredit,
		plan.InternshipHours,
		plan.CreditIntern,
		plan.IsVisible,
	)
	if err := row.Scan(&plan.ID, &plan.CreatedAt); err != nil {
		return fmt.Errorf("insert course plan: %w", err)
	}
	return nil
}

// FindByID loads a plan regardless of visibility.
func (r *CoursePlanRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.CoursePlan, error) {
	query := `SELECT ` + coursePlanColumns + ` FROM course_plan WHERE id = $1`
	var plan models.CoursePlan
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &plan, query, id); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListVisible returns every visible plan ordered by identifier.
func (r *CoursePlanRepository) ListVisible(ctx context.Context, exec sqlx.ExtContext) ([]models.CoursePlan, error) {
	query := `SELECT ` + coursePlanColumns + ` FROM course_plan WHERE is_visible = TRUE ORDER BY id`
	var plans []models.CoursePlan
	if err := sqlx.SelectContext(ctx, pick(r.db, exec), &plans, query); err != nil {
		return nil, fmt.Errorf("list course plans: %w", err)
	}
	return plans, nil
}

// Hide marks a plan as not visible. Missing plans yield sql.ErrNoRows.
func (r *CoursePlanRepository) Hide(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	const query = `UPDATE course_plan SET is_visible = FALSE WHERE id = $1`
	result, err := pick(r.db, exec).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("hide course plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("course plan rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
