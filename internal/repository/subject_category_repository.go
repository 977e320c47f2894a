package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/curriculum-api/internal/models"
)

// SubjectCategoryRepository persists the category hierarchy.
type SubjectCategoryRepository struct {
	db *sqlx.DB
}

// NewSubjectCategoryRepository constructs repository.
func NewSubjectCategoryRepository(db *sqlx.DB) *SubjectCategoryRepository {
	return &SubjectCategoryRepository{db: db}
}

// Create inserts a category and fills its identifier.
func (r *SubjectCategoryRepository) Create(ctx context.Context, exec sqlx.ExtContext, category *models.SubjectCategory) error {
	if category == nil {
		return fmt.Errorf("category payload is nil")
	}
	const query = `
INSERT INTO subject_category (category_name, category_level, master_category, course_id)
VALUES ($1, $2, $3, $4)
RETURNING id`
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &category.ID, query,
		category.CategoryName, category.CategoryLevel, category.MasterCategory, category.CourseID); err != nil {
		return fmt.Errorf("insert subject category: %w", err)
	}
	return nil
}

// ListByCourse returns the categories of one course in insertion order.
func (r *SubjectCategoryRepository) ListByCourse(ctx context.Context, exec sqlx.ExtContext, courseID int64) ([]models.SubjectCategory, error) {
	const query = `SELECT id, category_name, category_level, master_category, course_id
FROM subject_category WHERE course_id = $1 ORDER BY id`
	var categories []models.SubjectCategory
	if err := sqlx.SelectContext(ctx, pick(r.db, exec), &categories, query, courseID); err != nil {
		return nil, fmt.Errorf("list subject categories: %w", err)
	}
	return categories, nil
}

// ListAll returns every category ordered by identifier.
func (r *SubjectCategoryRepository) ListAll(ctx context.Context, exec sqlx.ExtContext) ([]models.SubjectCategory, error) {
	const query = `SELECT id, category_name, category_level, master_category, course_id FROM subject_category ORDER BY id`
	var categories []models.SubjectCategory
	if err := sqlx.SelectContext(ctx, pick(r.db, exec), &categories, query); err != nil {
		return nil, fmt.Errorf("list subject categories: %w", err)
	}
	return categories, nil
}
