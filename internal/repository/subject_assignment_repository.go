package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/curriculum-api/internal/models"
)

// SubjectAssignmentRepository persists subject placements inside plans.
type SubjectAssignmentRepository struct {
	db *sqlx.DB
}

// NewSubjectAssignmentRepository constructs repository.
func NewSubjectAssignmentRepository(db *sqlx.DB) *SubjectAssignmentRepository {
	return &SubjectAssignmentRepository{db: db}
}

// Exists reports whether the subject is already placed in the plan.
func (r *SubjectAssignmentRepository) Exists(ctx context.Context, exec sqlx.ExtContext, subjectID, planID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM subject_course WHERE subject_id = $1 AND course_plan_id = $2)`
	var exists bool
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &exists, query, subjectID, planID); err != nil {
		return false, fmt.Errorf("check subject assignment: %w", err)
	}
	return exists, nil
}

// Create inserts an assignment and fills its identifier.
func (r *SubjectAssignmentRepository) Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.SubjectAssignment) error {
	if assignment == nil {
		return fmt.Errorf("subject assignment payload is nil")
	}
	const query = `
INSERT INTO subject_course (subject_id, course_plan_id, study_year, study_term, choose_one)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &assignment.ID, query,
		assignment.SubjectID, assignment.CoursePlanID, assignment.StudyYear, assignment.StudyTerm, assignment.ChooseOne); err != nil {
		return fmt.Errorf("insert subject assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment. Missing assignments yield sql.ErrNoRows.
func (r *SubjectAssignmentRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	result, err := pick(r.db, exec).ExecContext(ctx, `DELETE FROM subject_course WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subject assignment: %w", err)
	}
	return expectAffected(result, "subject assignment")
}

// ListPlanRows returns the export view of a plan ordered by year, term and code.
func (r *SubjectAssignmentRepository) ListPlanRows(ctx context.Context, exec sqlx.ExtContext, planID int64) ([]models.PlanSubjectRow, error) {
	const query = `
SELECT sco.study_year, sco.study_term, s.subject_code, s.name_subject_thai, s.name_subject_eng, s.credit,
	COALESCE(sc.lecture, 0) AS lecture, COALESCE(sc.lab, 0) AS lab, COALESCE(sc.self_study, 0) AS self_study,
	cat.category_name, sco.choose_one
FROM subject_course sco
JOIN subject s ON s.id = sco.subject_id
JOIN subject_category cat ON cat.id = s.subject_category_id
LEFT JOIN sub_credit sc ON sc.id = s.sub_credit_id
WHERE sco.course_plan_id = $1
ORDER BY sco.study_year, sco.study_term, s.subject_code`
	var rows []models.PlanSubjectRow
	if err := sqlx.SelectContext(ctx, pick(r.db, exec), &rows, query, planID); err != nil {
		return nil, fmt.Errorf("list plan subjects: %w", err)
	}
	return rows, nil
}
