package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/curriculum-api/internal/models"
)

// PrerequisiteRepository persists prerequisite links between subjects.
type PrerequisiteRepository struct {
	db *sqlx.DB
}

// NewPrerequisiteRepository constructs repository.
func NewPrerequisiteRepository(db *sqlx.DB) *PrerequisiteRepository {
	return &PrerequisiteRepository{db: db}
}

// Exists reports whether the exact link is stored.
func (r *PrerequisiteRepository) Exists(ctx context.Context, exec sqlx.ExtContext, link models.Prerequisite) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM pre_subject WHERE subject_id = $1 AND previous_subject_id = $2)`
	var exists bool
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &exists, query, link.SubjectID, link.PreviousSubjectID); err != nil {
		return false, fmt.Errorf("check prerequisite: %w", err)
	}
	return exists, nil
}

// ExistsByCode reports whether subjectID already requires a subject with previousCode,
// ignoring the link except.
func (r *PrerequisiteRepository) ExistsByCode(ctx context.Context, exec sqlx.ExtContext, subjectID int64, previousCode string, except models.Prerequisite) (bool, error) {
	const query = `
SELECT EXISTS(
	SELECT 1 FROM pre_subject ps
	JOIN subject p ON p.id = ps.previous_subject_id
	WHERE ps.subject_id = $1 AND p.subject_code = $2
		AND NOT (ps.subject_id = $3 AND ps.previous_subject_id = $4)
)`
	var exists bool
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &exists, query,
		subjectID, previousCode, except.SubjectID, except.PreviousSubjectID); err != nil {
		return false, fmt.Errorf("check prerequisite by code: %w", err)
	}
	return exists, nil
}

// Create inserts a link.
func (r *PrerequisiteRepository) Create(ctx context.Context, exec sqlx.ExtContext, link models.Prerequisite) error {
	const query = `INSERT INTO pre_subject (subject_id, previous_subject_id) VALUES ($1, $2)`
	if _, err := pick(r.db, exec).ExecContext(ctx, query, link.SubjectID, link.PreviousSubjectID); err != nil {
		return fmt.Errorf("insert prerequisite: %w", err)
	}
	return nil
}

// Update moves the link from onto to. A missing link yields sql.ErrNoRows.
func (r *PrerequisiteRepository) Update(ctx context.Context, exec sqlx.ExtContext, from, to models.Prerequisite) error {
	const query = `
UPDATE pre_subject SET subject_id = $1, previous_subject_id = $2
WHERE subject_id = $3 AND previous_subject_id = $4`
	result, err := pick(r.db, exec).ExecContext(ctx, query, to.SubjectID, to.PreviousSubjectID, from.SubjectID, from.PreviousSubjectID)
	if err != nil {
		return fmt.Errorf("update prerequisite: %w", err)
	}
	return expectAffected(result, "prerequisite")
}

// Delete removes a link. A missing link yields sql.ErrNoRows.
func (r *PrerequisiteRepository) Delete(ctx context.Context, exec sqlx.ExtContext, link models.Prerequisite) error {
	const query = `DELETE FROM pre_subject WHERE subject_id = $1 AND previous_subject_id = $2`
	result, err := pick(r.db, exec).ExecContext(ctx, query, link.SubjectID, link.PreviousSubjectID)
	if err != nil {
		return fmt.Errorf("delete prerequisite: %w", err)
	}
	return expectAffected(result, "prerequisite")
}
