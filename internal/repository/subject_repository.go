package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/curriculum-api/internal/models"
)

// SubjectRepository persists subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// Create inserts a visible subject and fills its identifier.
func (r *SubjectRepository) Create(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error {
	if subject == nil {
		return fmt.Errorf("subject payload is nil")
	}
	subject.IsVisible = true
	const query = `
INSERT INTO subject (course_id, subject_type_id, subject_category_id, sub_credit_id, subject_code,
	name_subject_thai, name_subject_eng, credit, is_visible)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
RETURNING id`
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &subject.ID, query,
		subject.CourseID,
		subject.SubjectTypeID,
		subject.SubjectCategoryID,
		subject.SubCreditID,
		subject.SubjectCode,
		subject.NameSubjectThai,
		subject.NameSubjectEng,
		subject.Credit,
	); err != nil {
		return fmt.Errorf("insert subject: %w", err)
	}
	return nil
}

// ListKeys returns the identifier, code and owning course of every subject.
func (r *SubjectRepository) ListKeys(ctx context.Context, exec sqlx.ExtContext) ([]models.Subject, error) {
	const query = `SELECT id, subject_code, course_id FROM subject ORDER BY id`
	var subjects []models.Subject
	if err := sqlx.SelectContext(ctx, pick(r.db, exec), &subjects, query); err != nil {
		return nil, fmt.Errorf("list subject keys: %w", err)
	}
	return subjects, nil
}

// FindByID loads a subject. Missing subjects yield sql.ErrNoRows.
func (r *SubjectRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Subject, error) {
	const query = `
SELECT id, course_id, subject_type_id, subject_category_id, COALESCE(sub_credit_id, 0) AS sub_credit_id,
	subject_code, name_subject_thai, name_subject_eng, credit, is_visible
FROM subject WHERE id = $1`
	var subject models.Subject
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// Update writes the editable fields of a subject. Missing subjects yield sql.ErrNoRows.
func (r *SubjectRepository) Update(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error {
	if subject == nil {
		return fmt.Errorf("subject payload is nil")
	}
	const query = `
UPDATE subject SET subject_code = $1, name_subject_thai = $2, name_subject_eng = $3, credit = $4,
	sub_credit_id = $5, subject_type_id = $6, is_visible = $7
WHERE id = $8`
	result, err := pick(r.db, exec).ExecContext(ctx, query,
		subject.SubjectCode,
		subject.NameSubjectThai,
		subject.NameSubjectEng,
		subject.Credit,
		subject.SubCreditID,
		subject.SubjectTypeID,
		subject.IsVisible,
		subject.ID,
	)
	if err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return expectAffected(result, "subject")
}
