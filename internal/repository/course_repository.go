package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/curriculum-api/internal/models"
)

const courseColumns = `id, name_course_th, name_course_use, name_course_eng, name_full_degree_th, name_full_degree_eng,
name_initials_degree_th, name_initials_degree_eng, department_id, created_at`

// CourseRepository persists degree programs.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a course and fills its identifier.
func (r *CourseRepository) Create(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error {
	if course == nil {
		return fmt.Errorf("course payload is nil")
	}
	const query = `
INSERT INTO course (name_course_th, name_course_use, name_course_eng, name_full_degree_th, name_full_degree_eng,
	name_initials_degree_th, name_initials_degree_eng, department_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at`
	row := pick(r.db, exec).QueryRowxContext(ctx, query,
		course.NameCourseTH,
		course.NameCourseUse,
		course.NameCourseEng,
		course.NameFullDegreeTH,
		course.NameFullDegreeEng,
		course.NameInitialsDegreeTH,
		course.NameInitialsDegreeEng,
		course.DepartmentID,
	)
	if err := row.Scan(&course.ID, &course.CreatedAt); err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

// FindByID loads a course by identifier.
func (r *CourseRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM course WHERE id = $1`
	var course models.Course
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// ListAll returns every course ordered by identifier.
func (r *CourseRepository) ListAll(ctx context.Context, exec sqlx.ExtContext) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM course ORDER BY id`
	var courses []models.Course
	if err := sqlx.SelectContext(ctx, pick(r.db, exec), &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}
