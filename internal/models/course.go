package models

import "time"

// Course represents a degree program. Several name fields identify the same program.
type Course struct {
	ID                    int64     `db:"id" json:"id"`
	NameCourseTH          string    `db:"name_course_th" json:"name_course_th"`
	NameCourseUse         *string   `db:"name_course_use" json:"name_course_use,omitempty"`
	NameCourseEng         *string   `db:"name_course_eng" json:"name_course_eng,omitempty"`
	NameFullDegreeTH      *string   `db:"name_full_degree_th" json:"name_full_degree_th,omitempty"`
	NameFullDegreeEng     *string   `db:"name_full_degree_eng" json:"name_full_degree_eng,omitempty"`
	NameInitialsDegreeTH  *string   `db:"name_initials_degree_th" json:"name_initials_degree_th,omitempty"`
	NameInitialsDegreeEng *string   `db:"name_initials_degree_eng" json:"name_initials_degree_eng,omitempty"`
	DepartmentID          int64     `db:"department_id" json:"department_id"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
}

// DisplayName is the name used by imports: the in-use short name when present.
func (c Course) DisplayName() string {
	if c.NameCourseUse != nil && *c.NameCourseUse != "" {
		return *c.NameCourseUse
	}
	return c.NameCourseTH
}
