package models

import "time"

// Canonical plan labels used by the two cooperative-education tracks.
const (
	PlanLabelCooperative    = "แผนสหกิจศึกษา"
	PlanLabelNonCooperative = "แผนไม่สหกิจศึกษา"
)

// CoursePlan is a study track within a course. IsVisible doubles as the soft-delete marker.
type CoursePlan struct {
	ID                    int64     `db:"id" json:"id"`
	CourseID              int64     `db:"course_id" json:"course_id"`
	PlanCourse            string    `db:"plan_course" json:"plan_course"`
	TotalCredit           int       `db:"total_credit" json:"total_credit"`
	GeneralSubjectCredit  int       `db:"general_subject_credit" json:"general_subject_credit"`
	SpecificSubjectCredit int       `db:"specific_subject_credit" json:"specific_subject_credit"`
	FreeSubjectCredit     int       `db:"free_subject_credit" json:"free_subject_credit"`
	InternshipHours       int       `db:"internship_hours" json:"internship_hours"`
	CreditIntern          int       `db:"credit_intern" json:"credit_intern"`
	IsVisible             bool      `db:"is_visible" json:"is_visible"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
}

// CreditRequirement is the minimum credit mandated for a plan and category pair.
type CreditRequirement struct {
	ID                int64 `db:"id" json:"id"`
	CoursePlanID      int64 `db:"course_plan_id" json:"course_plan_id"`
	SubjectCategoryID int64 `db:"subject_category_id" json:"subject_category_id"`
	CreditRequire     int   `db:"credit_require" json:"credit_require"`
}

// CreditRequirementDetail joins a requirement with its category.
type CreditRequirementDetail struct {
	CreditRequirement
	CategoryName   string `db:"category_name" json:"category_name"`
	CategoryLevel  int    `db:"category_level" json:"category_level"`
	MasterCategory *int64 `db:"master_category" json:"master_category,omitempty"`
}

// CreditSummaryEntry is one category line of a plan credit summary. ChildrenTotal is the
// sum of direct children's requirements and is display only.
type CreditSummaryEntry struct {
	CreditRequirementDetail
	ChildrenTotal int `json:"children_total"`
}

// CreditSummary reports the credit requirements of a plan.
type CreditSummary struct {
	Plan    CoursePlan           `json:"plan"`
	Entries []CreditSummaryEntry `json:"entries"`
	Total   int                  `json:"total"`
}
