package dto

// CategoryCredit is a minimum credit for one category.
type CategoryCredit struct {
	CategoryID int64 `json:"category_id" validate:"required,gt=0"`
	Credit     int   `json:"credit" validate:"gte=0"`
}

// CreatePlanRequest creates a study plan together with its credit requirements.
type CreatePlanRequest struct {
	CourseID              int64            `json:"course_id" validate:"required,gt=0"`
	PlanCourse            string           `json:"plan_course" validate:"required"`
	TotalCredit           int              `json:"total_credit" validate:"gte=0"`
	GeneralSubjectCredit  int              `json:"general_subject_credit" validate:"gte=0"`
	SpecificSubjectCredit int              `json:"specific_subject_credit" validate:"gte=0"`
	FreeSubjectCredit     int              `json:"free_subject_credit" validate:"gte=0"`
	InternshipHours       int              `json:"internship_hours" validate:"gte=0"`
	CreditIntern          int              `json:"credit_intern" validate:"gte=0"`
	Credits               []CategoryCredit `json:"credits" validate:"dive"`
	// UseCatalogDefaults fills unspecified catalog categories with their default minimums.
	UseCatalogDefaults bool `json:"use_catalog_defaults"`
}

// CreatePlanResponse returns the identifiers created for a plan.
type CreatePlanResponse struct {
	PlanID       int64   `json:"plan_id"`
	Requirements []int64 `json:"credit_requirement_ids"`
}
