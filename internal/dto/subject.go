package dto

// UpdateSubjectRequest replaces the editable fields of a subject. The hours must form a
// known sub-credit profile.
type UpdateSubjectRequest struct {
	SubjectCode     string `json:"subject_code" validate:"required"`
	NameSubjectThai string `json:"name_subject_thai" validate:"required"`
	NameSubjectEng  string `json:"name_subject_eng"`
	Credit          int    `json:"credit" validate:"gte=0"`
	LectureHours    int    `json:"lecture_hours" validate:"gte=0"`
	LabHours        int    `json:"lab_hours" validate:"gte=0"`
	SelfStudyHours  int    `json:"self_study_hours" validate:"gte=0"`
	IsVisible       *bool  `json:"is_visible" validate:"required"`
}

// AssignSubjectRequest places an existing subject into a plan.
type AssignSubjectRequest struct {
	SubjectID    int64 `json:"subject_id" validate:"required,gt=0"`
	CoursePlanID int64 `json:"course_plan_id" validate:"required,gt=0"`
	StudyYear    int   `json:"study_year" validate:"required,gt=0"`
	StudyTerm    int   `json:"study_term" validate:"required,gt=0"`
	ChooseOne    bool  `json:"choose_one"`
}

// PrerequisiteRequest identifies a prerequisite link.
type PrerequisiteRequest struct {
	SubjectID         int64 `json:"subject_id" validate:"required,gt=0"`
	PreviousSubjectID int64 `json:"previous_subject_id" validate:"required,gt=0"`
}

// UpdatePrerequisiteRequest moves the link Original to the embedded pair.
type UpdatePrerequisiteRequest struct {
	Original PrerequisiteRequest `json:"original"`
	PrerequisiteRequest
}
