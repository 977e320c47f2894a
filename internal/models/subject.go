package models

import "fmt"

// Subject types derived from the lecture and lab hours of a subject.
const (
	SubjectTypeLecture    int64 = 1
	SubjectTypeLab        int64 = 2
	SubjectTypeLectureLab int64 = 3
)

// DeriveSubjectType classifies a subject from its weekly hours.
func DeriveSubjectType(lectureHours, labHours int) int64 {
	switch {
	case lectureHours > 0 && labHours > 0:
		return SubjectTypeLectureLab
	case labHours > 0:
		return SubjectTypeLab
	default:
		return SubjectTypeLecture
	}
}

// Subject is a course offering scoped to one program. (SubjectCode, CourseID) is unique.
type Subject struct {
	ID                int64   `db:"id" json:"id"`
	CourseID          int64   `db:"course_id" json:"course_id"`
	SubjectTypeID     int64   `db:"subject_type_id" json:"subject_type_id"`
	SubjectCategoryID int64   `db:"subject_category_id" json:"subject_category_id"`
	SubCreditID       int64   `db:"sub_credit_id" json:"sub_credit_id"`
	SubjectCode       string  `db:"subject_code" json:"subject_code"`
	NameSubjectThai   string  `db:"name_subject_thai" json:"name_subject_thai"`
	NameSubjectEng    *string `db:"name_subject_eng" json:"name_subject_eng,omitempty"`
	Credit            int     `db:"credit" json:"credit"`
	IsVisible         bool    `db:"is_visible" json:"is_visible"`
}

// Prerequisite links a subject to one that must be passed before it.
type Prerequisite struct {
	SubjectID         int64 `db:"subject_id" json:"subject_id"`
	PreviousSubjectID int64 `db:"previous_subject_id" json:"previous_subject_id"`
}

// SubjectAssignment places a subject into a plan at a study year and term.
type SubjectAssignment struct {
	ID           int64 `db:"id" json:"id"`
	SubjectID    int64 `db:"subject_id" json:"subject_id"`
	CoursePlanID int64 `db:"course_plan_id" json:"course_plan_id"`
	StudyYear    int   `db:"study_year" json:"study_year"`
	StudyTerm    int   `db:"study_term" json:"study_term"`
	ChooseOne    bool  `db:"choose_one" json:"choose_one"`
}

// PlanSubjectRow is the export view of an assignment.
type PlanSubjectRow struct {
	StudyYear       int     `db:"study_year"`
	StudyTerm       int     `db:"study_term"`
	SubjectCode     string  `db:"subject_code"`
	NameSubjectThai string  `db:"name_subject_thai"`
	NameSubjectEng  *string `db:"name_subject_eng"`
	Credit          int     `db:"credit"`
	Lecture         int     `db:"lecture"`
	Lab             int     `db:"lab"`
	SelfStudy       int     `db:"self_study"`
	CategoryName    string  `db:"category_name"`
	ChooseOne       bool    `db:"choose_one"`
}

// SubCredit is the (credit, lecture, lab, self study) hour breakdown of a subject.
type SubCredit struct {
	Credit    int `json:"credit"`
	Lecture   int `json:"lecture"`
	Lab       int `json:"lab"`
	SelfStudy int `json:"self_study"`
}

// String renders the breakdown in the conventional credit(lecture-lab-self) form.
func (s SubCredit) String() string {
	return fmt.Sprintf("%d(%d-%d-%d)", s.Credit, s.Lecture, s.Lab, s.SelfStudy)
}

// subCreditProfiles enumerates the valid hour combinations. The combination 1(0-3-2)
// is listed twice in the catalog; the later id 12 is the one in effect.
var subCreditProfiles = map[SubCredit]int64{
	{3, 3, 0, 6}: 1,
	{2, 2, 0, 4}: 3,
	{3, 2, 3, 6}: 4,
	{1, 1, 0, 2}: 5,
	{1, 0, 2, 3}: 6,
	{1, 2, 0, 4}: 7,
	{2, 0, 6, 3}: 8,
	{6, 0, 0, 0}: 9,
	{3, 3, 0, 3}: 10,
	{3, 2, 2, 5}: 11,
	{1, 0, 3, 2}: 12,
}

// LookupSubCredit returns the profile id of an exact hour combination.
func LookupSubCredit(s SubCredit) (int64, bool) {
	id, ok := subCreditProfiles[s]
	return id, ok
}
