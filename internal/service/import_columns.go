package service

import (
	"github.com/noah-isme/curriculum-api/pkg/tabular"
)

// Logical import columns.
const (
	colProgram       = "program_name"
	colPlan          = "plan_label"
	colSubjectCode   = "subject_code"
	colNameTH        = "subject_name_th"
	colNameEN        = "subject_name_en"
	colCredit        = "credit"
	colLectureHours  = "lecture_hours"
	colLabHours      = "lab_hours"
	colSelfHours     = "self_study_hours"
	colStudyYear     = "study_year"
	colStudyTerm     = "study_term"
	colCategoryGroup = "category_group"
	colChooseOne     = "choose_one"
)

type importColumn struct {
	key      string
	aliases  []string
	required bool
}

// importColumns lists accepted headers per logical column. The Thai header is the one
// produced by the curriculum spreadsheet template.
var importColumns = []importColumn{
	{key: colProgram, aliases: []string{"ชื่อหลักสูตร", "program_name", "course_name"}, required: true},
	{key: colPlan, aliases: []string{"แผนการเรียน", "plan_label", "plan_course"}, required: true},
	{key: colSubjectCode, aliases: []string{"รหัสวิชา", "subject_code"}, required: true},
	{key: colNameTH, aliases: []string{"ชื่อวิชา(ภาษาไทย)", "subject_name_th", "name_subject_thai"}, required: true},
	{key: colNameEN, aliases: []string{"ชื่อวิชา(ภาษาอังกฤษ)", "subject_name_en", "name_subject_eng"}},
	{key: colCredit, aliases: []string{"จำนวนหน่วยกิต", "credit"}, required: true},
	{key: colLectureHours, aliases: []string{"ชั่วโมงบรรยาย", "lecture_hours"}, required: true},
	{key: colLabHours, aliases: []string{"ชั่วโมงปฎิบัติ", "ชั่วโมงปฏิบัติ", "lab_hours"}, required: true},
	{key: colSelfHours, aliases: []string{"ชั่วโมงเรียนรู้ด้วยตนเอง", "self_study_hours"}, required: true},
	{key: colStudyYear, aliases: []string{"ปีที่เรียน", "study_year"}, required: true},
	{key: colStudyTerm, aliases: []string{"เทอมที่เรียน", "study_term", "term"}, required: true},
	{key: colCategoryGroup, aliases: []string{"กลุ่มของวิชาตามหลักสูตร", "category_group"}, required: true},
	{key: colChooseOne, aliases: []string{"เลือกเรียน", "choose_one"}},
}

// requiredRowFields must be non-empty in every row, checked in this order.
var requiredRowFields = []string{colProgram, colPlan, colSubjectCode, colNameTH, colCredit, colStudyYear, colStudyTerm}

// columnMap binds logical columns to the header actually present in a table.
type columnMap map[string]string

// mapColumns returns the binding and the first required column that is absent.
func mapColumns(table *tabular.Table) (columnMap, string) {
	cols := make(columnMap, len(importColumns))
	for _, col := range importColumns {
		header, ok := table.Column(col.aliases...)
		if !ok {
			if col.required {
				return nil, col.aliases[0]
			}
			continue
		}
		cols[col.key] = header
	}
	return cols, ""
}

// header returns the column name as it appears in the file.
func (c columnMap) header(key string) string {
	if h, ok := c[key]; ok {
		return h
	}
	return key
}

func (c columnMap) value(row tabular.Row, key string) string {
	h, ok := c[key]
	if !ok {
		return ""
	}
	return row.Get(h)
}
