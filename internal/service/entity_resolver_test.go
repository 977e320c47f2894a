package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/curriculum-api/internal/models"
)

func strPtr(v string) *string { return &v }

func TestNormalizePlanLabel(t *testing.T) {
	cases := map[string]string{
		"แผนไม่สหกิจศึกษา-ปี65": models.PlanLabelNonCooperative,
		"ไม่สหกิจ":              models.PlanLabelNonCooperative,
		"  แผนสหกิจศึกษา 2565 ": models.PlanLabelCooperative,
		"สหกิจ":                 models.PlanLabelCooperative,
		"  แผนปกติ  ":           "แผนปกติ",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePlanLabel(in), in)
	}
}

func TestEntityResolverPlans(t *testing.T) {
	resolver := NewEntityResolver(
		[]models.Course{{ID: 1, NameCourseTH: "วิศวกรรมคอมพิวเตอร์", NameCourseUse: strPtr("CPE")}},
		[]models.CoursePlan{
			{ID: 10, CourseID: 1, PlanCourse: models.PlanLabelCooperative},
			{ID: 11, CourseID: 1, PlanCourse: models.PlanLabelNonCooperative},
			{ID: 12, CourseID: 1, PlanCourse: "แผนปกติ"},
		},
		nil, nil,
	)

	for _, label := range []string{"แผนไม่สหกิจศึกษา-ปี65", "ไม่สหกิจ"} {
		id, canonical, ok := resolver.ResolvePlan(1, label)
		require.True(t, ok, label)
		assert.Equal(t, int64(11), id)
		assert.Equal(t, models.PlanLabelNonCooperative, canonical)
	}

	id, _, ok := resolver.ResolvePlan(1, "สหกิจศึกษา")
	require.True(t, ok)
	assert.Equal(t, int64(10), id)

	id, _, ok = resolver.ResolvePlan(1, " แผนปกติ ")
	require.True(t, ok)
	assert.Equal(t, int64(12), id)

	_, canonical, ok := resolver.ResolvePlan(2, "สหกิจ")
	assert.False(t, ok)
	assert.Equal(t, models.PlanLabelCooperative, canonical)
}

func TestEntityResolverPlanAliasFromStoredLabel(t *testing.T) {
	resolver := NewEntityResolver(nil, []models.CoursePlan{{ID: 5, CourseID: 1, PlanCourse: "แผนสหกิจศึกษา (ปรับปรุง 2565)"}}, nil, nil)

	id, _, ok := resolver.ResolvePlan(1, "สหกิจ")
	require.True(t, ok)
	assert.Equal(t, int64(5), id)
}

func TestEntityResolverPrograms(t *testing.T) {
	resolver := NewEntityResolver([]models.Course{
		{ID: 1, NameCourseTH: "วิศวกรรมคอมพิวเตอร์", NameCourseUse: strPtr("CPE"), NameCourseEng: strPtr("Computer Engineering")},
		{ID: 2, NameCourseTH: "เทคโนโลยีสารสนเทศ"},
		{ID: 3, NameCourseTH: "CPE ใหม่", NameCourseUse: strPtr("CPE")},
		{ID: 4, NameCourseTH: "ระบบ", NameCourseUse: strPtr("Computer Engineering")},
	}, nil, nil, nil)

	id, ok := resolver.ResolveProgram(" CPE ")
	require.True(t, ok)
	assert.Equal(t, int64(3), id, "colliding display names resolve to the later program")

	id, ok = resolver.ResolveProgram("เทคโนโลยีสารสนเทศ")
	require.True(t, ok)
	assert.Equal(t, int64(2), id)

	id, ok = resolver.ResolveProgram("วิศวกรรมคอมพิวเตอร์")
	require.True(t, ok)
	assert.Equal(t, int64(1), id)

	id, ok = resolver.ResolveProgram("Computer Engineering")
	require.True(t, ok)
	assert.Equal(t, int64(4), id, "aliases never shadow a display name")

	_, ok = resolver.ResolveProgram("Unknown")
	assert.False(t, ok)
}

func TestEntityResolverCategoriesAndSubjects(t *testing.T) {
	root := int64(1)
	resolver := NewEntityResolver(nil, nil,
		[]models.SubjectCategory{
			{ID: 1, CourseID: 1, CategoryName: "หมวดวิชาเฉพาะ", CategoryLevel: 1},
			{ID: 2, CourseID: 1, CategoryName: "วิชาเลือก", CategoryLevel: 2, MasterCategory: &root},
			{ID: 3, CourseID: 1, CategoryName: "วิชาเลือก", CategoryLevel: 1},
			{ID: 4, CourseID: 2, CategoryName: "วิชาแกน", CategoryLevel: 2},
		},
		[]models.Subject{{ID: 7, CourseID: 1, SubjectCode: "CS101"}},
	)

	id, ok := resolver.ResolveCategory(1, "วิชาเลือก")
	require.True(t, ok)
	assert.Equal(t, int64(2), id)

	_, ok = resolver.ResolveCategory(1, "วิชาแกน")
	assert.False(t, ok, "categories are scoped to their program")

	id, ok = resolver.ResolveSubject(1, "CS101")
	require.True(t, ok)
	assert.Equal(t, int64(7), id)

	_, ok = resolver.ResolveSubject(2, "CS101")
	assert.False(t, ok)

	resolver.RememberSubject(2, "CS101", 9)
	id, ok = resolver.ResolveSubject(2, " CS101")
	require.True(t, ok)
	assert.Equal(t, int64(9), id)
}
