package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupSubCredit(t *testing.T) {
	id, ok := LookupSubCredit(SubCredit{3, 3, 0, 6})
	require.True(t, ok)
	assert.Equal(t, int64(1), id)

	id, ok = LookupSubCredit(SubCredit{1, 0, 3, 2})
	require.True(t, ok)
	assert.Equal(t, int64(12), id)

	_, ok = LookupSubCredit(SubCredit{9, 9, 9, 9})
	assert.False(t, ok)
}

func TestDeriveSubjectType(t *testing.T) {
	assert.Equal(t, SubjectTypeLectureLab, DeriveSubjectType(2, 3))
	assert.Equal(t, SubjectTypeLab, DeriveSubjectType(0, 3))
	assert.Equal(t, SubjectTypeLecture, DeriveSubjectType(3, 0))
	assert.Equal(t, SubjectTypeLecture, DeriveSubjectType(0, 0))
}

func TestBuildCategoryTree(t *testing.T) {
	root := int64(1)
	tree := BuildCategoryTree([]SubjectCategory{
		{ID: 1, CategoryName: "general", CategoryLevel: 1},
		{ID: 2, CategoryName: "happy", CategoryLevel: 2, MasterCategory: &root},
		{ID: 3, CategoryName: "language", CategoryLevel: 2, MasterCategory: &root},
		{ID: 4, CategoryName: "free", CategoryLevel: 1},
	})
	require.Len(t, tree, 2)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "language", tree[0].Children[1].CategoryName)
	assert.Empty(t, tree[1].Children)
}

func TestCourseDisplayName(t *testing.T) {
	short := "CPE"
	assert.Equal(t, "CPE", Course{NameCourseTH: "วิศวกรรมคอมพิวเตอร์", NameCourseUse: &short}.DisplayName())
	assert.Equal(t, "วิศวกรรมคอมพิวเตอร์", Course{NameCourseTH: "วิศวกรรมคอมพิวเตอร์"}.DisplayName())
	assert.Equal(t, "3(3-0-6)", SubCredit{3, 3, 0, 6}.String())
}
