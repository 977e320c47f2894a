package models

// Category levels.
const (
	CategoryLevelDivision = 1
	CategoryLevelGroup    = 2
	CategoryLevelSubGroup = 3
)

// SubjectCategory is a node of the subject classification hierarchy of a course.
type SubjectCategory struct {
	ID             int64  `db:"id" json:"id"`
	CategoryName   string `db:"category_name" json:"category_name"`
	CategoryLevel  int    `db:"category_level" json:"category_level"`
	MasterCategory *int64 `db:"master_category" json:"master_category,omitempty"`
	CourseID       int64  `db:"course_id" json:"course_id"`
}

// CategoryTreeNode is the read model of a category with its descendants.
type CategoryTreeNode struct {
	SubjectCategory
	Children []*CategoryTreeNode `json:"children,omitempty"`
}

// BuildCategoryTree nests flat categories under their masters. Input order is kept
// among siblings; categories whose master is absent are returned as roots.
func BuildCategoryTree(categories []SubjectCategory) []*CategoryTreeNode {
	nodes := make(map[int64]*CategoryTreeNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &CategoryTreeNode{SubjectCategory: c}
	}
	roots := make([]*CategoryTreeNode, 0)
	for _, c := range categories {
		node := nodes[c.ID]
		if c.MasterCategory != nil {
			if parent, ok := nodes[*c.MasterCategory]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
