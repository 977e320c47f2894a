package dto

// CategoryNode is one node of a submitted category tree.
type CategoryNode struct {
	Name     string         `json:"name" yaml:"name" validate:"required"`
	Children []CategoryNode `json:"children,omitempty" yaml:"children,omitempty" validate:"dive"`
}

// CountNodes returns the number of nodes in the forest.
func CountNodes(nodes []CategoryNode) int {
	total := 0
	for _, n := range nodes {
		total += 1 + CountNodes(n.Children)
	}
	return total
}

// CreateCourseRequest creates a program with either a nested category tree or a
// selection of catalog category keys.
type CreateCourseRequest struct {
	NameCourseTH          string         `json:"name_course_th" validate:"required"`
	NameCourseUse         string         `json:"name_course_use"`
	NameCourseEng         string         `json:"name_course_eng"`
	NameFullDegreeTH      string         `json:"name_full_degree_th"`
	NameFullDegreeEng     string         `json:"name_full_degree_eng"`
	NameInitialsDegreeTH  string         `json:"name_initials_degree_th"`
	NameInitialsDegreeEng string         `json:"name_initials_degree_eng"`
	DepartmentID          int64          `json:"department_id" validate:"required,gt=0"`
	Categories            []CategoryNode `json:"categories" validate:"dive"`
	CategoryKeys          []string       `json:"category_keys"`
}

// AppendCategoriesRequest adds a category tree to an existing program.
type AppendCategoriesRequest struct {
	Categories []CategoryNode `json:"categories" yaml:"categories" validate:"required,min=1,dive"`
}

// CreatedCategory reports a category materialised from a submission.
type CreatedCategory struct {
	ID             int64  `json:"id"`
	Key            string `json:"key,omitempty"`
	Name           string `json:"name"`
	Level          int    `json:"level"`
	MasterCategory *int64 `json:"master_category,omitempty"`
}

// CreateCourseResponse returns the identifiers created for a program.
type CreateCourseResponse struct {
	CourseID   int64             `json:"course_id"`
	Categories []CreatedCategory `json:"categories"`
	// Skipped lists catalog keys dropped because their parent was not selected.
	Skipped []string `json:"skipped,omitempty"`
}
