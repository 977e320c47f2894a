package service

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/curriculum-api/internal/models"
)

const (
	nonCooperativeMarker = "ไม่สหกิจ"
	cooperativeMarker    = "สหกิจ"
)

// NormalizePlanLabel maps the many spellings of the two cooperative-education tracks onto
// their canonical labels. Other labels are returned trimmed.
func NormalizePlanLabel(raw string) string {
	label := strings.TrimSpace(raw)
	switch {
	case strings.Contains(label, nonCooperativeMarker):
		return models.PlanLabelNonCooperative
	case strings.Contains(label, cooperativeMarker):
		return models.PlanLabelCooperative
	default:
		return label
	}
}

type resolverPlanSource interface {
	ListVisible(ctx context.Context, exec sqlx.ExtContext) ([]models.CoursePlan, error)
}

type resolverCategorySource interface {
	ListAll(ctx context.Context, exec sqlx.ExtContext) ([]models.SubjectCategory, error)
}

type resolverSubjectSource interface {
	ListKeys(ctx context.Context, exec sqlx.ExtContext) ([]models.Subject, error)
}

type scopedKey struct {
	courseID int64
	name     string
}

// EntityResolver answers natural key lookups from maps loaded once per run. It never
// creates programs, plans or categories; only subjects are recorded as they are inserted.
type EntityResolver struct {
	programs       ProgramIndex
	plans          map[scopedKey]int64
	categories     map[scopedKey]int64
	categoryLevels map[int64]int
	subjects       map[scopedKey]int64
}

// LoadEntityResolver snapshots plans, categories and subjects through exec and indexes
// them together with the already loaded courses.
func LoadEntityResolver(
	ctx context.Context,
	exec sqlx.ExtContext,
	courses []models.Course,
	plans resolverPlanSource,
	categories resolverCategorySource,
	subjects resolverSubjectSource,
) (*EntityResolver, error) {
	planRows, err := plans.ListVisible(ctx, exec)
	if err != nil {
		return nil, err
	}
	categoryRows, err := categories.ListAll(ctx, exec)
	if err != nil {
		return nil, err
	}
	subjectRows, err := subjects.ListKeys(ctx, exec)
	if err != nil {
		return nil, err
	}
	return NewEntityResolver(courses, planRows, categoryRows, subjectRows), nil
}

// ProgramIndex maps program names to course ids. The display name is indexed first; formal
// and English names are aliases only where they do not shadow a display name. When display
// names collide the later course wins.
type ProgramIndex map[string]int64

// NewProgramIndex indexes courses given in ascending id order.
func NewProgramIndex(courses []models.Course) ProgramIndex {
	idx := make(ProgramIndex, len(courses))
	for _, c := range courses {
		idx[strings.TrimSpace(c.DisplayName())] = c.ID
	}
	for _, c := range courses {
		for _, alias := range []*string{&c.NameCourseTH, c.NameCourseEng} {
			if alias == nil {
				continue
			}
			name := strings.TrimSpace(*alias)
			if name == "" {
				continue
			}
			if _, taken := idx[name]; !taken {
				idx[name] = c.ID
			}
		}
	}
	return idx
}

// Resolve returns the course id for a trimmed name.
func (idx ProgramIndex) Resolve(name string) (int64, bool) {
	id, ok := idx[strings.TrimSpace(name)]
	return id, ok
}

// NewEntityResolver indexes already loaded rows. Rows are expected in ascending id order.
func NewEntityResolver(courses []models.Course, plans []models.CoursePlan, categories []models.SubjectCategory, subjects []models.Subject) *EntityResolver {
	r := &EntityResolver{
		programs:       NewProgramIndex(courses),
		plans:          make(map[scopedKey]int64, len(plans)*2),
		categories:     make(map[scopedKey]int64, len(categories)),
		categoryLevels: make(map[int64]int, len(categories)),
		subjects:       make(map[scopedKey]int64, len(subjects)),
	}

	for _, p := range plans {
		r.plans[scopedKey{p.CourseID, strings.TrimSpace(p.PlanCourse)}] = p.ID
	}
	for _, p := range plans {
		key := scopedKey{p.CourseID, NormalizePlanLabel(p.PlanCourse)}
		if _, taken := r.plans[key]; !taken {
			r.plans[key] = p.ID
		}
	}

	for _, c := range categories {
		r.categoryLevels[c.ID] = c.CategoryLevel
		key := scopedKey{c.CourseID, strings.TrimSpace(c.CategoryName)}
		if existing, ok := r.categories[key]; ok && r.categoryLevels[existing] > c.CategoryLevel {
			continue
		}
		r.categories[key] = c.ID
	}

	for _, s := range subjects {
		r.subjects[scopedKey{s.CourseID, strings.TrimSpace(s.SubjectCode)}] = s.ID
	}
	return r
}

// ResolveProgram returns the course id for a trimmed display name.
func (r *EntityResolver) ResolveProgram(name string) (int64, bool) {
	return r.programs.Resolve(name)
}

// ResolvePlan normalises label and looks it up within the course. The canonical label is
// returned for error reporting.
func (r *EntityResolver) ResolvePlan(courseID int64, label string) (int64, string, bool) {
	canonical := NormalizePlanLabel(label)
	id, ok := r.plans[scopedKey{courseID, canonical}]
	return id, canonical, ok
}

// ResolveCategory matches a category display name exactly within the course. When a name is
// used at several levels the deepest category wins.
func (r *EntityResolver) ResolveCategory(courseID int64, name string) (int64, bool) {
	id, ok := r.categories[scopedKey{courseID, strings.TrimSpace(name)}]
	return id, ok
}

// ResolveSubject looks a subject up by its code within the course.
func (r *EntityResolver) ResolveSubject(courseID int64, code string) (int64, bool) {
	id, ok := r.subjects[scopedKey{courseID, strings.TrimSpace(code)}]
	return id, ok
}

// RememberSubject records a subject inserted during the current run.
func (r *EntityResolver) RememberSubject(courseID int64, code string, id int64) {
	r.subjects[scopedKey{courseID, strings.TrimSpace(code)}] = id
}
