package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/curriculum-api/internal/models"
)

// memStore is an in-memory stand-in for the relational store.
type memStore struct {
	nextID       int64
	courses      []models.Course
	plans        []models.CoursePlan
	categories   []models.SubjectCategory
	requirements []models.CreditRequirement
	subjects     []models.Subject
	assignments  []models.SubjectAssignment
	prereqs      []models.Prerequisite

	categoryCreates   int
	failCategoryAt    int
	failSubjectCreate error
}

type memSnapshot struct {
	courses      []models.Course
	plans        []models.CoursePlan
	categories   []models.SubjectCategory
	requirements []models.CreditRequirement
	subjects     []models.Subject
	assignments  []models.SubjectAssignment
	prereqs      []models.Prerequisite
}

func newMemStore() *memStore { return &memStore{} }

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) snapshot() memSnapshot {
	return memSnapshot{
		courses:      append([]models.Course(nil), m.courses...),
		plans:        append([]models.CoursePlan(nil), m.plans...),
		categories:   append([]models.SubjectCategory(nil), m.categories...),
		requirements: append([]models.CreditRequirement(nil), m.requirements...),
		subjects:     append([]models.Subject(nil), m.subjects...),
		assignments:  append([]models.SubjectAssignment(nil), m.assignments...),
		prereqs:      append([]models.Prerequisite(nil), m.prereqs...),
	}
}

func (m *memStore) restore(s memSnapshot) {
	m.courses = s.courses
	m.plans = s.plans
	m.categories = s.categories
	m.requirements = s.requirements
	m.subjects = s.subjects
	m.assignments = s.assignments
	m.prereqs = s.prereqs
}

func (m *memStore) rowCount() int {
	return len(m.courses) + len(m.plans) + len(m.categories) + len(m.requirements) + len(m.subjects) + len(m.assignments) + len(m.prereqs)
}

// seedCourse adds a program with the given in-use name.
func (m *memStore) seedCourse(use string) int64 {
	name := use
	c := models.Course{ID: m.id(), NameCourseTH: "หลักสูตร " + use, NameCourseUse: &name, DepartmentID: 1}
	m.courses = append(m.courses, c)
	return c.ID
}

func (m *memStore) seedPlan(courseID int64, label string) int64 {
	p := models.CoursePlan{ID: m.id(), CourseID: courseID, PlanCourse: label, IsVisible: true}
	m.plans = append(m.plans, p)
	return p.ID
}

func (m *memStore) seedCategory(courseID int64, name string, level int, parent *int64) int64 {
	c := models.SubjectCategory{ID: m.id(), CourseID: courseID, CategoryName: name, CategoryLevel: level, MasterCategory: parent}
	m.categories = append(m.categories, c)
	return c.ID
}

func (m *memStore) seedSubject(courseID, categoryID int64, code string) int64 {
	subject := models.Subject{
		ID: m.id(), CourseID: courseID, SubjectCategoryID: categoryID, SubjectTypeID: models.SubjectTypeLecture,
		SubCreditID: 1, SubjectCode: code, NameSubjectThai: "วิชา " + code, Credit: 3, IsVisible: true,
	}
	m.subjects = append(m.subjects, subject)
	return subject.ID
}

// memUnitOfWork restores the store snapshot when fn fails.
type memUnitOfWork struct {
	store     *memStore
	commits   int
	rollbacks int
}

func (u *memUnitOfWork) WithinTransaction(ctx context.Context, fn func(exec sqlx.ExtContext) error) error {
	snap := u.store.snapshot()
	if err := fn(nil); err != nil {
		u.store.restore(snap)
		u.rollbacks++
		return err
	}
	u.commits++
	return nil
}

type memCourseRepo struct{ s *memStore }

func (r memCourseRepo) Create(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error {
	course.ID = r.s.id()
	r.s.courses = append(r.s.courses, *course)
	return nil
}

func (r memCourseRepo) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Course, error) {
	for _, c := range r.s.courses {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memCourseRepo) ListAll(ctx context.Context, exec sqlx.ExtContext) ([]models.Course, error) {
	return append([]models.Course(nil), r.s.courses...), nil
}

type memPlanRepo struct{ s *memStore }

func (r memPlanRepo) Create(ctx context.Context, exec sqlx.ExtContext, plan *models.CoursePlan) error {
	plan.ID = r.s.id()
	plan.IsVisible = true
	r.s.plans = append(r.s.plans, *plan)
	return nil
}

func (r memPlanRepo) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.CoursePlan, error) {
	for _, p := range r.s.plans {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memPlanRepo) ListVisible(ctx context.Context, exec sqlx.ExtContext) ([]models.CoursePlan, error) {
	var out []models.CoursePlan
	for _, p := range r.s.plans {
		if p.IsVisible {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memPlanRepo) Hide(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	for i := range r.s.plans {
		if r.s.plans[i].ID == id {
			r.s.plans[i].IsVisible = false
			return nil
		}
	}
	return sql.ErrNoRows
}

type memCategoryRepo struct{ s *memStore }

func (r memCategoryRepo) Create(ctx context.Context, exec sqlx.ExtContext, category *models.SubjectCategory) error {
	r.s.categoryCreates++
	if r.s.failCategoryAt > 0 && r.s.categoryCreates == r.s.failCategoryAt {
		return sql.ErrConnDone
	}
	category.ID = r.s.id()
	r.s.categories = append(r.s.categories, *category)
	return nil
}

func (r memCategoryRepo) ListByCourse(ctx context.Context, exec sqlx.ExtContext, courseID int64) ([]models.SubjectCategory, error) {
	var out []models.SubjectCategory
	for _, c := range r.s.categories {
		if c.CourseID == courseID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memCategoryRepo) ListAll(ctx context.Context, exec sqlx.ExtContext) ([]models.SubjectCategory, error) {
	return append([]models.SubjectCategory(nil), r.s.categories...), nil
}

type memRequirementRepo struct{ s *memStore }

func (r memRequirementRepo) Upsert(ctx context.Context, exec sqlx.ExtContext, req *models.CreditRequirement) error {
	for i, existing := range r.s.requirements {
		if existing.CoursePlanID == req.CoursePlanID && existing.SubjectCategoryID == req.SubjectCategoryID {
			r.s.requirements[i].CreditRequire = req.CreditRequire
			req.ID = existing.ID
			return nil
		}
	}
	req.ID = r.s.id()
	r.s.requirements = append(r.s.requirements, *req)
	return nil
}

func (r memRequirementRepo) ListDetailsByPlan(ctx context.Context, exec sqlx.ExtContext, planID int64) ([]models.CreditRequirementDetail, error) {
	byID := make(map[int64]models.SubjectCategory, len(r.s.categories))
	for _, c := range r.s.categories {
		byID[c.ID] = c
	}
	var out []models.CreditRequirementDetail
	for _, req := range r.s.requirements {
		if req.CoursePlanID != planID {
			continue
		}
		c := byID[req.SubjectCategoryID]
		out = append(out, models.CreditRequirementDetail{
			CreditRequirement: req,
			CategoryName:      c.CategoryName,
			CategoryLevel:     c.CategoryLevel,
			MasterCategory:    c.MasterCategory,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CategoryLevel < out[j].CategoryLevel })
	return out, nil
}

type memSubjectRepo struct{ s *memStore }

func (r memSubjectRepo) Create(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error {
	if r.s.failSubjectCreate != nil {
		return r.s.failSubjectCreate
	}
	for _, existing := range r.s.subjects {
		if existing.SubjectCode == subject.SubjectCode && existing.CourseID == subject.CourseID {
			return &pq.Error{Code: "23505", Constraint: "subject_code_course_key"}
		}
	}
	subject.ID = r.s.id()
	r.s.subjects = append(r.s.subjects, *subject)
	return nil
}

func (r memSubjectRepo) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Subject, error) {
	for _, subject := range r.s.subjects {
		if subject.ID == id {
			found := subject
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memSubjectRepo) Update(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error {
	for _, existing := range r.s.subjects {
		if existing.ID != subject.ID && existing.CourseID == subject.CourseID && existing.SubjectCode == subject.SubjectCode {
			return fmt.Errorf("update subject: %w", &pq.Error{Code: "23505", Constraint: "subject_code_course_key"})
		}
	}
	for i := range r.s.subjects {
		if r.s.subjects[i].ID == subject.ID {
			r.s.subjects[i] = *subject
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r memSubjectRepo) ListKeys(ctx context.Context, exec sqlx.ExtContext) ([]models.Subject, error) {
	return append([]models.Subject(nil), r.s.subjects...), nil
}

type memAssignmentRepo struct{ s *memStore }

func (r memAssignmentRepo) Exists(ctx context.Context, exec sqlx.ExtContext, subjectID, planID int64) (bool, error) {
	for _, a := range r.s.assignments {
		if a.SubjectID == subjectID && a.CoursePlanID == planID {
			return true, nil
		}
	}
	return false, nil
}

func (r memAssignmentRepo) Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.SubjectAssignment) error {
	assignment.ID = r.s.id()
	r.s.assignments = append(r.s.assignments, *assignment)
	return nil
}

func (r memAssignmentRepo) Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	for i, a := range r.s.assignments {
		if a.ID == id {
			r.s.assignments = append(r.s.assignments[:i:i], r.s.assignments[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r memAssignmentRepo) ListPlanRows(ctx context.Context, exec sqlx.ExtContext, planID int64) ([]models.PlanSubjectRow, error) {
	subjects := make(map[int64]models.Subject, len(r.s.subjects))
	for _, s := range r.s.subjects {
		subjects[s.ID] = s
	}
	var out []models.PlanSubjectRow
	for _, a := range r.s.assignments {
		if a.CoursePlanID != planID {
			continue
		}
		s := subjects[a.SubjectID]
		out = append(out, models.PlanSubjectRow{
			StudyYear:       a.StudyYear,
			StudyTerm:       a.StudyTerm,
			SubjectCode:     s.SubjectCode,
			NameSubjectThai: s.NameSubjectThai,
			NameSubjectEng:  s.NameSubjectEng,
			Credit:          s.Credit,
			ChooseOne:       a.ChooseOne,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StudyYear != out[j].StudyYear {
			return out[i].StudyYear < out[j].StudyYear
		}
		if out[i].StudyTerm != out[j].StudyTerm {
			return out[i].StudyTerm < out[j].StudyTerm
		}
		return out[i].SubjectCode < out[j].SubjectCode
	})
	return out, nil
}

type memPrerequisiteRepo struct{ s *memStore }

func (r memPrerequisiteRepo) Exists(ctx context.Context, exec sqlx.ExtContext, link models.Prerequisite) (bool, error) {
	for _, p := range r.s.prereqs {
		if p == link {
			return true, nil
		}
	}
	return false, nil
}

func (r memPrerequisiteRepo) ExistsByCode(ctx context.Context, exec sqlx.ExtContext, subjectID int64, previousCode string, except models.Prerequisite) (bool, error) {
	codes := make(map[int64]string, len(r.s.subjects))
	for _, subject := range r.s.subjects {
		codes[subject.ID] = subject.SubjectCode
	}
	for _, p := range r.s.prereqs {
		if p.SubjectID == subjectID && codes[p.PreviousSubjectID] == previousCode && p != except {
			return true, nil
		}
	}
	return false, nil
}

func (r memPrerequisiteRepo) Create(ctx context.Context, exec sqlx.ExtContext, link models.Prerequisite) error {
	r.s.prereqs = append(r.s.prereqs, link)
	return nil
}

func (r memPrerequisiteRepo) Update(ctx context.Context, exec sqlx.ExtContext, from, to models.Prerequisite) error {
	for i, p := range r.s.prereqs {
		if p == from {
			r.s.prereqs[i] = to
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r memPrerequisiteRepo) Delete(ctx context.Context, exec sqlx.ExtContext, link models.Prerequisite) error {
	for i, p := range r.s.prereqs {
		if p == link {
			r.s.prereqs = append(r.s.prereqs[:i:i], r.s.prereqs[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

// lockRecorder captures advisory lock requests.
type lockRecorder struct {
	courses [][]int64
	err     error
}

func (l *lockRecorder) LockCourses(ctx context.Context, exec sqlx.ExtContext, courseIDs []int64) error {
	l.courses = append(l.courses, sortedDistinctIDs(courseIDs))
	return l.err
}
