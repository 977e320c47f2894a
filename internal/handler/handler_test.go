package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/curriculum-api/internal/dto"
	"github.com/noah-isme/curriculum-api/internal/models"
	"github.com/noah-isme/curriculum-api/internal/service"
	appErrors "github.com/noah-isme/curriculum-api/pkg/errors"
	"github.com/noah-isme/curriculum-api/pkg/response"
)

type courseServiceMock struct {
	createReq  dto.CreateCourseRequest
	createResp *dto.CreateCourseResponse
	appendID   int64
	tree       []*models.CategoryTreeNode
	err        error
}

func (m *courseServiceMock) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*dto.CreateCourseResponse, error) {
	m.createReq = req
	return m.createResp, m.err
}

func (m *courseServiceMock) AppendCategories(ctx context.Context, courseID int64, req dto.AppendCategoriesRequest) ([]dto.CreatedCategory, error) {
	m.appendID = courseID
	return nil, m.err
}

func (m *courseServiceMock) CategoryTree(ctx context.Context, courseID int64) ([]*models.CategoryTreeNode, error) {
	return m.tree, m.err
}

type planServiceMock struct {
	summary *models.CreditSummary
	hidden  int64
	err     error
}

func (m *planServiceMock) CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.CreatePlanResponse, error) {
	return &dto.CreatePlanResponse{PlanID: 9}, m.err
}

func (m *planServiceMock) HidePlan(ctx context.Context, planID int64) error {
	m.hidden = planID
	return m.err
}

func (m *planServiceMock) CreditSummary(ctx context.Context, planID int64) (*models.CreditSummary, error) {
	return m.summary, m.err
}

type exporterMock struct {
	format string
	file   *service.ExportFile
	err    error
}

func (m *exporterMock) ExportPlan(ctx context.Context, planID int64, format string) (*service.ExportFile, error) {
	m.format = format
	return m.file, m.err
}

type importServiceMock struct {
	filename string
	body     string
	result   *models.ImportResult
	err      error
}

func (m *importServiceMock) Import(ctx context.Context, r io.Reader, filename string) (*models.ImportResult, error) {
	data, _ := io.ReadAll(r)
	m.filename, m.body = filename, string(data)
	return m.result, m.err
}

type subjectServiceMock struct {
	updatedID  int64
	assignReq  dto.AssignSubjectRequest
	removedID  int64
	prereqReq  dto.UpdatePrerequisiteRequest
	deletedReq dto.PrerequisiteRequest
	err        error
}

func (m *subjectServiceMock) UpdateSubject(ctx context.Context, id int64, req dto.UpdateSubjectRequest) (*models.Subject, error) {
	m.updatedID = id
	return &models.Subject{ID: id, SubjectCode: req.SubjectCode}, m.err
}

func (m *subjectServiceMock) AssignSubject(ctx context.Context, req dto.AssignSubjectRequest) (*models.SubjectAssignment, error) {
	m.assignReq = req
	return &models.SubjectAssignment{ID: 11, SubjectID: req.SubjectID, CoursePlanID: req.CoursePlanID}, m.err
}

func (m *subjectServiceMock) RemoveAssignment(ctx context.Context, id int64) error {
	m.removedID = id
	return m.err
}

func (m *subjectServiceMock) CreatePrerequisite(ctx context.Context, req dto.PrerequisiteRequest) (*models.Prerequisite, error) {
	return &models.Prerequisite{SubjectID: req.SubjectID, PreviousSubjectID: req.PreviousSubjectID}, m.err
}

func (m *subjectServiceMock) UpdatePrerequisite(ctx context.Context, req dto.UpdatePrerequisiteRequest) (*models.Prerequisite, error) {
	m.prereqReq = req
	return &models.Prerequisite{SubjectID: req.SubjectID, PreviousSubjectID: req.PreviousSubjectID}, m.err
}

func (m *subjectServiceMock) DeletePrerequisite(ctx context.Context, req dto.PrerequisiteRequest) error {
	m.deletedReq = req
	return m.err
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestCourseHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &courseServiceMock{createResp: &dto.CreateCourseResponse{CourseID: 3}}
	h := NewCourseHandler(svc)

	payload, _ := json.Marshal(dto.CreateCourseRequest{
		NameCourseTH: "Eng-101",
		DepartmentID: 1,
		Categories:   []dto.CategoryNode{{Name: "general", Children: []dto.CategoryNode{{Name: "happy"}}}},
	})
	c, w := newGinContext(http.MethodPost, "/courses", payload)
	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "happy", svc.createReq.Categories[0].Children[0].Name)

	c, w = newGinContext(http.MethodPost, "/courses", []byte("{"))
	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseHandlerMapsServiceErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &courseServiceMock{err: appErrors.Clone(appErrors.ErrConflict, "category 'general' already exists at level 1")}
	h := NewCourseHandler(svc)

	payload, _ := json.Marshal(dto.AppendCategoriesRequest{Categories: []dto.CategoryNode{{Name: "general"}}})
	c, w := newGinContext(http.MethodPost, "/courses/4/categories", payload)
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	h.AppendCategories(c)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, int64(4), svc.appendID)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	c, w = newGinContext(http.MethodGet, "/courses/0/categories", nil)
	c.Params = gin.Params{{Key: "id", Value: "0"}}
	h.Categories(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseHandlerCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCourseHandler(&courseServiceMock{})

	c, w := newGinContext(http.MethodGet, "/categories/catalog", nil)
	h.Catalog(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"key":"general_education"`)
	assert.Contains(t, w.Body.String(), `"parent_key":"general_education"`)
}

func TestPlanHandlerHideAndCredits(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &planServiceMock{summary: &models.CreditSummary{Total: 36}}
	h := NewPlanHandler(svc, &exporterMock{})

	c, w := newGinContext(http.MethodPatch, "/course-plans/7/hide", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	h.Hide(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, int64(7), svc.hidden)

	c, w = newGinContext(http.MethodGet, "/course-plans/7/credits", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	h.Credits(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":36`)

	svc.err = appErrors.Clone(appErrors.ErrResolution, "program 99 not found")
	payload, _ := json.Marshal(dto.CreatePlanRequest{CourseID: 99, PlanCourse: "แผนปกติ"})
	c, w = newGinContext(http.MethodPost, "/course-plans", payload)
	h.Create(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPlanHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exporter := &exporterMock{file: &service.ExportFile{Filename: "plan-7.pdf", ContentType: "application/pdf", Body: []byte("%PDF")}}
	h := NewPlanHandler(&planServiceMock{}, exporter)

	c, w := newGinContext(http.MethodGet, "/course-plans/7/export?format=pdf", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	h.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pdf", exporter.format)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "plan-7.pdf")

	exporter.err = appErrors.Clone(appErrors.ErrPreconditionFailed, "exports are disabled")
	c, w = newGinContext(http.MethodGet, "/course-plans/7/export", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	h.Export(c)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, service.ExportFormatCSV, exporter.format)
}

func multipartRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/imports/subjects", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestImportHandlerSubjects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &importServiceMock{result: &models.ImportResult{RunID: "run-1", RowsProcessed: 2}}
	h := NewImportHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "file", "subjects.csv", "program_name\nCPE\n")
	h.Subjects(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "subjects.csv", svc.filename)
	assert.Equal(t, "program_name\nCPE\n", svc.body)
	assert.Contains(t, w.Body.String(), `"run_id":"run-1"`)
}

func TestImportHandlerReportsRowError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rowErr := appErrors.Clone(appErrors.ErrResolution, "row 3: program 'EE' not found")
	rowErr.Details = models.RowError{Row: 3, Field: "program_name", Value: "EE", Reason: rowErr.Message}
	h := NewImportHandler(&importServiceMock{err: rowErr})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "file", "subjects.csv", "x")
	h.Subjects(c)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var env struct {
		Error struct {
			Code    string          `json:"code"`
			Details models.RowError `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "RESOLUTION_ERROR", env.Error.Code)
	assert.Equal(t, 3, env.Error.Details.Row)
	assert.Equal(t, "EE", env.Error.Details.Value)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "upload", "subjects.csv", "x")
	h.Subjects(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type pingerStub struct{ err error }

func (p pingerStub) PingContext(ctx context.Context) error { return p.err }

func TestMetricsHandlerReady(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, w := newGinContext(http.MethodGet, "/ready", nil)
	NewMetricsHandler(nil, pingerStub{}).Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newGinContext(http.MethodGet, "/ready", nil)
	NewMetricsHandler(nil, pingerStub{err: errors.New("connection refused")}).Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	c, _ = newGinContext(http.MethodGet, "/metrics", nil)
	NewMetricsHandler(nil, nil).Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, c.Writer.Status())
}

func TestSubjectHandlerUpdateAndAssign(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &subjectServiceMock{}
	h := NewSubjectHandler(svc)

	visible := true
	payload, _ := json.Marshal(dto.UpdateSubjectRequest{SubjectCode: "CS102", NameSubjectThai: "ฐานข้อมูล", Credit: 3, LectureHours: 3, SelfStudyHours: 6, IsVisible: &visible})
	c, w := newGinContext(http.MethodPut, "/subjects/5", payload)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	h.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), svc.updatedID)
	assert.Contains(t, w.Body.String(), `"subject_code":"CS102"`)

	payload, _ = json.Marshal(dto.AssignSubjectRequest{SubjectID: 5, CoursePlanID: 2, StudyYear: 1, StudyTerm: 2, ChooseOne: true})
	c, w = newGinContext(http.MethodPost, "/subject-assignments", payload)
	h.Assign(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, svc.assignReq.ChooseOne)

	c, _ = newGinContext(http.MethodDelete, "/subject-assignments/11", nil)
	c.Params = gin.Params{{Key: "id", Value: "11"}}
	h.Unassign(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, int64(11), svc.removedID)

	svc.err = appErrors.Clone(appErrors.ErrConflict, "subject CS101 is already placed in plan 2")
	c, w = newGinContext(http.MethodPost, "/subject-assignments", payload)
	h.Assign(c)
	assert.Equal(t, http.StatusConflict, w.Code)

	c, w = newGinContext(http.MethodPut, "/subjects/5", []byte("{"))
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	h.Update(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubjectHandlerPrerequisites(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &subjectServiceMock{}
	h := NewSubjectHandler(svc)

	payload, _ := json.Marshal(dto.PrerequisiteRequest{SubjectID: 2, PreviousSubjectID: 1})
	c, w := newGinContext(http.MethodPost, "/prerequisites", payload)
	h.CreatePrerequisite(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"previous_subject_id":1`)

	c, w = newGinContext(http.MethodPut, "/prerequisites", []byte(`{"original":{"subject_id":2,"previous_subject_id":1},"subject_id":2,"previous_subject_id":3}`))
	h.UpdatePrerequisite(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), svc.prereqReq.Original.PreviousSubjectID)
	assert.Equal(t, int64(3), svc.prereqReq.PreviousSubjectID)

	c, _ = newGinContext(http.MethodDelete, "/prerequisites?subject_id=2&previous_subject_id=3", nil)
	h.DeletePrerequisite(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, dto.PrerequisiteRequest{SubjectID: 2, PreviousSubjectID: 3}, svc.deletedReq)

	c, w = newGinContext(http.MethodDelete, "/prerequisites?subject_id=2", nil)
	h.DeletePrerequisite(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = appErrors.Clone(appErrors.ErrNotFound, "prerequisite subject 9 not found")
	c, w = newGinContext(http.MethodPost, "/prerequisites", payload)
	h.CreatePrerequisite(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
