package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/curriculum-api/internal/models"
	appErrors "github.com/noah-isme/curriculum-api/pkg/errors"
	"github.com/noah-isme/curriculum-api/pkg/tabular"
)

const importCancelCheckInterval = 100

type courseLister interface {
	ListAll(ctx context.Context, exec sqlx.ExtContext) ([]models.Course, error)
}

type subjectStore interface {
	resolverSubjectSource
	Create(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error
}

type assignmentStore interface {
	Exists(ctx context.Context, exec sqlx.ExtContext, subjectID, planID int64) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.SubjectAssignment) error
}

// ImportRepositories groups the stores touched by a tabular import.
type ImportRepositories struct {
	Courses     courseLister
	Plans       resolverPlanSource
	Categories  resolverCategorySource
	Subjects    subjectStore
	Assignments assignmentStore
}

// ImportOptions tunes the import pipeline.
type ImportOptions struct {
	MaxFileSizeBytes  int64
	AllowedExtensions []string
	AdvisoryLock      bool
}

// ImportService reconciles tabular subject imports into the curriculum store. A run is
// all or nothing: the first failing row rolls back every change of the run.
type ImportService struct {
	uow     unitOfWork
	locker  advisoryLocker
	repos   ImportRepositories
	metrics *MetricsService
	logger  *zap.Logger
	opts    ImportOptions
}

// NewImportService constructs the pipeline. locker may be nil when advisory locking is off.
func NewImportService(uow unitOfWork, locker advisoryLocker, repos ImportRepositories, metrics *MetricsService, logger *zap.Logger, opts ImportOptions) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{uow: uow, locker: locker, repos: repos, metrics: metrics, logger: logger, opts: opts}
}

// Import reads an uploaded file and runs it through the pipeline.
func (s *ImportService) Import(ctx context.Context, r io.Reader, filename string) (*models.ImportResult, error) {
	if err := s.checkExtension(filename); err != nil {
		return nil, err
	}
	if s.opts.MaxFileSizeBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, s.opts.MaxFileSizeBytes+1))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read upload")
		}
		if int64(len(data)) > s.opts.MaxFileSizeBytes {
			return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("file exceeds %d bytes", s.opts.MaxFileSizeBytes))
		}
		r = bytes.NewReader(data)
	}

	table, err := tabular.Read(r, filename)
	if err != nil {
		if errors.Is(err, tabular.ErrEmpty) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "file is empty")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "file could not be parsed")
	}
	return s.ImportTable(ctx, table, filename)
}

func (s *ImportService) checkExtension(filename string) error {
	if len(s.opts.AllowedExtensions) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range s.opts.AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file type '%s' is not supported", ext))
}

// ImportTable runs the pipeline over an already parsed table.
func (s *ImportService) ImportTable(ctx context.Context, table *tabular.Table, filename string) (*models.ImportResult, error) {
	start := time.Now()
	result := &models.ImportResult{RunID: uuid.NewString(), FileName: filename}
	log := s.logger.With(zap.String("run_id", result.RunID), zap.String("file", filename))
	log.Info("import started", zap.Int("rows", len(table.Rows)))

	err := s.run(ctx, table, result)
	result.Duration = time.Since(start)
	result.DurationMillis = result.Duration.Milliseconds()

	if err != nil {
		outcome := ImportOutcomeFailed
		code := appErrors.FromError(err).Code
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome, code = ImportOutcomeCancelled, "CANCELLED"
		}
		s.metrics.ObserveImport(outcome, code, 0, result.Duration)
		log.Warn("import rolled back", zap.String("code", code), zap.Error(err), zap.Duration("duration", result.Duration))
		return nil, err
	}

	s.metrics.ObserveImport(ImportOutcomeSuccess, "", result.RowsProcessed, result.Duration)
	s.metrics.ObserveImportEntities("subject", "created", result.SubjectsCreated)
	s.metrics.ObserveImportEntities("subject", "reused", result.SubjectsReused)
	s.metrics.ObserveImportEntities("assignment", "created", result.AssignmentsCreated)
	s.metrics.ObserveImportEntities("assignment", "skipped", result.AssignmentsSkipped)
	log.Info("import committed",
		zap.Int("rows", result.RowsProcessed),
		zap.Int("subjects_created", result.SubjectsCreated),
		zap.Int("subjects_reused", result.SubjectsReused),
		zap.Int("assignments_created", result.AssignmentsCreated),
		zap.Int("assignments_skipped", result.AssignmentsSkipped),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (s *ImportService) run(ctx context.Context, table *tabular.Table, result *models.ImportResult) error {
	cols, missing := mapColumns(table)
	if missing != "" {
		return rowError(appErrors.ErrValidation, 1, missing, "", fmt.Sprintf("header row: column '%s' is missing", missing))
	}
	if len(table.Rows) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "file has no data rows")
	}

	return s.uow.WithinTransaction(ctx, func(exec sqlx.ExtContext) error {
		courses, err := s.repos.Courses.ListAll(ctx, exec)
		if err != nil {
			return err
		}
		if s.opts.AdvisoryLock && s.locker != nil {
			if err := s.lockPrograms(ctx, exec, NewProgramIndex(courses), cols, table.Rows); err != nil {
				return err
			}
		}

		// The rest of the snapshot is read after the locks are held.
		resolver, err := LoadEntityResolver(ctx, exec, courses, s.repos.Plans, s.repos.Categories, s.repos.Subjects)
		if err != nil {
			return err
		}

		// Counters are reset so a failed run reports nothing.
		tally := *result
		for i, row := range table.Rows {
			if i%importCancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			if err := s.reconcileRow(ctx, exec, resolver, cols, row, &tally); err != nil {
				return err
			}
			tally.RowsProcessed++
		}
		*result = tally
		return nil
	})
}

// lockPrograms locks every course the rows resolve to. Names that resolve to no course are
// left to fail during row resolution.
func (s *ImportService) lockPrograms(ctx context.Context, exec sqlx.ExtContext, programs ProgramIndex, cols columnMap, rows []tabular.Row) error {
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		if id, ok := programs.Resolve(cols.value(row, colProgram)); ok {
			ids = append(ids, id)
		}
	}
	return s.locker.LockCourses(ctx, exec, ids)
}

// parsedRow holds the typed values of one import row.
type parsedRow struct {
	courseID   int64
	planID     int64
	categoryID int64
	code       string
	nameTH     string
	nameEN     *string
	hours      models.SubCredit
	year       int
	term       int
	chooseOne  bool
}

func (s *ImportService) reconcileRow(ctx context.Context, exec sqlx.ExtContext, resolver *EntityResolver, cols columnMap, row tabular.Row, tally *models.ImportResult) error {
	parsed, err := parseRow(resolver, cols, row)
	if err != nil {
		return err
	}

	subjectID, exists := resolver.ResolveSubject(parsed.courseID, parsed.code)
	if exists {
		tally.SubjectsReused++
	} else {
		subCreditID, ok := models.LookupSubCredit(parsed.hours)
		if !ok {
			return rowError(appErrors.ErrValidation, row.Line, cols.header(colCredit), parsed.hours.String(),
				fmt.Sprintf("row %d: no sub-credit profile for credit %d, lecture %d, lab %d, self study %d",
					row.Line, parsed.hours.Credit, parsed.hours.Lecture, parsed.hours.Lab, parsed.hours.SelfStudy))
		}
		subject := &models.Subject{
			CourseID:          parsed.courseID,
			SubjectTypeID:     models.DeriveSubjectType(parsed.hours.Lecture, parsed.hours.Lab),
			SubjectCategoryID: parsed.categoryID,
			SubCreditID:       subCreditID,
			SubjectCode:       parsed.code,
			NameSubjectThai:   parsed.nameTH,
			NameSubjectEng:    parsed.nameEN,
			Credit:            parsed.hours.Credit,
		}
		if err := s.repos.Subjects.Create(ctx, exec, subject); err != nil {
			return rowStoreError(err, row.Line)
		}
		subjectID = subject.ID
		resolver.RememberSubject(parsed.courseID, parsed.code, subjectID)
		tally.SubjectsCreated++
	}

	placed, err := placeSubject(ctx, exec, s.repos.Assignments, &models.SubjectAssignment{
		SubjectID:    subjectID,
		CoursePlanID: parsed.planID,
		StudyYear:    parsed.year,
		StudyTerm:    parsed.term,
		ChooseOne:    parsed.chooseOne,
	})
	if err != nil {
		return rowStoreError(err, row.Line)
	}
	if placed {
		tally.AssignmentsCreated++
	} else {
		tally.AssignmentsSkipped++
	}
	return nil
}

// placeSubject inserts assignment unless its subject is already placed in the plan. It
// reports whether a row was written.
func placeSubject(ctx context.Context, exec sqlx.ExtContext, store assignmentStore, assignment *models.SubjectAssignment) (bool, error) {
	linked, err := store.Exists(ctx, exec, assignment.SubjectID, assignment.CoursePlanID)
	if err != nil {
		return false, err
	}
	if linked {
		return false, nil
	}
	if err := store.Create(ctx, exec, assignment); err != nil {
		return false, err
	}
	return true, nil
}

// normalizeSubjectCode trims a subject code and strips the apostrophe spreadsheets prepend
// to keep leading zeros.
func normalizeSubjectCode(raw string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "'"))
}

func parseRow(resolver *EntityResolver, cols columnMap, row tabular.Row) (*parsedRow, error) {
	line := row.Line
	for _, key := range requiredRowFields {
		if cols.value(row, key) == "" {
			field := cols.header(key)
			return nil, rowError(appErrors.ErrValidation, line, field, "", fmt.Sprintf("row %d: column '%s' is empty", line, field))
		}
	}

	programName := cols.value(row, colProgram)
	courseID, ok := resolver.ResolveProgram(programName)
	if !ok {
		return nil, rowError(appErrors.ErrResolution, line, cols.header(colProgram), programName,
			fmt.Sprintf("row %d: program '%s' not found", line, programName))
	}

	planID, planLabel, ok := resolver.ResolvePlan(courseID, cols.value(row, colPlan))
	if !ok {
		return nil, rowError(appErrors.ErrResolution, line, cols.header(colPlan), planLabel,
			fmt.Sprintf("row %d: plan '%s' not found for program '%s'", line, planLabel, programName))
	}

	group := cols.value(row, colCategoryGroup)
	categoryID, ok := resolver.ResolveCategory(courseID, group)
	if !ok {
		return nil, rowError(appErrors.ErrResolution, line, cols.header(colCategoryGroup), group,
			fmt.Sprintf("row %d: category group '%s' not found for program '%s'", line, group, programName))
	}

	code := normalizeSubjectCode(cols.value(row, colSubjectCode))
	if code == "" {
		field := cols.header(colSubjectCode)
		return nil, rowError(appErrors.ErrValidation, line, field, "", fmt.Sprintf("row %d: column '%s' is empty", line, field))
	}

	parsed := &parsedRow{
		courseID:   courseID,
		planID:     planID,
		categoryID: categoryID,
		code:       code,
		nameTH:     cols.value(row, colNameTH),
	}
	if en := cols.value(row, colNameEN); en != "" {
		parsed.nameEN = &en
	}

	ints := []struct {
		key    string
		target *int
	}{
		{colCredit, &parsed.hours.Credit},
		{colStudyYear, &parsed.year},
		{colStudyTerm, &parsed.term},
		{colLectureHours, &parsed.hours.Lecture},
		{colLabHours, &parsed.hours.Lab},
		{colSelfHours, &parsed.hours.SelfStudy},
	}
	for _, field := range ints {
		raw := cols.value(row, field.key)
		n, err := strconv.Atoi(raw)
		if err != nil {
			header := cols.header(field.key)
			return nil, rowError(appErrors.ErrValidation, line, header, raw,
				fmt.Sprintf("row %d: column '%s' is not a valid integer: '%s'", line, header, raw))
		}
		*field.target = n
	}

	switch flag := cols.value(row, colChooseOne); flag {
	case "", "0":
	case "1":
		parsed.chooseOne = true
	default:
		header := cols.header(colChooseOne)
		return nil, rowError(appErrors.ErrValidation, line, header, flag,
			fmt.Sprintf("row %d: column '%s' must be 0 or 1: '%s'", line, header, flag))
	}
	return parsed, nil
}

func rowError(kind *appErrors.Error, line int, field, value, message string) error {
	return appErrors.WithDetails(appErrors.Clone(kind, message),
		models.RowError{Row: line, Field: field, Value: value, Reason: message})
}

// rowStoreError classifies a store failure and attaches the row it happened on.
func rowStoreError(err error, line int) error {
	classified := ClassifyStoreError(err, "store write failed")
	var appErr *appErrors.Error
	if !errors.As(classified, &appErr) {
		return classified
	}
	out := appErrors.Clone(appErr, fmt.Sprintf("row %d: %s", line, appErr.Message))
	return appErrors.WithDetails(out, models.RowError{Row: line, Reason: out.Message})
}
