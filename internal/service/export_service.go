package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/curriculum-api/internal/models"
	appErrors "github.com/noah-isme/curriculum-api/pkg/errors"
	"github.com/noah-isme/curriculum-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type planFinder interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.CoursePlan, error)
}

type planRowsReader interface {
	ListPlanRows(ctx context.Context, exec sqlx.ExtContext, planID int64) ([]models.PlanSubjectRow, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the subjects of a study plan.
type ExportService struct {
	plans   planFinder
	rows    planRowsReader
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	enabled bool
}

// NewExportService constructs the service.
func NewExportService(plans planFinder, rows planRowsReader, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger, enabled bool) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{plans: plans, rows: rows, csv: csv, pdf: pdf, logger: logger, enabled: enabled}
}

var planExportColumns = []export.Column{
	{Key: "year", Label: "ปีที่", Weight: 0.6},
	{Key: "term", Label: "ภาคเรียน", Weight: 0.8},
	{Key: "code", Label: "รหัสวิชา", Weight: 1.2},
	{Key: "name_th", Label: "ชื่อวิชา", Weight: 3},
	{Key: "name_en", Label: "Subject", Weight: 3},
	{Key: "credit", Label: "หน่วยกิต", Weight: 1.2},
	{Key: "category", Label: "กลุ่มวิชา", Weight: 2},
	{Key: "choose_one", Label: "เลือก", Weight: 0.6},
}

// ExportPlan renders every assignment of the plan ordered by year, term and code.
func (s *ExportService) ExportPlan(ctx context.Context, planID int64, format string) (*ExportFile, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "exports are disabled")
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format '%s'", format))
	}

	plan, err := s.plans.FindByID(ctx, nil, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course plan not found")
		}
		return nil, ClassifyStoreError(err, "failed to load course plan")
	}
	rows, err := s.rows.ListPlanRows(ctx, nil, planID)
	if err != nil {
		return nil, ClassifyStoreError(err, "failed to list plan subjects")
	}

	dataset := planDataset(rows)
	file := &ExportFile{Filename: fmt.Sprintf("plan-%d.%s", planID, format)}
	switch format {
	case ExportFormatPDF:
		file.ContentType = "application/pdf"
		file.Body, err = s.pdf.Render(dataset, plan.PlanCourse)
	default:
		file.ContentType = "text/csv; charset=utf-8"
		file.Body, err = s.csv.Render(dataset)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.logger.Info("plan exported", zap.Int64("plan_id", planID), zap.String("format", format), zap.Int("rows", len(rows)))
	return file, nil
}

func planDataset(rows []models.PlanSubjectRow) export.Dataset {
	data := export.Dataset{Columns: planExportColumns, Rows: make([]map[string]string, 0, len(rows))}
	total := 0
	for _, r := range rows {
		nameEN := ""
		if r.NameSubjectEng != nil {
			nameEN = *r.NameSubjectEng
		}
		chooseOne := ""
		if r.ChooseOne {
			chooseOne = "1"
		}
		data.Rows = append(data.Rows, map[string]string{
			"year":       strconv.Itoa(r.StudyYear),
			"term":       strconv.Itoa(r.StudyTerm),
			"code":       r.SubjectCode,
			"name_th":    r.NameSubjectThai,
			"name_en":    nameEN,
			"credit":     models.SubCredit{Credit: r.Credit, Lecture: r.Lecture, Lab: r.Lab, SelfStudy: r.SelfStudy}.String(),
			"category":   r.CategoryName,
			"choose_one": chooseOne,
		})
		total += r.Credit
	}
	data.Footer = map[string]string{"name_th": "รวม", "credit": strconv.Itoa(total)}
	return data
}
