package service

import (
	"context"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/curriculum-api/internal/models"
)

type creditRequirementWriter interface {
	Upsert(ctx context.Context, exec sqlx.ExtContext, req *models.CreditRequirement) error
}

// CreditAggregator persists minimum credits per plan and category.
type CreditAggregator struct {
	repo creditRequirementWriter
}

// NewCreditAggregator constructs the aggregator.
func NewCreditAggregator(repo creditRequirementWriter) *CreditAggregator {
	return &CreditAggregator{repo: repo}
}

// Apply writes one requirement per category with a positive credit, in category id order.
// Categories without a positive credit are not persisted.
func (a *CreditAggregator) Apply(ctx context.Context, exec sqlx.ExtContext, planID int64, credits map[int64]int) ([]models.CreditRequirement, error) {
	categoryIDs := make([]int64, 0, len(credits))
	for id, credit := range credits {
		if credit > 0 {
			categoryIDs = append(categoryIDs, id)
		}
	}
	sort.Slice(categoryIDs, func(i, j int) bool { return categoryIDs[i] < categoryIDs[j] })

	out := make([]models.CreditRequirement, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		req := models.CreditRequirement{CoursePlanID: planID, SubjectCategoryID: id, CreditRequire: credits[id]}
		if err := a.repo.Upsert(ctx, exec, &req); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// CatalogDefaults maps the program's categories that match a checkbox catalog entry to
// that entry's default minimum credit.
func CatalogDefaults(categories []models.SubjectCategory) map[int64]int {
	defaults := catalogDefaultCredits()
	out := make(map[int64]int)
	for _, c := range categories {
		if credit, ok := defaults[catalogNameKey{c.CategoryLevel, strings.TrimSpace(c.CategoryName)}]; ok {
			out[c.ID] = credit
		}
	}
	return out
}

// Rollup attaches to every requirement the sum of its direct children's credits. It is
// display only and never changes what is stored.
func Rollup(details []models.CreditRequirementDetail) []models.CreditSummaryEntry {
	childTotals := make(map[int64]int, len(details))
	for _, d := range details {
		if d.MasterCategory != nil {
			childTotals[*d.MasterCategory] += d.CreditRequire
		}
	}
	entries := make([]models.CreditSummaryEntry, len(details))
	for i, d := range details {
		entries[i] = models.CreditSummaryEntry{CreditRequirementDetail: d, ChildrenTotal: childTotals[d.SubjectCategoryID]}
	}
	return entries
}
