package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/curriculum-api/internal/dto"
	"github.com/noah-isme/curriculum-api/internal/models"
	appErrors "github.com/noah-isme/curriculum-api/pkg/errors"
)

// MaxCategoryDepth is the deepest level a category may have.
const MaxCategoryDepth = models.CategoryLevelSubGroup

type categoryWriter interface {
	Create(ctx context.Context, exec sqlx.ExtContext, category *models.SubjectCategory) error
}

// CategoryTreeBuilder materialises submitted category structures into flat rows.
type CategoryTreeBuilder struct {
	repo categoryWriter
}

// NewCategoryTreeBuilder constructs the builder.
func NewCategoryTreeBuilder(repo categoryWriter) *CategoryTreeBuilder {
	return &CategoryTreeBuilder{repo: repo}
}

// ValidateTree checks names and depth before anything is written.
func ValidateTree(nodes []dto.CategoryNode) error {
	return validateLevel(nodes, 1, "", false)
}

// ValidateAppend checks a tree added to a program that already owns existing categories.
// A root whose name matches an existing level-1 category is a duplicate, as is a name
// listed twice under the same parent.
func ValidateAppend(nodes []dto.CategoryNode, existing []models.SubjectCategory) error {
	roots := make(map[string]struct{})
	for _, c := range existing {
		if c.CategoryLevel == models.CategoryLevelDivision && c.MasterCategory == nil {
			roots[strings.TrimSpace(c.CategoryName)] = struct{}{}
		}
	}
	for _, node := range nodes {
		if _, taken := roots[strings.TrimSpace(node.Name)]; taken {
			return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("category '%s' already exists at level 1", strings.TrimSpace(node.Name)))
		}
	}
	return validateLevel(nodes, 1, "", true)
}

func validateLevel(nodes []dto.CategoryNode, level int, parent string, uniqueSiblings bool) error {
	seen := make(map[string]struct{}, len(nodes))
	for _, node := range nodes {
		name := strings.TrimSpace(node.Name)
		if name == "" {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("category name is empty at level %d", level))
		}
		if level > MaxCategoryDepth {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("category '%s' exceeds the maximum depth of %d", name, MaxCategoryDepth))
		}
		if _, dup := seen[name]; dup && uniqueSiblings {
			msg := fmt.Sprintf("category '%s' is listed twice at level %d", name, level)
			if parent != "" {
				msg = fmt.Sprintf("category '%s' is listed twice under '%s'", name, parent)
			}
			return appErrors.Clone(appErrors.ErrConflict, msg)
		}
		seen[name] = struct{}{}
		if err := validateLevel(node.Children, level+1, name, uniqueSiblings); err != nil {
			return err
		}
	}
	return nil
}

// BuildTree inserts every node depth first. A node is written before its children so its
// id is available as their master category. Callers validate with ValidateTree or ValidateAppend first.
func (b *CategoryTreeBuilder) BuildTree(ctx context.Context, exec sqlx.ExtContext, courseID int64, nodes []dto.CategoryNode) ([]dto.CreatedCategory, error) {
	created := make([]dto.CreatedCategory, 0, dto.CountNodes(nodes))
	if err := b.insertLevel(ctx, exec, courseID, nodes, 1, nil, &created); err != nil {
		return nil, err
	}
	return created, nil
}

func (b *CategoryTreeBuilder) insertLevel(ctx context.Context, exec sqlx.ExtContext, courseID int64, nodes []dto.CategoryNode, level int, parentID *int64, created *[]dto.CreatedCategory) error {
	for _, node := range nodes {
		category := &models.SubjectCategory{
			CategoryName:   strings.TrimSpace(node.Name),
			CategoryLevel:  level,
			MasterCategory: parentID,
			CourseID:       courseID,
		}
		if err := b.repo.Create(ctx, exec, category); err != nil {
			return err
		}
		*created = append(*created, dto.CreatedCategory{
			ID:             category.ID,
			Name:           category.CategoryName,
			Level:          level,
			MasterCategory: parentID,
		})
		id := category.ID
		if err := b.insertLevel(ctx, exec, courseID, node.Children, level+1, &id, created); err != nil {
			return err
		}
	}
	return nil
}

// BuildCatalog inserts the selected checkbox categories level by level, in submission
// order within a level. Unknown and repeated keys are ignored and a key whose parent was
// not selected is skipped and reported.
func (b *CategoryTreeBuilder) BuildCatalog(ctx context.Context, exec sqlx.ExtContext, courseID int64, keys []string) ([]dto.CreatedCategory, []string, error) {
	seen := make(map[string]struct{}, len(keys))
	selected := make([]CatalogCategory, 0, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if entry, ok := catalogEntry(key); ok {
			selected = append(selected, entry)
		}
	}

	ids := make(map[string]int64)
	created := make([]dto.CreatedCategory, 0, len(selected))
	skipped := make([]string, 0)

	for level := models.CategoryLevelDivision; level <= models.CategoryLevelSubGroup; level++ {
		for _, entry := range selected {
			if entry.Level != level {
				continue
			}
			var parentID *int64
			if entry.ParentKey != "" {
				id, ok := ids[entry.ParentKey]
				if !ok {
					skipped = append(skipped, entry.Key)
					continue
				}
				parentID = &id
			}
			category := &models.SubjectCategory{
				CategoryName:   entry.Name,
				CategoryLevel:  entry.Level,
				MasterCategory: parentID,
				CourseID:       courseID,
			}
			if err := b.repo.Create(ctx, exec, category); err != nil {
				return nil, nil, err
			}
			ids[entry.Key] = category.ID
			created = append(created, dto.CreatedCategory{
				ID:             category.ID,
				Key:            entry.Key,
				Name:           entry.Name,
				Level:          entry.Level,
				MasterCategory: parentID,
			})
		}
	}
	return created, skipped, nil
}
