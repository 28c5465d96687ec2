package utils

import (
	"strings"

	"github.com/Govind-619/StoreSphere/models"
)

// Breadcrumb is one step of a resolved category path
type Breadcrumb struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// CategoryPath is the result of resolving "<category>/<sub>/..." against the tree
type CategoryPath struct {
	Category    *models.Category    `json:"category"`
	SubCategory *models.SubCategory `json:"subcategory,omitempty"`
	Breadcrumbs []Breadcrumb        `json:"breadcrumbs"`
	IsLeaf      bool                `json:"is_leaf"`
}

// ResolveCategoryPath finds the base category by case-insensitive name and walks the
// slash-separated sub path through its children. Unknown segments are skipped.
// It returns nil when the base category does not exist.
func ResolveCategoryPath(tree []models.Category, baseName, subPath string) *CategoryPath {
	var base *models.Category
	for i := range tree {
		if strings.EqualFold(strings.TrimSpace(tree[i].Name), strings.TrimSpace(baseName)) {
			base = &tree[i]
			break
		}
	}
	if base == nil {
		return nil
	}

	result := &CategoryPath{
		Category:    base,
		Breadcrumbs: []Breadcrumb{{ID: base.ID, Name: base.Name, Level: 0}},
	}

	for _, segment := range strings.Split(subPath, "/") {
		segment = strings.TrimSpace(segment)
		if segment == "" || result.SubCategory != nil {
			// Subcategories are leaves; deeper segments cannot match.
			continue
		}
		for i := range base.SubCategories {
			if strings.EqualFold(base.SubCategories[i].Name, segment) {
				result.SubCategory = &base.SubCategories[i]
				result.Breadcrumbs = append(result.Breadcrumbs, Breadcrumb{
					ID:    base.SubCategories[i].ID,
					Name:  base.SubCategories[i].Name,
					Level: 1,
				})
				break
			}
		}
	}

	result.IsLeaf = result.SubCategory != nil || len(base.SubCategories) == 0
	return result
}

// normalizeName lower-cases and strips one trailing "s" so "Mobiles" matches "Mobile"
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimSuffix(s, "s")
}

// ProductInPath reports whether the product belongs under the resolved path, by
// category name or tag at the base level and by subcategory, tag or name below it.
func ProductInPath(p *models.Product, path *CategoryPath) bool {
	base := normalizeName(path.Category.Name)
	matchesBase := (p.CategoryID != nil && *p.CategoryID == path.Category.ID) || normalizeName(p.CategoryName) == base
	if !matchesBase {
		for _, tag := range p.Tags {
			if normalizeName(tag) == base {
				matchesBase = true
				break
			}
		}
	}
	if !matchesBase {
		return false
	}
	if path.SubCategory == nil {
		return true
	}

	leaf := normalizeName(path.SubCategory.Name)
	for _, sub := range p.SubCategories {
		if sub.ID == path.SubCategory.ID || normalizeName(sub.Name) == leaf {
			return true
		}
	}
	for _, tag := range p.Tags {
		if normalizeName(tag) == leaf {
			return true
		}
	}
	return strings.Contains(strings.ToLower(p.Name), leaf)
}
