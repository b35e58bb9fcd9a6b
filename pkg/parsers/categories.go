package parsers

import (
	"strings"

	"github.com/catalogport/plenty-export/pkg/plenty"
)

type categoryDetail struct {
	name   string
	urlKey string
}

// Categories maps category ids to their language-specific names and,
// after the branch pass, to their full path from the category root.
type Categories struct {
	lang      string
	details   map[int]categoryDetail
	fullPaths map[int]string
}

// NewCategories creates a categories parser for one text language.
func NewCategories(lang string) *Categories {
	return &Categories{
		lang:      lang,
		details:   make(map[int]categoryDetail),
		fullPaths: make(map[int]string),
	}
}

// Parse consumes one page of GET categories.
func (c *Categories) Parse(page *plenty.Page) error {
	if !page.HasEntries() {
		handleEmptyData("categories")
		return nil
	}

	entries, err := plenty.DecodeEntries[plenty.Category](page)
	if err != nil {
		return err
	}
	for _, category := range entries {
		for _, detail := range category.Details {
			if !sameLang(detail.Lang, c.lang) {
				continue
			}
			c.details[detail.CategoryID] = categoryDetail{
				name:   detail.Name,
				urlKey: detail.NameURL,
			}
		}
	}
	return nil
}

// ParseBranches consumes one page of GET category_branches and builds
// the full path of each branch leaf from the per-level category ids.
func (c *Categories) ParseBranches(page *plenty.Page) error {
	if !page.HasEntries() {
		handleEmptyData("category branches")
		return nil
	}

	entries, err := plenty.DecodeEntries[plenty.CategoryBranch](page)
	if err != nil {
		return err
	}
	for _, branch := range entries {
		var (
			parts  []string
			lastID int
		)
		for _, categoryID := range branch.Levels() {
			if categoryID == 0 {
				break
			}
			detail, ok := c.details[categoryID]
			if !ok || detail.urlKey == "" {
				continue
			}
			parts = append(parts, detail.urlKey)
			lastID = categoryID
		}
		if len(parts) > 0 {
			c.fullPaths[lastID] = "/" + strings.Join(parts, "/") + "/"
		}
	}
	return nil
}

// Name returns the category name, or an empty value for unknown ids.
func (c *Categories) Name(categoryID int) string {
	if detail, ok := c.details[categoryID]; ok {
		return detail.name
	}
	return DefaultEmptyValue
}

// FullPath returns the category's full path, or an empty value.
func (c *Categories) FullPath(categoryID int) string {
	if path, ok := c.fullPaths[categoryID]; ok {
		return path
	}
	return DefaultEmptyValue
}
