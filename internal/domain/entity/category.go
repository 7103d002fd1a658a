package entity

import (
	"strings"
	"unicode"
)

// Category defaults applied when a field is left blank on create.
const (
	DefaultCategoryName  = "New Category"
	DefaultCategoryColor = "#6C757D"
	DefaultCategoryIcon  = "Tag"
)

// Category groups articles. Slug is unique and URL-safe; SortOrder defines display order.
type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	Color       string
	Icon        string
	SortOrder   int
	IsActive    bool
}

func (c *Category) GetID() int64 { return c.ID }

// Validate checks the fields required before a category can be stored.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if c.Slug == "" || Slugify(c.Slug) != c.Slug {
		return &ValidationError{Field: "slug", Message: "slug must be lowercase letters, digits and dashes"}
	}
	return nil
}

// Slugify derives a URL-safe slug: lowercase, whitespace runs become "-",
// anything other than letters, digits and dashes is dropped.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsSpace(r) || r == '-':
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
