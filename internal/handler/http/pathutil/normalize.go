package pathutil

import (
	"regexp"
	"strings"
)

type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// most specific first
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/articles/\d+$`), Template: "/articles/:id"},
	{Pattern: regexp.MustCompile(`^/articles/\d+/views$`), Template: "/articles/:id/views"},
	{Pattern: regexp.MustCompile(`^/articles/\d+/related$`), Template: "/articles/:id/related"},
	{Pattern: regexp.MustCompile(`^/articles/\d+/live-updates$`), Template: "/articles/:id/live-updates"},
	{Pattern: regexp.MustCompile(`^/articles/\d+/live-updates/demo$`), Template: "/articles/:id/live-updates/demo"},
	{Pattern: regexp.MustCompile(`^/live-updates/\d+$`), Template: "/live-updates/:id"},
	{Pattern: regexp.MustCompile(`^/categories/\d+$`), Template: "/categories/:id"},
	{Pattern: regexp.MustCompile(`^/categories/slug/[^/]+$`), Template: "/categories/slug/:slug"},
	{Pattern: regexp.MustCompile(`^/swagger/.*$`), Template: "/swagger/*"},
}

// NormalizePath replaces IDs and slugs in known routes with placeholders so
// metric labels stay bounded. Unknown paths are returned unchanged, without
// query string or trailing slash.
//
//	NormalizePath("/articles/123")               // "/articles/:id"
//	NormalizePath("/articles/2/live-updates")    // "/articles/:id/live-updates"
//	NormalizePath("/categories/slug/sport")      // "/categories/slug/:slug"
//	NormalizePath("/articles/search?q=x")        // "/articles/search"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
