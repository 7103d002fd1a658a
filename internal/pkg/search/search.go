// Package search holds helpers shared by the SQL article search implementations.
package search

import (
	"strings"
	"time"
)

// DefaultSearchTimeout bounds a single search query.
const DefaultSearchTimeout = 5 * time.Second

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE/ILIKE wildcards in keyword and wraps it for a contains match.
// Queries using the result must declare ESCAPE '\'.
func EscapeLike(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}

// NormalizeKeyword trims the keyword and collapses inner whitespace.
func NormalizeKeyword(keyword string) string {
	return strings.Join(strings.Fields(keyword), " ")
}
