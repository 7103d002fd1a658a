// Package text provides rune-aware helpers for turning article HTML into
// plain text summaries and excerpts.
package text

// CountRunes counts Unicode characters rather than bytes, so multi-byte
// scripts and emoji count as one character each.
//
//	CountRunes("hello")   // 5
//	CountRunes("日本語")    // 3
//	CountRunes("Hello👋") // 6
func CountRunes(text string) int {
	return len([]rune(text))
}

// Truncate cuts s to at most limit runes. When it has to cut, it backs off to
// the last space if one falls in the final fifth of the window and appends an
// ellipsis. The ellipsis is not counted against limit.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := limit
	for i := limit; i >= limit*4/5; i-- {
		if runes[i] == ' ' {
			cut = i
			break
		}
	}
	out := []rune(trimRightSpace(string(runes[:cut])))
	return string(out) + "…"
}

func trimRightSpace(s string) string {
	end := len(s)
	for end > 0 && (s[end-1] == ' ' || s[end-1] == '\n' || s[end-1] == '\t') {
		end--
	}
	return s[:end]
}
