package pagination

type Metadata struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// HasNext reports whether a page follows the current one.
func (m Metadata) HasNext() bool { return m.Page < m.TotalPages }
