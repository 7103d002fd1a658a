package summarizer

import (
	"context"

	"newshub/internal/utils/text"
)

// NoOp truncates the text locally. It is used when no provider is configured.
type NoOp struct {
	Limit int
}

func NewNoOp(limit int) *NoOp {
	return &NoOp{Limit: limit}
}

func (n *NoOp) Summarize(_ context.Context, body string) (string, error) {
	return text.Truncate(body, n.Limit), nil
}
