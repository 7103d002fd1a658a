package notify

import "errors"

var (
	ErrChannelDisabled = errors.New("channel is disabled")
	ErrInvalidArticle  = errors.New("invalid article data")
	ErrInvalidUpdate   = errors.New("invalid live update data")
)
