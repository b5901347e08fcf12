package queries

import "errors"

var (
	ErrInvalidCursor = errors.New("invalid cursor")
	ErrOrderAccess   = errors.New("order access denied")
)
