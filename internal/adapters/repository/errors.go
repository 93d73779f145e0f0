package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("analysis not found")
	ErrDuplicate    = errors.New("analysis already stored")
	ErrInvalidLimit = errors.New("invalid history limit")
)
