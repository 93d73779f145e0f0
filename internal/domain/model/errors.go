package model

import "errors"

var (
	// ErrInvalidRecord is returned when a swing record is missing required fields.
	ErrInvalidRecord = errors.New("invalid swing record")
)
