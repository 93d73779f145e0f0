package benchmark

import "errors"

// Sentinel kinds for benchmark errors.
var (
	ErrInvalidRange   = errors.New("invalid benchmark range")
	ErrInvalidWeights = errors.New("invalid weight table")
	ErrUnknownMetric  = errors.New("unknown benchmark metric")
	ErrUnknownProfile = errors.New("unknown ground truth profile")
)
