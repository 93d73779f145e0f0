package phase

import "errors"

var (
	// ErrInvalidSeries is returned for pose series the detector cannot read:
	// too few frames, non-increasing timestamps or non-finite samples.
	ErrInvalidSeries = errors.New("invalid pose series")
)
