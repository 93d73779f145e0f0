package swingctl

import "errors"

var (
	// ErrBadPattern is returned for a malformed glob pattern.
	ErrBadPattern = errors.New("invalid glob pattern")
	// ErrNoRecords is returned when a pattern matches no files.
	ErrNoRecords = errors.New("no record files matched")
	// ErrUnsupportedFile is returned for extensions other than .json, .yaml and .yml.
	ErrUnsupportedFile = errors.New("unsupported record file")
	// ErrSubmitFailed is returned when at least one record was rejected by the server.
	ErrSubmitFailed = errors.New("some records were not accepted")
)
