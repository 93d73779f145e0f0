package service

import (
	"errors"

	"github.com/okian/swingiq/internal/adapters/repository"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrBackpressure = errors.New("analysis queue is full")
	ErrDuplicate    = repository.ErrDuplicate
	ErrNotFound     = repository.ErrNotFound
)
