package queue

import "errors"

var (
	// ErrClosed is returned by EnqueueErr after Close.
	ErrClosed = errors.New("queue closed")
	// ErrFull is returned by EnqueueErr when the queue is at capacity.
	ErrFull = errors.New("queue full")
)
