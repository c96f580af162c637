package domain

import "errors"

var (
	// ErrEmptyQuery is returned for blank or whitespace-only manual asks.
	ErrEmptyQuery = errors.New("empty query")
	// ErrBusy is returned when another ask or a batch run is in progress.
	ErrBusy = errors.New("session busy")
	// ErrTransport marks a backend call that could not complete.
	ErrTransport = errors.New("transport failure")
	// ErrMalformedBatchSource marks a batch question set that could not be loaded.
	ErrMalformedBatchSource = errors.New("malformed batch source")
	// ErrMessageNotFound is returned when a message index is out of range.
	ErrMessageNotFound = errors.New("message not found")
	// ErrInvalidReaction is returned for emoji outside the fixed set.
	ErrInvalidReaction = errors.New("invalid reaction")
	// ErrRunNotFound is returned when a traced run does not exist.
	ErrRunNotFound = errors.New("run not found")
)
