package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNothingSelected - a removal or export was requested with an empty selection.
	ErrNothingSelected = errors.New("no redirects selected")
	// ErrInvalidPageSize - page size outside of PageSizes.
	ErrInvalidPageSize = errors.New("invalid page size")
)

// ValidationError - user input rejected before any request is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// BackendRequestError - a failed call to the redirects backend.
type BackendRequestError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *BackendRequestError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
}

func (e *BackendRequestError) Unwrap() error {
	return e.Err
}

// PartialFailureError - the backend accepted the request but refused some items.
type PartialFailureError struct {
	Op     string
	Failed []FailedItem
}

func (e *PartialFailureError) Error() string {
	paths := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		if f.Message != "" {
			paths = append(paths, f.Path+" ("+f.Message+")")
			continue
		}
		paths = append(paths, f.Path)
	}
	return fmt.Sprintf("%s: %d item(s) failed: %s", e.Op, len(e.Failed), strings.Join(paths, ", "))
}
