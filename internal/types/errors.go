package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrInvalidURL     = errors.New("invalid URL")
	ErrEmptyResponse  = errors.New("empty response body")
	ErrColumnMismatch = errors.New("row width does not match column schema")
	ErrMissingNode    = errors.New("required node not found")
	ErrMissingDelim   = errors.New("delimiter not found")
)

// FetchError wraps errors that occur during fetching. A FetchError always
// aborts the walk that triggered it.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError reports a required node that is absent from a document,
// meaning the page structure is not recognized at all.
type ExtractionError struct {
	URL     string
	Field   string
	Locator string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error for %s (field=%s locator=%q): %v", e.URL, e.Field, e.Locator, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// SplitError reports a field whose text was expected to contain a
// delimiter but did not.
type SplitError struct {
	URL   string
	Field string
	Text  string
	Sep   string
	Err   error
}

func (e *SplitError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed %s %q for %s (sep=%q): %v", e.Field, e.Text, e.URL, e.Sep, e.Err)
	}
	return fmt.Sprintf("malformed field %q (sep=%q): %v", e.Text, e.Sep, e.Err)
}

func (e *SplitError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during storage/export.
type StorageError struct {
	Backend string
	Table   string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s, table %s): %v", e.Backend, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PipelineError wraps errors that occur in the row pipeline.
type PipelineError struct {
	Stage string
	Row   []string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline error at stage %q: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
