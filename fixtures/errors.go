package fixtures

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned (possibly wrapped) by a ResourceLoader when a fixture does not
	// exist. It never fails a case on its own.
	ErrNotFound = errors.New("fixture not found")

	// ErrExpectedMissing means both inputs exist but neither expected fixture does.
	ErrExpectedMissing = errors.New("expected output missing")
)

// TransportError is a load failure other than a missing fixture.
type TransportError struct {
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FilterError is a failure of the editor's filtering entry point.
type FilterError struct {
	Err error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("paste filtering failed: %v", e.Err)
}

func (e *FilterError) Unwrap() error {
	return e.Err
}
