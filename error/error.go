package error

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/peak/s5xfer/storage"
)

// Error is the type that implements error interface.
type Error struct {
	// Op is the operation being performed, usually the name of the method
	// being invoked (upload, download, etc.)
	Op string
	// Src is the source argument
	Src string
	// Dst is the destination argument
	Dst string
	// The underlying error if any
	Err error
}

// FullCommand returns the command string that occurred at.
func (e *Error) FullCommand() string {
	return fmt.Sprintf("%v %v %v", e.Op, e.Src, e.Dst)
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Err.Error()
}

// Unwrap unwraps the error.
func (e *Error) Unwrap() error {
	return e.Err
}

// StatusError is returned when the remote store answers with a status code
// other than the one designated as success for the operation.
type StatusError struct {
	Op       string
	Status   int
	Expected int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v failed with status: %d (expected %d)", e.Op, e.Status, e.Expected)
}

// ConfigError reports a missing or invalid run configuration. It is fatal
// before any work starts.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ListingError reports a failed remote listing. Partial listings are never
// used, so it aborts the run.
type ListingError struct {
	Bucket string
	Prefix string
	Err    error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("list s3://%v/%v: %v", e.Bucket, e.Prefix, e.Err)
}

func (e *ListingError) Unwrap() error {
	return e.Err
}

// PatternError reports a local pattern which could not be expanded.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("error expanding pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// IsCancelation reports whether if given error is a cancelation error.
func IsCancelation(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return true
	}

	if storage.IsCancelationError(err) {
		return true
	}

	merr, ok := err.(*multierror.Error)
	if !ok {
		return false
	}

	for _, err := range merr.Errors {
		if IsCancelation(err) {
			return true
		}
	}

	return false
}

var (
	// ErrNotImplemented indicates an operation without a defined behavior.
	ErrNotImplemented = fmt.Errorf("operation is not implemented")

	// ErrUnsafePath indicates a download candidate was dropped because its
	// local path would escape the destination directory.
	ErrUnsafePath = fmt.Errorf("path escapes the destination directory")
)
