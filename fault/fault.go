// Package fault defines the closed set of error kinds returned by the tracking engine
// and the diagnostic logger used to report them at the point of detection.
package fault

import (
	"errors"
	"fmt"
	"log"
)

var (
	// ErrSize is returned on dimension or cardinality mismatch.
	ErrSize = errors.New("size mismatch")
	// ErrType is returned when an operation is undefined for the element type.
	ErrType = errors.New("unsupported element type")
	// ErrRange is returned when a value falls outside its mathematically required domain.
	ErrRange = errors.New("value out of range")
	// ErrSpace is returned when an unallocated (zero value) object is used.
	ErrSpace = errors.New("unallocated storage")
	// ErrIO is returned when reading or parsing a file fails.
	ErrIO = errors.New("io failure")
	// ErrDiv0 is returned on division by a (near) zero denominator.
	ErrDiv0 = errors.New("division by zero")
	// ErrParallel is returned on degenerate parallel geometry.
	ErrParallel = errors.New("parallel geometry")
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the diagnostic logger. Passing nil mutes it.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// New logs a diagnostic for operation op and returns an error of the given kind.
func New(op string, kind error, format string, v ...interface{}) error {
	msg := fmt.Sprintf(format, v...)
	Logf("%s: %s", op, msg)

	return fmt.Errorf("%s: %w: %s", op, kind, msg)
}

// Wrap logs a diagnostic for operation op and returns err wrapped with the given kind.
// Both kind and err remain matchable with errors.Is.
func Wrap(op string, kind error, err error) error {
	Logf("%s: %v", op, err)

	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
