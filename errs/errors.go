// Package errs defines the error values returned by the generic data file engine.
//
// Every failure returned by the engine wraps exactly one of the sentinel errors
// below, so callers can classify it with errors.Is:
//
//	view, err := file.DataSet("Default Group", "StdDev")
//	if errs.IsAbsent(err) {
//	    // optional dataset not present
//	}
//
// The errors fall into three families:
//
//   - Absence: ErrFileNotFound, ErrDataSetNotFound, ErrDataGroupNotFound,
//     ErrParameterNotFound. Dialects commonly treat a
//     missing auxiliary dataset as "feature not present".
//   - Structural corruption: ErrInvalidFileType, ErrTruncatedFile, ErrCorrupt.
//     These abort header parsing and should be treated as fatal.
//   - Call scoped: ErrDataSetNotOpen, ErrIndexOutOfBounds, ErrUnsupportedType,
//     ErrValueTooLong, ErrTruncatedBuffer. They never invalidate the rest of a
//     file or view.
//
// ErrIO wraps an underlying platform error; the original error stays reachable
// through errors.Is / errors.As.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned when the file to read does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidFileType is returned on a magic number or version mismatch.
	ErrInvalidFileType = errors.New("invalid file type")
	// ErrTruncatedFile is returned when a stream ends before a required field.
	ErrTruncatedFile = errors.New("truncated file")
	// ErrTruncatedBuffer is returned when a buffer is shorter than a value requires.
	ErrTruncatedBuffer = errors.New("truncated buffer")
	// ErrCorrupt is returned when the chain offsets or counts contradict each other.
	ErrCorrupt = errors.New("corrupt file structure")
	// ErrDataSetNotFound is returned for unknown dataset names or stale dataset references.
	ErrDataSetNotFound = errors.New("data set not found")
	// ErrDataGroupNotFound is returned for unknown data group names.
	ErrDataGroupNotFound = errors.New("data group not found")
	// ErrParameterNotFound is returned when a named parameter does not exist.
	ErrParameterNotFound = errors.New("parameter not found")
	// ErrDataSetNotOpen is returned when data is accessed through a closed or header-only file.
	ErrDataSetNotOpen = errors.New("data set not open")
	// ErrIndexOutOfBounds is returned for invalid row or column addressing.
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	// ErrUnsupportedType is returned when a value does not match its declared type tag.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrValueTooLong is returned when text exceeds its declared width.
	ErrValueTooLong = errors.New("value too long")
	// ErrInvalidLocale is returned for malformed locale tags.
	ErrInvalidLocale = errors.New("invalid locale")
	// ErrFileTypeMismatch is returned by dialects when the file-type identifier is not the expected one.
	ErrFileTypeMismatch = errors.New("file type mismatch")
	// ErrIO wraps an underlying read, write or seek failure.
	ErrIO = errors.New("i/o error")
)

// IO wraps a platform error so that it matches both ErrIO and the original error.
// It returns nil when err is nil.
func IO(op string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}

// IsAbsent reports whether err describes an absent but optional element.
func IsAbsent(err error) bool {
	return errors.Is(err, ErrDataSetNotFound) ||
		errors.Is(err, ErrDataGroupNotFound) ||
		errors.Is(err, ErrParameterNotFound) ||
		errors.Is(err, ErrFileNotFound)
}

// IsFatal reports whether err describes structural corruption of a file.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInvalidFileType) ||
		errors.Is(err, ErrTruncatedFile) ||
		errors.Is(err, ErrCorrupt)
}
