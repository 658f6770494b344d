// Package errors provides standardized error handling for the AstroFS
// engine. Every failure the engine reports carries a stable, matchable
// Kind plus a human-readable detail string; filesystem failures also
// carry the offending path.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Standard errors package functions re-exported for convenience.
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// Kind identifies the class of failure.
type Kind int

const (
	Unknown Kind = iota
	// NotFound: a path, bookmark, theme, or plugin does not exist.
	NotFound
	// AlreadyExists: insertion would overwrite an existing key or path.
	AlreadyExists
	// NotADirectory: the path resolved to a file where a directory was required.
	NotADirectory
	// PermissionDenied: the operating system refused the operation.
	PermissionDenied
	// IndexOutOfRange: an index-based accessor was given a bad index.
	IndexOutOfRange
	// InvalidArgument: malformed pattern, out-of-range value, empty name.
	InvalidArgument
	// IOError: a read or write failed for a reason other than the above.
	IOError
	// CorruptData: a persisted document was present but unparsable.
	CorruptData
	// NoPluginsFound: plugin discovery found nothing. Recoverable and
	// informational, not a genuine failure.
	NoPluginsFound
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case AlreadyExists:
		return "already exists"
	case NotADirectory:
		return "not a directory"
	case PermissionDenied:
		return "permission denied"
	case IndexOutOfRange:
		return "index out of range"
	case InvalidArgument:
		return "invalid argument"
	case IOError:
		return "i/o error"
	case CorruptData:
		return "corrupt data"
	case NoPluginsFound:
		return "no plugins found"
	}
	return "unknown"
}

// Error is the engine's error type. Path is set for filesystem failures.
type Error struct {
	kind Kind
	msg  string
	path string
	err  error
}

// Error returns the detail message, with path and cause when present.
func (e *Error) Error() string {
	switch {
	case e.path != "" && e.err != nil:
		return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
	case e.path != "":
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	case e.err != nil:
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Kind returns the error's kind.
func (e *Error) Kind() Kind {
	return e.kind
}

// Path returns the filesystem path associated with the error, or "".
func (e *Error) Path() string {
	return e.path
}

// New creates an error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// PathError creates an error of the given kind attached to a path.
func PathError(kind Kind, msg, path string) error {
	return &Error{kind: kind, msg: msg, path: path}
}

// Wrap wraps an existing error under the given kind.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, msg: msg, err: err}
}

// WrapPath wraps an existing error under the given kind with a path.
func WrapPath(kind Kind, err error, msg, path string) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, msg: msg, path: path, err: err}
}

// FromOS translates an operating system error into the engine taxonomy,
// attaching the offending path. Returns nil for a nil error.
func FromOS(path string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &Error{kind: NotFound, msg: "path does not exist", path: path, err: err}
	case errors.Is(err, fs.ErrExist):
		return &Error{kind: AlreadyExists, msg: "path already exists", path: path, err: err}
	case errors.Is(err, fs.ErrPermission), errors.Is(err, os.ErrPermission):
		return &Error{kind: PermissionDenied, msg: "permission denied", path: path, err: err}
	}
	return &Error{kind: IOError, msg: "filesystem operation failed", path: path, err: err}
}

// KindOf returns the kind of an error, or Unknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return Unknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsNotFound checks if the error is a not-found error.
func IsNotFound(err error) bool { return IsKind(err, NotFound) }

// IsAlreadyExists checks if the error is an already-exists error.
func IsAlreadyExists(err error) bool { return IsKind(err, AlreadyExists) }

// IsNotADirectory checks if the error is a not-a-directory error.
func IsNotADirectory(err error) bool { return IsKind(err, NotADirectory) }

// IsPermissionDenied checks if the error is a permission error.
func IsPermissionDenied(err error) bool { return IsKind(err, PermissionDenied) }

// IsIndexOutOfRange checks if the error is a bad-index error.
func IsIndexOutOfRange(err error) bool { return IsKind(err, IndexOutOfRange) }

// IsInvalidArgument checks if the error is a validation error.
func IsInvalidArgument(err error) bool { return IsKind(err, InvalidArgument) }

// IsCorruptData checks if the error is a corrupt-data error.
func IsCorruptData(err error) bool { return IsKind(err, CorruptData) }

// IsNoPluginsFound checks for the recoverable empty-plugin-dir condition.
func IsNoPluginsFound(err error) bool { return IsKind(err, NoPluginsFound) }
