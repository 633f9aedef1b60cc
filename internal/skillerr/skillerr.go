package skillerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for stable handling and testing.
type Kind string

const (
	KindUnknown Kind = "UNKNOWN"

	// KindParse marks a missing, malformed or invalid descriptor.
	KindParse Kind = "PARSE_FAILURE"
	// KindSymlinkUnresolvable marks a link whose chain cannot be followed.
	KindSymlinkUnresolvable Kind = "SYMLINK_UNRESOLVABLE"
	// KindLinkNotAllowed marks a symbolic link found inside a tree being copied.
	KindLinkNotAllowed Kind = "LINK_NOT_ALLOWED"
	// KindValidation marks a precondition the caller must satisfy.
	KindValidation Kind = "VALIDATION"
	// KindIO marks an unexpected OS-level failure.
	KindIO Kind = "FILESYSTEM_IO"
	// KindNotFound marks a skill or path that does not exist.
	KindNotFound Kind = "NOT_FOUND"
	// KindConflict marks an ambiguous state that blocks a mutation.
	KindConflict Kind = "CONFLICT"
)

// Error is a structured error with a kind, an optional path and details.
type Error struct {
	Kind    Kind
	Message string
	Path    string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap implements the errors.Unwrap interface.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with a kind and message. It returns nil when err is nil.
func Wrap(err error, kind Kind, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Wrapped: err}
}

// Wrapf wraps err with a kind and a formatted message.
func Wrapf(err error, kind Kind, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// WithPath records the filesystem path the error is about.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// WithDetail adds a detail to the error.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsKind reports whether any error in err's chain is an *Error of kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if errors.As(err, &e) {
			if e.Kind == kind {
				return true
			}
			err = e.Wrapped
			continue
		}
		return false
	}
	return false
}

// KindOf returns the kind of the outermost *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// PathOf returns the path recorded on the outermost *Error in err's chain.
func PathOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Path
	}
	return ""
}
