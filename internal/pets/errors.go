package pets

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure
type Kind int

const (
	// KindNotFound means the referenced pet does not exist
	KindNotFound Kind = iota + 1
	// KindConflict means a business rule rejected the operation
	KindConflict
	// KindInvalidInput means the supplied data cannot be accepted
	KindInvalidInput
)

// String returns the stable code for the kind
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// Error is a domain error carrying a human-readable message
type Error struct {
	Kind    Kind
	Message string
}

// Error returns the message
func (e *Error) Error() string {
	return e.Message
}

// NotFound builds a KindNotFound error
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a KindConflict error
func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// InvalidInput builds a KindInvalidInput error
func InvalidInput(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a domain error, or 0 if err is not one
func KindOf(err error) Kind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return 0
}

// IsNotFound reports whether err is a KindNotFound domain error
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsConflict reports whether err is a KindConflict domain error
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

// petNotFound is the canonical message for an id miss
func petNotFound(id int64) error {
	return NotFound("Pet with ID %d not found", id)
}
