package errs

import (
	"errors"
	"fmt"
)

// Error kinds. Services raise these; the API layer maps them to HTTP status.
const (
	EINVALID      = "invalid"
	ENOTFOUND     = "not_found"
	ECONFLICT     = "conflict"
	EFORBIDDEN    = "forbidden"
	EUNAUTHORIZED = "unauthorized"
	EINTERNAL     = "internal"
)

// Error is an application error with a machine-readable kind
// and a human-readable message safe to return to clients.
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Errorf builds an *Error of the given kind.
func Errorf(kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Kind returns the kind of err, or EINTERNAL for unknown errors.
// A nil err has no kind.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return EINTERNAL
}

// Message returns the client-safe message of err. Unknown errors get a
// generic message so internals never leak through the API.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
