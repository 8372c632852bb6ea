package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies client errors by how the caller is expected to recover.
type Kind string

const (
	// KindCredential covers login/signup rejections surfaced as form-level
	// messages. The session is untouched.
	KindCredential Kind = "credential"

	// KindSessionExpired marks a 401 that is recoverable through a refresh
	// round-trip. Callers normally never see it.
	KindSessionExpired Kind = "session_expired"

	// KindSessionInvalid marks a failed or impossible refresh. The session
	// has been cleared and the user sent back to login.
	KindSessionInvalid Kind = "session_invalid"

	// KindValidation covers client-side form validation failures. Nothing
	// was sent to the backend.
	KindValidation Kind = "validation"

	// KindNetwork marks transport failures with no response at all. Not
	// retried automatically.
	KindNetwork Kind = "network"

	// KindInternal is everything else.
	KindInternal Kind = "internal"
)

// Error is a structured client error carrying the recovery classification,
// the HTTP status that produced it (0 when none) and an optional cause chain.
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	cause   error
}

// Error returns a human-readable message including the cause chain.
func (e *Error) Error() string {
	var msg strings.Builder

	msg.WriteString("kind=")
	msg.WriteString(string(e.Kind))
	if e.Code != 0 {
		msg.WriteString(", status=")
		msg.WriteString(strconv.Itoa(e.Code))
	}
	msg.WriteString(", message=")
	msg.WriteString(e.Message)

	if e.cause != nil {
		msg.WriteString(", cause=")
		msg.WriteString(e.cause.Error())
	}

	return msg.String()
}

// Unwrap returns the cause of the error.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause attaches a cause. Returns a new instance to keep errors immutable.
func (e *Error) WithCause(cause error) *Error {
	if cause == nil {
		return e
	}

	clone := *e
	clone.cause = cause
	return &clone
}

// Is reports whether err is an *Error of the same kind. Message and status
// are deliberately ignored so sentinel comparisons stay stable.
func (e *Error) Is(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return e.Kind == ce.Kind
	}
	return false
}

// GetKind returns the error kind.
func (e *Error) GetKind() Kind {
	return e.Kind
}

// GetCode returns the HTTP status behind the error, or 0.
func (e *Error) GetCode() int {
	return e.Code
}

// GetMessage returns the error message.
func (e *Error) GetMessage() string {
	return e.Message
}

// New creates a new error with the given kind, status code and formatted message.
func New(kind Kind, code int, format string, args ...any) *Error {
	var message string
	if len(args) == 0 {
		message = format
	} else {
		message = fmt.Sprintf(format, args...)
	}

	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// FromError converts a generic error to *Error, classifying unknown errors
// as internal.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	return New(KindInternal, 0, "%v", err)
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return FromError(err).Kind
}
