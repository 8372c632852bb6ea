package errors

import "errors"

// Constructors for the error taxonomy of the auth client.

// Credential builds a form-level rejection from a login/signup response.
func Credential(status int, format string, args ...any) *Error {
	return New(KindCredential, status, format, args...)
}

// SessionExpired marks a 401 that a refresh round-trip may still recover.
func SessionExpired(format string, args ...any) *Error {
	return New(KindSessionExpired, 401, format, args...)
}

// SessionInvalid marks a terminally dead session. By the time callers see
// this the store has been cleared and navigation to login triggered.
func SessionInvalid(status int, format string, args ...any) *Error {
	return New(KindSessionInvalid, status, format, args...)
}

// Validation builds a client-side form validation failure.
func Validation(format string, args ...any) *Error {
	return New(KindValidation, 0, format, args...)
}

// Network wraps a transport failure that produced no response.
func Network(cause error, format string, args ...any) *Error {
	return New(KindNetwork, 0, format, args...).WithCause(cause)
}

// Internal builds an unclassified client error.
func Internal(format string, args ...any) *Error {
	return New(KindInternal, 0, format, args...)
}

// IsCredential reports whether err is a form-level credential rejection.
func IsCredential(err error) bool {
	return KindOf(err) == KindCredential
}

// IsSessionExpired reports whether the chain records an access token the
// backend stopped accepting. Unlike the other predicates it searches the
// whole cause chain, since the classification usually rides along under a
// session-invalid error.
func IsSessionExpired(err error) bool {
	return errors.Is(err, &Error{Kind: KindSessionExpired})
}

// IsSessionInvalid reports whether err means the session has been destroyed.
func IsSessionInvalid(err error) bool {
	return KindOf(err) == KindSessionInvalid
}

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsNetwork reports whether err is a transport failure without a response.
func IsNetwork(err error) bool {
	return KindOf(err) == KindNetwork
}
