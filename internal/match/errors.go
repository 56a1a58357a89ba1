package match

import "fmt"

// Kind tags a domain error independently of transport. The API layer maps
// each kind to an HTTP status.
type Kind string

const (
	KindUnauthorized   Kind = "unauthorized"
	KindNotFound       Kind = "not_found"
	KindBadRequest     Kind = "bad_request"
	KindInvalidState   Kind = "invalid_state"
	KindAlreadyInMatch Kind = "already_in_match"
	KindConflict       Kind = "conflict"
	KindUnavailable    Kind = "unavailable"
)

// Error is a tagged domain error
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func errUnauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func errNotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func errBadRequest(msg string) *Error   { return &Error{Kind: KindBadRequest, Message: msg} }
func errInvalidState(msg string) *Error { return &Error{Kind: KindInvalidState, Message: msg} }
func errAlreadyInMatch(msg string) *Error {
	return &Error{Kind: KindAlreadyInMatch, Message: msg}
}
func errConflict(msg string) *Error    { return &Error{Kind: KindConflict, Message: msg} }
func errUnavailable(msg string) *Error { return &Error{Kind: KindUnavailable, Message: msg} }

// KindOf extracts the kind from an error, defaulting to Unavailable for
// unexpected store failures per the propagation policy.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnavailable
}
