package providers

import "fmt"

// ErrorKind classifies a failed provider operation. The checkout machine
// branches on the kind, never on message text.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindAuthRequired   ErrorKind = "authRequired"
	KindNotFound       ErrorKind = "notFound"
	KindTransport      ErrorKind = "transport"
	KindServerRejected ErrorKind = "serverRejected"
)

// Error is the discriminated failure every provider operation returns.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// KindOf extracts the kind from an error. Anything that is not a *Error is
// treated as a transport failure.
func KindOf(err error) ErrorKind {
	if pe, ok := err.(*Error); ok {
		return pe.Kind
	}
	return KindTransport
}

// MessageOf returns the user-surfaceable message for an error.
func MessageOf(err error) string {
	if pe, ok := err.(*Error); ok {
		return pe.Message
	}
	return err.Error()
}
