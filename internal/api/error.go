package api

import (
	"errors"
	"fmt"
)

// Error is the single error kind surfaced by the client: either a non-2xx
// response (Status set, Message from the server's {detail} body when
// parsable) or a transport failure (Status zero).
type Error struct {
	Message string
	Status  int
	// cause is the underlying transport error, if any.
	cause error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// IsTransport reports whether the error never reached the server.
func (e *Error) IsTransport() bool { return e.Status == 0 }

func transportError(err error) *Error {
	return &Error{Message: err.Error(), cause: err}
}

func statusError(status int, detail string) *Error {
	if detail == "" {
		detail = fmt.Sprintf("API request failed (HTTP %d)", status)
	}
	return &Error{Message: detail, Status: status}
}

// AsError unwraps err into an *Error when possible.
func AsError(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
