package domain

import (
	"errors"
	"fmt"
)

// ErrAuthExpired indicates that no valid session exists anymore; the caller
// must send the user back to the login screen.
var ErrAuthExpired = errors.New("session expired")

// ValidationError is a failed field check. No request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NetworkError means the request to the upstream API could not complete.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RejectionError is a non-2xx answer from the upstream API.
type RejectionError struct {
	Op     string
	Status int
	Detail string
}

func (e *RejectionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

// UserMessage returns the text to show for err, falling back to generic when
// err carries nothing presentable.
func UserMessage(err error, generic string) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var re *RejectionError
	if errors.As(err, &re) && re.Detail != "" {
		return re.Detail
	}
	return generic
}
