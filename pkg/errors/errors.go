package errors

import (
	"errors"
	"fmt"
)

// Failure taxonomy for the contact submission pipeline. Every stage maps
// its failure onto exactly one of these sentinels before it reaches the
// handler.

var (
	// ErrMalformedBody indicates the request body is not parseable JSON
	ErrMalformedBody = errors.New("malformed body")

	// ErrInvalidInput indicates a submission field failed validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrVerificationFailed indicates the Turnstile check did not confirm a human
	ErrVerificationFailed = errors.New("verification failed")

	// ErrRateLimited indicates the client identity is at its submission cap
	ErrRateLimited = errors.New("rate limited")

	// ErrDeliveryFailed indicates the selected mail provider did not accept the message
	ErrDeliveryFailed = errors.New("delivery failed")
)

// Rejection is a terminal pipeline failure carrying the stable,
// user-facing message for the client response. It wraps one of the
// sentinels above; internal causes stay in logs, never in Message.
type Rejection struct {
	Kind    error
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%v: %s", r.Kind, r.Message)
}

func (r *Rejection) Unwrap() error {
	return r.Kind
}

// Reject builds a Rejection for the given sentinel and user-facing message.
func Reject(kind error, message string) *Rejection {
	return &Rejection{Kind: kind, Message: message}
}

// AsRejection extracts a Rejection from an error chain.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	ok := errors.As(err, &r)
	return r, ok
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
