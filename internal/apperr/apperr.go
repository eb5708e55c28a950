package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the conditions the action layer recovers at the
// boundary. Services return these (or wrap them); handlers map them to
// HTTP statuses via httpx.
var (
	// ErrUnauthorized means the actor lacks the role or membership a
	// mutating action requires. No partial writes happen.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound means the referenced club/discussion/chapter does not
	// exist or is not visible to the actor.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyMember means a join would violate the (club, user)
	// uniqueness invariant. Existing state is preserved.
	ErrAlreadyMember = errors.New("already a member of this club")

	// ErrChannelUnavailable means the reading-room subscribe handshake
	// never completed. Presence degrades locally; nothing crashes.
	ErrChannelUnavailable = errors.New("channel unavailable")
)

// ValidationError carries the first violation message for malformed
// input to a mutating action.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
