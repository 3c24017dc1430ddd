package db

import "errors"

// ErrNotFound is returned when a referenced ward, interview type,
// member or appointment does not exist
var ErrNotFound = errors.New("not found")

// ErrSlotTaken is returned when an appointment insert collides with an
// existing SCHEDULED appointment for the same member and start time
var ErrSlotTaken = errors.New("slot already taken")

// ValidationError reports a rejected operation due to missing or
// invalid input fields
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError creates a ValidationError with the given message
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
