package models

import "errors"

// ErrInvalidArgument is the single failure kind raised by the validating
// setters. Every *ValidationError unwraps to it.
var ErrInvalidArgument = errors.New("invalid argument")

// ValidationError reports a value rejected for a specific field
type ValidationError struct {
	Field   string  `json:"field"`
	Value   float64 `json:"value,omitempty"`
	Message string  `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}
