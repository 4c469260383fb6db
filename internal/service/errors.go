package service

import "errors"

// ErrForbidden is returned when the acting user may not modify a contact.
var ErrForbidden = errors.New("forbidden")

// ValidationError indicates that the caller supplied an invalid payload.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}
