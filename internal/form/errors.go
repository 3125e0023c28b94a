// Package form implements the edit/submit state machines behind the
// transaction and account forms.
package form

import (
	"errors"
	"fmt"
)

// Validation failures, in the order they are checked.
var (
	ErrDescriptionRequired = errors.New("description is required")
	ErrAmountNotPositive   = errors.New("amount must be greater than zero")
	ErrCategoryRequired    = errors.New("select a category")
	ErrInvalidDate         = errors.New("invalid date")
	ErrNameRequired        = errors.New("name is required")
	ErrInvalidBalance      = errors.New("initial balance must be a number")
)

// ErrBusy is returned when a form is edited or submitted while a submission is in flight.
var ErrBusy = errors.New("form is submitting")

// ValidationError reports which field failed validation.
type ValidationError struct {
	Err   error
	Field string
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// apiMessager is satisfied by errors carrying the server's rejection message.
type apiMessager interface {
	APIMessage() string
}

// ErrorMessage extracts the text shown to the user for a failed submission.
// A server supplied message wins over the error's own text.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var m apiMessager
	if errors.As(err, &m) && m.APIMessage() != "" {
		return m.APIMessage()
	}
	return err.Error()
}

// State is the lifecycle state of a form.
type State int

// Form states.
const (
	StateIdle State = iota
	StateSubmitting
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
