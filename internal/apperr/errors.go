// Package apperr holds the error taxonomy shared by the query compiler, the
// visibility policy and the repositories. The HTTP layer maps each type to a
// status code; anything else is a 500.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports a missing or malformed field on create/update.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

// NotFoundError reports an absent resource or an empty result set.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// NotAuthorizedError reports a principal rejected by visibility or mutation rules.
type NotAuthorizedError struct {
	Msg string
}

func (e *NotAuthorizedError) Error() string {
	if e.Msg == "" {
		return "not authorized"
	}
	return e.Msg
}

// InvalidQueryError reports a filter key/value that cannot be compiled.
type InvalidQueryError struct {
	Key   string
	Value string
	Err   error
}

func (e *InvalidQueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid query %s=%q: %v", e.Key, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid query %s=%q", e.Key, e.Value)
}

func (e *InvalidQueryError) Unwrap() error { return e.Err }

func Validation(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

func NotFound(resource string) error { return &NotFoundError{Resource: resource} }

func NotAuthorized(msg string) error { return &NotAuthorizedError{Msg: msg} }

// Status maps an error to its HTTP status code.
func Status(err error) int {
	var (
		ve *ValidationError
		nf *NotFoundError
		na *NotAuthorizedError
		iq *InvalidQueryError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve), errors.As(err, &iq):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &na):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Public returns the message safe to show to callers. Unanticipated errors are
// collapsed to a generic text.
func Public(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	var (
		ve *ValidationError
		nf *NotFoundError
		na *NotAuthorizedError
		iq *InvalidQueryError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &nf):
		return nf.Error()
	case errors.As(err, &na):
		return na.Error()
	case errors.As(err, &iq):
		return iq.Error()
	}
	return err.Error()
}
