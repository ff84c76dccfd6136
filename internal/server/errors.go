package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/jobfit/internal/ingestion"
	"github.com/jonathan/jobfit/internal/schemas"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a requested resource does not exist
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ErrNotApplicable indicates fit scoring cannot run on the given inputs
type ErrNotApplicable struct {
	Reason string
}

func (e *ErrNotApplicable) Error() string {
	return fmt.Sprintf("fit score not applicable: %s", e.Reason)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		schemaErr     *schemas.ValidationError
		notFoundErr   *ErrNotFound
		notApplicable *ErrNotApplicable
		fieldErrs     validator.ValidationErrors
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &schemaErr),
		errors.As(err, &fieldErrs), errors.Is(err, ingestion.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr), errors.Is(err, ingestion.ErrNoJobDescription):
		return http.StatusNotFound
	case errors.As(err, &notApplicable), errors.Is(err, ingestion.ErrParseFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ingestion.ErrHTTPRequestFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
