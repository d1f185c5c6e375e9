// Package server provides the HTTP API for the resume builder.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/extraction"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the addressed entry does not exist
type ErrNotFound struct {
	Kind string
	ID   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ErrEngineUnavailable indicates the requested export engine is not configured
type ErrEngineUnavailable struct {
	Engine string
}

func (e *ErrEngineUnavailable) Error() string {
	return fmt.Sprintf("export engine not available: %s", e.Engine)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		reqErr      *ErrValidation
		notFound    *ErrNotFound
		unavailable *ErrEngineUnavailable
		modelErr    *types.ValidationError
		schemaErr   *schemas.ValidationError
		renderErr   *rendering.RenderError
		tmplErr     *rendering.TemplateError
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &reqErr), errors.As(err, &modelErr), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.Is(err, editor.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, extraction.ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &renderErr), errors.As(err, &tmplErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
