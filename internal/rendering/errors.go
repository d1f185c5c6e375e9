// Package rendering turns a resume into a paginated document and its PDF, HTML and LaTeX forms.
package rendering

import "fmt"

// TemplateError represents an error parsing or executing an output template
type TemplateError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s template error: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s template error: %s", e.Format, e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
