// Package schemas validates resume and state documents against the embedded JSON Schemas.
package schemas

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	embedded "github.com/jonathan/resume-builder/schemas"
)

// Kind names a validatable document.
type Kind string

// Document kinds
const (
	KindResume Kind = "resume"
	KindState  Kind = "state"
)

// ParseKind resolves a kind name.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindResume:
		return KindResume, nil
	case KindState:
		return KindState, nil
	}
	return "", fmt.Errorf("unknown document kind %q (want resume or state)", s)
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

var (
	compileOnce sync.Once
	compiled    map[Kind]*gojsonschema.Schema
	compileErr  error
)

// compile builds both schemas once. The state schema refers to the resume
// schema by its $id, so the resume schema is added to the loader pool first.
func compile() (map[Kind]*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		resumeData, err := embedded.Read(embedded.ResumeSchema)
		if err != nil {
			compileErr = &SchemaLoadError{Path: embedded.ResumeSchema, Message: "not embedded", Cause: err}
			return
		}
		stateData, err := embedded.Read(embedded.StateSchema)
		if err != nil {
			compileErr = &SchemaLoadError{Path: embedded.StateSchema, Message: "not embedded", Cause: err}
			return
		}

		resume, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(resumeData))
		if err != nil {
			compileErr = &SchemaLoadError{Path: embedded.ResumeSchema, Message: "invalid schema", Cause: err}
			return
		}

		sl := gojsonschema.NewSchemaLoader()
		if err := sl.AddSchemas(gojsonschema.NewBytesLoader(resumeData)); err != nil {
			compileErr = &SchemaLoadError{Path: embedded.ResumeSchema, Message: "failed to register schema", Cause: err}
			return
		}
		state, err := sl.Compile(gojsonschema.NewBytesLoader(stateData))
		if err != nil {
			compileErr = &SchemaLoadError{Path: embedded.StateSchema, Message: "invalid schema", Cause: err}
			return
		}

		compiled = map[Kind]*gojsonschema.Schema{KindResume: resume, KindState: state}
	})
	return compiled, compileErr
}

// Validate checks a JSON document of the given kind.
func Validate(kind Kind, data []byte) error {
	all, err := compile()
	if err != nil {
		return err
	}
	schema, ok := all[kind]
	if !ok {
		return fmt.Errorf("unknown document kind %q", kind)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		// The document itself is not JSON.
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	return validationErrorFrom(result)
}

// ValidateResumeJSON checks a resume document.
func ValidateResumeJSON(data []byte) error {
	return Validate(KindResume, data)
}

// ValidateStateJSON checks a persisted state document.
func ValidateStateJSON(data []byte) error {
	return Validate(KindState, data)
}

// ValidateFile reads path and validates it as the given kind.
func ValidateFile(kind Kind, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("JSON file not found: %s", path)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Validate(kind, data)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return validationErrorFrom(result)
}

func validationErrorFrom(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
