package schemas

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func marshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func requireValidationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	require.Error(t, err)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr), "error should be ValidationError type, got %T: %v", err, err)
	assert.Greater(t, len(validationErr.Errors), 0)
	return validationErr
}

func TestValidateResumeJSON_Sample(t *testing.T) {
	r := types.SampleResume()
	assert.NoError(t, ValidateResumeJSON(marshal(t, r)))
}

func TestValidateResumeJSON_Empty(t *testing.T) {
	assert.NoError(t, ValidateResumeJSON(marshal(t, types.EmptyResume())))
}

func TestValidateResumeJSON_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		field string
	}{
		{name: "missing basics", json: `{"work": []}`},
		{name: "unknown top-level field", json: `{"basics": {}, "hobbies": []}`, field: "(root)"},
		{name: "wrong type", json: `{"basics": {"name": 42}}`, field: "basics.name"},
		{name: "missing id", json: `{"basics": {}, "work": [{"company": "Acme"}]}`},
		{name: "highlights not strings", json: `{"basics": {}, "work": [{"id": "w1", "highlights": [1]}]}`, field: "work.0.highlights.0"},
		{name: "unknown icon", json: `{"basics": {"customFields": [{"id": "c1", "icon": "myspace"}]}}`, field: "basics.customFields.0.icon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validationErr := requireValidationError(t, ValidateResumeJSON([]byte(tt.json)))
			if tt.field == "" {
				return
			}
			var fields []string
			for _, fe := range validationErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidateResumeJSON_Malformed(t *testing.T) {
	requireValidationError(t, ValidateResumeJSON([]byte("{ invalid json }")))
}

func TestValidateStateJSON(t *testing.T) {
	state := types.State{
		Resume:       types.SampleResume(),
		Settings:     types.DefaultSettings(),
		LastModified: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	assert.NoError(t, ValidateStateJSON(marshal(t, state)))
}

func TestValidateStateJSON_BadSettings(t *testing.T) {
	state := types.State{Resume: types.EmptyResume(), Settings: types.DefaultSettings()}
	state.Settings.FontSize = 40
	state.Settings.FontFamily = "Comic Sans"

	validationErr := requireValidationError(t, ValidateStateJSON(marshal(t, state)))
	var fields []string
	for _, fe := range validationErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "settings.fontSize")
	assert.Contains(t, fields, "settings.fontFamily")
}

func TestValidateStateJSON_NestedResumeChecked(t *testing.T) {
	data := []byte(`{"resume": {"basics": {"name": 1}}, "settings": {"fontFamily": "Times", "fontSize": 11, "spacing": "compact", "theme": "modern"}}`)
	validationErr := requireValidationError(t, ValidateStateJSON(data))
	assert.Equal(t, "resume.basics.name", validationErr.Errors[0].Field)
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(path, marshal(t, types.SampleResume()), 0o644))

	assert.NoError(t, ValidateFile(KindResume, path))
	requireValidationError(t, ValidateFile(KindState, path))

	err := ValidateFile(KindResume, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" State ")
	require.NoError(t, err)
	assert.Equal(t, KindState, k)

	_, err = ParseKind("job_profile")
	assert.Error(t, err)
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"name": "test"}`

	err := ValidateJSONString(schemaContent, jsonContent)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"age": 30}`

	requireValidationError(t, ValidateJSONString(schemaContent, jsonContent))
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "(string schema)", loadErr.Path)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}
