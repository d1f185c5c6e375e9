package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/extraction"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

func TestPrintExtraction(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintExtraction("pdf", &extraction.Result{
		Basics: extraction.Basics{Name: "Jane Smith", Email: "jane@example.com"},
	})
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED BASICS")
	assert.Contains(t, output, "pdf")
	assert.Contains(t, output, "Jane Smith")
	assert.Contains(t, output, "jane@example.com")
	assert.Contains(t, output, "Phone:    -")
}

func TestPrintExtraction_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintExtraction("pdf", nil)
	assert.Empty(t, buf.String())
}

func TestPrintLayout(t *testing.T) {
	resume := types.SampleResume()
	doc, err := rendering.Render(&resume, types.DefaultSettings())
	require.NoError(t, err)

	var buf bytes.Buffer
	NewPrinter(&buf).PrintLayout(doc)
	output := buf.String()

	assert.Contains(t, output, "RENDERED LAYOUT")
	assert.Contains(t, output, "John Doe")
	assert.Contains(t, output, "page 1:")
	assert.Contains(t, output, "EXPERIENCE")
}

func TestPrintLayout_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintLayout(nil)
	assert.Empty(t, buf.String())
}

func TestPrintValidation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintValidation("resume.json", []schemas.FieldError{
		{Field: "basics.name", Message: "Invalid type. Expected: string, given: integer"},
	})
	output := buf.String()

	assert.Contains(t, output, "SCHEMA VIOLATIONS")
	assert.Contains(t, output, "Found 1 errors in resume.json")
	assert.Contains(t, output, "basics.name")
}

func TestPrintValidation_Valid(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintValidation("resume.json", nil)
	assert.Contains(t, buf.String(), "VALID: resume.json")
}

func TestPrintBox_ClipsLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 200))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth, line)
	}
	assert.Contains(t, buf.String(), "...")
}
