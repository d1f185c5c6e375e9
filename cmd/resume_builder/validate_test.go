package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/schemas"
)

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	p := observability.NewPrinter(&out)

	require.NoError(t, validateFile(p, schemas.KindResume, writeSample(t, dir)))
	assert.Contains(t, out.String(), "VALID")

	out.Reset()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"basics":{"name":7}}`), 0644))
	err := validateFile(p, schemas.KindResume, bad)
	assert.ErrorContains(t, err, "is not a valid resume document")
	assert.Contains(t, out.String(), "basics.name")

	out.Reset()
	err = validateFile(p, schemas.KindResume, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
	assert.Empty(t, out.String())
}
