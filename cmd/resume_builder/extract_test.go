package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/extraction"
)

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Smith\njane@example.com\n555-123-4567\n"), 0644))

	result, source, err := extractFile(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "text", source)
	assert.Equal(t, "Jane Smith", result.Basics.Name)
	assert.Equal(t, "jane@example.com", result.Basics.Email)
	assert.Equal(t, "555-123-4567", result.Basics.Phone)
}

func TestExtractFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := extractFile(nil, filepath.Join(dir, "missing.pdf"))
	assert.ErrorContains(t, err, "input file not found")

	unsupported := filepath.Join(dir, "resume.xyz")
	require.NoError(t, os.WriteFile(unsupported, []byte("x"), 0644))
	_, _, err = extractFile(nil, unsupported)
	assert.ErrorIs(t, err, extraction.ErrExtractionFailed)

	corrupt := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a pdf"), 0644))
	_, _, err = extractFile(nil, corrupt)
	assert.ErrorIs(t, err, extraction.ErrExtractionFailed)
}
