package rendering

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func TestWriteLaTeX_Default(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteLaTeX(&sb, render(t, types.SampleResume())))

	out := sb.String()
	assert.True(t, strings.HasPrefix(out, `\documentclass[10pt,a4paper]{article}`))
	assert.Contains(t, out, `\begin{document}`)
	assert.Contains(t, out, `\end{document}`)
	assert.Contains(t, out, "JOHN DOE")
	assert.Contains(t, out, `\href{https://linkedin.com/in/johndoe}`)
	assert.Contains(t, out, `\usepackage{helvet}`)
}

func TestWriteLaTeX_EscapesText(t *testing.T) {
	r := types.EmptyResume()
	r.Basics.Name = "Jane"
	r.Basics.Summary = "Grew revenue 50% & cut costs by $1M"
	var sb strings.Builder
	require.NoError(t, WriteLaTeX(&sb, render(t, r)))
	assert.Contains(t, sb.String(), `Grew revenue 50\% \& cut costs by \$1M`)
}

func TestWriteLaTeX_FontSizeSnaps(t *testing.T) {
	tests := []struct {
		size float64
		want int
	}{
		{8, 10},
		{10, 10},
		{11.4, 11},
		{12, 12},
		{16, 12},
	}
	for _, tt := range tests {
		doc := &Document{Settings: types.Settings{FontSize: tt.size}}
		assert.Equal(t, tt.want, latexDataFor(doc).FontSize)
	}
}

func TestWriteLaTeXWithTemplate_Custom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.tex")
	require.NoError(t, os.WriteFile(path, []byte(`<<range .Blocks>><<.Role>>;<<end>>`), 0644))

	r := types.EmptyResume()
	r.Basics.Name = "Jane"
	r.Basics.Summary = "Hello"
	var sb strings.Builder
	require.NoError(t, WriteLaTeXWithTemplate(&sb, render(t, r), path))
	assert.Equal(t, "header;section;", sb.String())
}

func TestWriteLaTeXWithTemplate_InvalidPath(t *testing.T) {
	var sb strings.Builder
	err := WriteLaTeXWithTemplate(&sb, render(t, types.EmptyResume()), "/nonexistent/template.tex")
	var templateErr *TemplateError
	require.ErrorAs(t, err, &templateErr)
	assert.Contains(t, err.Error(), "template file not found")
}

func TestWriteLaTeXWithTemplate_InvalidTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.tex")
	require.NoError(t, os.WriteFile(path, []byte(`<<.Blocks<<>>`), 0644))

	var sb strings.Builder
	err := WriteLaTeXWithTemplate(&sb, render(t, types.EmptyResume()), path)
	var templateErr *TemplateError
	assert.ErrorAs(t, err, &templateErr)
}
