package rendering

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func htmlDoc(t *testing.T, r types.Resume) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, render(t, r)))
	dom, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return dom
}

func TestWriteHTML_Structure(t *testing.T) {
	dom := htmlDoc(t, types.SampleResume())

	assert.Equal(t, "JOHN DOE", dom.Find("header h1").Text())
	assert.Equal(t, "John Doe Resume", dom.Find("title").Text())
	assert.Equal(t, TitleSummary, dom.Find("section h2").First().Text())
	assert.Positive(t, dom.Find(".entry-header .date").Length())
	href, ok := dom.Find("header a").First().Attr("href")
	require.True(t, ok)
	assert.Equal(t, "https://linkedin.com/in/johndoe", href)
}

func TestWriteHTML_EscapesText(t *testing.T) {
	r := types.EmptyResume()
	r.Basics.Name = "Jane"
	r.Basics.Summary = `<b>bold</b> & "quoted"`
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, render(t, r)))

	out := buf.String()
	assert.NotContains(t, out, "<b>bold</b>")
	assert.Contains(t, out, "&lt;b&gt;bold&lt;/b&gt; &amp;")
}

func TestWriteHTML_UnescapesStoredEntities(t *testing.T) {
	r := types.EmptyResume()
	r.Basics.Summary = "R&amp;D"
	dom := htmlDoc(t, r)
	assert.Equal(t, "R&D", dom.Find("p.paragraph").Text())
}

func TestWriteHTML_StylesheetFollowsSettings(t *testing.T) {
	r := types.SampleResume()
	s := types.DefaultSettings()
	s.FontFamily = types.FontCourier
	doc, err := Render(&r, s)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, doc))
	assert.True(t, strings.Contains(buf.String(), "monospace"))
}

func TestWriteHTML_NilDocument(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteHTML(&buf, nil))
}
