package rendering

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Document is the paginated, styled form of a resume. It is a pure function
// of the resume and settings it was rendered from.
type Document struct {
	Title      string         `json:"title"`
	Settings   types.Settings `json:"settings"`
	PageWidth  float64        `json:"pageWidth"`
	PageHeight float64        `json:"pageHeight"`
	Margin     float64        `json:"margin"`
	Blocks     []Block        `json:"blocks"`
	Pages      []Page         `json:"pages"`
}

// Find returns every block with the given role across the document, depth first.
func (d *Document) Find(role Role) []Block {
	var out []Block
	for _, b := range d.Blocks {
		out = append(out, b.Find(role)...)
	}
	return out
}

// Renderer lays out resumes using a Measurer.
type Renderer struct {
	measurer Measurer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMeasurer replaces the default core font measurer.
func WithMeasurer(m Measurer) Option {
	return func(r *Renderer) {
		if m != nil {
			r.measurer = m
		}
	}
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{measurer: NewCoreFontMeasurer()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = NewRenderer()

// Render lays out the resume with the default Renderer.
func Render(resume *types.Resume, settings types.Settings) (*Document, error) {
	return defaultRenderer.Render(resume, settings)
}

// Render maps the resume onto fixed-size pages. The resume is never modified.
func (r *Renderer) Render(resume *types.Resume, settings types.Settings) (*Document, error) {
	if resume == nil {
		return nil, &RenderError{Message: "resume is nil"}
	}
	if err := settings.Validate(); err != nil {
		return nil, &RenderError{Message: "invalid settings", Cause: err}
	}

	m := newMetrics(settings)
	blocks := buildBlocks(resume, m)
	return &Document{
		Title:      plain(resume.Basics.Name),
		Settings:   settings,
		PageWidth:  PageWidth,
		PageHeight: PageHeight,
		Margin:     PageMargin,
		Blocks:     blocks,
		Pages:      layout(blocks, settings.FontFamily, r.measurer),
	}, nil
}

// Format is an export file format.
type Format string

// Supported formats
const (
	FormatPDF   Format = "pdf"
	FormatHTML  Format = "html"
	FormatLaTeX Format = "tex"
)

// ParseFormat resolves a format name, defaulting to PDF.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pdf":
		return FormatPDF, nil
	case "html", "htm":
		return FormatHTML, nil
	case "tex", "latex":
		return FormatLaTeX, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatLaTeX:
		return "application/x-tex; charset=utf-8"
	default:
		return "application/pdf"
	}
}

// Encode writes the document in the given format.
func (d *Document) Encode(f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatPDF:
		err = WritePDF(&buf, d)
	case FormatHTML:
		err = WriteHTML(&buf, d)
	case FormatLaTeX:
		err = WriteLaTeX(&buf, d)
	default:
		return nil, &RenderError{Message: fmt.Sprintf("unsupported format %q", f)}
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unsafeFilenameRun matches whitespace, quotes and path separators, none of
// which survive a Content-Disposition header or a path join intact.
var unsafeFilenameRun = regexp.MustCompile(`[\s"/\\]+`)

// Filename derives the download name from the subject's name, e.g. "Jane_Doe_Resume.pdf".
func Filename(name string) string {
	return FilenameFor(name, FormatPDF)
}

// FilenameFor derives the download name for the given format.
func FilenameFor(name string, f Format) string {
	return unsafeFilenameRun.ReplaceAllString(name, "_") + "_Resume." + string(f)
}
