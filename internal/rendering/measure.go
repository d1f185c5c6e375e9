package rendering

import (
	"strings"
	"sync"
	"unicode"

	"github.com/jung-kurt/gofpdf"

	"github.com/jonathan/resume-builder/internal/types"
)

// Measurer estimates the advance width of text set in a font, in points.
type Measurer interface {
	Width(text string, font Font) float64
}

// CoreFontMeasurer measures text with the same core font metrics WritePDF
// draws with, so laid-out widths match the encoded PDF. Safe for concurrent use.
type CoreFontMeasurer struct {
	mu       sync.Mutex
	pdf      *gofpdf.Fpdf
	fallback EstimateMeasurer
}

// NewCoreFontMeasurer creates a CoreFontMeasurer backed by a scratch document.
func NewCoreFontMeasurer() *CoreFontMeasurer {
	return &CoreFontMeasurer{pdf: gofpdf.New("P", "pt", "A4", "")}
}

// Width implements Measurer.
func (m *CoreFontMeasurer) Width(text string, font Font) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pdf.Err() {
		return m.fallback.Width(text, font)
	}
	m.pdf.SetFont(pdfFamily(font.Family), pdfStyle(font), font.Size)
	if m.pdf.Err() {
		return m.fallback.Width(text, font)
	}
	return m.pdf.GetStringWidth(encodeWinAnsi(text))
}

// EstimateMeasurer approximates text width from per-glyph class averages.
// It needs no font metrics; Courier is exact.
type EstimateMeasurer struct{}

const narrowGlyphs = "iljtfrI.,;:!'|()[]`"

// Width implements Measurer.
func (EstimateMeasurer) Width(text string, font Font) float64 {
	if font.Family == types.FontCourier {
		return float64(len([]rune(text))) * 0.6 * font.Size
	}

	var em float64
	for _, r := range text {
		em += glyphEm(r)
	}

	scale := 1.0
	if font.Family == types.FontTimes {
		scale = 0.92
	}
	if font.Bold {
		scale *= 1.06
	}
	return em * scale * font.Size
}

func glyphEm(r rune) float64 {
	switch {
	case r == ' ':
		return 0.278
	case strings.ContainsRune(narrowGlyphs, r):
		return 0.28
	case r == 'm' || r == 'w':
		return 0.8
	case r == 'M' || r == 'W':
		return 0.88
	case unicode.IsUpper(r):
		return 0.68
	case unicode.IsDigit(r):
		return 0.556
	case r == '—':
		return 1.0
	case r == '•':
		return 0.35
	default:
		return 0.52
	}
}
