package rendering

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
)

// Page geometry in points. A4 portrait.
const (
	PageWidth  = 595.28
	PageHeight = 841.89
	PageMargin = 30.0

	bulletIndent = 12.0
	bulletWidth  = 8.0
	columnGap    = 8.0
	ruleWidth    = 1.0
	rulePadding  = 1.0
)

// Separators placed between inline header fields.
const (
	ContactSeparator = " | "
	FieldSeparator   = "  ·  "
	DateSeparator    = " — "
	IssuerSeparator  = " — "
	BulletGlyph      = "•"
)

// Color is an 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Hex returns the color in #rrggbb form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var (
	colorText     = Color{0x00, 0x00, 0x00}
	colorContact  = Color{0x33, 0x33, 0x33}
	colorSubtitle = Color{0x44, 0x44, 0x44}
	colorDate     = Color{0x66, 0x66, 0x66}
	colorLink     = Color{0x00, 0x66, 0xcc}
)

// Align is the horizontal alignment of a block's lines.
type Align int

// Alignments
const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Style carries the visual properties of a block.
type Style struct {
	FontSize    float64
	Bold        bool
	Italic      bool
	Color       Color
	Align       Align
	LineHeight  float64
	Indent      float64
	SpaceBefore float64
	SpaceAfter  float64
	Rule        bool
}

// Font identifies a typeface at a size.
type Font struct {
	Family types.FontFamily
	Size   float64
	Bold   bool
	Italic bool
}

// metrics are the sizes and colors derived from Settings.
type metrics struct {
	family   types.FontFamily
	base     float64
	small    float64
	title    float64
	name     float64
	rhythm   float64
	accent   Color
	titleClr Color
}

func spacingMultiplier(s types.Spacing) float64 {
	switch s {
	case types.SpacingCompact:
		return 0.8
	case types.SpacingRelaxed:
		return 1.25
	default:
		return 1.0
	}
}

func newMetrics(s types.Settings) metrics {
	m := metrics{
		family:   s.FontFamily,
		base:     s.FontSize,
		small:    s.FontSize - 1,
		title:    s.FontSize + 1,
		name:     s.FontSize + 8,
		rhythm:   spacingMultiplier(s.Spacing),
		accent:   colorText,
		titleClr: colorText,
	}
	switch s.Theme {
	case types.ThemeModern:
		m.accent = Color{0x1f, 0x4e, 0x79}
		m.titleClr = m.accent
	case types.ThemeMinimal:
		m.titleClr = colorSubtitle
	}
	return m
}

// space scales a vertical gap by the spacing multiplier.
func (m metrics) space(pt float64) float64 {
	return pt * m.rhythm
}

func (m metrics) nameStyle() Style {
	return Style{FontSize: m.name, Bold: true, Color: m.accent, Align: AlignCenter, LineHeight: 1.2, SpaceAfter: m.space(3)}
}

func (m metrics) contactStyle() Style {
	return Style{FontSize: m.small, Color: colorContact, Align: AlignCenter, LineHeight: 1.4}
}

func (m metrics) sectionStyle() Style {
	return Style{SpaceBefore: m.space(10), SpaceAfter: m.space(4)}
}

func (m metrics) sectionTitleStyle() Style {
	return Style{FontSize: m.title, Bold: true, Color: m.titleClr, LineHeight: 1.2, Rule: true, SpaceAfter: m.space(4)}
}

func (m metrics) entryStyle() Style {
	return Style{SpaceAfter: m.space(5)}
}

func (m metrics) entryTitleStyle() Style {
	return Style{FontSize: m.base, Bold: true, Color: colorText, LineHeight: 1.4, SpaceAfter: m.space(1)}
}

func (m metrics) dateStyle() Style {
	return Style{FontSize: m.small, Color: colorDate, Align: AlignRight, LineHeight: 1.4}
}

func (m metrics) subtitleStyle() Style {
	return Style{FontSize: m.small, Bold: true, Color: colorSubtitle, LineHeight: 1.4, SpaceAfter: m.space(1)}
}

func (m metrics) paragraphStyle() Style {
	return Style{FontSize: m.base, Color: colorText, LineHeight: 1.4}
}

func (m metrics) bulletListStyle() Style {
	return Style{Indent: bulletIndent, SpaceBefore: m.space(1)}
}

func (m metrics) bulletStyle() Style {
	return Style{FontSize: m.small, Color: colorText, LineHeight: 1.3, SpaceAfter: m.space(1)}
}

func (m metrics) skillStyle() Style {
	return Style{FontSize: m.small, Color: colorText, LineHeight: 1.4, SpaceAfter: m.space(2)}
}

func (m metrics) techStyle() Style {
	return Style{FontSize: m.small, Italic: true, Color: colorText, LineHeight: 1.4, SpaceAfter: m.space(2)}
}
