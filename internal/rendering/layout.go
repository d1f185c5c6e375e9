package rendering

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/types"
)

// ItemKind distinguishes positioned page items.
type ItemKind string

// Item kinds
const (
	ItemText ItemKind = "text"
	ItemRule ItemKind = "rule"
)

// Item is one positioned element on a page. For text, Y is the baseline;
// for rules, Y is the line position. Coordinates are points from the top-left.
type Item struct {
	Kind      ItemKind `json:"kind"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Width     float64  `json:"width"`
	Text      string   `json:"text,omitempty"`
	Font      Font     `json:"font"`
	Color     Color    `json:"color"`
	Link      string   `json:"link,omitempty"`
	LineWidth float64  `json:"lineWidth,omitempty"`
}

// Page is one fixed-size page of laid-out items.
type Page struct {
	Number int    `json:"number"`
	Items  []Item `json:"items"`
}

type layoutState struct {
	measurer Measurer
	family   types.FontFamily
	margin   float64
	bottom   float64
	pages    []Page
	y        float64
}

// layout flows the block tree onto pages. Content that does not fit on the
// current page continues at the top of the next one.
func layout(blocks []Block, family types.FontFamily, measurer Measurer) []Page {
	ls := &layoutState{
		measurer: measurer,
		family:   family,
		margin:   PageMargin,
		bottom:   PageHeight - PageMargin,
	}
	ls.newPage()

	width := PageWidth - 2*PageMargin
	for _, b := range blocks {
		ls.block(b, PageMargin, width)
	}
	return ls.pages
}

func (ls *layoutState) newPage() {
	ls.pages = append(ls.pages, Page{Number: len(ls.pages) + 1, Items: []Item{}})
	ls.y = ls.margin
}

func (ls *layoutState) emit(it Item) {
	p := &ls.pages[len(ls.pages)-1]
	p.Items = append(p.Items, it)
}

// reserve moves to a new page when a line of height h would cross the bottom
// margin. A line taller than a whole page is placed anyway.
func (ls *layoutState) reserve(h float64) {
	if ls.y+h > ls.bottom && ls.y > ls.margin {
		ls.newPage()
	}
}

// gap advances the cursor by a vertical space, never carrying it onto a new page.
func (ls *layoutState) gap(h float64) {
	if ls.y+h > ls.bottom {
		ls.y = ls.bottom
		return
	}
	ls.y += h
}

func (ls *layoutState) font(st Style, sp Span) Font {
	return Font{Family: ls.family, Size: st.FontSize, Bold: st.Bold || sp.Bold, Italic: st.Italic || sp.Italic}
}

func (ls *layoutState) block(b Block, x, width float64) {
	if ls.y > ls.margin {
		ls.gap(b.Style.SpaceBefore)
	}

	switch {
	case b.Role == RoleEntryHeader:
		ls.twoColumn(b, x, width)
	case b.Role == RoleBullet:
		ls.bullet(b, x, width)
	case len(b.Spans) > 0:
		ls.paragraph(b.Spans, b.Style, x, width)
	}

	if b.Style.Rule {
		ry := ls.y + rulePadding
		ls.emit(Item{Kind: ItemRule, X: x, Y: ry, Width: width, Color: b.Style.Color, LineWidth: ruleWidth})
		ls.y = ry + ruleWidth
	}

	inner := x + b.Style.Indent
	for _, c := range b.Children {
		ls.block(c, inner, width-b.Style.Indent)
	}

	ls.gap(b.Style.SpaceAfter)
}

// paragraph wraps spans into lines within width and emits them.
func (ls *layoutState) paragraph(spans []Span, st Style, x, width float64) {
	h := st.FontSize * st.LineHeight
	for _, line := range ls.wrap(spans, st, width) {
		ls.reserve(h)
		ls.emitLine(line, spans, st, x, width, baseline(ls.y, h, st.FontSize))
		ls.y += h
	}
}

// twoColumn places the title on the left and the trailing column right-aligned
// on the first line's baseline. Only the title wraps.
func (ls *layoutState) twoColumn(b Block, x, width float64) {
	ts := b.TrailingStyle
	trailingW := ls.spansWidth(b.Trailing, ts)
	titleW := width
	if trailingW > 0 {
		titleW = width - trailingW - columnGap
	}

	lines := ls.wrap(b.Spans, b.Style, titleW)
	if len(lines) == 0 {
		lines = [][]placed{nil}
	}

	h := max(b.Style.FontSize*b.Style.LineHeight, ts.FontSize*ts.LineHeight)
	size := max(b.Style.FontSize, ts.FontSize)
	for i, line := range lines {
		ls.reserve(h)
		base := baseline(ls.y, h, size)
		ls.emitLine(line, b.Spans, b.Style, x, titleW, base)
		if i == 0 && trailingW > 0 {
			tx := x + width - trailingW
			for _, sp := range b.Trailing {
				f := ls.font(ts, sp)
				w := ls.measurer.Width(sp.Text, f)
				ls.emit(Item{Kind: ItemText, X: tx, Y: base, Width: w, Text: sp.Text, Font: f, Color: spanColor(ts, sp), Link: sp.Link})
				tx += w
			}
		}
		ls.y += h
	}
}

// bullet draws the bullet glyph in its own column and wraps the text beside it.
func (ls *layoutState) bullet(b Block, x, width float64) {
	st := b.Style
	h := st.FontSize * st.LineHeight
	lines := ls.wrap(b.Spans, st, width-bulletWidth)
	for i, line := range lines {
		ls.reserve(h)
		base := baseline(ls.y, h, st.FontSize)
		if i == 0 {
			f := Font{Family: ls.family, Size: st.FontSize}
			ls.emit(Item{Kind: ItemText, X: x, Y: base, Width: ls.measurer.Width(BulletGlyph, f), Text: BulletGlyph, Font: f, Color: st.Color})
		}
		ls.emitLine(line, b.Spans, st, x+bulletWidth, width-bulletWidth, base)
		ls.y += h
	}
}

// baseline places text vertically centred in its line box.
func baseline(top, lineHeight, size float64) float64 {
	return top + (lineHeight-size)/2 + 0.8*size
}

func spanColor(st Style, sp Span) Color {
	if sp.Link != "" {
		return colorLink
	}
	return st.Color
}

func (ls *layoutState) spansWidth(spans []Span, st Style) float64 {
	var w float64
	for _, sp := range spans {
		w += ls.measurer.Width(sp.Text, ls.font(st, sp))
	}
	return w
}

// word is an unbreakable run of text belonging to one span.
type word struct {
	text  string
	span  int
	space bool
}

// placed is a word positioned on a line, X relative to the line start.
type placed struct {
	word
	x     float64
	width float64
}

// splitWords breaks spans into words, recording whether whitespace preceded each.
func splitWords(spans []Span) []word {
	var words []word
	pending := false
	for i, sp := range spans {
		start := -1
		for j, r := range sp.Text {
			if unicode.IsSpace(r) {
				if start >= 0 {
					words = append(words, word{text: sp.Text[start:j], span: i, space: pending && len(words) > 0})
					start = -1
					pending = false
				}
				pending = true
				continue
			}
			if start < 0 {
				start = j
			}
		}
		if start >= 0 {
			words = append(words, word{text: sp.Text[start:], span: i, space: pending && len(words) > 0})
			pending = false
		}
	}
	return words
}

// wrap greedily fills lines no wider than width. Words longer than a whole
// line are split between runes.
func (ls *layoutState) wrap(spans []Span, st Style, width float64) [][]placed {
	var lines [][]placed
	var cur []placed
	curW := 0.0

	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, cur)
		}
		cur, curW = nil, 0
	}

	for _, w := range splitWords(spans) {
		f := ls.font(st, spans[w.span])
		ww := ls.measurer.Width(w.text, f)
		sw := 0.0
		if w.space && len(cur) > 0 {
			sw = ls.measurer.Width(" ", f)
		}
		if len(cur) > 0 && curW+sw+ww > width {
			flush()
			sw = 0
		}
		if len(cur) == 0 && ww > width {
			for _, chunk := range ls.breakWord(w.text, f, width) {
				flush()
				cw := ls.measurer.Width(chunk, f)
				cur = []placed{{word: word{text: chunk, span: w.span}, width: cw}}
				curW = cw
			}
			continue
		}
		cur = append(cur, placed{word: w, x: curW + sw, width: ww})
		curW += sw + ww
	}
	flush()
	return lines
}

func (ls *layoutState) breakWord(text string, f Font, width float64) []string {
	var chunks []string
	start := 0
	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		next := i + size
		if i > start && ls.measurer.Width(text[start:next], f) > width {
			chunks = append(chunks, text[start:i])
			start = i
		}
		i = next
	}
	return append(chunks, text[start:])
}

// emitLine merges consecutive words of the same span into one text item and
// applies the block alignment.
func (ls *layoutState) emitLine(line []placed, spans []Span, st Style, x, width, base float64) {
	if len(line) == 0 {
		return
	}
	last := line[len(line)-1]
	lineW := last.x + last.width

	offset := 0.0
	switch st.Align {
	case AlignCenter:
		offset = (width - lineW) / 2
	case AlignRight:
		offset = width - lineW
	}
	if offset < 0 {
		offset = 0
	}

	for i := 0; i < len(line); {
		j := i + 1
		var sb strings.Builder
		sb.WriteString(line[i].text)
		for j < len(line) && line[j].span == line[i].span {
			if line[j].space {
				sb.WriteByte(' ')
			}
			sb.WriteString(line[j].text)
			j++
		}
		sp := spans[line[i].span]
		end := line[j-1].x + line[j-1].width
		ls.emit(Item{
			Kind:  ItemText,
			X:     x + offset + line[i].x,
			Y:     base,
			Width: end - line[i].x,
			Text:  sb.String(),
			Font:  ls.font(st, sp),
			Color: spanColor(st, sp),
			Link:  sp.Link,
		})
		i = j
	}
}
