package extraction

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFSource reads text from PDF files, one string per page with one line per text row.
type PDFSource struct{}

// Name implements PageSource.
func (PDFSource) Name() string { return "pdf" }

// Pages implements PageSource. Pages without a content dictionary are skipped.
func (PDFSource) Pages(ctx context.Context, data []byte) (pages []string, err error) {
	if len(data) == 0 {
		return nil, &ExtractionError{Source: "pdf", Message: "empty PDF content"}
	}
	// The reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = &ExtractionError{Source: "pdf", Message: fmt.Sprintf("malformed PDF: %v", r)}
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Source: "pdf", Message: "failed to open PDF", Cause: err}
	}

	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, &ExtractionError{Source: "pdf", Message: "canceled", Cause: err}
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := pageText(page)
		if err != nil {
			return nil, &ExtractionError{Source: "pdf", Message: fmt.Sprintf("failed to read page %d", i), Cause: err}
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// pageText rebuilds lines from text rows, top to bottom. Runs on one row are
// joined with a space where a horizontal gap separates them.
func pageText(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position > rows[j].Position })

	var lines []string
	for _, row := range rows {
		runs := append(pdf.TextHorizontal(nil), row.Content...)
		sort.SliceStable(runs, func(i, j int) bool { return runs[i].X < runs[j].X })

		var sb strings.Builder
		var prev *pdf.Text
		for i := range runs {
			run := &runs[i]
			if prev != nil && needsSpace(prev, run) {
				sb.WriteByte(' ')
			}
			sb.WriteString(run.S)
			prev = run
		}
		if line := strings.TrimSpace(sb.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func needsSpace(prev, next *pdf.Text) bool {
	if strings.HasSuffix(prev.S, " ") || strings.HasPrefix(next.S, " ") {
		return false
	}
	if prev.W <= 0 {
		return true
	}
	return next.X-(prev.X+prev.W) > prev.FontSize*0.1
}
