package extraction

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// TextSource reads UTF-8 plain text. A form feed separates pages.
type TextSource struct{}

// Name implements PageSource.
func (TextSource) Name() string { return "text" }

// Pages implements PageSource. Binary content is rejected.
func (TextSource) Pages(_ context.Context, data []byte) ([]string, error) {
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return nil, &ExtractionError{Source: "text", Message: "content is not UTF-8 text"}
	}
	text := strings.ReplaceAll(norm.NFC.String(string(data)), "\r\n", "\n")
	return strings.Split(text, "\f"), nil
}
