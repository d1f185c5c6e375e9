package extraction

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// blockElements end the current line of text.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "footer": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "td": true, "th": true, "tr": true, "ul": true,
}

// HTMLSource reads the visible text of an HTML document as a single page.
type HTMLSource struct{}

// Name implements PageSource.
func (HTMLSource) Name() string { return "html" }

// Pages implements PageSource.
func (HTMLSource) Pages(_ context.Context, data []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ExtractionError{Source: "html", Message: "failed to parse HTML", Cause: err}
	}
	doc.Find("script, style, noscript, template, head").Remove()

	var sb strings.Builder
	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	root.Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			visibleText(&sb, n)
		}
	})

	var lines []string
	for _, line := range strings.Split(sb.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return []string{norm.NFC.String(strings.Join(lines, "\n"))}, nil
}

func visibleText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if blockElements[n.Data] {
			sb.WriteByte('\n')
			defer sb.WriteByte('\n')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visibleText(sb, c)
	}
}
