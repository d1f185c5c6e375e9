// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/extraction"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to n runes, marking the cut with "...".
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// orDash shows missing values explicitly.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// PrintExtraction outputs the fields recovered from an uploaded file.
func (p *Printer) PrintExtraction(source string, result *extraction.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:   %s\n\n", source))
	sb.WriteString(fmt.Sprintf("Name:     %s\n", orDash(result.Basics.Name)))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", orDash(result.Basics.Email)))
	sb.WriteString(fmt.Sprintf("Phone:    %s\n", orDash(result.Basics.Phone)))
	sb.WriteString(fmt.Sprintf("Location: %s\n", orDash(result.Basics.Location)))
	sb.WriteString(fmt.Sprintf("Summary:  %s", orDash(clip(result.Basics.Summary, 40))))

	p.printBox("EXTRACTED BASICS", sb.String())
}

// PrintLayout outputs page and section counts of a rendered document.
func (p *Printer) PrintLayout(doc *rendering.Document) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", orDash(doc.Title)))
	sb.WriteString(fmt.Sprintf("Font:     %s %.1fpt, %s spacing\n", doc.Settings.FontFamily, doc.Settings.FontSize, doc.Settings.Spacing))
	sb.WriteString(fmt.Sprintf("Pages:    %d\n", len(doc.Pages)))
	for _, page := range doc.Pages {
		sb.WriteString(fmt.Sprintf("  page %d: %d items\n", page.Number, len(page.Items)))
	}

	titles := doc.Find(rendering.RoleSectionTitle)
	if len(titles) > 0 {
		sb.WriteString("\nSections:\n")
		count := min(len(titles), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", titles[i].Text()))
		}
		if len(titles) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(titles)-maxItemsToShow))
		}
	}

	p.printBox("RENDERED LAYOUT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidation outputs schema violations found in a document.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidation(name string, errs []schemas.FieldError) {
	if len(errs) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip("✅ VALID: "+name, boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d errors in %s:\n\n", len(errs), name))
	for i, e := range errs {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", e.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", e.Message))
		if i < len(errs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SCHEMA VIOLATIONS", strings.TrimSuffix(sb.String(), "\n"))
}
