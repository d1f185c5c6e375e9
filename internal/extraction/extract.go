// Package extraction recovers basic resume fields from the text of an uploaded file.
package extraction

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"

	"github.com/jonathan/resume-builder/internal/sanitize"
	"github.com/jonathan/resume-builder/internal/types"
)

// Maximum lengths of the extracted fields.
const (
	MaxNameLength    = 50
	MaxEmailLength   = 50
	MaxPhoneLength   = 20
	MaxSummaryLength = 300
)

// summaryLines is how many lines after the name line make up the summary.
const summaryLines = 3

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// Basics is the subset of basics the extractor attempts to recover.
type Basics struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Summary  string `json:"summary"`
}

// Result is the partial resume recovered from page text.
type Result struct {
	Basics Basics   `json:"basics"`
	Skills []string `json:"skills"`
}

// ExtractBasics matches each field independently against the joined page
// text. A field with no match is empty; it never fails.
func ExtractBasics(pages []string) Result {
	text := strings.Join(pages, "\n")

	var lines []string
	for _, line := range types.ParseLines(text) {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	var name, summary string
	if len(lines) > 0 && !strings.Contains(strings.ToLower(lines[0]), "resume") {
		// A title line is discarded, not replaced by a later line.
		name = lines[0]
	}
	if len(lines) > 1 {
		summary = strings.Join(lines[1:min(len(lines), 1+summaryLines)], " ")
	}

	return Result{
		Basics: Basics{
			Name:    sanitize.Truncate(name, MaxNameLength),
			Email:   sanitize.Truncate(emailPattern.FindString(text), MaxEmailLength),
			Phone:   sanitize.Truncate(phonePattern.FindString(text), MaxPhoneLength),
			Summary: sanitize.Truncate(summary, MaxSummaryLength),
		},
		Skills: []string{},
	}
}

// Extract reads page text from data with the source and runs ExtractBasics.
// Any source failure is reported as an error matching ErrExtractionFailed.
func Extract(ctx context.Context, source PageSource, data []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, &ExtractionError{Source: sourceName(source), Message: "canceled", Cause: err}
	}
	if source == nil {
		return Result{}, &ExtractionError{Source: "unknown", Message: "unsupported file type"}
	}

	pages, err := source.Pages(ctx, data)
	if err != nil {
		log.Printf("[extract] %s source failed: %v", source.Name(), err)
		var extractionErr *ExtractionError
		if errors.As(err, &extractionErr) {
			return Result{}, extractionErr
		}
		return Result{}, &ExtractionError{Source: source.Name(), Message: "failed to read pages", Cause: err}
	}

	result := ExtractBasics(pages)
	log.Printf("[extract] %s: %d pages, name=%t email=%t phone=%t", source.Name(), len(pages),
		result.Basics.Name != "", result.Basics.Email != "", result.Basics.Phone != "")
	return result, nil
}

// Merge applies an extraction result over existing basics. Only non-empty
// extracted fields replace existing values; custom fields and the URL are kept.
func Merge(existing types.Basics, r Result) types.Basics {
	merged := existing
	merged.CustomFields = append([]types.CustomField{}, existing.CustomFields...)
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&merged.Name, r.Basics.Name},
		{&merged.Email, r.Basics.Email},
		{&merged.Phone, r.Basics.Phone},
		{&merged.Location, r.Basics.Location},
		{&merged.Summary, r.Basics.Summary},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
	return merged
}

func sourceName(s PageSource) string {
	if s == nil {
		return "unknown"
	}
	return s.Name()
}
