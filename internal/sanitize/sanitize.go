// Package sanitize provides pure functions that clean free-text input before it enters the resume model.
package sanitize

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"
)

// Field length limits applied by the editing surface.
const (
	MaxNameLength     = 100
	MaxShortLength    = 200
	MaxSummaryLength  = 2000
	MaxHighlightChars = 500
)

var (
	// scriptPattern matches executable elements together with their content.
	scriptPattern = regexp.MustCompile(`(?is)<(script|style)\b[^>]*>.*?</(script|style)\s*>`)
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
)

var markupEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// StripTags removes script and style elements with their content, then
// every remaining tag-like substring matching <...>.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	s = scriptPattern.ReplaceAllString(s, "")
	return tagPattern.ReplaceAllString(s, "")
}

// Text strips tags and then escapes the reserved markup characters.
// Tags are stripped first so their delimiters never survive as escaped text.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return markupEscaper.Replace(StripTags(s))
}

// Email keeps only characters in [A-Za-z0-9@._+-].
func Email(s string) string {
	return keep(s, func(r rune) bool {
		return isASCIIAlnum(r) || strings.ContainsRune("@._+-", r)
	})
}

// Phone keeps only digits, whitespace and the characters + - ( ).
func Phone(s string) string {
	return keep(s, func(r rune) bool {
		return (r >= '0' && r <= '9') || unicode.IsSpace(r) || strings.ContainsRune("+-()", r)
	})
}

// URL returns the normalised form of an absolute http or https URL.
// Any other scheme yields "". Input that is not an absolute URL, or an http(s)
// URL without a host, is passed through unchanged only when it starts with "http".
func URL(s string) string {
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		if strings.HasPrefix(s, "http") {
			return s
		}
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return s
	}
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" && u.RawPath == "" && u.Opaque == "" {
		u.Path = "/"
	}
	return u.String()
}

// Truncate cuts s to at most max UTF-16 code units with no ellipsis.
// A surrogate pair that would straddle the limit is dropped whole.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	units := 0
	for i, r := range s {
		n := 1
		if r >= 0x10000 {
			n = len(utf16.Encode([]rune{r}))
		}
		if units+n > max {
			return s[:i]
		}
		units += n
	}
	return s
}

// TextAndTruncate applies Text and then Truncate.
func TextAndTruncate(s string, max int) string {
	return Truncate(Text(s), max)
}

// PlainAndTruncate applies StripTags and then Truncate. It is used for
// values rendered by backends that escape their own output.
func PlainAndTruncate(s string, max int) string {
	return Truncate(StripTags(s), max)
}

func keep(s string, allowed func(rune) bool) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if allowed(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
