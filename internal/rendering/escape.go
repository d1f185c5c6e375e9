package rendering

import "strings"

// EscapeLaTeX escapes special LaTeX characters in text
// Special characters: \ { } $ & % # ^ _ ~ < > |
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2)

	for _, r := range text {
		switch r {
		case '\\':
			result.WriteString(`\textbackslash{}`)
		case '{', '}', '$', '&', '%', '#', '_':
			result.WriteByte('\\')
			result.WriteRune(r)
		case '^':
			result.WriteString(`\textasciicircum{}`)
		case '~':
			result.WriteString(`\textasciitilde{}`)
		case '<':
			result.WriteString(`\textless{}`)
		case '>':
			result.WriteString(`\textgreater{}`)
		case '|':
			result.WriteString(`\textbar{}`)
		case '\n':
			result.WriteByte(' ')
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// escapeLaTeXURL escapes the characters hyperref cannot take verbatim in an \href target.
func escapeLaTeXURL(u string) string {
	return strings.NewReplacer("%", `\%`, "#", `\#`, "{", `\{`, "}", `\}`).Replace(u)
}
