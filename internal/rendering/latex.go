package rendering

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/resume-builder/internal/types"
)

// defaultLaTeXTemplate renders the block tree as an article-class document.
// Delimiters are << >> so LaTeX braces need no quoting.
const defaultLaTeXTemplate = `\documentclass[<<.FontSize>>pt,a4paper]{article}
\usepackage[margin=<<.Margin>>pt]{geometry}
\usepackage[T1]{fontenc}
\usepackage[utf8]{inputenc}
<<- .FontPackage>>
\usepackage[hidelinks]{hyperref}
\usepackage{xcolor}
\usepackage{enumitem}
\setlength{\parindent}{0pt}
\pagestyle{empty}
\begin{document}
<<range .Blocks>><<template "block" .>><<end>>
\end{document}
<<define "spans">><<range .>><<if .Link>>\href{<<url .Link>>}{<<template "text" .>>}<<else>><<template "text" .>><<end>><<end>><<end>>
<<define "text">><<if .Bold>>\textbf{<<escape .Text>>}<<else if .Italic>>\textit{<<escape .Text>>}<<else>><<escape .Text>><<end>><<end>>
<<define "children">><<range .>><<template "block" .>><<end>><<end>>
<<define "block">>
<<- if eq .Role "header">>\begin{center}
<<template "children" .Children>>\end{center}
<<else if eq .Role "name">>{\Large\bfseries <<template "spans" .Spans>>}\\[2pt]
<<else if or (eq .Role "contact") (eq .Role "link") (eq .Role "custom-fields")>>{\small <<template "spans" .Spans>>}\\
<<else if eq .Role "section">>
<<template "children" .Children>>
<<- else if eq .Role "section-title">>\vspace{6pt}{\large\bfseries <<template "spans" .Spans>>}\\[-6pt]
\rule{\linewidth}{0.6pt}\\
<<else if eq .Role "entry">><<template "children" .Children>>\vspace{3pt}
<<else if eq .Role "entry-header">>\textbf{<<template "spans" .Spans>>}\hfill{\small <<template "spans" .Trailing>>}\\
<<else if eq .Role "subtitle">>{\small\bfseries <<template "spans" .Spans>>}\\
<<else if eq .Role "bullet-list">>\begin{itemize}[leftmargin=12pt,itemsep=0pt,topsep=1pt]
<<template "children" .Children>>\end{itemize}
<<else if eq .Role "bullet">>\item <<template "spans" .Spans>>
<<else if eq .Role "tech-stack">>{\small\itshape <<template "spans" .Spans>>}\\
<<else>><<template "spans" .Spans>>\\
<<end>>
<<- end>>`

type latexData struct {
	FontSize    int
	Margin      int
	FontPackage string
	Blocks      []Block
}

// latexFontSizes are the sizes the article class accepts.
var latexFontSizes = []int{10, 11, 12}

// WriteLaTeX writes LaTeX source for the document using the built-in template.
func WriteLaTeX(w io.Writer, doc *Document) error {
	tmpl, err := parseLaTeXTemplate(defaultLaTeXTemplate)
	if err != nil {
		return err
	}
	return executeLaTeX(w, tmpl, doc)
}

// WriteLaTeXWithTemplate writes LaTeX source using a template file on disk.
func WriteLaTeXWithTemplate(w io.Writer, doc *Document, templatePath string) error {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &TemplateError{
				Format:  FormatLaTeX,
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return &TemplateError{
			Format:  FormatLaTeX,
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}
	tmpl, err := parseLaTeXTemplate(string(content))
	if err != nil {
		return err
	}
	return executeLaTeX(w, tmpl, doc)
}

func parseLaTeXTemplate(content string) (*template.Template, error) {
	tmpl, err := template.New("resume").Delims("<<", ">>").Funcs(template.FuncMap{
		"escape": EscapeLaTeX,
		"url":    escapeLaTeXURL,
	}).Parse(content)
	if err != nil {
		return nil, &TemplateError{
			Format:  FormatLaTeX,
			Message: "failed to parse template",
			Cause:   err,
		}
	}
	return tmpl, nil
}

func executeLaTeX(w io.Writer, tmpl *template.Template, doc *Document) error {
	if doc == nil {
		return &RenderError{Message: "document is nil"}
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, latexDataFor(doc)); err != nil {
		return &TemplateError{
			Format:  FormatLaTeX,
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	if _, err := io.WriteString(w, out.String()); err != nil {
		return &RenderError{Message: "failed to write LaTeX", Cause: err}
	}
	return nil
}

func latexDataFor(doc *Document) latexData {
	// Snap to the nearest size the document class supports.
	size := latexFontSizes[0]
	for _, s := range latexFontSizes {
		if float64(s) <= doc.Settings.FontSize+0.5 {
			size = s
		}
	}
	pkg := ""
	switch doc.Settings.FontFamily {
	case types.FontTimes:
		pkg = "\n\\usepackage{mathptmx}"
	case types.FontCourier:
		pkg = "\n\\usepackage{courier}\n\\renewcommand{\\familydefault}{\\ttdefault}"
	case types.FontHelvetica:
		pkg = "\n\\usepackage{helvet}\n\\renewcommand{\\familydefault}{\\sfdefault}"
	}
	return latexData{
		FontSize:    size,
		Margin:      int(doc.Margin),
		FontPackage: pkg,
		Blocks:      doc.Blocks,
	}
}
