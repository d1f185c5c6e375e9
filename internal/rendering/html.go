package rendering

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} Resume</title>
<style>{{.CSS}}</style>
</head>
<body>
<main class="page">
{{range .Blocks}}{{template "block" .}}{{end}}
</main>
</body>
</html>
{{define "span"}}{{if .Link}}<a href="{{.Link}}">{{template "text" .}}</a>{{else if .Separator}}<span class="sep">{{.Text}}</span>{{else}}{{template "text" .}}{{end}}{{end}}
{{define "text"}}{{if .Bold}}<strong>{{.Text}}</strong>{{else if .Italic}}<em>{{.Text}}</em>{{else}}{{.Text}}{{end}}{{end}}
{{define "spans"}}{{range .}}{{template "span" .}}{{end}}{{end}}
{{define "children"}}{{range .}}{{template "block" .}}{{end}}{{end}}
{{define "block"}}
{{- if eq .Role "header"}}<header>{{template "children" .Children}}</header>
{{- else if eq .Role "name"}}<h1>{{template "spans" .Spans}}</h1>
{{- else if eq .Role "section"}}<section>{{template "children" .Children}}</section>
{{- else if eq .Role "section-title"}}<h2>{{template "spans" .Spans}}</h2>
{{- else if eq .Role "entry"}}<div class="entry">{{template "children" .Children}}</div>
{{- else if eq .Role "entry-header"}}<div class="entry-header"><span class="title">{{template "spans" .Spans}}</span><span class="date">{{template "spans" .Trailing}}</span></div>
{{- else if eq .Role "bullet-list"}}<ul>{{template "children" .Children}}</ul>
{{- else if eq .Role "bullet"}}<li>{{template "spans" .Spans}}</li>
{{- else}}<p class="{{.Role}}">{{template "spans" .Spans}}</p>
{{- end}}
{{end}}`

var printView = template.Must(template.New("resume").Parse(htmlTemplate))

type htmlData struct {
	Title  string
	CSS    template.CSS
	Blocks []Block
}

// WriteHTML writes a self-contained print view of the document. Text is
// escaped by html/template; the browser engine prints this view to PDF.
func WriteHTML(w io.Writer, doc *Document) error {
	if doc == nil {
		return &RenderError{Message: "document is nil"}
	}
	data := htmlData{
		Title:  doc.Title,
		CSS:    template.CSS(stylesheet(doc)),
		Blocks: doc.Blocks,
	}
	if err := printView.Execute(w, data); err != nil {
		return &TemplateError{Format: FormatHTML, Message: "failed to execute template", Cause: err}
	}
	return nil
}

func cssFamily(f types.FontFamily) string {
	switch f {
	case types.FontTimes:
		return `"Times New Roman", Times, serif`
	case types.FontCourier:
		return `"Courier New", Courier, monospace`
	default:
		return `Helvetica, Arial, sans-serif`
	}
}

// stylesheet mirrors the layout metrics so the print view matches the PDF.
func stylesheet(doc *Document) string {
	m := newMetrics(doc.Settings)
	var sb strings.Builder
	fmt.Fprintf(&sb, "@page{size:%.2fpt %.2fpt;margin:%.0fpt}", doc.PageWidth, doc.PageHeight, doc.Margin)
	fmt.Fprintf(&sb, "body{margin:0;font-family:%s;font-size:%.1fpt;line-height:1.4;color:#000}", cssFamily(m.family), m.base)
	fmt.Fprintf(&sb, ".page{max-width:%.2fpt;margin:0 auto}", doc.PageWidth-2*doc.Margin)
	fmt.Fprintf(&sb, "header{text-align:center;margin-bottom:%.1fpt}", m.space(8))
	fmt.Fprintf(&sb, "h1{font-size:%.1fpt;margin:0 0 %.1fpt;color:%s}", m.name, m.space(3), m.accent.Hex())
	fmt.Fprintf(&sb, ".contact,.link,.custom-fields{font-size:%.1fpt;color:%s;margin:0}", m.small, colorContact.Hex())
	fmt.Fprintf(&sb, "a{color:%s;text-decoration:none}", colorLink.Hex())
	fmt.Fprintf(&sb, "section{margin:%.1fpt 0 %.1fpt}", m.space(10), m.space(4))
	fmt.Fprintf(&sb, "h2{font-size:%.1fpt;margin:0 0 %.1fpt;padding-bottom:1pt;border-bottom:1pt solid %s;letter-spacing:0.5pt;color:%s}",
		m.title, m.space(4), m.titleClr.Hex(), m.titleClr.Hex())
	fmt.Fprintf(&sb, ".entry{margin-bottom:%.1fpt}", m.space(5))
	sb.WriteString(".entry-header{display:flex;justify-content:space-between;gap:8pt;font-weight:bold}")
	fmt.Fprintf(&sb, ".date{font-weight:normal;font-size:%.1fpt;color:%s;white-space:nowrap}", m.small, colorDate.Hex())
	fmt.Fprintf(&sb, ".subtitle{font-size:%.1fpt;font-weight:bold;color:%s;margin:0 0 1pt}", m.small, colorSubtitle.Hex())
	sb.WriteString(".paragraph{margin:0}")
	fmt.Fprintf(&sb, "ul{margin:1pt 0 0 %.0fpt;padding-left:%.0fpt}", bulletIndent, bulletWidth)
	fmt.Fprintf(&sb, "li{font-size:%.1fpt;line-height:1.3;margin-bottom:1pt}", m.small)
	fmt.Fprintf(&sb, ".skill{font-size:%.1fpt;margin:0 0 2pt}", m.small)
	fmt.Fprintf(&sb, ".tech-stack{font-size:%.1fpt;font-style:italic;margin:0 0 2pt}", m.small)
	return sb.String()
}
