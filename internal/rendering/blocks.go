package rendering

import (
	"html"
	"regexp"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Role identifies what a block represents in the resume layout.
type Role string

// Block roles
const (
	RoleHeader       Role = "header"
	RoleName         Role = "name"
	RoleContact      Role = "contact"
	RoleLink         Role = "link"
	RoleCustomFields Role = "custom-fields"
	RoleSection      Role = "section"
	RoleSectionTitle Role = "section-title"
	RoleEntry        Role = "entry"
	RoleEntryHeader  Role = "entry-header"
	RoleSubtitle     Role = "subtitle"
	RoleParagraph    Role = "paragraph"
	RoleBulletList   Role = "bullet-list"
	RoleBullet       Role = "bullet"
	RoleSkill        Role = "skill"
	RoleTechStack    Role = "tech-stack"
)

// Section titles of the fixed sections.
const (
	TitleSummary        = "PROFESSIONAL SUMMARY"
	TitleExperience     = "EXPERIENCE"
	TitleEducation      = "EDUCATION"
	TitleSkills         = "TECHNICAL SKILLS"
	TitleProjects       = "PROJECTS"
	TitleCertifications = "CERTIFICATIONS"
)

// Span is a run of text sharing one inline style.
type Span struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Link      string `json:"link,omitempty"`
	Separator bool   `json:"separator,omitempty"`
}

// Block is a node of the styled document tree. Leaf blocks carry spans;
// container blocks carry children. Entry headers also carry a right-aligned
// trailing column.
type Block struct {
	Role          Role    `json:"role"`
	Style         Style   `json:"style"`
	Spans         []Span  `json:"spans,omitempty"`
	Trailing      []Span  `json:"trailing,omitempty"`
	TrailingStyle Style   `json:"trailingStyle"`
	Children      []Block `json:"children,omitempty"`
}

// Text returns the concatenated text of the block's spans.
func (b Block) Text() string {
	return spanText(b.Spans)
}

// Find returns every block with the given role, depth first.
func (b Block) Find(role Role) []Block {
	var out []Block
	if b.Role == role {
		out = append(out, b)
	}
	for _, c := range b.Children {
		out = append(out, c.Find(role)...)
	}
	return out
}

func spanText(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

var schemePrefix = regexp.MustCompile(`^https?://`)

// DisplayURL strips a leading http:// or https:// for display.
func DisplayURL(u string) string {
	return schemePrefix.ReplaceAllString(u, "")
}

// plain trims a model value and undoes markup escaping applied on write.
// Each backend escapes for its own output format.
func plain(s string) string {
	return html.UnescapeString(strings.TrimSpace(s))
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = plain(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// dateRange joins start and end with an em dash, or returns whichever one is present.
func dateRange(start, end string) string {
	return strings.Join(nonEmpty(start, end), DateSeparator)
}

// buildBlocks maps a resume onto the block tree. Sections and lists with no
// visible content are omitted entirely.
func buildBlocks(r *types.Resume, m metrics) []Block {
	var blocks []Block

	if header, ok := headerBlock(r.Basics, m); ok {
		blocks = append(blocks, header)
	}
	if summary := plain(r.Basics.Summary); summary != "" {
		blocks = append(blocks, section(m, TitleSummary, Block{
			Role:  RoleParagraph,
			Style: m.paragraphStyle(),
			Spans: []Span{{Text: summary}},
		}))
	}
	var work []Block
	for _, w := range r.Work {
		work = appendEntry(work, entry(m,
			plain(w.Position), dateRange(w.StartDate, w.EndDate), plain(w.Company), "", w.Highlights))
	}
	if len(work) > 0 {
		blocks = append(blocks, section(m, TitleExperience, work...))
	}
	var education []Block
	for _, e := range r.Education {
		education = appendEntry(education, educationEntry(m, e))
	}
	if len(education) > 0 {
		blocks = append(blocks, section(m, TitleEducation, education...))
	}
	if lines := skillLines(r.Skills, m); len(lines) > 0 {
		blocks = append(blocks, section(m, TitleSkills, lines...))
	}
	var projects []Block
	for _, p := range r.Projects {
		projects = appendEntry(projects, projectEntry(m, p))
	}
	if len(projects) > 0 {
		blocks = append(blocks, section(m, TitleProjects, projects...))
	}
	if list, ok := certificationList(r.Certifications, m); ok {
		blocks = append(blocks, section(m, TitleCertifications, list))
	}
	for _, cs := range r.CustomSections {
		if b, ok := customSection(cs, m); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func headerBlock(b types.Basics, m metrics) (Block, bool) {
	header := Block{Role: RoleHeader, Style: Style{Align: AlignCenter, SpaceAfter: m.space(8)}}

	if name := plain(b.Name); name != "" {
		header.Children = append(header.Children, Block{
			Role:  RoleName,
			Style: m.nameStyle(),
			Spans: []Span{{Text: strings.ToUpper(name)}},
		})
	}
	if contact := nonEmpty(b.Location, b.Email, b.Phone); len(contact) > 0 {
		header.Children = append(header.Children, Block{
			Role:  RoleContact,
			Style: m.contactStyle(),
			Spans: []Span{{Text: strings.Join(contact, ContactSeparator)}},
		})
	}
	if u := plain(b.URL); u != "" {
		header.Children = append(header.Children, Block{
			Role:  RoleLink,
			Style: m.contactStyle(),
			Spans: []Span{{Text: DisplayURL(u), Link: u}},
		})
	}
	if spans := customFieldSpans(b.CustomFields); len(spans) > 0 {
		style := m.contactStyle()
		style.SpaceBefore = m.space(2)
		header.Children = append(header.Children, Block{Role: RoleCustomFields, Style: style, Spans: spans})
	}
	return header, len(header.Children) > 0
}

// customFieldSpans lays out the shown custom fields with exactly one separator
// between consecutive entries.
func customFieldSpans(fields []types.CustomField) []Span {
	var spans []Span
	shown := 0
	for _, f := range fields {
		value := plain(f.Value)
		if value == "" {
			continue
		}
		if shown > 0 {
			spans = append(spans, Span{Text: FieldSeparator, Separator: true})
		}
		shown++
		if label := plain(f.Label); label != "" {
			spans = append(spans, Span{Text: label + ": "})
		}
		spans = append(spans, Span{Text: DisplayURL(value), Link: fieldLink(f.Icon, value)})
	}
	return spans
}

func fieldLink(icon types.IconTag, value string) string {
	switch {
	case schemePrefix.MatchString(value):
		return value
	case icon == types.IconEmail && strings.Contains(value, "@"):
		return "mailto:" + value
	}
	return ""
}

// appendEntry drops entries whose fields are all blank.
func appendEntry(entries []Block, e Block) []Block {
	if len(e.Children) == 0 {
		return entries
	}
	return append(entries, e)
}

func section(m metrics, title string, children ...Block) Block {
	b := Block{Role: RoleSection, Style: m.sectionStyle()}
	if title != "" {
		b.Children = append(b.Children, Block{
			Role:  RoleSectionTitle,
			Style: m.sectionTitleStyle(),
			Spans: []Span{{Text: strings.ToUpper(title)}},
		})
	}
	b.Children = append(b.Children, children...)
	return b
}

func entry(m metrics, title, date, subtitle, description string, bullets []string) Block {
	e := Block{Role: RoleEntry, Style: m.entryStyle()}
	if title != "" || date != "" {
		h := Block{Role: RoleEntryHeader, Style: m.entryTitleStyle(), TrailingStyle: m.dateStyle()}
		if title != "" {
			h.Spans = []Span{{Text: title}}
		}
		if date != "" {
			h.Trailing = []Span{{Text: date}}
		}
		e.Children = append(e.Children, h)
	}
	if subtitle != "" {
		e.Children = append(e.Children, Block{Role: RoleSubtitle, Style: m.subtitleStyle(), Spans: []Span{{Text: subtitle}}})
	}
	if description != "" {
		e.Children = append(e.Children, Block{Role: RoleParagraph, Style: m.paragraphStyle(), Spans: []Span{{Text: description}}})
	}
	if list, ok := bulletList(m, bullets); ok {
		e.Children = append(e.Children, list)
	}
	return e
}

func bulletList(m metrics, items []string) (Block, bool) {
	list := Block{Role: RoleBulletList, Style: m.bulletListStyle()}
	for _, it := range items {
		if text := plain(it); text != "" {
			list.Children = append(list.Children, Block{Role: RoleBullet, Style: m.bulletStyle(), Spans: []Span{{Text: text}}})
		}
	}
	return list, len(list.Children) > 0
}

func educationEntry(m metrics, e types.Education) Block {
	title := strings.Join(nonEmpty(e.Degree, e.Field), " in ")
	subtitle := strings.Join(nonEmpty(e.Institution, e.Location), ", ")
	b := entry(m, title, dateRange(e.StartDate, e.EndDate), subtitle, "", nil)
	if gpa := plain(e.GPA); gpa != "" {
		b.Children = append(b.Children, Block{Role: RoleParagraph, Style: m.paragraphStyle(), Spans: []Span{{Text: "GPA: " + gpa}}})
	}
	if list, ok := bulletList(m, e.AdditionalInfo); ok {
		b.Children = append(b.Children, list)
	}
	return b
}

func skillLines(skills []types.Skill, m metrics) []Block {
	var lines []Block
	for _, s := range skills {
		names := nonEmpty(s.Skills...)
		category := plain(s.Category)
		if category == "" && len(names) == 0 {
			continue
		}
		var spans []Span
		if category != "" {
			spans = append(spans, Span{Text: category + ": ", Bold: true})
		}
		if len(names) > 0 {
			spans = append(spans, Span{Text: strings.Join(names, ", ")})
		}
		lines = append(lines, Block{Role: RoleSkill, Style: m.skillStyle(), Spans: spans})
	}
	return lines
}

func projectEntry(m metrics, p types.Project) Block {
	b := Block{Role: RoleEntry, Style: m.entryStyle()}
	head := entry(m, plain(p.Name), plain(p.Date), plain(p.Description), "", nil)
	b.Children = append(b.Children, head.Children...)
	if tech := nonEmpty(p.Technologies...); len(tech) > 0 {
		b.Children = append(b.Children, Block{
			Role:  RoleTechStack,
			Style: m.techStyle(),
			Spans: []Span{
				{Text: "Tech Stack:", Bold: true},
				{Text: " " + strings.Join(tech, ", ")},
			},
		})
	}
	if list, ok := bulletList(m, p.Highlights); ok {
		b.Children = append(b.Children, list)
	}
	return b
}

func certificationList(certs []types.Certification, m metrics) (Block, bool) {
	list := Block{Role: RoleBulletList, Style: m.bulletListStyle()}
	for _, c := range certs {
		name, issuer, date := plain(c.Name), plain(c.Issuer), plain(c.Date)
		if name == "" && issuer == "" && date == "" {
			continue
		}
		var spans []Span
		if name != "" {
			spans = append(spans, Span{Text: name, Link: plain(c.URL)})
		}
		if issuer != "" {
			spans = append(spans, Span{Text: IssuerSeparator + issuer})
		}
		if date != "" {
			spans = append(spans, Span{Text: " (" + date + ")"})
		}
		list.Children = append(list.Children, Block{Role: RoleBullet, Style: m.bulletStyle(), Spans: spans})
	}
	return list, len(list.Children) > 0
}

func customSection(cs types.CustomSection, m metrics) (Block, bool) {
	var items []Block
	for _, it := range cs.Items {
		items = appendEntry(items, entry(m, plain(it.Title), plain(it.Date), plain(it.Subtitle), plain(it.Description), it.Details))
	}
	if len(items) == 0 {
		return Block{}, false
	}
	return section(m, plain(cs.Title), items...), true
}
