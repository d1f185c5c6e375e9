package server

import (
	"github.com/jonathan/resume-builder/internal/extraction"
	"github.com/jonathan/resume-builder/internal/sanitize"
	"github.com/jonathan/resume-builder/internal/types"
)

// Request values are cleaned here, before they reach the editor.

func cleanText(p *string, max int) {
	if p != nil {
		*p = sanitize.TextAndTruncate(*p, max)
	}
}

func cleanWith(p *string, fn func(string) string) {
	if p != nil {
		*p = fn(*p)
	}
}

func cleanList(p *[]string, max int) {
	if p == nil {
		return
	}
	out := make([]string, len(*p))
	for i, s := range *p {
		out[i] = sanitize.TextAndTruncate(s, max)
	}
	*p = out
}

func cleanLines(lines []string, max int) []string {
	cleanList(&lines, max)
	return lines
}

func cleanBasicsPatch(p *types.BasicsPatch) {
	cleanText(p.Name, sanitize.MaxNameLength)
	cleanWith(p.Email, sanitize.Email)
	cleanWith(p.Phone, sanitize.Phone)
	cleanText(p.Location, sanitize.MaxShortLength)
	cleanWith(p.URL, sanitize.URL)
	cleanText(p.Summary, sanitize.MaxSummaryLength)
}

func cleanCustomFieldPatch(p *types.CustomFieldPatch) {
	cleanText(p.Label, sanitize.MaxShortLength)
	cleanText(p.Value, sanitize.MaxShortLength)
}

func cleanWorkPatch(p *types.WorkPatch) {
	cleanText(p.Company, sanitize.MaxShortLength)
	cleanText(p.Position, sanitize.MaxShortLength)
	cleanText(p.Location, sanitize.MaxShortLength)
	cleanText(p.StartDate, sanitize.MaxShortLength)
	cleanText(p.EndDate, sanitize.MaxShortLength)
	cleanList(p.Highlights, sanitize.MaxHighlightChars)
}

func cleanEducationPatch(p *types.EducationPatch) {
	cleanText(p.Institution, sanitize.MaxShortLength)
	cleanText(p.Degree, sanitize.MaxShortLength)
	cleanText(p.Field, sanitize.MaxShortLength)
	cleanText(p.Location, sanitize.MaxShortLength)
	cleanText(p.StartDate, sanitize.MaxShortLength)
	cleanText(p.EndDate, sanitize.MaxShortLength)
	cleanText(p.GPA, sanitize.MaxShortLength)
	cleanList(p.AdditionalInfo, sanitize.MaxHighlightChars)
}

func cleanSkillPatch(p *types.SkillPatch) {
	cleanText(p.Category, sanitize.MaxShortLength)
	cleanList(p.Skills, sanitize.MaxShortLength)
}

func cleanProjectPatch(p *types.ProjectPatch) {
	cleanText(p.Name, sanitize.MaxShortLength)
	cleanText(p.Description, sanitize.MaxSummaryLength)
	cleanText(p.Date, sanitize.MaxShortLength)
	cleanList(p.Highlights, sanitize.MaxHighlightChars)
	cleanList(p.Technologies, sanitize.MaxShortLength)
}

func cleanCertificationPatch(p *types.CertificationPatch) {
	cleanText(p.Name, sanitize.MaxShortLength)
	cleanText(p.Issuer, sanitize.MaxShortLength)
	cleanText(p.Date, sanitize.MaxShortLength)
	cleanWith(p.URL, sanitize.URL)
}

func cleanCustomSectionItemPatch(p *types.CustomSectionItemPatch) {
	cleanText(p.Title, sanitize.MaxShortLength)
	cleanText(p.Subtitle, sanitize.MaxShortLength)
	cleanText(p.Date, sanitize.MaxShortLength)
	cleanText(p.Description, sanitize.MaxSummaryLength)
	cleanList(p.Details, sanitize.MaxHighlightChars)
}

// cleanResume applies the same rules to a whole document.
func cleanResume(r *types.Resume) {
	b := &r.Basics
	cleanBasicsPatch(&types.BasicsPatch{
		Name: &b.Name, Email: &b.Email, Phone: &b.Phone,
		Location: &b.Location, URL: &b.URL, Summary: &b.Summary,
	})
	for i := range b.CustomFields {
		f := &b.CustomFields[i]
		cleanCustomFieldPatch(&types.CustomFieldPatch{Label: &f.Label, Value: &f.Value})
	}
	for i := range r.Work {
		w := &r.Work[i]
		cleanWorkPatch(&types.WorkPatch{
			Company: &w.Company, Position: &w.Position, Location: &w.Location,
			StartDate: &w.StartDate, EndDate: &w.EndDate,
		})
		w.Highlights = cleanLines(w.Highlights, sanitize.MaxHighlightChars)
	}
	for i := range r.Education {
		e := &r.Education[i]
		cleanEducationPatch(&types.EducationPatch{
			Institution: &e.Institution, Degree: &e.Degree, Field: &e.Field,
			Location: &e.Location, StartDate: &e.StartDate, EndDate: &e.EndDate, GPA: &e.GPA,
		})
		e.AdditionalInfo = cleanLines(e.AdditionalInfo, sanitize.MaxHighlightChars)
	}
	for i := range r.Skills {
		s := &r.Skills[i]
		cleanText(&s.Category, sanitize.MaxShortLength)
		s.Skills = cleanLines(s.Skills, sanitize.MaxShortLength)
	}
	for i := range r.Projects {
		p := &r.Projects[i]
		cleanProjectPatch(&types.ProjectPatch{Name: &p.Name, Description: &p.Description, Date: &p.Date})
		p.Highlights = cleanLines(p.Highlights, sanitize.MaxHighlightChars)
		p.Technologies = cleanLines(p.Technologies, sanitize.MaxShortLength)
	}
	for i := range r.Certifications {
		c := &r.Certifications[i]
		cleanCertificationPatch(&types.CertificationPatch{Name: &c.Name, Issuer: &c.Issuer, Date: &c.Date, URL: &c.URL})
	}
	for i := range r.CustomSections {
		cs := &r.CustomSections[i]
		cleanText(&cs.Title, sanitize.MaxShortLength)
		for j := range cs.Items {
			it := &cs.Items[j]
			cleanCustomSectionItemPatch(&types.CustomSectionItemPatch{
				Title: &it.Title, Subtitle: &it.Subtitle, Date: &it.Date, Description: &it.Description,
			})
			it.Details = cleanLines(it.Details, sanitize.MaxHighlightChars)
		}
	}
}

// cleanExtraction runs extracted text through the same rules as typed input.
func cleanExtraction(r *extraction.Result) {
	r.Basics.Name = sanitize.Text(r.Basics.Name)
	r.Basics.Email = sanitize.Email(r.Basics.Email)
	r.Basics.Phone = sanitize.Phone(r.Basics.Phone)
	r.Basics.Location = sanitize.Text(r.Basics.Location)
	r.Basics.Summary = sanitize.Text(r.Basics.Summary)
}
