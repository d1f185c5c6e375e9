// Package types provides the resume document model shared by the editor, renderer and extractor.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Resume is the root document aggregate.
type Resume struct {
	Basics         Basics           `json:"basics"`
	Work           []WorkExperience `json:"work"`
	Education      []Education      `json:"education"`
	Skills         []Skill          `json:"skills"`
	Projects       []Project        `json:"projects"`
	Certifications []Certification  `json:"certifications"`
	CustomSections []CustomSection  `json:"customSections"`
}

// Basics is the non-repeated personal and contact portion of a resume.
type Basics struct {
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Location     string        `json:"location"`
	URL          string        `json:"url"`
	Summary      string        `json:"summary"`
	CustomFields []CustomField `json:"customFields"`
}

// IconTag names the icon shown next to a custom field.
type IconTag string

// Known icon tags
const (
	IconGitHub    IconTag = "github"
	IconLinkedIn  IconTag = "linkedin"
	IconPortfolio IconTag = "portfolio"
	IconWebsite   IconTag = "website"
	IconTwitter   IconTag = "twitter"
	IconEmail     IconTag = "email"
	IconPhone     IconTag = "phone"
	IconOther     IconTag = "other"
)

// Valid reports whether the tag is empty or one of the known icons.
func (t IconTag) Valid() bool {
	switch t {
	case "", IconGitHub, IconLinkedIn, IconPortfolio, IconWebsite, IconTwitter, IconEmail, IconPhone, IconOther:
		return true
	}
	return false
}

// CustomField is an additional labelled contact entry such as a GitHub profile.
type CustomField struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Value string  `json:"value"`
	Icon  IconTag `json:"icon,omitempty"`
}

// WorkExperience is one entry of the experience section.
type WorkExperience struct {
	ID         string   `json:"id"`
	Company    string   `json:"company"`
	Position   string   `json:"position"`
	Location   string   `json:"location"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Highlights []string `json:"highlights"`
}

// Education is one entry of the education section.
type Education struct {
	ID             string   `json:"id"`
	Institution    string   `json:"institution"`
	Degree         string   `json:"degree"`
	Field          string   `json:"field"`
	Location       string   `json:"location"`
	StartDate      string   `json:"startDate"`
	EndDate        string   `json:"endDate"`
	GPA            string   `json:"gpa,omitempty"`
	AdditionalInfo []string `json:"additionalInfo"`
}

// Skill is a named category of skills.
type Skill struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

// Project is one entry of the projects section.
type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Date         string   `json:"date"`
	Highlights   []string `json:"highlights"`
	Technologies []string `json:"technologies"`
}

// Certification is one entry of the certifications section.
type Certification struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date,omitempty"`
	URL    string `json:"url,omitempty"`
}

// CustomSection is a user-titled section rendered after the fixed ones.
type CustomSection struct {
	ID    string              `json:"id"`
	Title string              `json:"title"`
	Items []CustomSectionItem `json:"items"`
}

// CustomSectionItem is one entry of a custom section.
type CustomSectionItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Date        string   `json:"date,omitempty"`
	Description string   `json:"description,omitempty"`
	Details     []string `json:"details"`
}

// Normalize replaces nil slices with empty ones so that every list is an array downstream.
func (r *Resume) Normalize() {
	r.Basics.CustomFields = emptyIfNil(r.Basics.CustomFields)
	r.Work = emptyIfNil(r.Work)
	for i := range r.Work {
		r.Work[i].Highlights = emptyIfNil(r.Work[i].Highlights)
	}
	r.Education = emptyIfNil(r.Education)
	for i := range r.Education {
		r.Education[i].AdditionalInfo = emptyIfNil(r.Education[i].AdditionalInfo)
	}
	r.Skills = emptyIfNil(r.Skills)
	for i := range r.Skills {
		r.Skills[i].Skills = emptyIfNil(r.Skills[i].Skills)
	}
	r.Projects = emptyIfNil(r.Projects)
	for i := range r.Projects {
		r.Projects[i].Highlights = emptyIfNil(r.Projects[i].Highlights)
		r.Projects[i].Technologies = emptyIfNil(r.Projects[i].Technologies)
	}
	r.Certifications = emptyIfNil(r.Certifications)
	r.CustomSections = emptyIfNil(r.CustomSections)
	for i := range r.CustomSections {
		r.CustomSections[i].Items = emptyIfNil(r.CustomSections[i].Items)
		for j := range r.CustomSections[i].Items {
			r.CustomSections[i].Items[j].Details = emptyIfNil(r.CustomSections[i].Items[j].Details)
		}
	}
}

// Clone returns a deep copy of the resume. The copy shares no slices with the original.
func (r *Resume) Clone() Resume {
	out := *r
	out.Basics.CustomFields = cloneSlice(r.Basics.CustomFields)

	out.Work = cloneSlice(r.Work)
	for i := range out.Work {
		out.Work[i].Highlights = cloneSlice(r.Work[i].Highlights)
	}
	out.Education = cloneSlice(r.Education)
	for i := range out.Education {
		out.Education[i].AdditionalInfo = cloneSlice(r.Education[i].AdditionalInfo)
	}
	out.Skills = cloneSlice(r.Skills)
	for i := range out.Skills {
		out.Skills[i].Skills = cloneSlice(r.Skills[i].Skills)
	}
	out.Projects = cloneSlice(r.Projects)
	for i := range out.Projects {
		out.Projects[i].Highlights = cloneSlice(r.Projects[i].Highlights)
		out.Projects[i].Technologies = cloneSlice(r.Projects[i].Technologies)
	}
	out.Certifications = cloneSlice(r.Certifications)
	out.CustomSections = cloneSlice(r.CustomSections)
	for i := range out.CustomSections {
		items := cloneSlice(r.CustomSections[i].Items)
		for j := range items {
			items[j].Details = cloneSlice(r.CustomSections[i].Items[j].Details)
		}
		out.CustomSections[i].Items = items
	}
	return out
}

// EmptyResume returns a resume with no content and every list initialised.
func EmptyResume() Resume {
	var r Resume
	r.Normalize()
	return r
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
