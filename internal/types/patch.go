package types

// Patch records carry only the fields a caller wants changed. Apply merges
// the non-nil fields over an existing value; the id is never patched.

// BasicsPatch is a partial update of Basics.
type BasicsPatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
	URL      *string `json:"url,omitempty"`
	Summary  *string `json:"summary,omitempty"`
}

// Apply returns b with the supplied fields merged over it.
func (p BasicsPatch) Apply(b Basics) Basics {
	setIf(&b.Name, p.Name)
	setIf(&b.Email, p.Email)
	setIf(&b.Phone, p.Phone)
	setIf(&b.Location, p.Location)
	setIf(&b.URL, p.URL)
	setIf(&b.Summary, p.Summary)
	return b
}

// CustomFieldPatch is a partial update of a CustomField.
type CustomFieldPatch struct {
	Label *string  `json:"label,omitempty"`
	Value *string  `json:"value,omitempty"`
	Icon  *IconTag `json:"icon,omitempty"`
}

// Validate rejects an icon outside the known set.
func (p CustomFieldPatch) Validate() error {
	if p.Icon != nil && !p.Icon.Valid() {
		return &ValidationError{Fields: []FieldError{{Field: "icon", Message: "unknown icon " + string(*p.Icon)}}}
	}
	return nil
}

// Apply returns f with the supplied fields merged over it.
func (p CustomFieldPatch) Apply(f CustomField) CustomField {
	setIf(&f.Label, p.Label)
	setIf(&f.Value, p.Value)
	setIf(&f.Icon, p.Icon)
	return f
}

// WorkPatch is a partial update of a WorkExperience.
type WorkPatch struct {
	Company    *string   `json:"company,omitempty"`
	Position   *string   `json:"position,omitempty"`
	Location   *string   `json:"location,omitempty"`
	StartDate  *string   `json:"startDate,omitempty"`
	EndDate    *string   `json:"endDate,omitempty"`
	Highlights *[]string `json:"highlights,omitempty"`
}

// Apply returns w with the supplied fields merged over it.
func (p WorkPatch) Apply(w WorkExperience) WorkExperience {
	setIf(&w.Company, p.Company)
	setIf(&w.Position, p.Position)
	setIf(&w.Location, p.Location)
	setIf(&w.StartDate, p.StartDate)
	setIf(&w.EndDate, p.EndDate)
	setList(&w.Highlights, p.Highlights)
	return w
}

// EducationPatch is a partial update of an Education entry.
type EducationPatch struct {
	Institution    *string   `json:"institution,omitempty"`
	Degree         *string   `json:"degree,omitempty"`
	Field          *string   `json:"field,omitempty"`
	Location       *string   `json:"location,omitempty"`
	StartDate      *string   `json:"startDate,omitempty"`
	EndDate        *string   `json:"endDate,omitempty"`
	GPA            *string   `json:"gpa,omitempty"`
	AdditionalInfo *[]string `json:"additionalInfo,omitempty"`
}

// Apply returns e with the supplied fields merged over it.
func (p EducationPatch) Apply(e Education) Education {
	setIf(&e.Institution, p.Institution)
	setIf(&e.Degree, p.Degree)
	setIf(&e.Field, p.Field)
	setIf(&e.Location, p.Location)
	setIf(&e.StartDate, p.StartDate)
	setIf(&e.EndDate, p.EndDate)
	setIf(&e.GPA, p.GPA)
	setList(&e.AdditionalInfo, p.AdditionalInfo)
	return e
}

// SkillPatch is a partial update of a Skill category.
type SkillPatch struct {
	Category *string   `json:"category,omitempty"`
	Skills   *[]string `json:"skills,omitempty"`
}

// Apply returns s with the supplied fields merged over it.
func (p SkillPatch) Apply(s Skill) Skill {
	setIf(&s.Category, p.Category)
	setList(&s.Skills, p.Skills)
	return s
}

// ProjectPatch is a partial update of a Project.
type ProjectPatch struct {
	Name         *string   `json:"name,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Date         *string   `json:"date,omitempty"`
	Highlights   *[]string `json:"highlights,omitempty"`
	Technologies *[]string `json:"technologies,omitempty"`
}

// Apply returns pr with the supplied fields merged over it.
func (p ProjectPatch) Apply(pr Project) Project {
	setIf(&pr.Name, p.Name)
	setIf(&pr.Description, p.Description)
	setIf(&pr.Date, p.Date)
	setList(&pr.Highlights, p.Highlights)
	setList(&pr.Technologies, p.Technologies)
	return pr
}

// CertificationPatch is a partial update of a Certification.
type CertificationPatch struct {
	Name   *string `json:"name,omitempty"`
	Issuer *string `json:"issuer,omitempty"`
	Date   *string `json:"date,omitempty"`
	URL    *string `json:"url,omitempty"`
}

// Apply returns c with the supplied fields merged over it.
func (p CertificationPatch) Apply(c Certification) Certification {
	setIf(&c.Name, p.Name)
	setIf(&c.Issuer, p.Issuer)
	setIf(&c.Date, p.Date)
	setIf(&c.URL, p.URL)
	return c
}

// CustomSectionItemPatch is a partial update of a CustomSectionItem.
type CustomSectionItemPatch struct {
	Title       *string   `json:"title,omitempty"`
	Subtitle    *string   `json:"subtitle,omitempty"`
	Date        *string   `json:"date,omitempty"`
	Description *string   `json:"description,omitempty"`
	Details     *[]string `json:"details,omitempty"`
}

// Apply returns it with the supplied fields merged over it.
func (p CustomSectionItemPatch) Apply(it CustomSectionItem) CustomSectionItem {
	setIf(&it.Title, p.Title)
	setIf(&it.Subtitle, p.Subtitle)
	setIf(&it.Date, p.Date)
	setIf(&it.Description, p.Description)
	setList(&it.Details, p.Details)
	return it
}

// setList copies the supplied list so the entry never aliases caller memory.
func setList(dst *[]string, src *[]string) {
	if src == nil {
		return
	}
	out := make([]string, len(*src))
	copy(out, *src)
	*dst = out
}
