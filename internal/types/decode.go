package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// DecodeResume reads a single JSON resume, rejecting unknown fields and trailing data.
func DecodeResume(r io.Reader) (*Resume, error) {
	var resume Resume
	if err := decodeStrict(r, &resume); err != nil {
		return nil, err
	}
	if err := resume.validateShape(); err != nil {
		return nil, err
	}
	resume.Normalize()
	return &resume, nil
}

// DecodeState reads a persisted State, rejecting unknown fields.
func DecodeState(r io.Reader) (*State, error) {
	var state State
	if err := decodeStrict(r, &state); err != nil {
		return nil, err
	}
	if err := state.Resume.validateShape(); err != nil {
		return nil, err
	}
	state.Resume.Normalize()
	return &state, nil
}

// UnmarshalResume is DecodeResume over a byte slice.
func UnmarshalResume(data []byte) (*Resume, error) {
	return DecodeResume(bytes.NewReader(data))
}

func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ValidationError{Fields: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	if dec.More() {
		return &ValidationError{Fields: []FieldError{{Field: "(root)", Message: "unexpected data after document"}}}
	}
	return nil
}

// validateShape enforces the closed icon enum and id uniqueness within each list.
func (r *Resume) validateShape() error {
	var fields []FieldError
	for i, f := range r.Basics.CustomFields {
		if !f.Icon.Valid() {
			fields = append(fields, FieldError{
				Field:   fmt.Sprintf("basics.customFields[%d].icon", i),
				Message: fmt.Sprintf("unknown icon %q", f.Icon),
			})
		}
	}

	check := func(list string, ids []string) {
		seen := make(map[string]bool, len(ids))
		for i, id := range ids {
			if strings.TrimSpace(id) == "" {
				continue
			}
			if seen[id] {
				fields = append(fields, FieldError{
					Field:   fmt.Sprintf("%s[%d].id", list, i),
					Message: fmt.Sprintf("duplicate id %q", id),
				})
			}
			seen[id] = true
		}
	}
	check("basics.customFields", idsOf(r.Basics.CustomFields, func(f CustomField) string { return f.ID }))
	check("work", idsOf(r.Work, func(w WorkExperience) string { return w.ID }))
	check("education", idsOf(r.Education, func(e Education) string { return e.ID }))
	check("skills", idsOf(r.Skills, func(s Skill) string { return s.ID }))
	check("projects", idsOf(r.Projects, func(p Project) string { return p.ID }))
	check("certifications", idsOf(r.Certifications, func(c Certification) string { return c.ID }))
	check("customSections", idsOf(r.CustomSections, func(s CustomSection) string { return s.ID }))
	for i, s := range r.CustomSections {
		check(fmt.Sprintf("customSections[%d].items", i), idsOf(s.Items, func(it CustomSectionItem) string { return it.ID }))
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func idsOf[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}
