package editor

import (
	"context"

	"github.com/jonathan/resume-builder/internal/types"
)

func indexByID[T any](list []T, id string, idOf func(T) string) int {
	for i, v := range list {
		if idOf(v) == id {
			return i
		}
	}
	return -1
}

func updateByID[T any](list []T, id string, idOf func(T) string, apply func(T) T) ([]T, *T) {
	i := indexByID(list, id, idOf)
	if i < 0 {
		return list, nil
	}
	list[i] = apply(list[i])
	return list, &list[i]
}

func deleteByID[T any](list []T, id string, idOf func(T) string) ([]T, bool) {
	i := indexByID(list, id, idOf)
	if i < 0 {
		return list, false
	}
	return append(list[:i:i], list[i+1:]...), true
}

// move reorders list so the element at from ends up at to.
func move[T any](list []T, from, to int) bool {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return false
	}
	v := list[from]
	if from < to {
		copy(list[from:to], list[from+1:to+1])
	} else {
		copy(list[to+1:from+1], list[to:from])
	}
	list[to] = v
	return true
}

// Accessors for the id of each entry type.
func customFieldID(v types.CustomField) string      { return v.ID }
func workID(v types.WorkExperience) string          { return v.ID }
func educationID(v types.Education) string          { return v.ID }
func skillID(v types.Skill) string                  { return v.ID }
func projectID(v types.Project) string              { return v.ID }
func certificationID(v types.Certification) string  { return v.ID }
func customSectionID(v types.CustomSection) string  { return v.ID }
func customItemID(v types.CustomSectionItem) string { return v.ID }

// AddCustomField appends a custom field with a fresh id.
func (e *Editor) AddCustomField(ctx context.Context, p types.CustomFieldPatch) (types.CustomField, error) {
	f := p.Apply(types.CustomField{ID: e.newID()})
	_, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		s.Resume.Basics.CustomFields = append(s.Resume.Basics.CustomFields, f)
		return true, nil
	})
	return f, err
}

// UpdateCustomField merges p into the custom field with the given id.
func (e *Editor) UpdateCustomField(ctx context.Context, id string, p types.CustomFieldPatch) (types.CustomField, bool, error) {
	var out types.CustomField
	ok, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		var updated *types.CustomField
		s.Resume.Basics.CustomFields, updated = updateByID(s.Resume.Basics.CustomFields, id, customFieldID, p.Apply)
		if updated == nil {
			return false, nil
		}
		out = *updated
		return true, nil
	})
	return out, ok, err
}

// DeleteCustomField removes the custom field with the given id.
func (e *Editor) DeleteCustomField(ctx context.Context, id string) (bool, error) {
	return e.mutate(ctx, func(s *types.State) (bool, error) {
		var ok bool
		s.Resume.Basics.CustomFields, ok = deleteByID(s.Resume.Basics.CustomFields, id, customFieldID)
		return ok, nil
	})
}

// AddWork appends a work entry with a fresh id.
func (e *Editor) AddWork(ctx context.Context, p types.WorkPatch) (types.WorkExperience, error) {
	w := p.Apply(types.WorkExperience{ID: e.newID(), Highlights: []string{}})
	_, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		s.Resume.Work = append(s.Resume.Work, w)
		return true, nil
	})
	return w, err
}

// UpdateWork merges p into the work entry with the given id.
func (e *Editor) UpdateWork(ctx context.Context, id string, p types.WorkPatch) (types.WorkExperience, bool, error) {
	var out types.WorkExperience
	ok, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		var updated *types.WorkExperience
		s.Resume.Work, updated = updateByID(s.Resume.Work, id, workID, p.Apply)
		if updated == nil {
			return false, nil
		}
		out = *updated
		return true, nil
	})
	return out, ok, err
}

// DeleteWork removes the work entry with the given id.
func (e *Editor) DeleteWork(ctx context.Context, id string) (bool, error) {
	return e.mutate(ctx, func(s *types.State) (bool, error) {
		var ok bool
		s.Resume.Work, ok = deleteByID(s.Resume.Work, id, workID)
		return ok, nil
	})
}

// ReorderWork moves the work entry at index from to index to.
func (e *Editor) ReorderWork(ctx context.Context, from, to int) (bool, error) {
	return e.mutate(ctx, func(s *types.State) (bool, error) {
		return move(s.Resume.Work, from, to), nil
	})
}

// AddEducation appends an education entry with a fresh id.
func (e *Editor) AddEducation(ctx context.Context, p types.EducationPatch) (types.Education, error) {
	ed := p.Apply(types.Education{ID: e.newID(), AdditionalInfo: []string{}})
	_, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		s.Resume.Education = append(s.Resume.Education, ed)
		return true, nil
	})
	return ed, err
}

// UpdateEducation merges p into the education entry with the given id.
func (e *Editor) UpdateEducation(ctx context.Context, id string, p types.EducationPatch) (types.Education, bool, error) {
	var out types.Education
	ok, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		var updated *types.Education
		s.Resume.Education, updated = updateByID(s.Resume.Education, id, educationID, p.Apply)
		if updated == nil {
			return false, nil
		}
		out = *updated
		return true, nil
	})
	return out, ok, err
}

// DeleteEducation removes the education entry with the given id.
func (e *Editor) DeleteEducation(ctx context.Context, id string) (bool, error) {
	return e.mutate(ctx, func(s *types.State) (bool, error) {
		var ok bool
		s.Resume.Education, ok = deleteByID(s.Resume.Education, id, educationID)
		return ok, nil
	})
}

// AddSkill appends a skill category with a fresh id.
func (e *Editor) AddSkill(ctx context.Context, p types.SkillPatch) (types.Skill, error) {
	sk := p.Apply(types.Skill{ID: e.newID(), Skills: []string{}})
	_, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		s.Resume.Skills = append(s.Resume.Skills, sk)
		return true, nil
	})
	return sk, err
}

// UpdateSkill merges p into the skill category with the given id.
func (e *Editor) UpdateSkill(ctx context.Context, id string, p types.SkillPatch) (types.Skill, bool, error) {
	var out types.Skill
	ok, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		var updated *types.Skill
		s.Resume.Skills, updated = updateByID(s.Resume.Skills, id, skillID, p.Apply)
		if updated == nil {
			return false, nil
		}
		out = *updated
		return true, nil
	})
	return out, ok, err
}

// DeleteSkill removes the skill category with the given id.
func (e *Editor) DeleteSkill(ctx context.Context, id string) (bool, error) {
	return e.mutate(ctx, func(s *types.State) (bool, error) {
		var ok bool
		s.Resume.Skills, ok = deleteByID(s.Resume.Skills, id, skillID)
		return ok, nil
	})
}

// AddProject appends a project with a fresh id.
func (e *Editor) AddProject(ctx context.Context, p types.ProjectPatch) (types.Project, error) {
	pr := p.Apply(types.Project{ID: e.newID(), Highlights: []string{}, Technologies: []string{}})
	_, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		s.Resume.Projects = append(s.Resume.Projects, pr)
		return true, nil
	})
	return pr, err
}

// UpdateProject merges p into the project with the given id.
func (e *Editor) UpdateProject(ctx context.Context, id string, p types.ProjectPatch) (types.Project, bool, error) {
	var out types.Project
	ok, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		var updated *types.Project
		s.Resume.Projects, updated = updateByID(s.Resume.Projects, id, projectID, p.Apply)
		if updated == nil {
			return false, nil
		}
		out = *updated
		return true, nil
	})
	return out, ok, err
}

// DeleteProject removes the project with the given id.
func (e *Editor) DeleteProject(ctx context.Context, id string) (bool, error) {
	return e.mutate(ctx, func(s *types.State) (bool, error) {
		var ok bool
		s.Resume.Projects, ok = deleteByID(s.Resume.Projects, id, projectID)
		return ok, nil
	})
}

// AddCertification appends a certification with a fresh id.
func (e *Editor) AddCertification(ctx context.Context, p types.CertificationPatch) (types.Certification, error) {
	c := p.Apply(types.Certification{ID: e.newID()})
	_, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		s.Resume.Certifications = append(s.Resume.Certifications, c)
		return true, nil
	})
	return c, err
}

// UpdateCertification merges p into the certification with the given id.
func (e *Editor) UpdateCertification(ctx context.Context, id string, p types.CertificationPatch) (types.Certification, bool, error) {
	var out types.Certification
	ok, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		var updated *types.Certification
		s.Resume.Certifications, updated = updateByID(s.Resume.Certifications, id, certificationID, p.Apply)
		if updated == nil {
			return false, nil
		}
		out = *updated
		return true, nil
	})
	return out, ok, err
}

// DeleteCertification removes the certification with the given id.
func (e *Editor) DeleteCertification(ctx context.Context, id string) (bool, error) {
	return e.mutate(ctx, func(s *types.State) (bool, error) {
		var ok bool
		s.Resume.Certifications, ok = deleteByID(s.Resume.Certifications, id, certificationID)
		return ok, nil
	})
}
