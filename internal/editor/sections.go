package editor

import (
	"context"

	"github.com/jonathan/resume-builder/internal/extraction"
	"github.com/jonathan/resume-builder/internal/types"
)

// AddCustomSection appends an empty custom section with a fresh id.
func (e *Editor) AddCustomSection(ctx context.Context, title string) (types.CustomSection, error) {
	cs := types.CustomSection{ID: e.newID(), Title: title, Items: []types.CustomSectionItem{}}
	_, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		s.Resume.CustomSections = append(s.Resume.CustomSections, cs)
		return true, nil
	})
	return cs, err
}

// UpdateCustomSectionTitle renames the custom section with the given id.
func (e *Editor) UpdateCustomSectionTitle(ctx context.Context, id, title string) (bool, error) {
	return e.mutate(ctx, func(s *types.State) (bool, error) {
		_, updated := updateByID(s.Resume.CustomSections, id, customSectionID, func(cs types.CustomSection) types.CustomSection {
			cs.Title = title
			return cs
		})
		return updated != nil, nil
	})
}

// DeleteCustomSection removes the custom section with the given id and all its items.
func (e *Editor) DeleteCustomSection(ctx context.Context, id string) (bool, error) {
	return e.mutate(ctx, func(s *types.State) (bool, error) {
		var ok bool
		s.Resume.CustomSections, ok = deleteByID(s.Resume.CustomSections, id, customSectionID)
		return ok, nil
	})
}

// AddCustomSectionItem appends an item to a custom section. It returns
// ErrNotFound when the section does not exist.
func (e *Editor) AddCustomSectionItem(ctx context.Context, sectionID string, p types.CustomSectionItemPatch) (types.CustomSectionItem, error) {
	item := p.Apply(types.CustomSectionItem{ID: e.newID(), Details: []string{}})
	_, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		i := indexByID(s.Resume.CustomSections, sectionID, customSectionID)
		if i < 0 {
			return false, ErrNotFound
		}
		s.Resume.CustomSections[i].Items = append(s.Resume.CustomSections[i].Items, item)
		return true, nil
	})
	if err != nil {
		return types.CustomSectionItem{}, err
	}
	return item, nil
}

// UpdateCustomSectionItem merges p into an item of a custom section.
func (e *Editor) UpdateCustomSectionItem(ctx context.Context, sectionID, itemID string, p types.CustomSectionItemPatch) (types.CustomSectionItem, bool, error) {
	var out types.CustomSectionItem
	ok, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		i := indexByID(s.Resume.CustomSections, sectionID, customSectionID)
		if i < 0 {
			return false, nil
		}
		var updated *types.CustomSectionItem
		s.Resume.CustomSections[i].Items, updated = updateByID(s.Resume.CustomSections[i].Items, itemID, customItemID, p.Apply)
		if updated == nil {
			return false, nil
		}
		out = *updated
		return true, nil
	})
	return out, ok, err
}

// DeleteCustomSectionItem removes an item from a custom section.
func (e *Editor) DeleteCustomSectionItem(ctx context.Context, sectionID, itemID string) (bool, error) {
	return e.mutate(ctx, func(s *types.State) (bool, error) {
		i := indexByID(s.Resume.CustomSections, sectionID, customSectionID)
		if i < 0 {
			return false, nil
		}
		var ok bool
		s.Resume.CustomSections[i].Items, ok = deleteByID(s.Resume.CustomSections[i].Items, itemID, customItemID)
		return ok, nil
	})
}

// ApplyImport merges extracted basics into the resume. Empty extracted
// fields leave the existing values in place.
func (e *Editor) ApplyImport(ctx context.Context, r extraction.Result) (types.Basics, error) {
	var out types.Basics
	_, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		s.Resume.Basics = extraction.Merge(s.Resume.Basics, r)
		out = s.Resume.Basics
		return true, nil
	})
	return out, err
}
