// Package editor owns the editable resume state and applies every mutation to it.
package editor

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
)

// ErrNotFound is returned when the parent of a sub-resource does not exist.
var ErrNotFound = errors.New("not found")

// Subscriber receives a snapshot after every applied mutation.
type Subscriber func(types.State)

// Editor serializes mutations of one State. Each mutation is applied to a
// copy that replaces the current state only when the whole operation succeeds.
type Editor struct {
	mu          sync.Mutex
	state       types.State
	repo        store.Repository
	newID       func() string
	now         func() time.Time
	subscribers []Subscriber
}

// Option configures an Editor.
type Option func(*Editor)

// WithIDGenerator replaces the UUID generator used for new entries.
func WithIDGenerator(f func() string) Option {
	return func(e *Editor) {
		if f != nil {
			e.newID = f
		}
	}
}

// WithClock replaces the time source used for lastModified.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an Editor over repo, loading any previously saved state.
// A missing or unreadable state starts from the sample resume.
func New(ctx context.Context, repo store.Repository, opts ...Option) *Editor {
	e := &Editor{
		repo:  repo,
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.state = types.State{Resume: types.SampleResume(), Settings: types.DefaultSettings(), LastModified: e.now().UTC()}
	if repo == nil {
		return e
	}
	loaded, err := repo.Load(ctx)
	switch {
	case err != nil:
		log.Printf("[editor] failed to load state, starting fresh: %v", err)
	case loaded != nil:
		if verr := loaded.Settings.Validate(); verr != nil {
			log.Printf("[editor] stored settings invalid, using defaults: %v", verr)
			loaded.Settings = types.DefaultSettings()
		}
		loaded.Resume.Normalize()
		e.state = *loaded
	}
	return e
}

// Subscribe registers fn to receive snapshots after each mutation.
func (e *Editor) Subscribe(fn Subscriber) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers = append(e.subscribers, fn)
}

// Snapshot returns a deep copy of the current state.
func (e *Editor) Snapshot() types.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// mutate applies fn to a copy of the state. When fn reports a change the
// copy becomes the current state, is saved and is sent to subscribers.
func (e *Editor) mutate(ctx context.Context, fn func(*types.State) (bool, error)) (bool, error) {
	e.mu.Lock()
	next := e.state.Clone()
	changed, err := fn(&next)
	if err != nil || !changed {
		e.mu.Unlock()
		return false, err
	}
	next.LastModified = e.now().UTC()
	e.state = next
	e.save(ctx, next)
	snapshot := next.Clone()
	subscribers := append([]Subscriber(nil), e.subscribers...)
	e.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
	return true, nil
}

// save persists the state. Failures are logged and the in-memory state is kept.
func (e *Editor) save(ctx context.Context, state types.State) {
	if e.repo == nil {
		return
	}
	if err := e.repo.Save(ctx, state); err != nil {
		log.Printf("[editor] failed to save state: %v", err)
	}
}

// SetResume replaces the whole resume.
func (e *Editor) SetResume(ctx context.Context, r types.Resume) error {
	r = r.Clone()
	r.Normalize()
	_, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		s.Resume = r
		return true, nil
	})
	return err
}

// UpdateBasics merges the supplied basics fields.
func (e *Editor) UpdateBasics(ctx context.Context, p types.BasicsPatch) (types.Basics, error) {
	var out types.Basics
	_, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		s.Resume.Basics = p.Apply(s.Resume.Basics)
		out = s.Resume.Basics
		return true, nil
	})
	return out, err
}

// UpdateSettings merges the supplied settings. Invalid results are rejected
// with a *types.ValidationError and the state is unchanged.
func (e *Editor) UpdateSettings(ctx context.Context, p types.SettingsPatch) (types.Settings, error) {
	var out types.Settings
	_, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		next := p.Apply(s.Settings)
		if err := next.Validate(); err != nil {
			return false, err
		}
		s.Settings = next
		out = next
		return true, nil
	})
	return out, err
}

// Reset restores the sample resume and default settings.
func (e *Editor) Reset(ctx context.Context) error {
	_, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		s.Resume = types.SampleResume()
		s.Settings = types.DefaultSettings()
		return true, nil
	})
	return err
}

// Clear empties the resume and restores default settings.
func (e *Editor) Clear(ctx context.Context) error {
	_, err := e.mutate(ctx, func(s *types.State) (bool, error) {
		s.Resume = types.EmptyResume()
		s.Settings = types.DefaultSettings()
		return true, nil
	})
	return err
}
