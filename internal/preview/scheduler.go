// Package preview keeps a debounced, always-current rendering of the editable state.
package preview

import (
	"context"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultDelay is the quiet window after the last request before rendering starts.
const DefaultDelay = 300 * time.Millisecond

// RenderFunc writes the preview of a state to w.
type RenderFunc func(ctx context.Context, state types.State, w io.Writer) error

// Status describes the scheduler for diagnostics.
type Status struct {
	Issued    uint64 `json:"issued"`
	Live      uint64 `json:"live"`
	Pending   bool   `json:"pending"`
	LastError string `json:"lastError,omitempty"`
	Buffers   int64  `json:"buffers"`
}

// Scheduler renders the most recent requested state once requests have been
// quiet for the debounce delay. Only the result of the latest issued
// generation becomes live; older results are released and discarded.
type Scheduler struct {
	render RenderFunc
	delay  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	idle    *sync.Cond // signalled when running drops to zero
	running int
	timer   *time.Timer
	seq     uint64
	pending *types.State
	issued  uint64
	live    *Preview
	lastErr error
	closed  bool
	onLive  []func(gen uint64)

	// buffers counts previews whose buffer has not been returned to the pool.
	buffers atomic.Int64
}

// NewScheduler creates a Scheduler. A non-positive delay uses DefaultDelay.
func NewScheduler(render RenderFunc, delay time.Duration) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{render: render, delay: delay, ctx: ctx, cancel: cancel}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// Request schedules a render of state, superseding any request not yet started.
func (s *Scheduler) Request(state types.State) {
	snapshot := state.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = &snapshot
	s.seq++
	seq := s.seq
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() { s.fire(seq) })
}

// Flush starts the pending render now and waits until no render is in
// flight. Requests arriving meanwhile may extend the wait.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	seq := s.seq
	s.mu.Unlock()

	s.fire(seq)
	s.waitIdle()
}

func (s *Scheduler) waitIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.running > 0 {
		s.idle.Wait()
	}
}

func (s *Scheduler) done() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running--
	if s.running == 0 {
		s.idle.Broadcast()
	}
}

func (s *Scheduler) fire(seq uint64) {
	s.mu.Lock()
	if s.closed || seq != s.seq || s.pending == nil {
		s.mu.Unlock()
		return
	}
	state := *s.pending
	s.pending = nil
	s.issued++
	gen := s.issued
	s.running++
	s.mu.Unlock()

	go s.run(gen, state)
}

func (s *Scheduler) run(gen uint64, state types.State) {
	defer s.done()

	buf := getBuffer()
	s.buffers.Add(1)
	err := s.render(s.ctx, state, buf)
	p := newPreview(gen, buf, func() { s.buffers.Add(-1) })

	s.mu.Lock()
	if err != nil {
		s.mu.Unlock()
		p.Release()
		s.recordError(gen, err)
		return
	}
	if gen != s.issued || s.closed {
		s.mu.Unlock()
		log.Printf("[preview] discarding generation %d, latest is %d", gen, s.issued)
		p.Release()
		return
	}
	old := s.live
	s.live = p
	s.lastErr = nil
	listeners := s.onLive
	s.mu.Unlock()

	if old != nil {
		old.Release()
	}
	for _, fn := range listeners {
		fn(gen)
	}
}

// OnLive registers fn to be called with the generation of each preview that
// becomes live. fn runs on the render goroutine and must not block.
func (s *Scheduler) OnLive(fn func(gen uint64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLive = append(s.onLive[:len(s.onLive):len(s.onLive)], fn)
}

// recordError keeps the previous live preview in place.
func (s *Scheduler) recordError(gen uint64, err error) {
	log.Printf("[preview] render of generation %d failed: %v", gen, err)
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.issued {
		s.lastErr = err
	}
}

// Current returns the live preview, or nil when none has rendered yet.
// The caller must Release the returned preview.
func (s *Scheduler) Current() *Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live == nil {
		return nil
	}
	return s.live.acquire()
}

// Err returns the error of the latest generation, if its render failed.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Status reports generation counters and buffer usage.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{Issued: s.issued, Pending: s.pending != nil, Buffers: s.buffers.Load()}
	if s.live != nil {
		st.Live = s.live.Generation
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// Close stops the timer, waits for in-flight renders and releases the live
// preview. Requests after Close are ignored.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = nil
	s.mu.Unlock()

	s.cancel()
	s.waitIdle()

	s.mu.Lock()
	live := s.live
	s.live = nil
	s.mu.Unlock()
	if live != nil {
		live.Release()
	}
}
