package server

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jonathan/resume-builder/internal/preview"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

// keepAliveInterval spaces comment lines on idle event streams.
const keepAliveInterval = 25 * time.Second

// PreviewRenderer returns a preview.RenderFunc that lays the state out and
// writes it as PDF, through printer when one is given.
func PreviewRenderer(printer PDFPrinter) preview.RenderFunc {
	return func(ctx context.Context, state types.State, w io.Writer) error {
		doc, err := rendering.Render(&state.Resume, state.Settings)
		if err != nil {
			return err
		}
		if printer != nil {
			return printer.WritePDF(ctx, w, doc)
		}
		return rendering.WritePDF(w, doc)
	}
}

func (s *Server) handlePreview(w http.ResponseWriter, _ *http.Request) {
	if s.preview == nil {
		s.writeError(w, &ErrEngineUnavailable{Engine: "preview"})
		return
	}
	p := s.preview.Current()
	if p == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	defer p.Release()

	data := p.Bytes()
	w.Header().Set("Content-Type", rendering.FormatPDF.ContentType())
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("X-Preview-Generation", strconv.FormatUint(p.Generation, 10))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

func (s *Server) handlePreviewStatus(w http.ResponseWriter, _ *http.Request) {
	if s.preview == nil {
		s.writeError(w, &ErrEngineUnavailable{Engine: "preview"})
		return
	}
	s.jsonResponse(w, http.StatusOK, s.preview.Status())
}

// handlePreviewEvents streams a "preview" event each time a new generation goes live.
func (s *Server) handlePreviewEvents(w http.ResponseWriter, r *http.Request) {
	if s.preview == nil {
		s.writeError(w, &ErrEngineUnavailable{Engine: "preview"})
		return
	}
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Streams outlive the server write timeout.
	http.NewResponseController(w).SetWriteDeadline(time.Time{}) //nolint:errcheck

	ch, unsubscribe := s.events.subscribe()
	defer unsubscribe()

	if err := sse.WriteComment("connected"); err != nil {
		return
	}
	if live := s.preview.Status().Live; live > 0 {
		if err := sse.WritePreview(live); err != nil {
			return
		}
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case gen, ok := <-ch:
			if !ok {
				return
			}
			if err := sse.WritePreview(gen); err != nil {
				return
			}
		case <-ticker.C:
			if err := sse.WriteComment("keep-alive"); err != nil {
				return
			}
		}
	}
}

// previewEvents fans live generation numbers out to event stream subscribers.
// Slow subscribers miss intermediate generations.
type previewEvents struct {
	mu     sync.Mutex
	subs   map[chan uint64]struct{}
	closed bool
}

func newPreviewEvents() *previewEvents {
	return &previewEvents{subs: make(map[chan uint64]struct{})}
}

func (e *previewEvents) subscribe() (<-chan uint64, func()) {
	ch := make(chan uint64, 1)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		close(ch)
		return ch, func() {}
	}
	e.subs[ch] = struct{}{}
	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.subs[ch]; ok {
			delete(e.subs, ch)
			close(ch)
		}
	}
}

func (e *previewEvents) publish(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for ch := range e.subs {
		select {
		case ch <- gen:
		default:
			// Replace the unread generation with the newer one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- gen:
			default:
			}
		}
	}
}

// close ends every open stream.
func (e *previewEvents) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for ch := range e.subs {
		delete(e.subs, ch)
		close(ch)
	}
}
