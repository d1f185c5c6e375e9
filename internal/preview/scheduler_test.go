package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func stateNamed(name string) types.State {
	r := types.EmptyResume()
	r.Basics.Name = name
	return types.State{Resume: r, Settings: types.DefaultSettings()}
}

func writeName(_ context.Context, s types.State, w io.Writer) error {
	_, err := io.WriteString(w, s.Resume.Basics.Name)
	return err
}

func currentName(t *testing.T, s *Scheduler) string {
	t.Helper()
	p := s.Current()
	if p == nil {
		return ""
	}
	defer p.Release()
	return string(p.Bytes())
}

func TestScheduler_NoPreviewBeforeFirstRender(t *testing.T) {
	s := NewScheduler(writeName, time.Hour)
	defer s.Close()
	assert.Nil(t, s.Current())
}

func TestScheduler_DebounceRendersLastRequestOnce(t *testing.T) {
	var calls atomic.Int32
	render := func(ctx context.Context, st types.State, w io.Writer) error {
		calls.Add(1)
		return writeName(ctx, st, w)
	}
	s := NewScheduler(render, 50*time.Millisecond)
	defer s.Close()

	for _, name := range []string{"J", "Ja", "Jan", "Jane"} {
		s.Request(stateNamed(name))
	}
	require.Eventually(t, func() bool { return currentName(t, s) == "Jane" }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, uint64(1), s.Status().Issued)
}

func TestScheduler_StaleResultDiscarded(t *testing.T) {
	started := make(chan string, 2)
	unblock := make(chan struct{})
	render := func(ctx context.Context, st types.State, w io.Writer) error {
		started <- st.Resume.Basics.Name
		if st.Resume.Basics.Name == "slow" {
			<-unblock
		}
		return writeName(ctx, st, w)
	}
	s := NewScheduler(render, time.Millisecond)
	defer s.Close()

	s.Request(stateNamed("slow"))
	assert.Equal(t, "slow", <-started)
	s.Request(stateNamed("fast"))
	assert.Equal(t, "fast", <-started)
	require.Eventually(t, func() bool { return currentName(t, s) == "fast" }, 2*time.Second, time.Millisecond)

	close(unblock)
	require.Eventually(t, func() bool { return s.Status().Buffers == 1 }, 2*time.Second, time.Millisecond)
	assert.Equal(t, "fast", currentName(t, s))
	st := s.Status()
	assert.Equal(t, uint64(2), st.Issued)
	assert.Equal(t, uint64(2), st.Live)
}

func TestScheduler_FailedRenderKeepsPreviousPreview(t *testing.T) {
	render := func(ctx context.Context, st types.State, w io.Writer) error {
		if st.Resume.Basics.Name == "bad" {
			return errors.New("layout failed")
		}
		return writeName(ctx, st, w)
	}
	s := NewScheduler(render, time.Hour)
	defer s.Close()

	s.Request(stateNamed("good"))
	s.Flush()
	s.Request(stateNamed("bad"))
	s.Flush()

	assert.Equal(t, "good", currentName(t, s))
	assert.EqualError(t, s.Err(), "layout failed")
	assert.Equal(t, "layout failed", s.Status().LastError)
	assert.Equal(t, int64(1), s.Status().Buffers)

	s.Request(stateNamed("better"))
	s.Flush()
	assert.Equal(t, "better", currentName(t, s))
	assert.NoError(t, s.Err())
}

func TestScheduler_HeldPreviewOutlivesReplacement(t *testing.T) {
	s := NewScheduler(writeName, time.Hour)
	defer s.Close()

	s.Request(stateNamed("first"))
	s.Flush()
	held := s.Current()
	require.NotNil(t, held)

	s.Request(stateNamed("second"))
	s.Flush()
	assert.Equal(t, "first", string(held.Bytes()))
	assert.Equal(t, "second", currentName(t, s))
	assert.Equal(t, int64(2), s.Status().Buffers)

	held.Release()
	assert.Equal(t, int64(1), s.Status().Buffers)
}

func TestScheduler_RequestCopiesState(t *testing.T) {
	s := NewScheduler(writeName, time.Hour)
	defer s.Close()

	st := stateNamed("original")
	s.Request(st)
	st.Resume.Basics.Name = "changed"
	s.Flush()
	assert.Equal(t, "original", currentName(t, s))
}

func TestScheduler_FlushWithoutPendingIsNoOp(t *testing.T) {
	s := NewScheduler(writeName, time.Hour)
	defer s.Close()
	s.Flush()
	assert.Equal(t, uint64(0), s.Status().Issued)
}

func TestScheduler_FlushConcurrentWithRequests(t *testing.T) {
	s := NewScheduler(writeName, time.Millisecond)
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Request(stateNamed(fmt.Sprintf("writer %d edit %d", i, j)))
			}
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 20; j++ {
			s.Flush()
		}
	}()
	wg.Wait()
	s.Flush()

	st := s.Status()
	assert.False(t, st.Pending)
	assert.Equal(t, st.Issued, st.Live)
	assert.Equal(t, int64(1), st.Buffers)
}

func TestScheduler_CloseReleasesEverything(t *testing.T) {
	s := NewScheduler(writeName, time.Hour)
	s.Request(stateNamed("jane"))
	s.Flush()
	require.Equal(t, int64(1), s.Status().Buffers)

	s.Request(stateNamed("pending"))
	s.Close()
	assert.Equal(t, int64(0), s.Status().Buffers)
	assert.Nil(t, s.Current())

	s.Request(stateNamed("after close"))
	assert.False(t, s.Status().Pending)
	s.Close()
}

func TestPreview_ReleaseTooOftenPanics(t *testing.T) {
	freed := 0
	p := newPreview(1, getBuffer(), func() { freed++ })
	p.acquire()
	p.Release()
	assert.Equal(t, 0, freed)
	p.Release()
	assert.Equal(t, 1, freed)
	assert.Panics(t, p.Release)
}

func TestScheduler_OnLiveReportsGeneration(t *testing.T) {
	s := NewScheduler(writeName, time.Hour)
	defer s.Close()

	gens := make(chan uint64, 2)
	s.OnLive(func(gen uint64) { gens <- gen })

	s.Request(stateNamed("Jane"))
	s.Flush()
	s.Request(stateNamed("Jane Doe"))
	s.Flush()

	assert.Equal(t, uint64(1), <-gens)
	assert.Equal(t, uint64(2), <-gens)
}
