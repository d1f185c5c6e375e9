package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func sampleState() types.State {
	return types.State{
		Resume:       types.SampleResume(),
		Settings:     types.DefaultSettings(),
		LastModified: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	state, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "nested", "state.json"))
	want := sampleState()

	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStore_EmptyListsStayArrays(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStore(path)
	state := types.State{Resume: types.EmptyResume(), Settings: types.DefaultSettings()}

	require.NoError(t, s.Save(ctx, state))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"customSections": []`)
	assert.NotContains(t, string(data), "null")
}

func TestFileStore_SaveLeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "state.json"))
	require.NoError(t, s.Save(context.Background(), sampleState()))
	require.NoError(t, s.Save(context.Background(), sampleState()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "load", storeErr.Op)
}

func TestFileStore_UnknownFieldRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"resume":{},"settings":{},"extra":1}`), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	var validationErr *types.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	state := sampleState()
	require.NoError(t, s.Save(ctx, state))
	state.Resume.Basics.Name = "Changed After Save"

	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Resume.Basics.Name)
	assert.Equal(t, 1, s.Saves())

	boom := errors.New("disk full")
	s.FailWith(boom)
	assert.ErrorIs(t, s.Save(ctx, state), boom)
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.Saves())
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	opened, err := Open(ctx, Config{Kind: KindMemory})
	require.NoError(t, err)
	defer opened.Close()
	assert.IsType(t, &MemoryStore{}, opened.Repository)

	opened, err = Open(ctx, Config{Kind: KindFile, Path: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, opened.Repository)

	_, err = Open(ctx, Config{Kind: KindFile})
	assert.Error(t, err)
	_, err = Open(ctx, Config{Kind: KindPostgres})
	assert.Error(t, err)
	_, err = Open(ctx, Config{Kind: "redis"})
	assert.ErrorContains(t, err, `unknown store "redis"`)
}
