package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Get("missing")
	assert.False(t, ok)

	s.Set("k", "v1")
	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	s.Set("k", "v2")
	v, _ = s.Get("k")
	assert.Equal(t, "v2", v)

	s.Remove("k")
	_, ok = s.Get("k")
	assert.False(t, ok)

	// Removing an absent key is a no-op.
	s.Remove("k")
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s := NewFileStore(path)
	s.Set("dev_account_step", "2")
	s.Set("phone_verified", "true")
	s.Remove("phone_verified")

	// A fresh store over the same file sees the persisted state.
	reopened := NewFileStore(path)
	v, ok := reopened.Get("dev_account_step")
	require.True(t, ok)
	assert.Equal(t, "2", v)
	_, ok = reopened.Get("phone_verified")
	assert.False(t, ok)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := NewFileStore(path)
	_, ok := s.Get("anything")
	assert.False(t, ok)

	// The store is usable despite the corrupt file.
	s.Set("k", "v")
	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestFileStore_MissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nope", "deep", "state.json"))
	_, ok := s.Get("k")
	assert.False(t, ok)
	// Writes to an uncreatable path are swallowed.
	s.Set("k", "v")
}
