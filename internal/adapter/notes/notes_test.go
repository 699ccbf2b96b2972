package notes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "task-7", Key("task", 7))
	assert.Equal(t, "milestone-12", Key("milestone", 12))
	assert.Equal(t, "project-1", Key("project", 1))
	assert.True(t, ValidEntity("milestone"))
	assert.False(t, ValidEntity("user"))
}

func TestFileStore_LoadMissingIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "notes.json"))
	got, err := s.Load(t.Context())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "notes.json")
	s := NewFileStore(path)
	in := map[string]string{"task-7": "ask mentor", "project-1": "Q4 goal"}
	require.NoError(t, s.Save(t.Context(), in))

	got, err := NewFileStore(path).Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, in, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := NewFileStore(path).Load(t.Context())
	assert.Error(t, err)
}
