package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshsite/planner/pkg/core"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b := New(t.TempDir(), "default")
	require.NoError(t, b.Init())
	return b
}

func TestBackend_Lifecycle(t *testing.T) {
	b := newTestBackend(t)

	exists, err := b.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = b.Read()
	assert.ErrorIs(t, err, core.ErrNoSession)

	require.NoError(t, b.Write([]byte(`{"version":1}`)))

	exists, err = b.Exists()
	require.NoError(t, err)
	assert.True(t, exists)

	payload, err := b.Read()
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"version":1}`), payload)

	require.NoError(t, b.Delete())

	_, err = b.Read()
	assert.ErrorIs(t, err, core.ErrNoSession)
}

func TestBackend_WriteReplaces(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.Write([]byte("old")))
	require.NoError(t, b.Write([]byte("new")))

	payload, err := b.Read()
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), payload)
}

func TestBackend_DeleteAbsentIsNoError(t *testing.T) {
	b := newTestBackend(t)
	assert.NoError(t, b.Delete())
}

func TestBackend_InitCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "sessions")
	b := New(dir, "default")

	require.NoError(t, b.Init())
	require.NoError(t, b.Write([]byte("x")))

	assert.FileExists(t, filepath.Join(dir, "default.json"))
}

func TestBackend_NoStrayTempFiles(t *testing.T) {
	dir := t.TempDir()
	b := New(dir, "default")
	require.NoError(t, b.Init())
	require.NoError(t, b.Write([]byte("payload")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "default.json", entries[0].Name())
}
