package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lsp-core/src/server/watcher"
)

func TestServer_HandleFileChangesBuildsAndRetires(t *testing.T) {
	srv, err := NewServer(nil, nil)
	require.NoError(t, err)
	t.Cleanup(srv.Stop)

	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("alpha beta "), 0644))

	srv.HandleFileChanges([]watcher.Event{
		{Path: path, Operation: watcher.OpCreate, Timestamp: time.Now()},
	})

	// Builds run asynchronously; poll for publication.
	require.Eventually(t, func() bool {
		_, ok := srv.SnapshotOf(path)
		return ok
	}, 2*time.Second, 10*time.Millisecond, "the created file should be built")

	stats := srv.Stats()
	assert.Equal(t, 1, stats.OpenFiles)
	assert.Equal(t, 2, stats.DynamicSymbols)

	srv.HandleFileChanges([]watcher.Event{
		{Path: path, Operation: watcher.OpRemove, Timestamp: time.Now()},
	})

	_, ok := srv.SnapshotOf(path)
	assert.False(t, ok, "a removed file should lose its snapshot")
	assert.Equal(t, 0, srv.Stats().OpenFiles)
}

func TestServer_HandleFileChangesSkipsUnreadableFiles(t *testing.T) {
	srv, err := NewServer(nil, nil)
	require.NoError(t, err)
	t.Cleanup(srv.Stop)

	srv.HandleFileChanges([]watcher.Event{
		{Path: "/no/such/file.go", Operation: watcher.OpWrite, Timestamp: time.Now()},
	})

	assert.Equal(t, 0, srv.Stats().OpenFiles, "unreadable files are skipped, not opened")
}

func TestServer_HandleFileChangesEmptyBatch(t *testing.T) {
	srv, err := NewServer(nil, nil)
	require.NoError(t, err)
	t.Cleanup(srv.Stop)

	srv.HandleFileChanges(nil)
	assert.Equal(t, 0, srv.Stats().OpenFiles)
}
