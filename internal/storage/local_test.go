package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePublishCopiesFile(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "output")
	store, err := NewLocalStore(outputDir)
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "final.mp4")
	require.NoError(t, os.WriteFile(src, []byte("rendered"), 0644))

	ref, err := store.Publish(context.Background(), src, "job-1/final.mp4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, "job-1", "final.mp4"), ref)

	reader, err := store.Open(context.Background(), ref)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "rendered", string(data))

	// Source stays in place; the workspace owns its removal.
	_, err = os.Stat(src)
	assert.NoError(t, err)
}

func TestLocalStorePublishMissingSource(t *testing.T) {
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "output"))
	require.NoError(t, err)

	_, err = store.Publish(context.Background(), "/nonexistent/final.mp4", "final.mp4")
	assert.Error(t, err)
}

func TestLocalStoreExists(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "output")
	store, err := NewLocalStore(outputDir)
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "final.mp4")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	ref, err := store.Publish(context.Background(), src, "final.mp4")
	require.NoError(t, err)

	assert.True(t, store.Exists(context.Background(), ref))
	assert.False(t, store.Exists(context.Background(), filepath.Join(outputDir, "missing.mp4")))
}

func TestLocalStoreList(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "output")
	store, err := NewLocalStore(outputDir)
	require.NoError(t, err)

	for _, name := range []string{"job-a.mp4", "job-b.mp4", "other.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(outputDir, name), []byte("x"), 0644))
	}

	results, err := store.List(context.Background(), "job-")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
