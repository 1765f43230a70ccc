package tracker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Track_and_NeedsFormatting(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "source.txt")
	require.NoError(t, os.WriteFile(target, []byte("hello"), 0o660))

	assert.True(t, NeedsFormatting(target, "sha-a"), "untracked file should need formatting")

	require.NoError(t, Track(target, "sha-a"))
	assert.False(t, NeedsFormatting(target, "sha-a"), "freshly tracked file should not need formatting")

	assert.True(t, NeedsFormatting(target, "sha-b"), "different spec hash should need formatting")
}

func Test_NeedsFormatting_modifiedAfterTracked(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "source.txt")
	require.NoError(t, os.WriteFile(target, []byte("hello"), 0o660))
	require.NoError(t, Track(target, "sha-a"))

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(target, future, future))

	assert.True(t, NeedsFormatting(target, "sha-a"))
}

func Test_pathFor(t *testing.T) {
	got := pathFor(filepath.Join("some", "dir", "file.go"))
	want := filepath.Join("some", "dir", Dir, "file.go"+extension)
	assert.Equal(t, want, got)
}

func Test_Clear(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "source.txt")
	require.NoError(t, os.WriteFile(target, []byte("hello"), 0o660))
	require.NoError(t, Track(target, "sha-a"))

	trackerDir := filepath.Join(dir, Dir)
	_, err := os.Stat(trackerDir)
	require.NoError(t, err)

	cleared, err := Clear(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, cleared)

	_, err = os.Stat(trackerDir)
	assert.True(t, os.IsNotExist(err))
}
