package main

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/padd/internal/cliconfig"
	"github.com/dekarrin/padd/internal/tracker"
)

func Test_collectTargets_singleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	paths, err := collectTargets(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, paths)
}

func Test_collectTargets_walksDirectoryAndSkipsTrackerDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, tracker.Dir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, tracker.Dir, "deadbeef.trk"), []byte("x"), 0o644))

	paths, err := collectTargets(dir, nil)
	require.NoError(t, err)
	sort.Strings(paths)

	assert.Equal(t, []string{
		filepath.Join(dir, "a.go"),
		filepath.Join(dir, "b.txt"),
	}, paths)
}

func Test_collectTargets_appliesNameFilter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("x"), 0o644))

	paths, err := collectTargets(dir, regexp.MustCompile(`\.go$`))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.go")}, paths)
}

func Test_sha256Hex(t *testing.T) {
	got := sha256Hex([]byte("hello"))
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", got)
}

func Test_run_missingSubcommand(t *testing.T) {
	assert.Equal(t, ExitUsageError, run(nil))
}

func Test_run_unknownSubcommand(t *testing.T) {
	assert.Equal(t, ExitUsageError, run([]string{"bogus"}))
}

func Test_runFmt_missingSpec(t *testing.T) {
	dir := t.TempDir()
	code := runFmt([]string{dir}, cliconfig.Config{})
	assert.Equal(t, ExitUsageError, code)
}

func Test_runFmt_missingTarget(t *testing.T) {
	specPath := filepath.Join(t.TempDir(), "spec.padd")
	require.NoError(t, os.WriteFile(specPath, []byte("x"), 0o644))
	code := runFmt([]string{"--spec", specPath}, cliconfig.Config{})
	assert.Equal(t, ExitUsageError, code)
}
