package artifact

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Save_and_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cached.artifact")

	want := Meta{
		SpecPath:   "my.spec",
		SpecSHA256: "abc123",
		BuiltAt:    1234567890,
		Workers:    4,
	}

	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func Test_Meta_Fresh(t *testing.T) {
	m := Meta{SpecSHA256: "abc123"}

	assert.True(t, m.Fresh("abc123"))
	assert.False(t, m.Fresh("different"))
}

func Test_Load_missingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.artifact"))
	assert.Error(t, err)
}
