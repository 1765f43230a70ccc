package cliconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		write   bool
		expect  Config
	}{
		{
			name:  "missing file returns zero config",
			write: false,
		},
		{
			name:    "full config",
			write:   true,
			content: "spec = \"my.spec\"\ntarget = \"src/\"\ndaemon_address = \"localhost:4774\"\nworkers = 4\n",
			expect: Config{
				Spec:          "my.spec",
				Target:        "src/",
				DaemonAddress: "localhost:4774",
				Workers:       4,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, FileName)
			if tc.write {
				require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o660))
			}

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, cfg)
		})
	}
}

func Test_Merge(t *testing.T) {
	base := Config{Spec: "base.spec", Workers: 2}
	override := Config{Target: "src/", Workers: 8}

	got := Merge(base, override)

	assert.Equal(t, Config{Spec: "base.spec", Target: "src/", Workers: 8}, got)
}
