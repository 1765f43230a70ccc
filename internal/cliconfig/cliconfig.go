// Package cliconfig loads project-level defaults for the padd CLI from an
// optional .padd.toml file, overridable by command-line flags. Grounded on
// the original implementation's src/cli/configuration.rs, adapted from its
// YAML/serde design to github.com/BurntSushi/toml per this module's stack.
package cliconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileName is the project configuration file read from the current
// directory when no explicit path is given.
const FileName = ".padd.toml"

// Config holds project defaults. Every field is optional; zero values mean
// "not set, use the CLI's built-in default".
type Config struct {
	// Spec is the path to the default specification file.
	Spec string `toml:"spec"`
	// Target is decoded from the file; the padd command does not read it and
	// always takes TARGET as an argument.
	Target string `toml:"target"`
	// DaemonAddress is the host:port the daemon listens on / clients dial.
	DaemonAddress string `toml:"daemon_address"`
	// Workers is the default workpool size for `fmt` over multiple files.
	Workers int `toml:"workers"`
}

// Load reads and decodes path as a Config. If path does not exist, Load
// returns a zero Config and a nil error: an absent project file just means
// every CLI default applies.
func Load(path string) (Config, error) {
	var cfg Config

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("stat configuration file %q: %w", path, err)
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse configuration file %q: %w", path, err)
	}
	return cfg, nil
}

// Merge overlays non-zero fields of override onto a copy of base, returning
// the result. The padd command does not call it; it applies each flag
// default from the loaded Config directly.
func Merge(base, override Config) Config {
	merged := base
	if override.Spec != "" {
		merged.Spec = override.Spec
	}
	if override.Target != "" {
		merged.Target = override.Target
	}
	if override.DaemonAddress != "" {
		merged.DaemonAddress = override.DaemonAddress
	}
	if override.Workers != 0 {
		merged.Workers = override.Workers
	}
	return merged
}
