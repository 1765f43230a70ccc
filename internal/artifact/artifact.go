// Package artifact saves and loads a compiled engine's identifying metadata
// (the specification's path and hash, when it was built, and a worker count)
// on disk. Meta holds no engine itself, and no other package of padd calls
// Save, Load or Fresh. Uses github.com/dekarrin/rezi
// the way the teacher's server/dao/sqlite package persists game state:
// rezi.EncBinary/DecBinary round-trip a plain struct with no manual
// MarshalBinary implementation required.
package artifact

import (
	"fmt"
	"os"
	"time"

	"github.com/dekarrin/rezi"
)

// Meta identifies a compiled engine: the specification it was built from
// and when. A cache hit requires SpecSHA256 to match the candidate spec's
// current hash.
type Meta struct {
	SpecPath   string
	SpecSHA256 string
	BuiltAt    int64 // unix millis
	Workers    int
}

// Save writes m to path, overwriting any existing file.
func Save(path string, m Meta) error {
	data := rezi.EncBinary(m)
	if err := os.WriteFile(path, data, 0o660); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	return nil
}

// Load reads and decodes the Meta stored at path.
func Load(path string) (Meta, error) {
	var m Meta

	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("read artifact %s: %w", path, err)
	}

	n, err := rezi.DecBinary(data, &m)
	if err != nil {
		return m, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	if n != len(data) {
		return m, fmt.Errorf("decode artifact %s: consumed %d of %d bytes", path, n, len(data))
	}
	return m, nil
}

// Fresh reports whether a cached Meta still matches specSHA256, meaning the
// spec it was built from has not changed since.
func (m Meta) Fresh(specSHA256 string) bool {
	return m.SpecSHA256 == specSHA256
}

// Now returns the current time as the unix-millis stamp Meta.BuiltAt uses.
func Now() int64 {
	return time.Now().UnixMilli()
}
