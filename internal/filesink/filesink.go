// Package filesink writes rendered charts into a locally served directory.
package filesink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sink writes chart files into a single directory.
type Sink struct {
	dir string
}

// New returns a Sink rooted at dir. The directory is created lazily on the
// first write.
func New(dir string) *Sink {
	return &Sink{dir: dir}
}

// Dir returns the directory the sink writes into.
func (s *Sink) Dir() string {
	return s.dir
}

// Filename returns a new chart filename of the form
// chart-<unix-ms>-<rand>.png. The random suffix keeps concurrent calls from
// colliding; the millisecond timestamp alone is not enough.
func (s *Sink) Filename() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("chart-%d-%s.png", time.Now().UnixMilli(), suffix)
}

// SaveChart writes data under name inside the sink directory. Creating an
// already-existing directory is not an error, so concurrent callers are safe.
func (s *Sink) SaveChart(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating charts directory: %w", err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing chart file: %w", err)
	}
	return nil
}
