package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Render records one successful chart generation: what was asked for and
// which delivery strategy ultimately produced the content.
type Render struct {
	ID         string
	CreatedAt  time.Time
	Label      string
	Format     string
	Strategy   string
	Width      int
	Height     int
	Theme      string
	ByteSize   int
	DurationMS int64
}
