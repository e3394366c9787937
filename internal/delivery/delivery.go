// Package delivery decides how a rendered chart reaches the caller: as a URL
// to a locally served file, as a URL into an object store, or as an inline
// base64 payload when nothing else is available.
package delivery

import "context"

// Format is the requested output representation of a chart.
type Format string

const (
	// FormatPNG renders the chart to raster bytes.
	FormatPNG Format = "png"
	// FormatSVG renders the chart to vector markup.
	FormatSVG Format = "svg"
	// FormatOption echoes the chart configuration back as text.
	FormatOption Format = "option"
)

// Valid reports whether f is one of the supported output formats.
func (f Format) Valid() bool {
	return f == FormatPNG || f == FormatSVG || f == FormatOption
}

// Artifact is the output of a single render call. Exactly one of Bytes or
// Text is populated, depending on Format.
type Artifact struct {
	Format Format
	Bytes  []byte // raster output (FormatPNG)
	Text   string // vector markup or config echo (FormatSVG, FormatOption)
}

// Kind tags a content item as text or image.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Content is a single protocol-agnostic content item. The api layer converts
// it into MCP content.
type Content struct {
	Kind     Kind
	Text     string // URL or verbatim text (KindText)
	Data     string // base64 payload (KindImage)
	MIMEType string // set for KindImage
	Step     string // delivery step that produced this item (StepVerbatim for text formats)
}

// FileSink persists chart bytes to a locally served directory.
type FileSink interface {
	// Filename returns a new filename that is unique across concurrent calls.
	Filename() string
	// SaveChart writes data under name, creating the directory if needed.
	SaveChart(name string, data []byte) error
}

// ObjectStore persists chart bytes to remote object storage and returns a
// fetchable URL.
type ObjectStore interface {
	IsConfigured() bool
	Store(ctx context.Context, data []byte, ext, contentType string) (string, error)
}

// Event describes one delivery strategy attempt. Err is non-nil when the
// strategy failed and the resolver fell through to the next one.
type Event struct {
	Step  string
	Label string
	Err   error
}

// Observer receives delivery events. Implementations must be safe for
// concurrent use; a nil observer is valid and disables reporting.
type Observer interface {
	DeliveryEvent(ev Event)
}
