package delivery

import (
	"context"
	"encoding/base64"
	"strings"
)

// Strategy step names, as reported to the Observer.
const (
	StepLocalFile   = "local_file"
	StepObjectStore = "object_store"
	StepInline      = "inline"
	// StepVerbatim marks text formats that bypass the fallback chain.
	StepVerbatim = "verbatim"
)

// Resolver turns a rendered Artifact into a single Content item. For raster
// artifacts it walks an ordered list of delivery strategies, falling through
// on unmet preconditions or failures; the final inline strategy cannot fail,
// so Resolve never returns an error.
type Resolver struct {
	// Sink receives chart files when local-file delivery is enabled.
	Sink FileSink
	// Store is the optional object-storage client. May be nil.
	Store ObjectStore
	// BaseURL is the public prefix under which Sink's directory is served,
	// e.g. "http://localhost:3033/charts".
	BaseURL string
	// LocalEnabled gates the local-file strategy. Derived from the transport
	// configuration at startup (local files are only served in SSE mode).
	LocalEnabled bool
	// Observer, when non-nil, is notified of every strategy attempt.
	Observer Observer
}

type strategy struct {
	name       string
	applicable func() bool
	attempt    func() (Content, error)
}

// Resolve produces the content item for art. Text formats are wrapped
// verbatim; raster bytes go through the delivery fallback chain. The label is
// diagnostic only.
func (r *Resolver) Resolve(ctx context.Context, art Artifact, label string) Content {
	if art.Format != FormatPNG {
		return Content{Kind: KindText, Text: art.Text, Step: StepVerbatim}
	}

	for _, s := range r.strategies(ctx, art.Bytes) {
		if !s.applicable() {
			continue
		}
		content, err := s.attempt()
		if err != nil {
			r.emit(Event{Step: s.name, Label: label, Err: err})
			continue
		}
		content.Step = s.name
		r.emit(Event{Step: s.name, Label: label})
		return content
	}

	// Unreachable: the inline strategy is always applicable and infallible.
	return Content{Kind: KindImage, Data: base64.StdEncoding.EncodeToString(art.Bytes), MIMEType: "image/png", Step: StepInline}
}

func (r *Resolver) strategies(ctx context.Context, data []byte) []strategy {
	return []strategy{
		{
			name:       StepLocalFile,
			applicable: func() bool { return r.LocalEnabled && r.Sink != nil },
			attempt: func() (Content, error) {
				name := r.Sink.Filename()
				if err := r.Sink.SaveChart(name, data); err != nil {
					return Content{}, err
				}
				url := strings.TrimRight(r.BaseURL, "/") + "/" + name
				return Content{Kind: KindText, Text: url}, nil
			},
		},
		{
			name:       StepObjectStore,
			applicable: func() bool { return r.Store != nil && r.Store.IsConfigured() },
			attempt: func() (Content, error) {
				url, err := r.Store.Store(ctx, data, "png", "image/png")
				if err != nil {
					return Content{}, err
				}
				return Content{Kind: KindText, Text: url}, nil
			},
		},
		{
			name:       StepInline,
			applicable: func() bool { return true },
			attempt: func() (Content, error) {
				return Content{
					Kind:     KindImage,
					Data:     base64.StdEncoding.EncodeToString(data),
					MIMEType: "image/png",
				}, nil
			},
		},
	}
}

func (r *Resolver) emit(ev Event) {
	if r.Observer != nil {
		r.Observer.DeliveryEvent(ev)
	}
}
