// Package render talks to an ECharts export service over HTTP.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Theme selects the chart color scheme.
type Theme string

const (
	ThemeDefault Theme = "default"
	ThemeDark    Theme = "dark"
)

// Valid reports whether t is a supported theme.
func (t Theme) Valid() bool {
	return t == ThemeDefault || t == ThemeDark
}

// Client renders chart configurations through an export service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client targeting the given export service base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// renderRequest mirrors the export service's POST /render body.
type renderRequest struct {
	Option json.RawMessage `json:"option"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Theme  string          `json:"theme"`
	Format string          `json:"format"`
}

// RenderPNG renders cfg to raster bytes.
func (c *Client) RenderPNG(ctx context.Context, cfg json.RawMessage, width, height int, theme Theme) ([]byte, error) {
	return c.render(ctx, cfg, width, height, theme, "png")
}

// RenderSVG renders cfg to vector markup.
func (c *Client) RenderSVG(ctx context.Context, cfg json.RawMessage, width, height int, theme Theme) (string, error) {
	data, err := c.render(ctx, cfg, width, height, theme, "svg")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Client) render(ctx context.Context, cfg json.RawMessage, width, height int, theme Theme, format string) ([]byte, error) {
	body, err := json.Marshal(renderRequest{
		Option: cfg,
		Width:  width,
		Height: height,
		Theme:  string(theme),
		Format: format,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting render: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading render response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(data))
		if len(msg) > 512 {
			msg = msg[:512]
		}
		return nil, fmt.Errorf("export service returned %d: %s", resp.StatusCode, msg)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("export service returned empty body")
	}
	return data, nil
}

// EchoOption returns cfg re-marshaled as indented JSON. This is the "option"
// output format: no rendering involved.
func EchoOption(cfg json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(cfg, &v); err != nil {
		return "", fmt.Errorf("invalid chart configuration: %w", err)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding chart configuration: %w", err)
	}
	return string(out), nil
}
