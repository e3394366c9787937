package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rmezhov/chartkit/internal/delivery"
	"github.com/rmezhov/chartkit/internal/render"
	"github.com/rmezhov/chartkit/internal/storage"
)

// ChartRenderer abstracts the export service for the MCP layer.
type ChartRenderer interface {
	RenderPNG(ctx context.Context, cfg json.RawMessage, width, height int, theme render.Theme) ([]byte, error)
	RenderSVG(ctx context.Context, cfg json.RawMessage, width, height int, theme render.Theme) (string, error)
}

// ChartResolver picks the delivery representation for a rendered artifact.
type ChartResolver interface {
	Resolve(ctx context.Context, art delivery.Artifact, label string) delivery.Content
}

// HistoryStore records completed generations. Optional.
type HistoryStore interface {
	SaveRender(r storage.Render) error
	RecentRenders(limit int) ([]storage.Render, error)
}

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Renderer ChartRenderer
	Resolver ChartResolver
	History  HistoryStore // optional; if nil, renders are not recorded
	Logger   Logger       // optional
}

// Logger is the subset of slog used by handlers.
type Logger interface {
	Warn(msg string, args ...any)
}

// NewMCPServer creates an MCP server with the chart tools and resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"chartkit",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("chartkit — renders ECharts configurations to PNG, SVG, or echoes the option back."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("generate_chart_image",
			mcp.WithDescription("Render an ECharts configuration and return the chart as an image URL, inline image, or text."),
			mcp.WithObject("config", mcp.Description("ECharts option object describing the chart"), mcp.Required()),
			mcp.WithNumber("width", mcp.Description("Image width in pixels (default 800)")),
			mcp.WithNumber("height", mcp.Description("Image height in pixels (default 600)")),
			mcp.WithString("theme", mcp.Description("Color theme: default or dark"), mcp.Enum("default", "dark")),
			mcp.WithString("outputFormat", mcp.Description("png (raster image), svg (vector markup), or option (echo the configuration)"), mcp.Enum("png", "svg", "option")),
			mcp.WithString("label", mcp.Description("Diagnostic label for this chart")),
		),
		mcpGenerateChartImage(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"charts://recent",
			"Recent Renders",
			mcp.WithResourceDescription("Last 10 chart generations with format, delivery strategy, and timing"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecent(deps),
	)

	return s
}

func mcpGenerateChartImage(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cfg, err := chartConfig(req)
		if err != nil {
			return mcpError(err.Error()), nil
		}

		width := req.GetInt("width", 800)
		height := req.GetInt("height", 600)
		if width <= 0 || height <= 0 {
			return mcpError("width and height must be positive"), nil
		}

		theme := render.Theme(req.GetString("theme", string(render.ThemeDefault)))
		if !theme.Valid() {
			return mcpError(fmt.Sprintf("unknown theme %q: must be default or dark", theme)), nil
		}

		format := delivery.Format(req.GetString("outputFormat", string(delivery.FormatPNG)))
		if !format.Valid() {
			return mcpError(fmt.Sprintf("unknown outputFormat %q: must be png, svg, or option", format)), nil
		}

		label := req.GetString("label", "unknown")

		start := time.Now()
		art, err := renderArtifact(ctx, deps.Renderer, cfg, width, height, theme, format)
		if err != nil {
			// Rendering failure is the only fatal path; delivery failures
			// below degrade to inline content instead.
			return nil, fmt.Errorf("rendering chart: %w", err)
		}

		content := deps.Resolver.Resolve(ctx, art, label)
		recordRender(deps, content, art, label, width, height, theme, format, time.Since(start))

		switch content.Kind {
		case delivery.KindImage:
			return mcpImage(content.Data, content.MIMEType), nil
		default:
			return mcpText(content.Text), nil
		}
	}
}

// chartConfig extracts the chart configuration argument as raw JSON. Objects
// are re-marshaled; a string argument is accepted if it parses as JSON.
func chartConfig(req mcp.CallToolRequest) (json.RawMessage, error) {
	v, ok := req.GetArguments()["config"]
	if !ok || v == nil {
		return nil, fmt.Errorf("config is required")
	}

	if s, isString := v.(string); isString {
		if !json.Valid([]byte(s)) {
			return nil, fmt.Errorf("config string is not valid JSON")
		}
		return json.RawMessage(s), nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return raw, nil
}

func renderArtifact(ctx context.Context, r ChartRenderer, cfg json.RawMessage, width, height int, theme render.Theme, format delivery.Format) (delivery.Artifact, error) {
	switch format {
	case delivery.FormatOption:
		text, err := render.EchoOption(cfg)
		if err != nil {
			return delivery.Artifact{}, err
		}
		return delivery.Artifact{Format: format, Text: text}, nil
	case delivery.FormatSVG:
		text, err := r.RenderSVG(ctx, cfg, width, height, theme)
		if err != nil {
			return delivery.Artifact{}, err
		}
		return delivery.Artifact{Format: format, Text: text}, nil
	default:
		data, err := r.RenderPNG(ctx, cfg, width, height, theme)
		if err != nil {
			return delivery.Artifact{}, err
		}
		return delivery.Artifact{Format: format, Bytes: data}, nil
	}
}

// recordRender persists a history record. Best effort: a history failure must
// not fail a delivered chart.
func recordRender(deps MCPDeps, content delivery.Content, art delivery.Artifact, label string, width, height int, theme render.Theme, format delivery.Format, elapsed time.Duration) {
	if deps.History == nil {
		return
	}
	size := len(art.Bytes)
	if size == 0 {
		size = len(art.Text)
	}
	rec := storage.Render{
		ID:         uuid.New().String(),
		CreatedAt:  time.Now().UTC(),
		Label:      label,
		Format:     string(format),
		Strategy:   content.Step,
		Width:      width,
		Height:     height,
		Theme:      string(theme),
		ByteSize:   size,
		DurationMS: elapsed.Milliseconds(),
	}
	if err := deps.History.SaveRender(rec); err != nil && deps.Logger != nil {
		deps.Logger.Warn("recording render history", "error", err)
	}
}

func mcpResourceRecent(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		if deps.History == nil {
			return nil, fmt.Errorf("render history not available")
		}

		renders, err := deps.History.RecentRenders(10)
		if err != nil {
			return nil, fmt.Errorf("failed to get recent renders: %w", err)
		}

		type renderSummary struct {
			ID         string `json:"id"`
			CreatedAt  string `json:"created_at"`
			Label      string `json:"label"`
			Format     string `json:"format"`
			Strategy   string `json:"strategy"`
			Width      int    `json:"width"`
			Height     int    `json:"height"`
			Theme      string `json:"theme"`
			ByteSize   int    `json:"byte_size"`
			DurationMS int64  `json:"duration_ms"`
		}

		summaries := make([]renderSummary, len(renders))
		for i, r := range renders {
			summaries[i] = renderSummary{
				ID:         r.ID,
				CreatedAt:  r.CreatedAt.Format(time.RFC3339),
				Label:      r.Label,
				Format:     r.Format,
				Strategy:   r.Strategy,
				Width:      r.Width,
				Height:     r.Height,
				Theme:      r.Theme,
				ByteSize:   r.ByteSize,
				DurationMS: r.DurationMS,
			}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal renders: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpImage(data, mimeType string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{Type: "image", Data: data, MIMEType: mimeType},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
