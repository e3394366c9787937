package config

import (
	"fmt"
	"path/filepath"
	"time"
)

type Config struct {
	Server  ServerConfig
	Charts  ChartsConfig
	Render  RenderConfig
	Storage StorageConfig
	Minio   MinioConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port      int    // HTTP port serving /charts and /health in SSE mode
	Transport string // "stdio" or "sse"
}

type ChartsConfig struct {
	Dir     string
	BaseURL string // public prefix for local chart URLs; derived from Port when empty
}

type RenderConfig struct {
	BaseURL string
	Timeout string
}

type StorageConfig struct {
	DataDir string
}

type MinioConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	PublicBaseURL string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	dataDir := defaultDataDir()
	return Config{
		Server: ServerConfig{
			Port:      3033,
			Transport: "stdio",
		},
		Charts: ChartsConfig{
			Dir: filepath.Join(dataDir, "charts"),
		},
		Render: RenderConfig{
			BaseURL: "http://localhost:8090",
			Timeout: "45s",
		},
		Storage: StorageConfig{
			DataDir: dataDir,
		},
		Minio: MinioConfig{
			Bucket: "charts",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON file backend at
// $XDG_CONFIG_HOME/chartkit/config.json, then applies CHARTKIT_* environment
// overrides. Secrets (minio credentials) are environment-only.
func Load() (Config, error) {
	return loadWith(newFileBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Server.Transport != "stdio" && cfg.Server.Transport != "sse" {
		return Config{}, fmt.Errorf("invalid server.transport %q: must be stdio or sse", cfg.Server.Transport)
	}
	if _, err := time.ParseDuration(cfg.Render.Timeout); err != nil {
		return Config{}, fmt.Errorf("invalid render.timeout %q: %w", cfg.Render.Timeout, err)
	}

	return cfg, nil
}

// SSEEnabled reports whether the SSE transport (and with it local-file chart
// delivery) is active.
func (c Config) SSEEnabled() bool {
	return c.Server.Transport == "sse"
}

// ChartsBaseURL returns the public URL prefix under which the charts
// directory is served. Must match the address the HTTP server listens on.
func (c Config) ChartsBaseURL() string {
	if c.Charts.BaseURL != "" {
		return c.Charts.BaseURL
	}
	return fmt.Sprintf("http://localhost:%d/charts", c.Server.Port)
}

// RenderTimeout returns render.timeout as a duration. Load validated it.
func (c Config) RenderTimeout() time.Duration {
	d, err := time.ParseDuration(c.Render.Timeout)
	if err != nil {
		return 45 * time.Second
	}
	return d
}
