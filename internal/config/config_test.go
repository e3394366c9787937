package config

import (
	"strings"
	"testing"
)

// memBackend is an in-memory ConfigBackend for tests.
type memBackend struct {
	strings map[string]string
	ints    map[string]int
}

func newMemBackend() *memBackend {
	return &memBackend{strings: make(map[string]string), ints: make(map[string]int)}
}

func (m *memBackend) GetString(key string) (string, bool, error) {
	v, ok := m.strings[key]
	return v, ok, nil
}

func (m *memBackend) GetInt(key string) (int, bool, error) {
	v, ok := m.ints[key]
	return v, ok, nil
}

func (m *memBackend) SetString(key, val string) error  { m.strings[key] = val; return nil }
func (m *memBackend) SetInt(key string, val int) error { m.ints[key] = val; return nil }
func (m *memBackend) Delete(key string) error {
	delete(m.strings, key)
	delete(m.ints, key)
	return nil
}

// TestDefaults verifies default values survive an empty backend.
func TestDefaults(t *testing.T) {
	cfg, err := loadWith(newMemBackend())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3033 {
		t.Errorf("Server.Port = %d, want 3033", cfg.Server.Port)
	}
	if cfg.Server.Transport != "stdio" {
		t.Errorf("Server.Transport = %q, want stdio", cfg.Server.Transport)
	}
	if cfg.SSEEnabled() {
		t.Error("SSEEnabled with stdio transport")
	}
	if cfg.Render.BaseURL != "http://localhost:8090" {
		t.Errorf("Render.BaseURL = %q", cfg.Render.BaseURL)
	}
	if cfg.Minio.Bucket != "charts" {
		t.Errorf("Minio.Bucket = %q, want charts", cfg.Minio.Bucket)
	}
	if !strings.HasSuffix(cfg.Charts.Dir, "charts") {
		t.Errorf("Charts.Dir = %q, want a charts subdirectory", cfg.Charts.Dir)
	}
}

// TestBackendValues verifies backend values override defaults.
func TestBackendValues(t *testing.T) {
	b := newMemBackend()
	b.SetInt("server.port", 4040)
	b.SetString("server.transport", "sse")
	b.SetString("minio.endpoint", "minio.local:9000")

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 4040 {
		t.Errorf("Server.Port = %d, want 4040", cfg.Server.Port)
	}
	if !cfg.SSEEnabled() {
		t.Error("SSEEnabled = false with sse transport")
	}
	if cfg.Minio.Endpoint != "minio.local:9000" {
		t.Errorf("Minio.Endpoint = %q", cfg.Minio.Endpoint)
	}
}

// TestEnvOverride verifies environment variables override backend values.
func TestEnvOverride(t *testing.T) {
	b := newMemBackend()
	b.SetInt("server.port", 4040)

	t.Setenv("CHARTKIT_SERVER_PORT", "5050")
	t.Setenv("CHARTKIT_MINIO_SECRET_KEY", "env-secret")
	t.Setenv("CHARTKIT_MINIO_USE_SSL", "true")

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 5050 {
		t.Errorf("Server.Port = %d, want env override 5050", cfg.Server.Port)
	}
	if cfg.Minio.SecretKey != "env-secret" {
		t.Errorf("Minio.SecretKey = %q, want env-secret", cfg.Minio.SecretKey)
	}
	if !cfg.Minio.UseSSL {
		t.Error("Minio.UseSSL = false, want env override true")
	}
}

func TestInvalidTransportRejected(t *testing.T) {
	b := newMemBackend()
	b.SetString("server.transport", "websocket")

	if _, err := loadWith(b); err == nil {
		t.Error("expected error for unknown transport")
	}
}

func TestInvalidRenderTimeoutRejected(t *testing.T) {
	b := newMemBackend()
	b.SetString("render.timeout", "soon")

	if _, err := loadWith(b); err == nil {
		t.Error("expected error for unparsable timeout")
	}
}

func TestChartsBaseURLDerivedFromPort(t *testing.T) {
	cfg := defaults()
	cfg.Server.Port = 3033
	if got := cfg.ChartsBaseURL(); got != "http://localhost:3033/charts" {
		t.Errorf("ChartsBaseURL = %q", got)
	}

	cfg.Charts.BaseURL = "https://charts.example.com/files"
	if got := cfg.ChartsBaseURL(); got != "https://charts.example.com/files" {
		t.Errorf("ChartsBaseURL = %q, want explicit override", got)
	}
}

func TestSecretsHiddenFromShowAll(t *testing.T) {
	for _, info := range ShowAll(defaults()) {
		if info.Key == "minio.access_key" || info.Key == "minio.secret_key" {
			t.Errorf("secret key %q exposed by ShowAll", info.Key)
		}
	}
}

func TestSetKeyRejectsSecretsAndUnknown(t *testing.T) {
	if err := SetKey("minio.secret_key", "x"); err == nil {
		t.Error("SetKey allowed writing a secret")
	}
	if err := SetKey("no.such.key", "x"); err == nil {
		t.Error("SetKey allowed an unknown key")
	}
}
