package objectstore

import (
	"context"
	"regexp"
	"testing"
)

func TestNewIncompleteConfigReturnsNil(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty", Config{}},
		{"missing secret", Config{Endpoint: "minio:9000", AccessKey: "ak", Bucket: "charts"}},
		{"missing bucket", Config{Endpoint: "minio:9000", AccessKey: "ak", SecretKey: "sk"}},
		{"whitespace endpoint", Config{Endpoint: "  ", AccessKey: "ak", SecretKey: "sk", Bucket: "charts"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if s != nil {
				t.Error("expected nil store for incomplete config")
			}
			if s.IsConfigured() {
				t.Error("nil store reports itself configured")
			}
		})
	}
}

func TestNewCompleteConfig(t *testing.T) {
	s, err := New(Config{Endpoint: "minio.local:9000", AccessKey: "ak", SecretKey: "sk", Bucket: "charts"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !s.IsConfigured() {
		t.Error("store with complete config reports unconfigured")
	}
	if s.region != "us-east-1" {
		t.Errorf("region = %q, want default us-east-1", s.region)
	}
}

func TestStoreOnNilStoreFails(t *testing.T) {
	var s *Store
	if _, err := s.Store(context.Background(), []byte("x"), "png", "image/png"); err == nil {
		t.Error("Store on nil store did not fail")
	}
}

func TestObjectKeyShape(t *testing.T) {
	re := regexp.MustCompile(`^charts/\d{4}-\d{2}-\d{2}/[0-9a-f-]{36}\.png$`)

	k1 := objectKey("png")
	k2 := objectKey(".png")
	if !re.MatchString(k1) {
		t.Errorf("key %q does not match charts/<date>/<uuid>.png", k1)
	}
	if !re.MatchString(k2) {
		t.Errorf("key %q: leading dot in extension not normalized", k2)
	}
	if k1 == k2 {
		t.Error("consecutive keys collide")
	}
}
