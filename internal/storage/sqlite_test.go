package storage

import (
	"fmt"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestMigrationsIdempotent runs Open twice on the same database and verifies
// the schema_version count stays correct (migration not re-applied).
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}

	v1, err := s1.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	v2, err := s2.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}

	if len(v1) != len(v2) {
		t.Errorf("migration count changed: %d -> %d", len(v1), len(v2))
	}
}

func TestSaveAndGetRender(t *testing.T) {
	s := openTestStore(t)

	in := Render{
		ID:         "r-1",
		CreatedAt:  time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC),
		Label:      "bar",
		Format:     "png",
		Strategy:   "local_file",
		Width:      800,
		Height:     600,
		Theme:      "default",
		ByteSize:   12034,
		DurationMS: 87,
	}
	if err := s.SaveRender(in); err != nil {
		t.Fatalf("SaveRender: %v", err)
	}

	got, err := s.GetRender("r-1")
	if err != nil {
		t.Fatalf("GetRender: %v", err)
	}
	if got != in {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, in)
	}
}

func TestGetRenderNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetRender("missing"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRecentRendersOrderAndLimit(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		r := Render{
			ID:        fmt.Sprintf("r-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Label:     "line",
			Format:    "png",
			Strategy:  "inline",
			Width:     800,
			Height:    600,
			Theme:     "dark",
		}
		if err := s.SaveRender(r); err != nil {
			t.Fatalf("SaveRender %d: %v", i, err)
		}
	}

	got, err := s.RecentRenders(3)
	if err != nil {
		t.Fatalf("RecentRenders: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID != "r-4" || got[2].ID != "r-2" {
		t.Errorf("order wrong: %s, %s, %s (want newest first)", got[0].ID, got[1].ID, got[2].ID)
	}

	n, err := s.CountRenders()
	if err != nil {
		t.Fatalf("CountRenders: %v", err)
	}
	if n != 5 {
		t.Errorf("count = %d, want 5", n)
	}
}
