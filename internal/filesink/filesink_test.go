package filesink

import (
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
)

var filenameRE = regexp.MustCompile(`^chart-\d+-[0-9a-f]{8}\.png$`)

func TestFilenameShape(t *testing.T) {
	s := New(t.TempDir())
	name := s.Filename()
	if !filenameRE.MatchString(name) {
		t.Errorf("filename %q does not match chart-<ts>-<rand>.png", name)
	}
}

func TestFilenameUniqueUnderConcurrency(t *testing.T) {
	s := New(t.TempDir())

	const n = 2000
	names := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			names <- s.Filename()
		}()
	}
	wg.Wait()
	close(names)

	seen := make(map[string]bool, n)
	for name := range names {
		if seen[name] {
			t.Fatalf("duplicate filename generated: %q", name)
		}
		seen[name] = true
	}
}

func TestSaveChartCreatesDirectoryIdempotently(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	s := New(dir)

	if err := s.SaveChart("a.png", []byte("one")); err != nil {
		t.Fatalf("first SaveChart: %v", err)
	}
	// Directory now exists; a second write must not fail on MkdirAll.
	if err := s.SaveChart("b.png", []byte("two")); err != nil {
		t.Fatalf("second SaveChart: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "b.png"))
	if err != nil {
		t.Fatalf("reading written chart: %v", err)
	}
	if string(data) != "two" {
		t.Errorf("chart content = %q, want %q", data, "two")
	}
}

func TestSaveChartFailsOnUnwritableDir(t *testing.T) {
	parent := t.TempDir()
	file := filepath.Join(parent, "occupied")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// The sink dir path collides with a regular file, MkdirAll must fail.
	s := New(file)
	if err := s.SaveChart("a.png", []byte("data")); err == nil {
		t.Error("SaveChart succeeded with a file blocking the directory path")
	}
}
