package module

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
}

func TestFileLoaderAppendsExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "helpers.poh", "Start Program\nEnd Program\n")

	l := NewFileLoader([]string{dir})
	source, resolved, err := l.Load("helpers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != "Start Program\nEnd Program\n" {
		t.Fatalf("unexpected source: %q", source)
	}
	if filepath.Base(resolved) != "helpers.poh" {
		t.Fatalf("expected resolved path to end in helpers.poh, got %q", resolved)
	}
}

func TestFileLoaderHonorsExplicitExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "helpers.poh", "Start Program\nEnd Program\n")

	l := NewFileLoader([]string{dir})
	_, _, err := l.Load("helpers.poh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFileLoaderCaseInsensitiveFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Helpers.poh", "Start Program\nEnd Program\n")

	l := NewFileLoader([]string{dir})
	_, resolved, err := l.Load("helpers")
	if err != nil {
		t.Fatalf("expected case-insensitive fallback to find the file, got error: %v", err)
	}
	if filepath.Base(resolved) != "Helpers.poh" {
		t.Fatalf("expected resolved path to preserve on-disk casing, got %q", resolved)
	}
}

func TestFileLoaderSearchesRootsInOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, second, "shared.poh", "Start Program\nEnd Program\n")

	l := NewFileLoader([]string{first, second})
	_, resolved, err := l.Load("shared")
	if err != nil {
		t.Fatalf("expected the loader to fall through to the second root, got error: %v", err)
	}
	if filepath.Dir(resolved) != second {
		t.Fatalf("expected resolution from %q, got %q", second, resolved)
	}
}

func TestFileLoaderNotFound(t *testing.T) {
	l := NewFileLoader([]string{t.TempDir()})
	_, _, err := l.Load("missing")
	if err == nil {
		t.Fatal("expected an error when no root contains the requested module")
	}
}
