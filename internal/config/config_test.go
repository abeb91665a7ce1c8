package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("expected a missing poh.yaml to load as an empty Project, got error: %v", err)
	}
	if len(p.ImportPaths) != 0 || p.Stats != "" {
		t.Fatalf("expected a zero-value Project, got %+v", p)
	}
}

func TestLoadDecodesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poh.yaml")
	contents := "import_paths:\n  - lib\n  - vendor/shared\nstats_format: yaml\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.ImportPaths) != 2 || p.ImportPaths[0] != "lib" || p.ImportPaths[1] != "vendor/shared" {
		t.Fatalf("expected import_paths [lib vendor/shared], got %v", p.ImportPaths)
	}
	if p.Stats != "yaml" {
		t.Fatalf("expected stats_format \"yaml\", got %q", p.Stats)
	}
}

func TestFindWalksUpAncestors(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("stats_format: text\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("failed to create nested dirs: %v", err)
	}
	found := Find(nested)
	want := filepath.Join(root, FileName)
	if found != want {
		t.Fatalf("expected to find %q by walking up ancestors, got %q", want, found)
	}
}

func TestFindReturnsEmptyWhenNoneExists(t *testing.T) {
	dir := t.TempDir()
	if got := Find(dir); got != "" {
		t.Fatalf("expected no poh.yaml to be found, got %q", got)
	}
}
