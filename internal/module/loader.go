// Package module resolves `Import "path"` statements to
// source text on disk, searching a configurable list of roots, much
// like how a compiler's unit registry searches for source files
// across a search-path list.
package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileLoader implements interp.Loader against the local filesystem.
type FileLoader struct {
	// Roots are tried in order for every import; the current working
	// directory is always tried last as a fallback.
	Roots []string
}

// NewFileLoader creates a loader that searches roots, in order, before
// falling back to the working directory.
func NewFileLoader(roots []string) *FileLoader {
	return &FileLoader{Roots: roots}
}

// Load resolves path relative to each root and returns its contents
// plus the resolved absolute path (used as the cache key and as the
// display file name for diagnostics raised while executing it).
func (l *FileLoader) Load(path string) (source, resolved string, err error) {
	candidates := candidatePaths(path)
	roots := append(append([]string{}, l.Roots...), ".")

	for _, root := range roots {
		dir, rerr := os.Open(root)
		if rerr != nil {
			continue
		}
		entries, rerr := dir.ReadDir(-1)
		dir.Close()
		if rerr != nil {
			continue
		}
		for _, candidate := range candidates {
			full := filepath.Join(root, candidate)
			if _, statErr := os.Stat(full); statErr == nil {
				return readResolved(full)
			}
			// Case-insensitive fallback, for filesystems that don't
			// preserve the import path's exact casing.
			base := filepath.Base(candidate)
			for _, entry := range entries {
				if strings.EqualFold(entry.Name(), base) {
					full = filepath.Join(root, filepath.Dir(candidate), entry.Name())
					return readResolved(full)
				}
			}
		}
	}
	return "", "", fmt.Errorf("no module found for %q in search paths %v", path, l.Roots)
}

// candidatePaths returns path as given, and with a ".poh" extension
// appended if it does not already end in one.
func candidatePaths(path string) []string {
	if strings.HasSuffix(strings.ToLower(path), ".poh") {
		return []string{path}
	}
	return []string{path, path + ".poh"}
}

func readResolved(full string) (string, string, error) {
	abs, err := filepath.Abs(full)
	if err != nil {
		abs = full
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", "", err
	}
	return string(data), abs, nil
}
