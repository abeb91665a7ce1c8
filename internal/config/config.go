// Package config loads an optional poh.yaml project file and turns it
// into the plain []string of import search roots internal/module's
// FileLoader already accepts: the core Import statement is unaware this
// package exists at all, keeping project-level YAML configuration
// outside internal/interp and internal/bytecode.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// FileName is the project config file searched for in the working
// directory and each ancestor directory above it.
const FileName = "poh.yaml"

// Project is the decoded shape of poh.yaml.
type Project struct {
	// ImportPaths lists directories searched, in order, before the
	// working directory, when resolving an `Import "path"` statement.
	ImportPaths []string `yaml:"import_paths"`

	// Stats selects the default --stats-format when the CLI flag is
	// not given explicitly ("text" or "yaml"); cmd/poh's newEngine
	// applies it.
	Stats string `yaml:"stats_format"`
}

// Load reads and decodes path. A missing file is not an error: it
// returns a zero-value Project so callers can treat "no poh.yaml" the
// same as "poh.yaml with no settings".
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Project{}, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &p, nil
}

// Find walks up from dir looking for poh.yaml, returning its path or
// "" if none of dir's ancestors (up to and including the filesystem
// root) has one.
func Find(dir string) string {
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadFromWorkingDir is the CLI's usual entry point: it searches the
// current directory and its ancestors for poh.yaml and loads it, or
// returns an empty Project if none is found.
func LoadFromWorkingDir() (*Project, error) {
	wd, err := os.Getwd()
	if err != nil {
		return &Project{}, nil
	}
	path := Find(wd)
	if path == "" {
		return &Project{}, nil
	}
	return Load(path)
}
