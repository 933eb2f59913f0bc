// Package manifest discovers declared dependencies in a project tree
// and emits (name, required range) pairs. The range text is treated
// as opaque here; parsing happens in the matching engine.
package manifest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
)

// Requirement is one declared dependency: a package or module name
// and the version range it is required under. An empty Range means
// any version is acceptable.
type Requirement struct {
	Name   string `json:"name"`
	Range  string `json:"range,omitempty"`
	Source string `json:"source,omitempty"` // manifest file the requirement came from
}

type Parser interface {
	Parse(path string) ([]Requirement, error)
	Kind() string
}

// NewParser picks a parser by manifest file name.
func NewParser(path string) (Parser, error) {
	switch filepath.Base(path) {
	case "requirements.txt", "requirements.in":
		return &RequirementsParser{}, nil
	case "dependencies.yml", "dependencies.yaml":
		return &YAMLParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported manifest: %s", filepath.Base(path))
	}
}

// Discover walks a directory tree and parses every recognized
// manifest file, in path order.
func Discover(root string) ([]Requirement, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, perr := NewParser(path); perr == nil {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(paths)

	var reqs []Requirement
	for _, path := range paths {
		p, err := NewParser(path)
		if err != nil {
			continue
		}
		found, err := p.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		reqs = append(reqs, found...)
	}
	return reqs, nil
}
