package store

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/0xalexb/stratum/document"
)

// ErrNotFound is returned when no document exists for a (group, name) pair.
var ErrNotFound = errors.New("document not found")

// ErrNotDirectory is returned when a Dir store root is not a directory.
var ErrNotDirectory = errors.New("store root is not a directory")

// Store resolves a (group, name) reference to a parsed document. The empty
// group addresses the root namespace.
type Store interface {
	Load(group, name string) (*document.Document, error)
}

// Dir serves documents from a fixed directory layout: <root>/<group>/<name>.yaml.
// Parsed documents are cached; a file is read at most once per store.
type Dir struct {
	root string

	mu    sync.Mutex
	cache map[string]*document.Document
}

// NewDir creates a directory-backed store rooted at root.
func NewDir(root string) (*Dir, error) {
	cleanPath := filepath.Clean(root)

	stat, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat store root %q: %w", cleanPath, err)
	}

	if !stat.IsDir() {
		return nil, fmt.Errorf("path %q: %w", cleanPath, ErrNotDirectory)
	}

	return &Dir{
		root:  cleanPath,
		cache: make(map[string]*document.Document),
	}, nil
}

// Load reads, parses and caches the document for (group, name).
func (s *Dir) Load(group, name string) (*document.Document, error) {
	ref := path.Join(group, name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if doc, ok := s.cache[ref]; ok {
		return doc, nil
	}

	for _, ext := range []string{".yaml", ".yml"} {
		fpath := filepath.Join(s.root, filepath.FromSlash(group), name+ext)

		data, err := os.ReadFile(fpath) // #nosec G304 -- path is rooted at the validated store root
		if errors.Is(err, os.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("reading document %q: %w", ref, err)
		}

		doc, err := document.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("document %q: %w", ref, err)
		}

		s.cache[ref] = doc

		return doc, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

// Map serves documents from in-memory YAML sources keyed by "group/name"
// (bare "name" for the root group). Sources parse lazily and cache.
type Map struct {
	mu      sync.Mutex
	sources map[string]string
	cache   map[string]*document.Document
}

// NewMap creates an in-memory store from YAML sources.
func NewMap(sources map[string]string) *Map {
	copied := make(map[string]string, len(sources))
	for ref, src := range sources {
		copied[ref] = src
	}

	return &Map{
		sources: copied,
		cache:   make(map[string]*document.Document),
	}
}

// Load parses and caches the document for (group, name).
func (s *Map) Load(group, name string) (*document.Document, error) {
	ref := path.Join(group, name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if doc, ok := s.cache[ref]; ok {
		return doc, nil
	}

	src, ok := s.sources[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}

	doc, err := document.Parse([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", ref, err)
	}

	s.cache[ref] = doc

	return doc, nil
}
