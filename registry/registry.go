package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/0xalexb/stratum"
)

// TargetKey is the mapping key naming the factory that builds a section.
const TargetKey = "_target_"

// ErrNoTarget is returned when a section has no _target_ key to build from.
var ErrNoTarget = errors.New("section has no _target_ key")

// ErrNotRegistered is returned when a _target_ names an unknown factory.
var ErrNotRegistered = errors.New("target not registered")

// Factory builds a component from its resolved configuration section.
type Factory func(cfg *stratum.Config) (any, error)

// Registry maps target names to factories. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the given name. Overwrites any existing
// registration.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.factories == nil {
		r.factories = make(map[string]Factory)
	}

	r.factories[name] = factory
}

// Get returns the factory for name, or nil and false if not found.
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]

	return factory, ok
}

// MustGet returns the factory for name, or panics if not found.
func (r *Registry) MustGet(name string) Factory {
	factory, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("registry: target %q not registered", name))
	}

	return factory
}

// Names returns all registered target names (unordered).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	return names
}

// Build instantiates the component configured at the dotted path: the
// section's _target_ key selects the factory, and the section itself is
// passed as the factory's configuration. Reading a deferred _target_ fails
// with stratum.ErrDeferred, like any other consumer read.
func (r *Registry) Build(cfg *stratum.Config, path string) (any, error) {
	section, err := cfg.Sub(path)
	if err != nil {
		return nil, err
	}

	name, err := section.String(TargetKey)
	if err != nil {
		if errors.Is(err, stratum.ErrPathNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoTarget, path)
		}

		return nil, fmt.Errorf("path %s: %w", path, err)
	}

	factory, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q at %s", ErrNotRegistered, name, path)
	}

	component, err := factory(section)
	if err != nil {
		return nil, fmt.Errorf("building %q at %s: %w", name, path, err)
	}

	return component, nil
}

// Provide adapts a typed constructor into a Factory: the section decodes
// into T (running its Defaulter and Validator hooks), then ctor runs.
func Provide[T any](ctor func(T) (any, error)) Factory {
	return func(cfg *stratum.Config) (any, error) {
		var params T

		if err := cfg.Decode("", &params); err != nil {
			return nil, err
		}

		return ctor(params)
	}
}
