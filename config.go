package stratum

import (
	"fmt"
	"sort"

	"github.com/0xalexb/stratum/document"
	"github.com/0xalexb/stratum/node"
)

// Config is a fully composed, resolved configuration. It is immutable and
// safe for concurrent reads. Deferred (???) values survive composition and
// fail only when read.
type Config struct {
	root *node.Node
}

// Has reports whether a value exists at the dotted path, deferred or not.
func (c *Config) Has(path string) bool {
	_, ok := c.root.Lookup(path)

	return ok
}

// Get returns the value at the dotted path as plain Go data (scalars,
// []any, map[string]any). Reading a deferred value, or a subtree still
// containing one, returns ErrDeferred naming the unset path.
func (c *Config) Get(path string) (any, error) {
	n, err := c.node(path)
	if err != nil {
		return nil, err
	}

	if deferred := firstDeferred(n, path); deferred != "" {
		return nil, fmt.Errorf("%w: %s", ErrDeferred, deferred)
	}

	return n.ToAny(), nil
}

// String returns the string at the dotted path.
func (c *Config) String(path string) (string, error) {
	v, err := c.scalar(path)
	if err != nil {
		return "", err
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("path %s: expected string, got %T", path, v)
	}

	return s, nil
}

// Int returns the integer at the dotted path.
func (c *Config) Int(path string) (int64, error) {
	v, err := c.scalar(path)
	if err != nil {
		return 0, err
	}

	i, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("path %s: expected int, got %T", path, v)
	}

	return i, nil
}

// Float returns the float at the dotted path; integer values convert.
func (c *Config) Float(path string) (float64, error) {
	v, err := c.scalar(path)
	if err != nil {
		return 0, err
	}

	switch t := v.(type) {
	case float64:
		return t, nil
	case int64:
		return float64(t), nil
	default:
		return 0, fmt.Errorf("path %s: expected float, got %T", path, v)
	}
}

// Bool returns the boolean at the dotted path.
func (c *Config) Bool(path string) (bool, error) {
	v, err := c.scalar(path)
	if err != nil {
		return false, err
	}

	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("path %s: expected bool, got %T", path, v)
	}

	return b, nil
}

// Strings returns the sequence of strings at the dotted path.
func (c *Config) Strings(path string) ([]string, error) {
	n, err := c.node(path)
	if err != nil {
		return nil, err
	}

	if n.Kind() != node.KindSequence {
		return nil, fmt.Errorf("path %s: expected sequence, got %s", path, n.Kind())
	}

	out := make([]string, 0, n.Len())

	for i := 0; i < n.Len(); i++ {
		item, _ := n.Index(i)

		if item.IsDeferred() {
			return nil, fmt.Errorf("%w: %s.%d", ErrDeferred, path, i)
		}

		v, _ := item.Scalar()

		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("path %s.%d: expected string, got %T", path, i, v)
		}

		out = append(out, s)
	}

	return out, nil
}

// Sub returns the mapping at the dotted path as a Config of its own.
func (c *Config) Sub(path string) (*Config, error) {
	n, err := c.node(path)
	if err != nil {
		return nil, err
	}

	if n.Kind() != node.KindMapping {
		return nil, fmt.Errorf("path %s: expected mapping, got %s", path, n.Kind())
	}

	return &Config{root: n}, nil
}

// Deferred returns the sorted dotted paths of every value still explicitly
// deferred. An empty result means every reachable value is concrete.
func (c *Config) Deferred() []string {
	var paths []string

	c.root.Walk(func(path string, n *node.Node) {
		if n.IsDeferred() {
			paths = append(paths, path)
		}
	})

	sort.Strings(paths)

	return paths
}

// Dump renders the resolved configuration as YAML, mapping keys in
// composition order and deferred values spelled as ???. Output is
// byte-identical across compositions of identical inputs.
func (c *Config) Dump() ([]byte, error) {
	return document.Marshal(c.root)
}

func (c *Config) node(path string) (*node.Node, error) {
	n, ok := c.root.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}

	return n, nil
}

func (c *Config) scalar(path string) (any, error) {
	n, err := c.node(path)
	if err != nil {
		return nil, err
	}

	if n.IsDeferred() {
		return nil, fmt.Errorf("%w: %s", ErrDeferred, path)
	}

	v, ok := n.Scalar()
	if !ok {
		return nil, fmt.Errorf("path %s: expected scalar, got %s", path, n.Kind())
	}

	return v, nil
}

// firstDeferred returns the dotted path of the first deferred node in the
// subtree, or "" when there is none.
func firstDeferred(n *node.Node, base string) string {
	found := ""

	n.Walk(func(path string, child *node.Node) {
		if found != "" || !child.IsDeferred() {
			return
		}

		switch {
		case base == "":
			found = path
		case path == "":
			found = base
		default:
			found = base + "." + path
		}
	})

	return found
}
