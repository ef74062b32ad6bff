package document

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/0xalexb/stratum/node"
)

// ErrMalformed is returned when a document cannot be parsed into a tree.
var ErrMalformed = errors.New("malformed document")

// ErrBadDirective is returned when an entry in the defaults list is not a
// valid override directive.
var ErrBadDirective = errors.New("bad defaults directive")

// defaultsKey is the reserved top-level key holding the override directives.
const defaultsKey = "defaults"

// overridePrefix marks a directive that replaces its target subtree instead
// of deep-merging into it.
const overridePrefix = "override "

// Directive is one entry of a defaults list: compose the document named
// Name from the group at Path into the accumulating configuration.
type Directive struct {
	// Path is the group path, e.g. ["env", "generator"] for "env/generator".
	// It doubles as the tree path the document content lands at.
	Path []string
	// Name identifies the document within its group.
	Name string
	// Replace selects replace-in-place over deep-merge.
	Replace bool
}

// TargetPath returns the dotted tree path the directive writes to.
func (d Directive) TargetPath() string {
	return strings.Join(d.Path, ".")
}

// GroupPath returns the slash-separated group the document is loaded from.
func (d Directive) GroupPath() string {
	return strings.Join(d.Path, "/")
}

// String renders the directive the way it is written in a defaults list.
func (d Directive) String() string {
	if d.Replace {
		return overridePrefix + "/" + d.GroupPath() + ": " + d.Name
	}

	return d.GroupPath() + ": " + d.Name
}

// Document is a parsed configuration document: an ordered defaults list and
// a body tree holding every other top-level key. Documents are immutable
// after parsing.
type Document struct {
	body     *node.Node
	defaults []Directive
}

// Parse parses YAML data into a Document. The top level must be a mapping
// (or empty). The "defaults" key, when present, must be a sequence of
// single-key mappings.
func Parse(data []byte) (*Document, error) {
	var raw any

	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	doc := &Document{body: node.NewMapping()}

	if raw == nil {
		return doc, nil
	}

	mapping, ok := raw.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("%w: top level must be a mapping, got %T", ErrMalformed, raw)
	}

	for _, item := range mapping {
		key := fmt.Sprintf("%v", item.Key)

		if key == defaultsKey {
			directives, err := parseDefaults(item.Value)
			if err != nil {
				return nil, err
			}

			doc.defaults = directives

			continue
		}

		child, err := FromValue(item.Value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		doc.body.SetField(key, child)
	}

	return doc, nil
}

// Body returns a deep copy of the document body, keeping the parsed
// document immutable across repeated compositions.
func (d *Document) Body() *node.Node {
	return d.body.Clone()
}

// Defaults returns the override directives in listed order.
func (d *Document) Defaults() []Directive {
	out := make([]Directive, len(d.defaults))
	copy(out, d.defaults)

	return out
}

// HasDefaults reports whether the document carries a defaults list.
func (d *Document) HasDefaults() bool {
	return len(d.defaults) > 0
}

func parseDefaults(v any) ([]Directive, error) {
	seq, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: defaults must be a sequence, got %T", ErrMalformed, v)
	}

	directives := make([]Directive, 0, len(seq))

	for i, item := range seq {
		entry, ok := item.(yaml.MapSlice)
		if !ok || len(entry) != 1 {
			return nil, fmt.Errorf("%w: entry %d must be a single `group: name` pair", ErrBadDirective, i)
		}

		key := fmt.Sprintf("%v", entry[0].Key)

		name, ok := entry[0].Value.(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: entry %d (%q) must name a document", ErrBadDirective, i, key)
		}

		replace := false
		if strings.HasPrefix(key, overridePrefix) {
			replace = true
			key = strings.TrimPrefix(key, overridePrefix)
		}

		key = strings.TrimPrefix(strings.TrimSpace(key), "/")
		if key == "" {
			return nil, fmt.Errorf("%w: entry %d has an empty group path", ErrBadDirective, i)
		}

		path := strings.Split(key, "/")
		for _, segment := range path {
			if segment == "" {
				return nil, fmt.Errorf("%w: entry %d has an empty group path segment in %q", ErrBadDirective, i, key)
			}
		}

		directives = append(directives, Directive{Path: path, Name: name, Replace: replace})
	}

	return directives, nil
}

// FromValue converts a decoded YAML value (as produced with ordered maps)
// into a tree node.
func FromValue(v any) (*node.Node, error) {
	switch t := v.(type) {
	case yaml.MapSlice:
		mapping := node.NewMapping()

		for _, item := range t {
			child, err := FromValue(item.Value)
			if err != nil {
				return nil, err
			}

			mapping.SetField(fmt.Sprintf("%v", item.Key), child)
		}

		return mapping, nil
	case []any:
		seq := node.NewSequence()

		for _, item := range t {
			child, err := FromValue(item)
			if err != nil {
				return nil, err
			}

			seq.Append(child)
		}

		return seq, nil
	default:
		n, err := node.FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		return n, nil
	}
}

// Marshal renders a tree back to YAML with mapping keys in insertion order
// and deferred nodes spelled as the "???" marker. Output is deterministic
// for a given tree.
func Marshal(n *node.Node) ([]byte, error) {
	data, err := yaml.Marshal(toYAML(n))
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	return data, nil
}

func toYAML(n *node.Node) any {
	switch n.Kind() {
	case node.KindDeferred:
		return node.DeferredMarker
	case node.KindSequence:
		out := make([]any, 0, n.Len())
		for i := 0; i < n.Len(); i++ {
			item, _ := n.Index(i)
			out = append(out, toYAML(item))
		}

		return out
	case node.KindMapping:
		out := make(yaml.MapSlice, 0, n.Len())
		for _, key := range n.Keys() {
			child, _ := n.Field(key)
			out = append(out, yaml.MapItem{Key: key, Value: toYAML(child)})
		}

		return out
	default:
		v, _ := n.Scalar()

		return v
	}
}
