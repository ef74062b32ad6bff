package node

import (
	"errors"
	"fmt"
	"sort"
)

// DeferredMarker is the scalar spelling of an explicitly deferred value.
// A document scalar equal to this string parses into a Deferred node, and
// Deferred nodes render back to it.
const DeferredMarker = "???"

// ErrUnsupportedType is returned by FromAny for Go values that have no
// tree representation.
var ErrUnsupportedType = errors.New("unsupported value type")

// Kind identifies what a Node holds.
type Kind int

// Node kinds.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
	KindDeferred
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// Node is a single value in a configuration tree.
type Node struct {
	kind Kind

	boolVal   bool
	intVal    int64
	floatVal  float64
	stringVal string

	seq    []*Node
	keys   []string
	fields map[string]*Node
}

// NewNull returns a null node.
func NewNull() *Node { return &Node{kind: KindNull} }

// NewBool returns a bool scalar node.
func NewBool(v bool) *Node { return &Node{kind: KindBool, boolVal: v} }

// NewInt returns an int scalar node.
func NewInt(v int64) *Node { return &Node{kind: KindInt, intVal: v} }

// NewFloat returns a float scalar node.
func NewFloat(v float64) *Node { return &Node{kind: KindFloat, floatVal: v} }

// NewString returns a string scalar node. The string is stored verbatim;
// use FromAny to have the deferred marker recognized.
func NewString(v string) *Node { return &Node{kind: KindString, stringVal: v} }

// NewDeferred returns a node holding the explicit "required but unset" state.
func NewDeferred() *Node { return &Node{kind: KindDeferred} }

// NewSequence returns a sequence node holding the given items.
func NewSequence(items ...*Node) *Node {
	return &Node{kind: KindSequence, seq: items}
}

// NewMapping returns an empty mapping node.
func NewMapping() *Node {
	return &Node{kind: KindMapping, fields: make(map[string]*Node)}
}

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// IsDeferred reports whether the node is the explicit deferred marker.
func (n *Node) IsDeferred() bool { return n.kind == KindDeferred }

// Scalar returns the underlying scalar value (nil, bool, int64, float64 or
// string) and true when the node is a scalar. Deferred, sequence and
// mapping nodes return false.
func (n *Node) Scalar() (any, bool) {
	switch n.kind {
	case KindNull:
		return nil, true
	case KindBool:
		return n.boolVal, true
	case KindInt:
		return n.intVal, true
	case KindFloat:
		return n.floatVal, true
	case KindString:
		return n.stringVal, true
	default:
		return nil, false
	}
}

// Keys returns the mapping keys in insertion order. Non-mapping nodes
// return nil.
func (n *Node) Keys() []string {
	if n.kind != KindMapping {
		return nil
	}

	out := make([]string, len(n.keys))
	copy(out, n.keys)

	return out
}

// Field returns the child stored under key in a mapping node.
func (n *Node) Field(key string) (*Node, bool) {
	if n.kind != KindMapping {
		return nil, false
	}

	child, ok := n.fields[key]

	return child, ok
}

// SetField stores child under key, appending the key to the insertion
// order if it is new. Only valid on mapping nodes.
func (n *Node) SetField(key string, child *Node) {
	if n.kind != KindMapping {
		return
	}

	if _, exists := n.fields[key]; !exists {
		n.keys = append(n.keys, key)
	}

	n.fields[key] = child
}

// Len returns the number of items in a sequence, or of keys in a mapping.
func (n *Node) Len() int {
	switch n.kind {
	case KindSequence:
		return len(n.seq)
	case KindMapping:
		return len(n.keys)
	default:
		return 0
	}
}

// Index returns the i-th item of a sequence node.
func (n *Node) Index(i int) (*Node, bool) {
	if n.kind != KindSequence || i < 0 || i >= len(n.seq) {
		return nil, false
	}

	return n.seq[i], true
}

// Append adds an item to a sequence node.
func (n *Node) Append(child *Node) {
	if n.kind != KindSequence {
		return
	}

	n.seq = append(n.seq, child)
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	out := &Node{
		kind:      n.kind,
		boolVal:   n.boolVal,
		intVal:    n.intVal,
		floatVal:  n.floatVal,
		stringVal: n.stringVal,
	}

	switch n.kind {
	case KindSequence:
		out.seq = make([]*Node, len(n.seq))
		for i, item := range n.seq {
			out.seq[i] = item.Clone()
		}
	case KindMapping:
		out.keys = make([]string, len(n.keys))
		copy(out.keys, n.keys)

		out.fields = make(map[string]*Node, len(n.fields))
		for key, child := range n.fields {
			out.fields[key] = child.Clone()
		}
	}

	return out
}

// Equal reports whether two trees hold the same values. Mapping key order
// is display-only and does not participate in equality.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}

	if n.kind != other.kind {
		return false
	}

	switch n.kind {
	case KindSequence:
		if len(n.seq) != len(other.seq) {
			return false
		}

		for i := range n.seq {
			if !n.seq[i].Equal(other.seq[i]) {
				return false
			}
		}

		return true
	case KindMapping:
		if len(n.fields) != len(other.fields) {
			return false
		}

		for key, child := range n.fields {
			otherChild, ok := other.fields[key]
			if !ok || !child.Equal(otherChild) {
				return false
			}
		}

		return true
	default:
		return n.boolVal == other.boolVal &&
			n.intVal == other.intVal &&
			n.floatVal == other.floatVal &&
			n.stringVal == other.stringVal
	}
}

// ToAny converts the tree to plain Go values: scalars as themselves,
// sequences as []any, mappings as map[string]any (insertion order is lost),
// and deferred nodes as the DeferredMarker string.
func (n *Node) ToAny() any {
	switch n.kind {
	case KindDeferred:
		return DeferredMarker
	case KindSequence:
		out := make([]any, len(n.seq))
		for i, item := range n.seq {
			out[i] = item.ToAny()
		}

		return out
	case KindMapping:
		out := make(map[string]any, len(n.fields))
		for key, child := range n.fields {
			out[key] = child.ToAny()
		}

		return out
	default:
		v, _ := n.Scalar()

		return v
	}
}

// FromAny converts plain Go values into a tree. Map keys are visited in
// sorted order so the resulting insertion order is deterministic. A string
// equal to DeferredMarker becomes a Deferred node.
func FromAny(v any) (*Node, error) {
	switch t := v.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case int:
		return NewInt(int64(t)), nil
	case int32:
		return NewInt(int64(t)), nil
	case int64:
		return NewInt(t), nil
	case uint64:
		if t > 1<<63-1 {
			return nil, fmt.Errorf("%w: uint64 %d overflows int64", ErrUnsupportedType, t)
		}

		return NewInt(int64(t)), nil
	case float32:
		return NewFloat(float64(t)), nil
	case float64:
		return NewFloat(t), nil
	case string:
		if t == DeferredMarker {
			return NewDeferred(), nil
		}

		return NewString(t), nil
	case []any:
		seq := NewSequence()
		for _, item := range t {
			child, err := FromAny(item)
			if err != nil {
				return nil, err
			}

			seq.Append(child)
		}

		return seq, nil
	case []string:
		seq := NewSequence()
		for _, item := range t {
			child, err := FromAny(item)
			if err != nil {
				return nil, err
			}

			seq.Append(child)
		}

		return seq, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for key := range t {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		mapping := NewMapping()

		for _, key := range keys {
			child, err := FromAny(t[key])
			if err != nil {
				return nil, err
			}

			mapping.SetField(key, child)
		}

		return mapping, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// Walk visits every node depth-first, mappings in key order, passing each
// node's dotted path. The root is visited with an empty path.
func (n *Node) Walk(visit func(path string, n *Node)) {
	n.walk("", visit)
}

func (n *Node) walk(path string, visit func(path string, n *Node)) {
	visit(path, n)

	switch n.kind {
	case KindMapping:
		for _, key := range n.keys {
			n.fields[key].walk(JoinPath(path, key), visit)
		}
	case KindSequence:
		for i, item := range n.seq {
			item.walk(JoinPath(path, fmt.Sprintf("%d", i)), visit)
		}
	}
}
