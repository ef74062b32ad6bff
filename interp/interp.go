package interp

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/0xalexb/stratum/node"
)

// ErrCycle is returned when a reference chain revisits a path before it
// resolves.
var ErrCycle = errors.New("interpolation cycle")

// ErrUnknownPath is returned when a reference points nowhere in the tree.
var ErrUnknownPath = errors.New("interpolation path not found")

// ErrNonScalar is returned when a reference embedded in a larger string
// targets a sequence or mapping.
var ErrNonScalar = errors.New("cannot embed non-scalar value")

var refPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_][A-Za-z0-9_.\-]*)\}`)

// HasRef reports whether s contains an interpolation reference.
func HasRef(s string) bool {
	return refPattern.MatchString(s)
}

// Resolve returns a copy of root with every ${dotted.path} reference
// replaced by the value at that path. The input tree is not modified.
func Resolve(root *node.Node) (*node.Node, error) {
	r := &resolver{
		root:  root.Clone(),
		state: make(map[string]resolveState),
	}

	if err := r.resolve(""); err != nil {
		return nil, err
	}

	return r.root, nil
}

type resolveState int

const (
	stateUnseen resolveState = iota
	stateInProgress
	stateDone
)

type resolver struct {
	root  *node.Node
	state map[string]resolveState
}

func (r *resolver) resolve(path string) error {
	switch r.state[path] {
	case stateDone:
		return nil
	case stateInProgress:
		return fmt.Errorf("%w at %s", ErrCycle, path)
	}

	r.state[path] = stateInProgress

	current, err := r.nodeAt(path)
	if err != nil {
		return err
	}

	switch current.Kind() {
	case node.KindMapping:
		for _, key := range current.Keys() {
			if err := r.resolve(node.JoinPath(path, key)); err != nil {
				return err
			}
		}
	case node.KindSequence:
		for i := 0; i < current.Len(); i++ {
			if err := r.resolve(node.JoinPath(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
	case node.KindString:
		if err := r.resolveScalar(path, current); err != nil {
			return err
		}
	}

	r.state[path] = stateDone

	return nil
}

// nodeAt looks up a path, resolving the parent first when the path is not
// yet visible: the parent may be a whole-value reference that has to adopt
// its subtree before children exist. A parent already being resolved means
// the value genuinely is not there.
func (r *resolver) nodeAt(path string) (*node.Node, error) {
	n, ok := r.root.Lookup(path)
	if ok {
		return n, nil
	}

	parent, _ := node.ParentPath(path)
	if path != "" && r.state[parent] != stateInProgress {
		if err := r.resolve(parent); err != nil {
			return nil, err
		}

		if n, ok = r.root.Lookup(path); ok {
			return n, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownPath, path)
}

func (r *resolver) resolveScalar(path string, n *node.Node) error {
	value, _ := n.Scalar()

	text, ok := value.(string)
	if !ok {
		return nil
	}

	matches := refPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	// A scalar that is exactly one reference adopts the target subtree,
	// keeping its type (including mappings and sequences).
	if len(matches) == 1 && matches[0][0] == 0 && matches[0][1] == len(text) {
		target := text[matches[0][2]:matches[0][3]]

		if err := r.resolve(target); err != nil {
			return fmt.Errorf("resolving ${%s} at %s: %w", target, path, err)
		}

		resolved, ok := r.root.Lookup(target)
		if !ok {
			return fmt.Errorf("resolving ${%s} at %s: %w: %s", target, path, ErrUnknownPath, target)
		}

		return r.root.SetPath(path, resolved.Clone())
	}

	var out strings.Builder

	prev := 0

	for _, match := range matches {
		out.WriteString(text[prev:match[0]])

		target := text[match[2]:match[3]]

		if err := r.resolve(target); err != nil {
			return fmt.Errorf("resolving ${%s} at %s: %w", target, path, err)
		}

		resolved, ok := r.root.Lookup(target)
		if !ok {
			return fmt.Errorf("resolving ${%s} at %s: %w: %s", target, path, ErrUnknownPath, target)
		}

		if resolved.IsDeferred() {
			// The referenced value is required but unset; the reading
			// path inherits that state.
			return r.root.SetPath(path, node.NewDeferred())
		}

		scalar, ok := resolved.Scalar()
		if !ok {
			return fmt.Errorf("resolving ${%s} at %s: %w (%s)", target, path, ErrNonScalar, resolved.Kind())
		}

		out.WriteString(stringify(scalar))

		prev = match[1]
	}

	out.WriteString(text[prev:])

	return r.root.SetPath(path, node.NewString(out.String()))
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
