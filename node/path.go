package node

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadPath is returned when a dotted path cannot be applied to a tree.
var ErrBadPath = errors.New("bad path")

// SplitPath splits a dotted path into segments. The empty path has no
// segments and addresses the node itself.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}

	return strings.Split(path, ".")
}

// JoinPath joins a parent path and a child segment.
func JoinPath(parent, child string) string {
	if parent == "" {
		return child
	}

	return parent + "." + child
}

// ParentPath returns the path with its last segment removed, and the
// removed segment. The empty path returns itself.
func ParentPath(path string) (parent, last string) {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return "", path
	}

	return path[:idx], path[idx+1:]
}

// Lookup walks a dotted path from the node. Mapping segments select fields,
// numeric segments index sequences. The empty path returns the node itself.
func (n *Node) Lookup(path string) (*Node, bool) {
	current := n

	for _, segment := range SplitPath(path) {
		switch current.kind {
		case KindMapping:
			child, ok := current.Field(segment)
			if !ok {
				return nil, false
			}

			current = child
		case KindSequence:
			idx, err := strconv.Atoi(segment)
			if err != nil {
				return nil, false
			}

			child, ok := current.Index(idx)
			if !ok {
				return nil, false
			}

			current = child
		default:
			return nil, false
		}
	}

	return current, true
}

// SetPath stores child at the dotted path, creating intermediate mappings
// as needed. An intermediate that exists but is not a container is replaced
// by a fresh mapping, matching override semantics where a deeper write wins
// over an earlier scalar. Numeric segments assign into existing sequence
// slots and error when out of range.
func (n *Node) SetPath(path string, child *Node) error {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return fmt.Errorf("%w: empty path", ErrBadPath)
	}

	current := n

	for i, segment := range segments[:len(segments)-1] {
		switch current.kind {
		case KindMapping:
			next, ok := current.Field(segment)
			if !ok || (next.kind != KindMapping && next.kind != KindSequence) {
				next = NewMapping()
				current.SetField(segment, next)
			}

			current = next
		case KindSequence:
			idx, err := strconv.Atoi(segment)
			if err != nil {
				return fmt.Errorf("%w: %q is not a sequence index at %s", ErrBadPath, segment, strings.Join(segments[:i], "."))
			}

			next, ok := current.Index(idx)
			if !ok {
				return fmt.Errorf("%w: index %d out of range at %s", ErrBadPath, idx, strings.Join(segments[:i], "."))
			}

			current = next
		default:
			return fmt.Errorf("%w: %s is a %s, not a container", ErrBadPath, strings.Join(segments[:i], "."), current.kind)
		}
	}

	last := segments[len(segments)-1]

	switch current.kind {
	case KindMapping:
		current.SetField(last, child)

		return nil
	case KindSequence:
		idx, err := strconv.Atoi(last)
		if err != nil {
			return fmt.Errorf("%w: %q is not a sequence index", ErrBadPath, last)
		}

		if idx < 0 || idx >= len(current.seq) {
			return fmt.Errorf("%w: index %d out of range", ErrBadPath, idx)
		}

		current.seq[idx] = child

		return nil
	default:
		return fmt.Errorf("%w: cannot set %q inside a %s", ErrBadPath, last, current.kind)
	}
}

// AppendPath appends child to the sequence at the dotted path, creating the
// sequence if the path is unset. Appending to a non-sequence is an error.
func (n *Node) AppendPath(path string, child *Node) error {
	existing, ok := n.Lookup(path)
	if !ok {
		return n.SetPath(path, NewSequence(child))
	}

	if existing.kind != KindSequence {
		return fmt.Errorf("%w: cannot append to %s at %s", ErrBadPath, existing.kind, path)
	}

	existing.Append(child)

	return nil
}
