package stratum

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/0xalexb/stratum/document"
	"github.com/0xalexb/stratum/interp"
	"github.com/0xalexb/stratum/node"
	"github.com/0xalexb/stratum/store"
)

// Composer composes entry documents from a document store into resolved
// configurations. A Composer is cheap and stateless apart from its options;
// the store caches parsed documents.
type Composer struct {
	store     store.Store
	overrides []string
	logger    *slog.Logger
}

// New creates a Composer reading documents from st.
func New(st store.Store, opts ...Option) *Composer {
	var options Options

	for _, apply := range opts {
		apply(&options)
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Composer{
		store:     st,
		overrides: options.Overrides,
		logger:    logger,
	}
}

// ComposeFile composes the entry document at entryPath, using the file's
// directory as the store root so sibling group directories resolve the
// defaults list.
func ComposeFile(entryPath string, opts ...Option) (*Config, error) {
	st, err := store.NewDir(filepath.Dir(entryPath))
	if err != nil {
		return nil, err
	}

	base := filepath.Base(entryPath)
	entry := strings.TrimSuffix(base, filepath.Ext(base))

	return New(st, opts...).Compose(entry)
}

// Compose loads the entry document ("group/name", or bare "name" for the
// root group), applies its defaults list in order, merges the entry body
// over the result, applies runtime overrides, and resolves interpolation.
// Deferred (???) values pass through untouched.
func (c *Composer) Compose(entry string) (*Config, error) {
	group, name := splitRef(entry)

	entryDoc, err := c.load(group, name)
	if err != nil {
		return nil, err
	}

	acc := node.NewMapping()

	// Sibling directives may legally restate a path with the same
	// semantics (later wins); restating it with different semantics is
	// ambiguous and refused.
	semantics := make(map[string]bool)

	for _, directive := range entryDoc.Defaults() {
		target := directive.TargetPath()

		if replace, seen := semantics[target]; seen && replace != directive.Replace {
			return nil, fmt.Errorf("%w: %s", ErrMergeConflict, target)
		}

		semantics[target] = directive.Replace

		doc, err := c.load(directive.GroupPath(), directive.Name)
		if err != nil {
			return nil, err
		}

		if doc.HasDefaults() {
			return nil, fmt.Errorf("%w: %s/%s", ErrNestedDefaults, directive.GroupPath(), directive.Name)
		}

		c.logger.Debug("applying default",
			slog.String("directive", directive.String()),
			slog.Bool("replace", directive.Replace),
		)

		if err := applyDirective(acc, directive, doc.Body()); err != nil {
			return nil, err
		}
	}

	// The entry document's own keys win over everything the defaults
	// contributed, regardless of list order.
	acc = node.Merge(acc, entryDoc.Body())

	for _, expr := range c.overrides {
		if err := applyOverride(acc, expr); err != nil {
			return nil, err
		}
	}

	resolved, err := interp.Resolve(acc)
	if err != nil {
		return nil, err
	}

	return &Config{root: resolved}, nil
}

func (c *Composer) load(group, name string) (*document.Document, error) {
	doc, err := c.store.Load(group, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMissingOverrideTarget, path.Join(group, name))
		}

		return nil, err
	}

	return doc, nil
}

func applyDirective(acc *node.Node, directive document.Directive, body *node.Node) error {
	target := directive.TargetPath()

	if directive.Replace {
		if err := acc.SetPath(target, body); err != nil {
			return fmt.Errorf("directive %q: %w", directive.String(), err)
		}

		return nil
	}

	merged := body
	if existing, ok := acc.Lookup(target); ok {
		merged = node.Merge(existing, body)
	}

	if err := acc.SetPath(target, merged); err != nil {
		return fmt.Errorf("directive %q: %w", directive.String(), err)
	}

	return nil
}

func applyOverride(acc *node.Node, expr string) error {
	idx := strings.Index(expr, "=")
	if idx <= 0 {
		return fmt.Errorf("%w: %q", ErrBadOverride, expr)
	}

	key := strings.TrimSpace(expr[:idx])
	rawValue := expr[idx+1:]

	appendMode := strings.HasSuffix(key, "+")
	if appendMode {
		key = strings.TrimSpace(strings.TrimSuffix(key, "+"))
	}

	if key == "" {
		return fmt.Errorf("%w: %q", ErrBadOverride, expr)
	}

	value, err := parseOverrideValue(rawValue)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrBadOverride, expr, err)
	}

	if appendMode {
		if err := acc.AppendPath(key, value); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrBadOverride, expr, err)
		}

		return nil
	}

	if err := acc.SetPath(key, value); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrBadOverride, expr, err)
	}

	return nil
}

// parseOverrideValue interprets the right-hand side of an override the way
// YAML would: 50 is an int, true a bool, [a, b] a sequence, ??? the
// deferred marker, and anything else a string.
func parseOverrideValue(raw string) (*node.Node, error) {
	if strings.TrimSpace(raw) == "" {
		return node.NewNull(), nil
	}

	var decoded any

	if err := yaml.UnmarshalWithOptions([]byte(raw), &decoded, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}

	return document.FromValue(decoded)
}

func splitRef(entry string) (group, name string) {
	idx := strings.LastIndex(entry, "/")
	if idx < 0 {
		return "", entry
	}

	return entry[:idx], entry[idx+1:]
}
