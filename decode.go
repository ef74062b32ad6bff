package stratum

import (
	"fmt"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/0xalexb/stratum/document"
)

// Validator defines an interface for validating decoded configuration
// structures.
type Validator interface {
	Validate() error
}

// Defaulter defines an interface for setting default values in decoded
// configuration structures.
type Defaulter interface {
	SetDefaults() (changed bool)
}

// Decode unmarshals the subtree at the dotted path into target (the empty
// path decodes the whole configuration). If the subtree still contains a
// deferred value, Decode fails with ErrDeferred naming it; decoding is a
// consumer read. After unmarshaling, targets implementing Defaulter get
// their defaults applied and targets implementing Validator are validated.
func (c *Config) Decode(path string, target any) error {
	n := c.root

	if path != "" {
		found, err := c.node(path)
		if err != nil {
			return err
		}

		n = found
	}

	if deferred := firstDeferred(n, path); deferred != "" {
		return fmt.Errorf("%w: %s", ErrDeferred, deferred)
	}

	data, err := document.Marshal(n)
	if err != nil {
		return fmt.Errorf("decoding path %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decoding path %q: %w", path, err)
	}

	if defaulter, ok := target.(Defaulter); ok {
		if defaulter.SetDefaults() {
			slog.Debug("defaults applied", slog.String("path", path))
		}
	}

	if validator, ok := target.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("validating path %q: %w", path, err)
		}
	}

	return nil
}
