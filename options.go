package stratum

import "log/slog"

// Options holds configuration settings for a Composer.
type Options struct {
	Overrides []string
	Logger    *slog.Logger
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// WithOverrides adds runtime overrides applied after file composition and
// before interpolation. Each expression is "dotted.path=value" to set, or
// "dotted.path+=value" to append to a sequence; the value is parsed as a
// YAML scalar or flow collection. Later expressions win over earlier ones.
func WithOverrides(exprs ...string) Option {
	return func(opts *Options) {
		opts.Overrides = append(opts.Overrides, exprs...)
	}
}

// WithLogger sets the logger used for composition debug output.
// Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}
