package trainer

import (
	"context"
	"errors"
	"log/slog"

	"go.uber.org/fx"

	"github.com/0xalexb/stratum"
	"github.com/0xalexb/stratum/registry"
	"github.com/0xalexb/stratum/store"
)

// ErrEmptyEntry is returned when NewModule is created without an entry
// document reference.
var ErrEmptyEntry = errors.New("entry document reference must not be empty")

// ModuleOptions holds configuration settings for the trainer Fx module.
type ModuleOptions struct {
	ComposeOptions []stratum.Option
	Registry       *registry.Registry
	TrainerOptions []TrainerOption
}

// ModuleOption defines a function type for configuring the trainer module.
type ModuleOption func(*ModuleOptions)

// WithComposeOptions passes options (runtime overrides, logger) through to
// the composer.
func WithComposeOptions(opts ...stratum.Option) ModuleOption {
	return func(m *ModuleOptions) {
		m.ComposeOptions = append(m.ComposeOptions, opts...)
	}
}

// WithRegistry supplies the _target_ registry used to build components.
func WithRegistry(reg *registry.Registry) ModuleOption {
	return func(m *ModuleOptions) {
		m.Registry = reg
	}
}

// WithTrainerOptions passes options through to the Trainer.
func WithTrainerOptions(opts ...TrainerOption) ModuleOption {
	return func(m *ModuleOptions) {
		m.TrainerOptions = append(m.TrainerOptions, opts...)
	}
}

// NewModule creates an Fx module that composes the entry document from st,
// materializes a Run, and executes it under the Fx lifecycle. The
// application shuts itself down when the run finishes; a failed run exits
// with a non-zero code.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(st store.Store, entry string, opts ...ModuleOption) fx.Option {
	if entry == "" {
		return fx.Error(ErrEmptyEntry)
	}

	var options ModuleOptions

	for _, apply := range opts {
		apply(&options)
	}

	return fx.Module("trainer",
		fx.Provide(func() (*stratum.Config, error) {
			return stratum.New(st, options.ComposeOptions...).Compose(entry)
		}),
		fx.Provide(func(cfg *stratum.Config) (*Run, error) {
			return NewRun(cfg, options.Registry)
		}),
		fx.Invoke(func(lifecycle fx.Lifecycle, shutdowner fx.Shutdowner, run *Run) {
			trainer := NewTrainer(run, options.TrainerOptions...)

			lifecycle.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						exitCode := 0

						if err := trainer.Run(context.Background()); err != nil {
							slog.Error("training failed", slog.String("run_id", run.ID), slog.Any("error", err))

							exitCode = 1
						}

						if err := shutdowner.Shutdown(fx.ExitCode(exitCode)); err != nil {
							slog.Error("failed to trigger shutdown", slog.Any("error", err))
						}
					}()

					return nil
				},
				OnStop: func(_ context.Context) error {
					return nil
				},
			})
		}),
	)
}
