package trainer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/0xalexb/stratum"
	"github.com/0xalexb/stratum/registry"
)

// Run is a fully materialized training run: decoded parameters, experiment
// metadata, and the components built from the configuration's _target_
// sections.
type Run struct {
	// ID uniquely identifies the run in experiment logs.
	ID string
	// StartedAt is when the run was materialized.
	StartedAt time.Time

	Params Params
	Meta   Meta

	// Model and Env are the instantiated components, or nil when no
	// registry was supplied or the section is absent.
	Model any
	Env   any

	// Config is the resolved configuration the run was built from.
	Config *stratum.Config
}

// NewRun materializes a run from a resolved configuration. The trainer
// section decodes into Params (with defaults and validation); the logger
// section, when present, supplies experiment metadata; the model and env
// sections instantiate through reg when one is given. Any deferred (???)
// value in what gets read fails here with the offending path.
func NewRun(cfg *stratum.Config, reg *registry.Registry) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Config:    cfg,
	}

	if err := cfg.Decode("trainer", &run.Params); err != nil {
		return nil, fmt.Errorf("trainer section: %w", err)
	}

	if cfg.Has("logger") {
		if err := cfg.Decode("logger", &run.Meta); err != nil {
			return nil, fmt.Errorf("logger section: %w", err)
		}
	}

	if run.Meta.Name == "" {
		run.Meta.Name = run.ID
	}

	if reg != nil {
		if cfg.Has("model") {
			model, err := reg.Build(cfg, "model")
			if err != nil {
				return nil, err
			}

			run.Model = model
		}

		if cfg.Has("env") {
			env, err := reg.Build(cfg, "env")
			if err != nil {
				return nil, err
			}

			run.Env = env
		}
	}

	return run, nil
}

// TrainFunc executes the actual training loop for a materialized run.
type TrainFunc func(ctx context.Context, run *Run) error

// Trainer supervises the execution of one run.
type Trainer struct {
	run    *Run
	fn     TrainFunc
	logger *slog.Logger
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// WithTrainFunc sets the function that executes the training loop. Without
// one, Run only logs the materialized configuration.
func WithTrainFunc(fn TrainFunc) TrainerOption {
	return func(t *Trainer) {
		t.fn = fn
	}
}

// WithLogger sets the trainer's logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) TrainerOption {
	return func(t *Trainer) {
		t.logger = logger
	}
}

// NewTrainer creates a Trainer for a materialized run.
func NewTrainer(run *Run, opts ...TrainerOption) *Trainer {
	t := &Trainer{run: run}

	for _, apply := range opts {
		apply(t)
	}

	if t.logger == nil {
		t.logger = slog.Default()
	}

	return t
}

// Run executes the training function under the given context.
func (t *Trainer) Run(ctx context.Context) error {
	t.logger.Info("run starting",
		slog.String("run_id", t.run.ID),
		slog.String("project", t.run.Meta.Project),
		slog.String("name", t.run.Meta.Name),
		slog.Int("max_epochs", t.run.Params.MaxEpochs),
		slog.String("precision", t.run.Params.Precision),
	)

	if t.fn != nil {
		if err := t.fn(ctx, t.run); err != nil {
			return fmt.Errorf("training run %s: %w", t.run.ID, err)
		}
	}

	t.logger.Info("run finished", slog.String("run_id", t.run.ID))

	return nil
}
