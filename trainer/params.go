package trainer

import (
	"errors"
	"fmt"
)

// ErrBadParams is returned when a trainer section fails validation.
var ErrBadParams = errors.New("bad trainer parameters")

// Params holds the trainer section of a resolved configuration.
// It implements the stratum Defaulter and Validator interfaces.
type Params struct {
	MaxEpochs       int     `yaml:"max_epochs"`
	GradientClipVal float64 `yaml:"gradient_clip_val"`
	Precision       string  `yaml:"precision"`
	Seed            int64   `yaml:"seed"`
	LogEveryNSteps  int     `yaml:"log_every_n_steps"`
	CheckpointDir   string  `yaml:"checkpoint_dir"`
}

// SetDefaults sets default values for unset fields.
func (p *Params) SetDefaults() bool {
	changed := false

	if p.MaxEpochs == 0 {
		p.MaxEpochs = 1
		changed = true
	}

	if p.Precision == "" {
		p.Precision = "32"
		changed = true
	}

	if p.LogEveryNSteps == 0 {
		p.LogEveryNSteps = 50
		changed = true
	}

	return changed
}

// Validate validates the parameters.
func (p *Params) Validate() error {
	if p.MaxEpochs < 1 {
		return fmt.Errorf("%w: max_epochs must be positive, got %d", ErrBadParams, p.MaxEpochs)
	}

	if p.GradientClipVal < 0 {
		return fmt.Errorf("%w: gradient_clip_val must not be negative, got %g", ErrBadParams, p.GradientClipVal)
	}

	switch p.Precision {
	case "16", "32", "64", "bf16":
	default:
		return fmt.Errorf("%w: unknown precision %q", ErrBadParams, p.Precision)
	}

	if p.LogEveryNSteps < 1 {
		return fmt.Errorf("%w: log_every_n_steps must be positive, got %d", ErrBadParams, p.LogEveryNSteps)
	}

	return nil
}

// Meta holds experiment logging metadata from the logger section.
type Meta struct {
	Project string   `yaml:"project"`
	Name    string   `yaml:"name"`
	Group   string   `yaml:"group"`
	Tags    []string `yaml:"tags"`
}
