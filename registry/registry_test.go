package registry_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xalexb/stratum"
	"github.com/0xalexb/stratum/registry"
	"github.com/0xalexb/stratum/store"
)

type attentionModel struct {
	EmbedDim int    `yaml:"embed_dim"`
	NumHeads int    `yaml:"num_heads"`
	Norm     string `yaml:"normalization"`
}

func (m *attentionModel) SetDefaults() bool {
	if m.Norm == "" {
		m.Norm = "instance"

		return true
	}

	return false
}

func (m *attentionModel) Validate() error {
	if m.EmbedDim%m.NumHeads != 0 {
		return errors.New("embed_dim must be divisible by num_heads")
	}

	return nil
}

func composeConfig(t *testing.T, src string) *stratum.Config {
	t.Helper()

	cfg, err := stratum.New(store.NewMap(map[string]string{"run": src})).Compose("run")
	require.NoError(t, err)

	return cfg
}

func TestRegistry_RegisterGet(t *testing.T) {
	t.Parallel()

	reg := registry.New()

	factory := func(_ *stratum.Config) (any, error) { return "built", nil }
	reg.Register("attention", factory)

	_, ok := reg.Get("attention")
	assert.True(t, ok)

	_, ok = reg.Get("pointer")
	assert.False(t, ok)

	assert.Equal(t, []string{"attention"}, reg.Names())
}

func TestRegistry_MustGetPanics(t *testing.T) {
	t.Parallel()

	reg := registry.New()

	assert.Panics(t, func() { reg.MustGet("missing") })
}

func TestRegistry_Build(t *testing.T) {
	t.Parallel()

	cfg := composeConfig(t, `
model:
  _target_: attention
  embed_dim: 128
  num_heads: 8
`)

	reg := registry.New()
	reg.Register("attention", registry.Provide(func(params attentionModel) (any, error) {
		return &params, nil
	}))

	component, err := reg.Build(cfg, "model")
	require.NoError(t, err)

	model, ok := component.(*attentionModel)
	require.True(t, ok)
	assert.Equal(t, 128, model.EmbedDim)
	assert.Equal(t, 8, model.NumHeads)
	assert.Equal(t, "instance", model.Norm, "Defaulter hook should run during Provide decode")
}

func TestRegistry_Build_ValidationFailure(t *testing.T) {
	t.Parallel()

	cfg := composeConfig(t, `
model:
  _target_: attention
  embed_dim: 100
  num_heads: 8
`)

	reg := registry.New()
	reg.Register("attention", registry.Provide(func(params attentionModel) (any, error) {
		return &params, nil
	}))

	_, err := reg.Build(cfg, "model")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "divisible")
	assert.Contains(t, err.Error(), `building "attention" at model`)
}

func TestRegistry_Build_NoTarget(t *testing.T) {
	t.Parallel()

	cfg := composeConfig(t, "model:\n  embed_dim: 128\n")

	_, err := registry.New().Build(cfg, "model")
	require.ErrorIs(t, err, registry.ErrNoTarget)
}

func TestRegistry_Build_NotRegistered(t *testing.T) {
	t.Parallel()

	cfg := composeConfig(t, "model:\n  _target_: pointer\n")

	_, err := registry.New().Build(cfg, "model")
	require.ErrorIs(t, err, registry.ErrNotRegistered)
	assert.Contains(t, err.Error(), "pointer")
}

func TestRegistry_Build_DeferredTarget(t *testing.T) {
	t.Parallel()

	cfg := composeConfig(t, "model:\n  _target_: ???\n")

	_, err := registry.New().Build(cfg, "model")
	require.ErrorIs(t, err, stratum.ErrDeferred)
}

func TestRegistry_Build_MissingSection(t *testing.T) {
	t.Parallel()

	cfg := composeConfig(t, "a: 1\n")

	_, err := registry.New().Build(cfg, "model")
	require.ErrorIs(t, err, stratum.ErrPathNotFound)
}

func TestRegistry_Build_DeferredParam(t *testing.T) {
	t.Parallel()

	cfg := composeConfig(t, `
model:
  _target_: attention
  embed_dim: ???
  num_heads: 8
`)

	reg := registry.New()
	reg.Register("attention", registry.Provide(func(params attentionModel) (any, error) {
		return &params, nil
	}))

	_, err := reg.Build(cfg, "model")
	require.ErrorIs(t, err, stratum.ErrDeferred)
	assert.Contains(t, err.Error(), "embed_dim")
}
