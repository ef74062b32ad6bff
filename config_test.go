package stratum_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xalexb/stratum"
	"github.com/0xalexb/stratum/store"
)

func testConfig(t *testing.T) *stratum.Config {
	t.Helper()

	sources := map[string]string{
		"run": `
env:
  num_stage: 2
  scaling: 0.5
  enabled: true
  name: ffsp
  tags: [a, b]
trainer:
  checkpoint_dir: ???
`,
	}

	return compose(t, sources, "run")
}

func TestConfig_TypedGetters(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)

	stages, err := cfg.Int("env.num_stage")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stages)

	scaling, err := cfg.Float("env.scaling")
	require.NoError(t, err)
	assert.Equal(t, 0.5, scaling)

	// ints convert to float
	asFloat, err := cfg.Float("env.num_stage")
	require.NoError(t, err)
	assert.Equal(t, 2.0, asFloat)

	enabled, err := cfg.Bool("env.enabled")
	require.NoError(t, err)
	assert.True(t, enabled)

	name, err := cfg.String("env.name")
	require.NoError(t, err)
	assert.Equal(t, "ffsp", name)

	tags, err := cfg.Strings("env.tags")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tags)
}

func TestConfig_TypeMismatches(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)

	_, err := cfg.Int("env.name")
	require.Error(t, err)

	_, err = cfg.String("env.num_stage")
	require.Error(t, err)

	_, err = cfg.Bool("env.scaling")
	require.Error(t, err)

	_, err = cfg.Strings("env.name")
	require.Error(t, err)

	_, err = cfg.Float("env.name")
	require.Error(t, err)

	_, err = cfg.String("env")
	require.Error(t, err)
}

func TestConfig_PathNotFound(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)

	_, err := cfg.Get("env.missing")
	require.ErrorIs(t, err, stratum.ErrPathNotFound)

	_, err = cfg.Int("also.missing")
	require.ErrorIs(t, err, stratum.ErrPathNotFound)

	assert.False(t, cfg.Has("env.missing"))
	assert.True(t, cfg.Has("env.num_stage"))
	assert.True(t, cfg.Has("trainer.checkpoint_dir"), "deferred values exist")
}

func TestConfig_DeferredReads(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)

	_, err := cfg.String("trainer.checkpoint_dir")
	require.ErrorIs(t, err, stratum.ErrDeferred)
	assert.Contains(t, err.Error(), "trainer.checkpoint_dir")

	// a subtree read finds the deferred leaf
	_, err = cfg.Get("trainer")
	require.ErrorIs(t, err, stratum.ErrDeferred)
	assert.Contains(t, err.Error(), "trainer.checkpoint_dir")

	_, err = cfg.Get("")
	require.ErrorIs(t, err, stratum.ErrDeferred)

	assert.Equal(t, []string{"trainer.checkpoint_dir"}, cfg.Deferred())
}

func TestConfig_Sub(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)

	env, err := cfg.Sub("env")
	require.NoError(t, err)

	stages, err := env.Int("num_stage")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stages)

	_, err = cfg.Sub("env.name")
	require.Error(t, err)

	_, err = cfg.Sub("missing")
	require.ErrorIs(t, err, stratum.ErrPathNotFound)
}

func TestConfig_DumpRendersDeferred(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)

	data, err := cfg.Dump()
	require.NoError(t, err)
	assert.Contains(t, string(data), "???")
}

type trainerSection struct {
	MaxEpochs int    `yaml:"max_epochs"`
	Precision string `yaml:"precision"`

	validateErr error
}

func (s *trainerSection) SetDefaults() bool {
	if s.Precision == "" {
		s.Precision = "32"

		return true
	}

	return false
}

func (s *trainerSection) Validate() error {
	return s.validateErr
}

func TestConfig_Decode(t *testing.T) {
	t.Parallel()

	cfg := compose(t, map[string]string{"run": "trainer:\n  max_epochs: 7\n"}, "run")

	var section trainerSection

	require.NoError(t, cfg.Decode("trainer", &section))
	assert.Equal(t, 7, section.MaxEpochs)
	assert.Equal(t, "32", section.Precision, "Defaulter hook should run")
}

func TestConfig_Decode_ValidatorFailure(t *testing.T) {
	t.Parallel()

	cfg := compose(t, map[string]string{"run": "trainer:\n  max_epochs: 7\n"}, "run")

	section := trainerSection{validateErr: errors.New("bad precision")}

	err := cfg.Decode("trainer", &section)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad precision")
}

func TestConfig_Decode_DeferredFails(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)

	var section struct {
		CheckpointDir string `yaml:"checkpoint_dir"`
	}

	err := cfg.Decode("trainer", &section)
	require.ErrorIs(t, err, stratum.ErrDeferred)
	assert.Contains(t, err.Error(), "trainer.checkpoint_dir")
}

func TestConfig_Decode_WholeTree(t *testing.T) {
	t.Parallel()

	cfg := compose(t, map[string]string{"run": "seed: 3\n"}, "run")

	var target struct {
		Seed int `yaml:"seed"`
	}

	require.NoError(t, cfg.Decode("", &target))
	assert.Equal(t, 3, target.Seed)
}

func TestConfig_Decode_MissingPath(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)

	var target struct{}

	err := cfg.Decode("nothing.here", &target)
	require.ErrorIs(t, err, stratum.ErrPathNotFound)
}

func TestConfig_ConcurrentReads(t *testing.T) {
	t.Parallel()

	cfg := compose(t, map[string]string{"run": "a: 1\nb: two\n"}, "run")

	done := make(chan struct{})

	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()

			for j := 0; j < 100; j++ {
				_, _ = cfg.Int("a")
				_, _ = cfg.String("b")
				_, _ = cfg.Get("")
			}
		}()
	}

	for i := 0; i < 8; i++ {
		<-done
	}
}

func TestComposerUsesMapStore(t *testing.T) {
	t.Parallel()

	st := store.NewMap(map[string]string{"run": "a: 1\n"})

	cfg, err := stratum.New(st).Compose("run")
	require.NoError(t, err)

	val, err := cfg.Int("a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), val)
}
