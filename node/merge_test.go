package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFromAny(t *testing.T, v any) *Node {
	t.Helper()

	n, err := FromAny(v)
	require.NoError(t, err)

	return n
}

func TestMerge_MappingsUnion(t *testing.T) {
	t.Parallel()

	dst := mustFromAny(t, map[string]any{
		"trainer": map[string]any{"max_epochs": 10, "precision": "32"},
		"seed":    1,
	})
	src := mustFromAny(t, map[string]any{
		"trainer": map[string]any{"max_epochs": 50},
	})

	merged := Merge(dst, src)

	want := mustFromAny(t, map[string]any{
		"trainer": map[string]any{"max_epochs": 50, "precision": "32"},
		"seed":    1,
	})
	assert.True(t, merged.Equal(want))
}

func TestMerge_SequencesReplacedWholesale(t *testing.T) {
	t.Parallel()

	dst := mustFromAny(t, map[string]any{"tags": []any{"a", "b", "c"}})
	src := mustFromAny(t, map[string]any{"tags": []any{"x"}})

	merged := Merge(dst, src)

	tags, ok := merged.Lookup("tags")
	require.True(t, ok)
	assert.Equal(t, 1, tags.Len(), "sequences must never concatenate on merge")
}

func TestMerge_ScalarOverMapping(t *testing.T) {
	t.Parallel()

	dst := mustFromAny(t, map[string]any{"logger": map[string]any{"project": "x"}})
	src := mustFromAny(t, map[string]any{"logger": nil})

	merged := Merge(dst, src)

	logger, ok := merged.Lookup("logger")
	require.True(t, ok)
	assert.Equal(t, KindNull, logger.Kind())
}

func TestMerge_InputsUntouched(t *testing.T) {
	t.Parallel()

	dst := mustFromAny(t, map[string]any{"a": map[string]any{"b": 1}})
	src := mustFromAny(t, map[string]any{"a": map[string]any{"c": 2}})

	dstBefore := dst.Clone()
	srcBefore := src.Clone()

	merged := Merge(dst, src)
	require.NoError(t, merged.SetPath("a.b", NewInt(99)))

	assert.True(t, dst.Equal(dstBefore))
	assert.True(t, src.Equal(srcBefore))
}

func TestMerge_NilOperands(t *testing.T) {
	t.Parallel()

	n := mustFromAny(t, map[string]any{"a": 1})

	assert.True(t, Merge(nil, n).Equal(n))
	assert.True(t, Merge(n, nil).Equal(n))
	assert.Nil(t, Merge(nil, nil))
}

func TestMerge_DeferredOverwritten(t *testing.T) {
	t.Parallel()

	dst := mustFromAny(t, map[string]any{"ckpt": "???"})
	src := mustFromAny(t, map[string]any{"ckpt": "/tmp/run"})

	merged := Merge(dst, src)

	ckpt, _ := merged.Lookup("ckpt")
	val, _ := ckpt.Scalar()
	assert.Equal(t, "/tmp/run", val)
}
