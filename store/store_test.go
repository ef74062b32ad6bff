package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xalexb/stratum/document"
	"github.com/0xalexb/stratum/store"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestDir_LoadGroupDocument(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "env", "ffsp.yaml"), "num_stage: 2\n")
	writeFile(t, filepath.Join(root, "trainer", "quick.yml"), "max_epochs: 3\n")
	writeFile(t, filepath.Join(root, "experiment.yaml"), "seed: 1\n")

	st, err := store.NewDir(root)
	require.NoError(t, err)

	doc, err := st.Load("env", "ffsp")
	require.NoError(t, err)

	n, ok := doc.Body().Lookup("num_stage")
	require.True(t, ok)

	val, _ := n.Scalar()
	assert.Equal(t, int64(2), val)

	// .yml fallback
	_, err = st.Load("trainer", "quick")
	require.NoError(t, err)

	// empty group addresses the root directory
	_, err = st.Load("", "experiment")
	require.NoError(t, err)
}

func TestDir_LoadCachesFirstParse(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fpath := filepath.Join(root, "model", "attention.yaml")
	writeFile(t, fpath, "embed_dim: 128\n")

	st, err := store.NewDir(root)
	require.NoError(t, err)

	first, err := st.Load("model", "attention")
	require.NoError(t, err)

	writeFile(t, fpath, "embed_dim: 256\n")

	second, err := st.Load("model", "attention")
	require.NoError(t, err)
	assert.Same(t, first, second, "documents parse once per store")
}

func TestDir_NotFound(t *testing.T) {
	t.Parallel()

	st, err := store.NewDir(t.TempDir())
	require.NoError(t, err)

	_, err = st.Load("model", "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "model/missing")
}

func TestDir_MalformedDocument(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "model", "bad.yaml"), "- not\n- a mapping\n")

	st, err := store.NewDir(root)
	require.NoError(t, err)

	_, err = st.Load("model", "bad")
	require.ErrorIs(t, err, document.ErrMalformed)
}

func TestNewDir_Errors(t *testing.T) {
	t.Parallel()

	_, err := store.NewDir(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	fpath := filepath.Join(t.TempDir(), "afile.yaml")
	writeFile(t, fpath, "a: 1\n")

	_, err = store.NewDir(fpath)
	require.ErrorIs(t, err, store.ErrNotDirectory)
}

func TestMap_Load(t *testing.T) {
	t.Parallel()

	st := store.NewMap(map[string]string{
		"entry":    "seed: 7\n",
		"env/ffsp": "num_stage: 4\n",
	})

	doc, err := st.Load("", "entry")
	require.NoError(t, err)

	n, ok := doc.Body().Lookup("seed")
	require.True(t, ok)

	val, _ := n.Scalar()
	assert.Equal(t, int64(7), val)

	_, err = st.Load("env", "ffsp")
	require.NoError(t, err)

	_, err = st.Load("env", "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}
