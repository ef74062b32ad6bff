package stratum

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithOverrides_Appends(t *testing.T) {
	t.Parallel()

	var options Options

	WithOverrides("a=1", "b=2")(&options)
	WithOverrides("c=3")(&options)

	assert.Equal(t, []string{"a=1", "b=2", "c=3"}, options.Overrides)
}

func TestWithLogger(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var options Options

	WithLogger(logger)(&options)

	assert.Same(t, logger, options.Logger)
}

func TestSplitRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		entry     string
		wantGroup string
		wantName  string
	}{
		{entry: "ffsp_base", wantGroup: "", wantName: "ffsp_base"},
		{entry: "experiment/ffsp", wantGroup: "experiment", wantName: "ffsp"},
		{entry: "a/b/c", wantGroup: "a/b", wantName: "c"},
	}

	for _, testInfo := range tests {
		testInfo := testInfo
		t.Run(testInfo.entry, func(t *testing.T) {
			t.Parallel()

			group, name := splitRef(testInfo.entry)
			assert.Equal(t, testInfo.wantGroup, group)
			assert.Equal(t, testInfo.wantName, name)
		})
	}
}
