package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/store/jsonstore"
	"github.com/idilsaglam/tasks/internal/ui"
)

type harness struct {
	cfg    *config.Config
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		cfg: &config.Config{
			DataFile:  filepath.Join(t.TempDir(), "db.json"),
			Theme:     config.DefaultTheme,
			Color:     "never",
			LogLevel:  config.DefaultLogLevel,
			LogFormat: config.DefaultLogFormat,
		},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	ui.SetOutput(h.stdout, h.stderr)
	ui.SetColorMode("never")
	ui.SetTheme("classic")
	t.Cleanup(func() {
		ui.SetOutput(os.Stdout, os.Stderr)
		ui.SetColorMode("auto")
	})
	return h
}

func (h *harness) run(args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	return Run(args, Options{Config: h.cfg})
}

func (h *harness) file(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(h.cfg.DataFile)
	require.NoError(t, err)
	return string(b)
}

func TestAddAndComplete(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("add", "Buy", "milk"))
	assert.Contains(t, h.stdout.String(), "added Buy milk")
	assert.Equal(t, "{\n  \"Buy milk\": true\n}\n", h.file(t))

	require.Equal(t, 0, h.run("complete", "Buy milk"))
	assert.Contains(t, h.stdout.String(), "Buy milk is now complete")
	assert.Equal(t, "{\n  \"Buy milk\": false\n}\n", h.file(t))
}

func TestAddExisting(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("add", "Buy milk"))

	require.Equal(t, 0, h.run("add", "Buy milk"))
	assert.Contains(t, h.stdout.String(), "already pending")

	require.Equal(t, 0, h.run("complete", "Buy milk"))
	require.Equal(t, 0, h.run("add", "Buy milk"))
	assert.Contains(t, h.stdout.String(), "reopened Buy milk")
	assert.Equal(t, "{\n  \"Buy milk\": true\n}\n", h.file(t))
}

func TestCompleteUnknownDoesNotSave(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, 1, h.run("complete", "Nonexistent"))
	assert.Contains(t, h.stderr.String(), "'Nonexistent' is not present in the task list")
	assert.Equal(t, "", h.file(t), "fresh file stays empty when nothing was saved")
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no args", nil, 2},
		{"add without label", []string{"add"}, 2},
		{"add blank label", []string{"add", "   "}, 2},
		{"complete without label", []string{"complete"}, 2},
		{"complete blank label", []string{"complete", " "}, 2},
		{"unknown", []string{"frobnicate"}, 2},
		{"help", []string{"help"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			assert.Equal(t, tt.want, h.run(tt.args...))
		})
	}
}

func TestCorruptFileIsReportedAndKept(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(h.cfg.DataFile, []byte("{oops"), 0o644))

	assert.Equal(t, 1, h.run("add", "Buy milk"))
	assert.Contains(t, h.stderr.String(), "load: decode")
	assert.Contains(t, h.stderr.String(), "left untouched")
	assert.Equal(t, "{oops", h.file(t))
}

func TestList(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("add", "Write report"))
	require.Equal(t, 0, h.run("add", "Buy milk"))
	require.Equal(t, 0, h.run("complete", "Write report"))

	t.Run("flat", func(t *testing.T) {
		require.Equal(t, 0, h.run("ls"))
		out := h.stdout.String()
		assert.Contains(t, out, "Total 2")
		assert.Contains(t, out, "☐ Buy milk  Incomplete")
		assert.Contains(t, out, "☑ Write report  Complete")
		assert.Less(t, bytes.Index(h.stdout.Bytes(), []byte("Buy milk")), bytes.Index(h.stdout.Bytes(), []byte("Write report")))
	})

	t.Run("grouped", func(t *testing.T) {
		h.cfg.Group = true
		defer func() { h.cfg.Group = false }()

		require.Equal(t, 0, h.run("ls"))
		out := h.stdout.String()
		assert.Contains(t, out, "Pending")
		assert.Contains(t, out, "Done")
	})

	t.Run("read only", func(t *testing.T) {
		before := h.file(t)
		require.Equal(t, 0, h.run("ls"))
		assert.Equal(t, before, h.file(t))
	})
}

func TestListEmpty(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("ls"))
	assert.Contains(t, h.stdout.String(), "no tasks")
}

func TestLockOption(t *testing.T) {
	h := newHarness(t)
	h.cfg.Lock = true

	require.Equal(t, 0, h.run("add", "Buy milk"))
	_, err := os.Stat(h.cfg.LockPath())
	assert.NoError(t, err)

	// released after the first run, so a second run proceeds
	require.Equal(t, 0, h.run("complete", "Buy milk"))
}

func TestInteractiveSavesOnlyWhenChanged(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("add", "Buy milk"))
	before := h.file(t)

	unchanged := func(*jsonstore.Store) (bool, error) { return false, nil }
	code := Run([]string{"tui"}, Options{Config: h.cfg, runList: unchanged})
	require.Equal(t, 0, code)
	assert.Equal(t, before, h.file(t))

	completeAll := func(s *jsonstore.Store) (bool, error) {
		return s.Complete("Buy milk"), nil
	}
	code = Run([]string{"tui"}, Options{Config: h.cfg, runList: completeAll})
	require.Equal(t, 0, code)
	assert.Equal(t, "{\n  \"Buy milk\": false\n}\n", h.file(t))
}
