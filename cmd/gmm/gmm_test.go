package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blobs = "testdata/blobs.csv"

func execute(args ...string) error {
	cmd := rootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

// storedRun returns the run id of the single run stored for the given mode.
func storedRun(t *testing.T, dir, mode string) string {
	files, err := os.ReadDir(filepath.Join(dir, table, mode))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	run := strings.Split(files[0].Name(), "_")[0]
	for _, f := range files {
		assert.True(t, strings.HasPrefix(f.Name(), run))
	}
	return run
}

func TestFitAndPredict(t *testing.T) {

	type test struct {
		args []string
		mode string
	}

	tests := map[string]test{
		"unsupervised": {
			mode: "unsupervised",
		},
		"semi-supervised": {
			args: []string{"--semi", "--alpha", "5"},
			mode: "semi-supervised",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()

			args := append([]string{"fit", "--data", blobs, "--storage", dir, "--k", "2", "--trials", "2"}, tt.args...)
			require.NoError(t, execute(args...))

			run := storedRun(t, dir, tt.mode)
			_, err := os.Stat(filepath.Join(dir, table, tt.mode, run+"_1_model.json"))
			require.NoError(t, err)

			args = []string{"predict", "--data", blobs, "--storage", dir, "--run", run, "--trial", "1"}
			if tt.mode == "semi-supervised" {
				args = append(args, "--semi")
			}
			assert.NoError(t, execute(args...))
		})
	}
}

func TestPredictMissingRun(t *testing.T) {
	err := execute("predict", "--data", blobs, "--storage", t.TempDir(), "--run", "missing")
	assert.Error(t, err)
}

func TestFitInvalidInput(t *testing.T) {

	tests := map[string][]string{
		"missing-data": {"fit", "--storage", "unused"},
		"no-file":      {"fit", "--data", "testdata/missing.csv", "--storage", "unused"},
		"invalid-k":    {"fit", "--data", blobs, "--storage", "unused", "--k", "-1"},
		"config":       {"fit", "--data", blobs, "--storage", "unused", "--config", "testdata/missing.yaml"},
		"init":         {"fit", "--data", blobs, "--storage", "unused", "--init", "forest"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, execute(args...))
		})
	}
}
