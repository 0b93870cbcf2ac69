package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	c, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, uint64(10), c.Presses)
	assert.Equal(t, "hub", c.Target)
	assert.Equal(t, 2, c.Workers)
	assert.True(t, c.AssumeCounters)
	assert.Equal(t, "debug", c.LogLevel)
	// not in the file
	assert.Equal(t, DefaultConfig().Limit, c.Limit)
}

func TestLoadConfig_invalid(t *testing.T) {
	td := []struct {
		name string
		yaml string
	}{
		{"level", "log_level: loud\n"},
		{"presses", "presses: 0\n"},
		{"target", "target: \"\"\n"},
		{"syntax", "presses: [\n"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(d.yaml), 0o600))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// resetFlags puts every flag of c and its subcommands back to its default
// value and clears its changed state.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the root command with args, starting from default options.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg = DefaultConfig()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	out, err := run(t, "count", "testdata/example2.txt", "-n", "1000")
	require.NoError(t, err)
	assert.Contains(t, out, "11687500")

	out, err = run(t, "check", "testdata/example1.txt", "-n", "1000", "--expect-count", "32000000")
	require.NoError(t, err)
	assert.Contains(t, out, "32000000")
	assert.Contains(t, out, "(OK)")

	out, err = run(t, "check", "testdata/example1.txt", "-n", "1000", "--expect-count", "1")
	assert.EqualError(t, err, "check failed")
	assert.Contains(t, out, "ERROR: expected 1")

	out, err = run(t, "first", "testdata/counters.txt", "--target", "rx", "--assume-counters")
	require.NoError(t, err)
	assert.Contains(t, out, "12")

	out, err = run(t, "period", "testdata/example2.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "4")

	_, err = run(t, "count", "testdata/missing.txt")
	assert.Error(t, err)
}

func TestCommands_config(t *testing.T) {
	const conf = "testdata/config.yaml"
	td := []struct {
		name  string
		args  []string
		res   string
		debug bool
	}{
		// 10 presses: 2 periods of (17, 11) then (4, 4) and (4, 2)
		{"file", []string{"--config", conf, "count", "testdata/example2.txt"}, "1176", true},
		{"presses_flag", []string{"--config", conf, "count", "testdata/example2.txt", "-n", "1000"}, "11687500", true},
		{"log_level_flag", []string{"--config", conf, "--log-level", "error", "count", "testdata/example2.txt"}, "1176", false},
		{"file_again", []string{"--config", conf, "count", "testdata/example2.txt"}, "1176", true},
		{"no_file", []string{"count", "testdata/example2.txt"}, "11687500", false},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			out, err := run(t, d.args...)
			require.NoError(t, err)
			assert.Contains(t, out, d.res)
			if d.debug {
				assert.Contains(t, out, "level=DEBUG")
			} else {
				assert.NotContains(t, out, "level=DEBUG")
			}
		})
	}
}

func TestCommands_overflow(t *testing.T) {
	_, err := run(t, "count", "testdata/example1.txt", "-n", "4611686018427387904")
	assert.ErrorContains(t, err, "uint64 overflow")
}
