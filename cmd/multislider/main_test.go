package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmdtest"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var update = flag.Bool("update", false, "update test files with results")

func TestCLI(t *testing.T) {
	ts, err := cmdtest.Read("testdata")
	if err != nil {
		t.Fatal(err)
	}
	ts.Setup = copyFixtures(t)
	ts.Commands["multislider"] = cmdtest.InProcessProgram("multislider", Execute)
	ts.Run(t, *update)
}

// copyFixtures returns a setup function that copies testdata/files into
// each test's root directory.
func copyFixtures(t *testing.T) func(string) error {
	src, err := filepath.Abs(filepath.Join("testdata", "files"))
	require.NoError(t, err)

	return func(rootDir string) error {
		entries, err := os.ReadDir(src)
		if err != nil {
			return err
		}
		for _, e := range entries {
			data, err := os.ReadFile(filepath.Join(src, e.Name()))
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(rootDir, e.Name()), data, 0o644); err != nil {
				return err
			}
		}
		return nil
	}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestDumpJSON(t *testing.T) {
	out := execute(t, "dump", "--json", "--handles", "30,10", "--track-width", "101")

	require.True(t, gjson.Valid(out))
	assert.Equal(t, int64(1), gjson.Get(out, "version").Int())
	assert.Equal(t, 101.0, gjson.Get(out, "track_width").Float())
	assert.Equal(t, 100.0, gjson.Get(out, "config.max_limit").Float())
	assert.Equal(t, `[10,30]`, gjson.Get(out, "handles.#.value").Raw)
}

func TestDumpJSONCompact(t *testing.T) {
	out := execute(t, "dump", "--json", "--compact", "--handles", "50")

	assert.Equal(t, 1, bytes.Count([]byte(out), []byte("\n")))
	assert.Equal(t, 50.0, gjson.Get(out, "handles.0.value").Float())
}

func TestScriptDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "move.lua")
	require.NoError(t, os.WriteFile(path, []byte("slider.move(1, 42)\n"), 0o644))

	out := execute(t, "script", "--dump", "--handles", "10,90", path)
	assert.Equal(t, "1 42\n2 90\n", out)
}

func TestLoadOverrides(t *testing.T) {
	g := &globalFlags{}
	cmd := &cobra.Command{Use: "test"}
	g.register(cmd.Flags())

	require.NoError(t, cmd.ParseFlags([]string{"--log-level", "debug", "--track-width", "40"}))
	cfg, err := g.load(cmd)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 40, cfg.Track.Width)

	require.NoError(t, cmd.ParseFlags([]string{"--log-level", "loud"}))
	_, err = g.load(cmd)
	assert.ErrorContains(t, err, `invalid log level "loud"`)
}
