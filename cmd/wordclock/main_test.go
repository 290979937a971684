package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-wordclock/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestShow(t *testing.T) {
	out, err := execute(t, "show", "--time", "13:07", "--mode", "3")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 17)
	assert.Equal(t, "ES IST SIEBEN DREI ZEHN UHR", lines[16])
	assert.True(t, strings.HasPrefix(lines[0], "ES·IST"))

	out, err = execute(t, "show", "--temperature", "45")
	require.NoError(t, err)
	assert.Contains(t, out, "ES IST ZWEI UND ZWANZIG KOMMA FÜNF GRAD")

	_, err = execute(t, "show", "--time", "25:00")
	assert.Error(t, err)
	_, err = execute(t, "show", "--mode", "9")
	assert.Error(t, err)
}

func TestTables(t *testing.T) {
	out, err := execute(t, "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "8 modes")
	assert.Contains(t, out, "ES IST VIERTEL ZWEI")
	assert.Contains(t, out, "TEMPERATUR")
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.Default()
	cfg.FPS = 25
	cfg.Display.Animation = "roll"
	require.NoError(t, config.Save(path, cfg))

	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--animation", "explode", "--addr", ":9000"}))
	got, err := loadConfig(path, cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, 25, got.FPS)
	assert.Equal(t, "explode", got.Display.Animation)
	assert.Equal(t, ":9000", got.Addr)

	missing, err := loadConfig(filepath.Join(t.TempDir(), "none.yaml"), cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, config.Default().FPS, missing.FPS)

	require.NoError(t, cmd.ParseFlags([]string{"--driver", "pwm"}))
	_, err = loadConfig(path, cmd.Flags())
	assert.Error(t, err)
	_ = os.Remove(path)
}
