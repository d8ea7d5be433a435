package cli_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/loadcalc/internal/cli"
	"github.com/rshade/loadcalc/internal/config"
	"github.com/rshade/loadcalc/internal/factors"
	"github.com/rshade/loadcalc/internal/project"
)

// setupCLITest isolates the user and project configuration directories and
// registers cleanup for global state. It returns the user config directory.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvProjectDir, filepath.Join(t.TempDir(), ".loadcalc"))
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvCacheEnabled, "false")
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})
	return home
}

// runCLI executes the root command with args and returns the combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLIWithEnv(t, filepath.Join(t.TempDir(), "missing.env"), args...)
}

// runCLIWithEnv is runCLI with an explicit dotenv file.
func runCLIWithEnv(t *testing.T, envFile string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetIn(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--env-file", envFile}, args...))
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func office() project.ProjectState {
	s := project.CreateDefault()
	s.Name = "office"
	s.Dimensions = project.Dimensions{Length: 4, Width: 2.5, Height: 2.5}
	s.AddWall(project.WallSegment{ID: "w1", Area: 10, Material: factors.MaterialStandardBrick,
		Orientation: factors.OrientationS, SunExposure: factors.ExposureFull})
	s.AddWindow(project.WindowSegment{ID: "v1", Area: 2, GlassType: factors.GlassSinglePane,
		Protection: factors.ProtectionNone, Orientation: factors.OrientationS})
	s.Occupants = 2
	s.EquipmentLoadWatts = 300
	s.RoomVolume = 25
	return s
}

// writeProject saves s under a temp dir and returns the path.
func writeProject(t *testing.T, s project.ProjectState, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, project.Save(s, path))
	return path
}
