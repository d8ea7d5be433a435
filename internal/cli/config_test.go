package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/loadcalc/internal/cli"
	"github.com/rshade/loadcalc/internal/config"
)

func TestConfigInit_Project(t *testing.T) {
	setupCLITest(t)
	projectDir := filepath.Join(t.TempDir(), ".loadcalc")
	t.Setenv(config.EnvProjectDir, projectDir)

	out, err := runCLI(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at")

	_, err = os.Stat(filepath.Join(projectDir, "config.yaml"))
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(projectDir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, config.GitignoreContent(), string(data))

	_, err = runCLI(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestConfigInit_ExistingGitignorePreserved(t *testing.T) {
	setupCLITest(t)
	projectDir := filepath.Join(t.TempDir(), ".loadcalc")
	require.NoError(t, os.MkdirAll(projectDir, 0o700))
	custom := "# mine\n"
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, ".gitignore"), []byte(custom), 0o600))
	t.Setenv(config.EnvProjectDir, projectDir)

	_, err := runCLI(t, "config", "init", "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(projectDir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestConfigInit_Global(t *testing.T) {
	home := setupCLITest(t)

	out, err := runCLI(t, "config", "init", "--global")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file: "+filepath.Join(home, "config.yaml"))

	_, err = os.Stat(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(home, "cache"))
	require.NoError(t, err)

	_, err = runCLI(t, "config", "init", "--global", "--local")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestConfigValidate(t *testing.T) {
	setupCLITest(t)

	out, err := runCLI(t, "config", "validate", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "Factor tables: built-in")
	assert.Contains(t, out, "Cache: disabled")

	t.Setenv(config.EnvTiePolicy, "sideways")
	_, err = runCLI(t, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestConfigValidate_ProjectOverlay(t *testing.T) {
	setupCLITest(t)
	projectDir := filepath.Join(t.TempDir(), ".loadcalc")
	require.NoError(t, os.MkdirAll(projectDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"),
		[]byte("output:\n  default_format: json\n  locale: es\n"), 0o600))
	t.Setenv(config.EnvProjectDir, projectDir)

	out, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "default_format: json")
	assert.Contains(t, out, "locale: es")

	out, err = runCLI(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "project: "+projectDir)
}

func TestConfigPath(t *testing.T) {
	home := setupCLITest(t)

	out, err := runCLI(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "user:    "+filepath.Join(home, "config.yaml"))
}

func TestDotEnvFile(t *testing.T) {
	setupCLITest(t)
	t.Setenv(config.EnvLocale, "")
	os.Unsetenv(config.EnvLocale) //nolint:errcheck // godotenv only fills unset variables.

	env := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(env, []byte("LOADCALC_LOCALE=es\n"), 0o600))

	out, err := runCLIWithEnv(t, env, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "locale: es")
}

func TestCache_Disabled(t *testing.T) {
	setupCLITest(t)

	for _, sub := range []string{"stats", "clear", "prune"} {
		t.Run(sub, func(t *testing.T) {
			_, err := runCLI(t, "cache", sub)
			require.ErrorIs(t, err, cli.ErrCacheDisabled)
		})
	}
}

func TestCache_Enabled(t *testing.T) {
	setupCLITest(t)
	cacheDir := filepath.Join(t.TempDir(), "cache")
	t.Setenv(config.EnvCacheEnabled, "true")
	t.Setenv(config.EnvCacheDir, cacheDir)

	path := writeProject(t, office(), "office.yaml")
	_, err := runCLI(t, "calc", path)
	require.NoError(t, err)

	out, err := runCLI(t, "cache", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Directory: "+cacheDir)
	assert.Contains(t, out, "Entries:   1")

	out, err = runCLI(t, "cache", "prune")
	require.NoError(t, err)
	assert.Contains(t, out, "Pruned 0")

	out, err = runCLI(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1")

	out, err = runCLI(t, "cache", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries:   0")
}
