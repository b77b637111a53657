package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/refimport/pkg/errors"
)

// isolate runs the test in an empty working and home directory so that no
// real config or .env file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	t.Setenv("USERPROFILE", dir)
	for _, key := range []string{"LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT", "REFIMPORT_FILTER", "REFIMPORT_PATTERN", "REFIMPORT_MANAGED_ONLY"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "*.dll", config.Pattern)
	assert.Equal(t, ".bak", config.BackupSuffix)
	assert.True(t, config.ManagedOnly)
	assert.Empty(t, config.Filter)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Equal(t, "stderr", config.LogOutput)
	assert.Empty(t, config.ConfigFile)
}

func TestLoadConfigEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("REFIMPORT_FILTER", "Contoso.")
	t.Setenv("REFIMPORT_MANAGED_ONLY", "false")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "Contoso.", config.Filter)
	assert.False(t, config.ManagedOnly)
	assert.Equal(t, "debug", config.EnvLogLevel)
	assert.Empty(t, config.LogLevel, "LOG_LEVEL must not masquerade as --log-level")
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filter: Fabrikam\npattern: \"*.exe\"\nlog:\n  level: warn\n"), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Fabrikam", config.Filter)
	assert.Equal(t, "*.exe", config.Pattern)
	assert.Equal(t, "warn", config.EnvLogLevel)
	assert.Equal(t, path, config.ConfigFile)
}

func TestLoadConfigSearchesWorkingDirectory(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".refimport.yaml"), []byte("backup_suffix: .orig\n"), 0o644))

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ".orig", config.BackupSuffix)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REFIMPORT_PATTERN=*.so\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("REFIMPORT_PATTERN") })

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "*.so", config.Pattern)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	var configErr *errors.ConfigError
	assert.True(t, errors.As(err, &configErr))
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", EnvLogLevel: "debug"}

	config.UpdateFromFlags(true, false, true, "", "")
	assert.True(t, config.Verbose)
	assert.True(t, config.NoColor)
	assert.Equal(t, "yaml", config.Format, "empty flag keeps configured format")
	assert.Empty(t, config.LogLevel)

	config.UpdateFromFlags(false, false, false, "json", "trace")
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "trace", config.LogLevel)
	assert.True(t, config.Verbose, "flags only switch shortcuts on")
}
