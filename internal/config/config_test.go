package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(FilePath(dir), []byte(`max_threads: 8
timeout: 90s
validator:
  auto_update: false
output:
  keep_checker_output: true
`), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxThreads)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.False(t, cfg.Validator.AutoUpdate)
	assert.True(t, cfg.Output.KeepCheckerOutput)
	assert.Equal(t, DefaultSpecVersion, cfg.Validator.SpecVersion)
	assert.Equal(t, "fut-results", cfg.Output.Dir)
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(FilePath(dir), []byte("max_threads: [1"), 0o600))

	_, err := LoadConfig(dir)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "parse", cfgErr.ErrorType)
	assert.Contains(t, cfgErr.DetailedError(), "Suggestions")
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(FilePath(dir), []byte("max_threads: 0\n"), 0o600))

	_, err := LoadConfig(dir)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, ErrorTypeValidation, cfgErr.ErrorType)
	assert.Contains(t, err.Error(), "max_threads")

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "max_threads", verrs[0].Field)
	assert.Equal(t, 0, verrs[0].Value)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fut")
	cfg := GetDefaultConfig()
	cfg.Timeout = 2 * time.Minute
	cfg.Validator.Path = "/opt/validator_cli.jar"

	require.NoError(t, SaveConfig(dir, cfg))
	loaded, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGetAndSet(t *testing.T) {
	cfg := GetDefaultConfig()

	v, err := Get(cfg, "validator.auto_update")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	updated, err := Set(cfg, "max_threads", "12")
	require.NoError(t, err)
	assert.Equal(t, 12, updated.MaxThreads)
	assert.Equal(t, DefaultMaxThreads, cfg.MaxThreads)

	updated, err = Set(updated, "timeout", "45s")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, updated.Timeout)

	updated, err = Set(updated, "output.keep_checker_output", "true")
	require.NoError(t, err)
	assert.True(t, updated.Output.KeepCheckerOutput)

	_, err = Set(cfg, "max_threads", "0")
	assert.Error(t, err)

	_, err = Set(cfg, "max_threads", "many")
	assert.Error(t, err)

	_, err = Get(cfg, "nope")
	assert.Error(t, err)

	_, err = Get(cfg, "validator")
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "max_threads")
	assert.Contains(t, keys, "validator.spec_version")
	assert.Contains(t, keys, "output.history_path")
	assert.NotContains(t, keys, "validator")
}

func TestJarPath(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.Equal(t, filepath.Join("/home/u/.config/fut", "validator_cli.jar"), cfg.JarPath("/home/u/.config/fut"))

	cfg.Validator.Path = "/opt/v.jar"
	assert.Equal(t, "/opt/v.jar", cfg.JarPath("/home/u/.config/fut"))
}
