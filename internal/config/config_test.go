package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "spccli/internal/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"SPC_INPUT_PATH", "SPC_INPUT_SHEET",
		"SPC_OUTPUT_DIR", "SPC_OUTPUT_TIMESTAMPED",
		"SPC_ANALYSIS_ALPHA", "SPC_ANALYSIS_CONFIDENCE", "SPC_ANALYSIS_WELCH",
		"SPC_LOGGING_LEVEL", "SPC_LOGGING_FORMAT", "SPC_LOGGING_OUTPUT", "SPC_LOGGING_FILE_PATH",
	} {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data/defects.xlsx", cfg.Input.Path)
	assert.Equal(t, "outputs", cfg.Output.Dir)
	assert.True(t, cfg.Output.Timestamped)
	assert.Equal(t, 0.05, cfg.Analysis.Alpha)
	assert.Equal(t, 0.95, cfg.Analysis.Confidence)
	assert.False(t, cfg.Analysis.Welch)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
input:
  path: plant7/defects.xlsx
  sheet: March
analysis:
  alpha: 0.01
  welch: true
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "plant7/defects.xlsx", cfg.Input.Path)
	assert.Equal(t, "March", cfg.Input.Sheet)
	assert.Equal(t, 0.01, cfg.Analysis.Alpha)
	assert.True(t, cfg.Analysis.Welch)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults
	assert.Equal(t, "outputs", cfg.Output.Dir)
	assert.Equal(t, 0.95, cfg.Analysis.Confidence)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis:\n  alpha: 0.01\n"), 0644))

	t.Setenv("SPC_ANALYSIS_ALPHA", "0.10")
	t.Setenv("SPC_OUTPUT_DIR", "env-outputs")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.10, cfg.Analysis.Alpha)
	assert.Equal(t, "env-outputs", cfg.Output.Dir)
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "data/defects.xlsx", cfg.Input.Path)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}, ok: true},
		{name: "alpha zero", mutate: func(c *Config) { c.Analysis.Alpha = 0 }, ok: false},
		{name: "alpha one", mutate: func(c *Config) { c.Analysis.Alpha = 1 }, ok: false},
		{name: "confidence negative", mutate: func(c *Config) { c.Analysis.Confidence = -0.5 }, ok: false},
		{name: "empty input path", mutate: func(c *Config) { c.Input.Path = "" }, ok: false},
		{name: "empty output dir", mutate: func(c *Config) { c.Output.Dir = "" }, ok: false},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, ok: false},
		{name: "bad log output", mutate: func(c *Config) { c.Logging.Output = "syslog" }, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
			}
		})
	}
}
