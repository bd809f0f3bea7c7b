package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "spccli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Input    InputConfig    `yaml:"input" envconfig:"INPUT"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig locates the source workbook
type InputConfig struct {
	Path  string `yaml:"path"`
	Sheet string `yaml:"sheet" envconfig:"SHEET"`
}

// OutputConfig controls where report artifacts are written
type OutputConfig struct {
	Dir         string `yaml:"dir" envconfig:"DIR"`
	Timestamped bool   `yaml:"timestamped" envconfig:"TIMESTAMPED"`
}

// AnalysisConfig contains the statistical parameters
type AnalysisConfig struct {
	// Alpha is the significance threshold for the shift comparison
	Alpha float64 `yaml:"alpha" envconfig:"ALPHA"`
	// Confidence is the confidence level for the mean defect rate interval
	Confidence float64 `yaml:"confidence" envconfig:"CONFIDENCE"`
	// Welch selects the unequal-variance t-test instead of the pooled one
	Welch bool `yaml:"welch" envconfig:"WELCH"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path: "data/defects.xlsx",
		},
		Output: OutputConfig{
			Dir:         "outputs",
			Timestamped: true,
		},
		Analysis: AnalysisConfig{
			Alpha:      0.05,
			Confidence: 0.95,
			Welch:      false,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/defect-report.log",
		},
	}
}

// Load builds the configuration in three layers: defaults, then the YAML
// file at path (skipped when the file does not exist), then SPC_* environment
// variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := loadFromFile(path, cfg); err != nil {
				return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config file %s", path), err)
			}
		} else if !os.IsNotExist(err) {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to stat config file %s", path), err)
		}
	}

	if err := envconfig.Process("SPC", cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from environment", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return apperrors.NewConfigError("input path must not be empty", nil)
	}
	if c.Output.Dir == "" {
		return apperrors.NewConfigError("output dir must not be empty", nil)
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return apperrors.NewConfigError(
			fmt.Sprintf("alpha must be in (0, 1), got %g", c.Analysis.Alpha), nil)
	}
	if c.Analysis.Confidence <= 0 || c.Analysis.Confidence >= 1 {
		return apperrors.NewConfigError(
			fmt.Sprintf("confidence must be in (0, 1), got %g", c.Analysis.Confidence), nil)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return apperrors.NewConfigError(
			fmt.Sprintf("unknown log level %q", c.Logging.Level), nil)
	}

	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		return apperrors.NewConfigError(
			fmt.Sprintf("unknown log output %q", c.Logging.Output), nil)
	}

	return nil
}

// EnsureOutputDir creates the artifact directory if needed
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return apperrors.NewConfigError(
			fmt.Sprintf("failed to create output directory %s", c.Output.Dir), err)
	}
	return nil
}
