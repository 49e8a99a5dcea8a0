// =============================================================================
// Payment Interval Analyzer - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Values are resolved in
// increasing order of precedence:
//   1. Built-in defaults
//   2. The YAML configuration file (optional, default config.yaml)
//   3. Environment variables prefixed INTERVAL_ (a .env file is honored)
//   4. Command flags (applied by the cmd package)
//
// EXAMPLE config.yaml:
//   input:
//     delimiter: ","
//   analysis:
//     from_status: 2
//     to_status: 8
//     slow_threshold_seconds: 10
//   output:
//     dir: ./output
//     file_name_format: payment_intervals_{timestamp}.csv
//     format: csv
//   log_level: info
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. INTERVAL_ANALYSIS_FROM_STATUS.
const EnvPrefix = "INTERVAL"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	Input    InputSettings    `yaml:"input" mapstructure:"input"`
	Analysis AnalysisSettings `yaml:"analysis" mapstructure:"analysis"`
	Output   OutputSettings   `yaml:"output" mapstructure:"output"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// InputSettings contains settings for reading the tabular inputs.
type InputSettings struct {
	// Delimiter separates fields in delimited text input.
	// Common values: "," (comma), "tab", "pipe", "semicolon"
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"`

	// Sheet is the worksheet read from XLSX input. Empty means the first sheet.
	Sheet string `yaml:"sheet" mapstructure:"sheet"`
}

// AnalysisSettings selects the lifecycle codes that bound the interval.
type AnalysisSettings struct {
	FromStatus int `yaml:"from_status" mapstructure:"from_status"`
	ToStatus   int `yaml:"to_status" mapstructure:"to_status"`

	// SlowThresholdSeconds marks intervals above it as slow in the report.
	SlowThresholdSeconds int `yaml:"slow_threshold_seconds" mapstructure:"slow_threshold_seconds"`
}

// OutputSettings controls where and how exports are written.
type OutputSettings struct {
	Dir string `yaml:"dir" mapstructure:"dir"`

	// FileNameFormat defines the export file name.
	// Placeholders:
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - A random UUID
	//   {from}      - From status
	//   {to}        - To status
	FileNameFormat string `yaml:"file_name_format" mapstructure:"file_name_format"`

	// Format is the export format: "csv" or "xml".
	Format string `yaml:"format" mapstructure:"format"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Input: InputSettings{
			Delimiter: ",",
		},
		Analysis: AnalysisSettings{
			FromStatus:           2,
			ToStatus:             8,
			SlowThresholdSeconds: 10,
		},
		Output: OutputSettings{
			Dir:            "./output",
			FileNameFormat: "payment_intervals_{timestamp}.csv",
			Format:         "csv",
		},
		LogLevel: "info",
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("input.delimiter", d.Input.Delimiter)
	v.SetDefault("input.sheet", d.Input.Sheet)
	v.SetDefault("analysis.from_status", d.Analysis.FromStatus)
	v.SetDefault("analysis.to_status", d.Analysis.ToStatus)
	v.SetDefault("analysis.slow_threshold_seconds", d.Analysis.SlowThresholdSeconds)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.file_name_format", d.Output.FileNameFormat)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("log_level", d.LogLevel)
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration from configPath, layering environment
// overrides on top. A missing file is not an error: defaults are used.
//
// PARAMETERS:
//   - configPath: The path to the YAML configuration file.
//
// RETURNS:
//   - A pointer to the validated Config struct.
//   - An error if the file exists but cannot be parsed, or is invalid.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	if _, err := ParseDelimiter(c.Input.Delimiter); err != nil {
		return err
	}

	switch strings.ToLower(c.Output.Format) {
	case "csv", "xml":
	default:
		return fmt.Errorf("unsupported output format %q (want csv or xml)", c.Output.Format)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q", c.LogLevel)
	}

	if c.Analysis.SlowThresholdSeconds < 0 {
		return fmt.Errorf("slow_threshold_seconds must not be negative")
	}

	return nil
}

// ParseDelimiter resolves a delimiter setting to the rune used by the reader.
// Handle special cases for common delimiters by name.
func ParseDelimiter(delimiter string) (rune, error) {
	switch delimiter {
	case "", ",", "comma":
		return ',', nil
	case "\\t", "\t", "tab", "TAB":
		return '\t', nil
	case "|", "pipe", "PIPE":
		return '|', nil
	case ";", "semicolon":
		return ';', nil
	}

	runes := []rune(delimiter)
	if len(runes) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	switch runes[0] {
	case '"', '\r', '\n':
		return 0, fmt.Errorf("invalid delimiter %q", delimiter)
	}
	return runes[0], nil
}

// WriteDefault writes the built-in configuration to path as YAML.
// It refuses to overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
