package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/helmcode/questionnaire/pkg/export"
	"github.com/helmcode/questionnaire/pkg/formatter"
	"github.com/helmcode/questionnaire/pkg/warehouse"
)

// AnalysisConfig configures the command that consumes a populated query.
type AnalysisConfig struct {
	// Command is run with the query file path appended
	Command string `yaml:"command"`
}

// Config represents questionnaire configuration options
type Config struct {
	// LogLevel sets the diagnostic verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// OutputFormat is the display format (human, json, yaml)
	OutputFormat string `yaml:"output_format"`

	// ExportFormat is the default save format (json, csv, txt)
	ExportFormat string `yaml:"export_format"`

	// OutputDir is where exports and populated queries are written
	OutputDir string `yaml:"output_dir"`

	// SQLTemplate is the query template path; empty uses the built-in one
	SQLTemplate string `yaml:"sql_template"`

	// CustomSets are question set files registered at startup
	CustomSets []string `yaml:"custom_sets"`

	// Editor overrides $VISUAL and $EDITOR
	Editor string `yaml:"editor"`

	Warehouse warehouse.Config `yaml:"warehouse"`
	Analysis  AnalysisConfig   `yaml:"analysis"`
}

// Environment variables that override file values.
const (
	EnvLogLevel        = "QUESTIONNAIRE_LOG_LEVEL"
	EnvOutputDir       = "QUESTIONNAIRE_OUTPUT_DIR"
	EnvSQLTemplate     = "QUESTIONNAIRE_SQL_TEMPLATE"
	EnvWarehouseDriver = "QUESTIONNAIRE_WAREHOUSE_DRIVER"
	EnvWarehouseDSN    = "QUESTIONNAIRE_WAREHOUSE_DSN"
	EnvAnalysisCommand = "QUESTIONNAIRE_ANALYSIS_COMMAND"
)

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "warn",
		OutputFormat: formatter.FormatHuman,
		ExportFormat: export.FormatJSON,
		OutputDir:    ".",
		Warehouse: warehouse.Config{
			Driver: warehouse.DefaultDriver,
		},
	}
}

// DefaultPath is ~/.questionnaire/config.yaml, or "" when there is no home
// directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".questionnaire", "config.yaml")
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from non-empty environment variables. The editor
// is left alone; runner.Editor falls back to $VISUAL and $EDITOR itself.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.LogLevel, EnvLogLevel)
	set(&c.OutputDir, EnvOutputDir)
	set(&c.SQLTemplate, EnvSQLTemplate)
	set(&c.Warehouse.Driver, EnvWarehouseDriver)
	set(&c.Warehouse.DSN, EnvWarehouseDSN)
	set(&c.Analysis.Command, EnvAnalysisCommand)
}

// Load reads path, then applies the process environment.
func Load(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}

	if !export.ValidFormat(c.ExportFormat) {
		return fmt.Errorf("invalid export_format %q, must be one of: json, csv, txt", c.ExportFormat)
	}

	if !formatter.ValidFormat(c.OutputFormat) {
		return fmt.Errorf("invalid output_format %q, must be one of: %s", c.OutputFormat, strings.Join(formatter.Formats, ", "))
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	return nil
}
