// Package config holds the settings of the flatdyn command line tool.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/flatdyn/errors"
)

// Format selects how encoded buffers are written.
type Format string

const (
	// FormatAuto writes hex to a terminal and raw bytes otherwise.
	FormatAuto Format = ""
	FormatRaw  Format = "raw"
	FormatHex  Format = "hex"
)

// Compression selects an optional wrapper around encoded buffers.
type Compression string

const (
	CompressNone   Compression = "none"
	CompressSnappy Compression = "snappy"
)

// Config holds the flatdyn configuration.
type Config struct {
	// SchemaDirs are scanned for schema files at startup
	SchemaDirs []string `json:"schema_dirs" yaml:"schema_dirs"`

	// SchemaFiles are loaded one by one after the directories
	SchemaFiles []string `json:"schema_files" yaml:"schema_files"`

	// Suffix is the file suffix matched in SchemaDirs (default bfbs)
	Suffix string `json:"suffix" yaml:"suffix"`

	// LogLevel is a zap level name: debug, info, warn, error
	LogLevel string `json:"log_level" yaml:"log_level"`

	// Output configuration
	Output OutputConfig `json:"output" yaml:"output"`
}

// OutputConfig holds encoder output settings.
type OutputConfig struct {
	// Format is raw, hex, or empty to pick by terminal detection
	Format Format `json:"format" yaml:"format"`

	// Compress is none or snappy
	Compress Compression `json:"compress" yaml:"compress"`

	// SizePrefixed prepends the buffer length
	SizePrefixed bool `json:"size_prefixed" yaml:"size_prefixed"`

	// InitialBuffer is the starting arena size in bytes
	InitialBuffer int `json:"initial_buffer" yaml:"initial_buffer"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Suffix:   "bfbs",
		LogLevel: "info",
		Output: OutputConfig{
			Format:        FormatAuto,
			Compress:      CompressNone,
			InitialBuffer: 1024,
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Suffix == "" || strings.ContainsAny(c.Suffix, "/\\") {
		return invalid("suffix %q must be a non-empty file suffix", c.Suffix)
	}
	if strings.HasPrefix(c.Suffix, ".") {
		return invalid("suffix %q must not start with a dot", c.Suffix)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return invalid("invalid log_level %q", c.LogLevel)
	}
	switch c.Output.Format {
	case FormatAuto, FormatRaw, FormatHex:
	default:
		return invalid("invalid output.format: %s (must be raw or hex)", c.Output.Format)
	}
	switch c.Output.Compress {
	case CompressNone, CompressSnappy:
	default:
		return invalid("invalid output.compress: %s (must be none or snappy)", c.Output.Compress)
	}
	if c.Output.InitialBuffer <= 0 {
		return invalid("output.initial_buffer must be positive, got %d", c.Output.InitialBuffer)
	}
	return nil
}

// Level returns the parsed log level, info when unset or invalid.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// LoadFromFile loads configuration from a YAML or JSON file on top of the
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindIO, err, "read config file")
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse YAML config")
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse JSON config")
		}
	default:
		return nil, errors.New(errors.PhaseConfig, errors.KindUnsupported).
			Detail("unsupported config file format: %s", ext).
			Build()
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the FLATDYN_ prefix; list values are separated
// by the OS path list separator.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("FLATDYN_SCHEMA_DIRS"); v != "" {
		cfg.SchemaDirs = filepath.SplitList(v)
	}
	if v := os.Getenv("FLATDYN_SCHEMA_FILES"); v != "" {
		cfg.SchemaFiles = filepath.SplitList(v)
	}
	if v := os.Getenv("FLATDYN_SUFFIX"); v != "" {
		cfg.Suffix = v
	}
	if v := os.Getenv("FLATDYN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	// Output configuration
	if v := os.Getenv("FLATDYN_OUTPUT_FORMAT"); v != "" {
		cfg.Output.Format = Format(v)
	}
	if v := os.Getenv("FLATDYN_OUTPUT_COMPRESS"); v != "" {
		cfg.Output.Compress = Compression(v)
	}
	if v := os.Getenv("FLATDYN_OUTPUT_SIZE_PREFIXED"); v != "" {
		cfg.Output.SizePrefixed = v == "true" || v == "1"
	}
	if v := os.Getenv("FLATDYN_OUTPUT_INITIAL_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Output.InitialBuffer = n
		}
	}
}

func invalid(msg string, args ...any) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).Detail(msg, args...).Build()
}
