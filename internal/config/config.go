package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mcncl/devkit/internal/formatter"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for devkit
type Config struct {
	Locale     string           `yaml:"locale"`
	Formatting FormattingConfig `yaml:"formatting"`
	Parser     ParserConfig     `yaml:"parser"`
	Log        LogConfig        `yaml:"log"`
	Timestamp  TimestampConfig  `yaml:"timestamp"`
}

// FormattingConfig controls the canonical output
type FormattingConfig struct {
	Indent      int    `yaml:"indent"`
	SortKeys    bool   `yaml:"sort_keys"`
	EnsureASCII bool   `yaml:"ensure_ascii"`
	KeyCase     string `yaml:"key_case"` // snake, camel, lower_camel, kebab or empty
}

// ParserConfig selects the grammars tried after the strict one
type ParserConfig struct {
	Repair bool `yaml:"repair"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level string `yaml:"level"`
	Mode  string `yaml:"mode"`
	File  string `yaml:"file"`
}

// TimestampConfig controls the timestamp converter
type TimestampConfig struct {
	Location string `yaml:"location"` // IANA name or "Local"
	Unit     string `yaml:"unit"`     // s or ms
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	opts := formatter.DefaultOptions()
	return &Config{
		Locale: "auto",
		Formatting: FormattingConfig{
			Indent:   opts.Indent,
			SortKeys: opts.SortKeys,
		},
		Log: LogConfig{
			Level: "WARN",
			Mode:  "SIMPLE",
		},
		Timestamp: TimestampConfig{
			Location: "Local",
			Unit:     "s",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in dir and its parents.
// An empty dir starts from the working directory.
func FindConfigFile(dir string) string {
	configNames := []string{".devkit.yml", ".devkit.yaml", "devkit.yml", "devkit.yaml"}

	currentDir := dir
	if currentDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		currentDir = wd
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks values that cannot be expressed by the YAML types alone
func (c *Config) Validate() error {
	if c.Formatting.Indent < 0 {
		return fmt.Errorf("formatting.indent must not be negative, got %d", c.Formatting.Indent)
	}
	switch c.Formatting.KeyCase {
	case formatter.KeyCaseNone, formatter.KeyCaseSnake, formatter.KeyCaseCamel,
		formatter.KeyCaseLowerCamel, formatter.KeyCaseKebab:
	default:
		return fmt.Errorf("unknown formatting.key_case %q", c.Formatting.KeyCase)
	}
	switch strings.ToUpper(c.Log.Mode) {
	case "", "SIMPLE", "FULL":
	default:
		return fmt.Errorf("unknown log.mode %q", c.Log.Mode)
	}
	switch strings.ToUpper(c.Log.Level) {
	case "", "DEBUG", "INFO", "WARN", "ERROR", "FATAL":
	default:
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	switch c.Timestamp.Unit {
	case "", "s", "ms":
	default:
		return fmt.Errorf("unknown timestamp.unit %q", c.Timestamp.Unit)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// FormatterOptions returns the formatting section as formatter options
func (c *Config) FormatterOptions() formatter.Options {
	return formatter.Options{
		Indent:      c.Formatting.Indent,
		SortKeys:    c.Formatting.SortKeys,
		EnsureASCII: c.Formatting.EnsureASCII,
		KeyCase:     c.Formatting.KeyCase,
	}
}

// Location resolves timestamp.location; empty means local time
func (c *Config) Location() (*time.Location, error) {
	name := c.Timestamp.Location
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp.location %q: %w", name, err)
	}
	return loc, nil
}

// CLIOverrides holds flag values. Nil pointers and empty strings mean the
// flag was not given.
type CLIOverrides struct {
	Locale  string
	Debug   bool
	Repair  *bool
	Indent  *int
	KeyCase string
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, cli CLIOverrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cli.Locale != "" {
		cfg.Locale = cli.Locale
	}
	if cli.Debug {
		cfg.Log.Level = "DEBUG"
	}
	if cli.Repair != nil {
		cfg.Parser.Repair = *cli.Repair
	}
	if cli.Indent != nil {
		cfg.Formatting.Indent = *cli.Indent
	}
	if cli.KeyCase != "" {
		cfg.Formatting.KeyCase = cli.KeyCase
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
