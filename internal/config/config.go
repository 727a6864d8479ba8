package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/lsjson/internal/errors"
)

// Mode names accepted for default_mode, after normalisation to kebab case
const (
	ModeShape   = "shape"
	ModeExample = "example"
	ModeAll     = "all"
)

// Color settings
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the complete configuration for lsjson
type Config struct {
	Layout      LayoutConfig `yaml:"layout" toml:"layout"`
	Color       string       `yaml:"color" toml:"color"`
	DefaultMode string       `yaml:"default_mode" toml:"default_mode"`
	Banner      bool         `yaml:"banner" toml:"banner"`
	Dev         DevConfig    `yaml:"dev" toml:"dev"`
}

// LayoutConfig controls indentation and alignment of the rendering
type LayoutConfig struct {
	Indent       string `yaml:"indent" toml:"indent"`
	KeyWidth     int    `yaml:"key_width" toml:"key_width"`
	ScalarAnchor int    `yaml:"scalar_anchor" toml:"scalar_anchor"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug" toml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Layout: LayoutConfig{
			Indent:       "    ",
			KeyWidth:     32,
			ScalarAnchor: 9,
		},
		Color:       ColorAuto,
		DefaultMode: ModeShape,
		Banner:      true,
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML or TOML file, chosen by extension
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("failed to read config file", err)
	}

	// Start with defaults
	cfg := NewConfig()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, errors.NewConfigError("failed to parse config file", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewConfigError("failed to parse config file", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{
		".lsjson.yml", ".lsjson.yaml", ".lsjson.toml",
		"lsjson.yml", "lsjson.yaml", "lsjson.toml",
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// NormalizeMode maps the spellings a user may write for a mode
// ("OneExample", "one_example", "all-content", "-e", ...) onto
// ModeShape, ModeExample or ModeAll.
func NormalizeMode(name string) (string, error) {
	key := strcase.ToKebab(strings.TrimLeft(strings.TrimSpace(name), "-"))
	switch key {
	case "", "shape", "shape-only", "structure":
		return ModeShape, nil
	case "e", "example", "one-example", "examples":
		return ModeExample, nil
	case "a", "all", "all-content", "dump":
		return ModeAll, nil
	}
	return "", errors.NewConfigError(fmt.Sprintf("unknown mode '%s'", name), errors.ErrInvalidConfig)
}

// Validate checks the config values and normalises the mode name
func (c *Config) Validate() error {
	if c.Layout.Indent == "" {
		return errors.NewConfigError("layout.indent must not be empty", errors.ErrInvalidConfig)
	}
	if c.Layout.KeyWidth <= 0 {
		return errors.NewConfigError(fmt.Sprintf("layout.key_width must be positive, got %d", c.Layout.KeyWidth), errors.ErrInvalidConfig)
	}
	if c.Layout.ScalarAnchor < 0 {
		return errors.NewConfigError(fmt.Sprintf("layout.scalar_anchor must not be negative, got %d", c.Layout.ScalarAnchor), errors.ErrInvalidConfig)
	}

	switch strings.ToLower(c.Color) {
	case ColorAuto, ColorAlways, ColorNever:
		c.Color = strings.ToLower(c.Color)
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown color setting '%s'", c.Color), errors.ErrInvalidConfig)
	}

	mode, err := NormalizeMode(c.DefaultMode)
	if err != nil {
		return err
	}
	c.DefaultMode = mode
	return nil
}

// UseColor resolves the color setting against whether the output is a terminal
func (c *Config) UseColor(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}

// LoadConfigWithCLI loads config with CLI argument precedence.
// An empty configPath falls back to FindConfigFile; cliMode is empty
// when neither -e nor -a was given.
func LoadConfigWithCLI(configPath, cliMode string, cliNoColor, cliDebug bool) (*Config, error) {
	cfg := NewConfig()

	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cliMode != "" {
		mode, err := NormalizeMode(cliMode)
		if err != nil {
			return nil, err
		}
		cfg.DefaultMode = mode
	}
	if cliNoColor {
		cfg.Color = ColorNever
	}
	if cliDebug {
		cfg.Dev.Debug = true
	}

	return cfg, nil
}
