// Package config loads loadcalc's user configuration from
// ~/.loadcalc/config.yaml, an optional project-local overlay, a .env file
// and LOADCALC_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rshade/loadcalc/internal/engine/cache"
	"github.com/rshade/loadcalc/internal/recommend"
	"github.com/rshade/loadcalc/internal/report"
)

const (
	configDirName  = ".loadcalc"
	configFileName = "config.yaml"

	outputTypeFile = "file"

	// DefaultServerAddr is where `serve` listens unless configured.
	DefaultServerAddr = "127.0.0.1:8080"
	// DefaultMemoSize bounds the in-process estimate memo.
	DefaultMemoSize = 256
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete user configuration.
type Config struct {
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Calculation CalculationConfig `yaml:"calculation"`
	Cache       CacheConfig       `yaml:"cache"`
	Server      ServerConfig      `yaml:"server"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	DefaultFormat string          `yaml:"default_format"`
	Locale        string          `yaml:"locale"`
	LabelsFile    string          `yaml:"labels_file,omitempty"`
	Branding      report.Branding `yaml:"branding"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// CalculationConfig tunes the estimator.
type CalculationConfig struct {
	// FactorsFile replaces the built-in coefficient tables when set.
	FactorsFile string `yaml:"factors_file,omitempty"`
	TiePolicy   string `yaml:"tie_policy"`
	MemoSize    int    `yaml:"memo_size"`
}

// CacheConfig controls the on-disk estimate cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Dir        string `yaml:"dir,omitempty"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// ServerConfig controls `loadcalc serve`.
type ServerConfig struct {
	Addr                   string `yaml:"addr"`
	ReadTimeoutSeconds     int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `yaml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			DefaultFormat: string(report.FormatText),
			Locale:        report.DefaultLocale,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Calculation: CalculationConfig{
			TiePolicy: string(recommend.TieRoundUp),
			MemoSize:  DefaultMemoSize,
		},
		Cache: CacheConfig{
			Enabled:    false,
			TTLSeconds: cache.DefaultTTLSeconds,
		},
		Server: ServerConfig{
			Addr:                   DefaultServerAddr,
			ReadTimeoutSeconds:     10,
			WriteTimeoutSeconds:    30,
			ShutdownTimeoutSeconds: 5,
		},
	}
}

// New returns the effective configuration: defaults, then the user config
// file if present, then environment overrides. A malformed config file is
// reported on stderr and ignored.
func New() *Config {
	cfg := Default()
	if path, err := ConfigFilePath(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if loadErr := cfg.LoadFile(path); loadErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: ignoring config %s: %v\n", path, loadErr)
				cfg = Default()
			}
		}
	}
	cfg.ApplyEnv()
	return cfg
}

// Load reads path on top of the defaults and applies the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.LoadFile(path); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFile decodes path into c. Fields the file omits keep their values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// Save writes c to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if _, err := report.ParseFormat(c.Output.DefaultFormat); err != nil {
		problems = append(problems, fmt.Sprintf("output.default_format: %q", c.Output.DefaultFormat))
	}
	if c.Logging.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
			problems = append(problems, fmt.Sprintf("logging.level: %q", c.Logging.Level))
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console", "text":
	default:
		problems = append(problems, fmt.Sprintf("logging.format: %q", c.Logging.Format))
	}
	if _, ok := recommend.ParseTiePolicy(c.Calculation.TiePolicy); !ok {
		problems = append(problems, fmt.Sprintf("calculation.tie_policy: %q", c.Calculation.TiePolicy))
	}
	if c.Calculation.MemoSize < 0 {
		problems = append(problems, "calculation.memo_size: must not be negative")
	}
	if c.Cache.Enabled {
		if err := cache.ValidateTTL(c.Cache.TTLSeconds); err != nil {
			problems = append(problems, "cache.ttl_seconds: "+err.Error())
		}
	}
	if c.Server.Addr == "" {
		problems = append(problems, "server.addr: must not be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// TiePolicy returns the parsed tie policy, falling back to round-up.
func (c *Config) TiePolicy() recommend.TiePolicy {
	if p, ok := recommend.ParseTiePolicy(c.Calculation.TiePolicy); ok {
		return p
	}
	return recommend.TieRoundUp
}

// CacheDir returns the configured cache directory or ~/.loadcalc/cache.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, cacheDirName), nil
}

// ConfigFilePath returns the path of the user config file.
func ConfigFilePath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}
