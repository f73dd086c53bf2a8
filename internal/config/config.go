// Package config loads the textlab configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all textlab configuration.
type Config struct {
	// DataDir is the root of the corpora (treebank/, conll2000/, ...).
	DataDir string `yaml:"data_dir"`

	// ModelsDir is where trained models are saved as gob files.
	ModelsDir string `yaml:"models_dir"`

	Store    StoreConfig    `yaml:"store"`
	Logging  LoggingConfig  `yaml:"logging"`
	Server   ServerConfig   `yaml:"server"`
	Training TrainingConfig `yaml:"training"`
}

// StoreConfig configures the SQLite model store.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// TrainingConfig holds the parameters of the training demos.
type TrainingConfig struct {
	Split         float64 `yaml:"split"`
	TrainSents    int     `yaml:"train_sents"`
	BrillMaxRules int     `yaml:"brill_max_rules"`
	BrillMinScore int     `yaml:"brill_min_score"`
	TnTBeam       int     `yaml:"tnt_beam"`
	Workers       int     `yaml:"workers"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir:   "data",
		ModelsDir: "models",
		Store: StoreConfig{
			Path: filepath.Join("models", "models.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Training: TrainingConfig{
			Split:         0.75,
			TrainSents:    3000,
			BrillMaxRules: 200,
			BrillMinScore: 2,
			TnTBeam:       200,
			Workers:       runtime.NumCPU(),
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TEXTLAB_DATA"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("TEXTLAB_MODELS"); v != "" {
		c.ModelsDir = v
	}
	if v := os.Getenv("TEXTLAB_STORE"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("TEXTLAB_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TEXTLAB_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// Validate checks the values that have a fixed range.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format %q", c.Logging.Format)
	}
	if c.Training.Split <= 0 || c.Training.Split >= 1 {
		return fmt.Errorf("training split must be in (0, 1), got %v", c.Training.Split)
	}
	return nil
}
