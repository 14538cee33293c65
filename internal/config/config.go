package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"gotitanic/internal/errors"
)

// Modes accepted by the CLI
const (
	ModeCheck   = "check"
	ModeSummary = "summary"
	ModeTrain   = "train"
	ModePredict = "predict"
	ModeAll     = "all"
)

// Modes lists every valid mode in help-text order
var Modes = []string{ModeCheck, ModeSummary, ModeTrain, ModePredict, ModeAll}

// Defaults
const (
	DefaultDataDir     = "src/data"
	DefaultMode        = ModeCheck
	DefaultMaxIter     = 1000
	DefaultPreviewRows = 10
	DefaultLogLevel    = "INFO"
)

// Config represents the complete application configuration
type Config struct {
	Data  DataConfig  `yaml:"data"`
	Model ModelConfig `yaml:"model"`
	Run   RunConfig   `yaml:"run"`
}

// DataConfig holds input file settings
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// ModelConfig holds classifier settings
type ModelConfig struct {
	MaxIter int `yaml:"max_iter"`
}

// RunConfig holds orchestration and reporting settings
type RunConfig struct {
	Mode        string `yaml:"mode"`
	PreviewRows int    `yaml:"preview_rows"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Data:  DataConfig{Dir: DefaultDataDir},
		Model: ModelConfig{MaxIter: DefaultMaxIter},
		Run: RunConfig{
			Mode:        DefaultMode,
			PreviewRows: DefaultPreviewRows,
			LogLevel:    DefaultLogLevel,
		},
	}
}

// Load layers defaults, the optional YAML file, the optional dotenv files
// and the process environment, in that order. Missing dotenv files are
// skipped; a missing YAML file is an error when a path was given.
func Load(configFile string, envFiles ...string) (*Config, error) {
	config := Default()

	if configFile != "" {
		if err := loadYAML(configFile, config); err != nil {
			return nil, errors.Wrap(err, "failed to load configuration file")
		}
	}

	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("reading %s: %w", path, err))
		}
	}

	if err := applyEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}

func loadYAML(path string, config *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if err := yaml.Unmarshal(raw, config); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("parsing %s: %w", path, err))
	}
	return nil
}

func applyEnv(config *Config) error {
	config.Data.Dir = getEnvOrDefault("TITANIC_DATA_DIR", config.Data.Dir)
	config.Run.Mode = getEnvOrDefault("TITANIC_MODE", config.Run.Mode)
	config.Run.LogLevel = getEnvOrDefault("LOG_LEVEL", config.Run.LogLevel)

	var err error
	if config.Model.MaxIter, err = getEnvIntOrDefault("TITANIC_MAX_ITER", config.Model.MaxIter); err != nil {
		return err
	}
	if config.Run.PreviewRows, err = getEnvIntOrDefault("TITANIC_PREVIEW_ROWS", config.Run.PreviewRows); err != nil {
		return err
	}
	return nil
}

// Validate rejects unknown modes and non-positive counts
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return errors.ConfigInvalid("data directory is required")
	}
	if !IsMode(c.Run.Mode) {
		return errors.ConfigInvalid(fmt.Sprintf("unknown mode %q, expected one of %s", c.Run.Mode, strings.Join(Modes, ", ")))
	}
	if c.Model.MaxIter <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("max_iter must be positive, got %d", c.Model.MaxIter))
	}
	if c.Run.PreviewRows <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("preview_rows must be positive, got %d", c.Run.PreviewRows))
	}
	return nil
}

// IsMode reports whether m names a known mode
func IsMode(m string) bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, value))
	}
	return intValue, nil
}
