package distributed

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/born-collective/internal/tensor"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvBackend   = "BORN_DIST_BACKEND"
	EnvWorldSize = "BORN_WORLD_SIZE"
	EnvRank      = "BORN_RANK"
)

// ErrInvalidConfig is returned for configurations that cannot initialize a run.
var ErrInvalidConfig = errors.New("invalid distributed config")

// Config is produced by the bootstrap and consumed by Info.Init.
type Config struct {
	Backend   Backend `yaml:"backend"`
	WorldSize int     `yaml:"world_size"`
	Rank      int     `yaml:"rank"`

	// Engine creates the tensors used by Barrier. Nil selects the default
	// tensor backend.
	Engine tensor.Backend `yaml:"-"`
}

// Validate checks world size and rank.
func (c Config) Validate() error {
	if c.WorldSize < 1 {
		return fmt.Errorf("%w: world size must be >= 1, got %d", ErrInvalidConfig, c.WorldSize)
	}
	if c.Rank < 0 || c.Rank >= c.WorldSize {
		return fmt.Errorf("%w: rank %d out of range [0, %d)", ErrInvalidConfig, c.Rank, c.WorldSize)
	}
	return nil
}

// LoadConfig reads a YAML config file.
//
// Example file:
//
//	backend: gloo
//	world_size: 4
//	rank: 0
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read distributed config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML config. Missing world_size defaults to 1.
func ParseConfig(data []byte) (Config, error) {
	cfg := Config{WorldSize: 1}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConfigFromEnv builds a config from BORN_DIST_BACKEND, BORN_WORLD_SIZE and
// BORN_RANK. Unset variables default to gloo, 1 and 0.
func ConfigFromEnv() (Config, error) {
	cfg := Config{WorldSize: 1}

	if s := os.Getenv(EnvBackend); s != "" {
		b, err := ParseBackend(s)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvBackend, err)
		}
		cfg.Backend = b
	}
	if s := os.Getenv(EnvWorldSize); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvWorldSize, err)
		}
		cfg.WorldSize = n
	}
	if s := os.Getenv(EnvRank); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvRank, err)
		}
		cfg.Rank = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
