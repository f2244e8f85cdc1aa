package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/trajopt/internal/transcribe"
)

const (
	DefaultIntervals      = 25
	DefaultBackend        = "auglag"
	DefaultGuess          = "midpoint"
	DefaultRandomFallback = 1.0
	DefaultSubsteps       = 10
)

// Config describes one solve run.
type Config struct {
	Problem   string         `yaml:"problem"`
	Scheme    string         `yaml:"scheme"`
	Intervals int            `yaml:"intervals"`
	Backend   string         `yaml:"backend"`
	Guess     string         `yaml:"guess"`
	Seed      int64          `yaml:"seed"`
	Substeps  int            `yaml:"substeps"`
	GuessOpts GuessConfig    `yaml:"guess_opts"`
	Options   map[string]any `yaml:"options"`
}

// GuessConfig tunes random initial-iterate sampling.
type GuessConfig struct {
	RandomFallback float64 `yaml:"random_fallback"`
}

func DefaultConfig() *Config {
	return &Config{
		Problem:   "pendulum",
		Scheme:    "trapezoidal",
		Intervals: DefaultIntervals,
		Backend:   DefaultBackend,
		Guess:     DefaultGuess,
		Substeps:  DefaultSubsteps,
		GuessOpts: GuessConfig{RandomFallback: DefaultRandomFallback},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values no run could use.
func (c *Config) Validate() error {
	if c.Intervals < 1 {
		return fmt.Errorf("config: intervals must be positive, got %d", c.Intervals)
	}
	switch c.Scheme {
	case "trapezoidal", "hermite-simpson":
	default:
		return fmt.Errorf("config: unknown scheme %q", c.Scheme)
	}
	switch c.Guess {
	case "midpoint", "random":
	default:
		return fmt.Errorf("config: unknown guess mode %q", c.Guess)
	}
	return nil
}

// Solver translates the run config into backend settings.
func (c *Config) Solver() transcribe.Solver {
	fallback := c.GuessOpts.RandomFallback
	if fallback <= 0 {
		fallback = DefaultRandomFallback
	}
	return transcribe.Solver{
		Backend:        c.Backend,
		BackendOptions: c.Options,
		RandomFallback: fallback,
	}
}
