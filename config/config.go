// Package config loads the fusion.yaml file holding the engine's weight
// tables, provider priorities, persona salt and worker settings.
//
// Values absent from the file keep their defaults. A table given in the
// file replaces the default table for that key.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/fusion/behavior"
	"github.com/zero-day-ai/fusion/carrier"
	"github.com/zero-day-ai/fusion/correlate"
	"github.com/zero-day-ai/fusion/persona"
	"github.com/zero-day-ai/fusion/risk"
	"github.com/zero-day-ai/fusion/score"
)

// ErrNotFound is returned by LoadFromDir when no file exists in the
// directory or any parent.
var ErrNotFound = errors.New("config file not found")

// File names searched for when Load is given a directory.
const (
	FileName    = "fusion.yaml"
	AltFileName = "fusion.yml"
)

// Config is the complete engine configuration. It is read once and treated
// as immutable afterwards.
type Config struct {
	Score       score.Weights    `yaml:"score"`
	Risk        risk.Config      `yaml:"risk"`
	Similarity  behavior.Weights `yaml:"similarity"`
	Carrier     CarrierConfig    `yaml:"carrier"`
	Persona     PersonaConfig    `yaml:"persona"`
	Correlation correlate.Config `yaml:"correlation"`
	Worker      *WorkerConfig    `yaml:"worker,omitempty"`
}

// CarrierConfig configures carrier fusion.
type CarrierConfig struct {
	Priorities carrier.Priorities `yaml:"priorities"`
}

// PersonaConfig configures persona fingerprints.
type PersonaConfig struct {
	// Salt is public. Changing it changes every fingerprint.
	Salt string `yaml:"salt"`
}

// WorkerConfig defines configuration for queue-based scan processing.
type WorkerConfig struct {
	// RedisURL is the Redis connection URL.
	// Default: redis://localhost:6379
	RedisURL string `yaml:"redis_url,omitempty"`

	// Concurrency is the number of concurrent worker goroutines.
	// Default: 4
	Concurrency int `yaml:"concurrency,omitempty"`

	// ShutdownTimeout is the time to wait for graceful shutdown.
	// Format: Go duration string (e.g., "30s", "1m")
	// Default: 30s
	ShutdownTimeout string `yaml:"shutdown_timeout,omitempty"`

	// QueuePrefix is the Redis key prefix for the scan queue.
	// Default: "fusion" (resulting in "fusion:scans:queue")
	QueuePrefix string `yaml:"queue_prefix,omitempty"`

	// RatePerSecond caps how many jobs per second the worker takes.
	// Default: 0 (unlimited)
	RatePerSecond float64 `yaml:"rate_per_second,omitempty"`

	// ResultTTL is how long a finished report is reused for a repeated
	// job id. Format: Go duration string.
	// Default: 10m
	ResultTTL string `yaml:"result_ttl,omitempty"`
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// GetRedisURL returns the Redis URL or the default value.
func (w *WorkerConfig) GetRedisURL() string {
	if w == nil || w.RedisURL == "" {
		return "redis://localhost:6379"
	}
	return w.RedisURL
}

// GetShutdownTimeout parses the shutdown timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (w *WorkerConfig) GetShutdownTimeout() time.Duration {
	if w == nil {
		return 30 * time.Second
	}
	return parseDuration(w.ShutdownTimeout, 30*time.Second)
}

// GetResultTTL parses the result TTL string and returns a duration.
// Returns the default value if not set or invalid.
func (w *WorkerConfig) GetResultTTL() time.Duration {
	if w == nil {
		return 10 * time.Minute
	}
	return parseDuration(w.ResultTTL, 10*time.Minute)
}

// GetConcurrency returns the configured concurrency or the default value.
func (w *WorkerConfig) GetConcurrency() int {
	if w == nil || w.Concurrency <= 0 {
		return 4
	}
	return w.Concurrency
}

// GetQueuePrefix returns the queue prefix or the default value.
func (w *WorkerConfig) GetQueuePrefix() string {
	if w == nil || w.QueuePrefix == "" {
		return "fusion"
	}
	return w.QueuePrefix
}

// GetRatePerSecond returns the intake rate, 0 meaning unlimited.
func (w *WorkerConfig) GetRatePerSecond() float64 {
	if w == nil || w.RatePerSecond < 0 {
		return 0
	}
	return w.RatePerSecond
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Score:       score.DefaultWeights(),
		Risk:        risk.DefaultConfig(),
		Similarity:  behavior.DefaultWeights(),
		Carrier:     CarrierConfig{Priorities: carrier.DefaultPriorities()},
		Persona:     PersonaConfig{Salt: persona.DefaultSalt},
		Correlation: correlate.DefaultConfig(),
	}
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Score.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("score: %w", err))
	}
	if err := c.Risk.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("risk: %w", err))
	}
	if err := validateSimilarity(c.Similarity); err != nil {
		errs = append(errs, fmt.Errorf("similarity: %w", err))
	}
	if err := validatePriorities(c.Carrier.Priorities); err != nil {
		errs = append(errs, fmt.Errorf("carrier: %w", err))
	}
	if c.Persona.Salt == "" {
		errs = append(errs, errors.New("persona: salt is required"))
	}
	if err := c.Correlation.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("correlation: %w", err))
	}
	if c.Worker != nil {
		if err := c.Worker.validate(); err != nil {
			errs = append(errs, fmt.Errorf("worker: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (w *WorkerConfig) validate() error {
	for name, v := range map[string]string{"shutdown_timeout": w.ShutdownTimeout, "result_ttl": w.ResultTTL} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	if w.RatePerSecond < 0 {
		return fmt.Errorf("rate_per_second must not be negative")
	}
	return nil
}

func validateSimilarity(w behavior.Weights) error {
	for _, v := range []float64{w.Linguistic, w.Emoji, w.Activity, w.Platform} {
		if v < 0 {
			return fmt.Errorf("weights must not be negative")
		}
	}
	return nil
}

func validatePriorities(p carrier.Priorities) error {
	if len(p[carrier.FieldCarrier]) == 0 {
		return fmt.Errorf("priorities must include a %q table", carrier.FieldCarrier)
	}
	for field, table := range p {
		for provider, rank := range table {
			if rank < 0 || rank > 100 {
				return fmt.Errorf("priority for %s/%s must be within [0,100], got %d", field, provider, rank)
			}
		}
	}
	return nil
}

// Load reads a fusion.yaml file from the given path on top of the defaults.
// If the path is a directory, it looks for fusion.yaml or fusion.yml in that directory.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		configPath = ""
		for _, name := range []string{FileName, AltFileName} {
			candidate := filepath.Join(path, name)
			if _, err := os.Stat(candidate); err == nil {
				configPath = candidate
				break
			}
		}
		if configPath == "" {
			return nil, fmt.Errorf("no %s or %s found in %s", FileName, AltFileName, path)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML data on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromDir searches for fusion.yaml starting from the given directory
// and walking up to parent directories until found or root is reached.
func LoadFromDir(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		for _, name := range []string{FileName, AltFileName} {
			if _, err := os.Stat(filepath.Join(absDir, name)); err == nil {
				return Load(absDir)
			}
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			return nil, fmt.Errorf("%w: no %s in %s or parent directories", ErrNotFound, FileName, dir)
		}
		absDir = parent
	}
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
