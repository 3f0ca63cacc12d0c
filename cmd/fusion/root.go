package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zero-day-ai/fusion"
	"github.com/zero-day-ai/fusion/config"
)

const version = "v0.1.0"

// flagKeys maps subcommand flags to the configuration keys they override.
// Only the flags of the command being run are bound.
var flagKeys = map[string]string{
	"salt":             "persona.salt",
	"redis-url":        "worker.redis_url",
	"queue-prefix":     "worker.queue_prefix",
	"concurrency":      "worker.concurrency",
	"rate":             "worker.rate_per_second",
	"shutdown-timeout": "worker.shutdown_timeout",
	"result-ttl":       "worker.result_ttl",
}

// cli holds the state shared by every subcommand of one invocation.
type cli struct {
	v      *viper.Viper
	cfg    *config.Config
	source string
	logger *slog.Logger
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "fusion",
		Short: "Fusion - OSINT finding correlation and risk derivation",
		Long: `Fusion turns a batch of findings collected from OSINT providers into
de-duplicated, correlated findings, an entity exposure score, a Predictive
Risk Index, a persona fingerprint and a behavioral profile.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (FUSION_*)
3. Config file (fusion.yaml, searched upwards from the working directory)
4. Defaults`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.PersistentFlags().String("config", "", "config file (default: fusion.yaml in the working directory or a parent)")
	root.PersistentFlags().BoolP("verbose", "v", false, "verbose logging")
	root.PersistentFlags().String("log-format", "text", "log format (text|json)")
	_ = c.v.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	_ = c.v.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	_ = c.v.BindPFlag("log_format", root.PersistentFlags().Lookup("log-format"))

	root.AddCommand(
		newAnalyzeCmd(c),
		newCarrierCmd(c),
		newSimilarityCmd(c),
		newFingerprintCmd(c),
		newWorkerCmd(c),
		newSubmitCmd(c),
		newHealthCmd(c),
		newConfigCmd(c),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "fusion %s\n", version)
			},
		},
	)
	return root
}

// setup reads environment variables and the config file, then builds the
// logger.
func (c *cli) setup(cmd *cobra.Command) error {
	c.v.SetEnvPrefix("FUSION")
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	c.v.AutomaticEnv()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := c.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	c.logger = newLogger(cmd.ErrOrStderr(), c.v.GetString("log_format"), c.v.GetBool("verbose"))

	cfg, source, err := loadConfig(c.v.GetString("config"))
	if err != nil {
		return err
	}
	c.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	c.cfg = cfg
	c.source = source
	c.logger.Debug("configuration loaded", "source", source)
	return nil
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", fmt.Errorf("load config %s: %w", path, err)
		}
		return cfg, path, nil
	}

	cfg, err := config.LoadFromDir(".")
	switch {
	case err == nil:
		return cfg, "fusion.yaml", nil
	case errors.Is(err, config.ErrNotFound):
		return config.Default(), "defaults", nil
	default:
		return nil, "", err
	}
}

// applyOverrides copies values set through flags or FUSION_* variables
// onto cfg.
func (c *cli) applyOverrides(cfg *config.Config) {
	if c.v.IsSet("persona.salt") {
		cfg.Persona.Salt = c.v.GetString("persona.salt")
	}
	if c.v.IsSet("correlation.max_pairs") {
		cfg.Correlation.MaxPairs = c.v.GetInt("correlation.max_pairs")
	}

	worker := func() *config.WorkerConfig {
		if cfg.Worker == nil {
			cfg.Worker = &config.WorkerConfig{}
		}
		return cfg.Worker
	}
	if c.v.IsSet("worker.redis_url") {
		worker().RedisURL = c.v.GetString("worker.redis_url")
	}
	if c.v.IsSet("worker.concurrency") {
		worker().Concurrency = c.v.GetInt("worker.concurrency")
	}
	if c.v.IsSet("worker.queue_prefix") {
		worker().QueuePrefix = c.v.GetString("worker.queue_prefix")
	}
	if c.v.IsSet("worker.rate_per_second") {
		worker().RatePerSecond = c.v.GetFloat64("worker.rate_per_second")
	}
	if c.v.IsSet("worker.shutdown_timeout") {
		worker().ShutdownTimeout = c.v.GetString("worker.shutdown_timeout")
	}
	if c.v.IsSet("worker.result_ttl") {
		worker().ResultTTL = c.v.GetString("worker.result_ttl")
	}
}

func (c *cli) engine() (*fusion.Engine, error) {
	return fusion.New(fusion.WithConfig(c.cfg), fusion.WithLogger(c.logger))
}

func newLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openInput returns the file named by args[0], or stdin when no argument
// or "-" is given.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}
