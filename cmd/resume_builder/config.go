package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
)

// resolveConfig loads the --config file when given, lets explicitly set
// flags override it, applies the environment and fills in defaults.
func resolveConfig(cmd *cobra.Command, path string, override func(cmd *cobra.Command, cfg *config.Config)) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	if override != nil {
		override(cmd, &cfg)
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if cfg.Verbose && path != "" {
		_, _ = fmt.Fprintf(os.Stderr, "Loaded config from: %s\n", path)
	}
	return cfg, nil
}

// commandContext returns the command's context, or Background outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
