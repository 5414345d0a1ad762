package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"toknames/internal/log"
)

// setupLogging initialises the global logger from the persistent flags.
func setupLogging(cmd *cobra.Command, _ []string) error {
	cfg, err := logConfigFromFlags(cmd, log.DefaultConfig())
	if err != nil {
		return err
	}
	if err := log.InitAppLogger(cfg, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	return nil
}

// logConfigFromFlags overlays explicitly set --log-* flags on base.
func logConfigFromFlags(cmd *cobra.Command, base log.Config) (log.Config, error) {
	flags := cmd.Root().PersistentFlags()
	level, err := flags.GetString("log-level")
	if err != nil {
		return base, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	format, err := flags.GetString("log-format")
	if err != nil {
		return base, fmt.Errorf("failed to get log-format flag: %w", err)
	}
	if level != "" {
		base.Level = level
	}
	if format != "" {
		base.Format = format
	}
	return base, nil
}

// applyManifestLogging re-initialises the logger with the manifest's [log]
// section, letting explicit flags win.
func applyManifestLogging(cmd *cobra.Command, manifestLog log.Config) error {
	base := log.DefaultConfig()
	if manifestLog.Level != "" {
		base.Level = manifestLog.Level
	}
	if manifestLog.Format != "" {
		base.Format = manifestLog.Format
	}
	cfg, err := logConfigFromFlags(cmd, base)
	if err != nil {
		return err
	}
	if err := log.InitAppLogger(cfg, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	return nil
}
