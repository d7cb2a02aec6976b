// Package main is the entry point for the rangeseek CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/rangeseek/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options are the flags shared by every command.
type options struct {
	envFile    string
	configFile string
}

func rootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "rangeseek",
		Short: "Pick a numeric range with a two-handle slider",
		Long: `rangeseek shows a range slider in the terminal. Drag either handle with the
mouse; the handles snap to steps and never come closer than the configured gap.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. YAML file given with --config

Environment variables:
  RANGESEEK_MIN                Value at the left end (default: 0)
  RANGESEEK_MAX                Value at the right end (default: 100)
  RANGESEEK_STEPS              Number of steps (default: 20)
  RANGESEEK_GAP                Minimum steps between handles (default: 1)
  RANGESEEK_TOLERANCE          Extra hit area around handles, in cells (default: 1)
  RANGESEEK_HANDLE_WIDTH       Handle width for rendered frames (default: 1)
  RANGESEEK_HANDLE_HEIGHT      Handle height for rendered frames (default: 1)
  RANGESEEK_MARGIN             Blank columns beside the track (default: 1)
  RANGESEEK_STATE_FILE         Keep the selected range here between runs
  RANGESEEK_LOG_LEVEL          Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  RANGESEEK_LOG_FILE           Log file; logs are discarded while the UI runs otherwise`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to a YAML configuration file")

	cmd.AddCommand(runCmd(&opts))
	cmd.AddCommand(frameCmd(&opts))
	cmd.AddCommand(dashboardCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from the .env file, the environment and
// the YAML file.
func loadConfig(opts *options) (config.Config, error) {
	cfg, err := config.LoadConfig(opts.envFile, opts.configFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
