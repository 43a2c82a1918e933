// Package cmd contains the gssdash CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gss-dashboard/internal/config"
	"gss-dashboard/internal/dataset"
	"gss-dashboard/internal/logging"
	"gss-dashboard/internal/options"
)

var (
	// Version is the current version of gssdash
	Version = "0.1.0"

	// Global flags
	configPath string
	dataSource string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "gssdash",
	Short: "Interactive dashboard over the 2018 General Social Survey",
	Long: `gssdash serves a dashboard exploring the gender wage gap in the 2018
General Social Survey, with two selectors that drive a grouped bar chart.

Examples:
  gssdash serve                                    # Start the dashboard on :8080
  gssdash render --category relationship --group sex --format svg > chart.svg
  gssdash options                                  # List selector values`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&dataSource, "data", "", "Dataset URL or path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// runtime is the configuration and logger shared by every command.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
}

func setup() (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataSource != "" {
		cfg.Data.Source = dataSource
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, logger: logger}, nil
}

// loadDataset reads the configured source, requiring every selector column.
func (rt *runtime) loadDataset(ctx context.Context, reg *options.Registry) (*dataset.Dataset, error) {
	required, err := dataset.RequiredColumns(reg)
	if err != nil {
		return nil, err
	}
	return dataset.Load(ctx, dataset.Source{
		Location: rt.cfg.Data.Source,
		Encoding: rt.cfg.Data.Encoding,
		Seed:     rt.cfg.Data.Seed,
		Required: required,
		Timeout:  config.Duration(rt.cfg.Data.FetchTimeout, 2*time.Minute),
		Retry:    dataset.DefaultRetry,
	}, rt.logger)
}
