// Package cli provides the command-line interface for logchart.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/raphaelgruber/logchart/internal/config"
	"github.com/raphaelgruber/logchart/internal/metrics"
	"github.com/raphaelgruber/logchart/internal/search"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

// app holds per-invocation state shared by all commands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	// Global flags
	configPath string
	verbose    bool
	showStats  bool

	cfg      config.Config
	logger   *slog.Logger
	closeLog func() error
	metrics  *metrics.Collector
	search   *search.Client
}

// newRootCmd builds the command tree bound to a.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "logchart <action>",
		Short: "Load JSON logs into OpenSearch and chart them over time",
		Long: `Logchart loads JSON log records into an OpenSearch index and renders a
bar chart of indexed documents per time bucket.

The index is created with a fixed mapping (index_time: date, id: keyword)
before any action runs. Unknown actions do nothing after that.

Examples:
  logchart index
  logchart plot 2024-01-01 2024-01-31 1d
  logchart --stats plot 2024-01-01 2024-12-31 1M`,
		Version:           Version,
		Args:              cobra.ArbitraryArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: a.setup,
		RunE:              a.runUnknown,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("LOGCHART_CONFIG"), "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&a.showStats, "stats", false, "print request timings after the run")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Usage: "Usage: " + cmd.UseLine(), Err: err}
	})

	rootCmd.AddCommand(newIndexCmd(a))
	rootCmd.AddCommand(newPlotCmd(a))

	return rootCmd
}

// setup loads config, connects, and ensures the index exists before any action.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	// Bare invocation and help do not touch the cluster
	if cmd.Name() == "help" || (cmd == cmd.Root() && len(args) == 0) {
		return nil
	}

	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger, a.closeLog = config.SetupLogger(cfg.LogFile, level, a.stderr)
	a.metrics = metrics.NewCollector()

	a.search, err = search.NewClient(search.Config{
		URL:      cfg.OpenSearchURL,
		Username: cfg.OpenSearchUser,
		Password: cfg.OpenSearchPass,
		Insecure: cfg.OpenSearchInsecure,
		Index:    cfg.IndexName,
	}, a.metrics, a.logger)
	if err != nil {
		return fmt.Errorf("connect to opensearch: %w", err)
	}

	ctx, cancel := a.requestContext(cmd.Context())
	defer cancel()
	if _, err := a.search.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("initialize index %s: %w", cfg.IndexName, err)
	}
	return nil
}

// runUnknown handles the root command: help without an action, a no-op otherwise.
func (a *app) runUnknown(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	a.logger.Debug("unknown action, nothing to do", "action", args[0])
	return nil
}

// requestContext bounds a single OpenSearch round trip.
func (a *app) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, a.cfg.RequestTimeout)
}

func (a *app) close() {
	if a.closeLog != nil {
		if err := a.closeLog(); err != nil {
			fmt.Fprintf(a.stderr, "Warning: failed to close log file: %v\n", err)
		}
	}
}
