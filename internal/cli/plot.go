package cli

import (
	"fmt"

	"github.com/raphaelgruber/logchart/internal/service"
	"github.com/spf13/cobra"
)

const plotUsage = "Usage: logchart plot <start_date> <end_date> <period>"

func newPlotCmd(a *app) *cobra.Command {
	var (
		output string
		noShow bool
	)

	cmd := &cobra.Command{
		Use:   "plot <start_date> <end_date> <period>",
		Short: "Chart indexed documents per time bucket",
		Long: `Run a date histogram over index_time between start_date and end_date
(inclusive, YYYY-MM-DD) with the given calendar interval and save it as a
bar chart PNG (open_search.png by default, LOGCHART_CHART_FILE).

Dates and period are passed to OpenSearch unchanged; the cluster rejects
values it cannot parse. When stdout is a terminal the chart is also shown
in an interactive view until you press q.

Examples:
  logchart plot 2024-01-01 2024-01-31 1d
  logchart plot 2024-01-01 2024-12-31 1M --output monthly.png
  logchart plot 2024-01-01 2024-01-07 1d --no-show`,
		// Arity is checked in RunE, after the index initializer
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				return &UsageError{Usage: plotUsage}
			}

			path := a.cfg.ChartFile
			if output != "" {
				path = output
			}

			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()

			svc := service.NewPlotService(a.search, a.metrics, a.logger)
			series, err := svc.Plot(ctx, service.PlotOptions{
				Start:  args[0],
				End:    args[1],
				Period: args[2],
				Output: path,
			})
			if err != nil {
				return fmt.Errorf("plot: %w", err)
			}

			fmt.Fprintf(a.stdout, "Saved chart with %d buckets to %s\n", series.Len(), path)

			if noShow || !isTerminal(a.stdout) {
				return nil
			}
			return showHistogram(a.stdout, series, path)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG output path (overrides config)")
	cmd.Flags().BoolVar(&noShow, "no-show", false, "do not open the interactive view")

	return cmd
}
