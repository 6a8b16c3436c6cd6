package cli

import (
	"fmt"

	"github.com/raphaelgruber/logchart/internal/service"
	"github.com/spf13/cobra"
)

func newIndexCmd(a *app) *cobra.Command {
	var (
		dataFile string
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Bulk-load a JSON array of log records into the index",
		Long: `Read a JSON array of objects and index every element as one document
in a single bulk request. Records are sent verbatim.

The data file defaults to data.json (LOGCHART_DATA_FILE). Rejected
documents are listed after the summary; use --strict to fail the run
when any document is rejected.

Examples:
  logchart index
  logchart index --file exports/2024-01.json
  logchart index --strict`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &UsageError{Usage: "Usage: " + cmd.UseLine()}
			}

			path := a.cfg.DataFile
			if dataFile != "" {
				path = dataFile
			}

			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()

			svc := service.NewIngestService(a.search, a.logger)
			result, err := svc.IngestFile(ctx, path)
			if err != nil {
				return fmt.Errorf("index %s: %w", path, err)
			}

			printBulkResult(a.stdout, result)

			if strict && result.HasFailures() {
				return fmt.Errorf("%d of %d documents rejected", len(result.Failed), result.Attempted)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataFile, "file", "f", "", "data file to load (overrides config)")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero if any document is rejected")

	return cmd
}
