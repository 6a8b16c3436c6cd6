package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// UsageError is a local invocation mistake. Run prints Usage to stdout and exits 1.
type UsageError struct {
	Usage string
	Err   error
}

func (e *UsageError) Error() string {
	if e.Err == nil {
		return e.Usage
	}
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// Run executes the CLI with args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	defer a.close()

	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)

	if a.showStats && a.metrics != nil {
		printStats(stdout, a.metrics.Snapshot())
	}

	return exitCode(err, stdout, stderr)
}

func exitCode(err error, stdout, stderr io.Writer) int {
	if err == nil {
		return 0
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintln(stdout, usageErr.Usage)
		return 1
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}
