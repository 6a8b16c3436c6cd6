package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/raphaelgruber/logchart/internal/metrics"
	"github.com/raphaelgruber/logchart/internal/models"
	"golang.org/x/term"
)

// maxPrintedFailures caps the rejected documents listed after an index run.
const maxPrintedFailures = 10

// Theme holds the color scheme for terminal output.
type Theme struct {
	Title   lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Title:   lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Title).Bold(true)
}

func (t Theme) successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printBulkResult displays the outcome of an index run.
func printBulkResult(w io.Writer, r models.BulkResult) {
	fmt.Fprintln(w, defaultTheme.successStyle().Render(fmt.Sprintf("Indexed %d documents", r.Succeeded)))
	if !r.HasFailures() {
		return
	}

	fmt.Fprintln(w, defaultTheme.errorStyle().Render(
		fmt.Sprintf("%d of %d documents rejected:", len(r.Failed), r.Attempted)))
	for i, f := range r.Failed {
		if i == maxPrintedFailures {
			fmt.Fprintln(w, defaultTheme.hintStyle().Render(
				fmt.Sprintf("  ... and %d more (see log file)", len(r.Failed)-maxPrintedFailures)))
			break
		}
		fmt.Fprintf(w, "  • %s\n", f)
	}
}

// printStats displays request timings collected during the run.
func printStats(w io.Writer, stats metrics.Snapshot) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, defaultTheme.titleStyle().Render("Run Statistics"))
	fmt.Fprintf(w, "═══════════════════════════════════════\n")
	fmt.Fprintf(w, "Elapsed: %.1f seconds\n", stats.UptimeSeconds)

	ops := []struct {
		name string
		snap *metrics.OperationSnapshot
	}{
		{"Index Exists", stats.IndexExists},
		{"Index Create", stats.IndexCreate},
		{"Bulk", stats.Bulk},
		{"Search", stats.Search},
		{"Render", stats.Render},
	}
	for _, op := range ops {
		if op.snap == nil {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", op.name)
		printOpStats(w, op.snap)
	}
}

// printOpStats displays timing statistics for an operation.
func printOpStats(w io.Writer, op *metrics.OperationSnapshot) {
	fmt.Fprintf(w, "  Calls: %d, Total: %dms\n", op.Count, op.TotalTimeMs)
	fmt.Fprintf(w, "  Time: avg %.1fms, min %dms, max %dms\n",
		op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs)
	if op.TotalItems != nil && op.FailedItems != nil {
		fmt.Fprintf(w, "  Items: %d total, %d rejected\n", *op.TotalItems, *op.FailedItems)
	}
}
