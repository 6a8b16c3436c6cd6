package cli

import (
	"fmt"
	"io"
	"strings"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/logchart/internal/chart"
)

const histogramBarWidth = 40

// histogramModel is the bubbletea model for the interactive chart view.
type histogramModel struct {
	series     chart.Series
	output     string
	bar        progress.Model
	theme      Theme
	labelWidth int
	countWidth int
}

// newHistogramModel creates a view of series; output is the saved PNG path.
func newHistogramModel(series chart.Series, output string) histogramModel {
	bar := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(histogramBarWidth),
		progress.WithoutPercentage(),
	)

	m := histogramModel{
		series: series,
		output: output,
		bar:    bar,
		theme:  defaultTheme,
	}
	for _, l := range series.Labels {
		m.labelWidth = max(m.labelWidth, len(l))
	}
	m.countWidth = len(fmt.Sprint(series.Max()))
	return m
}

// Init returns no initial command; the view is static.
func (m histogramModel) Init() tea.Cmd {
	return nil
}

// Update quits on any dismiss key.
func (m histogramModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case "q", "esc", "enter", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the chart.
func (m histogramModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

// renderContent builds the display string: one gauge per bucket, scaled to the largest.
func (m histogramModel) renderContent() string {
	var b strings.Builder
	b.WriteString(m.theme.titleStyle().Render(chart.DefaultOptions().Title))
	b.WriteString("\n\n")

	if m.series.Len() == 0 {
		b.WriteString("No documents in range.\n")
	}

	peak := m.series.Max()
	for i, label := range m.series.Labels {
		count := m.series.Counts[i]
		var pct float64
		if peak > 0 {
			pct = float64(count) / float64(peak)
		}
		fmt.Fprintf(&b, "%-*s %s %*d\n", m.labelWidth, label, m.bar.ViewAs(pct), m.countWidth, count)
	}

	b.WriteString("\n")
	b.WriteString(m.theme.hintStyle().Render(
		fmt.Sprintf("%d documents · saved to %s · press q to close", m.series.Total(), m.output)))
	b.WriteString("\n")
	return b.String()
}

// showHistogram displays series until the user dismisses it.
func showHistogram(out io.Writer, series chart.Series, output string) error {
	p := tea.NewProgram(newHistogramModel(series, output), tea.WithOutput(out))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chart view: %w", err)
	}
	return nil
}
