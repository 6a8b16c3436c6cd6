package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/raphaelgruber/logchart/internal/chart"
	"github.com/raphaelgruber/logchart/internal/metrics"
	"github.com/raphaelgruber/logchart/internal/models"
	"github.com/raphaelgruber/logchart/internal/search"
)

// HistogramSource runs date histogram aggregations.
type HistogramSource interface {
	DateHistogram(ctx context.Context, q search.HistogramQuery) ([]models.Bucket, error)
}

// PlotService turns a date histogram into a bar chart on disk.
type PlotService struct {
	source  HistogramSource
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewPlotService creates a new plot service. collector may be nil.
func NewPlotService(source HistogramSource, collector *metrics.Collector, logger *slog.Logger) *PlotService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlotService{
		source:  source,
		metrics: collector,
		logger:  logger,
	}
}

// PlotOptions configures a plot operation.
type PlotOptions struct {
	// Start and End bound the range on index_time, both inclusive (YYYY-MM-DD)
	Start string
	End   string
	// Period is the calendar interval of each bucket, e.g. "1d"
	Period string
	// Output is the PNG path, overwritten if present
	Output string
	// Chart overrides the default chart appearance (nil uses chart.DefaultOptions)
	Chart *chart.Options
}

// Plot queries the histogram, renders it, and returns the plotted series.
func (s *PlotService) Plot(ctx context.Context, opts PlotOptions) (chart.Series, error) {
	buckets, err := s.source.DateHistogram(ctx, search.HistogramQuery{
		Start:    opts.Start,
		End:      opts.End,
		Interval: opts.Period,
	})
	if err != nil {
		return chart.Series{}, fmt.Errorf("query histogram: %w", err)
	}

	series := chart.FromBuckets(buckets)
	if series.Len() == 0 {
		s.logger.Warn("no documents in range", "start", opts.Start, "end", opts.End)
	}

	chartOpts := chart.DefaultOptions()
	if opts.Chart != nil {
		chartOpts = *opts.Chart
	}

	start := time.Now()
	err = chart.Save(series, chartOpts, opts.Output)
	if s.metrics != nil {
		s.metrics.RecordTiming(metrics.OpRender, time.Since(start))
	}
	if err != nil {
		return series, fmt.Errorf("render chart: %w", err)
	}

	s.logger.Info("chart saved", "path", opts.Output, "buckets", series.Len(), "documents", series.Total())
	return series, nil
}
