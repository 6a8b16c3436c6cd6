package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/raphaelgruber/logchart/internal/metrics"
	"github.com/raphaelgruber/logchart/internal/models"
)

// HistogramAggregation is the aggregation name used in date histogram requests.
const HistogramAggregation = "documents_per_day"

// BucketDateFormat is the format the service applies to bucket keys.
const BucketDateFormat = "yyyy-MM-dd"

// HistogramQuery describes a ranged date histogram over TimeField.
// Start and End are inclusive and passed to the service verbatim, as is Interval.
type HistogramQuery struct {
	Start    string
	End      string
	Interval string // calendar interval, e.g. "1d", "1w", "1M"
}

// Body renders the search request body for q.
func (q HistogramQuery) Body() ([]byte, error) {
	body := map[string]any{
		"size": 0,
		"query": map[string]any{
			"range": map[string]any{
				TimeField: map[string]any{
					"gte": q.Start,
					"lte": q.End,
				},
			},
		},
		"aggs": map[string]any{
			HistogramAggregation: map[string]any{
				"date_histogram": map[string]any{
					"field":             TimeField,
					"calendar_interval": q.Interval,
					"format":            BucketDateFormat,
				},
			},
		},
	}
	return json.Marshal(body)
}

type histogramResponse struct {
	Aggregations map[string]struct {
		Buckets []struct {
			KeyAsString string `json:"key_as_string"`
			DocCount    int64  `json:"doc_count"`
		} `json:"buckets"`
	} `json:"aggregations"`
}

// DateHistogram runs q against the index and returns buckets in the order the
// service returned them (ascending by bucket start).
func (c *Client) DateHistogram(ctx context.Context, q HistogramQuery) ([]models.Bucket, error) {
	body, err := q.Body()
	if err != nil {
		return nil, fmt.Errorf("encode histogram query: %w", err)
	}

	start := time.Now()
	res, err := c.os.Search(
		c.os.Search.WithIndex(c.index),
		c.os.Search.WithBody(bytes.NewReader(body)),
		c.os.Search.WithContext(ctx),
	)
	c.recordTiming(metrics.OpSearch, start)
	if err != nil {
		return nil, transportError("histogram search", err)
	}
	defer closeBody(res.Body)

	if res.IsError() {
		return nil, fmt.Errorf("histogram search: %w", serviceError(res))
	}

	var hr histogramResponse
	if err := json.NewDecoder(res.Body).Decode(&hr); err != nil {
		return nil, fmt.Errorf("histogram search: %w: %w", ErrMalformedResponse, err)
	}
	agg, ok := hr.Aggregations[HistogramAggregation]
	if !ok {
		return nil, fmt.Errorf("histogram search: %w: aggregation %q missing", ErrMalformedResponse, HistogramAggregation)
	}

	buckets := make([]models.Bucket, 0, len(agg.Buckets))
	for _, b := range agg.Buckets {
		buckets = append(buckets, models.Bucket{Date: b.KeyAsString, Count: b.DocCount})
	}

	c.logger.Debug("histogram search complete",
		"index", c.index,
		"start", q.Start,
		"end", q.End,
		"interval", q.Interval,
		"buckets", len(buckets))

	return buckets, nil
}
