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

// bulkResponse is the subset of the _bulk response we read.
// Each item is keyed by its operation name ("index", "create", ...).
type bulkResponse struct {
	Took   int                   `json:"took"`
	Errors bool                  `json:"errors"`
	Items  []map[string]bulkItem `json:"items"`
}

type bulkItem struct {
	Index  string       `json:"_index"`
	ID     string       `json:"_id"`
	Result string       `json:"result"`
	Status int          `json:"status"`
	Error  *errorDetail `json:"error,omitempty"`
}

// EncodeBulkBody renders actions as the newline-delimited _bulk request body.
// Sources are compacted so each document occupies exactly one line.
func EncodeBulkBody(actions []models.IndexAction) ([]byte, error) {
	var buf bytes.Buffer
	for i, a := range actions {
		meta, err := json.Marshal(map[string]map[string]string{
			a.Op: {"_index": a.Index},
		})
		if err != nil {
			return nil, fmt.Errorf("encode action %d: %w", i, err)
		}
		buf.Write(meta)
		buf.WriteByte('\n')

		if err := json.Compact(&buf, a.Source); err != nil {
			return nil, fmt.Errorf("encode source %d: %w", i, err)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Bulk submits all actions in a single _bulk request.
// A request-level failure is returned as an error; per-item rejections are
// reported in the result so callers can tell partial success from full success.
func (c *Client) Bulk(ctx context.Context, actions []models.IndexAction) (models.BulkResult, error) {
	result := models.BulkResult{Attempted: len(actions)}
	if len(actions) == 0 {
		return result, nil
	}

	body, err := EncodeBulkBody(actions)
	if err != nil {
		return result, err
	}

	start := time.Now()
	res, err := c.os.Bulk(
		bytes.NewReader(body),
		c.os.Bulk.WithContext(ctx),
	)
	if err != nil {
		c.recordTiming(metrics.OpBulk, start)
		return result, transportError("bulk", err)
	}
	defer closeBody(res.Body)

	if res.IsError() {
		c.recordTiming(metrics.OpBulk, start)
		return result, fmt.Errorf("bulk: %w", serviceError(res))
	}

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		c.recordTiming(metrics.OpBulk, start)
		return result, fmt.Errorf("bulk: %w: %w", ErrMalformedResponse, err)
	}
	if len(br.Items) != len(actions) {
		c.recordTiming(metrics.OpBulk, start)
		return result, fmt.Errorf("bulk: %w: %d items for %d actions", ErrMalformedResponse, len(br.Items), len(actions))
	}

	for i, entry := range br.Items {
		item, ok := entry[actions[i].Op]
		if !ok {
			// Fall back to whatever single operation key the service used.
			for _, v := range entry {
				item = v
			}
		}
		if item.Status >= 200 && item.Status < 300 {
			result.Succeeded++
			continue
		}

		failure := models.ItemFailure{Position: i, Status: item.Status}
		if item.Error != nil {
			failure.Type = item.Error.Type
			failure.Reason = item.Error.Reason
		}
		result.Failed = append(result.Failed, failure)
	}

	if c.metrics != nil {
		c.metrics.RecordItems(metrics.OpBulk, time.Since(start), int64(len(actions)), int64(len(result.Failed)))
	}
	c.logger.Debug("bulk request complete",
		"index", c.index,
		"took_ms", br.Took,
		"succeeded", result.Succeeded,
		"failed", len(result.Failed))

	return result, nil
}
