package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/raphaelgruber/logchart/internal/metrics"
)

// IndexExists reports whether the configured index exists.
func (c *Client) IndexExists(ctx context.Context) (bool, error) {
	start := time.Now()
	res, err := c.os.Indices.Exists(
		[]string{c.index},
		c.os.Indices.Exists.WithContext(ctx),
	)
	c.recordTiming(metrics.OpIndexExists, start)
	if err != nil {
		return false, transportError("check index", err)
	}
	defer closeBody(res.Body)

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("check index: %w", serviceError(res))
	}
}

// CreateIndex creates the configured index with IndexMapping.
// Returns an error matching ErrIndexExists if the index is already there.
func (c *Client) CreateIndex(ctx context.Context) error {
	start := time.Now()
	res, err := c.os.Indices.Create(
		c.index,
		c.os.Indices.Create.WithBody(strings.NewReader(IndexMapping)),
		c.os.Indices.Create.WithContext(ctx),
	)
	c.recordTiming(metrics.OpIndexCreate, start)
	if err != nil {
		return transportError("create index", err)
	}
	defer closeBody(res.Body)

	if res.IsError() {
		return fmt.Errorf("create index: %w", serviceError(res))
	}
	return nil
}

// EnsureIndex creates the index with IndexMapping unless it already exists.
// It is idempotent: an existing index is left untouched, mapping included.
// Returns true if this call created the index.
func (c *Client) EnsureIndex(ctx context.Context) (bool, error) {
	exists, err := c.IndexExists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		c.logger.Debug("index already exists", "index", c.index)
		return false, nil
	}

	c.logger.Info("creating index", "index", c.index)
	if err := c.CreateIndex(ctx); err != nil {
		if errors.Is(err, ErrIndexExists) {
			c.logger.Debug("index created concurrently", "index", c.index)
			return false, nil
		}
		return false, err
	}
	return true, nil
}
