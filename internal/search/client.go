// Package search provides OpenSearch connectivity for the log index.
package search

import (
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/raphaelgruber/logchart/internal/metrics"
)

// Config holds OpenSearch connection configuration.
type Config struct {
	URL      string
	Username string
	Password string
	Insecure bool // skip TLS certificate verification
	Index    string
}

// Client wraps an OpenSearch client bound to a single index.
type Client struct {
	os      *opensearch.Client
	index   string
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewClient creates a new OpenSearch client for cfg.Index.
// Both collector and log may be nil.
func NewClient(cfg Config, collector *metrics.Collector, log *slog.Logger) (*Client, error) {
	if cfg.Index == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if log == nil {
		log = slog.Default()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	osClient, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create opensearch client: %w", err)
	}

	log.Debug("opensearch client configured", "url", cfg.URL, "index", cfg.Index)
	return &Client{os: osClient, index: cfg.Index, metrics: collector, logger: log}, nil
}

// Index returns the name of the index this client targets.
func (c *Client) Index() string {
	return c.index
}

func (c *Client) recordTiming(op string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordTiming(op, time.Since(start))
	}
}

func closeBody(body io.ReadCloser) {
	if body != nil {
		_ = body.Close()
	}
}
