//go:build integration

package search

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/raphaelgruber/logchart/internal/metrics"
	"github.com/raphaelgruber/logchart/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testURL string

// TestMain starts a single-node OpenSearch container for the integration tests.
func TestMain(m *testing.M) {
	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "opensearchproject/opensearch:2.11.1",
			ExposedPorts: []string{"9200/tcp"},
			Env: map[string]string{
				"discovery.type":          "single-node",
				"DISABLE_SECURITY_PLUGIN": "true",
				"OPENSEARCH_JAVA_OPTS":    "-Xms512m -Xmx512m",
			},
			WaitingFor: wait.ForHTTP("/").
				WithPort("9200/tcp").
				WithStatusCodeMatcher(func(status int) bool { return status == http.StatusOK }).
				WithStartupTimeout(120 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start OpenSearch container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	port, err := container.MappedPort(ctx, "9200")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}
	testURL = fmt.Sprintf("http://%s:%s", host, port.Port())

	code := m.Run()

	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newIntegrationClient(t *testing.T, index string) *Client {
	t.Helper()
	c, err := NewClient(Config{URL: testURL, Index: index}, metrics.NewCollector(), nil)
	require.NoError(t, err)
	return c
}

// refresh makes bulk-loaded documents visible to search.
func refresh(t *testing.T, c *Client) {
	t.Helper()
	res, err := c.os.Indices.Refresh(c.os.Indices.Refresh.WithIndex(c.index))
	require.NoError(t, err)
	defer closeBody(res.Body)
	require.False(t, res.IsError(), res.String())
}

func TestIntegrationEnsureIndex(t *testing.T) {
	ctx := context.Background()
	c := newIntegrationClient(t, "ensure-index")

	created, err := c.EnsureIndex(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = c.EnsureIndex(ctx)
	require.NoError(t, err)
	assert.False(t, created, "second call finds the index")

	err = c.CreateIndex(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIndexExists)
}

func TestIntegrationLoadAndHistogram(t *testing.T) {
	ctx := context.Background()
	c := newIntegrationClient(t, "logs")

	_, err := c.EnsureIndex(ctx)
	require.NoError(t, err)

	docs := []string{
		`{"id":"a","index_time":"2024-01-01T08:00:00Z","msg":"start"}`,
		`{"id":"b","index_time":"2024-01-01T09:30:00Z"}`,
		`{"id":"c","index_time":"2024-01-02T12:00:00Z","extra":{"nested":[1,2]}}`,
		`{"id":"d","index_time":"not a date"}`,
		`{"id":"e","index_time":"2024-02-15"}`,
	}
	actions := make([]models.IndexAction, len(docs))
	for i, d := range docs {
		actions[i] = models.NewIndexAction(c.Index(), models.LogRecord(d))
	}

	result, err := c.Bulk(ctx, actions)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Attempted)
	assert.Equal(t, 4, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, 3, result.Failed[0].Position)
	assert.Equal(t, "mapper_parsing_exception", result.Failed[0].Type)

	refresh(t, c)

	buckets, err := c.DateHistogram(ctx, HistogramQuery{Start: "2024-01-01", End: "2024-01-31", Interval: "1d"})
	require.NoError(t, err)
	assert.Equal(t, []models.Bucket{
		{Date: "2024-01-01", Count: 2},
		{Date: "2024-01-02", Count: 1},
	}, buckets)

	_, err = c.DateHistogram(ctx, HistogramQuery{Start: "2024-01-01", End: "2024-01-31", Interval: "fortnight"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrService)
}
