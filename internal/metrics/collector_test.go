package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotEmpty(t *testing.T) {
	c := NewCollector()
	snap := c.Snapshot()

	assert.Nil(t, snap.IndexExists)
	assert.Nil(t, snap.IndexCreate)
	assert.Nil(t, snap.Bulk)
	assert.Nil(t, snap.Search)
	assert.Nil(t, snap.Render)
	assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
}

func TestRecordTiming(t *testing.T) {
	c := NewCollector()
	c.RecordTiming(OpSearch, 10*time.Millisecond)
	c.RecordTiming(OpSearch, 30*time.Millisecond)

	snap := c.Snapshot()
	require.NotNil(t, snap.Search)
	assert.Equal(t, int64(2), snap.Search.Count)
	assert.Equal(t, int64(40), snap.Search.TotalTimeMs)
	assert.Equal(t, 20.0, snap.Search.AvgTimeMs)
	assert.Equal(t, int64(10), snap.Search.MinTimeMs)
	assert.Equal(t, int64(30), snap.Search.MaxTimeMs)
	assert.Nil(t, snap.Search.TotalItems, "search does not track items")
}

func TestRecordItems(t *testing.T) {
	c := NewCollector()
	c.RecordItems(OpBulk, 5*time.Millisecond, 10, 2)
	c.RecordItems(OpBulk, 5*time.Millisecond, 4, 0)

	snap := c.Snapshot()
	require.NotNil(t, snap.Bulk)
	require.NotNil(t, snap.Bulk.TotalItems)
	require.NotNil(t, snap.Bulk.FailedItems)
	assert.Equal(t, int64(2), snap.Bulk.Count)
	assert.Equal(t, int64(14), *snap.Bulk.TotalItems)
	assert.Equal(t, int64(2), *snap.Bulk.FailedItems)
}
