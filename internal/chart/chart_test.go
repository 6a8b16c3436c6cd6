package chart

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/raphaelgruber/logchart/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func tickLabels(t *testing.T, s Series) []string {
	t.Helper()
	p, _, err := Build(s, DefaultOptions())
	require.NoError(t, err)

	var labels []string
	for _, tick := range p.X.Tick.Marker.Ticks(p.X.Min, p.X.Max) {
		labels = append(labels, tick.Label)
	}
	return labels
}

func TestFromBucketsPreservesOrder(t *testing.T) {
	s := FromBuckets([]models.Bucket{
		{Date: "2024-01-01", Count: 5},
		{Date: "2024-01-02", Count: 3},
	})

	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, s.Labels)
	assert.Equal(t, []int64{5, 3}, s.Counts)
	assert.Equal(t, []float64{5, 3}, s.Values())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, int64(5), s.Max())
	assert.Equal(t, int64(8), s.Total())
}

func TestFromBucketsEmpty(t *testing.T) {
	s := FromBuckets(nil)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, int64(0), s.Max())
	assert.Equal(t, int64(0), s.Total())
	assert.Empty(t, s.Values())
}

func TestBuildBars(t *testing.T) {
	s := FromBuckets([]models.Bucket{
		{Date: "2024-01-01", Count: 5},
		{Date: "2024-01-02", Count: 3},
	})

	p, bars, err := Build(s, DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, bars)

	assert.Equal(t, []float64{5, 3}, []float64(bars.Values))
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, tickLabels(t, s))
	assert.Equal(t, "Indexed Documents Over Time", p.Title.Text)
	assert.Equal(t, "Date", p.X.Label.Text)
	assert.Equal(t, "Number of Documents Indexed", p.Y.Label.Text)
	assert.InDelta(t, 0.785, p.X.Tick.Label.Rotation, 0.001)
}

func TestBuildEmpty(t *testing.T) {
	p, bars, err := Build(Series{}, DefaultOptions())
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Nil(t, bars, "no buckets means no bars")
	assert.Empty(t, tickLabels(t, Series{}))
}

func TestBarWidth(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want vg.Length
	}{
		{"empty", 0, vg.Points(maxBarWidth)},
		{"few bars capped", 3, vg.Points(maxBarWidth)},
		{"many bars floor", 10000, vg.Points(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, barWidth(10*vg.Inch, tt.n))
		})
	}

	w := barWidth(10*vg.Inch, 100)
	assert.Less(t, float64(w), float64(vg.Points(maxBarWidth)))
	assert.Greater(t, float64(w), float64(vg.Points(1)))
}

func TestSaveWritesPNG(t *testing.T) {
	tests := []struct {
		name   string
		series Series
	}{
		{"with buckets", FromBuckets([]models.Bucket{{Date: "2024-01-01", Count: 5}, {Date: "2024-01-02", Count: 3}})},
		{"empty", Series{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "open_search.png")
			require.NoError(t, Save(tt.series, DefaultOptions(), path))

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			cfg, err := png.DecodeConfig(f)
			require.NoError(t, err, "output must be a PNG")
			assert.Greater(t, cfg.Width, cfg.Height, "10x6 chart is landscape")
		})
	}
}

func TestSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "open_search.png")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, Save(FromBuckets([]models.Bucket{{Date: "2024-01-01", Count: 1}}), DefaultOptions(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.DecodeConfig(f)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be cleaned up")
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "daily", "out.png")
	require.NoError(t, Save(Series{}, DefaultOptions(), path))
	assert.FileExists(t, path)
}
