// Package chart renders date histogram buckets as a bar chart.
package chart

import "github.com/raphaelgruber/logchart/internal/models"

// Series is the data behind one bar chart: one label and one count per bar, in display order.
type Series struct {
	Labels []string
	Counts []int64
}

// FromBuckets maps buckets to a series, keeping the bucket order.
func FromBuckets(buckets []models.Bucket) Series {
	s := Series{
		Labels: make([]string, 0, len(buckets)),
		Counts: make([]int64, 0, len(buckets)),
	}
	for _, b := range buckets {
		s.Labels = append(s.Labels, b.Date)
		s.Counts = append(s.Counts, b.Count)
	}
	return s
}

// Len returns the number of bars.
func (s Series) Len() int {
	return len(s.Labels)
}

// Values returns the counts as float64 y-values.
func (s Series) Values() []float64 {
	vs := make([]float64, len(s.Counts))
	for i, c := range s.Counts {
		vs[i] = float64(c)
	}
	return vs
}

// Max returns the largest count, or 0 for an empty series.
func (s Series) Max() int64 {
	var m int64
	for _, c := range s.Counts {
		if c > m {
			m = c
		}
	}
	return m
}

// Total returns the sum of all counts.
func (s Series) Total() int64 {
	var t int64
	for _, c := range s.Counts {
		t += c
	}
	return t
}
