package models

// Bucket is one date histogram bucket: a formatted bucket start and its document count.
type Bucket struct {
	Date  string
	Count int64
}
