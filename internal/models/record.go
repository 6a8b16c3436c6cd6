// Package models defines data structures shared by the log indexer and charting commands.
package models

import (
	"bytes"
	"encoding/json"
)

// LogRecord is a single log document read from the input file.
// It is kept as raw JSON so fields outside the index mapping pass through untouched.
type LogRecord json.RawMessage

// IsObject reports whether the record is a JSON object.
func (r LogRecord) IsObject() bool {
	trimmed := bytes.TrimSpace(r)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// MarshalJSON returns the record unchanged.
func (r LogRecord) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	return r, nil
}

// UnmarshalJSON stores a copy of data.
func (r *LogRecord) UnmarshalJSON(data []byte) error {
	*r = append((*r)[0:0], data...)
	return nil
}
