package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRecordIsObject(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`{"id":"1"}`, true},
		{"  \n{}", true},
		{`[1,2]`, false},
		{`"text"`, false},
		{`null`, false},
		{``, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, LogRecord(tt.raw).IsObject())
		})
	}
}

func TestLogRecordRoundTripKeepsBytes(t *testing.T) {
	var records []LogRecord
	require.NoError(t, json.Unmarshal([]byte(`[{"b":1,"a":2},{"id":"x"}]`), &records))
	require.Len(t, records, 2)
	assert.Equal(t, `{"b":1,"a":2}`, string(records[0]), "field order is preserved")

	action := NewIndexAction("logs", records[1])
	assert.Equal(t, OpIndex, action.Op)
	assert.Equal(t, "logs", action.Index)
}

func TestItemFailureString(t *testing.T) {
	f := ItemFailure{Position: 3, Status: 400, Type: "mapper_parsing_exception", Reason: "failed to parse field [index_time]"}
	assert.Equal(t, "item 3: status 400: mapper_parsing_exception: failed to parse field [index_time]", f.String())

	f.Type = ""
	assert.Equal(t, "item 3: status 400: failed to parse field [index_time]", f.String())
}

func TestBulkResultHasFailures(t *testing.T) {
	assert.False(t, BulkResult{Attempted: 2, Succeeded: 2}.HasFailures())
	assert.True(t, BulkResult{Attempted: 2, Succeeded: 1, Failed: []ItemFailure{{Position: 1}}}.HasFailures())
}
