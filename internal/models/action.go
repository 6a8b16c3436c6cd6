package models

// OpIndex is the bulk operation used for every record.
const OpIndex = "index"

// IndexAction pairs a bulk operation with its target index and source document.
type IndexAction struct {
	Op     string
	Index  string
	Source LogRecord
}

// NewIndexAction wraps a record as an "index" action for the given index.
func NewIndexAction(index string, record LogRecord) IndexAction {
	return IndexAction{
		Op:     OpIndex,
		Index:  index,
		Source: record,
	}
}
