package models

import "fmt"

// ItemFailure describes one bulk action the service rejected.
type ItemFailure struct {
	Position int    // Zero-based position of the action in the request
	Status   int    // HTTP status reported for the item
	Type     string // Service error type, e.g. mapper_parsing_exception
	Reason   string
}

func (f ItemFailure) String() string {
	if f.Type == "" {
		return fmt.Sprintf("item %d: status %d: %s", f.Position, f.Status, f.Reason)
	}
	return fmt.Sprintf("item %d: status %d: %s: %s", f.Position, f.Status, f.Type, f.Reason)
}

// BulkResult summarizes a bulk submission.
type BulkResult struct {
	Attempted int
	Succeeded int
	Failed    []ItemFailure
}

// HasFailures reports whether any action was rejected.
func (r BulkResult) HasFailures() bool {
	return len(r.Failed) > 0
}
