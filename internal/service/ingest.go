// Package service provides the index and plot operations behind the CLI.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/raphaelgruber/logchart/internal/models"
)

// ErrInvalidData indicates the data file is not a JSON array of objects.
var ErrInvalidData = errors.New("invalid data file")

// maxLoggedFailures caps per-item warnings for a single bulk request.
const maxLoggedFailures = 20

// BulkIndexer submits index actions to the search service.
type BulkIndexer interface {
	Index() string
	Bulk(ctx context.Context, actions []models.IndexAction) (models.BulkResult, error)
}

// IngestService loads log records from disk into the index.
type IngestService struct {
	indexer BulkIndexer
	logger  *slog.Logger
}

// NewIngestService creates a new ingest service.
func NewIngestService(indexer BulkIndexer, logger *slog.Logger) *IngestService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestService{
		indexer: indexer,
		logger:  logger,
	}
}

// ReadRecords reads a JSON array of objects from path.
func ReadRecords(path string) ([]models.LogRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	records, err := ParseRecords(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ParseRecords decodes a JSON array of objects. Records are not otherwise validated.
func ParseRecords(data []byte) ([]models.LogRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrInvalidData)
	}

	var records []models.LogRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	for i, r := range records {
		if !r.IsObject() {
			return nil, fmt.Errorf("%w: record %d is not a JSON object", ErrInvalidData, i)
		}
	}
	return records, nil
}

// BuildActions wraps every record as an index action targeting index.
func BuildActions(index string, records []models.LogRecord) []models.IndexAction {
	actions := make([]models.IndexAction, 0, len(records))
	for _, r := range records {
		actions = append(actions, models.NewIndexAction(index, r))
	}
	return actions
}

// IngestFile reads path and submits every record in a single bulk request.
func (s *IngestService) IngestFile(ctx context.Context, path string) (models.BulkResult, error) {
	records, err := ReadRecords(path)
	if err != nil {
		return models.BulkResult{}, err
	}
	return s.Ingest(ctx, records)
}

// Ingest submits records in a single bulk request.
func (s *IngestService) Ingest(ctx context.Context, records []models.LogRecord) (models.BulkResult, error) {
	index := s.indexer.Index()
	actions := BuildActions(index, records)

	s.logger.Info("bulk indexing", "index", index, "records", len(actions))
	result, err := s.indexer.Bulk(ctx, actions)
	if err != nil {
		return result, fmt.Errorf("bulk index: %w", err)
	}

	for i, f := range result.Failed {
		if i == maxLoggedFailures {
			s.logger.Warn("more bulk items rejected", "omitted", len(result.Failed)-maxLoggedFailures)
			break
		}
		s.logger.Warn("bulk item rejected",
			"position", f.Position,
			"status", f.Status,
			"type", f.Type,
			"reason", f.Reason)
	}
	s.logger.Info("bulk indexing complete",
		"index", index,
		"attempted", result.Attempted,
		"succeeded", result.Succeeded,
		"failed", len(result.Failed))

	return result, nil
}
