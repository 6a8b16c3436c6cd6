package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Sentinel errors for search operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrService indicates the OpenSearch cluster was unreachable or rejected a request.
	ErrService = errors.New("opensearch request failed")

	// ErrIndexExists indicates a create request lost the race to another creator.
	ErrIndexExists = errors.New("index already exists")

	// ErrMalformedResponse indicates a response body that does not match the expected shape.
	ErrMalformedResponse = errors.New("malformed opensearch response")
)

// ServiceError is an error response returned by OpenSearch.
// It matches ErrService, and ErrIndexExists for resource_already_exists_exception.
type ServiceError struct {
	Status int
	Type   string
	Reason string
}

func (e *ServiceError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("opensearch status %d: %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("opensearch status %d: %s: %s", e.Status, e.Type, e.Reason)
}

// Is reports whether target is one of the sentinels this error represents.
func (e *ServiceError) Is(target error) bool {
	switch target {
	case ErrService:
		return true
	case ErrIndexExists:
		return e.Type == "resource_already_exists_exception"
	default:
		return false
	}
}

// errorBody is the standard OpenSearch error envelope. "error" is an object
// for most failures and a bare string for some proxy and auth errors.
type errorBody struct {
	Error  json.RawMessage `json:"error"`
	Status int             `json:"status"`
}

type errorDetail struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// serviceError builds a ServiceError from a non-2xx response.
func serviceError(res *opensearchapi.Response) error {
	se := &ServiceError{Status: res.StatusCode}

	var raw []byte
	if res.Body != nil {
		raw, _ = io.ReadAll(io.LimitReader(res.Body, 64<<10))
	}

	var body errorBody
	if len(raw) == 0 || json.Unmarshal(raw, &body) != nil || len(body.Error) == 0 {
		se.Reason = string(raw)
		if se.Reason == "" {
			se.Reason = res.Status()
		}
		return se
	}

	var detail errorDetail
	if err := json.Unmarshal(body.Error, &detail); err == nil {
		se.Type = detail.Type
		se.Reason = detail.Reason
		return se
	}

	var msg string
	if err := json.Unmarshal(body.Error, &msg); err == nil {
		se.Reason = msg
		return se
	}

	se.Reason = string(body.Error)
	return se
}

// transportError wraps a failure to reach the cluster at all.
func transportError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrService, err)
}
