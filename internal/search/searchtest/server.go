// Package searchtest provides an in-process fake of the OpenSearch endpoints used by logchart.
package searchtest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/raphaelgruber/logchart/internal/models"
)

// Server is a fake OpenSearch cluster backed by httptest.
// It understands index HEAD/PUT, _bulk and _search with a date histogram.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	indices  map[string][]byte // index -> mapping body it was created with
	counts   map[string]int    // operation -> calls
	docs     [][]byte
	lastBody []byte

	// RejectItems maps bulk positions to rejection reasons.
	RejectItems map[int]string
	// Buckets is returned by every histogram search.
	Buckets []models.Bucket
	// SearchError, when set, makes _search answer 400 with this reason.
	SearchError string
	// Down makes every endpoint answer 503.
	Down bool
}

// NewServer starts a fake cluster and closes it when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		indices:     make(map[string][]byte),
		counts:      make(map[string]int),
		RejectItems: make(map[int]string),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Operation names reported by Calls.
const (
	OpExists = "exists"
	OpCreate = "create"
	OpBulk   = "bulk"
	OpSearch = "search"
)

// Calls returns how many requests hit op.
func (s *Server) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[op]
}

// AddIndex registers an existing index.
func (s *Server) AddIndex(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indices[name] = []byte("{}")
}

// Mapping returns the body an index was created with, or nil.
func (s *Server) Mapping(name string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indices[name]
}

// Docs returns the source lines of every accepted bulk item.
func (s *Server) Docs() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.docs...)
}

// LastBody returns the body of the most recent _bulk or _search request.
func (s *Server) LastBody() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBody
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Down {
		writeError(w, http.StatusServiceUnavailable, "cluster_block_exception", "cluster unavailable")
		return
	}

	path := strings.Trim(r.URL.Path, "/")
	parts := strings.Split(path, "/")

	switch {
	case path == "":
		writeJSON(w, http.StatusOK, map[string]any{
			"name":         "fake",
			"cluster_name": "searchtest",
			"version":      map[string]any{"distribution": "opensearch", "number": "2.11.1"},
			"tagline":      "The OpenSearch Project: https://opensearch.org/",
		})
	case path == "_bulk" && r.Method == http.MethodPost:
		s.counts[OpBulk]++
		s.bulk(w, r)
	case len(parts) == 2 && parts[1] == "_search":
		s.counts[OpSearch]++
		s.search(w, r, parts[0])
	case len(parts) == 1 && r.Method == http.MethodHead:
		s.counts[OpExists]++
		if _, ok := s.indices[parts[0]]; ok {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case len(parts) == 1 && r.Method == http.MethodPut:
		s.counts[OpCreate]++
		s.create(w, r, parts[0])
	default:
		writeError(w, http.StatusBadRequest, "illegal_argument_exception",
			fmt.Sprintf("unsupported request %s %s", r.Method, r.URL.Path))
	}
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, index string) {
	if _, ok := s.indices[index]; ok {
		writeError(w, http.StatusBadRequest, "resource_already_exists_exception",
			fmt.Sprintf("index [%s] already exists", index))
		return
	}
	body, _ := io.ReadAll(r.Body)
	s.indices[index] = body
	writeJSON(w, http.StatusOK, map[string]any{
		"acknowledged":        true,
		"shards_acknowledged": true,
		"index":               index,
	})
}

func (s *Server) bulk(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.lastBody = body

	var lines [][]byte
	sc := bufio.NewScanner(bytes.NewReader(body))
	sc.Buffer(make([]byte, 0, 64<<10), 16<<20)
	for sc.Scan() {
		if line := bytes.TrimSpace(sc.Bytes()); len(line) > 0 {
			lines = append(lines, append([]byte(nil), line...))
		}
	}
	if len(lines)%2 != 0 {
		writeError(w, http.StatusBadRequest, "illegal_argument_exception", "the bulk request must be terminated by a newline")
		return
	}

	items := make([]map[string]any, 0, len(lines)/2)
	hasErrors := false
	for i := 0; i < len(lines); i += 2 {
		pos := i / 2
		var meta map[string]map[string]string
		if err := json.Unmarshal(lines[i], &meta); err != nil {
			writeError(w, http.StatusBadRequest, "parse_exception", err.Error())
			return
		}
		for op, m := range meta {
			item := map[string]any{"_index": m["_index"], "_id": fmt.Sprintf("doc-%d", len(s.docs)+pos)}
			if reason, rejected := s.RejectItems[pos]; rejected {
				hasErrors = true
				item["status"] = http.StatusBadRequest
				item["error"] = map[string]any{"type": "mapper_parsing_exception", "reason": reason}
			} else {
				item["status"] = http.StatusCreated
				item["result"] = "created"
				s.docs = append(s.docs, lines[i+1])
			}
			items = append(items, map[string]any{op: item})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"took":   3,
		"errors": hasErrors,
		"items":  items,
	})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, index string) {
	body, _ := io.ReadAll(r.Body)
	s.lastBody = body

	if _, ok := s.indices[index]; !ok {
		writeError(w, http.StatusNotFound, "index_not_found_exception", fmt.Sprintf("no such index [%s]", index))
		return
	}
	if s.SearchError != "" {
		writeError(w, http.StatusBadRequest, "search_phase_execution_exception", s.SearchError)
		return
	}

	buckets := make([]map[string]any, 0, len(s.Buckets))
	for _, b := range s.Buckets {
		buckets = append(buckets, map[string]any{"key_as_string": b.Date, "doc_count": b.Count})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"took":      2,
		"timed_out": false,
		"hits":      map[string]any{"total": map[string]any{"value": 0, "relation": "eq"}, "hits": []any{}},
		"aggregations": map[string]any{
			"documents_per_day": map[string]any{"buckets": buckets},
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, typ, reason string) {
	writeJSON(w, status, map[string]any{
		"error":  map[string]any{"type": typ, "reason": reason},
		"status": status,
	})
}
