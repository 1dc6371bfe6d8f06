package meili

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/caseindex-core/internal/core/domain"
	"github.com/custodia-labs/caseindex-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SearchEngine = (*SearchEngine)(nil)

// SearchEngine implements driven.SearchEngine using Meilisearch.
// Writes go through the task queue: every mutating call returns a task uid
// that WaitForTask polls until the engine reports success or failure.
type SearchEngine struct {
	baseURL      string
	apiKey       string
	indexUID     string
	embedder     string
	pollInterval time.Duration
	httpClient   *http.Client
}

// Config holds Meilisearch connection configuration
type Config struct {
	// BaseURL is the Meilisearch endpoint (e.g., http://localhost:7700)
	BaseURL string

	// APIKey is the master or API key; empty disables auth
	APIKey string

	// IndexUID is the index holding the case documents
	IndexUID string

	// Embedder names the engine-side embedder used for hybrid queries
	Embedder string

	// Timeout for HTTP requests
	Timeout time.Duration

	// PollInterval between task status checks
	PollInterval time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:      baseURL,
		IndexUID:     "incidents",
		Embedder:     "ollama",
		Timeout:      30 * time.Second,
		PollInterval: 200 * time.Millisecond,
	}
}

// NewSearchEngine creates a new Meilisearch-backed SearchEngine
func NewSearchEngine(cfg Config) *SearchEngine {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 200 * time.Millisecond
	}
	return &SearchEngine{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		indexUID:     cfg.IndexUID,
		embedder:     cfg.Embedder,
		pollInterval: pollInterval,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Wire types for the Meilisearch HTTP API

type taskInfo struct {
	TaskUID int64 `json:"taskUid"`
}

type taskError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type task struct {
	UID    int64      `json:"uid"`
	Status string     `json:"status"`
	Error  *taskError `json:"error"`
}

type createIndexRequest struct {
	UID        string `json:"uid"`
	PrimaryKey string `json:"primaryKey"`
}

type hybridSpec struct {
	Embedder      string  `json:"embedder"`
	SemanticRatio float64 `json:"semanticRatio"`
}

type searchRequest struct {
	Query            string      `json:"q"`
	Filter           string      `json:"filter,omitempty"`
	Limit            int64       `json:"limit"`
	Offset           int64       `json:"offset"`
	Hybrid           *hybridSpec `json:"hybrid,omitempty"`
	ShowRankingScore bool        `json:"showRankingScore"`
}

// hit carries the document plus the engine's ranking score
type hit struct {
	domain.CaseDocument
	RankingScore float64 `json:"_rankingScore"`
}

type searchResponse struct {
	Hits               []hit `json:"hits"`
	EstimatedTotalHits int64 `json:"estimatedTotalHits"`
	ProcessingTimeMs   int64 `json:"processingTimeMs"`
}

// AddDocuments enqueues a batch of documents for indexing.
func (s *SearchEngine) AddDocuments(ctx context.Context, docs []*domain.CaseDocument) (domain.TaskHandle, error) {
	url := fmt.Sprintf("%s/indexes/%s/documents", s.baseURL, s.indexUID)

	var info taskInfo
	if err := s.do(ctx, http.MethodPost, url, docs, &info); err != nil {
		return 0, fmt.Errorf("add documents: %w", err)
	}
	return domain.TaskHandle(info.TaskUID), nil
}

// WaitForTask polls the task until it reaches a terminal status. A failed
// task returns the engine's error message; index_already_exists maps to
// domain.ErrAlreadyExists so callers can tolerate it.
func (s *SearchEngine) WaitForTask(ctx context.Context, handle domain.TaskHandle) error {
	url := fmt.Sprintf("%s/tasks/%d", s.baseURL, handle)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		var t task
		if err := s.do(ctx, http.MethodGet, url, nil, &t); err != nil {
			return fmt.Errorf("poll task %d: %w", handle, err)
		}

		switch t.Status {
		case "succeeded":
			return nil
		case "failed", "canceled":
			if t.Error != nil {
				if t.Error.Code == "index_already_exists" {
					return fmt.Errorf("task %d: %w", handle, domain.ErrAlreadyExists)
				}
				return fmt.Errorf("task %d failed: %s (%s)", handle, t.Error.Message, t.Error.Code)
			}
			return fmt.Errorf("task %d %s", handle, t.Status)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Search executes one query against the index.
func (s *SearchEngine) Search(ctx context.Context, query domain.EngineQuery) (*domain.EngineResult, error) {
	url := fmt.Sprintf("%s/indexes/%s/search", s.baseURL, s.indexUID)

	req := searchRequest{
		Query:            query.Query,
		Filter:           query.Filter,
		Limit:            query.Limit,
		Offset:           query.Offset,
		ShowRankingScore: true,
	}
	if query.Hybrid != nil {
		req.Hybrid = &hybridSpec{
			Embedder:      s.embedder,
			SemanticRatio: query.Hybrid.SemanticRatio,
		}
	}

	var resp searchResponse
	if err := s.do(ctx, http.MethodPost, url, req, &resp); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	result := &domain.EngineResult{
		Hits:               make([]*domain.RankedDocument, len(resp.Hits)),
		EstimatedTotalHits: resp.EstimatedTotalHits,
		ProcessingTimeMs:   resp.ProcessingTimeMs,
	}
	for i := range resp.Hits {
		doc := resp.Hits[i].CaseDocument
		result.Hits[i] = &domain.RankedDocument{
			Document: &doc,
			Score:    resp.Hits[i].RankingScore,
		}
	}
	return result, nil
}

// CreateIndex creates the index with id as its primary key and waits for the
// task. Returns domain.ErrAlreadyExists if the index is already present.
func (s *SearchEngine) CreateIndex(ctx context.Context) error {
	url := s.baseURL + "/indexes"

	var info taskInfo
	err := s.do(ctx, http.MethodPost, url, createIndexRequest{
		UID:        s.indexUID,
		PrimaryKey: "id",
	}, &info)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return s.WaitForTask(ctx, domain.TaskHandle(info.TaskUID))
}

// UpdateSettings applies index settings and waits for them to take effect.
func (s *SearchEngine) UpdateSettings(ctx context.Context, settings domain.IndexSettings) error {
	url := fmt.Sprintf("%s/indexes/%s/settings", s.baseURL, s.indexUID)

	var info taskInfo
	if err := s.do(ctx, http.MethodPatch, url, settings, &info); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return s.WaitForTask(ctx, domain.TaskHandle(info.TaskUID))
}

// Stats retrieves a snapshot of the index.
func (s *SearchEngine) Stats(ctx context.Context) (*domain.IndexStats, error) {
	url := fmt.Sprintf("%s/indexes/%s/stats", s.baseURL, s.indexUID)

	var stats struct {
		NumberOfDocuments int64 `json:"numberOfDocuments"`
		IsIndexing        bool  `json:"isIndexing"`
	}
	if err := s.do(ctx, http.MethodGet, url, nil, &stats); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &domain.IndexStats{
		NumberOfDocuments: stats.NumberOfDocuments,
		IsIndexing:        stats.IsIndexing,
	}, nil
}

// HealthCheck verifies the engine is available.
func (s *SearchEngine) HealthCheck(ctx context.Context) error {
	var health struct {
		Status string `json:"status"`
	}
	if err := s.do(ctx, http.MethodGet, s.baseURL+"/health", nil, &health); err != nil {
		return err
	}
	if health.Status != "available" {
		return fmt.Errorf("meilisearch status %q", health.Status)
	}
	return nil
}

// do sends one request and decodes the JSON response into out.
func (s *SearchEngine) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("meilisearch %s %s: %w", method, url, domain.ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("meilisearch %s %s: %s - %s", method, url, resp.Status, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
