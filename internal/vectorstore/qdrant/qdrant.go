package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"askpdf/internal/domain"
)

// Storage is a minimal REST client to Qdrant.
type Storage struct {
	url    string
	apiKey string
	client *http.Client
}

var _ domain.VectorStore = (*Storage)(nil)

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

// EnsureCollection checks the collection by name and creates it if Qdrant
// reports it missing. An existing collection is not validated.
func (s *Storage) EnsureCollection(ctx context.Context, spec domain.CollectionSpec) error {
	if spec.Dimension <= 0 {
		return errors.New("invalid dimension")
	}
	status, err := s.do(ctx, http.MethodGet, s.collectionURL(spec.Name), nil, nil)
	if err != nil && status != http.StatusNotFound {
		return err
	}
	if status == http.StatusOK {
		return nil
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     spec.Dimension,
			"distance": string(spec.Distance),
		},
	}
	if _, err := s.do(ctx, http.MethodPut, s.collectionURL(spec.Name), body, nil); err != nil {
		return fmt.Errorf("create collection %s: %w", spec.Name, err)
	}
	return nil
}

func (s *Storage) Append(ctx context.Context, collection string, chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	if len(chunks) == 0 {
		return nil
	}
	points := make([]map[string]any, len(chunks))
	for i := range chunks {
		points[i] = map[string]any{
			"id":     uuid.NewString(),
			"vector": vectors[i],
			"payload": map[string]any{
				"page_content": chunks[i].Text,
				"metadata": map[string]any{
					"source": chunks[i].Source,
					"index":  chunks[i].Index,
				},
			},
		}
	}
	body := map[string]any{"points": points}
	_, err := s.do(ctx, http.MethodPut, s.collectionURL(collection)+"/points?wait=true", body, nil)
	return err
}

func (s *Storage) Search(ctx context.Context, collection string, vector []float64, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = 10
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      any     `json:"id"`
			Score   float64 `json:"score"`
			Payload struct {
				PageContent string `json:"page_content"`
				Metadata    struct {
					Source string `json:"source"`
					Index  int    `json:"index"`
				} `json:"metadata"`
			} `json:"payload"`
		} `json:"result"`
	}
	if _, err := s.do(ctx, http.MethodPost, s.collectionURL(collection)+"/points/search", req, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		chunk := domain.Chunk{
			ID:     fmt.Sprint(r.ID),
			Source: r.Payload.Metadata.Source,
			Text:   r.Payload.PageContent,
			Index:  r.Payload.Metadata.Index,
		}
		results = append(results, domain.SearchResult{Chunk: chunk, Score: r.Score})
	}
	return results, nil
}

func (s *Storage) Count(ctx context.Context, collection string) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	if _, err := s.do(ctx, http.MethodPost, s.collectionURL(collection)+"/points/count", map[string]any{"exact": true}, &resp); err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

func (s *Storage) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *Storage) collectionURL(name string) string {
	return fmt.Sprintf("%s/collections/%s", s.url, name)
}

// do sends body as JSON and decodes the response into out. It returns the
// HTTP status alongside any error.
func (s *Storage) do(ctx context.Context, method, url string, body, out any) (int, error) {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, &domain.Error{Op: "qdrant " + method, Kind: domain.KindNetwork, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return resp.StatusCode, &domain.Error{
			Op:   "qdrant " + method,
			Kind: kindForStatus(resp.StatusCode),
			Err:  fmt.Errorf("%s %s failed: %s: %s", method, url, resp.Status, bytes.TrimSpace(msg)),
		}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode qdrant response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func kindForStatus(status int) domain.ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.KindAuth
	case status == http.StatusTooManyRequests:
		return domain.KindRateLimit
	case status >= 500:
		return domain.KindUnavailable
	case status >= 400:
		return domain.KindInvalidInput
	default:
		return domain.KindUnknown
	}
}
