package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"askpdf/internal/domain"
	"askpdf/internal/vectorstore/score"
)

// Storage is a simple in-memory vector store using brute-force similarity.
type Storage struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	spec    domain.CollectionSpec
	vectors [][]float64
	chunks  []domain.Chunk
}

var _ domain.VectorStore = (*Storage)(nil)

func NewStorage() *Storage {
	return &Storage{collections: make(map[string]*collection)}
}

func (s *Storage) EnsureCollection(_ context.Context, spec domain.CollectionSpec) error {
	if spec.Dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[spec.Name]; ok {
		return nil
	}
	s.collections[spec.Name] = &collection{spec: spec}
	return nil
}

// Spec returns the schema a collection was created with.
func (s *Storage) Spec(name string) (domain.CollectionSpec, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return domain.CollectionSpec{}, false
	}
	return c.spec, true
}

func (s *Storage) Append(_ context.Context, name string, chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, domain.ErrCollectionNotFound)
	}
	for _, v := range vectors {
		if len(v) != c.spec.Dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	for _, ch := range chunks {
		ch.ID = uuid.NewString()
		c.chunks = append(c.chunks, ch)
	}
	c.vectors = append(c.vectors, vectors...)
	return nil
}

func (s *Storage) Search(_ context.Context, name string, vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrCollectionNotFound)
	}
	results := make([]domain.SearchResult, len(c.vectors))
	for i := range c.vectors {
		results[i] = domain.SearchResult{Chunk: c.chunks[i], Score: score.Similarity(c.spec.Distance, vector, c.vectors[i])}
	}
	return score.TopK(results, topK), nil
}

func (s *Storage) Count(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, domain.ErrCollectionNotFound)
	}
	return len(c.chunks), nil
}

func (s *Storage) Close() error { return nil }
