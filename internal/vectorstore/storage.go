package vectorstore

import (
	"context"
	"fmt"
	"time"

	"askpdf/internal/config"
	"askpdf/internal/domain"
	"askpdf/internal/vectorstore/memory"
	"askpdf/internal/vectorstore/qdrant"
	"askpdf/internal/vectorstore/sqlite"
)

// Storage persists vectors in named collections and supports similarity search.
type Storage = domain.VectorStore

// New opens the backend selected by cfg.
func New(cfg config.VectorStoreConfig) (Storage, error) {
	switch cfg.Type {
	case "sqlite", "":
		st, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return st, nil
	case "memory":
		return memory.NewStorage(), nil
	case "qdrant":
		if cfg.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:     cfg.Qdrant.URL,
			APIKey:  cfg.Qdrant.APIKey,
			Timeout: time.Duration(cfg.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Type)
	}
}

// SpecFromConfig returns the collection schema cfg declares.
func SpecFromConfig(cfg config.VectorStoreConfig) domain.CollectionSpec {
	return domain.CollectionSpec{
		Name:      cfg.Collection,
		Dimension: cfg.Dimension,
		Distance:  domain.Distance(cfg.Distance),
	}
}

// Collection is a handle on one ensured collection, usable for both the
// write and the read path.
type Collection struct {
	store Storage
	spec  domain.CollectionSpec
}

// Open ensures the collection described by spec exists and returns a handle on it.
func Open(ctx context.Context, store Storage, spec domain.CollectionSpec) (*Collection, error) {
	if err := store.EnsureCollection(ctx, spec); err != nil {
		return nil, err
	}
	return &Collection{store: store, spec: spec}, nil
}

func (c *Collection) Name() string { return c.spec.Name }

func (c *Collection) Spec() domain.CollectionSpec { return c.spec }

func (c *Collection) Append(ctx context.Context, chunks []domain.Chunk, vectors [][]float64) error {
	return c.store.Append(ctx, c.spec.Name, chunks, vectors)
}

func (c *Collection) Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	return c.store.Search(ctx, c.spec.Name, vector, topK)
}

func (c *Collection) Count(ctx context.Context) (int, error) {
	return c.store.Count(ctx, c.spec.Name)
}
