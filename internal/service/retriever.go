package service

import (
	"context"

	"askpdf/internal/domain"
	"askpdf/internal/vectorstore"
)

// VectorRetriever embeds the query and returns the k nearest chunks of a
// collection.
type VectorRetriever struct {
	embedder   domain.Embedder
	collection *vectorstore.Collection
	k          int
}

var _ domain.Retriever = (*VectorRetriever)(nil)

func NewRetriever(embedder domain.Embedder, collection *vectorstore.Collection, k int) *VectorRetriever {
	return &VectorRetriever{embedder: embedder, collection: collection, k: k}
}

func (r *VectorRetriever) Retrieve(ctx context.Context, query string) ([]domain.SearchResult, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.collection.Search(ctx, vec, r.k)
}
