package embedding

import (
	"fmt"

	sdk "github.com/openai/openai-go"

	"askpdf/internal/config"
	"askpdf/internal/domain"
	"askpdf/internal/embedding/hashing"
	"askpdf/internal/embedding/openai"
)

// Embedder converts free text into a numeric vector representation.
type Embedder = domain.Embedder

// New assembles the embedder selected by cfg. client is only used by the
// openai embedder.
func New(cfg *config.AppConfig, client sdk.Client) (Embedder, error) {
	switch cfg.Embedder.Type {
	case "openai", "":
		return openai.NewClient(client, openai.Config{
			Model:     cfg.OpenAI.EmbeddingModel,
			Dimension: cfg.VectorStore.Dimension,
			BatchSize: cfg.OpenAI.BatchSize,
		}), nil
	case "hashing":
		return hashing.NewEmbedder(cfg.VectorStore.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}
