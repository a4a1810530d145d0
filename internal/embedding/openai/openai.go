package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"askpdf/internal/domain"
	"askpdf/internal/llm"
)

// Client is an OpenAI embeddings client implementing the Embedder interface.
type Client struct {
	client    openai.Client
	model     string
	dimension int
	batchSize int
}

// Config configures the embeddings client.
type Config struct {
	Model     string
	Dimension int
	BatchSize int
}

// NewClient creates a new embeddings client on top of a shared SDK client.
func NewClient(client openai.Client, cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = "text-embedding-ada-002"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 64
	}
	return &Client{
		client:    client,
		model:     cfg.Model,
		dimension: cfg.Dimension,
		batchSize: cfg.BatchSize,
	}
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "openai:" + c.model }

// Dimension returns the dimensionality of the produced embedding vectors.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := c.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts with one API call per batchSize texts.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := min(start+c.batchSize, len(texts))
		vecs, err := c.embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (c *Client) embed(ctx context.Context, texts []string) ([][]float64, error) {
	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, llm.WrapError("embeddings", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, &domain.Error{
			Op:   "embeddings",
			Kind: domain.KindUnknown,
			Err:  fmt.Errorf("got %d embeddings for %d inputs", len(resp.Data), len(texts)),
		}
	}
	out := make([][]float64, len(texts))
	for _, d := range resp.Data {
		i := int(d.Index)
		if i < 0 || i >= len(out) {
			return nil, &domain.Error{Op: "embeddings", Kind: domain.KindUnknown, Err: fmt.Errorf("embedding index %d out of range", i)}
		}
		out[i] = d.Embedding
	}
	if c.dimension == 0 && len(out) > 0 {
		c.dimension = len(out[0])
	}
	return out, nil
}
