package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"askpdf/internal/chunker"
	"askpdf/internal/config"
	"askpdf/internal/domain"
	"askpdf/internal/embedding"
	"askpdf/internal/llm"
	"askpdf/internal/service"
	"askpdf/internal/session"
	"askpdf/internal/summarizer"
	"askpdf/internal/vectorstore"
)

// app wires the components one command needs.
type app struct {
	cfg   *config.AppConfig
	store vectorstore.Storage
	svc   *service.RAGService
	sess  *session.Session
}

func loadConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	var (
		cfg *config.AppConfig
		err error
	)
	if path == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newApp(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*app, error) {
	key, err := cfg.APIKey()
	if err != nil {
		return nil, err
	}
	client, err := llm.NewOpenAIClient(llm.Config{
		APIKey:     key,
		BaseURL:    cfg.OpenAI.BaseURL,
		Timeout:    time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
		MaxRetries: cfg.OpenAI.MaxRetries,
	})
	if err != nil {
		return nil, err
	}

	emb, err := embedding.New(cfg, client)
	if err != nil {
		return nil, err
	}
	spec := vectorstore.SpecFromConfig(cfg.VectorStore)
	if emb.Dimension() != spec.Dimension {
		return nil, fmt.Errorf("embedder %s produces %d dimensions, collection %s expects %d",
			emb.Name(), emb.Dimension(), spec.Name, spec.Dimension)
	}

	length, err := chunker.TokenLen(cfg.Chunker.EncodingModel)
	if err != nil {
		return nil, err
	}

	var sum domain.Summarizer
	switch cfg.Summarizer.Type {
	case "frequency", "":
		sum = summarizer.NewFrequencySummarizer()
	case "none":
	default:
		return nil, fmt.Errorf("unknown summarizer: %s", cfg.Summarizer.Type)
	}

	selector := llm.NewSelector(cfg.Query.LegacyAliasing, cfg.Query.InstructionReserve)
	sess, err := session.New(selector, cfg.Query.DefaultModel)
	if err != nil {
		return nil, err
	}

	store, err := vectorstore.New(cfg.VectorStore)
	if err != nil {
		return nil, err
	}
	coll, err := vectorstore.Open(ctx, store, spec)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open collection %s: %w", spec.Name, err)
	}

	svc := service.NewRAGService(service.Deps{
		Chunker:    chunker.NewRecursiveChunker(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap, length),
		Embedder:   emb,
		Collection: coll,
		Chat:       llm.NewChat(client),
		Summarizer: sum,
		Logger:     logger,
	}, service.Options{
		BatchSize:           cfg.OpenAI.BatchSize,
		TopK:                cfg.Query.TopK,
		Temperature:         cfg.Query.Temperature,
		SummaryMaxSentences: cfg.Summarizer.MaxSentences,
	})
	logger.Debug("components ready", "embedder", emb.Name(), "store", cfg.VectorStore.Type, "collection", spec.Name)

	return &app{cfg: cfg, store: store, svc: svc, sess: sess}, nil
}

// operationTimeout bounds one upload or question; an upload makes one
// embeddings call per batch.
func (a *app) operationTimeout() time.Duration {
	return 10 * time.Duration(a.cfg.OpenAI.TimeoutSecs) * time.Second
}

func (a *app) Close() error {
	return a.store.Close()
}
