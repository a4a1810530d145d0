package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"askpdf/internal/domain"
	"askpdf/internal/llm"
	"askpdf/internal/pdftext"
	"askpdf/internal/vectorstore"
)

// SystemTemplate is the instruction block of the "stuff" prompt; {context}
// is replaced with the retrieved chunk texts.
const SystemTemplate = "Use the following pieces of context to answer the user's question. \n" +
	"If you don't know the answer, just say that you don't know, don't try to make up an answer.\n" +
	"----------------\n" +
	"{context}"

// ContextSeparator joins retrieved chunk texts inside the prompt.
const ContextSeparator = "\n\n"

// Options tune the ingestion and query flows.
type Options struct {
	BatchSize           int
	TopK                int
	Temperature         float64
	SummaryMaxSentences int
}

// ExtractFunc turns an uploaded document into text.
type ExtractFunc func(name string, r io.Reader) (pdftext.Document, error)

// Deps are the collaborators of RAGService. Extract defaults to pdftext.Read;
// Summarizer and Logger are optional.
type Deps struct {
	Extract    ExtractFunc
	Chunker    domain.Chunker
	Embedder   domain.Embedder
	Collection *vectorstore.Collection
	Chat       domain.ChatModel
	Summarizer domain.Summarizer
	Logger     *slog.Logger
}

// IngestReport describes one uploaded document after ingestion.
type IngestReport struct {
	Name    string
	Pages   int
	Chunks  int
	Summary string
}

type RAGService struct {
	extract    ExtractFunc
	chunker    domain.Chunker
	embedder   domain.Embedder
	collection *vectorstore.Collection
	retriever  domain.Retriever
	chat       domain.ChatModel
	summarizer domain.Summarizer
	opts       Options
	log        *slog.Logger
}

func NewRAGService(deps Deps, opts Options) *RAGService {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 64
	}
	if opts.TopK <= 0 {
		opts.TopK = 10
	}
	if opts.SummaryMaxSentences <= 0 {
		opts.SummaryMaxSentences = 3
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	extract := deps.Extract
	if extract == nil {
		extract = pdftext.Read
	}
	return &RAGService{
		extract:    extract,
		chunker:    deps.Chunker,
		embedder:   deps.Embedder,
		collection: deps.Collection,
		retriever:  NewRetriever(deps.Embedder, deps.Collection, opts.TopK),
		chat:       deps.Chat,
		summarizer: deps.Summarizer,
		opts:       opts,
		log:        log.With("component", "rag"),
	}
}

// Collection returns the collection both flows read and write.
func (s *RAGService) Collection() *vectorstore.Collection { return s.collection }

// IngestPDF extracts, chunks and stores one PDF. A PDF without extractable
// text returns domain.ErrNoText and stores nothing.
func (s *RAGService) IngestPDF(ctx context.Context, name string, r io.Reader) (IngestReport, error) {
	doc, err := s.extract(name, r)
	if err != nil {
		return IngestReport{}, err
	}
	report := IngestReport{Name: name, Pages: doc.Pages}
	if doc.Empty() {
		return report, fmt.Errorf("%s: %w", name, domain.ErrNoText)
	}

	chunks := s.chunker.Chunk(name, doc.Text)
	s.log.Info("chunked document", "source", name, "pages", doc.Pages, "chunks", len(chunks))

	stored, err := s.Ingest(ctx, chunks)
	report.Chunks = stored
	if err != nil {
		return report, err
	}

	if s.summarizer != nil {
		summary, err := s.summarizer.Summarize(doc.Text, s.opts.SummaryMaxSentences)
		if err != nil {
			s.log.Warn("summary failed", "source", name, "error", err)
		}
		report.Summary = summary
	}
	return report, nil
}

// Ingest embeds chunks in batches and appends each batch to the collection.
// There is no dedup. On failure the batches already appended stay stored and
// the returned count says how many.
func (s *RAGService) Ingest(ctx context.Context, chunks []domain.Chunk) (int, error) {
	stored := 0
	for start := 0; start < len(chunks); start += s.opts.BatchSize {
		end := min(start+s.opts.BatchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, ch := range batch {
			texts[i] = ch.Text
		}
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return stored, fmt.Errorf("ingest: stored %d of %d chunks: %w", stored, len(chunks), err)
		}
		if err := s.collection.Append(ctx, batch, vectors); err != nil {
			return stored, fmt.Errorf("ingest: stored %d of %d chunks: %w", stored, len(chunks), err)
		}
		stored += len(batch)
		s.log.Debug("appended batch", "collection", s.collection.Name(), "stored", stored, "total", len(chunks))
	}
	return stored, nil
}

// Answer runs retrieval-augmented generation for question against the model
// behind choice.
func (s *RAGService) Answer(ctx context.Context, question string, choice llm.Choice) (domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return domain.Answer{}, domain.ErrEmptyQuestion
	}

	sources, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("retrieve: %w", err)
	}

	completion, err := s.chat.Generate(ctx, choice.Model, BuildPrompt(sources, question), s.opts.Temperature)
	if err != nil {
		return domain.Answer{}, err
	}
	model := completion.Model
	if model == "" {
		model = choice.Model
	}
	cost := llm.CalculateCost(model, completion.Usage)
	s.log.Info("answered",
		"model", model,
		"sources", len(sources),
		"prompt_tokens", completion.Usage.PromptTokens,
		"completion_tokens", completion.Usage.CompletionTokens,
		"cost", cost,
	)

	return domain.Answer{
		Question: question,
		Text:     completion.Text,
		Sources:  sources,
		Model:    model,
		Usage:    completion.Usage,
		Cost:     cost,
	}, nil
}

// BuildPrompt assembles the "stuff" prompt: every retrieved chunk goes into
// the system message, the question is the user message.
func BuildPrompt(sources []domain.SearchResult, question string) []domain.Message {
	texts := make([]string, len(sources))
	for i, r := range sources {
		texts[i] = r.Chunk.Text
	}
	system := strings.Replace(SystemTemplate, "{context}", strings.Join(texts, ContextSeparator), 1)
	return []domain.Message{
		{Role: domain.RoleSystem, Content: system},
		{Role: domain.RoleUser, Content: question},
	}
}
