package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askpdf/internal/chunker"
	"askpdf/internal/domain"
	"askpdf/internal/embedding/hashing"
	"askpdf/internal/llm"
	"askpdf/internal/pdftext"
	"askpdf/internal/summarizer"
	"askpdf/internal/vectorstore"
	"askpdf/internal/vectorstore/memory"
)

type fakeChat struct {
	calls       int
	model       string
	messages    []domain.Message
	temperature float64
	err         error
}

func (f *fakeChat) Generate(_ context.Context, model string, messages []domain.Message, temperature float64) (domain.Completion, error) {
	f.calls++
	f.model = model
	f.messages = messages
	f.temperature = temperature
	if f.err != nil {
		return domain.Completion{}, f.err
	}
	return domain.Completion{
		Text:  "It is about the Greek alphabet.",
		Model: model,
		Usage: domain.Usage{PromptTokens: 1000, CompletionTokens: 500},
	}, nil
}

// flakyEmbedder fails every batch after the first failAfter.
type flakyEmbedder struct {
	*hashing.Embedder
	batches   int
	failAfter int
}

func (f *flakyEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	f.batches++
	if f.batches > f.failAfter {
		return nil, &domain.Error{Op: "embeddings", Kind: domain.KindRateLimit, Err: errors.New("429")}
	}
	return f.Embedder.EmbedBatch(ctx, texts)
}

func textExtractor(text string) ExtractFunc {
	return func(name string, _ io.Reader) (pdftext.Document, error) {
		return pdftext.Document{Name: name, Pages: 1, Text: text}, nil
	}
}

func newTestService(t *testing.T, deps Deps, opts Options) *RAGService {
	t.Helper()
	coll, err := vectorstore.Open(context.Background(), memory.NewStorage(),
		domain.CollectionSpec{Name: "my_collection_2", Dimension: 1536, Distance: domain.DistanceCosine})
	require.NoError(t, err)
	if deps.Embedder == nil {
		deps.Embedder = hashing.NewEmbedder(1536)
	}
	if deps.Chunker == nil {
		deps.Chunker = chunker.NewRecursiveChunker(500, 0, nil)
	}
	if deps.Chat == nil {
		deps.Chat = &fakeChat{}
	}
	deps.Collection = coll
	return NewRAGService(deps, opts)
}

func TestEndToEnd_SingleChunkDocument(t *testing.T) {
	ctx := context.Background()
	text := "Alpha Beta Gamma are the first three letters of the Greek alphabet."
	chat := &fakeChat{}
	svc := newTestService(t, Deps{Extract: textExtractor(text), Chat: chat, Summarizer: summarizer.NewFrequencySummarizer()}, Options{})

	before, err := svc.Collection().Count(ctx)
	require.NoError(t, err)

	report, err := svc.IngestPDF(ctx, "greek.pdf", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Chunks)
	assert.Equal(t, text, report.Summary)

	after, err := svc.Collection().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	choice, err := llm.NewSelector(false, 300).Select("GPT-3.5")
	require.NoError(t, err)
	ans, err := svc.Answer(ctx, "What is this about?", choice)
	require.NoError(t, err)

	require.Len(t, ans.Sources, 1)
	assert.Equal(t, text, ans.Sources[0].Chunk.Text)
	assert.Equal(t, "greek.pdf", ans.Sources[0].Chunk.Source)
	assert.Equal(t, "It is about the Greek alphabet.", ans.Text)
	assert.Equal(t, "gpt-3.5-turbo", chat.model)
	assert.Equal(t, 0.0, chat.temperature)

	require.Len(t, chat.messages, 2)
	assert.Equal(t, domain.RoleSystem, chat.messages[0].Role)
	assert.True(t, strings.HasSuffix(chat.messages[0].Content, "----------------\n"+text))
	assert.Equal(t, domain.Message{Role: domain.RoleUser, Content: "What is this about?"}, chat.messages[1])

	// 1000 * 1.5/1M + 500 * 2/1M
	assert.InDelta(t, 0.0025, ans.Cost, 1e-12)
	assert.Equal(t, 1500, ans.Usage.Total())
}

func TestIngestPDF_NoText(t *testing.T) {
	svc := newTestService(t, Deps{Extract: textExtractor(" \n\n ")}, Options{})
	_, err := svc.IngestPDF(context.Background(), "scan.pdf", strings.NewReader(""))
	require.ErrorIs(t, err, domain.ErrNoText)

	n, err := svc.Collection().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIngestPDF_RejectsNonPDF(t *testing.T) {
	svc := newTestService(t, Deps{}, Options{})
	_, err := svc.IngestPDF(context.Background(), "notes.pdf", strings.NewReader("plain text"))
	require.Error(t, err)
}

func TestIngest_CountGrowsByN(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Deps{}, Options{BatchSize: 3})

	chunks := make([]domain.Chunk, 7)
	for i := range chunks {
		chunks[i] = domain.Chunk{Source: "a.pdf", Text: fmt.Sprintf("chunk number %d", i), Index: i}
	}
	n, err := svc.Ingest(ctx, chunks)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	// re-ingesting the same chunks is not deduplicated
	_, err = svc.Ingest(ctx, chunks)
	require.NoError(t, err)
	count, err := svc.Collection().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 14, count)
}

func TestIngest_PartialFailureReportsStored(t *testing.T) {
	ctx := context.Background()
	emb := &flakyEmbedder{Embedder: hashing.NewEmbedder(1536), failAfter: 2}
	svc := newTestService(t, Deps{Embedder: emb}, Options{BatchSize: 2})

	chunks := make([]domain.Chunk, 5)
	for i := range chunks {
		chunks[i] = domain.Chunk{Text: fmt.Sprintf("text %d", i), Index: i}
	}
	n, err := svc.Ingest(ctx, chunks)
	require.Error(t, err)
	assert.Equal(t, 4, n)
	assert.Contains(t, err.Error(), "stored 4 of 5 chunks")
	assert.Equal(t, domain.KindRateLimit, domain.KindOf(err))

	count, err := svc.Collection().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestAnswer_EmptyQuestion(t *testing.T) {
	chat := &fakeChat{}
	svc := newTestService(t, Deps{Chat: chat}, Options{})
	_, err := svc.Answer(context.Background(), "   ", llm.Choices[0])
	require.ErrorIs(t, err, domain.ErrEmptyQuestion)
	assert.Zero(t, chat.calls)
}

func TestAnswer_TopKBoundsSources(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Deps{}, Options{})

	chunks := make([]domain.Chunk, 12)
	for i := range chunks {
		chunks[i] = domain.Chunk{Text: fmt.Sprintf("passage %d about rivers", i), Index: i}
	}
	_, err := svc.Ingest(ctx, chunks[:4])
	require.NoError(t, err)

	ans, err := svc.Answer(ctx, "rivers", llm.Choices[2])
	require.NoError(t, err)
	assert.Len(t, ans.Sources, 4)

	_, err = svc.Ingest(ctx, chunks[4:])
	require.NoError(t, err)
	ans, err = svc.Answer(ctx, "rivers", llm.Choices[2])
	require.NoError(t, err)
	assert.Len(t, ans.Sources, 10)
	assert.Equal(t, "gpt-4", ans.Model)
}

func TestAnswer_PropagatesClassifiedErrors(t *testing.T) {
	chat := &fakeChat{err: &domain.Error{Op: "chat", Kind: domain.KindAuth, Err: errors.New("401")}}
	svc := newTestService(t, Deps{Chat: chat}, Options{})
	_, err := svc.Answer(context.Background(), "anything?", llm.Choices[0])
	require.Error(t, err)
	assert.Equal(t, domain.KindAuth, domain.KindOf(err))
}

func TestBuildPrompt(t *testing.T) {
	msgs := BuildPrompt([]domain.SearchResult{
		{Chunk: domain.Chunk{Text: "first"}},
		{Chunk: domain.Chunk{Text: "second"}},
	}, "why?")
	require.Len(t, msgs, 2)
	assert.Equal(t, "Use the following pieces of context to answer the user's question. \n"+
		"If you don't know the answer, just say that you don't know, don't try to make up an answer.\n"+
		"----------------\nfirst\n\nsecond", msgs[0].Content)
	assert.Equal(t, "why?", msgs[1].Content)
}
