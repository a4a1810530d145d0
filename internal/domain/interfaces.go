package domain

import "context"

// Distance is the similarity metric a vector collection is created with.
type Distance string

const (
	DistanceCosine Distance = "Cosine"
	DistanceDot    Distance = "Dot"
	DistanceEuclid Distance = "Euclid"
)

// Chunk is a bounded-size part of a document used as the unit of embedding
// and retrieval.
type Chunk struct {
	ID     string
	Source string
	Text   string
	Index  int
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// CollectionSpec names a vector collection and fixes its schema.
type CollectionSpec struct {
	Name      string
	Dimension int
	Distance  Distance
}

// Usage is the token accounting reported by the model API for one call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Total returns the number of tokens billed for the call.
func (u Usage) Total() int { return u.PromptTokens + u.CompletionTokens }

// Message is one turn of a chat prompt.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Completion is the result of a single chat model call.
type Completion struct {
	Text  string
	Model string
	Usage Usage
}

// Answer is what the query flow hands back to the UI.
type Answer struct {
	Question string
	Text     string
	Sources  []SearchResult
	Model    string
	Usage    Usage
	Cost     float64
}

// Embedder converts free text into fixed-dimension vectors.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Chunker splits document text into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(source, text string) []Chunk
}

// VectorStore persists vectors in named collections and supports similarity
// search. There is no update or delete path.
type VectorStore interface {
	EnsureCollection(ctx context.Context, spec CollectionSpec) error
	Append(ctx context.Context, collection string, chunks []Chunk, vectors [][]float64) error
	Search(ctx context.Context, collection string, vector []float64, topK int) ([]SearchResult, error)
	Count(ctx context.Context, collection string) (int, error)
	Close() error
}

// Retriever returns the chunks most relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]SearchResult, error)
}

// ChatModel generates a completion for a chat prompt.
type ChatModel interface {
	Generate(ctx context.Context, model string, messages []Message, temperature float64) (Completion, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
