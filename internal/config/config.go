package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// OpenAIConfig holds configuration for the OpenAI embeddings and chat client.
type OpenAIConfig struct {
	BaseURL        string `yaml:"base_url" split_words:"true"`
	APIKeyEnv      string `yaml:"api_key_env" split_words:"true"`
	EmbeddingModel string `yaml:"embedding_model" split_words:"true"`
	TimeoutSecs    int    `yaml:"timeout_secs" split_words:"true"`
	BatchSize      int    `yaml:"batch_size" split_words:"true"`
	MaxRetries     int    `yaml:"max_retries" split_words:"true"`
}

// EmbedderConfig selects the text embedder implementation.
type EmbedderConfig struct {
	Type string `yaml:"type" split_words:"true"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	Type          string `yaml:"type" split_words:"true"`
	ChunkSize     int    `yaml:"chunk_size" split_words:"true"`
	ChunkOverlap  int    `yaml:"chunk_overlap" split_words:"true"`
	EncodingModel string `yaml:"encoding_model" split_words:"true"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type       string        `yaml:"type" split_words:"true"`
	Path       string        `yaml:"path" split_words:"true"`
	Collection string        `yaml:"collection" split_words:"true"`
	Dimension  int           `yaml:"dimension" split_words:"true"`
	Distance   string        `yaml:"distance" split_words:"true"`
	Qdrant     *QdrantConfig `yaml:"qdrant,omitempty" ignored:"true"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url" split_words:"true"`
	APIKey      string `yaml:"api_key" split_words:"true"`
	TimeoutSecs int    `yaml:"timeout_secs" split_words:"true"`
}

// QueryConfig configures retrieval and answer generation.
type QueryConfig struct {
	TopK               int     `yaml:"top_k" split_words:"true"`
	Temperature        float64 `yaml:"temperature" split_words:"true"`
	InstructionReserve int     `yaml:"instruction_reserve" split_words:"true"`
	DefaultModel       string  `yaml:"default_model" split_words:"true"`
	LegacyAliasing     bool    `yaml:"legacy_aliasing" split_words:"true"`
}

// SummarizerConfig selects and configures the upload summary preview.
type SummarizerConfig struct {
	Type         string `yaml:"type" split_words:"true"`
	MaxSentences int    `yaml:"max_sentences" split_words:"true"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string `yaml:"level" split_words:"true"`
	File  string `yaml:"file" split_words:"true"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Query       QueryConfig       `yaml:"query"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Log         LogConfig         `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied on top in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			if err := applyEnv(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(cfg)
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/askpdf/config.yaml.
// If neither exists, it writes defaults to ~/.config/askpdf/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// APIKey returns the OpenAI credential from the configured environment variable.
func (c *AppConfig) APIKey() (string, error) {
	key := os.Getenv(c.OpenAI.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("missing API key in env %s", c.OpenAI.APIKeyEnv)
	}
	return key, nil
}

// Validate reports the first configuration problem found.
func (c *AppConfig) Validate() error {
	switch c.Embedder.Type {
	case "openai", "hashing":
	default:
		return fmt.Errorf("unknown embedder: %s", c.Embedder.Type)
	}
	switch c.Chunker.Type {
	case "recursive":
	default:
		return fmt.Errorf("unknown chunker: %s", c.Chunker.Type)
	}
	if c.Chunker.ChunkSize <= 0 {
		return errors.New("chunker.chunk_size must be positive")
	}
	if c.Chunker.ChunkOverlap < 0 || c.Chunker.ChunkOverlap >= c.Chunker.ChunkSize {
		return errors.New("chunker.chunk_overlap must be in [0, chunk_size)")
	}
	switch c.VectorStore.Type {
	case "sqlite", "memory":
	case "qdrant":
		if c.VectorStore.Qdrant == nil || c.VectorStore.Qdrant.URL == "" {
			return errors.New("qdrant config missing")
		}
	default:
		return fmt.Errorf("unknown vector store: %s", c.VectorStore.Type)
	}
	switch c.VectorStore.Distance {
	case "Cosine", "Dot", "Euclid":
	default:
		return fmt.Errorf("unknown distance: %s", c.VectorStore.Distance)
	}
	if c.VectorStore.Dimension <= 0 {
		return errors.New("vector_store.dimension must be positive")
	}
	if c.Query.TopK <= 0 {
		return errors.New("query.top_k must be positive")
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "askpdf", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		OpenAI: OpenAIConfig{
			BaseURL:        "https://api.openai.com/v1",
			APIKeyEnv:      "OPENAI_API_KEY",
			EmbeddingModel: "text-embedding-ada-002",
			TimeoutSecs:    60,
			BatchSize:      64,
		},
		Embedder: EmbedderConfig{Type: "openai"},
		Chunker: ChunkerConfig{
			Type:          "recursive",
			ChunkSize:     500,
			ChunkOverlap:  0,
			EncodingModel: "text-embedding-ada-002",
		},
		VectorStore: VectorStoreConfig{
			Type:       "sqlite",
			Path:       "./local_store/askpdf.db",
			Collection: "my_collection_2",
			Dimension:  1536,
			Distance:   "Cosine",
		},
		Query: QueryConfig{
			TopK:               10,
			Temperature:        0,
			InstructionReserve: 300,
			DefaultModel:       "GPT-3.5",
		},
		Summarizer: SummarizerConfig{Type: "frequency", MaxSentences: 3},
		Log:        LogConfig{Level: "info", File: "askpdf.log"},
	}
}

// applyEnv overrides each group from ASKPDF_<GROUP>_<FIELD> variables.
func applyEnv(cfg *AppConfig) error {
	groups := []struct {
		prefix string
		spec   any
	}{
		{"ASKPDF_OPENAI", &cfg.OpenAI},
		{"ASKPDF_EMBEDDER", &cfg.Embedder},
		{"ASKPDF_CHUNKER", &cfg.Chunker},
		{"ASKPDF_STORE", &cfg.VectorStore},
		{"ASKPDF_QUERY", &cfg.Query},
		{"ASKPDF_SUMMARIZER", &cfg.Summarizer},
		{"ASKPDF_LOG", &cfg.Log},
	}
	for _, g := range groups {
		if err := envconfig.Process(g.prefix, g.spec); err != nil {
			return fmt.Errorf("env overrides %s: %w", g.prefix, err)
		}
	}
	return nil
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = def.OpenAI.BaseURL
	}
	if cfg.OpenAI.APIKeyEnv == "" {
		cfg.OpenAI.APIKeyEnv = def.OpenAI.APIKeyEnv
	}
	if cfg.OpenAI.EmbeddingModel == "" {
		cfg.OpenAI.EmbeddingModel = def.OpenAI.EmbeddingModel
	}
	if cfg.OpenAI.TimeoutSecs == 0 {
		cfg.OpenAI.TimeoutSecs = def.OpenAI.TimeoutSecs
	}
	if cfg.OpenAI.BatchSize == 0 {
		cfg.OpenAI.BatchSize = def.OpenAI.BatchSize
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = def.Embedder.Type
	}
	if cfg.Chunker.Type == "" {
		cfg.Chunker.Type = def.Chunker.Type
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = def.Chunker.ChunkSize
	}
	if cfg.Chunker.EncodingModel == "" {
		cfg.Chunker.EncodingModel = def.Chunker.EncodingModel
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = def.VectorStore.Type
	}
	if cfg.VectorStore.Path == "" {
		cfg.VectorStore.Path = def.VectorStore.Path
	}
	if cfg.VectorStore.Collection == "" {
		cfg.VectorStore.Collection = def.VectorStore.Collection
	}
	if cfg.VectorStore.Dimension == 0 {
		cfg.VectorStore.Dimension = def.VectorStore.Dimension
	}
	if cfg.VectorStore.Distance == "" {
		cfg.VectorStore.Distance = def.VectorStore.Distance
	}
	if cfg.VectorStore.Type == "qdrant" && cfg.VectorStore.Qdrant != nil && cfg.VectorStore.Qdrant.TimeoutSecs == 0 {
		cfg.VectorStore.Qdrant.TimeoutSecs = 15
	}
	if cfg.Query.TopK == 0 {
		cfg.Query.TopK = def.Query.TopK
	}
	if cfg.Query.InstructionReserve == 0 {
		cfg.Query.InstructionReserve = def.Query.InstructionReserve
	}
	if cfg.Query.DefaultModel == "" {
		cfg.Query.DefaultModel = def.Query.DefaultModel
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = def.Summarizer.Type
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = def.Summarizer.MaxSentences
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
}
