package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// GeminiConfig holds configuration for the Gemini REST clients. The API key
// is read from the named environment variable, never from the file.
type GeminiConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
}

// OpenAIConfig holds configuration for the OpenAI-compatible clients.
type OpenAIConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// EmbedderConfig selects and configures the embedding provider.
type EmbedderConfig struct {
	Type   string        `yaml:"type"`
	Gemini *GeminiConfig `yaml:"gemini,omitempty"`
	OpenAI *OpenAIConfig `yaml:"openai,omitempty"`
}

// GeneratorConfig selects and configures the generative model provider.
type GeneratorConfig struct {
	Type   string        `yaml:"type"`
	Gemini *GeminiConfig `yaml:"gemini,omitempty"`
	OpenAI *OpenAIConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how the book is split into chunks.
type ChunkerConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// RetrievalConfig tunes query-time retrieval.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// HistoryConfig configures chat-transcript persistence.
type HistoryConfig struct {
	DSN string `yaml:"dsn"`
}

// BookConfig points at the source document to ingest.
type BookConfig struct {
	Path string `yaml:"path"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server      ServerConfig      `yaml:"server"`
	Book        BookConfig        `yaml:"book"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	Generator   GeneratorConfig   `yaml:"generator"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	History     HistoryConfig     `yaml:"history"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Book.Path == "" {
		cfg.Book.Path = "data/book.txt"
	}
	if cfg.Chunker.Size == 0 {
		cfg.Chunker.Size = 1000
		if cfg.Chunker.Overlap == 0 {
			cfg.Chunker.Overlap = 200
		}
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.History.DSN == "" {
		cfg.History.DSN = "chat_history.db"
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "gemini"
	}
	if cfg.Generator.Type == "" {
		cfg.Generator.Type = "gemini"
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "qdrant"
	}
	if cfg.Embedder.Type == "gemini" {
		if cfg.Embedder.Gemini == nil {
			cfg.Embedder.Gemini = &GeminiConfig{}
		}
		applyGeminiDefaults(cfg.Embedder.Gemini, "text-embedding-004", 30)
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		applyOpenAIDefaults(cfg.Embedder.OpenAI, "text-embedding-3-small")
	}
	if cfg.Generator.Type == "gemini" {
		if cfg.Generator.Gemini == nil {
			cfg.Generator.Gemini = &GeminiConfig{}
		}
		applyGeminiDefaults(cfg.Generator.Gemini, "gemini-1.5-flash", 60)
	}
	if cfg.Generator.Type == "openai" && cfg.Generator.OpenAI != nil {
		applyOpenAIDefaults(cfg.Generator.OpenAI, "gpt-4o-mini")
	}
	if cfg.VectorStore.Type == "qdrant" {
		if cfg.VectorStore.Qdrant == nil {
			cfg.VectorStore.Qdrant = &QdrantConfig{}
		}
		q := cfg.VectorStore.Qdrant
		if q.URL == "" {
			q.URL = "http://localhost:6333"
		}
		if q.Collection == "" {
			q.Collection = "physical_book_rag"
		}
		if q.TimeoutSecs == 0 {
			q.TimeoutSecs = 15
		}
	}
}

func applyGeminiDefaults(g *GeminiConfig, model string, timeoutSecs int) {
	if g.APIKeyEnv == "" {
		g.APIKeyEnv = "GOOGLE_API_KEY"
	}
	if g.Model == "" {
		g.Model = model
	}
	if g.TimeoutSecs == 0 {
		g.TimeoutSecs = timeoutSecs
	}
	if g.BatchSize == 0 {
		g.BatchSize = 100
	}
}

func applyOpenAIDefaults(o *OpenAIConfig, model string) {
	if o.APIKeyEnv == "" {
		o.APIKeyEnv = "OPENAI_API_KEY"
	}
	if o.Model == "" {
		o.Model = model
	}
}
