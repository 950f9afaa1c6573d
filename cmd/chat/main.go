package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"bookbot/internal/agent"
	"bookbot/internal/config"
	"bookbot/internal/embedding"
	embgemini "bookbot/internal/embedding/gemini"
	embopenai "bookbot/internal/embedding/openai"
	"bookbot/internal/llm"
	llmgemini "bookbot/internal/llm/gemini"
	llmopenai "bookbot/internal/llm/openai"
	"bookbot/internal/retriever"
	"bookbot/internal/tui"
	"bookbot/internal/vectorstore"
	"bookbot/internal/vectorstore/qdrant"
)

// Terminal chat client against an already-ingested vector store. Run
// cmd/ingest first.
func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	emb, err := buildEmbedder(cfg)
	if err != nil {
		log.Fatalf("embedder init failed: %v", err)
	}
	gen, err := buildGenerator(cfg)
	if err != nil {
		log.Fatalf("generator init failed: %v", err)
	}
	store, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("vector store init failed: %v", err)
	}
	defer store.Close()

	ag := agent.New(retriever.New(emb, store), gen, cfg.Retrieval.TopK)
	if _, err := tea.NewProgram(tui.New(ag)).Run(); err != nil {
		log.Fatal(err)
	}
}

func buildEmbedder(cfg *config.AppConfig) (embedding.Embedder, error) {
	switch cfg.Embedder.Type {
	case "gemini", "":
		if cfg.Embedder.Gemini == nil {
			return nil, fmt.Errorf("gemini embedder config missing")
		}
		return embgemini.NewClient(embgemini.Config{
			BaseURL:   cfg.Embedder.Gemini.BaseURL,
			APIKeyEnv: cfg.Embedder.Gemini.APIKeyEnv,
			Model:     cfg.Embedder.Gemini.Model,
			Timeout:   time.Duration(cfg.Embedder.Gemini.TimeoutSecs) * time.Second,
			BatchSize: cfg.Embedder.Gemini.BatchSize,
		})
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		return embopenai.NewClient(embopenai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
		})
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}

func buildGenerator(cfg *config.AppConfig) (llm.Generator, error) {
	switch cfg.Generator.Type {
	case "gemini", "":
		if cfg.Generator.Gemini == nil {
			return nil, fmt.Errorf("gemini generator config missing")
		}
		return llmgemini.NewClient(llmgemini.Config{
			BaseURL:   cfg.Generator.Gemini.BaseURL,
			APIKeyEnv: cfg.Generator.Gemini.APIKeyEnv,
			Model:     cfg.Generator.Gemini.Model,
			Timeout:   time.Duration(cfg.Generator.Gemini.TimeoutSecs) * time.Second,
		})
	case "openai":
		if cfg.Generator.OpenAI == nil {
			return nil, fmt.Errorf("openai generator config missing")
		}
		return llmopenai.NewClient(llmopenai.Config{
			BaseURL:   cfg.Generator.OpenAI.BaseURL,
			APIKeyEnv: cfg.Generator.OpenAI.APIKeyEnv,
			Model:     cfg.Generator.OpenAI.Model,
		})
	default:
		return nil, fmt.Errorf("unknown generator: %s", cfg.Generator.Type)
	}
}

func buildStore(cfg *config.AppConfig) (vectorstore.Store, error) {
	switch cfg.VectorStore.Type {
	case "qdrant", "":
		if cfg.VectorStore.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		return qdrant.NewStore(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("chat requires an external vector store, got: %s", cfg.VectorStore.Type)
	}
}
