package main

import (
	"fmt"
	"time"

	"bookbot/internal/config"
	"bookbot/internal/embedding"
	embgemini "bookbot/internal/embedding/gemini"
	embopenai "bookbot/internal/embedding/openai"
	"bookbot/internal/llm"
	llmgemini "bookbot/internal/llm/gemini"
	llmopenai "bookbot/internal/llm/openai"
	"bookbot/internal/vectorstore"
	"bookbot/internal/vectorstore/memory"
	"bookbot/internal/vectorstore/qdrant"
)

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
	case "memory":
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}
}
