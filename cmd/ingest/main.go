package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"bookbot/internal/chunker"
	"bookbot/internal/config"
	"bookbot/internal/embedding"
	embgemini "bookbot/internal/embedding/gemini"
	embopenai "bookbot/internal/embedding/openai"
	"bookbot/internal/retriever"
	"bookbot/internal/vectorstore"
	"bookbot/internal/vectorstore/qdrant"
)

// One-shot ingestion into a persistent vector store. Run this once per
// deployment instead of letting the server re-ingest on every startup.
func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	bookPath := cfg.Book.Path
	if args := flag.Args(); len(args) > 0 {
		bookPath = args[0]
	}

	emb, err := buildEmbedder(cfg)
	if err != nil {
		log.Fatalf("embedder init failed: %v", err)
	}
	store, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("vector store init failed: %v", err)
	}
	defer store.Close()

	ch, err := chunker.NewWindowChunker(cfg.Chunker.Size, cfg.Chunker.Overlap)
	if err != nil {
		log.Fatalf("chunker init failed: %v", err)
	}
	book, err := os.ReadFile(bookPath)
	if err != nil {
		log.Fatalf("failed to read book at %s: %v", bookPath, err)
	}
	chunks := ch.Split(string(book))
	fmt.Printf("Loaded %d chunks from %s\n", len(chunks), bookPath)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	if err := retriever.New(emb, store).Ingest(ctx, chunks); err != nil {
		log.Fatalf("ingest failed: %v", err)
	}
	fmt.Println("Ingestion complete.")
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
		return nil, fmt.Errorf("ingest requires an external vector store, got: %s", cfg.VectorStore.Type)
	}
}
