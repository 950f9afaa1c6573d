package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bookbot/internal/agent"
	"bookbot/internal/chunker"
	"bookbot/internal/config"
	"bookbot/internal/history"
	"bookbot/internal/retriever"
	"bookbot/internal/server"
)

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

	hist, err := history.Open(cfg.History.DSN)
	if err != nil {
		log.Fatalf("failed to open chat history: %v", err)
	}
	defer hist.Close()
	if err := hist.Migrate(context.Background()); err != nil {
		log.Fatalf("failed to migrate chat history: %v", err)
	}

	// Ingest the book before accepting queries. For a persistent vector
	// store deployment, run cmd/ingest once instead and skip this.
	ch, err := chunker.NewWindowChunker(cfg.Chunker.Size, cfg.Chunker.Overlap)
	if err != nil {
		log.Fatalf("chunker init failed: %v", err)
	}
	book, err := os.ReadFile(cfg.Book.Path)
	if err != nil {
		log.Fatalf("failed to read book at %s: %v", cfg.Book.Path, err)
	}
	chunks := ch.Split(string(book))
	ret := retriever.New(emb, store)

	ingestCtx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()
	slog.Info("ingesting book", "path", cfg.Book.Path, "chunks", len(chunks))
	if err := ret.Ingest(ingestCtx, chunks); err != nil {
		log.Fatalf("ingest failed: %v", err)
	}
	slog.Info("ingestion complete")

	srv := server.New(agent.New(ret, gen, cfg.Retrieval.TopK), hist)
	go func() {
		if err := srv.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()
	slog.Info("serving", "addr", cfg.Server.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
