package main

import (
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"clipchat-ai/internal/config"
	"clipchat-ai/internal/http"
	"clipchat-ai/internal/index"
	"clipchat-ai/internal/llm"
	"clipchat-ai/internal/rag"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Load the persisted index artifacts. Missing artifacts are not fatal;
	// the API starts degraded and reports it through /api/health. Corrupt
	// artifacts are fatal: serving wrong joins would be worse than serving
	// nothing.
	var ix *index.Index
	switch loaded, err := index.Load(cfg.IndexDir); {
	case err == nil:
		ix = loaded
		slog.Info("Index loaded", "build_id", ix.BuildID(), "chunks", ix.Len(), "dim", ix.Dim())
	case errors.Is(err, index.ErrNotFound):
		slog.Warn("Index not found, starting degraded. Run the ingest command to build it.", "dir", cfg.IndexDir)
	default:
		log.Fatalf("Failed to load index from %s: %v", cfg.IndexDir, err)
	}

	deps := &http.Deps{
		DefaultK: cfg.RetrievalK,
	}

	if ix != nil {
		embedder := llm.NewEmbeddingsClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel, cfg.EmbeddingDim)
		chatClient := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ChatModel)

		retriever := rag.NewRetriever(embedder, ix)
		engine, err := rag.NewEngine(retriever, chatClient, cfg.RetrievalK, llm.ChatParams{
			MaxTokens:   cfg.ChatMaxTokens,
			Temperature: cfg.ChatTemperature,
		})
		if err != nil {
			log.Fatalf("Failed to create engine: %v", err)
		}
		slog.Info("Engine initialized", "chat_model", cfg.ChatModel, "embedding_model", cfg.EmbeddingModel, "k", cfg.RetrievalK)

		deps.Engine = engine
		deps.Retriever = retriever
		deps.Index = ix
	}

	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
