package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"clipchat-ai/internal/config"
	"clipchat-ai/internal/indexer"
	"clipchat-ai/internal/llm"
	"clipchat-ai/internal/storage"
)

// manifestEntry describes one transcript in the ingest manifest. The
// transcript file path is resolved relative to the manifest's directory.
type manifestEntry struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	URL            string `json:"url"`
	TranscriptFile string `json:"transcript_file"`
}

func main() {
	manifestPath := flag.String("manifest", "data/sources.json", "path to the sources manifest")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	repo := storage.NewSourceRepo(db)

	if err := loadManifest(ctx, repo, *manifestPath); err != nil {
		log.Fatalf("Failed to load manifest: %v", err)
	}

	embedder := llm.NewEmbeddingsClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel, cfg.EmbeddingDim)
	pipeline := indexer.NewPipeline(repo, embedder, cfg.EmbeddingDim, cfg.ChunkMaxChars, cfg.ChunkOverlap, cfg.IndexDir)

	report, err := pipeline.BuildIndex(ctx)
	if err != nil {
		log.Fatalf("Index build failed: %v", err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("Failed to render report: %v", err)
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))

	if report.Failed > 0 {
		slog.Error("Some sources failed to index", "failed", report.Failed, "indexed", report.Indexed)
		os.Exit(1)
	}
}

// loadManifest reads the manifest and upserts each transcript into the source
// catalog. Sources whose transcript is unchanged are skipped by hash.
func loadManifest(ctx context.Context, repo storage.SourceStore, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var entries []manifestEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return err
	}

	baseDir := filepath.Dir(path)
	for _, entry := range entries {
		transcript, err := os.ReadFile(filepath.Join(baseDir, entry.TranscriptFile))
		if err != nil {
			return err
		}

		sum := sha256.Sum256(transcript)
		updated, err := repo.Upsert(ctx, &storage.Source{
			ID:         entry.ID,
			Title:      entry.Title,
			URL:        entry.URL,
			Transcript: string(transcript),
			Hash:       hex.EncodeToString(sum[:]),
		})
		if err != nil {
			return err
		}
		if updated {
			slog.Info("Source updated", "source_id", entry.ID, "title", entry.Title)
		} else {
			slog.Info("Source unchanged, keeping catalog entry", "source_id", entry.ID)
		}
	}

	slog.Info("Manifest loaded", "sources", len(entries))
	return nil
}
