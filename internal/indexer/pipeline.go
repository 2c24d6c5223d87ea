package indexer

import (
	"context"
	"fmt"
	"log/slog"

	"clipchat-ai/internal/contextutil"
	"clipchat-ai/internal/index"
	"clipchat-ai/internal/storage"
)

// Pipeline orchestrates the batch build: source catalog -> chunks -> embedding
// vectors -> paired vector index + metadata store -> persisted artifacts.
type Pipeline struct {
	sources     storage.SourceStore
	embedder    Embedder
	dim         int
	maxChars    int
	overlap     int
	artifactDir string
	logger      *slog.Logger
}

// NewPipeline creates a new index build pipeline.
func NewPipeline(sources storage.SourceStore, embedder Embedder, dim, maxChars, overlap int, artifactDir string) *Pipeline {
	return &Pipeline{
		sources:     sources,
		embedder:    embedder,
		dim:         dim,
		maxChars:    maxChars,
		overlap:     overlap,
		artifactDir: artifactDir,
		logger:      slog.Default(),
	}
}

// BuildIndex rebuilds the whole index from the source catalog and persists the
// artifact pair. Each source is chunked and embedded in one batched call; a
// source whose embedding fails is logged, reported, and skipped without
// touching the index, so the vector and metadata collections can never end up
// misaligned. Nothing is persisted when no source yields chunks.
func (p *Pipeline) BuildIndex(ctx context.Context) (*Report, error) {
	logger := contextutil.LoggerFromContext(ctx)

	sources, err := p.sources.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("source catalog is empty, nothing to index")
	}

	ix, err := index.New(p.dim)
	if err != nil {
		return nil, err
	}

	report := &Report{BuildID: ix.BuildID(), ArtifactDir: p.artifactDir}

	logger.InfoContext(ctx, "starting index build", "build_id", ix.BuildID(), "sources", len(sources))

	for _, src := range sources {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result := SourceResult{SourceID: src.ID, Title: src.Title}

		chunks, err := p.indexSource(ctx, ix, src)
		if err != nil {
			report.Failed++
			result.Error = err.Error()
			report.Sources = append(report.Sources, result)
			logger.ErrorContext(ctx, "failed to index source", "source_id", src.ID, "error", err)
			continue
		}

		report.Indexed++
		report.TotalChunks += chunks
		result.Chunks = chunks
		report.Sources = append(report.Sources, result)

		if err := p.sources.SetChunkCount(ctx, src.ID, chunks); err != nil {
			logger.WarnContext(ctx, "failed to record chunk count", "source_id", src.ID, "error", err)
		}

		logger.InfoContext(ctx, "indexed source", "source_id", src.ID, "title", src.Title, "chunks", chunks)
	}

	if ix.Len() == 0 {
		return report, fmt.Errorf("no chunks indexed (%d sources failed), refusing to persist an empty index", report.Failed)
	}

	if err := ix.Save(p.artifactDir); err != nil {
		return report, fmt.Errorf("failed to persist index: %w", err)
	}

	logger.InfoContext(ctx, "index build completed",
		"build_id", ix.BuildID(),
		"chunks", ix.Len(),
		"indexed", report.Indexed,
		"failed", report.Failed,
		"artifact_dir", p.artifactDir,
	)

	return report, nil
}

// indexSource chunks and embeds one source and appends the resulting pairs.
// The paired append happens only after the whole batch embedded successfully.
func (p *Pipeline) indexSource(ctx context.Context, ix *index.Index, src storage.Source) (int, error) {
	chunks, err := SplitText(src.Transcript, p.maxChars, p.overlap)
	if err != nil {
		return 0, fmt.Errorf("failed to chunk transcript: %w", err)
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("empty transcript")
	}

	vecs, err := p.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vecs) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(vecs))
	}

	recs := make([]index.Record, len(chunks))
	for i, text := range chunks {
		index.Normalize(vecs[i])
		recs[i] = index.Record{
			SourceID: src.ID,
			Title:    src.Title,
			URL:      src.URL,
			Text:     text,
		}
	}

	if err := ix.AddBatch(vecs, recs); err != nil {
		return 0, err
	}
	ix.AddSource(index.SourceSummary{
		SourceID: src.ID,
		Title:    src.Title,
		URL:      src.URL,
		Chunks:   len(chunks),
	})
	return len(chunks), nil
}
