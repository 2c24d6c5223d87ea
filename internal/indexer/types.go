package indexer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks clipchat-ai/internal/indexer Embedder

import "context"

// Embedder maps a batch of texts to fixed-dimension dense vectors, one per
// input, order preserved. Defined here from the pipeline's perspective;
// implemented by llm.EmbeddingsClient.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// SourceResult is the per-source outcome of a build run.
type SourceResult struct {
	SourceID string `json:"source_id"`
	Title    string `json:"title"`
	Chunks   int    `json:"chunks"`
	Error    string `json:"error,omitempty"`
}

// Report summarizes one index build.
type Report struct {
	BuildID     string         `json:"build_id"`
	ArtifactDir string         `json:"artifact_dir"`
	TotalChunks int            `json:"total_chunks"`
	Indexed     int            `json:"indexed"`
	Failed      int            `json:"failed"`
	Sources     []SourceResult `json:"sources"`
}
