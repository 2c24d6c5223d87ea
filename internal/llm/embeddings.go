package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// EmbeddingsClient is a client for the OpenAI embeddings API.
type EmbeddingsClient struct {
	Model        string
	ExpectedSize int // Expected vector size for validation
	client       *openai.Client
}

// NewEmbeddingsClient creates a new embeddings client.
// baseURL overrides the OpenAI endpoint when non-empty (llama.cpp, proxies).
// expectedSize is the embedding dimension (from EMBEDDING_DIM config); all
// vectors returned by EmbedTexts are validated against it.
func NewEmbeddingsClient(apiKey, baseURL, model string, expectedSize int) *EmbeddingsClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &EmbeddingsClient{
		Model:        model,
		ExpectedSize: expectedSize,
		client:       openai.NewClientWithConfig(cfg),
	}
}

// EmbedTexts generates embeddings for the given texts in a single batched call.
// Returns one float32 vector per input text, in input order. Vectors are
// returned exactly as the service produced them; normalization is the caller's
// responsibility. Failures are wrapped in ErrEmbedding.
func (c *EmbeddingsClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.Model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", ErrEmbedding, len(texts), len(resp.Data))
	}

	result := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		if len(data.Embedding) != c.ExpectedSize {
			return nil, fmt.Errorf("%w: embedding %d has size %d, expected %d", ErrEmbedding, i, len(data.Embedding), c.ExpectedSize)
		}
		vec := make([]float32, len(data.Embedding))
		copy(vec, data.Embedding)
		result[i] = vec
	}

	return result, nil
}
