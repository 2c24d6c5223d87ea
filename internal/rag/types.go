package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks clipchat-ai/internal/rag Embedder
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_client.go -package=mocks clipchat-ai/internal/rag ChatClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_retriever.go -package=mocks -mock_names=ContextRetriever=MockContextRetriever clipchat-ai/internal/rag ContextRetriever
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks -mock_names=Engine=MockEngine clipchat-ai/internal/rag Engine

import (
	"context"

	"clipchat-ai/internal/llm"
)

// Embedder maps texts to fixed-dimension dense vectors.
// This interface is defined from the retriever's perspective (consumer-first).
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatClient sends a conversation to a chat completion API.
type ChatClient interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// Excerpt is one retrieved transcript chunk joined with its source metadata.
type Excerpt struct {
	SourceID string  `json:"source_id"`
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Text     string  `json:"text"`
	Score    float32 `json:"score"`
}

// ContextRetriever finds the excerpts most similar to a query.
type ContextRetriever interface {
	// Retrieve returns up to k excerpts ordered by descending similarity.
	Retrieve(ctx context.Context, query string, k int) ([]Excerpt, error)
}

// AskRequest represents a question in the domain layer.
type AskRequest struct {
	Question string `validate:"required"`
	// K overrides the default number of excerpts when positive.
	K int
}

// AskResponse carries the grounded answer and the excerpts it drew on.
type AskResponse struct {
	Answer  string    `json:"answer"`
	Sources []Excerpt `json:"sources"`
}

// Engine answers questions grounded in retrieved transcript excerpts.
type Engine interface {
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
}
