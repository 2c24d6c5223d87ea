package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkoukk/tiktoken-go"

	"clipchat-ai/internal/contextutil"
	"clipchat-ai/internal/llm"
)

// maxK bounds how many excerpts a single request may ask for.
const maxK = 20

// ragEngine implements Engine.
type ragEngine struct {
	retriever ContextRetriever
	chat      ChatClient
	defaultK  int
	params    llm.ChatParams
	encoder   *tiktoken.Tiktoken
	logger    *slog.Logger
}

// NewEngine creates a new Engine.
func NewEngine(retriever ContextRetriever, chat ChatClient, defaultK int, params llm.ChatParams) (Engine, error) {
	encoder, err := newPromptEncoder()
	if err != nil {
		return nil, err
	}
	return &ragEngine{
		retriever: retriever,
		chat:      chat,
		defaultK:  defaultK,
		params:    params,
		encoder:   encoder,
		logger:    slog.Default(),
	}, nil
}

// Ask retrieves context for the question and asks the chat model for a
// grounded answer. A retrieval failure degrades to answering without context
// rather than failing the request; a chat failure is an error.
func (e *ragEngine) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if req.Question == "" {
		logger.WarnContext(ctx, "empty question in ask request")
		return AskResponse{}, &ValidationError{
			Field:   "question",
			Message: "cannot be empty",
		}
	}

	k := req.K
	if k <= 0 {
		k = e.defaultK
	}
	if k > maxK {
		k = maxK
	}

	excerpts, err := e.retriever.Retrieve(ctx, req.Question, k)
	if err != nil {
		logger.WarnContext(ctx, "retrieval failed, answering without context", "error", err)
		excerpts = nil
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: buildUserPrompt(e.encoder, req.Question, excerpts)},
	}

	answer, err := e.chat.ChatWithMessages(ctx, messages, e.params)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get chat completion", "error", err)
		return AskResponse{}, fmt.Errorf("%w: failed to get chat completion: %v", ErrExternalService, err)
	}

	logger.InfoContext(ctx, "ask request processed",
		"question_length", len(req.Question),
		"excerpts", len(excerpts),
		"answer_length", len(answer),
	)

	if excerpts == nil {
		excerpts = []Excerpt{}
	}
	return AskResponse{
		Answer:  answer,
		Sources: excerpts,
	}, nil
}
