package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"clipchat-ai/internal/contextutil"
	"clipchat-ai/internal/rag"
)

// ChatHandler handles HTTP requests for question answering.
type ChatHandler struct {
	engine rag.Engine
}

// NewChatHandler creates a new ChatHandler. A nil engine means the index has
// not been built yet; requests are answered with 503 until it is.
func NewChatHandler(engine rag.Engine) *ChatHandler {
	return &ChatHandler{
		engine: engine,
	}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	Message string `json:"message"`
	// K optionally overrides how many excerpts to retrieve.
	K int `json:"k,omitempty"`
}

// ChatResponse represents the HTTP response payload for chat.
type ChatResponse struct {
	Answer  string        `json:"answer"`
	Sources []rag.Excerpt `json:"sources"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles HTTP requests for chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if h.engine == nil {
		logger.WarnContext(ctx, "chat requested but index is not built")
		writeError(w, http.StatusServiceUnavailable, "Index not found. Please run ingestion first.")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.engine.Ask(ctx, rag.AskRequest{
		Question: req.Message,
		K:        req.K,
	})
	if err != nil {
		handleEngineError(w, ctx, err, "Failed to process chat request")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ChatResponse{
		Answer:  resp.Answer,
		Sources: resp.Sources,
	}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// handleEngineError maps domain errors to HTTP status codes.
func handleEngineError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "engine error", "error", err)

	var validationErr *rag.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	if errors.Is(err, rag.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if errors.Is(err, rag.ErrExternalService) {
		writeError(w, http.StatusBadGateway, "External service error")
		return
	}

	writeError(w, http.StatusInternalServerError, defaultMsg)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
