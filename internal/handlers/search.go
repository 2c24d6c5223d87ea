package handlers

import (
	"encoding/json"
	"net/http"

	"clipchat-ai/internal/contextutil"
	"clipchat-ai/internal/rag"
)

// SearchHandler exposes raw similarity search without chat completion.
type SearchHandler struct {
	retriever rag.ContextRetriever
	defaultK  int
}

// NewSearchHandler creates a new SearchHandler. A nil retriever means the
// index has not been built yet.
func NewSearchHandler(retriever rag.ContextRetriever, defaultK int) *SearchHandler {
	return &SearchHandler{
		retriever: retriever,
		defaultK:  defaultK,
	}
}

// SearchRequest represents the HTTP request payload for search.
type SearchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k,omitempty"`
}

// SearchResponse represents the HTTP response payload for search.
type SearchResponse struct {
	Results []rag.Excerpt `json:"results"`
}

// ServeHTTP handles HTTP requests for similarity search.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if h.retriever == nil {
		logger.WarnContext(ctx, "search requested but index is not built")
		writeError(w, http.StatusServiceUnavailable, "Index not found. Please run ingestion first.")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	k := req.K
	if k <= 0 {
		k = h.defaultK
	}

	results, err := h.retriever.Retrieve(ctx, req.Query, k)
	if err != nil {
		handleEngineError(w, ctx, err, "Failed to search the index")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(SearchResponse{Results: results}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
