package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"clipchat-ai/internal/handlers"
	"clipchat-ai/internal/index"
	"clipchat-ai/internal/rag"
)

// Deps holds dependencies for the HTTP router. Engine, Retriever, and Index
// are nil when the service starts without built artifacts; the handlers then
// report the degraded state instead of failing at startup.
type Deps struct {
	Engine    rag.Engine
	Retriever rag.ContextRetriever
	Index     *index.Index
	DefaultK  int
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(LoggerMiddleware)

	chatHandler := handlers.NewChatHandler(deps.Engine)
	searchHandler := handlers.NewSearchHandler(deps.Retriever, deps.DefaultK)
	healthHandler := handlers.NewHealthHandler(deps.Index)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodPost, "/search", searchHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"service": "clipchat-ai",
			"chat":    "POST /api/chat",
			"search":  "POST /api/search",
			"health":  "GET /api/health",
		})
	})

	return r
}
