package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"clipchat-ai/internal/index"
)

func loadedIndex(t *testing.T) *index.Index {
	t.Helper()

	ix, err := index.New(2)
	if err != nil {
		t.Fatalf("index.New() unexpected error: %v", err)
	}
	err = ix.AddBatch(
		[][]float32{{1, 0}},
		[]index.Record{{SourceID: "a1", Title: "Picking Basics", Text: "excerpt"}},
	)
	if err != nil {
		t.Fatalf("AddBatch() unexpected error: %v", err)
	}
	return ix
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	t.Run("healthy when index loaded", func(t *testing.T) {
		ix := loadedIndex(t)
		handler := NewHealthHandler(ix)
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var resp HealthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Status != "healthy" {
			t.Errorf("status = %q, want healthy", resp.Status)
		}
		if resp.Checks["index"] != "ok" {
			t.Errorf("index check = %q, want ok", resp.Checks["index"])
		}
		if resp.BuildID != ix.BuildID() || resp.Chunks != 1 {
			t.Errorf("build info = %q/%d, want %q/1", resp.BuildID, resp.Chunks, ix.BuildID())
		}
	})

	t.Run("degraded without index", func(t *testing.T) {
		handler := NewHealthHandler(nil)
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
		}
		var resp HealthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Status != "degraded" {
			t.Errorf("status = %q, want degraded", resp.Status)
		}
		if len(resp.Issues) == 0 {
			t.Error("expected issues to name the missing index")
		}
	})

	t.Run("post not allowed", func(t *testing.T) {
		handler := NewHealthHandler(loadedIndex(t))
		req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
		}
	})
}
