package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"clipchat-ai/internal/rag"
	"clipchat-ai/internal/rag/mocks"
)

func TestChatHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name       string
		method     string
		body       string
		setupMock  func(*mocks.MockEngine)
		wantStatus int
		wantAnswer string
	}{
		{
			name:   "successful chat request",
			method: http.MethodPost,
			body:   `{"message":"how do I pick a lock"}`,
			setupMock: func(m *mocks.MockEngine) {
				m.EXPECT().
					Ask(gomock.Any(), rag.AskRequest{Question: "how do I pick a lock"}).
					Return(rag.AskResponse{
						Answer: "start with a tension wrench",
						Sources: []rag.Excerpt{
							{SourceID: "a1", Title: "Picking Basics", URL: "https://youtu.be/a1", Text: "excerpt", Score: 0.9},
						},
					}, nil)
			},
			wantStatus: http.StatusOK,
			wantAnswer: "start with a tension wrench",
		},
		{
			name:   "k override is forwarded",
			method: http.MethodPost,
			body:   `{"message":"question","k":3}`,
			setupMock: func(m *mocks.MockEngine) {
				m.EXPECT().
					Ask(gomock.Any(), rag.AskRequest{Question: "question", K: 3}).
					Return(rag.AskResponse{Answer: "ok", Sources: []rag.Excerpt{}}, nil)
			},
			wantStatus: http.StatusOK,
			wantAnswer: "ok",
		},
		{
			name:   "empty message returns bad request",
			method: http.MethodPost,
			body:   `{"message":""}`,
			setupMock: func(m *mocks.MockEngine) {
				m.EXPECT().
					Ask(gomock.Any(), gomock.Any()).
					Return(rag.AskResponse{}, &rag.ValidationError{Field: "question", Message: "cannot be empty"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "chat completion failure returns bad gateway",
			method: http.MethodPost,
			body:   `{"message":"question"}`,
			setupMock: func(m *mocks.MockEngine) {
				m.EXPECT().
					Ask(gomock.Any(), gomock.Any()).
					Return(rag.AskResponse{}, rag.WrapError(rag.ErrExternalService, "chat failed"))
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:   "unexpected failure returns internal error",
			method: http.MethodPost,
			body:   `{"message":"question"}`,
			setupMock: func(m *mocks.MockEngine) {
				m.EXPECT().
					Ask(gomock.Any(), gomock.Any()).
					Return(rag.AskResponse{}, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "invalid json returns bad request",
			method:     http.MethodPost,
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "get method not allowed",
			method:     http.MethodGet,
			body:       "",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockEngine := mocks.NewMockEngine(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(mockEngine)
			}

			handler := NewChatHandler(mockEngine)
			req := httptest.NewRequest(tt.method, "/api/chat", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantAnswer != "" {
				var resp ChatResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Answer != tt.wantAnswer {
					t.Errorf("answer = %q, want %q", resp.Answer, tt.wantAnswer)
				}
			}
		})
	}
}

func TestChatHandler_ServeHTTP_NoIndex(t *testing.T) {
	handler := NewChatHandler(nil)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"message":"question"}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error == "" {
		t.Error("expected an error message explaining the missing index")
	}
}
