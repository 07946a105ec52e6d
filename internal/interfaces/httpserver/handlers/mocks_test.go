package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chat-relay/internal/domain/conversation"
	"chat-relay/internal/domain/relay"
	"chat-relay/internal/infrastructure/store"
	"chat-relay/internal/interfaces/httpserver/handlers"
	v1 "chat-relay/internal/interfaces/httpserver/routes/v1"
)

// MockRelayService is a mock implementation of relay.Service.
type MockRelayService struct {
	QueryFunc  func(ctx context.Context, req relay.QueryRequest) (json.RawMessage, error)
	UploadFunc func(ctx context.Context, req relay.UploadRequest) (*relay.StoredFile, error)
	OpenFunc   func(ctx context.Context, key string) (io.ReadCloser, string, error)
	ReadyFunc  func(ctx context.Context) error
}

func (m *MockRelayService) Query(ctx context.Context, req relay.QueryRequest) (json.RawMessage, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, req)
	}
	return json.RawMessage(`{"text":"ok"}`), nil
}

func (m *MockRelayService) Upload(ctx context.Context, req relay.UploadRequest) (*relay.StoredFile, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockRelayService) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, key)
	}
	return nil, "", relay.ErrFileNotFound
}

func (m *MockRelayService) Ready(ctx context.Context) error {
	if m.ReadyFunc != nil {
		return m.ReadyFunc(ctx)
	}
	return nil
}

// MockTransport is a mock implementation of conversation.Transport.
type MockTransport struct {
	UploadFunc func(ctx context.Context, file conversation.File) (*conversation.Attachment, error)
	QueryFunc  func(ctx context.Context, query conversation.Query) (*conversation.Reply, error)
}

func (m *MockTransport) Upload(ctx context.Context, file conversation.File) (*conversation.Attachment, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, file)
	}
	return &conversation.Attachment{URL: "/uploads/" + file.Name, MediaType: file.MediaType, Name: file.Name}, nil
}

func (m *MockTransport) Query(ctx context.Context, query conversation.Query) (*conversation.Reply, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, query)
	}
	return &conversation.Reply{Text: "agent reply"}, nil
}

func setupRouter(relayService relay.Service, conversationService conversation.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	provider := handlers.NewProvider(relayService, conversationService, zerolog.Nop())
	v1.NewRoutes(provider, "/uploads").Register(router)
	return router
}

func newConversationService(transport conversation.Transport) conversation.Service {
	return conversation.NewService(store.NewMemoryStore(zerolog.Nop()), transport, zerolog.Nop())
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}
