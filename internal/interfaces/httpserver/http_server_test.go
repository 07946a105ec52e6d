package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-relay/internal/config"
	"chat-relay/internal/domain/conversation"
	"chat-relay/internal/domain/relay"
	"chat-relay/internal/infrastructure/store"
)

type stubRelay struct {
	readyErr error
}

func (s *stubRelay) Query(ctx context.Context, req relay.QueryRequest) (json.RawMessage, error) {
	return json.RawMessage(`{"text":"ok"}`), nil
}

func (s *stubRelay) Upload(ctx context.Context, req relay.UploadRequest) (*relay.StoredFile, error) {
	return nil, errors.New("not used")
}

func (s *stubRelay) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return nil, "", relay.ErrFileNotFound
}

func (s *stubRelay) Ready(ctx context.Context) error {
	return s.readyErr
}

type stubTransport struct{}

func (stubTransport) Upload(ctx context.Context, file conversation.File) (*conversation.Attachment, error) {
	return &conversation.Attachment{URL: "/uploads/x"}, nil
}

func (stubTransport) Query(ctx context.Context, query conversation.Query) (*conversation.Reply, error) {
	return &conversation.Reply{Text: "ok"}, nil
}

func newTestServer(relayService relay.Service) *HTTPServer {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{ServiceName: "chat-relay", UploadURLPrefix: "/uploads"}
	convService := conversation.NewService(store.NewMemoryStore(zerolog.Nop()), stubTransport{}, zerolog.Nop())
	return New(cfg, zerolog.Nop(), relayService, convService)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCoreRoutes(t *testing.T) {
	srv := newTestServer(&stubRelay{})

	w := get(t, srv.Handler(), "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"service":"chat-relay","status":"ok"}`, w.Body.String())

	w = get(t, srv.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(t, srv.Handler(), "/readyz")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(t, srv.Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "chat_relay_http_requests_total")
}

func TestReadyzReportsStorageFailure(t *testing.T) {
	srv := newTestServer(&stubRelay{readyErr: errors.New("bucket missing")})

	w := get(t, srv.Handler(), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "bucket missing")
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(&stubRelay{})

	w := get(t, srv.Handler(), "/healthz")
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-Id"))
}

func TestErrorBodyCarriesRequestID(t *testing.T) {
	srv := newTestServer(&stubRelay{})

	req := httptest.NewRequest(http.MethodGet, "/api/conversations/conv_missing", nil)
	req.Header.Set("X-Request-Id", "req-404")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var body struct {
		Error struct {
			Message   string `json:"message"`
			Type      string `json:"type"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "conversation not found", body.Error.Message)
	assert.Equal(t, "not_found_error", body.Error.Type)
	assert.Equal(t, "req-404", body.Error.RequestID)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&stubRelay{})

	req := httptest.NewRequest(http.MethodOptions, "/api/ai/query", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
