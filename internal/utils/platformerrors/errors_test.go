package platformerrors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestNewErrorCarriesRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	cause := errors.New("boom")

	err := NewError(ctx, LayerDomain, ErrorTypeConflict, "busy", cause)

	if err.RequestID != "req-1" {
		t.Fatalf("expected request id req-1, got %q", err.RequestID)
	}
	if err.UUID == "" {
		t.Fatal("expected uuid to be set")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected error to unwrap to cause")
	}
}

func TestAsErrorKeepsType(t *testing.T) {
	ctx := context.Background()
	inner := NewError(ctx, LayerInfrastructure, ErrorTypeNotFound, "missing", nil)

	wrapped := AsError(ctx, LayerHandler, fmt.Errorf("lookup: %w", inner), "get file")
	if wrapped.Type != ErrorTypeNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", wrapped.Type)
	}
	if !IsErrorType(wrapped, ErrorTypeNotFound) {
		t.Fatal("expected IsErrorType to match")
	}

	plain := AsError(ctx, LayerHandler, errors.New("boom"), "get file")
	if plain.Type != ErrorTypeInternal {
		t.Fatalf("expected INTERNAL, got %s", plain.Type)
	}
	if AsError(ctx, LayerHandler, nil, "noop") != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestErrorTypeToHTTPStatus(t *testing.T) {
	cases := map[ErrorType]int{
		ErrorTypeNotFound:       http.StatusNotFound,
		ErrorTypeValidation:     http.StatusBadRequest,
		ErrorTypeConflict:       http.StatusConflict,
		ErrorTypeTooLarge:       http.StatusRequestEntityTooLarge,
		ErrorTypeNotImplemented: http.StatusNotImplemented,
		ErrorTypeExternal:       http.StatusBadGateway,
		ErrorTypeInternal:       http.StatusInternalServerError,
	}
	for errorType, want := range cases {
		if got := ErrorTypeToHTTPStatus(errorType); got != want {
			t.Errorf("%s: expected %d, got %d", errorType, want, got)
		}
	}
}

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "platform error",
			err:        NewError(context.Background(), LayerRoute, ErrorTypeValidation, "bad input", nil),
			wantStatus: http.StatusBadRequest,
			wantType:   "validation_error",
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			WriteError(c, tt.err, zerolog.Nop())

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var body HTTPErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error == nil || body.Error.Type != tt.wantType {
				t.Fatalf("expected type %s, got %+v", tt.wantType, body.Error)
			}
		})
	}
}

func TestWriteHelpersIncludeRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), "req-9"))

	WriteBadGateway(c, "Failed to upload file")

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	var body HTTPErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.RequestID != "req-9" || body.Error.Message != "Failed to upload file" {
		t.Fatalf("unexpected body %+v", body.Error)
	}
}
