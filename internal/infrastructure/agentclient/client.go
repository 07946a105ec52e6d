package agentclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"chat-relay/internal/config"
	"chat-relay/internal/domain/relay"
	"chat-relay/internal/infrastructure/metrics"
	"chat-relay/internal/infrastructure/observability"
)

const (
	queryPath       = "/api/agent"
	processFilePath = "/api/process-file"
)

// StatusError is returned when the agent answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("agent api error: status %d: %s", e.StatusCode, e.Body)
}

// ErrInvalidResponse is returned when the agent body is not JSON.
var ErrInvalidResponse = errors.New("agent returned a non-JSON body")

// Client implements relay.AgentClient over HTTP.
type Client struct {
	httpClient *resty.Client
	breaker    *gobreaker.CircuitBreaker
	log        zerolog.Logger
}

// NewClient creates a Resty-backed agent client. Requests are not retried.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	logger := log.With().Str("component", "agent-client").Logger()

	c := &Client{
		httpClient: resty.New().
			SetBaseURL(cfg.AgentURL).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		log: logger,
	}

	if cfg.AgentBreakerEnabled {
		failures := cfg.AgentBreakerFailures
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "agent",
			MaxRequests: 1,
			Timeout:     cfg.AgentBreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("agent circuit breaker state changed")
			},
		})
	}

	logger.Info().Str("base_url", cfg.AgentURL).Bool("breaker", cfg.AgentBreakerEnabled).Msg("agent client initialized")
	return c
}

// Ask forwards a query to the agent and returns its JSON body unchanged.
func (c *Client) Ask(ctx context.Context, req relay.AgentRequest) (json.RawMessage, error) {
	return c.post(ctx, "query", queryPath, req)
}

// ProcessFile asks the agent to describe an uploaded file.
func (c *Client) ProcessFile(ctx context.Context, file relay.FileReference) (json.RawMessage, error) {
	body := map[string]string{
		"filePath": file.URL,
		"fileType": file.MediaType,
	}
	return c.post(ctx, "process_file", processFilePath, body)
}

func (c *Client) post(ctx context.Context, operation, path string, body any) (json.RawMessage, error) {
	ctx, span := observability.Tracer().Start(ctx, "agent."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.target", path)),
	)
	defer span.End()

	start := time.Now()
	raw, err := c.execute(func() (json.RawMessage, error) {
		return c.do(ctx, path, body)
	})
	duration := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			status = "breaker_open"
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Warn().Err(err).Str("operation", operation).Dur("latency", duration).Msg("agent request failed")
	} else {
		c.log.Debug().Str("operation", operation).Dur("latency", duration).Msg("agent request completed")
	}
	metrics.RecordAgentRequest(operation, status, duration.Seconds())

	return raw, err
}

func (c *Client) execute(fn func() (json.RawMessage, error)) (json.RawMessage, error) {
	if c.breaker == nil {
		return fn()
	}
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, err
	}
	return out.(json.RawMessage), nil
}

func (c *Client) do(ctx context.Context, path string, body any) (json.RawMessage, error) {
	request := c.httpClient.R().
		SetContext(ctx).
		SetBody(body)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(request.Header))

	resp, err := request.Post(path)
	if err != nil {
		return nil, fmt.Errorf("agent request: %w", err)
	}
	if resp.IsError() {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	raw := resp.Body()
	if !json.Valid(raw) {
		return nil, ErrInvalidResponse
	}
	return json.RawMessage(raw), nil
}
