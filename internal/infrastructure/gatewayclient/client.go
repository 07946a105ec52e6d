package gatewayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"chat-relay/internal/domain/conversation"
	"chat-relay/internal/domain/relay"
)

// TransportError is the single failure kind reported by the client. StatusCode
// is zero when no HTTP response was received.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client calls the gateway over HTTP. It implements conversation.Transport.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

type uploadResponse struct {
	Success bool `json:"success"`
	File    *struct {
		URL       string `json:"url"`
		Name      string `json:"name"`
		MediaType string `json:"mediaType"`
		Type      string `json:"type"`
	} `json:"file"`
}

type queryRequest struct {
	Query string               `json:"query"`
	File  *relay.FileReference `json:"file,omitempty"`
}

// New creates a client for the gateway API rooted at baseURL, e.g. http://localhost:3000/api.
// Requests carry no client-side timeout; callers bound them through ctx.
func New(baseURL string, log zerolog.Logger) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")

	return &Client{
		http: client,
		log:  log.With().Str("component", "gateway-client").Logger(),
	}
}

// Upload sends the file as multipart field "file".
func (c *Client) Upload(ctx context.Context, file conversation.File) (*conversation.Attachment, error) {
	mediaType := file.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	var out uploadResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartField("file", file.Name, mediaType, bytes.NewReader(file.Data)).
		SetResult(&out).
		Post("/ai/upload")
	if err != nil {
		return nil, &TransportError{Op: "upload", Err: err}
	}
	if resp.IsError() {
		return nil, &TransportError{Op: "upload", StatusCode: resp.StatusCode(), Err: fmt.Errorf("%s", strings.TrimSpace(resp.String()))}
	}
	if !out.Success || out.File == nil || out.File.URL == "" {
		return nil, &TransportError{Op: "upload", StatusCode: resp.StatusCode(), Err: fmt.Errorf("unexpected response: %s", strings.TrimSpace(resp.String()))}
	}

	att := &conversation.Attachment{
		URL:       out.File.URL,
		Name:      out.File.Name,
		MediaType: out.File.MediaType,
	}
	if att.MediaType == "" {
		att.MediaType = out.File.Type
	}
	if att.Name == "" {
		att.Name = file.Name
	}

	c.log.Debug().Str("url", att.URL).Int64("bytes", file.Size()).Msg("file uploaded")
	return att, nil
}

// Query sends the text and optional attachment reference to the gateway.
func (c *Client) Query(ctx context.Context, query conversation.Query) (*conversation.Reply, error) {
	body := queryRequest{Query: query.Text}
	if query.Attachment != nil {
		body.File = &relay.FileReference{URL: query.Attachment.URL, MediaType: query.Attachment.MediaType}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/ai/query")
	if err != nil {
		return nil, &TransportError{Op: "query", Err: err}
	}
	if resp.IsError() {
		return nil, &TransportError{Op: "query", StatusCode: resp.StatusCode(), Err: fmt.Errorf("%s", strings.TrimSpace(resp.String()))}
	}
	if !json.Valid(resp.Body()) {
		return nil, &TransportError{Op: "query", StatusCode: resp.StatusCode(), Err: fmt.Errorf("response is not JSON")}
	}

	reply, err := relay.DecodeReply(resp.Body())
	if err != nil {
		return nil, &TransportError{Op: "query", StatusCode: resp.StatusCode(), Err: err}
	}
	return reply, nil
}
