package relay

import (
	"bytes"
	"context"

	"chat-relay/internal/domain/conversation"
)

// LocalTransport lets server-hosted conversations call the relay service
// in-process instead of going through HTTP.
type LocalTransport struct {
	service Service
}

// NewLocalTransport wraps a relay service as a conversation transport.
func NewLocalTransport(service Service) *LocalTransport {
	return &LocalTransport{service: service}
}

// Upload stores the file through the relay service.
func (t *LocalTransport) Upload(ctx context.Context, file conversation.File) (*conversation.Attachment, error) {
	stored, err := t.service.Upload(ctx, UploadRequest{
		Filename:    file.Name,
		ContentType: file.MediaType,
		Size:        file.Size(),
		Body:        bytes.NewReader(file.Data),
	})
	if err != nil {
		return nil, err
	}
	return &conversation.Attachment{
		URL:       stored.URL,
		MediaType: stored.MediaType,
		Name:      stored.Name,
	}, nil
}

// Query relays the query and decodes the agent reply.
func (t *LocalTransport) Query(ctx context.Context, query conversation.Query) (*conversation.Reply, error) {
	req := QueryRequest{Query: query.Text}
	if query.Attachment != nil {
		req.File = &FileReference{URL: query.Attachment.URL, MediaType: query.Attachment.MediaType}
	}

	raw, err := t.service.Query(ctx, req)
	if err != nil {
		return nil, err
	}
	return DecodeReply(raw)
}
