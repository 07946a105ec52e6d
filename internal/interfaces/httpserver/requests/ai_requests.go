package requests

import (
	"chat-relay/internal/domain/relay"
)

// QueryRequest is the body of POST /api/ai/query.
type QueryRequest struct {
	Query string       `json:"query" example:"find me videos about react hooks"`
	File  *FileRequest `json:"file,omitempty"`
}

// FileRequest references a file returned by POST /api/ai/upload.
type FileRequest struct {
	URL       string `json:"url" example:"/uploads/upl_01HZX3YQ2V5J8K9M0N1P2Q3R4S.png"`
	MediaType string `json:"type,omitempty" example:"image/png"`
}

// ToDomain converts the request to the relay model.
func (r *QueryRequest) ToDomain() relay.QueryRequest {
	req := relay.QueryRequest{Query: r.Query}
	if r.File != nil {
		req.File = &relay.FileReference{URL: r.File.URL, MediaType: r.File.MediaType}
	}
	return req
}
