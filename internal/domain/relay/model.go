package relay

import "io"

// FileReference points the agent at a previously uploaded file.
type FileReference struct {
	URL       string `json:"url"`
	MediaType string `json:"type"`
}

// QueryRequest is a query accepted by the gateway.
type QueryRequest struct {
	Query string
	File  *FileReference
}

// AgentRequest is forwarded to the agent's query endpoint.
type AgentRequest struct {
	Query string         `json:"query"`
	File  *FileReference `json:"file,omitempty"`
}

// UploadRequest is a file received by the gateway.
type UploadRequest struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// StoredFile describes a file after it has been stored.
type StoredFile struct {
	Key       string
	URL       string
	Name      string
	MediaType string
	Size      int64
}
