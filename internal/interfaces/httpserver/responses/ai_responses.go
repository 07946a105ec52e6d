package responses

import (
	"chat-relay/internal/domain/relay"
)

// UploadResponse is returned by POST /api/ai/upload.
type UploadResponse struct {
	Success bool         `json:"success" example:"true"`
	File    FileResponse `json:"file"`
}

// FileResponse describes a stored file.
type FileResponse struct {
	URL       string `json:"url" example:"/uploads/upl_01HZX3YQ2V5J8K9M0N1P2Q3R4S.png"`
	Name      string `json:"name" example:"diagram.png"`
	MediaType string `json:"mediaType" example:"image/png"`
	Size      int64  `json:"size" example:"20480"`
}

// AgentResponse documents the agent body relayed by POST /api/ai/query.
type AgentResponse = relay.AgentReply

// BuildUploadResponse creates the upload response from a stored file.
func BuildUploadResponse(file *relay.StoredFile) UploadResponse {
	return UploadResponse{
		Success: true,
		File: FileResponse{
			URL:       file.URL,
			Name:      file.Name,
			MediaType: file.MediaType,
			Size:      file.Size,
		},
	}
}
