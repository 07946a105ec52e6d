package requests

// SubmitMessageRequest is the JSON body of POST /api/conversations/:id/messages.
// Multipart submissions carry the same text in a "text" form field.
type SubmitMessageRequest struct {
	Text string `json:"text" form:"text" example:"hello"`
}
