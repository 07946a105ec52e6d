package responses

import (
	"time"

	"chat-relay/internal/domain/conversation"
)

// AttachmentResponse is a file attached to a message.
type AttachmentResponse struct {
	URL       string `json:"url"`
	MediaType string `json:"mediaType"`
	Name      string `json:"name,omitempty"`
}

// MediaResultResponse is a media card attached to an assistant message.
type MediaResultResponse struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	Channel   string `json:"channel"`
}

// MessageResponse is one entry of the conversation log.
type MessageResponse struct {
	ID            string                `json:"id"`
	SequenceIndex int                   `json:"sequenceIndex"`
	Role          string                `json:"role" example:"assistant"`
	Content       string                `json:"content"`
	Timestamp     string                `json:"timestamp" example:"14:05"`
	CreatedAt     time.Time             `json:"createdAt"`
	Attachment    *AttachmentResponse   `json:"attachment,omitempty"`
	MediaResults  []MediaResultResponse `json:"mediaResults,omitempty"`
	Pending       bool                  `json:"pending,omitempty"`
	Degraded      bool                  `json:"degraded,omitempty"`
}

// ConversationResponse is a conversation snapshot.
type ConversationResponse struct {
	ID           string            `json:"id"`
	Object       string            `json:"object" example:"conversation"`
	Pending      bool              `json:"pending"`
	CreatedAt    time.Time         `json:"createdAt"`
	LastActivity time.Time         `json:"lastActivity"`
	Messages     []MessageResponse `json:"messages"`
}

// ConversationSummaryResponse is a list entry without messages.
type ConversationSummaryResponse struct {
	ID           string    `json:"id"`
	Object       string    `json:"object" example:"conversation"`
	Pending      bool      `json:"pending"`
	MessageCount int       `json:"messageCount"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// ConversationListResponse wraps the conversation list.
type ConversationListResponse struct {
	Object string                        `json:"object" example:"list"`
	Data   []ConversationSummaryResponse `json:"data"`
}

// DeletedResponse confirms a deletion.
type DeletedResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object" example:"conversation.deleted"`
	Deleted bool   `json:"deleted" example:"true"`
}

// NoticeResponse is a user-facing notice that is not part of the log.
type NoticeResponse struct {
	Kind    string `json:"kind" example:"degraded"`
	Message string `json:"message"`
}

// SubmitResponse is returned by POST /api/conversations/:id/messages.
type SubmitResponse struct {
	UserMessage      MessageResponse `json:"userMessage"`
	AssistantMessage MessageResponse `json:"assistantMessage"`
	Degraded         bool            `json:"degraded"`
	Notice           *NoticeResponse `json:"notice,omitempty"`
}

// EventResponse is the data of one SSE event.
type EventResponse struct {
	Type    string           `json:"type"`
	Message *MessageResponse `json:"message,omitempty"`
	Pending *bool            `json:"pending,omitempty"`
	Notice  *NoticeResponse  `json:"notice,omitempty"`
}

// BuildMessageResponse converts a log entry.
func BuildMessageResponse(m conversation.Message) MessageResponse {
	resp := MessageResponse{
		ID:            m.ID,
		SequenceIndex: m.SequenceIndex,
		Role:          string(m.Role),
		Content:       m.Content,
		Timestamp:     m.Timestamp,
		CreatedAt:     m.CreatedAt,
		Pending:       m.Pending,
		Degraded:      m.Degraded,
	}
	if m.Attachment != nil {
		resp.Attachment = &AttachmentResponse{
			URL:       m.Attachment.URL,
			MediaType: m.Attachment.MediaType,
			Name:      m.Attachment.Name,
		}
	}
	for _, r := range m.MediaResults {
		resp.MediaResults = append(resp.MediaResults, MediaResultResponse{
			Title:     r.Title,
			URL:       r.URL,
			Thumbnail: r.Thumbnail,
			Channel:   r.Channel,
		})
	}
	return resp
}

// BuildConversationResponse converts a session snapshot.
func BuildConversationResponse(sess *conversation.Session) ConversationResponse {
	snapshot := sess.Snapshot()
	messages := make([]MessageResponse, 0, len(snapshot))
	for _, m := range snapshot {
		messages = append(messages, BuildMessageResponse(m))
	}
	return ConversationResponse{
		ID:           sess.ID(),
		Object:       "conversation",
		Pending:      sess.IsPending(),
		CreatedAt:    sess.CreatedAt(),
		LastActivity: sess.LastActivity(),
		Messages:     messages,
	}
}

// BuildConversationListResponse converts a list of sessions.
func BuildConversationListResponse(sessions []*conversation.Session) ConversationListResponse {
	data := make([]ConversationSummaryResponse, 0, len(sessions))
	for _, sess := range sessions {
		data = append(data, ConversationSummaryResponse{
			ID:           sess.ID(),
			Object:       "conversation",
			Pending:      sess.IsPending(),
			MessageCount: sess.Len(),
			CreatedAt:    sess.CreatedAt(),
			LastActivity: sess.LastActivity(),
		})
	}
	return ConversationListResponse{Object: "list", Data: data}
}

// BuildSubmitResponse converts a submission result.
func BuildSubmitResponse(res *conversation.Result) SubmitResponse {
	return SubmitResponse{
		UserMessage:      BuildMessageResponse(res.User),
		AssistantMessage: BuildMessageResponse(res.Assistant),
		Degraded:         res.Degraded,
		Notice:           buildNotice(res.Notice),
	}
}

// BuildEventResponse converts a session event.
func BuildEventResponse(ev conversation.Event) EventResponse {
	resp := EventResponse{Type: string(ev.Type), Notice: buildNotice(ev.Notice)}
	if ev.Message != nil {
		msg := BuildMessageResponse(*ev.Message)
		resp.Message = &msg
	}
	if ev.Type == conversation.EventPendingChanged {
		pending := ev.Pending
		resp.Pending = &pending
	}
	return resp
}

func buildNotice(n *conversation.Notice) *NoticeResponse {
	if n == nil {
		return nil
	}
	return &NoticeResponse{Kind: string(n.Kind), Message: n.Message}
}
