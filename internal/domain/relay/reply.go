package relay

import (
	"encoding/json"
	"fmt"

	"chat-relay/internal/domain/conversation"
)

// AgentReply is the agent's response body as relayed by the gateway. Older
// agents send media cards under "videos" and the attachment type under "type".
type AgentReply struct {
	Text         string           `json:"text"`
	Type         string           `json:"type,omitempty"`
	File         *AgentFile       `json:"file,omitempty"`
	MediaResults []AgentMediaCard `json:"mediaResults,omitempty"`
	Videos       []AgentMediaCard `json:"videos,omitempty"`
}

// AgentFile is a file reference inside an agent reply.
type AgentFile struct {
	URL       string `json:"url"`
	Name      string `json:"name,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
	Type      string `json:"type,omitempty"`
}

// AgentMediaCard is one media result. Fields are passed through as-is.
type AgentMediaCard struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	Channel   string `json:"channel"`
}

// DecodeReply parses a relayed agent body into a conversation reply.
func DecodeReply(raw []byte) (*conversation.Reply, error) {
	var body AgentReply
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode agent reply: %w", err)
	}
	return body.ToReply(), nil
}

// ToReply converts the wire shape into the conversation model.
func (r AgentReply) ToReply() *conversation.Reply {
	reply := &conversation.Reply{Text: r.Text}

	if r.File != nil && r.File.URL != "" {
		mediaType := r.File.MediaType
		if mediaType == "" {
			mediaType = r.File.Type
		}
		reply.Attachment = &conversation.Attachment{
			URL:       r.File.URL,
			MediaType: mediaType,
			Name:      r.File.Name,
		}
	}

	cards := r.MediaResults
	if len(cards) == 0 {
		cards = r.Videos
	}
	for _, card := range cards {
		reply.MediaResults = append(reply.MediaResults, conversation.MediaResult{
			Title:     card.Title,
			URL:       card.URL,
			Thumbnail: card.Thumbnail,
			Channel:   card.Channel,
		})
	}

	return reply
}
