package conversation

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TimestampLayout is the display format of Message.Timestamp.
const TimestampLayout = "15:04"

// Attachment references an uploaded file.
type Attachment struct {
	URL       string
	MediaType string
	Name      string
}

// MediaResult is an opaque media card returned by the agent, such as a video search hit.
type MediaResult struct {
	Title     string
	URL       string
	Thumbnail string
	Channel   string
}

// Message is a single entry of the conversation log. Messages are never
// mutated once appended; the assistant placeholder is replaced by a new value.
type Message struct {
	ID            string
	SequenceIndex int
	Role          Role
	Content       string
	Timestamp     string
	CreatedAt     time.Time
	Attachment    *Attachment
	MediaResults  []MediaResult

	// Pending marks the transient assistant placeholder shown while the agent answers.
	Pending bool
	// Degraded marks an assistant reply produced by the fallback responder.
	Degraded bool
}

func (m Message) clone() Message {
	out := m
	if m.Attachment != nil {
		att := *m.Attachment
		out.Attachment = &att
	}
	if m.MediaResults != nil {
		out.MediaResults = append([]MediaResult(nil), m.MediaResults...)
	}
	return out
}

// File is a user file to upload before the query is sent.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

// Size returns the file size in bytes.
func (f File) Size() int64 {
	return int64(len(f.Data))
}

// Submission is the user input accepted by Session.Submit.
type Submission struct {
	Text string
	File *File
}

// Query is sent to the agent through the transport.
type Query struct {
	Text       string
	Attachment *Attachment
}

// Reply is the structured agent response.
type Reply struct {
	Text         string
	Attachment   *Attachment
	MediaResults []MediaResult
}

// NoticeKind classifies user-facing notices raised by the pipeline.
type NoticeKind string

const (
	NoticeDegraded     NoticeKind = "degraded"
	NoticeUploadFailed NoticeKind = "upload_failed"
)

// Notice is a transient message for the user that is not part of the log.
type Notice struct {
	Kind    NoticeKind
	Message string
}

var (
	degradedNotice     = Notice{Kind: NoticeDegraded, Message: "The AI agent is unavailable, showing a fallback response."}
	uploadFailedNotice = Notice{Kind: NoticeUploadFailed, Message: "Failed to upload file. Your message was not sent."}
)

// Result describes a completed submission.
type Result struct {
	User      Message
	Assistant Message
	// Degraded is true when the assistant message came from the fallback responder.
	Degraded bool
	// QueryError holds the masked transport failure of a degraded submission.
	QueryError *QueryError
	Notice     *Notice
}

// Outcome is delivered by SubmitAsync.
type Outcome struct {
	Result *Result
	Err    error
}

// EventType identifies a log change.
type EventType string

const (
	EventMessageAppended EventType = "message_appended"
	EventMessageReplaced EventType = "message_replaced"
	EventPendingChanged  EventType = "pending_changed"
	EventNotice          EventType = "notice"
)

// Event is delivered to session listeners after each change.
type Event struct {
	Type    EventType
	Message *Message
	Pending bool
	Notice  *Notice
}

// Listener receives session events in mutation order. Listeners run without
// session locks held and may read the session. When submissions overlap, an
// event can be delivered by a goroutine other than the one that caused it.
type Listener func(Event)
