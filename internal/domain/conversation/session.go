package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"chat-relay/internal/domain/fallback"
	"chat-relay/internal/utils/idgen"
)

// Session owns one conversation log and its pending flag. All mutations go
// through the session, which accepts at most one submission at a time.
type Session struct {
	id        string
	transport Transport
	respond   func(string) string
	now       func() time.Time
	log       zerolog.Logger

	mu           sync.Mutex
	messages     []Message
	pending      bool
	createdAt    time.Time
	lastActivity time.Time
	listeners    map[int]Listener
	nextListener int

	// queue holds events in mutation order until a delivering goroutine
	// hands them to listeners. Only one goroutine delivers at a time.
	queue      []delivery
	delivering bool
}

type delivery struct {
	event     Event
	listeners []Listener
}

// Option configures a Session.
type Option func(*Session)

// WithID sets the session identifier.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithClock overrides the time source used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the session logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithFallback overrides the fallback responder.
func WithFallback(respond func(string) string) Option {
	return func(s *Session) { s.respond = respond }
}

// NewSession creates an empty session that talks to the gateway through transport.
func NewSession(transport Transport, opts ...Option) *Session {
	s := &Session{
		transport: transport,
		respond:   fallback.Respond,
		now:       time.Now,
		log:       zerolog.Nop(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("component", "conversation-session").Str("conversation_id", s.id).Logger()
	s.createdAt = s.now()
	s.lastActivity = s.createdAt
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// LastActivity returns the time of the latest submission or log change.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// IsPending reports whether a submission is in flight.
func (s *Session) IsPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Len returns the number of messages in the log.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Snapshot returns a copy of the log in sequence order.
func (s *Session) Snapshot() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.clone()
	}
	return out
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Session) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// SubmitAsync runs Submit on a new goroutine. The returned channel yields
// exactly one Outcome once the submission has completed or been rejected.
func (s *Session) SubmitAsync(ctx context.Context, sub Submission) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		res, err := s.Submit(ctx, sub)
		out <- Outcome{Result: res, Err: err}
		close(out)
	}()
	return out
}

// Submit uploads the optional file, appends the user message and an assistant
// placeholder, queries the agent, and replaces the placeholder with the reply.
// A failed query is masked by a fallback reply and reported through
// Result.Degraded. A failed upload aborts the submission with *UploadError
// before anything is appended. Caller cancellation does not interrupt an
// accepted submission.
func (s *Session) Submit(ctx context.Context, sub Submission) (*Result, error) {
	text := strings.TrimSpace(sub.Text)
	if text == "" && sub.File == nil {
		return nil, ErrEmptySubmission
	}
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.finish()

	ctx = context.WithoutCancel(ctx)

	var attachment *Attachment
	if sub.File != nil {
		att, err := s.transport.Upload(ctx, *sub.File)
		if err != nil {
			s.log.Warn().Err(err).Str("file", sub.File.Name).Msg("upload failed, submission aborted")
			notice := uploadFailedNotice
			s.emit(Event{Type: EventNotice, Notice: &notice})
			return nil, &UploadError{Err: err}
		}
		attachment = att
	}

	user := s.appendMessage(Message{Role: RoleUser, Content: text, Attachment: attachment})
	placeholder := s.appendMessage(Message{Role: RoleAssistant, Pending: true})

	result := &Result{User: user}
	reply, err := s.transport.Query(ctx, Query{Text: text, Attachment: cloneAttachment(attachment)})
	if err != nil {
		s.log.Warn().Err(err).Msg("agent query failed, using fallback reply")
		result.Degraded = true
		result.QueryError = &QueryError{Err: err}
		result.Assistant = s.replaceMessage(placeholder.SequenceIndex, Message{
			Role:     RoleAssistant,
			Content:  s.respond(text),
			Degraded: true,
		})
		notice := degradedNotice
		result.Notice = &notice
		s.emit(Event{Type: EventNotice, Notice: &notice})
		return result, nil
	}

	result.Assistant = s.replaceMessage(placeholder.SequenceIndex, Message{
		Role:         RoleAssistant,
		Content:      reply.Text,
		Attachment:   cloneAttachment(reply.Attachment),
		MediaResults: append([]MediaResult(nil), reply.MediaResults...),
	})
	return result, nil
}

func (s *Session) begin() error {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return ErrSubmissionPending
	}
	s.pending = true
	s.lastActivity = s.now()
	s.emitLocked(Event{Type: EventPendingChanged, Pending: true})
	return nil
}

func (s *Session) finish() {
	s.mu.Lock()
	s.pending = false
	s.lastActivity = s.now()
	s.emitLocked(Event{Type: EventPendingChanged, Pending: false})
}

func (s *Session) appendMessage(m Message) Message {
	now := s.now()
	m.CreatedAt = now
	m.Timestamp = now.Format(TimestampLayout)
	m.ID = newMessageID()

	s.mu.Lock()
	m.SequenceIndex = len(s.messages)
	s.messages = append(s.messages, m)
	s.lastActivity = now
	out := m.clone()
	s.emitLocked(Event{Type: EventMessageAppended, Message: &out})
	return m.clone()
}

// replaceMessage swaps the entry at index for m, which inherits the index.
func (s *Session) replaceMessage(index int, m Message) Message {
	now := s.now()
	m.CreatedAt = now
	m.Timestamp = now.Format(TimestampLayout)
	m.ID = newMessageID()
	m.SequenceIndex = index

	s.mu.Lock()
	s.messages[index] = m
	s.lastActivity = now
	out := m.clone()
	s.emitLocked(Event{Type: EventMessageReplaced, Message: &out})
	return m.clone()
}

// emitLocked must be called with s.mu held and releases it. The event is
// queued in mutation order; if no other goroutine is delivering, the caller
// drains the queue with no lock held while listeners run.
func (s *Session) emitLocked(ev Event) {
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.queue = append(s.queue, delivery{event: ev, listeners: listeners})
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true

	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue[0] = delivery{}
		s.queue = s.queue[1:]
		s.mu.Unlock()
		for _, l := range next.listeners {
			l(next.event)
		}
		s.mu.Lock()
	}
	s.queue = nil
	s.delivering = false
	s.mu.Unlock()
}

func (s *Session) emit(ev Event) {
	s.mu.Lock()
	s.emitLocked(ev)
}

func cloneAttachment(a *Attachment) *Attachment {
	if a == nil {
		return nil
	}
	out := *a
	return &out
}

func newMessageID() string {
	id, err := idgen.MessageID()
	if err != nil {
		return ""
	}
	return id
}
