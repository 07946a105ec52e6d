package conversation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-relay/internal/domain/conversation"
	"chat-relay/internal/domain/fallback"
)

// MockTransport is a func-field implementation of conversation.Transport.
type MockTransport struct {
	UploadFunc func(ctx context.Context, file conversation.File) (*conversation.Attachment, error)
	QueryFunc  func(ctx context.Context, query conversation.Query) (*conversation.Reply, error)

	mu    sync.Mutex
	calls []string
}

func (m *MockTransport) Upload(ctx context.Context, file conversation.File) (*conversation.Attachment, error) {
	m.record("upload")
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, file)
	}
	return &conversation.Attachment{URL: "/uploads/" + file.Name, MediaType: file.MediaType, Name: file.Name}, nil
}

func (m *MockTransport) Query(ctx context.Context, query conversation.Query) (*conversation.Reply, error) {
	m.record("query")
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, query)
	}
	return &conversation.Reply{Text: "echo: " + query.Text}, nil
}

func (m *MockTransport) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *MockTransport) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

var errOffline = errors.New("connection refused")

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2024, 5, 1, 9, 7, 0, 0, time.UTC) }
}

func TestSubmitRejectsEmptySubmission(t *testing.T) {
	transport := &MockTransport{}
	sess := conversation.NewSession(transport)

	for _, text := range []string{"", "   ", "\n\t"} {
		res, err := sess.Submit(context.Background(), conversation.Submission{Text: text})
		require.ErrorIs(t, err, conversation.ErrEmptySubmission)
		assert.Nil(t, res)
	}

	assert.Empty(t, sess.Snapshot())
	assert.False(t, sess.IsPending())
	assert.Empty(t, transport.Calls())
}

func TestSubmitTextOnly(t *testing.T) {
	transport := &MockTransport{
		QueryFunc: func(ctx context.Context, q conversation.Query) (*conversation.Reply, error) {
			return &conversation.Reply{
				Text: "Here are some videos",
				MediaResults: []conversation.MediaResult{
					{Title: "Go in 100 seconds", URL: "https://youtube.com/watch?v=1", Thumbnail: "https://img/1.jpg", Channel: "Fireship"},
					{Title: "Concurrency", URL: "https://youtube.com/watch?v=2"},
				},
			}, nil
		},
	}
	sess := conversation.NewSession(transport, conversation.WithClock(fixedClock()))

	res, err := sess.Submit(context.Background(), conversation.Submission{Text: "  go videos  "})
	require.NoError(t, err)
	require.NotNil(t, res)

	log := sess.Snapshot()
	require.Len(t, log, 2)

	assert.Equal(t, conversation.RoleUser, log[0].Role)
	assert.Equal(t, "go videos", log[0].Content)
	assert.Equal(t, 0, log[0].SequenceIndex)
	assert.Equal(t, "09:07", log[0].Timestamp)
	assert.Nil(t, log[0].Attachment)

	assert.Equal(t, conversation.RoleAssistant, log[1].Role)
	assert.Equal(t, "Here are some videos", log[1].Content)
	assert.Equal(t, 1, log[1].SequenceIndex)
	assert.False(t, log[1].Pending)
	assert.False(t, log[1].Degraded)
	require.Len(t, log[1].MediaResults, 2)
	assert.Equal(t, "Go in 100 seconds", log[1].MediaResults[0].Title)
	assert.Equal(t, "Fireship", log[1].MediaResults[0].Channel)
	assert.Equal(t, "Concurrency", log[1].MediaResults[1].Title)

	assert.False(t, res.Degraded)
	assert.Nil(t, res.Notice)
	assert.Nil(t, res.QueryError)
	assert.Equal(t, log[0].ID, res.User.ID)
	assert.Equal(t, log[1].ID, res.Assistant.ID)
	assert.False(t, sess.IsPending())
	assert.Equal(t, []string{"query"}, transport.Calls())
}

func TestSubmitQueryFailureUsesFallback(t *testing.T) {
	transport := &MockTransport{
		QueryFunc: func(ctx context.Context, q conversation.Query) (*conversation.Reply, error) {
			return nil, errOffline
		},
	}
	sess := conversation.NewSession(transport)

	var mu sync.Mutex
	var notices []conversation.Notice
	unsubscribe := sess.Subscribe(func(ev conversation.Event) {
		if ev.Type == conversation.EventNotice {
			mu.Lock()
			notices = append(notices, *ev.Notice)
			mu.Unlock()
		}
	})
	defer unsubscribe()

	res, err := sess.Submit(context.Background(), conversation.Submission{Text: "hello"})
	require.NoError(t, err)

	assert.True(t, res.Degraded)
	require.NotNil(t, res.QueryError)
	assert.ErrorIs(t, res.QueryError, errOffline)
	require.NotNil(t, res.Notice)
	assert.Equal(t, conversation.NoticeDegraded, res.Notice.Kind)

	log := sess.Snapshot()
	require.Len(t, log, 2)
	assert.Equal(t, "Hello! How can I assist you today?", log[1].Content)
	assert.Equal(t, fallback.Respond("hello"), log[1].Content)
	assert.True(t, log[1].Degraded)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, notices, 1)
	assert.Equal(t, conversation.NoticeDegraded, notices[0].Kind)
	assert.False(t, sess.IsPending())
}

func TestSubmitUploadFailureAbortsWithoutMessages(t *testing.T) {
	transport := &MockTransport{
		UploadFunc: func(ctx context.Context, file conversation.File) (*conversation.Attachment, error) {
			return nil, errOffline
		},
	}
	sess := conversation.NewSession(transport)

	var kinds []conversation.NoticeKind
	sess.Subscribe(func(ev conversation.Event) {
		if ev.Type == conversation.EventNotice {
			kinds = append(kinds, ev.Notice.Kind)
		}
	})

	res, err := sess.Submit(context.Background(), conversation.Submission{
		Text: "look at this",
		File: &conversation.File{Name: "cat.png", MediaType: "image/png", Data: []byte("png")},
	})
	require.Error(t, err)
	assert.Nil(t, res)

	var uploadErr *conversation.UploadError
	require.True(t, errors.As(err, &uploadErr))
	assert.ErrorIs(t, err, errOffline)

	assert.Empty(t, sess.Snapshot())
	assert.False(t, sess.IsPending())
	assert.Equal(t, []string{"upload"}, transport.Calls())
	assert.Equal(t, []conversation.NoticeKind{conversation.NoticeUploadFailed}, kinds)
}

func TestSubmitUploadsBeforeQuery(t *testing.T) {
	var queried conversation.Query
	transport := &MockTransport{
		QueryFunc: func(ctx context.Context, q conversation.Query) (*conversation.Reply, error) {
			queried = q
			return &conversation.Reply{
				Text:       "Nice picture",
				Attachment: &conversation.Attachment{URL: "/uploads/processed.png", MediaType: "image/png"},
			}, nil
		},
	}
	sess := conversation.NewSession(transport)

	_, err := sess.Submit(context.Background(), conversation.Submission{
		Text: "what is this?",
		File: &conversation.File{Name: "cat.png", MediaType: "image/png", Data: []byte("png")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"upload", "query"}, transport.Calls())
	require.NotNil(t, queried.Attachment)
	assert.Equal(t, "/uploads/cat.png", queried.Attachment.URL)

	log := sess.Snapshot()
	require.Len(t, log, 2)
	require.NotNil(t, log[0].Attachment)
	assert.Equal(t, "image/png", log[0].Attachment.MediaType)
	require.NotNil(t, log[1].Attachment)
	assert.Equal(t, "/uploads/processed.png", log[1].Attachment.URL)
}

func TestSubmitFileOnly(t *testing.T) {
	sess := conversation.NewSession(&MockTransport{})

	res, err := sess.Submit(context.Background(), conversation.Submission{
		File: &conversation.File{Name: "song.mp3", MediaType: "audio/mpeg", Data: []byte("id3")},
	})
	require.NoError(t, err)

	assert.Equal(t, "", res.User.Content)
	require.NotNil(t, res.User.Attachment)
	assert.Equal(t, "audio/mpeg", res.User.Attachment.MediaType)
	assert.Len(t, sess.Snapshot(), 2)
}

func TestSubmitRejectedWhilePending(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	transport := &MockTransport{
		QueryFunc: func(ctx context.Context, q conversation.Query) (*conversation.Reply, error) {
			close(entered)
			<-release
			return &conversation.Reply{Text: "done"}, nil
		},
	}
	sess := conversation.NewSession(transport)

	first := sess.SubmitAsync(context.Background(), conversation.Submission{Text: "first"})
	<-entered

	assert.True(t, sess.IsPending())
	during := sess.Snapshot()
	require.Len(t, during, 2)
	assert.True(t, during[1].Pending)
	assert.Equal(t, "", during[1].Content)

	_, err := sess.Submit(context.Background(), conversation.Submission{Text: "second"})
	require.ErrorIs(t, err, conversation.ErrSubmissionPending)
	assert.Len(t, sess.Snapshot(), 2)
	assert.True(t, sess.IsPending())

	close(release)
	outcome := <-first
	require.NoError(t, outcome.Err)
	assert.Equal(t, "done", outcome.Result.Assistant.Content)
	assert.False(t, sess.IsPending())
	assert.Len(t, sess.Snapshot(), 2)
}

func TestConcurrentSubmitAcceptsOne(t *testing.T) {
	release := make(chan struct{})
	transport := &MockTransport{
		QueryFunc: func(ctx context.Context, q conversation.Query) (*conversation.Reply, error) {
			<-release
			return &conversation.Reply{Text: "ok"}, nil
		},
	}
	sess := conversation.NewSession(transport)

	const workers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted, rejected := 0, 0
	start := make(chan struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := sess.Submit(context.Background(), conversation.Submission{Text: "race"})
			mu.Lock()
			defer mu.Unlock()
			if errors.Is(err, conversation.ErrSubmissionPending) {
				rejected++
				return
			}
			assert.NoError(t, err)
			accepted++
		}()
	}

	close(start)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return rejected == workers-1
	}, 2*time.Second, 5*time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Len(t, sess.Snapshot(), 2)
}

func TestSequenceIndexIsGapless(t *testing.T) {
	fail := false
	transport := &MockTransport{
		QueryFunc: func(ctx context.Context, q conversation.Query) (*conversation.Reply, error) {
			fail = !fail
			if fail {
				return nil, errOffline
			}
			return &conversation.Reply{Text: "ok"}, nil
		},
	}
	sess := conversation.NewSession(transport)

	for _, text := range []string{"one", "two", "three"} {
		_, err := sess.Submit(context.Background(), conversation.Submission{Text: text})
		require.NoError(t, err)
	}

	log := sess.Snapshot()
	require.Len(t, log, 6)
	for i, m := range log {
		assert.Equal(t, i, m.SequenceIndex)
		want := conversation.RoleUser
		if i%2 == 1 {
			want = conversation.RoleAssistant
		}
		assert.Equal(t, want, m.Role)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	sess := conversation.NewSession(&MockTransport{})
	_, err := sess.Submit(context.Background(), conversation.Submission{
		Text: "hi",
		File: &conversation.File{Name: "a.png", MediaType: "image/png"},
	})
	require.NoError(t, err)

	snap := sess.Snapshot()
	snap[0].Content = "changed"
	snap[0].Attachment.URL = "changed"

	fresh := sess.Snapshot()
	require.Len(t, fresh, 2)
	assert.Equal(t, "hi", fresh[0].Content)
	assert.Equal(t, "/uploads/a.png", fresh[0].Attachment.URL)
}

func TestEventsFollowMutationOrder(t *testing.T) {
	sess := conversation.NewSession(&MockTransport{})

	var events []conversation.Event
	unsubscribe := sess.Subscribe(func(ev conversation.Event) {
		events = append(events, ev)
	})

	_, err := sess.Submit(context.Background(), conversation.Submission{Text: "hello"})
	require.NoError(t, err)

	require.Len(t, events, 5)
	assert.Equal(t, conversation.EventPendingChanged, events[0].Type)
	assert.True(t, events[0].Pending)
	assert.Equal(t, conversation.EventMessageAppended, events[1].Type)
	assert.Equal(t, conversation.RoleUser, events[1].Message.Role)
	assert.Equal(t, conversation.EventMessageAppended, events[2].Type)
	assert.True(t, events[2].Message.Pending)
	assert.Equal(t, conversation.EventMessageReplaced, events[3].Type)
	assert.Equal(t, 1, events[3].Message.SequenceIndex)
	assert.Equal(t, "echo: hello", events[3].Message.Content)
	assert.Equal(t, conversation.EventPendingChanged, events[4].Type)
	assert.False(t, events[4].Pending)

	unsubscribe()
	unsubscribe()
	_, err = sess.Submit(context.Background(), conversation.Submission{Text: "again"})
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestListenerCanReadSessionAcrossSubmissions(t *testing.T) {
	sess := conversation.NewSession(&MockTransport{})

	paused := make(chan struct{})
	resume := make(chan struct{})
	var (
		mu        sync.Mutex
		types     []conversation.EventType
		snapshots []int
		once      sync.Once
	)
	sess.Subscribe(func(ev conversation.Event) {
		mu.Lock()
		types = append(types, ev.Type)
		mu.Unlock()
		if ev.Type == conversation.EventPendingChanged && !ev.Pending {
			once.Do(func() {
				close(paused)
				<-resume
			})
		}
		n := len(sess.Snapshot())
		_ = sess.IsPending()
		mu.Lock()
		snapshots = append(snapshots, n)
		mu.Unlock()
	})

	first := sess.SubmitAsync(context.Background(), conversation.Submission{Text: "first"})
	select {
	case <-paused:
	case <-time.After(2 * time.Second):
		t.Fatal("first submission never finished")
	}

	second := sess.SubmitAsync(context.Background(), conversation.Submission{Text: "second"})
	select {
	case outcome := <-second:
		require.NoError(t, outcome.Err)
		assert.Equal(t, "echo: second", outcome.Result.Assistant.Content)
	case <-time.After(2 * time.Second):
		t.Fatal("second submission blocked behind a listener")
	}
	assert.Len(t, sess.Snapshot(), 4)

	close(resume)
	select {
	case outcome := <-first:
		require.NoError(t, outcome.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("first submission never returned")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []conversation.EventType{
		conversation.EventPendingChanged,
		conversation.EventMessageAppended,
		conversation.EventMessageAppended,
		conversation.EventMessageReplaced,
		conversation.EventPendingChanged,
		conversation.EventPendingChanged,
		conversation.EventMessageAppended,
		conversation.EventMessageAppended,
		conversation.EventMessageReplaced,
		conversation.EventPendingChanged,
	}, types)
	assert.Len(t, snapshots, 10)
	assert.False(t, sess.IsPending())
}

func TestSubmitIgnoresCallerCancellation(t *testing.T) {
	transport := &MockTransport{
		QueryFunc: func(ctx context.Context, q conversation.Query) (*conversation.Reply, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return &conversation.Reply{Text: "still here"}, nil
		},
	}
	sess := conversation.NewSession(transport)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := sess.Submit(ctx, conversation.Submission{Text: "question"})
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.Equal(t, "still here", res.Assistant.Content)
}

func TestWithFallbackOverride(t *testing.T) {
	transport := &MockTransport{
		QueryFunc: func(ctx context.Context, q conversation.Query) (*conversation.Reply, error) {
			return nil, errOffline
		},
	}
	sess := conversation.NewSession(transport, conversation.WithFallback(func(string) string { return "offline" }))

	res, err := sess.Submit(context.Background(), conversation.Submission{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "offline", res.Assistant.Content)
}
