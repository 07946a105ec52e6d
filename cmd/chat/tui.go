package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chat-relay/internal/domain/conversation"
)

const (
	eventBuffer  = 64
	chromeHeight = 3
)

var titleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

type sessionEventMsg struct{ event conversation.Event }

type submitDoneMsg struct {
	text   string
	result *conversation.Result
	err    error
}

type chatModel struct {
	ctx     context.Context
	session *conversation.Session
	apiURL  string
	events  chan conversation.Event

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model

	attachment *conversation.File
	status     string
	pending    bool
	ready      bool
	width      int
}

func newChatModel(ctx context.Context, session *conversation.Session, apiURL string) chatModel {
	in := textinput.New()
	in.Placeholder = "Type a message, /attach <path> to add a file"
	in.Prompt = "> "
	in.CharLimit = 0
	in.Width = 60
	in.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	return chatModel{
		ctx:     ctx,
		session: session,
		apiURL:  apiURL,
		events:  make(chan conversation.Event, eventBuffer),
		input:   in,
		spin:    s,
	}
}

// runTUI runs the interactive session until the user quits or ctx is cancelled.
func runTUI(ctx context.Context, session *conversation.Session, apiURL string) error {
	m := newChatModel(ctx, session, apiURL)

	// The transcript is rebuilt from Snapshot on every event, so a dropped
	// event only delays a redraw.
	unsubscribe := session.Subscribe(func(ev conversation.Event) {
		select {
		case m.events <- ev:
		default:
		}
	})
	defer unsubscribe()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func waitForEvent(events <-chan conversation.Event) tea.Cmd {
	return func() tea.Msg {
		return sessionEventMsg{event: <-events}
	}
}

func (m chatModel) submit(sub conversation.Submission) tea.Cmd {
	return func() tea.Msg {
		res, err := m.session.Submit(m.ctx, sub)
		return submitDoneMsg{text: sub.Text, result: res, err: err}
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, waitForEvent(m.events))
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := max(msg.Height-chromeHeight-1, 3)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleEnter()
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case sessionEventMsg:
		m.pending = m.session.IsPending()
		if msg.event.Type == conversation.EventNotice {
			m.status = renderNotice(msg.event.Notice)
		}
		m.refresh()
		return m, waitForEvent(m.events)

	case submitDoneMsg:
		m.pending = m.session.IsPending()
		m.handleSubmitDone(msg)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) handleEnter() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())

	switch {
	case value == "/quit" || value == "/exit":
		return m, tea.Quit
	case value == "/detach":
		m.attachment = nil
		m.status = "Attachment removed"
		m.input.SetValue("")
		return m, nil
	case strings.HasPrefix(value, "/attach"):
		path := strings.TrimSpace(strings.TrimPrefix(value, "/attach"))
		if path == "" {
			m.status = "Usage: /attach <path>"
			return m, nil
		}
		file, err := loadAttachment(path)
		if err != nil {
			m.status = noticeStyle.Render(err.Error())
			return m, nil
		}
		m.attachment = file
		m.status = ""
		m.input.SetValue("")
		return m, nil
	}

	if m.pending {
		m.status = "Waiting for the assistant to reply"
		return m, nil
	}
	if value == "" && m.attachment == nil {
		return m, nil
	}

	sub := conversation.Submission{Text: value, File: m.attachment}
	m.input.SetValue("")
	m.status = ""
	m.pending = true
	return m, tea.Batch(m.submit(sub), m.spin.Tick)
}

func (m *chatModel) handleSubmitDone(msg submitDoneMsg) {
	var uploadErr *conversation.UploadError
	switch {
	case msg.err == nil:
		m.attachment = nil
		if msg.result.Notice != nil {
			m.status = renderNotice(msg.result.Notice)
		}
	case errors.As(msg.err, &uploadErr):
		// Nothing was sent; give the text back so the user can retry or /detach.
		m.input.SetValue(msg.text)
		m.status = noticeStyle.Render(fmt.Sprintf("Failed to upload file: %v", uploadErr.Err))
	case errors.Is(msg.err, conversation.ErrSubmissionPending):
		m.input.SetValue(msg.text)
		m.status = "Waiting for the assistant to reply"
	case errors.Is(msg.err, conversation.ErrEmptySubmission):
		m.status = "Type a message or /attach a file"
	default:
		m.status = noticeStyle.Render(msg.err.Error())
	}
}

func (m *chatModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(renderStyled(m.session.Snapshot(), m.width))
	m.viewport.GotoBottom()
}

func (m chatModel) statusLine() string {
	switch {
	case m.pending:
		return m.spin.View() + " Assistant is typing..."
	case m.status != "":
		return m.status
	case m.attachment != nil:
		return metaStyle.Render("Attached: " + describeFile(m.attachment))
	default:
		return metaStyle.Render("Connected to " + m.apiURL)
	}
}

func (m chatModel) View() string {
	if !m.ready {
		return "Starting..."
	}
	return strings.Join([]string{
		titleStyle.Render("chat relay"),
		m.viewport.View(),
		m.statusLine(),
		m.input.View(),
	}, "\n")
}
