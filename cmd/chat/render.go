package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"chat-relay/internal/domain/conversation"
)

var (
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	degradedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	metaStyle      = lipgloss.NewStyle().Faint(true)
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const typingText = "typing..."

// roleLabel is the speaker label shown before a message.
func roleLabel(m conversation.Message) string {
	if m.Role == conversation.RoleUser {
		return "You"
	}
	if m.Degraded {
		return "Assistant (offline)"
	}
	return "Assistant"
}

// messageLines returns the unstyled lines of one log entry. Attachments and
// media cards missing the fields needed to describe them are omitted.
func messageLines(m conversation.Message) []string {
	content := m.Content
	if m.Pending {
		content = typingText
	}

	lines := []string{fmt.Sprintf("[%s] %s: %s", m.Timestamp, roleLabel(m), content)}
	if a := m.Attachment; a != nil && a.URL != "" {
		name := a.Name
		if name == "" {
			name = filepath.Base(a.URL)
		}
		if a.MediaType != "" {
			lines = append(lines, fmt.Sprintf("    attachment: %s (%s) %s", name, a.MediaType, a.URL))
		} else {
			lines = append(lines, fmt.Sprintf("    attachment: %s %s", name, a.URL))
		}
	}
	for _, r := range m.MediaResults {
		if r.Title == "" && r.URL == "" {
			continue
		}
		line := "    > " + r.Title
		if r.Channel != "" {
			line += " by " + r.Channel
		}
		if r.URL != "" {
			line += " " + r.URL
		}
		lines = append(lines, line)
	}
	return lines
}

// renderPlain renders the log without styling, one line per entry plus detail lines.
func renderPlain(messages []conversation.Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(messageLines(m), "\n"))
	}
	return b.String()
}

// renderStyled renders the log for the terminal UI.
func renderStyled(messages []conversation.Message, width int) string {
	body := lipgloss.NewStyle()
	if width > 0 {
		body = body.Width(width)
	}

	blocks := make([]string, 0, len(messages))
	for _, m := range messages {
		style := assistantStyle
		switch {
		case m.Role == conversation.RoleUser:
			style = userStyle
		case m.Degraded:
			style = degradedStyle
		}

		lines := messageLines(m)
		header := metaStyle.Render("["+m.Timestamp+"]") + " " + style.Render(roleLabel(m)+":")
		content := m.Content
		if m.Pending {
			content = metaStyle.Render(typingText)
		}
		block := []string{body.Render(header + " " + content)}
		for _, detail := range lines[1:] {
			block = append(block, metaStyle.Render(detail))
		}
		blocks = append(blocks, strings.Join(block, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// describeFile is shown in the status line while an attachment is pending.
func describeFile(f *conversation.File) string {
	return fmt.Sprintf("%s (%s, %s)", f.Name, f.MediaType, humanize.Bytes(uint64(f.Size())))
}

// loadAttachment reads a file from disk and detects its media type.
func loadAttachment(path string) (*conversation.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	mediaType, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return &conversation.File{
		Name:      filepath.Base(path),
		MediaType: mediaType,
		Data:      data,
	}, nil
}

func renderNotice(n *conversation.Notice) string {
	if n == nil {
		return ""
	}
	return noticeStyle.Render(n.Message)
}
