package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/bizbotng/bizchat/internal"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Shared styles for transcript rendering
	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("135"))

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	statusInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Bold(true)

	statusSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Bold(true)
)

// renderMessage formats one message for terminal display.
func renderMessage(msg internal.ChatMessage, showTimestamp bool) string {
	var b strings.Builder

	label := userLabelStyle.Render("you")
	if msg.Sender == internal.SenderAssistant {
		label = assistantLabelStyle.Render("bizbot")
	}

	b.WriteString(label)
	if showTimestamp && !msg.Timestamp.IsZero() {
		b.WriteString(" " + timestampStyle.Render(msg.Timestamp.Format(time.RFC3339)))
	}
	b.WriteString("\n")
	b.WriteString(msg.Text)
	b.WriteString("\n")

	for _, src := range msg.Sources {
		line := "  • " + src.Source
		if src.Excerpt != "" {
			line += ": " + src.Excerpt
		}
		b.WriteString(sourceStyle.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

// renderNotification formats the notification slot; an empty slot renders as
// an empty string.
func renderNotification(n *internal.Notification) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case internal.NotifyError:
		return statusErrorStyle.Render("✗ " + n.Message)
	case internal.NotifySuccess:
		return statusSuccessStyle.Render("✓ " + n.Message)
	case internal.NotifyLoading:
		return statusInfoStyle.Render("… " + n.Message)
	default:
		return statusInfoStyle.Render("ℹ " + n.Message)
	}
}

// printTranscript dumps a full transcript to stdout.
func printTranscript(messages []internal.ChatMessage, showTimestamps bool) {
	for _, msg := range messages {
		fmt.Println(renderMessage(msg, showTimestamps))
	}
}
