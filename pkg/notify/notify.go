// Package notify shows short user-facing messages.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Severity int

const (
	Success Severity = iota
	Info
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Notifier displays a message to the user.
type Notifier interface {
	Notify(message string, severity Severity)
}

var badgeColors = map[Severity]lipgloss.Color{
	Success: lipgloss.Color("#10b981"),
	Info:    lipgloss.Color("#2563eb"),
	Warning: lipgloss.Color("#f59e0b"),
	Error:   lipgloss.Color("#ef4444"),
}

// Terminal prints one styled line per message.
type Terminal struct {
	w        io.Writer
	renderer *lipgloss.Renderer
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w, renderer: lipgloss.NewRenderer(w)}
}

func (t *Terminal) Notify(message string, severity Severity) {
	slog.Debug("notification shown", "message", message, "severity", severity)

	badge := t.renderer.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		Background(badgeColors[severity]).
		Padding(0, 1).
		Render(strings.ToUpper(severity.String()))
	fmt.Fprintf(t.w, "%s %s\n", badge, message)
}

// Message is one recorded notification.
type Message struct {
	Text     string
	Severity Severity
}

// Recorder keeps notifications in memory instead of showing them.
type Recorder struct {
	Messages []Message
}

func (r *Recorder) Notify(message string, severity Severity) {
	r.Messages = append(r.Messages, Message{Text: message, Severity: severity})
}

// Last returns the most recent message, or the zero Message.
func (r *Recorder) Last() Message {
	if len(r.Messages) == 0 {
		return Message{}
	}
	return r.Messages[len(r.Messages)-1]
}
