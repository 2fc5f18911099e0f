package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gemchat/internal/app"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model is the main TUI state: the active conversation plus input and
// transient status.
type Model struct {
	ctl      *app.Controller
	messages []app.Message
	input    textarea.Model
	status   string
	loading  bool
	help     helpModel
	showHelp bool
	code     *CodeRenderer

	windowWidth    int
	windowHeight   int
	loadingSpinner int
}

func New(ctl *app.Controller) *Model {
	ta := textarea.New()
	ta.Placeholder = "How can I help you today? (/help for commands)"
	ta.Focus()
	ta.CharLimit = 8000
	ta.SetWidth(80)
	ta.SetHeight(3)
	ta.Prompt = "▍ "

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	ta.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	return &Model{
		ctl:          ctl,
		messages:     ctl.Store().ActiveMessages(),
		input:        ta,
		help:         newHelpModel(),
		code:         NewCodeRenderer(),
		windowWidth:  80,
		windowHeight: 24,
	}
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.input.SetWidth(msg.Width - 8)
		m.help.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.help.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.help.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.help.keys.Enter):
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()

			if strings.HasPrefix(text, "/") {
				feedback, quit, err := ExecCommand(m.ctl, text)
				if quit {
					return m, tea.Quit
				}
				if err != nil {
					m.status = fmt.Sprintf("Error: %v", err)
				} else {
					m.status = feedback
				}
				m.messages = m.ctl.Store().ActiveMessages()
				return m, nil
			}

			m.status = ""
			m.loading = true
			m.loadingSpinner = 0
			return m, tea.Batch(m.submit(text), m.spinCmd())
		}

	case turnDoneMsg:
		m.loading = false
		m.messages = m.ctl.Store().ActiveMessages()
		if msg.err != nil {
			// Failed turns keep the user message; surface the error.
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else if msg.savedID != "" {
			m.status = fmt.Sprintf("Autosaved as %s.", msg.savedID)
		}
		return m, nil

	case spinMsg:
		if m.loading {
			m.loadingSpinner = (m.loadingSpinner + 1) % 10
			return m, m.spinCmd()
		}
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderMessages())
	b.WriteString("\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n")

	if m.loading {
		spinnerChars := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		spinnerChar := spinnerChars[m.loadingSpinner%len(spinnerChars)]
		b.WriteString(loadingStyle.Render(fmt.Sprintf("%s Thinking...", spinnerChar)))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(m.help.View())
	}
	return b.String()
}

// submit runs one turn off the UI goroutine. The Busy rule lives in the
// controller; the UI just reports it.
func (m *Model) submit(text string) tea.Cmd {
	ctl := m.ctl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		res, err := ctl.SubmitPrompt(ctx, text)
		return turnDoneMsg{savedID: res.SavedID, err: err}
	}
}

func (m *Model) spinCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(_ time.Time) tea.Msg {
		return spinMsg{}
	})
}

type turnDoneMsg struct {
	savedID string
	err     error
}

type spinMsg struct{}

const (
	colorFg        = "#F8FAFC" // Slate 50
	colorFgMuted   = "#94A3B8" // Slate 400
	colorBg        = "#0F172A" // Slate 900
	colorBgAlt     = "#1E293B" // Slate 800
	colorPrimary   = "#3B82F6" // Blue 500
	colorSuccess   = "#10B981" // Emerald 500
	colorError     = "#EF4444" // Red 500
	colorBorder    = "#334155" // Slate 700
	colorUserMsg   = "#3B82F6" // Blue 500
	colorAssistant = "#10B981" // Emerald 500
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorFg)).
			Background(lipgloss.Color(colorBgAlt)).
			Padding(0, 2).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(colorBorder))

	userHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorUserMsg))

	assistantHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(colorAssistant))

	messageContentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorFg)).
				PaddingLeft(2).
				MarginBottom(1)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFg)).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder))

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorPrimary)).
			Padding(0, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFgMuted)).
			Padding(0, 2).
			Italic(true)
)

func (m *Model) renderHeader() string {
	title := m.ctl.Store().Title()
	meta := fmt.Sprintf("%s | style: %s | modes: %s", m.ctl.Model(), m.ctl.Style(), describeFlags(m.ctl.Flags()))
	return headerStyle.Width(m.windowWidth - 4).Render(fmt.Sprintf("gemchat — %s  (%s)", title, meta))
}

func (m *Model) renderMessages() string {
	var b strings.Builder
	for _, msg := range m.messages {
		var header string
		switch msg.Role {
		case app.RoleUser:
			header = userHeaderStyle.Render(fmt.Sprintf("You • %s", msg.Timestamp.Format("15:04:05")))
		case app.RoleAssistant:
			header = assistantHeaderStyle.Render(fmt.Sprintf("Gemini • %s", msg.Timestamp.Format("15:04:05")))
		}
		b.WriteString(header)
		b.WriteString("\n")

		content := msg.Content
		if msg.Role == app.RoleAssistant {
			content = m.code.Render(content, m.windowWidth-4)
		}
		b.WriteString(messageContentStyle.Width(m.windowWidth - 4).Render(content))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderInput() string {
	return inputStyle.Width(m.windowWidth - 4).Render(m.input.View())
}
