package tui

import (
	"fmt"
	"strings"
	"time"

	"forex-signal-relay/internal/domain"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type chatMessage struct {
	Role    string
	Content string
	Time    time.Time
}

// ChatModel mirrors the Telegram conversation: the user types a pair code and
// the relay answers with an acknowledgement followed by the verdict.
type ChatModel struct {
	services Services
	messages []chatMessage
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	waiting  bool
	width    int
	height   int
	ready    bool
}

// NewChatModel creates a new chat model seeded with the greeting.
func NewChatModel(svc Services) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Type a pair, e.g. eurusd"
	ti.CharLimit = 32
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(SpinnerColor)

	return ChatModel{
		services: svc,
		input:    ti,
		spinner:  sp,
		messages: []chatMessage{{Role: "bot", Content: domain.GreetingMessage, Time: time.Now()}},
	}
}

// Init initializes the chat model.
func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case evaluationMsg:
		if !msg.fromChat {
			return m, nil
		}
		m.appendMessage("bot", msg.result.Reply())
		m.waiting = false
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter && !m.waiting {
			text := strings.TrimSpace(m.input.Value())
			if text != "" {
				m.input.SetValue("")
				return m, m.submit(text)
			}
		}

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Update text input
	if !m.waiting {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Update viewport
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit handles one line of user input. Invalid pairs are answered without an
// evaluation; valid pairs get the acknowledgement before the evaluation starts.
func (m *ChatModel) submit(text string) tea.Cmd {
	m.appendMessage("user", text)

	if !domain.IsValidPair(domain.NormalizePair(text)) {
		m.appendMessage("bot", domain.InvalidPairMessage)
		return nil
	}

	m.appendMessage("bot", domain.AnalyzingMessage)
	if m.services.Evaluator == nil {
		m.appendMessage("bot", fmt.Sprintf("%s → %s", domain.NormalizePair(text).Upper(), domain.VerdictIgnore))
		return nil
	}
	m.waiting = true
	return tea.Batch(evaluateCmd(m.services.Evaluator, text, true), m.spinner.Tick)
}

// View renders the chat screen.
func (m ChatModel) View() string {
	var sections []string

	sections = append(sections, HeaderStyle.Render("  Signal Chat"))
	sections = append(sections, SubtextStyle.Render(strings.Repeat("─", max(m.width-2, 1))))

	// Message viewport
	if !m.ready {
		m.initViewport()
	}
	sections = append(sections, m.viewport.View())

	sections = append(sections, SubtextStyle.Render(strings.Repeat("─", max(m.width-2, 1))))

	// Input bar
	if m.waiting {
		sections = append(sections, fmt.Sprintf("  %s Analyzing...", m.spinner.View()))
	} else {
		if m.services.Evaluator == nil {
			sections = append(sections, ErrorStyle.Render("  Evaluator not available, every pair answers Ignore."))
		}
		sections = append(sections, "  "+m.input.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the model dimensions.
func (m *ChatModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.input.Width = w - 6
	if m.ready {
		m.viewport.Width = w - 2
		m.viewport.Height = h - 6 // account for header, borders, input
	}
	m.ready = false // re-initialize viewport on next View
}

// Focus gives focus to the text input.
func (m *ChatModel) Focus() {
	m.input.Focus()
}

// Blur removes focus from the text input.
func (m *ChatModel) Blur() {
	m.input.Blur()
}

// IsWaiting returns whether an evaluation is in flight (for testing).
func (m ChatModel) IsWaiting() bool { return m.waiting }

// MessageCount returns the number of messages (for testing).
func (m ChatModel) MessageCount() int { return len(m.messages) }

// LastMessage returns the newest message text (for testing).
func (m ChatModel) LastMessage() string {
	if len(m.messages) == 0 {
		return ""
	}
	return m.messages[len(m.messages)-1].Content
}

func (m *ChatModel) appendMessage(role, content string) {
	m.messages = append(m.messages, chatMessage{Role: role, Content: content, Time: time.Now()})
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m *ChatModel) initViewport() {
	vpHeight := m.height - 6
	if vpHeight < 3 {
		vpHeight = 3
	}
	vpWidth := m.width - 2
	if vpWidth < 10 {
		vpWidth = 10
	}
	m.viewport = viewport.New(vpWidth, vpHeight)
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
	m.ready = true
}

func (m ChatModel) renderMessages() string {
	var lines []string
	for _, msg := range m.messages {
		timestamp := SubtextStyle.Render(msg.Time.Format("15:04"))
		switch msg.Role {
		case "user":
			lines = append(lines, fmt.Sprintf("  %s  %s %s", timestamp, UserMsgStyle.Render("You:"), msg.Content))
		case "bot":
			lines = append(lines, fmt.Sprintf("  %s  %s", timestamp, BotMsgStyle.Render("Relay:")))
			for _, line := range strings.Split(msg.Content, "\n") {
				lines = append(lines, "         "+line)
			}
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
