package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bookbot/internal/domain"
)

// Answerer is the TUI-facing subset of the answer pipeline.
type Answerer interface {
	Answer(ctx context.Context, query string) domain.Result
}

// Model is the Bubble Tea model for the terminal chat client.
type Model struct {
	agent    Answerer
	input    textinput.Model
	viewport viewport.Model
	lines    []string
	status   string
	ready    bool
}

// New creates a new chat model instance.
func New(agent Answerer) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the book and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{agent: agent, input: ti, viewport: vp, status: "Ready. Ask a question."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-th)
		m.viewport.SetContent(m.renderTranscript())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.lines = append(m.lines, youStyle.Render("you: ")+q)
				res := m.agent.Answer(context.Background(), q)
				m.lines = append(m.lines, botStyle.Render("bot: ")+res.Text, "")
				m.status = "Outcome: " + res.Outcome.String()
				m.input.SetValue("")
				m.viewport.SetContent(m.renderTranscript())
				m.viewport.GotoBottom()
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("BookBot")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.lines) == 0 {
		return "No messages yet."
	}
	return strings.Join(m.lines, "\n")
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	youStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
