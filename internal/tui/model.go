// Package tui is the interactive chat with the financial mentor.
package tui

import (
	"context"
	"slices"
	"strings"

	"github.com/Veraticus/finance-mentor/internal/assistant"
	"github.com/Veraticus/finance-mentor/internal/llm"
	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/Veraticus/finance-mentor/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// maxHistory caps the messages sent back to the remote model as context.
const maxHistory = 20

// Asker answers chat queries.
type Asker interface {
	Ask(ctx context.Context, req assistant.Request) assistant.Reply
}

// Source supplies the finances a query is answered against. It is called
// once per query so answers reflect the latest ledger state.
type Source func() (model.FinancialSummary, []model.Transaction)

// Model holds the chat state.
type Model struct {
	ctx      context.Context
	advisor  Asker
	source   Source
	theme    themes.Theme
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	help     help.Model
	keymap   KeyMap
	turns    []turn
	history  []llm.Message
	config   Config
	width    int
	height   int
	waiting  bool
	quitting bool
}

// New creates a chat model that opens with the welcome message.
func New(ctx context.Context, advisor Asker, source Source, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	input := textinput.New()
	input.Placeholder = "Ask about your spending, savings, budget..."
	input.Prompt = "› "
	input.CharLimit = 500
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = spin.Style.Foreground(cfg.Theme.Primary)

	m := Model{
		ctx:     ctx,
		advisor: advisor,
		source:  source,
		theme:   cfg.Theme,
		config:  cfg,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		input:   input,
		spinner: spin,
		turns:   []turn{{text: assistant.Welcome}},
		width:   cfg.Width,
		height:  cfg.Height,
	}
	m.viewport = viewport.New(cfg.Width, m.viewportHeight())
	m.refresh()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = m.viewportHeight()
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Clear):
			m.turns = m.turns[:1]
			m.history = nil
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case key.Matches(msg, m.keymap.Send):
			return m.send()
		}

	case replyMsg:
		m.waiting = false
		m.turns = append(m.turns, turn{text: msg.reply.Text, degraded: msg.reply.Degraded})
		m.history = append(m.history,
			llm.Message{Role: llm.RoleUser, Content: msg.query},
			llm.Message{Role: llm.RoleAssistant, Content: msg.reply.Text},
		)
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.waiting {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send submits the current input unless it is blank or a reply is pending.
func (m Model) send() (tea.Model, tea.Cmd) {
	query := strings.TrimSpace(m.input.Value())
	if query == "" || m.waiting {
		return m, nil
	}
	m.input.Reset()
	m.turns = append(m.turns, turn{text: query, fromUser: true})
	m.waiting = true
	m.refresh()
	return m, tea.Batch(m.ask(query), m.spinner.Tick)
}

func (m Model) ask(query string) tea.Cmd {
	history := slices.Clone(m.history)
	ctx, advisor, source := m.ctx, m.advisor, m.source
	return func() tea.Msg {
		var summary model.FinancialSummary
		var txns []model.Transaction
		if source != nil {
			summary, txns = source()
		}
		reply := advisor.Ask(ctx, assistant.Request{
			Query:        query,
			History:      history,
			Summary:      summary,
			Transactions: txns,
		})
		return replyMsg{reply: reply, query: query}
	}
}

func (m Model) viewportHeight() int {
	// header, input, help and the box border
	reserved := 6
	if !m.config.ShowHelp {
		reserved--
	}
	return max(m.height-reserved, 3)
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}
