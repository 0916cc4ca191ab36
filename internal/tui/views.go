package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finance-mentor/internal/assistant"
	"github.com/charmbracelet/lipgloss"
)

// View renders the chat.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.theme.RoundedBox.Width(max(m.width-2, 10)).Render(m.viewport.View()),
		m.renderInput(),
	}
	if m.config.ShowHelp {
		sections = append(sections, m.help.View(m.keymap))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("🤖 Finny AI")
	subtitle := m.theme.Subtitle.Render("Financial Mentor")
	return title + " " + subtitle
}

func (m Model) renderInput() string {
	if m.waiting {
		return m.spinner.View() + m.theme.Pending.Render(" Finny is thinking...")
	}
	return m.input.View()
}

func (m Model) renderTranscript() string {
	wrap := lipgloss.NewStyle().Width(max(m.width-6, 20))

	var b strings.Builder
	for i, t := range m.turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if t.fromUser {
			b.WriteString(m.theme.UserLabel.Render("You"))
		} else {
			b.WriteString(m.theme.MentorLabel.Render("Finny"))
		}
		b.WriteString("\n")
		b.WriteString(wrap.Render(m.theme.Normal.Render(t.text)))
		if t.degraded {
			b.WriteString("\n")
			b.WriteString(m.theme.Degraded.Render(assistant.OfflineNote))
		}
	}
	return b.String()
}

// Transcript returns the plain text of the conversation.
func (m Model) Transcript() string {
	var b strings.Builder
	for _, t := range m.turns {
		who := "Finny"
		if t.fromUser {
			who = "You"
		}
		fmt.Fprintf(&b, "%s: %s\n", who, t.text)
	}
	return b.String()
}
