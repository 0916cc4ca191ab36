package tui

import "github.com/Veraticus/finance-mentor/internal/assistant"

// replyMsg carries an answer back from the advisor.
type replyMsg struct {
	reply assistant.Reply
	query string
}

// turn is one rendered exchange line.
type turn struct {
	text     string
	fromUser bool
	degraded bool
}
