package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	zlog "github.com/rs/zerolog/log"
)

type statusMsg string

type scrollMsg int

// Notifier forwards table and shell notifications to the UI loop.
type Notifier struct {
	ch chan tea.Msg
}

// NewNotifier creates a notifier.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan tea.Msg, 64)}
}

// ScrollTo asks the UI to select row index.
func (n *Notifier) ScrollTo(index int) {
	n.send(scrollMsg(index))
}

// Status shows msg in the status line.
func (n *Notifier) Status(msg string) {
	n.send(statusMsg(msg))
}

// send never blocks; the UI may be busy in Update when notified.
func (n *Notifier) send(msg tea.Msg) {
	select {
	case n.ch <- msg:
	default:
		zlog.Warn().Msgf("tui: notification channel full, dropping %v", msg)
	}
}

func (n *Notifier) wait() tea.Cmd {
	return func() tea.Msg {
		return <-n.ch
	}
}
