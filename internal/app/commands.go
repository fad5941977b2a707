package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Message types for tea.Cmd
type (
	// TickMsg is sent on each clock tick.
	TickMsg time.Time

	// QuitMsg asks the app to release plugins and exit.
	QuitMsg struct{}

	// ToggleFooterMsg shows or hides the key hint footer.
	ToggleFooterMsg struct{}
)

// tickCmd returns a command that ticks every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func requestQuit() tea.Cmd {
	return func() tea.Msg { return QuitMsg{} }
}

func toggleFooter() tea.Cmd {
	return func() tea.Msg { return ToggleFooterMsg{} }
}
