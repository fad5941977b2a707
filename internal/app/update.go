package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/habitdiary/internal/keymap"
	"github.com/marcus/habitdiary/internal/msg"
	"github.com/marcus/habitdiary/internal/plugin"
)

// textSafeCommands are the app-level commands that still fire while a
// plugin is taking typed text.
var textSafeCommands = map[string]bool{
	keymap.CmdQuit:   true,
	keymap.CmdSubmit: true,
}

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch message := message.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(message)

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		return m, nil

	case TickMsg:
		m.clock = time.Time(message)
		m.ClearToast()
		return m, tickCmd()

	case msg.ToastMsg:
		m.ShowToast(message.Message, message.Duration, message.IsError)
		m.notifier.Send(message.Message, message.IsError)
		return m, nil

	case ToggleFooterMsg:
		m.showFooter = !m.showFooter
		return m, nil

	case QuitMsg:
		m.registry.Stop()
		return m, tea.Quit
	}

	// Forward other messages to all plugins so async results reach their
	// owner even when another plugin is focused.
	plugins := m.registry.Plugins()
	for i, p := range plugins {
		newPlugin, cmd := p.Update(message)
		plugins[i] = newPlugin
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	m.updateContext()

	return m, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.ActivePlugin()

	// Text input contexts: only quit and submit are intercepted, everything
	// else is typed text for the plugin.
	consumesText := false
	if tc, ok := p.(plugin.TextInputConsumer); ok {
		consumesText = tc.ConsumesTextInput()
	}
	if consumesText {
		if id, ok := m.keymap.Resolve(k.String(), m.activeContext); ok && textSafeCommands[id] {
			if cmd := m.keymap.Handle(k, m.activeContext); cmd != nil {
				return m, cmd
			}
		}
	} else if cmd := m.keymap.Handle(k, m.activeContext); cmd != nil {
		return m, cmd
	}

	// Forward to active plugin
	if p == nil {
		return m, nil
	}
	newPlugin, cmd := p.Update(k)
	plugins := m.registry.Plugins()
	if m.activePlugin < len(plugins) {
		plugins[m.activePlugin] = newPlugin
	}
	m.updateContext()
	return m, cmd
}

// updateContext sets activeContext based on current state.
func (m *Model) updateContext() {
	if p := m.ActivePlugin(); p != nil {
		m.activeContext = p.FocusContext()
	} else {
		m.activeContext = keymap.ContextGlobal
	}
}
