package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/habitdiary/internal/config"
	"github.com/marcus/habitdiary/internal/keymap"
	"github.com/marcus/habitdiary/internal/notify"
	"github.com/marcus/habitdiary/internal/plugin"
)

// Model is the root Bubble Tea model for the habitdiary application.
type Model struct {
	// Configuration
	cfg *config.Config

	// Plugin management
	registry     *plugin.Registry
	activePlugin int

	// Keymap
	keymap        *keymap.Registry
	activeContext string

	// Desktop mirror of toasts (may be disabled)
	notifier *notify.Notifier

	// UI state
	width, height int
	showFooter    bool
	clock         time.Time

	// Status/toast messages
	statusMsg     string
	statusExpiry  time.Time
	statusIsError bool

	// Ready state
	ready bool

	currentVersion string
}

// New creates a new application model and registers the app-level
// command handlers.
func New(reg *plugin.Registry, km *keymap.Registry, cfg *config.Config, notifier *notify.Notifier, currentVersion string) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	km.RegisterCommand(keymap.Command{ID: keymap.CmdQuit, Name: "Quit", Context: keymap.ContextGlobal, Handler: requestQuit})
	km.RegisterCommand(keymap.Command{ID: keymap.CmdToggleFooter, Name: "Footer", Context: keymap.ContextGlobal, Handler: toggleFooter})

	m := Model{
		cfg:            cfg,
		registry:       reg,
		keymap:         km,
		notifier:       notifier,
		activeContext:  keymap.ContextGlobal,
		showFooter:     cfg.UI.ShowFooter,
		clock:          time.Now(),
		currentVersion: currentVersion,
	}
	if p := m.ActivePlugin(); p != nil {
		p.SetFocused(true)
		m.activeContext = p.FocusContext()
	}
	return m
}

// Init initializes the model and returns initial commands.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}

	// Start all registered plugins
	cmds = append(cmds, m.registry.Start()...)
	return tea.Batch(cmds...)
}

// ActivePlugin returns the currently active plugin.
func (m Model) ActivePlugin() plugin.Plugin {
	plugins := m.registry.Plugins()
	if len(plugins) == 0 {
		return nil
	}
	if m.activePlugin >= len(plugins) {
		return plugins[0]
	}
	return plugins[m.activePlugin]
}

// ShowToast displays a temporary status message.
func (m *Model) ShowToast(msg string, duration time.Duration, isError bool) {
	m.statusMsg = msg
	m.statusExpiry = time.Now().Add(duration)
	m.statusIsError = isError
}

// ClearToast clears any expired toast message.
func (m *Model) ClearToast() {
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
		m.statusIsError = false
	}
}

// Status returns the toast currently shown.
func (m Model) Status() (string, bool) {
	return m.statusMsg, m.statusIsError
}
