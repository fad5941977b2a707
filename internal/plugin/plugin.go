package plugin

import tea "github.com/charmbracelet/bubbletea"

// Plugin defines the interface for screens hosted by the app.
type Plugin interface {
	ID() string
	Name() string
	Icon() string
	Init(ctx *Context) error
	Start() tea.Cmd
	Stop()
	Update(msg tea.Msg) (Plugin, tea.Cmd)
	View(width, height int) string
	IsFocused() bool
	SetFocused(bool)
	Commands() []Command
	FocusContext() string
}

// TextInputConsumer is an optional capability for plugins that need
// printable keys forwarded as typed text instead of being intercepted by
// app-level shortcuts.
type TextInputConsumer interface {
	ConsumesTextInput() bool
}

// Category groups commands in the footer.
type Category string

const (
	CategoryNavigation Category = "Navigation"
	CategoryActions    Category = "Actions"
	CategoryView       Category = "View"
	CategorySearch     Category = "Search"
	CategoryEdit       Category = "Edit"
)

// Command represents a keybinding command exposed by a plugin.
type Command struct {
	ID       string   // Unique identifier (e.g., "delete-note")
	Name     string   // Short name for footer (e.g., "Delete")
	Category Category // Logical grouping
	Context  string   // Activation context
	Priority int      // Footer display priority: 1=highest, 0=default (treated as 99)
}

// PluginFocusedMsg is sent to a plugin when it becomes the active plugin.
type PluginFocusedMsg struct{}

// EpochMessage is implemented by async messages that need staleness detection.
type EpochMessage interface {
	GetEpoch() uint64
}

// IsStale returns true if the message's epoch doesn't match the current context epoch.
//
//	if plugin.IsStale(p.ctx, msg) { return p, nil }
func IsStale(ctx *Context, msg EpochMessage) bool {
	return ctx != nil && msg.GetEpoch() != ctx.Epoch
}
