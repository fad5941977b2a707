package keymap

// Focus contexts used by the diary screen.
const (
	ContextGlobal  = "global"
	ContextList    = "diary"
	ContextEditor  = "diary-editor"
	ContextSearch  = "diary-search"
	ContextConfirm = "diary-confirm"
)

// Command IDs.
const (
	CmdQuit          = "quit"
	CmdSubmit        = "submit"
	CmdToggleFooter  = "toggle-footer"
	CmdRefresh       = "refresh"
	CmdCursorDown    = "cursor-down"
	CmdCursorUp      = "cursor-up"
	CmdCursorTop     = "cursor-top"
	CmdCursorBottom  = "cursor-bottom"
	CmdNewNote       = "new-note"
	CmdEditNote      = "edit-note"
	CmdDeleteNote    = "delete-note"
	CmdTogglePin     = "toggle-pin"
	CmdYank          = "yank"
	CmdSearch        = "search"
	CmdClearSearch   = "clear-search"
	CmdToggleSort    = "toggle-sort"
	CmdPinnedOnly    = "toggle-pinned-only"
	CmdDismiss       = "dismiss"
	CmdTogglePreview = "toggle-preview"
	CmdDictate       = "toggle-dictation"
	CmdAccept        = "accept"
	CmdConfirm       = "confirm"
	CmdDecline       = "decline"
	CmdSwitchButton  = "switch-button"
)

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "ctrl+c", Command: CmdQuit, Context: ContextGlobal},
		{Key: "ctrl+s", Command: CmdSubmit, Context: ContextGlobal},
		{Key: "ctrl+h", Command: CmdToggleFooter, Context: ContextGlobal},

		// Note list
		{Key: "q", Command: CmdQuit, Context: ContextList},
		{Key: "j", Command: CmdCursorDown, Context: ContextList},
		{Key: "down", Command: CmdCursorDown, Context: ContextList},
		{Key: "k", Command: CmdCursorUp, Context: ContextList},
		{Key: "up", Command: CmdCursorUp, Context: ContextList},
		{Key: "g", Command: CmdCursorTop, Context: ContextList},
		{Key: "G", Command: CmdCursorBottom, Context: ContextList},
		{Key: "n", Command: CmdNewNote, Context: ContextList},
		{Key: "i", Command: CmdNewNote, Context: ContextList},
		{Key: "e", Command: CmdEditNote, Context: ContextList},
		{Key: "enter", Command: CmdEditNote, Context: ContextList},
		{Key: "d", Command: CmdDeleteNote, Context: ContextList},
		{Key: "p", Command: CmdTogglePin, Context: ContextList},
		{Key: "y", Command: CmdYank, Context: ContextList},
		{Key: "/", Command: CmdSearch, Context: ContextList},
		{Key: "esc", Command: CmdClearSearch, Context: ContextList},
		{Key: "s", Command: CmdToggleSort, Context: ContextList},
		{Key: "f", Command: CmdPinnedOnly, Context: ContextList},
		{Key: "r", Command: CmdRefresh, Context: ContextList},

		// Composer
		{Key: "esc", Command: CmdDismiss, Context: ContextEditor},
		{Key: "ctrl+p", Command: CmdTogglePreview, Context: ContextEditor},
		{Key: "ctrl+r", Command: CmdDictate, Context: ContextEditor},

		// Search bar
		{Key: "enter", Command: CmdAccept, Context: ContextSearch},
		{Key: "esc", Command: CmdClearSearch, Context: ContextSearch},

		// Delete confirmation
		{Key: "y", Command: CmdConfirm, Context: ContextConfirm},
		{Key: "n", Command: CmdDecline, Context: ContextConfirm},
		{Key: "esc", Command: CmdDecline, Context: ContextConfirm},
		{Key: "enter", Command: CmdAccept, Context: ContextConfirm},
		{Key: "tab", Command: CmdSwitchButton, Context: ContextConfirm},
		{Key: "left", Command: CmdSwitchButton, Context: ContextConfirm},
		{Key: "right", Command: CmdSwitchButton, Context: ContextConfirm},
	}
}
