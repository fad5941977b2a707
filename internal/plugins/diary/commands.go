package diary

import (
	"github.com/marcus/habitdiary/internal/keymap"
	"github.com/marcus/habitdiary/internal/plugin"
)

// Commands returns the commands shown in the footer for the current context.
func (p *Plugin) Commands() []plugin.Command {
	ctx := p.FocusContext()
	switch ctx {
	case keymap.ContextConfirm:
		return []plugin.Command{
			{ID: keymap.CmdConfirm, Name: "Delete", Category: plugin.CategoryActions, Context: ctx, Priority: 1},
			{ID: keymap.CmdDecline, Name: "Cancel", Category: plugin.CategoryActions, Context: ctx, Priority: 2},
		}
	case keymap.ContextSearch:
		return []plugin.Command{
			{ID: keymap.CmdAccept, Name: "Done", Category: plugin.CategorySearch, Context: ctx, Priority: 1},
			{ID: keymap.CmdClearSearch, Name: "Clear", Category: plugin.CategorySearch, Context: ctx, Priority: 2},
		}
	case keymap.ContextEditor:
		dictate := "Dictate"
		if p.editor.Dictating() {
			dictate = "Stop"
		}
		preview := "Preview"
		if p.editor.Previewing() {
			preview = "Write"
		}
		return []plugin.Command{
			{ID: keymap.CmdSubmit, Name: "Save", Category: plugin.CategoryEdit, Context: keymap.ContextGlobal, Priority: 1},
			{ID: keymap.CmdDismiss, Name: "Close", Category: plugin.CategoryEdit, Context: ctx, Priority: 2},
			{ID: keymap.CmdTogglePreview, Name: preview, Category: plugin.CategoryView, Context: ctx, Priority: 3},
			{ID: keymap.CmdDictate, Name: dictate, Category: plugin.CategoryEdit, Context: ctx, Priority: 4},
		}
	}
	return []plugin.Command{
		{ID: keymap.CmdNewNote, Name: "New", Category: plugin.CategoryActions, Context: ctx, Priority: 1},
		{ID: keymap.CmdEditNote, Name: "Edit", Category: plugin.CategoryActions, Context: ctx, Priority: 2},
		{ID: keymap.CmdDeleteNote, Name: "Delete", Category: plugin.CategoryActions, Context: ctx, Priority: 3},
		{ID: keymap.CmdTogglePin, Name: "Pin", Category: plugin.CategoryActions, Context: ctx, Priority: 4},
		{ID: keymap.CmdSearch, Name: "Search", Category: plugin.CategorySearch, Context: ctx, Priority: 5},
		{ID: keymap.CmdToggleSort, Name: "Sort", Category: plugin.CategoryView, Context: ctx},
		{ID: keymap.CmdPinnedOnly, Name: "Pinned", Category: plugin.CategoryView, Context: ctx},
		{ID: keymap.CmdYank, Name: "Copy", Category: plugin.CategoryActions, Context: ctx},
		{ID: keymap.CmdQuit, Name: "Quit", Category: plugin.CategoryNavigation, Context: ctx},
	}
}

// FocusContext returns the keymap context for the current state.
func (p *Plugin) FocusContext() string {
	switch {
	case p.confirm != nil:
		return keymap.ContextConfirm
	case p.searchMode:
		return keymap.ContextSearch
	case p.editor != nil && p.editor.ComposerOpen():
		return keymap.ContextEditor
	}
	return keymap.ContextList
}

// ConsumesTextInput reports whether printable keys should reach the screen
// as typed text.
func (p *Plugin) ConsumesTextInput() bool {
	if p.confirm != nil {
		return false
	}
	if p.searchMode {
		return true
	}
	return p.editor != nil && p.editor.ComposerOpen() && !p.editor.Previewing()
}
