package diary

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	diarycore "github.com/marcus/habitdiary/internal/diary"
	"github.com/marcus/habitdiary/internal/dictation"
	"github.com/marcus/habitdiary/internal/draft"
	"github.com/marcus/habitdiary/internal/editor"
	"github.com/marcus/habitdiary/internal/keymap"
	"github.com/marcus/habitdiary/internal/msg"
	"github.com/marcus/habitdiary/internal/note"
	"github.com/marcus/habitdiary/internal/plugin"
	"github.com/marcus/habitdiary/internal/ui"
)

// resolve maps a key press to a command ID in the current focus context.
func (p *Plugin) resolve(k tea.KeyMsg) string {
	if p.ctx == nil || p.ctx.Keymap == nil {
		return ""
	}
	id, _ := p.ctx.Keymap.Resolve(k.String(), p.FocusContext())
	return id
}

func (p *Plugin) handleKey(k tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch p.FocusContext() {
	case keymap.ContextConfirm:
		return p, p.handleConfirmKey(k)
	case keymap.ContextSearch:
		return p, p.handleSearchKey(k)
	case keymap.ContextEditor:
		return p, p.handleEditorKey(k)
	}
	return p, p.handleListKey(k)
}

func (p *Plugin) handleListKey(k tea.KeyMsg) tea.Cmd {
	switch p.resolve(k) {
	case keymap.CmdCursorDown:
		p.moveCursor(1)
	case keymap.CmdCursorUp:
		p.moveCursor(-1)
	case keymap.CmdCursorTop:
		p.cursor = 0
		p.ensureCursorVisible()
	case keymap.CmdCursorBottom:
		p.cursor = max(0, len(p.visible())-1)
		p.ensureCursorVisible()
	case keymap.CmdNewNote:
		p.editor.Open()
		return p.syncComposer()
	case keymap.CmdEditNote:
		if n, ok := p.selected(); ok {
			p.editor.StartEdit(n)
			return p.syncComposer()
		}
	case keymap.CmdDeleteNote:
		if n, ok := p.selected(); ok {
			p.openConfirm(n)
		}
	case keymap.CmdTogglePin:
		if n, ok := p.selected(); ok {
			return p.dispatchTogglePin(n)
		}
	case keymap.CmdYank:
		return p.yankSelected()
	case keymap.CmdSearch:
		p.searchMode = true
		p.searchInput.SetValue(p.searchTerm)
		p.searchInput.CursorEnd()
		return p.searchInput.Focus()
	case keymap.CmdClearSearch:
		p.setSearch("")
	case keymap.CmdToggleSort:
		p.order = p.order.Toggle()
		p.savePrefs(func() error { return p.deps.Prefs.SetSortOrder(string(p.order)) })
		p.clampCursor()
	case keymap.CmdPinnedOnly:
		p.pinnedOnly = !p.pinnedOnly
		p.savePrefs(func() error { return p.deps.Prefs.SetPinnedOnly(p.pinnedOnly) })
		p.clampCursor()
	case keymap.CmdRefresh:
		return p.loadNotes()
	case keymap.CmdQuit:
		return tea.Quit
	}
	return nil
}

func (p *Plugin) handleEditorKey(k tea.KeyMsg) tea.Cmd {
	switch p.resolve(k) {
	case keymap.CmdDismiss:
		p.stopDictation()
		p.editor.Dismiss()
		return p.syncComposer()
	case keymap.CmdTogglePreview:
		p.editor.TogglePreview()
		return p.syncComposer()
	case keymap.CmdDictate:
		return p.toggleDictation()
	}
	if p.editor.Previewing() {
		return nil
	}

	var cmd tea.Cmd
	p.composer, cmd = p.composer.Update(k)
	return tea.Batch(cmd, p.bufferChanged(p.composer.Value()))
}

func (p *Plugin) handleSearchKey(k tea.KeyMsg) tea.Cmd {
	switch p.resolve(k) {
	case keymap.CmdAccept:
		p.searchMode = false
		p.searchInput.Blur()
		return nil
	case keymap.CmdClearSearch:
		p.searchMode = false
		p.searchInput.Blur()
		p.setSearch("")
		return nil
	}
	var cmd tea.Cmd
	p.searchInput, cmd = p.searchInput.Update(k)
	if v := p.searchInput.Value(); v != p.searchTerm {
		p.setSearch(v)
	}
	return cmd
}

func (p *Plugin) handleConfirmKey(k tea.KeyMsg) tea.Cmd {
	switch p.resolve(k) {
	case keymap.CmdConfirm:
		return p.closeConfirm(true)
	case keymap.CmdDecline:
		return p.closeConfirm(false)
	case keymap.CmdAccept:
		return p.closeConfirm(p.confirm.ConfirmFocused())
	case keymap.CmdSwitchButton:
		p.confirm.SwitchFocus()
	}
	return nil
}

// bufferChanged records typed or dictated text. Only the composing buffer
// feeds the draft.
func (p *Plugin) bufferChanged(text string) tea.Cmd {
	if !p.editor.SetBuffer(text) {
		return nil
	}
	if p.deps.Drafts == nil || !p.editor.TracksDraft() {
		return nil
	}
	return p.deps.Drafts.Changed(text)
}

// syncComposer pushes editor state into the textarea widget.
func (p *Plugin) syncComposer() tea.Cmd {
	if p.composer.Value() != p.editor.Buffer() {
		p.composer.SetValue(p.editor.Buffer())
	}
	if p.editor.ComposerOpen() && !p.editor.Previewing() {
		if !p.composer.Focused() {
			return p.composer.Focus()
		}
		return nil
	}
	p.composer.Blur()
	return nil
}

func (p *Plugin) submitCurrent() tea.Cmd {
	intent := p.editor.Submit()
	switch intent.Kind {
	case editor.IntentCreate:
		return p.dispatchCreate(intent.Text)
	case editor.IntentEdit:
		if !note.Contains(p.notes, intent.Target) {
			p.editor.Cancel()
			return p.syncComposer()
		}
		return p.dispatchEdit(intent.Target, intent.Text)
	}
	return nil
}

func (p *Plugin) handleDispatched(m DispatchedMsg) tea.Cmd {
	if m.Submit {
		p.editor.Settle()
	}
	if m.Err != nil {
		return p.dispatchError(m.Err)
	}

	var toast string
	var cmds []tea.Cmd
	switch m.Action.Type {
	case diarycore.AddNote:
		if p.editor.Mode() == editor.Composing {
			p.stopDictation()
			p.editor.Created()
			cmds = append(cmds, p.syncComposer())
		}
		if p.deps.Drafts != nil {
			if err := p.deps.Drafts.ClearNow(); err != nil {
				p.logger().Warn("diary: clear draft", "err", err)
			}
		}
		toast = "Note added!"
	case diarycore.EditNote:
		if target, ok := p.editor.Target(); ok && target.Equal(m.Action.Key()) {
			p.stopDictation()
			p.editor.Edited()
			cmds = append(cmds, p.syncComposer())
		}
		toast = "Note updated!"
	case diarycore.DeleteNote:
		toast = "Note deleted"
	case diarycore.TogglePin:
		toast = "Note pinned"
		if m.WasPinned {
			toast = "Note unpinned"
		}
	}
	cmds = append(cmds, showToast(toast), p.loadNotes())
	return tea.Batch(cmds...)
}

func (p *Plugin) applyLoaded(m NotesLoadedMsg) tea.Cmd {
	if m.Err != nil {
		p.loadErr = m.Err
		p.logger().Error("diary: load failed", "err", m.Err)
		return nil
	}
	p.loadErr = nil
	p.loaded = true
	p.notes = m.Notes

	var cmd tea.Cmd
	if p.editor.Reconcile(p.notes) {
		p.logger().Debug("diary: edit target gone, editor reset")
		p.stopDictation()
		cmd = p.syncComposer()
	}
	if p.pendingDelete != nil && !note.Contains(p.notes, p.pendingDelete.Key) {
		p.closeConfirm(false)
	}
	p.clampCursor()
	return cmd
}

func (p *Plugin) draftElapsed(m draft.TickMsg) tea.Cmd {
	if p.deps.Drafts == nil {
		return nil
	}
	if _, err := p.deps.Drafts.Elapsed(m); err != nil {
		p.logger().Warn("diary: draft", "err", err)
		return msg.ShowError("Could not save draft")
	}
	return nil
}

func (p *Plugin) toggleDictation() tea.Cmd {
	if p.deps.Dictation == nil {
		return msg.ShowError("Speech recognition not supported.")
	}
	started, cmd, err := p.deps.Dictation.Toggle()
	if err != nil {
		p.editor.SetDictating(false)
		if errors.Is(err, dictation.ErrUnsupported) {
			return msg.ShowError("Speech recognition not supported.")
		}
		p.logger().Warn("diary: dictation", "err", err)
		return msg.ShowError("Voice input failed: " + err.Error())
	}
	p.editor.SetDictating(started)
	if started {
		return tea.Batch(cmd, showToast("🎙️ Listening..."))
	}
	return showToast("Voice input stopped.")
}

func (p *Plugin) stopDictation() {
	if p.deps.Dictation != nil {
		p.deps.Dictation.Stop()
	}
	p.editor.SetDictating(false)
}

func (p *Plugin) dictationEvent(m dictation.EventMsg) tea.Cmd {
	if p.deps.Dictation == nil {
		return nil
	}
	text, next, ok := p.deps.Dictation.Apply(m, p.editor.Buffer())
	if !ok {
		return nil
	}
	cmd := p.bufferChanged(text)
	p.syncComposer()
	return tea.Batch(next, cmd)
}

func (p *Plugin) dictationEnded(m dictation.EndedMsg) tea.Cmd {
	if p.deps.Dictation == nil || !p.deps.Dictation.Ended(m) {
		return nil
	}
	p.editor.SetDictating(false)
	return showToast("Voice input stopped.")
}

// openConfirm starts the two-step delete: the request is recorded now and
// the decision arrives later from the dialog.
func (p *Plugin) openConfirm(n note.Note) {
	pd := p.dispatcher.RequestDelete(n.CreatedAt)
	p.pendingDelete = &pd

	preview := strings.TrimSpace(n.Text)
	if r := []rune(preview); len(r) > 60 {
		preview = string(r[:60]) + "…"
	}
	d := ui.NewConfirmDialog("Delete note?", "This cannot be undone.\n\n"+preview)
	d.ConfirmLabel = " Delete "
	d.Danger = true
	p.confirm = d
}

// closeConfirm delivers the user's decision. Declining dispatches nothing.
func (p *Plugin) closeConfirm(confirmed bool) tea.Cmd {
	pd := p.pendingDelete
	p.confirm = nil
	p.pendingDelete = nil
	if pd == nil {
		return nil
	}
	if confirmed {
		return p.dispatchDelete(*pd)
	}
	if _, _, err := p.dispatcher.ResolveDelete(context.Background(), *pd, false); err != nil {
		p.logger().Debug("diary: decline delete", "err", err)
	}
	return nil
}

func (p *Plugin) yankSelected() tea.Cmd {
	n, ok := p.selected()
	if !ok {
		return nil
	}
	if err := p.deps.Clipboard(n.Text); err != nil {
		return msg.ShowError("Copy failed: " + err.Error())
	}
	return showToast("Copied note")
}

func (p *Plugin) setSearch(term string) {
	p.searchTerm = term
	p.cursor = 0
	p.scrollOff = 0
}

func (p *Plugin) savePrefs(save func() error) {
	if p.deps.Prefs == nil {
		return
	}
	if err := save(); err != nil {
		p.logger().Warn("diary: save state", "err", err)
	}
}

func (p *Plugin) moveCursor(delta int) {
	p.cursor += delta
	p.clampCursor()
}

func (p *Plugin) clampCursor() {
	n := len(p.visible())
	if p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	p.ensureCursorVisible()
}

func (p *Plugin) ensureCursorVisible() {
	h := p.listHeight()
	if h <= 0 {
		return
	}
	if p.cursor < p.scrollOff {
		p.scrollOff = p.cursor
	}
	if p.cursor >= p.scrollOff+h {
		p.scrollOff = p.cursor - h + 1
	}
}
