package diary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	diarycore "github.com/marcus/habitdiary/internal/diary"
	"github.com/marcus/habitdiary/internal/msg"
	"github.com/marcus/habitdiary/internal/note"
)

// NotesLoadedMsg carries a freshly resolved collection.
type NotesLoadedMsg struct {
	Notes []note.Note
	Err   error
	Epoch uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m NotesLoadedMsg) GetEpoch() uint64 { return m.Epoch }

// StoreChangedMsg reports a write to the diary database.
type StoreChangedMsg struct{}

// DispatchedMsg reports the outcome of one dispatched action.
type DispatchedMsg struct {
	Action diarycore.Action
	Err    error

	// WasPinned is the pin state before a togglePin.
	WasPinned bool
	// Submit marks the result of a composer submit.
	Submit bool
}

func (p *Plugin) logger() *slog.Logger {
	if p.ctx != nil && p.ctx.Logger != nil {
		return p.ctx.Logger
	}
	return slog.Default()
}

// loadNotes resolves the active collection off the update loop.
func (p *Plugin) loadNotes() tea.Cmd {
	if p.deps.Backend == nil {
		return nil
	}
	var epoch uint64
	if p.ctx != nil {
		epoch = p.ctx.Epoch
	}
	src := p.deps.Backend
	dc := p.currentContext()
	return func() tea.Msg {
		notes, err := diarycore.Resolve(context.Background(), src, dc)
		return NotesLoadedMsg{Notes: notes, Err: err, Epoch: epoch}
	}
}

// watchStore waits for the next external change to the database.
func (p *Plugin) watchStore() tea.Cmd {
	ch := p.deps.Changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return StoreChangedMsg{}
	}
}

func (p *Plugin) dispatchCreate(text string) tea.Cmd {
	d := p.dispatcher
	return func() tea.Msg {
		a, err := d.Create(context.Background(), text)
		return DispatchedMsg{Action: a, Err: err, Submit: true}
	}
}

func (p *Plugin) dispatchEdit(key time.Time, text string) tea.Cmd {
	d := p.dispatcher
	return func() tea.Msg {
		a, err := d.Edit(context.Background(), key, text)
		return DispatchedMsg{Action: a, Err: err, Submit: true}
	}
}

func (p *Plugin) dispatchTogglePin(n note.Note) tea.Cmd {
	d := p.dispatcher
	return func() tea.Msg {
		a, err := d.TogglePin(context.Background(), n.CreatedAt)
		return DispatchedMsg{Action: a, Err: err, WasPinned: n.Pinned}
	}
}

func (p *Plugin) dispatchDelete(pd diarycore.PendingDelete) tea.Cmd {
	d := p.dispatcher
	return func() tea.Msg {
		a, _, err := d.ResolveDelete(context.Background(), pd, true)
		return DispatchedMsg{Action: a, Err: err}
	}
}

func (p *Plugin) dispatchError(err error) tea.Cmd {
	switch {
	case errors.Is(err, diarycore.ErrEmptyNote):
		return msg.ShowError("Note cannot be empty")
	case errors.Is(err, diarycore.ErrNoteTooLong):
		return msg.ShowError(fmt.Sprintf("Note is longer than %d characters", p.editor.MaxLength()))
	}
	p.logger().Error("diary: dispatch failed", "err", err)
	return msg.ShowError("Save failed: " + err.Error())
}

func showToast(text string) tea.Cmd {
	return msg.ShowToast(text, msg.ToastShort)
}
