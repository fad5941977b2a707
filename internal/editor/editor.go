// Package editor holds the note editor's interaction state.
package editor

import (
	"fmt"
	"time"

	"github.com/marcus/habitdiary/internal/note"
)

// Mode is the editor's base state.
type Mode int

const (
	Idle Mode = iota
	Composing
	Editing
)

func (m Mode) String() string {
	switch m {
	case Composing:
		return "composing"
	case Editing:
		return "editing"
	}
	return "idle"
}

// IntentKind is what a submit asks the dispatcher to do.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentCreate
	IntentEdit
)

// Intent is the pending action produced by Submit.
type Intent struct {
	Kind   IntentKind
	Text   string
	Target time.Time
}

// Editor is one session's editor state. Previewing and dictating overlay
// any base mode.
type Editor struct {
	mode       Mode
	target     time.Time
	buffer     string
	stash      string
	previewing bool
	dictating  bool
	submitting bool
	maxLen     int
}

// New returns an idle editor seeded with a saved draft.
func New(seed string, maxLen int) *Editor {
	if maxLen <= 0 {
		maxLen = note.MaxTextLength
	}
	return &Editor{buffer: seed, maxLen: maxLen}
}

func (e *Editor) Mode() Mode         { return e.mode }
func (e *Editor) Buffer() string     { return e.buffer }
func (e *Editor) Previewing() bool   { return e.previewing }
func (e *Editor) Dictating() bool    { return e.dictating }
func (e *Editor) ComposerOpen() bool { return e.mode != Idle }
func (e *Editor) Submitting() bool   { return e.submitting }

// Target returns the key being edited.
func (e *Editor) Target() (time.Time, bool) {
	if e.mode != Editing {
		return time.Time{}, false
	}
	return e.target, true
}

// SetBuffer replaces the buffer and reports whether it changed.
func (e *Editor) SetBuffer(text string) bool {
	if text == e.buffer {
		return false
	}
	e.buffer = text
	return true
}

// TracksDraft reports whether buffer changes belong to the draft. Text of
// a note under edit is never saved as the draft.
func (e *Editor) TracksDraft() bool {
	return e.mode != Editing
}

// Open moves Idle to Composing.
func (e *Editor) Open() {
	if e.mode == Idle {
		e.mode = Composing
	}
}

// Dismiss closes the composer, keeping the buffer for later. Dismissing an
// edit cancels it.
func (e *Editor) Dismiss() {
	switch e.mode {
	case Composing:
		e.mode = Idle
	case Editing:
		e.Cancel()
	}
}

// StartEdit enters Editing for n, seeding the buffer with its text. The
// composing buffer is restored when the edit ends.
func (e *Editor) StartEdit(n note.Note) {
	if e.mode != Editing {
		e.stash = e.buffer
	}
	e.mode = Editing
	e.target = n.CreatedAt
	e.buffer = n.Text
}

// Cancel leaves Editing without dispatching.
func (e *Editor) Cancel() {
	if e.mode != Editing {
		return
	}
	e.mode = Idle
	e.target = time.Time{}
	e.buffer = e.stash
	e.stash = ""
	e.submitting = false
}

// TogglePreview flips the preview overlay. The buffer is untouched.
func (e *Editor) TogglePreview() {
	e.previewing = !e.previewing
}

// SetDictating records whether a dictation session is live.
func (e *Editor) SetDictating(on bool) {
	e.dictating = on
}

// Submit returns the pending action for the current mode and marks it in
// flight. While a submit is in flight, Submit returns IntentNone.
func (e *Editor) Submit() Intent {
	if e.submitting {
		return Intent{Kind: IntentNone}
	}
	switch e.mode {
	case Composing:
		e.submitting = true
		return Intent{Kind: IntentCreate, Text: e.buffer}
	case Editing:
		e.submitting = true
		return Intent{Kind: IntentEdit, Text: e.buffer, Target: e.target}
	}
	return Intent{Kind: IntentNone}
}

// Settle ends the in-flight submit, whatever its outcome.
func (e *Editor) Settle() {
	e.submitting = false
}

// Created resets after a successful create.
func (e *Editor) Created() {
	e.buffer = ""
	e.mode = Idle
	e.previewing = false
	e.submitting = false
}

// Edited leaves Editing after the edit was dispatched.
func (e *Editor) Edited() {
	e.Cancel()
	e.previewing = false
}

// Reconcile checks the edit target against the latest collection. A target
// that no longer exists resets the editor and reports true.
func (e *Editor) Reconcile(collection []note.Note) bool {
	if e.mode != Editing || note.Contains(collection, e.target) {
		return false
	}
	e.Cancel()
	return true
}

// CharCount renders the counter shown beside the composer.
func (e *Editor) CharCount() string {
	return fmt.Sprintf("%d/%d", note.ClampForDisplay(e.buffer, e.maxLen), e.maxLen)
}

// MaxLength returns the create length limit.
func (e *Editor) MaxLength() int {
	return e.maxLen
}
