package editor

import (
	"strings"
	"testing"
	"time"

	"github.com/marcus/habitdiary/internal/note"
)

var k1 = time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

func TestComposeAndDismissKeepsBuffer(t *testing.T) {
	e := New("draft from last time", 500)
	if e.Mode() != Idle || e.ComposerOpen() {
		t.Fatalf("new editor mode = %v", e.Mode())
	}
	e.Open()
	if e.Mode() != Composing {
		t.Fatalf("mode = %v, want composing", e.Mode())
	}
	e.SetBuffer("half written")
	e.Dismiss()
	if e.Mode() != Idle || e.Buffer() != "half written" {
		t.Errorf("after dismiss mode=%v buffer=%q", e.Mode(), e.Buffer())
	}
}

func TestSubmitIntents(t *testing.T) {
	e := New("", 500)
	if got := e.Submit(); got.Kind != IntentNone {
		t.Errorf("idle Submit() = %v", got)
	}
	e.Open()
	e.SetBuffer("new note")
	if got := e.Submit(); got.Kind != IntentCreate || got.Text != "new note" {
		t.Errorf("composing Submit() = %+v", got)
	}
	e.Settle()
	e.StartEdit(note.Note{Text: "old text", CreatedAt: k1})
	e.SetBuffer("old text, revised")
	got := e.Submit()
	if got.Kind != IntentEdit || !got.Target.Equal(k1) || got.Text != "old text, revised" {
		t.Errorf("editing Submit() = %+v", got)
	}
}

func TestSubmitInFlight(t *testing.T) {
	e := New("", 500)
	e.Open()
	e.SetBuffer("Felt great today")

	if got := e.Submit(); got.Kind != IntentCreate {
		t.Fatalf("first Submit() = %+v", got)
	}
	if !e.Submitting() {
		t.Fatal("create not marked in flight")
	}
	if got := e.Submit(); got.Kind != IntentNone {
		t.Errorf("repeat Submit() while in flight = %+v, want none", got)
	}

	// A failed create leaves the buffer for another try.
	e.Settle()
	if got := e.Submit(); got.Kind != IntentCreate || got.Text != "Felt great today" {
		t.Errorf("Submit() after settle = %+v", got)
	}
	e.Created()
	if e.Submitting() {
		t.Error("still in flight after Created")
	}

	e.StartEdit(note.Note{Text: "old", CreatedAt: k1})
	e.Submit()
	e.Cancel()
	if e.Submitting() {
		t.Error("still in flight after Cancel")
	}
}

func TestEditRestoresComposingBuffer(t *testing.T) {
	e := New("", 500)
	e.Open()
	e.SetBuffer("my draft")
	e.StartEdit(note.Note{Text: "existing", CreatedAt: k1})
	if e.Buffer() != "existing" || e.TracksDraft() {
		t.Fatalf("buffer=%q tracksDraft=%v", e.Buffer(), e.TracksDraft())
	}
	e.Edited()
	if e.Mode() != Idle || e.Buffer() != "my draft" {
		t.Errorf("after edit mode=%v buffer=%q", e.Mode(), e.Buffer())
	}
	if _, ok := e.Target(); ok {
		t.Error("target still set")
	}
}

func TestCancelEdit(t *testing.T) {
	e := New("", 500)
	e.StartEdit(note.Note{Text: "existing", CreatedAt: k1})
	e.Dismiss()
	if e.Mode() != Idle || e.Buffer() != "" {
		t.Errorf("after cancel mode=%v buffer=%q", e.Mode(), e.Buffer())
	}
}

func TestCreatedClearsBuffer(t *testing.T) {
	e := New("", 500)
	e.Open()
	e.SetBuffer("posted")
	e.TogglePreview()
	e.Created()
	if e.Mode() != Idle || e.Buffer() != "" || e.Previewing() {
		t.Errorf("after create mode=%v buffer=%q preview=%v", e.Mode(), e.Buffer(), e.Previewing())
	}
}

func TestReconcileResetsStaleTarget(t *testing.T) {
	e := New("", 500)
	e.StartEdit(note.Note{Text: "gone soon", CreatedAt: k1})

	if e.Reconcile([]note.Note{{CreatedAt: k1}}) {
		t.Fatal("Reconcile() reset a live target")
	}
	if !e.Reconcile([]note.Note{{CreatedAt: k1.Add(time.Second)}}) {
		t.Fatal("Reconcile() kept a missing target")
	}
	if e.Mode() != Idle || e.Submit().Kind != IntentNone {
		t.Errorf("after reset mode=%v", e.Mode())
	}
}

func TestPreviewIsOrthogonal(t *testing.T) {
	e := New("", 500)
	e.Open()
	e.SetBuffer("**bold**")
	e.TogglePreview()
	if !e.Previewing() || e.Mode() != Composing || e.Buffer() != "**bold**" {
		t.Errorf("preview changed state: mode=%v buffer=%q", e.Mode(), e.Buffer())
	}
	e.SetDictating(true)
	if !e.Dictating() || !e.Previewing() {
		t.Error("flags not independent")
	}
}

func TestCharCountClamps(t *testing.T) {
	e := New(strings.Repeat("x", 512), 500)
	if got := e.CharCount(); got != "500/500" {
		t.Errorf("CharCount() = %q", got)
	}
	if len(e.Buffer()) != 512 {
		t.Error("buffer truncated")
	}
}
