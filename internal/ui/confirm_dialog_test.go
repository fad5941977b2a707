package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestNewConfirmDialog(t *testing.T) {
	d := NewConfirmDialog("Test Title", "Test message")

	if d.Title != "Test Title" || d.Message != "Test message" {
		t.Errorf("dialog = %+v", d)
	}
	if d.ConfirmLabel != " Confirm " || d.CancelLabel != " Cancel " {
		t.Errorf("labels = %q / %q", d.ConfirmLabel, d.CancelLabel)
	}
	if d.Width != ModalWidthMedium {
		t.Errorf("expected width %d, got %d", ModalWidthMedium, d.Width)
	}
	if d.ConfirmFocused() {
		t.Error("cancel should be focused initially")
	}
}

func TestConfirmDialogView(t *testing.T) {
	d := NewConfirmDialog("Delete note?", "Delete this note?")
	d.ConfirmLabel = " Delete "
	d.Danger = true

	out := ansi.Strip(d.View())
	for _, want := range []string{"Delete note?", "Delete this note?", "Delete", "Cancel"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestConfirmDialogSwitchFocus(t *testing.T) {
	d := NewConfirmDialog("t", "m")
	d.SwitchFocus()
	if !d.ConfirmFocused() {
		t.Error("focus did not move to confirm")
	}
	d.SwitchFocus()
	if d.ConfirmFocused() {
		t.Error("focus did not move back")
	}
}
