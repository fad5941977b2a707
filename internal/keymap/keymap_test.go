package keymap

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type submitMsg struct{}

func ctrlS() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyCtrlS}
}

func TestSubmitFiresOncePerPress(t *testing.T) {
	r := NewRegistry()
	calls := 0
	handler := func() tea.Cmd {
		calls++
		return func() tea.Msg { return submitMsg{} }
	}
	// Registering repeatedly must not stack handlers.
	for i := 0; i < 3; i++ {
		r.RegisterCommand(Command{ID: CmdSubmit, Name: "Submit", Handler: handler})
	}

	cmd := r.Handle(ctrlS(), ContextEditor)
	if cmd == nil {
		t.Fatal("Handle() returned nil for ctrl+s")
	}
	if _, ok := cmd().(submitMsg); !ok {
		t.Error("handler command did not produce submitMsg")
	}
	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
}

func TestHandleWithoutHandler(t *testing.T) {
	r := NewRegistry()
	if cmd := r.Handle(ctrlS(), ContextList); cmd != nil {
		t.Error("Handle() should return nil with no handler")
	}
	r.RegisterCommand(Command{ID: CmdSubmit, Handler: func() tea.Cmd { return nil }})
	r.UnregisterCommand(CmdSubmit)
	if _, ok := r.GetCommand(CmdSubmit); ok {
		t.Error("command still registered")
	}
}

func TestResolveFallsBackToGlobal(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		key, context, want string
	}{
		{"d", ContextList, CmdDeleteNote},
		{"esc", ContextEditor, CmdDismiss},
		{"esc", ContextList, CmdClearSearch},
		{"ctrl+s", ContextSearch, CmdSubmit},
		{"y", ContextConfirm, CmdConfirm},
	}
	for _, tt := range tests {
		got, ok := r.Resolve(tt.key, tt.context)
		if !ok || got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, %v; want %q", tt.key, tt.context, got, ok, tt.want)
		}
	}
	if _, ok := r.Resolve("d", ContextEditor); ok {
		t.Error("list binding leaked into editor context")
	}
}

func TestUserOverride(t *testing.T) {
	r := NewRegistry()
	r.ApplyOverrides(map[string]string{CmdSubmit: "Ctrl+Enter ", CmdTogglePin: ""})

	if _, ok := r.Resolve("ctrl+s", ContextEditor); ok {
		t.Error("default key still bound after override")
	}
	if got, _ := r.Resolve("ctrl+enter", ContextEditor); got != CmdSubmit {
		t.Errorf("override not applied, got %q", got)
	}
	if got, _ := r.Resolve("p", ContextList); got != CmdTogglePin {
		t.Error("empty override should keep the default")
	}
	if keys := r.KeysFor(CmdSubmit, ContextGlobal); len(keys) != 1 || keys[0] != "ctrl+enter" {
		t.Errorf("KeysFor() = %v", keys)
	}
}
