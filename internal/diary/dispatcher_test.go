package diary

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type recordingSink struct {
	actions []Action
	err     error
}

func (s *recordingSink) Dispatch(_ context.Context, a Action) error {
	if s.err != nil {
		return s.err
	}
	s.actions = append(s.actions, a)
	return nil
}

var fixedNow = time.Date(2025, 6, 2, 8, 15, 0, 0, time.UTC)

func newTestDispatcher(dc *Context) (*Dispatcher, *recordingSink, *recordingSink) {
	habits, main := &recordingSink{}, &recordingSink{}
	d := NewDispatcher(habits, main, func() Context { return *dc },
		WithClock(func() time.Time { return fixedNow }))
	return d, habits, main
}

func TestCreateRejectsEmpty(t *testing.T) {
	dc := Context{HabitTitle: "Running"}
	d, habits, main := newTestDispatcher(&dc)
	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := d.Create(context.Background(), text)
		if !errors.Is(err, ErrEmptyNote) {
			t.Errorf("Create(%q) err = %v, want ErrEmptyNote", text, err)
		}
	}
	if len(habits.actions)+len(main.actions) != 0 {
		t.Errorf("dispatched %d actions for empty text", len(habits.actions)+len(main.actions))
	}
}

func TestCreateHabitScoped(t *testing.T) {
	dc := Context{HabitTitle: "Running"}
	d, habits, main := newTestDispatcher(&dc)

	a, err := d.Create(context.Background(), "Felt great today")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(habits.actions) != 1 || len(main.actions) != 0 {
		t.Fatalf("routed habits=%d main=%d, want 1/0", len(habits.actions), len(main.actions))
	}

	raw, _ := json.Marshal(a)
	var got map[string]any
	_ = json.Unmarshal(raw, &got)
	if got["type"] != "addNote" || got["habitTitle"] != "Running" {
		t.Errorf("action = %s", raw)
	}
	nn := got["newNote"].(map[string]any)
	if nn["text"] != "Felt great today" || nn["pinned"] != false {
		t.Errorf("newNote = %v", nn)
	}
	if _, ok := nn["streak"]; ok {
		t.Errorf("zero streak should be omitted: %v", nn)
	}
	if !a.NewNote.CreatedAt.Equal(fixedNow) {
		t.Errorf("date = %v, want %v", a.NewNote.CreatedAt, fixedNow)
	}
}

func TestCreateMainDiaryWithStreak(t *testing.T) {
	dc := Context{CurrentStreak: 4}
	d, habits, main := newTestDispatcher(&dc)

	a, err := d.Create(context.Background(), "rest day")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(main.actions) != 1 || len(habits.actions) != 0 {
		t.Fatalf("routed habits=%d main=%d, want 0/1", len(habits.actions), len(main.actions))
	}
	if a.HabitTitle != "" {
		t.Errorf("HabitTitle = %q, want empty", a.HabitTitle)
	}
	if a.NewNote.Streak == nil || *a.NewNote.Streak != 4 {
		t.Errorf("Streak = %v, want 4", a.NewNote.Streak)
	}
}

func TestCreateKeysAreUnique(t *testing.T) {
	dc := Context{}
	d, _, main := newTestDispatcher(&dc)
	for i := 0; i < 3; i++ {
		if _, err := d.Create(context.Background(), "same instant"); err != nil {
			t.Fatal(err)
		}
	}
	seen := map[time.Time]bool{}
	for _, a := range main.actions {
		k := a.NewNote.CreatedAt
		if seen[k] {
			t.Errorf("duplicate key %v", k)
		}
		seen[k] = true
	}
}

func TestSharedKeyClockAcrossDispatchers(t *testing.T) {
	keys := NewKeyClock(func() time.Time { return fixedNow })
	main := &recordingSink{}
	seen := map[time.Time]bool{}
	for i := 0; i < 20; i++ {
		// A fresh dispatcher per request, as a tool server builds them.
		d := NewDispatcher(&recordingSink{}, main, StaticContext(Context{}), WithKeyClock(keys))
		a, err := d.Create(context.Background(), "quick note")
		if err != nil {
			t.Fatal(err)
		}
		k := a.NewNote.CreatedAt
		if seen[k] {
			t.Fatalf("request %d reused key %v", i, k)
		}
		seen[k] = true
	}
}

func TestKeyClockNeverGoesBack(t *testing.T) {
	now := fixedNow
	keys := NewKeyClock(func() time.Time { return now })
	first := keys.Next()
	now = fixedNow.Add(-time.Minute)
	if second := keys.Next(); !second.After(first) {
		t.Errorf("Next() = %v after %v, want later", second, first)
	}
}

func TestCreateReadsContextOnce(t *testing.T) {
	// The context switches between two reads: streak and routing must
	// still come from the same one.
	contexts := []Context{
		{HabitTitle: "Running", CurrentStreak: 9},
		{HabitTitle: "Reading", CurrentStreak: 2},
	}
	reads := 0
	habits, main := &recordingSink{}, &recordingSink{}
	d := NewDispatcher(habits, main, func() Context {
		dc := contexts[min(reads, len(contexts)-1)]
		reads++
		return dc
	}, WithClock(func() time.Time { return fixedNow }))

	a, err := d.Create(context.Background(), "long run")
	if err != nil {
		t.Fatal(err)
	}
	if reads != 1 {
		t.Errorf("context read %d times, want 1", reads)
	}
	if a.HabitTitle != "Running" || a.NewNote.Streak == nil || *a.NewNote.Streak != 9 {
		t.Errorf("action = %s, want Running with streak 9", a)
	}
}

func TestRoutingFollowsCurrentContext(t *testing.T) {
	dc := Context{}
	d, habits, main := newTestDispatcher(&dc)
	key := fixedNow.Add(-time.Hour)

	if _, err := d.TogglePin(context.Background(), key); err != nil {
		t.Fatal(err)
	}
	dc.HabitTitle = "Reading"
	if _, err := d.TogglePin(context.Background(), key); err != nil {
		t.Fatal(err)
	}
	if len(main.actions) != 1 || len(habits.actions) != 1 {
		t.Fatalf("routed habits=%d main=%d, want 1/1", len(habits.actions), len(main.actions))
	}
	if habits.actions[0].HabitTitle != "Reading" {
		t.Errorf("HabitTitle = %q", habits.actions[0].HabitTitle)
	}
}

func TestEditAllowsEmptyText(t *testing.T) {
	dc := Context{}
	d, _, main := newTestDispatcher(&dc)
	key := fixedNow.Add(-time.Minute)

	a, err := d.Edit(context.Background(), key, "")
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if len(main.actions) != 1 || a.Type != EditNote || *a.NewText != "" || !a.Key().Equal(key) {
		t.Errorf("action = %v", a)
	}
}

func TestTogglePinTwice(t *testing.T) {
	dc := Context{HabitTitle: "Running"}
	d, habits, _ := newTestDispatcher(&dc)
	key := fixedNow.Add(-time.Minute)
	for i := 0; i < 2; i++ {
		if _, err := d.TogglePin(context.Background(), key); err != nil {
			t.Fatal(err)
		}
	}
	if len(habits.actions) != 2 {
		t.Fatalf("dispatched %d actions, want 2", len(habits.actions))
	}
	for _, a := range habits.actions {
		if a.Type != TogglePin || !a.Key().Equal(key) {
			t.Errorf("action = %v", a)
		}
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	dc := Context{}
	d, _, main := newTestDispatcher(&dc)
	key := fixedNow.Add(-time.Minute)

	p := d.RequestDelete(key)
	if len(main.actions) != 0 {
		t.Fatal("request dispatched before decision")
	}
	_, dispatched, err := d.ResolveDelete(context.Background(), p, false)
	if err != nil || dispatched {
		t.Fatalf("decline: dispatched=%v err=%v", dispatched, err)
	}
	if len(main.actions) != 0 {
		t.Fatal("declined delete dispatched")
	}
	if _, _, err := d.ResolveDelete(context.Background(), p, true); !errors.Is(err, ErrNoPendingDelete) {
		t.Errorf("answering twice err = %v, want ErrNoPendingDelete", err)
	}

	p = d.RequestDelete(key)
	a, dispatched, err := d.ResolveDelete(context.Background(), p, true)
	if err != nil || !dispatched {
		t.Fatalf("confirm: dispatched=%v err=%v", dispatched, err)
	}
	if a.Type != DeleteNote || !a.Key().Equal(key) || len(main.actions) != 1 {
		t.Errorf("action = %v", a)
	}
}

func TestStaleDeleteRequestIgnored(t *testing.T) {
	dc := Context{}
	d, _, main := newTestDispatcher(&dc)
	old := d.RequestDelete(fixedNow)
	newer := d.RequestDelete(fixedNow.Add(time.Second))

	if _, _, err := d.ResolveDelete(context.Background(), old, true); !errors.Is(err, ErrNoPendingDelete) {
		t.Errorf("stale request err = %v", err)
	}
	if p, ok := d.Pending(); !ok || p.ID != newer.ID {
		t.Errorf("Pending() = %v, %v", p, ok)
	}
	if len(main.actions) != 0 {
		t.Error("stale request dispatched")
	}
}

func TestDispatchErrorWrapped(t *testing.T) {
	dc := Context{}
	d, _, main := newTestDispatcher(&dc)
	boom := errors.New("disk full")
	main.err = boom
	if _, err := d.Create(context.Background(), "hello"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestActionValidate(t *testing.T) {
	key := fixedNow
	text := "x"
	tests := []struct {
		name    string
		a       Action
		wantErr bool
	}{
		{"add missing note", Action{Type: AddNote}, true},
		{"edit ok", Action{Type: EditNote, NoteCreationDate: &key, NewText: &text}, false},
		{"edit missing text", Action{Type: EditNote, NoteCreationDate: &key}, true},
		{"delete ok", Action{Type: DeleteNote, NoteCreationDate: &key}, false},
		{"pin missing key", Action{Type: TogglePin}, true},
		{"unknown", Action{Type: "archive"}, true},
	}
	for _, tt := range tests {
		if err := tt.a.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() err = %v", tt.name, err)
		}
	}
}
