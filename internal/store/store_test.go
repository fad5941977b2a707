package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/marcus/habitdiary/internal/diary"
	"github.com/marcus/habitdiary/internal/note"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverPure, filepath.Join(t.TempDir(), "diary.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var t0 = time.Date(2025, 4, 10, 7, 0, 0, 0, time.UTC)

func addAction(habit, text string, at time.Time) diary.Action {
	n := note.Note{Text: text, CreatedAt: at}
	return diary.Action{Type: diary.AddNote, HabitTitle: habit, NewNote: &n}
}

func keyAction(typ diary.ActionType, habit string, at time.Time) diary.Action {
	k := at
	return diary.Action{Type: typ, HabitTitle: habit, NoteCreationDate: &k}
}

func TestApplyMainDiaryLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, text := range []string{"one", "two", "three"} {
		if err := s.Apply(ctx, addAction("", text, t0.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("add %q: %v", text, err)
		}
	}

	text := "two, edited"
	edit := keyAction(diary.EditNote, "", t0.Add(time.Minute))
	edit.NewText = &text
	if err := s.Apply(ctx, edit); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := s.Apply(ctx, keyAction(diary.DeleteNote, "", t0)); err != nil {
		t.Fatalf("delete: %v", err)
	}

	notes, err := s.MainDiary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 2 {
		t.Fatalf("len = %d, want 2", len(notes))
	}
	got, ok := note.Find(notes, t0.Add(time.Minute))
	if !ok || got.Text != "two, edited" {
		t.Errorf("edited note = %+v, %v", got, ok)
	}
	if note.Contains(notes, t0) {
		t.Error("deleted note still present")
	}
	if !note.Contains(notes, t0.Add(2*time.Minute)) {
		t.Error("unrelated note was removed")
	}
}

func TestApplyTogglePinTwice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.Apply(ctx, addAction("", "pin me", t0)); err != nil {
		t.Fatal(err)
	}

	for _, want := range []bool{true, false} {
		if err := s.Apply(ctx, keyAction(diary.TogglePin, "", t0)); err != nil {
			t.Fatal(err)
		}
		notes, _ := s.MainDiary(ctx)
		if notes[0].Pinned != want {
			t.Errorf("Pinned = %v, want %v", notes[0].Pinned, want)
		}
	}
}

func TestHabitDiaryScoping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddHabit(ctx, "Running", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddHabit(ctx, "Running", 0); !errors.Is(err, ErrHabitExists) {
		t.Errorf("duplicate habit err = %v", err)
	}

	streak := 5
	n := note.Note{Text: "ran 5k", CreatedAt: t0, Streak: &streak}
	if err := s.Apply(ctx, diary.Action{Type: diary.AddNote, HabitTitle: "Running", NewNote: &n}); err != nil {
		t.Fatal(err)
	}
	// Same key in another diary is allowed.
	if err := s.Apply(ctx, addAction("", "main entry", t0)); err != nil {
		t.Fatal(err)
	}

	notes, ok, err := s.HabitDiary(ctx, "Running")
	if err != nil || !ok {
		t.Fatalf("HabitDiary() ok=%v err=%v", ok, err)
	}
	if len(notes) != 1 || notes[0].Streak == nil || *notes[0].Streak != 5 {
		t.Errorf("habit notes = %+v", notes)
	}

	if _, ok, _ := s.HabitDiary(ctx, "Swimming"); ok {
		t.Error("unknown habit reported ok")
	}
	err = s.Apply(ctx, addAction("Swimming", "laps", t0))
	if !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("unknown habit err = %v", err)
	}

	habits, err := s.Habits(ctx)
	if err != nil || len(habits) != 1 || habits[0].NoteCount != 1 || habits[0].ColorIndex != 2 {
		t.Errorf("Habits() = %+v, %v", habits, err)
	}
}

func TestApplyErrors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.Apply(ctx, addAction("", "first", t0)); err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(ctx, addAction("", "again", t0)); !errors.Is(err, ErrDuplicateNote) {
		t.Errorf("duplicate key err = %v", err)
	}
	if err := s.Apply(ctx, keyAction(diary.DeleteNote, "", t0.Add(time.Hour))); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("missing note err = %v", err)
	}
}

func TestSinksRejectMisroutedActions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.MainSink().Dispatch(ctx, addAction("Running", "x", t0)); !errors.Is(err, ErrMisrouted) {
		t.Errorf("main sink err = %v", err)
	}
	if err := s.HabitSink().Dispatch(ctx, addAction("", "x", t0)); !errors.Is(err, ErrMisrouted) {
		t.Errorf("habit sink err = %v", err)
	}
}

func TestDispatcherAgainstStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.AddHabit(ctx, "Reading", 0); err != nil {
		t.Fatal(err)
	}
	dc := diary.Context{HabitTitle: "Reading", CurrentStreak: 3}
	d := s.NewDispatcher(diary.StaticContext(dc))

	a, err := d.Create(ctx, "chapter 4")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Delete(ctx, a.NewNote.CreatedAt); err != nil {
		t.Fatal(err)
	}
	notes, err := diary.Resolve(ctx, s, dc)
	if err != nil || len(notes) != 0 {
		t.Errorf("Resolve() = %v, %v", notes, err)
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := Open("postgres", filepath.Join(t.TempDir(), "x.db")); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	s := newTestStore(t)
	w, err := Watch(s.Path(), nil)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if err := s.Apply(context.Background(), addAction("", "watched", t0)); err != nil {
		t.Fatal(err)
	}
	select {
	case <-w.Changes():
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}
