package diary

import (
	"context"
	"testing"
	"time"

	"github.com/marcus/habitdiary/internal/note"
)

type mapSource struct {
	main   []note.Note
	habits map[string][]note.Note
}

func (s mapSource) MainDiary(context.Context) ([]note.Note, error) { return s.main, nil }

func (s mapSource) HabitDiary(_ context.Context, title string) ([]note.Note, bool, error) {
	n, ok := s.habits[title]
	return n, ok, nil
}

func TestResolve(t *testing.T) {
	now := time.Now()
	src := mapSource{
		main:   []note.Note{{Text: "main", CreatedAt: now}},
		habits: map[string][]note.Note{"Running": {{Text: "ran 5k", CreatedAt: now}}},
	}
	tests := []struct {
		name string
		dc   Context
		want string
	}{
		{"main", Context{}, "main"},
		{"habit", Context{HabitTitle: "Running"}, "ran 5k"},
		{"unknown habit", Context{HabitTitle: "Swimming"}, ""},
		{"blank title", Context{HabitTitle: "  "}, "main"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(context.Background(), src, tt.dc)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if tt.want == "" {
				if len(got) != 0 {
					t.Errorf("Resolve() = %v, want empty", got)
				}
				return
			}
			if len(got) != 1 || got[0].Text != tt.want {
				t.Errorf("Resolve() = %v, want %q", got, tt.want)
			}
		})
	}
}

func TestEmptyTitle(t *testing.T) {
	if got := (Context{}).EmptyTitle(); got != "Main diary is empty" {
		t.Errorf("EmptyTitle() = %q", got)
	}
	if got := (Context{HabitTitle: "Running"}).EmptyTitle(); got != "This habit’s diary is empty" {
		t.Errorf("EmptyTitle() = %q", got)
	}
}
