// Package diary resolves the active note collection and turns user intents
// into actions for the diary store.
package diary

import (
	"context"
	"strings"

	"github.com/marcus/habitdiary/internal/note"
)

// Context is the read-only selection supplied by navigation.
// An empty HabitTitle selects the main diary.
type Context struct {
	HabitTitle    string `json:"habitTitle,omitempty"`
	ColorIndex    int    `json:"colorIndex,omitempty"`
	CurrentStreak int    `json:"currentStreak,omitempty"`
}

// IsHabit reports whether the context is bound to a habit.
func (c Context) IsHabit() bool {
	return strings.TrimSpace(c.HabitTitle) != ""
}

// EmptyTitle is the placeholder shown for an empty collection.
func (c Context) EmptyTitle() string {
	if c.IsHabit() {
		return "This habit’s diary is empty"
	}
	return "Main diary is empty"
}

// Label names the collection for headers.
func (c Context) Label() string {
	if c.IsHabit() {
		return c.HabitTitle
	}
	return "Main diary"
}

// Source reads note collections owned by the diary store.
type Source interface {
	MainDiary(ctx context.Context) ([]note.Note, error)
	// HabitDiary returns ok=false when no habit has the title.
	HabitDiary(ctx context.Context, title string) (notes []note.Note, ok bool, err error)
}

// Resolve returns the collection selected by dc. A habit title that matches
// no habit yields an empty collection, not an error.
func Resolve(ctx context.Context, src Source, dc Context) ([]note.Note, error) {
	if !dc.IsHabit() {
		return src.MainDiary(ctx)
	}
	notes, ok, err := src.HabitDiary(ctx, dc.HabitTitle)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return notes, nil
}
