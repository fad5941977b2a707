package diary

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/marcus/habitdiary/internal/note"
)

// ActionType tags a store action.
type ActionType string

const (
	AddNote    ActionType = "addNote"
	EditNote   ActionType = "editNote"
	DeleteNote ActionType = "deleteNote"
	TogglePin  ActionType = "togglePin"
)

// Action is one record of the dispatch protocol. HabitTitle is set only
// for habit-scoped actions.
type Action struct {
	Type             ActionType `json:"type"`
	HabitTitle       string     `json:"habitTitle,omitempty"`
	NewNote          *note.Note `json:"newNote,omitempty"`
	NoteCreationDate *time.Time `json:"noteCreationDate,omitempty"`
	NewText          *string    `json:"newText,omitempty"`
}

// Scoped reports whether the action targets a habit diary.
func (a Action) Scoped() bool {
	return a.HabitTitle != ""
}

// Key returns the identity key the action addresses.
func (a Action) Key() time.Time {
	switch {
	case a.NoteCreationDate != nil:
		return *a.NoteCreationDate
	case a.NewNote != nil:
		return a.NewNote.CreatedAt
	}
	return time.Time{}
}

// Validate checks that the payload matches the action type.
func (a Action) Validate() error {
	switch a.Type {
	case AddNote:
		if a.NewNote == nil {
			return fmt.Errorf("%s: missing newNote", a.Type)
		}
	case EditNote:
		if a.NoteCreationDate == nil || a.NewText == nil {
			return fmt.Errorf("%s: missing noteCreationDate or newText", a.Type)
		}
	case DeleteNote, TogglePin:
		if a.NoteCreationDate == nil {
			return fmt.Errorf("%s: missing noteCreationDate", a.Type)
		}
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	return nil
}

// String renders the action as its JSON record, for logs.
func (a Action) String() string {
	b, err := json.Marshal(a)
	if err != nil {
		return string(a.Type)
	}
	return string(b)
}

func keyed(t ActionType, habit string, key time.Time) Action {
	k := key
	return Action{Type: t, HabitTitle: habit, NoteCreationDate: &k}
}
