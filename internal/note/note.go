// Package note defines the diary note entity and the derived list view.
package note

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxTextLength is the longest note text accepted on create.
const MaxTextLength = 500

// KeyLayout is the textual form of a note identity key.
const KeyLayout = "2006-01-02T15:04:05.000Z07:00"

// Note is a single timestamped diary entry.
// CreatedAt is the identity key and never changes after creation.
type Note struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"date"`
	Streak    *int      `json:"streak,omitempty"`
	Pinned    bool      `json:"pinned"`
}

// Key returns the note's identity key.
func (n Note) Key() time.Time {
	return n.CreatedAt
}

// Matches reports whether the note is identified by key.
func (n Note) Matches(key time.Time) bool {
	return n.CreatedAt.Equal(key)
}

// HasStreak reports whether a streak snapshot was recorded.
func (n Note) HasStreak() bool {
	return n.Streak != nil
}

// FormatKey renders an identity key for CLI and tool output.
func FormatKey(key time.Time) string {
	return key.UTC().Format(KeyLayout)
}

// ParseKey parses a key produced by FormatKey. Plain RFC3339 values are accepted too.
func ParseKey(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(KeyLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// StreakSnapshot converts the context streak to the stored optional.
// Zero and negative values are treated as no streak.
func StreakSnapshot(current int) *int {
	if current <= 0 {
		return nil
	}
	v := current
	return &v
}

// ValidateText checks text for creation: 1..max characters after trimming.
func ValidateText(text string, max int) error {
	if max <= 0 {
		max = MaxTextLength
	}
	return validation.Validate(strings.TrimSpace(text),
		validation.Required.Error("note cannot be empty"),
		validation.RuneLength(1, max).Error("note is too long"),
	)
}

// ClampForDisplay returns the rune count shown in the counter, capped at max.
// The buffer itself is never truncated.
func ClampForDisplay(text string, max int) int {
	if max <= 0 {
		max = MaxTextLength
	}
	n := len([]rune(text))
	if n > max {
		return max
	}
	return n
}

// Find returns the note in notes identified by key.
func Find(notes []Note, key time.Time) (Note, bool) {
	for _, n := range notes {
		if n.Matches(key) {
			return n, true
		}
	}
	return Note{}, false
}

// Contains reports whether a note with key exists in notes.
func Contains(notes []Note, key time.Time) bool {
	_, ok := Find(notes, key)
	return ok
}
