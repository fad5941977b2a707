package note

import (
	"strings"
	"testing"
	"time"
)

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace", "   \n\t", true},
		{"single char", "x", false},
		{"padded", "  ok  ", false},
		{"at limit", strings.Repeat("a", MaxTextLength), false},
		{"over limit", strings.Repeat("a", MaxTextLength+1), true},
		{"limit after trim", "  " + strings.Repeat("a", MaxTextLength) + "  ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.text, MaxTextLength)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClampForDisplay(t *testing.T) {
	if got := ClampForDisplay("héllo", 500); got != 5 {
		t.Errorf("ClampForDisplay() = %d, want 5", got)
	}
	long := strings.Repeat("b", 620)
	if got := ClampForDisplay(long, 500); got != 500 {
		t.Errorf("ClampForDisplay() = %d, want 500", got)
	}
	if len(long) != 620 {
		t.Error("buffer was modified")
	}
}

func TestStreakSnapshot(t *testing.T) {
	if StreakSnapshot(0) != nil {
		t.Error("zero streak should be omitted")
	}
	if StreakSnapshot(-2) != nil {
		t.Error("negative streak should be omitted")
	}
	s := StreakSnapshot(7)
	if s == nil || *s != 7 {
		t.Errorf("StreakSnapshot(7) = %v", s)
	}
}

func TestKeyRoundTrip(t *testing.T) {
	key := time.Date(2025, 5, 4, 12, 30, 15, 123000000, time.UTC)
	got, err := ParseKey(FormatKey(key))
	if err != nil {
		t.Fatalf("ParseKey() error = %v", err)
	}
	if !got.Equal(key) {
		t.Errorf("ParseKey() = %v, want %v", got, key)
	}
	if _, err := ParseKey("yesterday"); err == nil {
		t.Error("expected error for invalid key")
	}
}

func TestFind(t *testing.T) {
	notes := sample()
	n, ok := Find(notes, at(20))
	if !ok || n.Text != "Skipped the GYM" {
		t.Errorf("Find() = %+v, %v", n, ok)
	}
	if Contains(notes, at(99)) {
		t.Error("Contains() reported missing key")
	}
}
