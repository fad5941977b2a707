package config

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrInvalid wraps configuration validation failures.
var ErrInvalid = errors.New("invalid config")

// Config is the root configuration structure.
type Config struct {
	Diary     DiaryConfig     `json:"diary" yaml:"diary"`
	Draft     DraftConfig     `json:"draft" yaml:"draft"`
	Dictation DictationConfig `json:"dictation" yaml:"dictation"`
	Keymap    KeymapConfig    `json:"keymap" yaml:"keymap"`
	UI        UIConfig        `json:"ui" yaml:"ui"`
}

// DiaryConfig configures the diary store.
type DiaryConfig struct {
	DBPath        string `json:"dbPath" yaml:"dbPath"`
	Driver        string `json:"driver" yaml:"driver"` // "sqlite" (pure Go) or "sqlite3" (cgo)
	DefaultSort   string `json:"defaultSort" yaml:"defaultSort"`
	MaxNoteLength int    `json:"maxNoteLength" yaml:"maxNoteLength"`
}

// DraftConfig configures draft persistence.
type DraftConfig struct {
	Dir         string        `json:"dir" yaml:"dir"`
	Slot        string        `json:"slot" yaml:"slot"`
	QuietPeriod time.Duration `json:"quietPeriod" yaml:"quietPeriod"`
}

// DictationConfig configures the external transcriber.
type DictationConfig struct {
	Command []string `json:"command" yaml:"command"`
	Lang    string   `json:"lang" yaml:"lang"`
}

// KeymapConfig holds key binding overrides (command -> key).
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides" yaml:"overrides"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowFooter           bool        `json:"showFooter" yaml:"showFooter"`
	ShowClock            bool        `json:"showClock" yaml:"showClock"`
	DesktopNotifications bool        `json:"desktopNotifications" yaml:"desktopNotifications"`
	Theme                ThemeConfig `json:"theme" yaml:"theme"`
}

// ThemeConfig configures the color theme.
type ThemeConfig struct {
	Name      string            `json:"name" yaml:"name"`
	Markdown  string            `json:"markdown,omitempty" yaml:"markdown,omitempty"` // glamour style
	Overrides map[string]string `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Diary: DiaryConfig{
			DBPath:        "~/.config/habitdiary/diary.db",
			Driver:        "sqlite",
			DefaultSort:   "newest",
			MaxNoteLength: 500,
		},
		Draft: DraftConfig{
			Dir:         "~/.config/habitdiary/drafts",
			Slot:        "diaryDraft",
			QuietPeriod: 500 * time.Millisecond,
		},
		Dictation: DictationConfig{
			Lang: "en-US",
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		UI: UIConfig{
			ShowFooter: true,
			ShowClock:  true,
			Theme: ThemeConfig{
				Name:      "default",
				Overrides: make(map[string]string),
			},
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(&c.Diary,
		validation.Field(&c.Diary.DBPath, validation.Required),
		validation.Field(&c.Diary.Driver, validation.Required, validation.In("sqlite", "sqlite3")),
		validation.Field(&c.Diary.DefaultSort, validation.In("newest", "oldest")),
		validation.Field(&c.Diary.MaxNoteLength, validation.Required, validation.Min(1), validation.Max(10000)),
	)
	if err != nil {
		return fmt.Errorf("%w: diary: %v", ErrInvalid, err)
	}
	err = validation.ValidateStruct(&c.Draft,
		validation.Field(&c.Draft.Dir, validation.Required),
		validation.Field(&c.Draft.QuietPeriod, validation.Required,
			validation.Min(50*time.Millisecond), validation.Max(10*time.Second)),
	)
	if err != nil {
		return fmt.Errorf("%w: draft: %v", ErrInvalid, err)
	}
	if c.Draft.Slot == "" {
		c.Draft.Slot = "diaryDraft"
	}
	if c.Dictation.Lang == "" {
		c.Dictation.Lang = "en-US"
	}
	return nil
}
