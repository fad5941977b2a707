package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".config/habitdiary"
	configFile = "config.json"
	yamlFile   = "config.yaml"
)

// Environment overrides, applied after the file.
const (
	EnvDBPath       = "HABITDIARY_DB"
	EnvDriver       = "HABITDIARY_DRIVER"
	EnvDictationCmd = "HABITDIARY_DICTATION_CMD"
)

// rawConfig is the unmarshaling intermediary. Pointers distinguish unset
// values from zero values.
type rawConfig struct {
	Diary     rawDiaryConfig     `json:"diary" yaml:"diary"`
	Draft     rawDraftConfig     `json:"draft" yaml:"draft"`
	Dictation rawDictationConfig `json:"dictation" yaml:"dictation"`
	Keymap    KeymapConfig       `json:"keymap" yaml:"keymap"`
	UI        rawUIConfig        `json:"ui" yaml:"ui"`
}

type rawDiaryConfig struct {
	DBPath        string `json:"dbPath" yaml:"dbPath"`
	Driver        string `json:"driver" yaml:"driver"`
	DefaultSort   string `json:"defaultSort" yaml:"defaultSort"`
	MaxNoteLength *int   `json:"maxNoteLength" yaml:"maxNoteLength"`
}

type rawDraftConfig struct {
	Dir         string `json:"dir" yaml:"dir"`
	Slot        string `json:"slot" yaml:"slot"`
	QuietPeriod string `json:"quietPeriod" yaml:"quietPeriod"`
}

type rawDictationConfig struct {
	Command []string `json:"command" yaml:"command"`
	Lang    string   `json:"lang" yaml:"lang"`
}

type rawUIConfig struct {
	ShowFooter           *bool       `json:"showFooter" yaml:"showFooter"`
	ShowClock            *bool       `json:"showClock" yaml:"showClock"`
	DesktopNotifications *bool       `json:"desktopNotifications" yaml:"desktopNotifications"`
	Theme                ThemeConfig `json:"theme" yaml:"theme"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path. If path is empty,
// ~/.config/habitdiary/config.json is used, then config.yaml beside it.
// Files ending in .yaml or .yml are parsed as YAML.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if alt := filepath.Join(filepath.Dir(path), yamlFile); fileExists(alt) {
				path = alt
			}
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) || path == "":
		// Defaults
	case err != nil:
		return nil, err
	default:
		var raw rawConfig
		if isYAML(path) {
			err = yaml.Unmarshal(data, &raw)
		} else {
			err = json.Unmarshal(data, &raw)
		}
		if err != nil {
			return nil, err
		}
		mergeConfig(cfg, &raw)
	}

	applyEnv(cfg)

	cfg.Diary.DBPath = ExpandPath(cfg.Diary.DBPath)
	cfg.Draft.Dir = ExpandPath(cfg.Draft.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	// Diary
	if raw.Diary.DBPath != "" {
		cfg.Diary.DBPath = raw.Diary.DBPath
	}
	if raw.Diary.Driver != "" {
		cfg.Diary.Driver = raw.Diary.Driver
	}
	if raw.Diary.DefaultSort != "" {
		cfg.Diary.DefaultSort = strings.ToLower(raw.Diary.DefaultSort)
	}
	if raw.Diary.MaxNoteLength != nil {
		cfg.Diary.MaxNoteLength = *raw.Diary.MaxNoteLength
	}

	// Draft
	if raw.Draft.Dir != "" {
		cfg.Draft.Dir = raw.Draft.Dir
	}
	if raw.Draft.Slot != "" {
		cfg.Draft.Slot = raw.Draft.Slot
	}
	if raw.Draft.QuietPeriod != "" {
		if d, err := time.ParseDuration(raw.Draft.QuietPeriod); err == nil {
			cfg.Draft.QuietPeriod = d
		}
	}

	// Dictation
	if len(raw.Dictation.Command) > 0 {
		cfg.Dictation.Command = raw.Dictation.Command
	}
	if raw.Dictation.Lang != "" {
		cfg.Dictation.Lang = raw.Dictation.Lang
	}

	// Keymap
	for k, v := range raw.Keymap.Overrides {
		cfg.Keymap.Overrides[k] = v
	}

	// UI
	if raw.UI.ShowFooter != nil {
		cfg.UI.ShowFooter = *raw.UI.ShowFooter
	}
	if raw.UI.ShowClock != nil {
		cfg.UI.ShowClock = *raw.UI.ShowClock
	}
	if raw.UI.DesktopNotifications != nil {
		cfg.UI.DesktopNotifications = *raw.UI.DesktopNotifications
	}
	if raw.UI.Theme.Name != "" {
		cfg.UI.Theme.Name = raw.UI.Theme.Name
	}
	if raw.UI.Theme.Markdown != "" {
		cfg.UI.Theme.Markdown = raw.UI.Theme.Markdown
	}
	for k, v := range raw.UI.Theme.Overrides {
		cfg.UI.Theme.Overrides[k] = v
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.Diary.DBPath = v
	}
	if v := os.Getenv(EnvDriver); v != "" {
		cfg.Diary.Driver = v
	}
	if v := os.Getenv(EnvDictationCmd); v != "" {
		cfg.Dictation.Command = strings.Fields(v)
	}
}

// ExpandPath expands ~ to the home directory.
func ExpandPath(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// Dir returns the habitdiary config directory.
func Dir() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir)
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, configFile)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
