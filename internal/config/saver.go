package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// saveConfig is the marshaling intermediary that uses string durations.
type saveConfig struct {
	Diary     DiaryConfig     `json:"diary" yaml:"diary"`
	Draft     saveDraftConfig `json:"draft" yaml:"draft"`
	Dictation DictationConfig `json:"dictation" yaml:"dictation"`
	Keymap    KeymapConfig    `json:"keymap" yaml:"keymap"`
	UI        UIConfig        `json:"ui" yaml:"ui"`
}

type saveDraftConfig struct {
	Dir         string `json:"dir" yaml:"dir"`
	Slot        string `json:"slot,omitempty" yaml:"slot,omitempty"`
	QuietPeriod string `json:"quietPeriod" yaml:"quietPeriod"`
}

func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Diary: cfg.Diary,
		Draft: saveDraftConfig{
			Dir:         cfg.Draft.Dir,
			Slot:        cfg.Draft.Slot,
			QuietPeriod: cfg.Draft.QuietPeriod.String(),
		},
		Dictation: cfg.Dictation,
		Keymap:    cfg.Keymap,
		UI:        cfg.UI,
	}
}

// Save writes the config to ~/.config/habitdiary/config.json.
func Save(cfg *Config) error {
	return SaveTo(cfg, ConfigPath())
}

// SaveTo writes the config to path. For JSON files, top-level keys this
// package does not manage are preserved.
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	sc := toSaveConfig(cfg)

	if isYAML(path) {
		data, err := yaml.Marshal(sc)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0644)
	}

	merged := map[string]json.RawMessage{}
	if existing, err := os.ReadFile(path); err == nil {
		// Ignore a corrupt file; it is replaced below.
		_ = json.Unmarshal(existing, &merged)
	}
	managed, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(managed, &fields); err != nil {
		return err
	}
	for k, v := range fields {
		merged[k] = v
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
