package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveTo_PreservesUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	initial := []byte(`{"customKey": "should survive", "diary": {"driver": "sqlite3"}}`)
	if err := os.WriteFile(path, initial, 0644); err != nil {
		t.Fatal(err)
	}

	if err := SaveTo(Default(), path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal saved config: %v", err)
	}
	if _, ok := raw["customKey"]; !ok {
		t.Error("SaveTo() deleted 'customKey'")
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	for _, name := range []string{"config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := Default()
			cfg.Diary.DBPath = filepath.Join(t.TempDir(), "d.db")
			cfg.Draft.Dir = t.TempDir()
			cfg.Draft.QuietPeriod = 750 * time.Millisecond
			cfg.Keymap.Overrides["submit"] = "ctrl+enter"

			if err := SaveTo(cfg, path); err != nil {
				t.Fatalf("SaveTo failed: %v", err)
			}
			got, err := LoadFrom(path)
			if err != nil {
				t.Fatalf("LoadFrom failed: %v", err)
			}
			if got.Draft.QuietPeriod != 750*time.Millisecond {
				t.Errorf("quietPeriod = %v", got.Draft.QuietPeriod)
			}
			if got.Keymap.Overrides["submit"] != "ctrl+enter" {
				t.Errorf("overrides = %v", got.Keymap.Overrides)
			}
			if got.Diary.DBPath != cfg.Diary.DBPath {
				t.Errorf("dbPath = %q", got.Diary.DBPath)
			}
		})
	}
}
