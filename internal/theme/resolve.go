// Package theme turns the configured theme into applied styles.
package theme

import (
	"github.com/marcus/habitdiary/internal/config"
	"github.com/marcus/habitdiary/internal/styles"
)

// Resolved is the effective theme configuration.
type Resolved struct {
	Name      string
	Markdown  string // glamour style; empty follows the palette
	Overrides map[string]string
}

// Resolve determines the effective theme. Unknown names fall back to
// "default".
func Resolve(cfg *config.Config) Resolved {
	r := Resolved{Name: "default"}
	if cfg == nil {
		return r
	}
	t := cfg.UI.Theme
	if t.Name != "" && hasTheme(t.Name) {
		r.Name = t.Name
	}
	r.Markdown = t.Markdown
	r.Overrides = t.Overrides
	return r
}

// Apply applies r to the styles package and returns the glamour style to
// render previews with.
func Apply(r Resolved) string {
	styles.ApplyTheme(r.Name, r.Overrides)
	if r.Markdown != "" {
		return r.Markdown
	}
	return styles.MarkdownTheme()
}

func hasTheme(name string) bool {
	for _, n := range styles.ListThemes() {
		if n == name {
			return true
		}
	}
	return false
}
