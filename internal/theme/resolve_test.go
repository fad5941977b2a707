package theme

import (
	"testing"

	"github.com/marcus/habitdiary/internal/config"
	"github.com/marcus/habitdiary/internal/styles"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
		want string
	}{
		{name: "nil config", cfg: nil, want: "default"},
		{name: "defaults", cfg: config.Default(), want: "default"},
		{
			name: "light",
			cfg: func() *config.Config {
				c := config.Default()
				c.UI.Theme.Name = "light"
				return c
			}(),
			want: "light",
		},
		{
			name: "unknown falls back",
			cfg: func() *config.Config {
				c := config.Default()
				c.UI.Theme.Name = "solarized-neon"
				return c
			}(),
			want: "default",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.cfg).Name; got != tt.want {
				t.Errorf("Resolve().Name = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyMarkdownStyle(t *testing.T) {
	defer styles.ApplyTheme("default", nil)

	if got := Apply(Resolved{Name: "light"}); got != "light" {
		t.Errorf("Apply(light) markdown = %q, want light", got)
	}
	if styles.CurrentThemeName() != "light" {
		t.Errorf("current theme = %q", styles.CurrentThemeName())
	}
	if got := Apply(Resolved{Name: "default", Markdown: "notty"}); got != "notty" {
		t.Errorf("explicit markdown style = %q, want notty", got)
	}
}
