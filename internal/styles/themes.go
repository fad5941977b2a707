package styles

import (
	"regexp"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var themeMu sync.RWMutex

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorPalette holds all theme colors as hex strings.
type ColorPalette struct {
	Primary          string `json:"primary"`
	Secondary        string `json:"secondary"`
	Accent           string `json:"accent"`
	Success          string `json:"success"`
	Warning          string `json:"warning"`
	Error            string `json:"error"`
	TextPrimary      string `json:"textPrimary"`
	TextSecondary    string `json:"textSecondary"`
	TextMuted        string `json:"textMuted"`
	BgSecondary      string `json:"bgSecondary"`
	BgTertiary       string `json:"bgTertiary"`
	BorderNormal     string `json:"borderNormal"`
	BorderActive     string `json:"borderActive"`
	ToastSuccessText string `json:"toastSuccessText"`
	ToastErrorText   string `json:"toastErrorText"`
	MarkdownTheme    string `json:"markdownTheme"`
}

// Theme is a named palette.
type Theme struct {
	Name        string
	DisplayName string
	Colors      ColorPalette
}

var (
	DefaultTheme = Theme{
		Name:        "default",
		DisplayName: "Default Dark",
		Colors: ColorPalette{
			Primary:          "#7C3AED",
			Secondary:        "#3B82F6",
			Accent:           "#F59E0B",
			Success:          "#10B981",
			Warning:          "#F59E0B",
			Error:            "#EF4444",
			TextPrimary:      "#F9FAFB",
			TextSecondary:    "#9CA3AF",
			TextMuted:        "#6B7280",
			BgSecondary:      "#1F2937",
			BgTertiary:       "#374151",
			BorderNormal:     "#374151",
			BorderActive:     "#7C3AED",
			ToastSuccessText: "#000000",
			ToastErrorText:   "#FFFFFF",
			MarkdownTheme:    "dark",
		},
	}

	LightTheme = Theme{
		Name:        "light",
		DisplayName: "Light",
		Colors: ColorPalette{
			Primary:          "#6D28D9",
			Secondary:        "#2563EB",
			Accent:           "#D97706",
			Success:          "#059669",
			Warning:          "#D97706",
			Error:            "#DC2626",
			TextPrimary:      "#111827",
			TextSecondary:    "#374151",
			TextMuted:        "#6B7280",
			BgSecondary:      "#F3F4F6",
			BgTertiary:       "#E5E7EB",
			BorderNormal:     "#D1D5DB",
			BorderActive:     "#6D28D9",
			ToastSuccessText: "#FFFFFF",
			ToastErrorText:   "#FFFFFF",
			MarkdownTheme:    "light",
		},
	}

	themeRegistry = map[string]Theme{
		DefaultTheme.Name: DefaultTheme,
		LightTheme.Name:   LightTheme,
	}
	currentTheme = DefaultTheme.Name
)

// IsValidHexColor reports whether hex is #RRGGBB or #RRGGBBAA.
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// ListThemes returns the registered theme names.
func ListThemes() []string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	names := make([]string, 0, len(themeRegistry))
	for n := range themeRegistry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// GetTheme returns the named theme, or the default for unknown names.
func GetTheme(name string) Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	if t, ok := themeRegistry[name]; ok {
		return t
	}
	return DefaultTheme
}

// CurrentThemeName returns the applied theme name.
func CurrentThemeName() string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// ApplyTheme applies a theme by name. Overrides map palette keys (JSON
// names) to hex colors; invalid entries are ignored.
func ApplyTheme(name string, overrides map[string]string) {
	theme := GetTheme(name)
	for k, v := range overrides {
		applySingleOverride(&theme.Colors, k, v)
	}

	themeMu.Lock()
	currentTheme = theme.Name
	themeMu.Unlock()

	c := theme.Colors
	Primary = lipgloss.Color(c.Primary)
	Secondary = lipgloss.Color(c.Secondary)
	Accent = lipgloss.Color(c.Accent)
	Success = lipgloss.Color(c.Success)
	Warning = lipgloss.Color(c.Warning)
	Error = lipgloss.Color(c.Error)
	TextPrimary = lipgloss.Color(c.TextPrimary)
	TextSecondary = lipgloss.Color(c.TextSecondary)
	TextMuted = lipgloss.Color(c.TextMuted)
	BgSecondary = lipgloss.Color(c.BgSecondary)
	BgTertiary = lipgloss.Color(c.BgTertiary)
	BorderNormal = lipgloss.Color(c.BorderNormal)
	BorderActive = lipgloss.Color(c.BorderActive)
	ToastSuccessText = lipgloss.Color(c.ToastSuccessText)
	ToastErrorText = lipgloss.Color(c.ToastErrorText)
	rebuildStyles()
}

func applySingleOverride(p *ColorPalette, key, value string) {
	if key == "markdownTheme" {
		if value != "" {
			p.MarkdownTheme = value
		}
		return
	}
	if !IsValidHexColor(value) {
		return
	}
	fields := map[string]*string{
		"primary":          &p.Primary,
		"secondary":        &p.Secondary,
		"accent":           &p.Accent,
		"success":          &p.Success,
		"warning":          &p.Warning,
		"error":            &p.Error,
		"textPrimary":      &p.TextPrimary,
		"textSecondary":    &p.TextSecondary,
		"textMuted":        &p.TextMuted,
		"bgSecondary":      &p.BgSecondary,
		"bgTertiary":       &p.BgTertiary,
		"borderNormal":     &p.BorderNormal,
		"borderActive":     &p.BorderActive,
		"toastSuccessText": &p.ToastSuccessText,
		"toastErrorText":   &p.ToastErrorText,
	}
	if f, ok := fields[key]; ok {
		*f = value
	}
}

// MarkdownTheme returns the glamour style for the applied theme.
func MarkdownTheme() string {
	return GetTheme(CurrentThemeName()).Colors.MarkdownTheme
}
