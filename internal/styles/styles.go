// Package styles holds the color palette and lipgloss styles of the TUI.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette. ApplyTheme replaces these and rebuilds the styles below.
var (
	Primary   = lipgloss.Color("#7C3AED")
	Secondary = lipgloss.Color("#3B82F6")
	Accent    = lipgloss.Color("#F59E0B")

	Success = lipgloss.Color("#10B981")
	Warning = lipgloss.Color("#F59E0B")
	Error   = lipgloss.Color("#EF4444")

	TextPrimary   = lipgloss.Color("#F9FAFB")
	TextSecondary = lipgloss.Color("#9CA3AF")
	TextMuted     = lipgloss.Color("#6B7280")

	BgSecondary = lipgloss.Color("#1F2937")
	BgTertiary  = lipgloss.Color("#374151")

	BorderNormal = lipgloss.Color("#374151")
	BorderActive = lipgloss.Color("#7C3AED")

	ToastSuccessText = lipgloss.Color("#000000")
	ToastErrorText   = lipgloss.Color("#FFFFFF")
)

// Styles built from the palette.
var (
	PanelActive   lipgloss.Style
	PanelInactive lipgloss.Style
	Title         lipgloss.Style
	Body          lipgloss.Style
	Muted         lipgloss.Style
	KeyHint       lipgloss.Style

	ListItemNormal   lipgloss.Style
	ListItemSelected lipgloss.Style
	ListCursor       lipgloss.Style
	PinMarker        lipgloss.Style
	StreakBadge      lipgloss.Style

	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style

	Footer lipgloss.Style
	Header lipgloss.Style

	ModalBox   lipgloss.Style
	ModalTitle lipgloss.Style

	Button              lipgloss.Style
	ButtonFocused       lipgloss.Style
	ButtonDanger        lipgloss.Style
	ButtonDangerFocused lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	PanelActive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderActive).
		Padding(0, 1)
	PanelInactive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderNormal).
		Padding(0, 1)

	Title = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	Body = lipgloss.NewStyle().Foreground(TextPrimary)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)
	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	ListItemNormal = lipgloss.NewStyle().Foreground(TextPrimary)
	ListItemSelected = lipgloss.NewStyle().Foreground(TextPrimary).Background(BgTertiary)
	ListCursor = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	PinMarker = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	StreakBadge = lipgloss.NewStyle().Foreground(Warning)

	ToastSuccess = lipgloss.NewStyle().
		Background(Success).
		Foreground(ToastSuccessText).
		Bold(true).
		Padding(0, 1)
	ToastError = lipgloss.NewStyle().
		Background(Error).
		Foreground(ToastErrorText).
		Bold(true).
		Padding(0, 1)

	Footer = lipgloss.NewStyle().Foreground(TextMuted).Background(BgSecondary)
	Header = lipgloss.NewStyle().Background(BgSecondary)

	ModalBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Background(BgSecondary).
		Padding(1, 2)
	ModalTitle = lipgloss.NewStyle().Foreground(TextPrimary).Bold(true).MarginBottom(1)

	Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgTertiary).
		Padding(0, 2)
	ButtonFocused = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary).
		Padding(0, 2).
		Bold(true)
	ButtonDanger = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FCA5A5")).
		Background(lipgloss.Color("#7F1D1D")).
		Padding(0, 2)
	ButtonDangerFocused = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#DC2626")).
		Padding(0, 2).
		Bold(true)
}
