package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/marcus/habitdiary/internal/styles"
)

// Dialog widths.
const (
	ModalWidthSmall  = 36
	ModalWidthMedium = 50
)

// ConfirmDialog is a two-button confirmation box. Cancel has focus first
// so a stray enter never confirms.
type ConfirmDialog struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	Danger       bool
	Width        int

	confirmFocused bool
}

// NewConfirmDialog creates a dialog with default labels.
func NewConfirmDialog(title, message string) *ConfirmDialog {
	return &ConfirmDialog{
		Title:        title,
		Message:      message,
		ConfirmLabel: " Confirm ",
		CancelLabel:  " Cancel ",
		Width:        ModalWidthMedium,
	}
}

// SwitchFocus moves focus to the other button.
func (d *ConfirmDialog) SwitchFocus() {
	d.confirmFocused = !d.confirmFocused
}

// ConfirmFocused reports whether enter would confirm.
func (d *ConfirmDialog) ConfirmFocused() bool {
	return d.confirmFocused
}

// View renders the dialog box.
func (d *ConfirmDialog) View() string {
	inner := d.Width - 6
	if inner < 10 {
		inner = 10
	}

	confirm, cancel := styles.Button, styles.Button
	if d.Danger {
		confirm = styles.ButtonDanger
	}
	if d.confirmFocused {
		confirm = styles.ButtonFocused
		if d.Danger {
			confirm = styles.ButtonDangerFocused
		}
	} else {
		cancel = styles.ButtonFocused
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render(d.Title))
	b.WriteString("\n")
	b.WriteString(wordwrap.String(d.Message, inner))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		confirm.Render(d.ConfirmLabel), "  ", cancel.Render(d.CancelLabel)))
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("y confirm · n cancel · tab switch"))

	box := styles.ModalBox
	if d.Danger {
		box = box.BorderForeground(styles.Error)
	}
	return box.Width(d.Width - 2).Render(b.String())
}
