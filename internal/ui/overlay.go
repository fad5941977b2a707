// Package ui provides shared UI components and helpers for the TUI.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DimStyle greys out the content behind a dialog. Existing ANSI codes are
// stripped first since faint does not combine reliably with other colors.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// Overlay centers box over a dimmed copy of background.
func Overlay(background, box string, width, height int) string {
	bg := strings.Split(background, "\n")
	for len(bg) < height {
		bg = append(bg, "")
	}
	fg := strings.Split(box, "\n")

	boxW := widest(fg)
	left := max(0, (width-boxW)/2)
	top := max(0, (height-len(fg))/2)

	out := make([]string, height)
	for y := 0; y < height; y++ {
		plain := ansi.Strip(bg[y])
		row := y - top
		if row < 0 || row >= len(fg) {
			out[y] = DimStyle.Render(plain)
			continue
		}
		out[y] = splice(plain, fg[row], left, boxW)
	}
	return strings.Join(out, "\n")
}

// splice writes line into plain at column x, dimming what remains visible.
func splice(plain, line string, x, w int) string {
	var b strings.Builder
	plainW := ansi.StringWidth(plain)

	head := ansi.Truncate(plain, x, "")
	b.WriteString(DimStyle.Render(head))
	if pad := x - ansi.StringWidth(head); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(line)
	if pad := w - ansi.StringWidth(line); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	if tail := x + w; tail < plainW {
		b.WriteString(DimStyle.Render(ansi.Cut(plain, tail, plainW)))
	}
	return b.String()
}

func widest(lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, ansi.StringWidth(l))
	}
	return w
}
