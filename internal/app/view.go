package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/habitdiary/internal/keymap"
	"github.com/marcus/habitdiary/internal/plugin"
	"github.com/marcus/habitdiary/internal/styles"
)

const (
	headerHeight = 2 // header line + spacing
	footerHeight = 1
	minWidth     = 40
	minHeight    = 12
)

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show warning if terminal is too small
	if m.width < minWidth || m.height < minHeight {
		msg := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d",
			m.width, m.height, minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.Muted.Render(msg))
	}

	// Calculate content area
	contentHeight := m.height - headerHeight
	if m.showFooter {
		contentHeight -= footerHeight
	}
	if contentHeight < 0 {
		contentHeight = 0
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderContent(m.width, contentHeight))
	if m.showFooter {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}
	return b.String()
}

func (m Model) renderHeader() string {
	title := styles.Title.Render(" Habit Diary")
	if m.currentVersion != "" {
		title += styles.Muted.Render(" " + m.currentVersion)
	}

	right := ""
	if m.cfg.UI.ShowClock {
		right = styles.Muted.Render(m.clock.Format("15:04"))
	}

	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(right) - 1
	if spacing < 0 {
		spacing = 0
	}
	return styles.Header.Width(m.width).Render(title + strings.Repeat(" ", spacing) + right + " ")
}

func (m Model) renderContent(width, height int) string {
	p := m.ActivePlugin()
	if p == nil {
		msg := "No diary loaded"
		for id, reason := range m.registry.Unavailable() {
			msg = fmt.Sprintf("%s unavailable: %s", id, reason)
			break
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, styles.Muted.Render(msg))
	}
	if height == 0 {
		return ""
	}
	content := p.View(width, height)
	// MaxHeight truncates content that exceeds allocated space.
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
}

// renderFooter renders the bottom bar with key hints and status.
func (m Model) renderFooter() string {
	var status string
	if m.statusMsg != "" {
		toastStyle := styles.ToastSuccess
		if m.statusIsError {
			toastStyle = styles.ToastError
		}
		status = toastStyle.Render(m.statusMsg)
	}

	statusWidth := lipgloss.Width(status)
	hints := renderHintLineTruncated(m.footerHints(), m.width-statusWidth-2)
	spacing := m.width - lipgloss.Width(hints) - statusWidth
	if spacing < 0 {
		spacing = 0
	}

	footer := hints + strings.Repeat(" ", spacing) + status
	// MaxWidth prevents wrapping
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(footer)
}

type footerHint struct {
	keys  string
	label string
}

func (m Model) footerHints() []footerHint {
	p := m.ActivePlugin()
	if p == nil {
		return nil
	}
	return m.pluginFooterHints(p)
}

func (m Model) pluginFooterHints(p plugin.Plugin) []footerHint {
	type cmdWithPriority struct {
		cmd      plugin.Command
		keys     []string
		priority int
	}

	var cmds []cmdWithPriority
	for _, cmd := range p.Commands() {
		keys := m.keymap.KeysFor(cmd.ID, cmd.Context)
		if len(keys) == 0 {
			continue
		}
		priority := cmd.Priority
		if priority == 0 {
			priority = 99 // Default to low priority
		}
		cmds = append(cmds, cmdWithPriority{cmd, keys, priority})
	}

	// Lower priority values are shown first
	sort.SliceStable(cmds, func(i, j int) bool {
		return cmds[i].priority < cmds[j].priority
	})

	hints := make([]footerHint, 0, len(cmds))
	for _, c := range cmds {
		hints = append(hints, footerHint{keys: strings.Join(c.keys, "/"), label: c.cmd.Name})
	}
	if keys := m.keymap.KeysFor(keymap.CmdQuit, keymap.ContextGlobal); len(keys) > 0 && m.activeContext != keymap.ContextList {
		hints = append(hints, footerHint{keys: keys[0], label: "Quit"})
	}
	return hints
}

// renderHintLineTruncated renders hints but stops adding when maxWidth is
// exceeded. A first hint wider than maxWidth is cut with an ellipsis.
func renderHintLineTruncated(hints []footerHint, maxWidth int) string {
	if len(hints) == 0 || maxWidth <= 0 {
		return ""
	}
	var result string
	separator := "  "
	for _, hint := range hints {
		if hint.keys == "" || hint.label == "" {
			continue
		}
		part := fmt.Sprintf("%s %s", styles.KeyHint.Render(hint.keys), hint.label)
		candidate := part
		if result != "" {
			candidate = result + separator + part
		}
		if lipgloss.Width(candidate) > maxWidth {
			if result == "" {
				result = ansi.Truncate(part, maxWidth, "…")
			}
			break
		}
		result = candidate
	}
	return result
}
