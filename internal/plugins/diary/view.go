package diary

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/habitdiary/internal/editor"
	"github.com/marcus/habitdiary/internal/markdown"
	"github.com/marcus/habitdiary/internal/note"
	"github.com/marcus/habitdiary/internal/styles"
	"github.com/marcus/habitdiary/internal/ui"
)

const dateLayout = "2006-01-02 15:04"

// View renders the screen.
func (p *Plugin) View(width, height int) string {
	if width != p.width || height != p.height {
		p.width = width
		p.height = height
		p.resize()
	}

	content := p.renderView()
	if p.confirm != nil {
		content = ui.Overlay(content, p.confirm.View(), width, height)
	}

	// Constrain output to allocated height
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
}

func (p *Plugin) resize() {
	p.composer.SetWidth(max(10, p.width-4))
	p.composer.SetHeight(composerHeight)
	p.searchInput.Width = max(10, p.width-4)
	p.ensureCursorVisible()
}

func (p *Plugin) renderView() string {
	var b strings.Builder
	b.WriteString(p.renderHeader())
	if p.searchMode || p.searchTerm != "" {
		b.WriteString("\n")
		if p.searchMode {
			b.WriteString(p.searchInput.View())
		} else {
			b.WriteString(styles.Muted.Render("/ " + p.searchTerm))
		}
	}
	if p.editor != nil && p.editor.ComposerOpen() {
		b.WriteString("\n")
		b.WriteString(p.renderComposer())
	}
	b.WriteString("\n")
	b.WriteString(p.renderList())
	return b.String()
}

func (p *Plugin) renderHeader() string {
	dc := p.currentContext()
	title := styles.Title.Render(dc.Label())
	if dc.IsHabit() {
		title = styles.HabitAccent(dc.ColorIndex).Render(dc.Label())
		if dc.CurrentStreak > 0 {
			title += " " + styles.StreakBadge.Render(fmt.Sprintf("🔥 %d", dc.CurrentStreak))
		}
	}

	info := fmt.Sprintf(" · %d notes · %s first", len(p.notes), p.order)
	if p.pinnedOnly {
		info += " · pinned only"
	}
	return title + styles.Muted.Render(info)
}

func (p *Plugin) renderComposer() string {
	label := "New note"
	if p.editor.Mode() == editor.Editing {
		label = "Edit note"
	}
	if p.editor.Previewing() {
		label += " (preview)"
	}

	var body string
	if p.editor.Previewing() {
		body = strings.Join(p.previewLines(max(10, p.width-4)), "\n")
	} else {
		body = p.composer.View()
	}
	box := styles.PanelActive.Width(max(12, p.width-2)).Render(body)

	count := styles.Muted.Render(p.editor.CharCount())
	if len([]rune(p.editor.Buffer())) > p.editor.MaxLength() {
		count = lipgloss.NewStyle().Foreground(styles.Error).Render(p.editor.CharCount())
	}
	status := styles.Title.Render(label) + "  " + count
	if p.editor.Dictating() {
		status += "  " + lipgloss.NewStyle().Foreground(styles.Error).Render("● listening")
	}
	return status + "\n" + box
}

// previewLines renders the buffer through markdown, clipped to the
// composer height.
func (p *Plugin) previewLines(width int) []string {
	var lines []string
	if p.deps.Renderer != nil {
		lines = p.deps.Renderer.RenderContent(p.editor.Buffer(), width)
	} else {
		text := p.editor.Buffer()
		if strings.TrimSpace(text) == "" {
			text = markdown.Placeholder
		}
		lines = strings.Split(text, "\n")
	}
	if len(lines) > composerHeight {
		lines = lines[:composerHeight]
	}
	return lines
}

// listHeight is the number of rows left for notes.
func (p *Plugin) listHeight() int {
	h := p.height - 1
	if p.searchMode || p.searchTerm != "" {
		h--
	}
	if p.editor != nil && p.editor.ComposerOpen() {
		h -= composerHeight + 3
	}
	return h
}

func (p *Plugin) renderList() string {
	if p.loadErr != nil {
		return styles.ToastError.Render("Could not load notes: " + p.loadErr.Error())
	}
	if !p.loaded {
		return styles.Muted.Render("Loading...")
	}
	if len(p.notes) == 0 {
		return styles.Title.Render(p.currentContext().EmptyTitle()) + "\n" +
			styles.Muted.Render("Press n to add first note")
	}

	view := p.visible()
	if len(view) == 0 {
		return styles.Muted.Render("No notes match")
	}

	h := p.listHeight()
	if h < 1 {
		h = 1
	}
	end := min(len(view), p.scrollOff+h)
	rows := make([]string, 0, end-p.scrollOff)
	for i := p.scrollOff; i < end; i++ {
		rows = append(rows, p.renderRow(view[i], i == p.cursor))
	}
	return strings.Join(rows, "\n")
}

func (p *Plugin) renderRow(n note.Note, selected bool) string {
	cursor := "  "
	if selected {
		cursor = styles.ListCursor.Render("> ")
	}
	pin := "  "
	if n.Pinned {
		pin = styles.PinMarker.Render("★ ")
	}
	date := n.CreatedAt.Local().Format(dateLayout)
	prefix := cursor + pin + styles.Muted.Render(date) + " "
	used := 4 + len(date) + 1
	if n.HasStreak() {
		badge := fmt.Sprintf("🔥 %d", *n.Streak)
		prefix += styles.StreakBadge.Render(badge) + " "
		used += runewidth.StringWidth(badge) + 1
	}

	text := firstLine(n.Text)
	if avail := p.width - used; avail > 0 {
		text = runewidth.Truncate(text, avail, "…")
	}
	if selected {
		return prefix + styles.ListItemSelected.Render(text)
	}
	return prefix + styles.ListItemNormal.Render(text)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
