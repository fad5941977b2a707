package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/marcus/habitdiary/internal/diary"
	"github.com/marcus/habitdiary/internal/note"
	"github.com/marcus/habitdiary/internal/store"
)

const textIndent = 4

var (
	titleColor  = color.New(color.Bold, color.Underline)
	faintColor  = color.New(color.Faint)
	keyColor    = color.New(color.FgHiYellow, color.Faint)
	pinColor    = color.New(color.FgYellow, color.Bold)
	streakColor = color.New(color.FgRed)
)

// wrapWidth returns the wrap width for f, or 0 when f is not a terminal.
func wrapWidth(f *os.File) int {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return 80
	}
	return 0
}

func printTitle(w io.Writer, dc diary.Context, count int) {
	titleColor.Fprint(w, dc.Label())
	switch count {
	case 1:
		faintColor.Fprintln(w, " - 1 note")
	default:
		faintColor.Fprintf(w, " - %d notes\n", count)
	}
}

func printHint(w io.Writer, title string) {
	faintColor.Fprintf(w, "%s. Add the first note with: habitdiary add <text>\n", title)
}

// printNotes writes each note as a header line followed by its indented
// text, wrapped at width when width > 0.
func printNotes(w io.Writer, notes []note.Note, width int) {
	if len(notes) == 0 {
		faintColor.Fprint(w, " none\n\n")
		return
	}
	for _, n := range notes {
		marker := " "
		if n.Pinned {
			marker = pinColor.Sprint("★")
		}
		fmt.Fprintf(w, "%s %s", marker, keyColor.Sprint(note.FormatKey(n.CreatedAt)))
		if n.Streak != nil {
			fmt.Fprintf(w, " %s", streakColor.Sprintf("🔥 %d", *n.Streak))
		}
		fmt.Fprintln(w)

		text := n.Text
		if width > textIndent {
			text = wordwrap.String(text, width-textIndent)
		}
		fmt.Fprintln(w, indent.String(text, textIndent))
	}
	fmt.Fprintln(w)
}

func printHabits(w io.Writer, habits []store.Habit) {
	if len(habits) == 0 {
		faintColor.Fprintln(w, "No habits yet. Add one with: habitdiary habit add <title>")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(titleColor.Sprint("Habit"), titleColor.Sprint("Color"), titleColor.Sprint("Notes"), titleColor.Sprint("Since"))
	for _, h := range habits {
		tbl.AddRow(h.Title, h.ColorIndex, h.NoteCount, h.CreatedAt.Local().Format("2006-01-02"))
	}
	fmt.Fprintln(w, tbl)
}
