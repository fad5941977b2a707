package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/habitdiary/internal/diary"
	"github.com/marcus/habitdiary/internal/note"
	"github.com/marcus/habitdiary/internal/store"
)

// diaryOptions select the diary a note command acts on.
type diaryOptions struct {
	habit string
}

func addDiaryFlag(cmd *cobra.Command, do *diaryOptions) {
	cmd.Flags().StringVar(&do.habit, "habit", "", "habit title (empty for the main diary)")
}

func addNoteCommands(topLevel *cobra.Command, ro *rootOptions) {
	addAddCmd(topLevel, ro)
	addListCmd(topLevel, ro)
	addEditCmd(topLevel, ro)
	addRmCmd(topLevel, ro)
	addPinCmd(topLevel, ro)
}

// withDispatcher opens the store and runs fn with a dispatcher bound to dc.
func withDispatcher(ro *rootOptions, dc diary.Context, fn func(ctx context.Context, d *diary.Dispatcher) error) error {
	st, err := ro.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	d := st.NewDispatcher(diary.StaticContext(dc),
		diary.WithMaxLength(ro.cfg.Diary.MaxNoteLength),
		diary.WithLogger(ro.cliLogger()))
	return fn(context.Background(), d)
}

func addAddCmd(topLevel *cobra.Command, ro *rootOptions) {
	do := &diaryOptions{}
	var streak int

	cmd := &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a note",
		Example: `
habitdiary add slept eight hours
habitdiary add --habit Running --streak 12 "5k in 27 minutes"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dc := diary.Context{HabitTitle: do.habit, CurrentStreak: streak}
			return withDispatcher(ro, dc, func(ctx context.Context, d *diary.Dispatcher) error {
				a, err := d.Create(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Note added: %s\n", note.FormatKey(a.NewNote.CreatedAt))
				return nil
			})
		},
	}
	addDiaryFlag(cmd, do)
	cmd.Flags().IntVar(&streak, "streak", 0, "current streak to record with the note")
	topLevel.AddCommand(cmd)
}

func addListCmd(topLevel *cobra.Command, ro *rootOptions) {
	do := &diaryOptions{}
	var (
		search   string
		sortName string
		pinned   bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the notes of a diary",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := note.ParseSortOrder(sortName)
			if err != nil {
				return err
			}
			st, err := ro.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			dc := diary.Context{HabitTitle: do.habit}
			notes, err := diary.Resolve(context.Background(), st, dc)
			if err != nil {
				return err
			}
			view := note.Query{Search: search, Order: order, PinnedOnly: pinned}.Apply(notes)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			printTitle(out, dc, len(view))
			printNotes(out, view, wrapWidth(os.Stdout))
			if len(notes) == 0 {
				printHint(out, dc.EmptyTitle())
			}
			return nil
		},
	}
	addDiaryFlag(cmd, do)
	cmd.Flags().StringVar(&search, "search", "", "only notes containing this text (case-insensitive)")
	cmd.Flags().StringVar(&sortName, "sort", "newest", "date order: newest or oldest")
	cmd.Flags().BoolVar(&pinned, "pinned", false, "only pinned notes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	topLevel.AddCommand(cmd)
}

func addEditCmd(topLevel *cobra.Command, ro *rootOptions) {
	do := &diaryOptions{}

	cmd := &cobra.Command{
		Use:   "edit <key> <text>...",
		Short: "Replace the text of a note",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := note.ParseKey(args[0])
			if err != nil {
				return fmt.Errorf("invalid key %q: %w", args[0], err)
			}
			text := strings.Join(args[1:], " ")
			return withDispatcher(ro, diary.Context{HabitTitle: do.habit}, func(ctx context.Context, d *diary.Dispatcher) error {
				if _, err := d.Edit(ctx, key, text); err != nil {
					return explain(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Note updated!")
				return nil
			})
		},
	}
	addDiaryFlag(cmd, do)
	topLevel.AddCommand(cmd)
}

func addRmCmd(topLevel *cobra.Command, ro *rootOptions) {
	do := &diaryOptions{}
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <key>",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := note.ParseKey(args[0])
			if err != nil {
				return fmt.Errorf("invalid key %q: %w", args[0], err)
			}
			return withDispatcher(ro, diary.Context{HabitTitle: do.habit}, func(ctx context.Context, d *diary.Dispatcher) error {
				pd := d.RequestDelete(key)
				confirmed := yes
				if !confirmed {
					fmt.Fprintf(cmd.OutOrStdout(), "Delete note %s? [y/N] ", note.FormatKey(key))
					confirmed = readYes(cmd.InOrStdin())
				}
				_, dispatched, err := d.ResolveDelete(ctx, pd, confirmed)
				if err != nil {
					return explain(err)
				}
				if dispatched {
					fmt.Fprintln(cmd.OutOrStdout(), "Note deleted")
				}
				return nil
			})
		},
	}
	addDiaryFlag(cmd, do)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	topLevel.AddCommand(cmd)
}

func addPinCmd(topLevel *cobra.Command, ro *rootOptions) {
	do := &diaryOptions{}

	cmd := &cobra.Command{
		Use:   "pin <key>",
		Short: "Pin or unpin a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := note.ParseKey(args[0])
			if err != nil {
				return fmt.Errorf("invalid key %q: %w", args[0], err)
			}
			return withDispatcher(ro, diary.Context{HabitTitle: do.habit}, func(ctx context.Context, d *diary.Dispatcher) error {
				if _, err := d.TogglePin(ctx, key); err != nil {
					return explain(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Pin toggled")
				return nil
			})
		},
	}
	addDiaryFlag(cmd, do)
	topLevel.AddCommand(cmd)
}

func readYes(r io.Reader) bool {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// explain turns store sentinels into messages that name the fix.
func explain(err error) error {
	switch {
	case errors.Is(err, store.ErrNoteNotFound):
		return fmt.Errorf("%w (list the diary to see note keys)", err)
	case errors.Is(err, store.ErrHabitNotFound):
		return fmt.Errorf("%w (see: habitdiary habits)", err)
	}
	return err
}
