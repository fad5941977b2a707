package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/marcus/habitdiary/internal/app"
	"github.com/marcus/habitdiary/internal/config"
	"github.com/marcus/habitdiary/internal/diary"
	"github.com/marcus/habitdiary/internal/dictation"
	"github.com/marcus/habitdiary/internal/draft"
	"github.com/marcus/habitdiary/internal/keymap"
	"github.com/marcus/habitdiary/internal/markdown"
	"github.com/marcus/habitdiary/internal/notify"
	"github.com/marcus/habitdiary/internal/plugin"
	diaryplugin "github.com/marcus/habitdiary/internal/plugins/diary"
	"github.com/marcus/habitdiary/internal/state"
	"github.com/marcus/habitdiary/internal/store"
	"github.com/marcus/habitdiary/internal/theme"
	"github.com/marcus/habitdiary/internal/version"
)

type tuiOptions struct {
	habit    string
	habitSet bool
	color    int
	streak   int
}

func addTUIFlags(cmd *cobra.Command, to *tuiOptions) {
	cmd.Flags().StringVar(&to.habit, "habit", "", "open the diary of this habit (empty for the main diary; defaults to the last one opened)")
	cmd.Flags().IntVar(&to.color, "color", -1, "accent color index (defaults to the habit's color)")
	cmd.Flags().IntVar(&to.streak, "streak", 0, "current streak recorded with new notes")
}

func runTUI(ro *rootOptions, to *tuiOptions) error {
	cfg := ro.cfg
	logger, closeLog, err := ro.tuiLogger()
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	defer closeLog()

	mdStyle := theme.Apply(theme.Resolve(cfg))

	st, err := ro.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var changes <-chan struct{}
	if w, err := store.Watch(ro.dbPath(), logger); err != nil {
		logger.Warn("db watcher unavailable", "err", err)
	} else {
		defer w.Close()
		changes = w.Changes()
	}

	prefs, err := state.Open(config.Dir(), cfg.Diary.DefaultSort)
	if err != nil {
		logger.Warn("state load failed", "err", err)
	}

	dc, err := resolveContext(st, prefs, to)
	if err != nil {
		return err
	}

	drafts := draft.NewManager(
		draft.NewDiskSlot(config.ExpandPath(cfg.Draft.Dir), cfg.Draft.Slot),
		cfg.Draft.QuietPeriod, logger)

	recognizers := dictation.NewRegistry()
	recognizers.Register(dictation.CapabilityCommand, &dictation.CommandRecognizer{
		Argv:   cfg.Dictation.Command,
		Logger: logger,
	})
	opts := dictation.DefaultOptions()
	opts.Lang = cfg.Dictation.Lang
	session := dictation.NewSession(recognizers, dictation.CapabilityCommand, opts, logger)

	renderer, err := markdown.NewRenderer(mdStyle)
	if err != nil {
		logger.Warn("markdown renderer unavailable", "style", mdStyle, "err", err)
	}

	km := keymap.NewRegistry()
	km.ApplyOverrides(cfg.Keymap.Overrides)

	registry := plugin.NewRegistry(&plugin.Context{
		ConfigDir: config.Dir(),
		Config:    cfg,
		Keymap:    km,
		Logger:    logger,
	})
	if err := registry.Register(diaryplugin.New(dc, diaryplugin.Deps{
		Backend:   st,
		Drafts:    drafts,
		Dictation: session,
		Renderer:  renderer,
		Prefs:     prefs,
		Changes:   changes,
	})); err != nil {
		return err
	}

	notifier := notify.New(cfg.UI.DesktopNotifications, "Habit Diary", logger)
	model := app.New(registry, km, cfg, notifier, version.Effective(Version))
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// resolveContext picks the diary to open: the --habit flag when given,
// otherwise the last habit opened.
func resolveContext(st *store.Store, prefs *state.Store, to *tuiOptions) (diary.Context, error) {
	title := to.habit
	if !to.habitSet && prefs != nil {
		title = prefs.Get().LastHabit
	}
	dc := diary.Context{HabitTitle: title, CurrentStreak: to.streak}
	if dc.IsHabit() {
		h, ok, err := st.Habit(context.Background(), title)
		if err != nil {
			return diary.Context{}, err
		}
		if ok {
			dc.ColorIndex = h.ColorIndex
		}
	}
	if to.color >= 0 {
		dc.ColorIndex = to.color
	}
	if prefs != nil {
		if err := prefs.SetLastHabit(dc.HabitTitle); err != nil {
			return diary.Context{}, fmt.Errorf("save state: %w", err)
		}
	}
	return dc, nil
}
