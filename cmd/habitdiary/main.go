package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/marcus/habitdiary/internal/config"
	"github.com/marcus/habitdiary/internal/store"
	"github.com/marcus/habitdiary/internal/version"
)

// Version is set at build time via ldflags
var Version = ""

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	debug      bool

	cfg *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	ro := &rootOptions{}
	to := &tuiOptions{}

	cmd := &cobra.Command{
		Use:          "habitdiary",
		Short:        "A diary for your habits, in the terminal.",
		Version:      version.Effective(Version),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(ro.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			ro.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			to.habitSet = cmd.Flags().Changed("habit")
			return runTUI(ro, to)
		},
	}

	cmd.PersistentFlags().StringVar(&ro.configPath, "config", "", "path to config file")
	cmd.PersistentFlags().BoolVar(&ro.debug, "debug", false, "enable debug logging")
	addTUIFlags(cmd, to)

	addNoteCommands(cmd, ro)
	addHabitCommands(cmd, ro)
	addMCPCommand(cmd, ro)
	addConfigCommand(cmd, ro)
	addVersionCommand(cmd)
	return cmd
}

// cliLogger logs to stderr for one-shot commands.
func (ro *rootOptions) cliLogger() *slog.Logger {
	level := slog.LevelWarn
	if ro.debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// tuiLogger keeps the terminal clean while the TUI runs. With --debug,
// logs go to debug.log in the config directory.
func (ro *rootOptions) tuiLogger() (*slog.Logger, func(), error) {
	if !ro.debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	dir := config.Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}

func (ro *rootOptions) dbPath() string {
	return config.ExpandPath(ro.cfg.Diary.DBPath)
}

func (ro *rootOptions) openStore() (*store.Store, error) {
	st, err := store.Open(ro.cfg.Diary.Driver, ro.dbPath())
	if err != nil {
		return nil, fmt.Errorf("open diary: %w", err)
	}
	return st, nil
}
