package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/marcus/habitdiary/internal/mcpserver"
	"github.com/marcus/habitdiary/internal/store"
	"github.com/marcus/habitdiary/internal/version"
)

func addMCPCommand(topLevel *cobra.Command, ro *rootOptions) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "mcp",
		Short: "Serve the diaries to MCP clients over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runMCP(ctx, ro)
		},
	})
}

func runMCP(ctx context.Context, ro *rootOptions) error {
	logger := ro.cliLogger()
	st, err := ro.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	srv := mcpserver.New(st, version.Effective(Version), ro.cfg.Diary.MaxNoteLength, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The session ends when the client closes stdin.
		defer cancel()
		return srv.Listen(gCtx, os.Stdin, os.Stdout)
	})

	w, err := store.Watch(ro.dbPath(), logger)
	if err != nil {
		logger.Warn("db watcher unavailable", "err", err)
	} else {
		g.Go(func() error {
			defer w.Close()
			for {
				select {
				case <-gCtx.Done():
					return nil
				case _, ok := <-w.Changes():
					if !ok {
						return nil
					}
					srv.NotifyChanged()
				}
			}
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
