package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zjrosen/stylex/internal/log"
	"github.com/zjrosen/stylex/internal/presentation"
	"github.com/zjrosen/stylex/internal/session"
	"github.com/zjrosen/stylex/internal/watcher"
)

var (
	watchFlags docFlags
	watchJSON  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Print restyle events as a file changes",
	Long: `Lex FILE, then follow it on disk. Every save is turned into edits and
re-lexed incrementally; each resulting restyle is printed with the range
of lines that changed and whether lexing converged early.

Example:
  stylex watch main.lua          # Ctrl+C to stop
  stylex watch --json main.lua | jq .last_line`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchFlags.register(watchCmd)
	watchCmd.Flags().BoolVar(&watchJSON, "json", false, "one JSON object per event")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	if path == "-" {
		return errors.New("watch needs a file, not standard input")
	}

	// Handle shutdown signals
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openFile(ctx, cmd, path, watchFlags)
	if err != nil {
		return err
	}
	events := env.manager.Subscribe(ctx)

	// Follow the file in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Follow(ctx, s, watcher.Config{Path: path, Debounce: cfg.Watch.Debounce}, nil)
	}()

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s as %s. Press Ctrl+C to stop\n", path, s.Language())
	formatter := presentation.NewFormatter(cmd.OutOrStdout())

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, session.ErrClosed) {
				return nil
			}
			return fmt.Errorf("following %s: %w", path, err)
		case e, ok := <-events:
			if !ok {
				return nil
			}
			if e.Payload.DocumentID != s.ID() {
				continue
			}
			dto := presentation.FromEvent(e)
			if watchJSON {
				err = formatter.FormatEvent(dto)
			} else {
				err = formatter.FormatEventText(dto)
			}
			if err != nil {
				log.ErrorErr(log.CatCLI, "Writing event failed", err)
				return err
			}
		}
	}
}
