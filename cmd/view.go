package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/zjrosen/stylex/internal/flags"
	"github.com/zjrosen/stylex/internal/log"
	"github.com/zjrosen/stylex/internal/pubsub"
	"github.com/zjrosen/stylex/internal/render"
	"github.com/zjrosen/stylex/internal/session"
	"github.com/zjrosen/stylex/internal/viewer"
	"github.com/zjrosen/stylex/internal/watcher"
)

var (
	viewFlags    docFlags
	viewWatch    bool
	viewNoMargin bool
)

var viewCmd = &cobra.Command{
	Use:   "view FILE",
	Short: "Preview a file in a scrollable viewer with collapsible folds",
	Long: `Open FILE in a full screen viewer. Fold headers can be collapsed with
enter or by clicking their marker; press ? for all keys.

With --watch the viewer follows the file and restyles as it is saved.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	viewFlags.register(viewCmd)
	viewCmd.Flags().BoolVarP(&viewWatch, "watch", "w", false, "follow the file as it changes")
	viewCmd.Flags().BoolVar(&viewNoMargin, "no-margin", false, "start without line numbers and fold markers (also flags.fold-margin: false)")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	path := args[0]
	if viewWatch && path == "-" {
		return errors.New("--watch needs a file, not standard input")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	s, err := openFile(ctx, cmd, path, viewFlags)
	if err != nil {
		return err
	}

	// Without --watch nothing restyles, so the viewer needs no events.
	var events pubsub.Subscriber[session.Restyle]
	if viewWatch {
		events = env.manager
		go func() {
			err := watcher.Follow(ctx, s, watcher.Config{Path: path, Debounce: cfg.Watch.Debounce}, nil)
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, session.ErrClosed) {
				log.ErrorErr(log.CatWatcher, "Following file stopped", err, "path", path)
			}
		}()
	}

	model, err := viewer.New(ctx, viewer.Config{
		Title:   filepath.Base(path),
		Session: s,
		Events:  events,
		Theme:   render.NewTheme(os.Stdout, cfg.Theme),
		Margin:  env.flags.Enabled(flags.FlagFoldMargin) && !viewNoMargin,
		Zone:    zone.New(),
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}
