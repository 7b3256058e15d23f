package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/zjrosen/stylex/internal/log"
	"github.com/zjrosen/stylex/internal/session"
)

// Sync reads path and applies the difference from the session's text as
// one batch of edits. Nothing is restyled when the text is unchanged.
func Sync(ctx context.Context, s *session.Session, path string) (session.Restyle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return session.Restyle{}, fmt.Errorf("reading %s: %w", path, err)
	}
	snap, err := s.Snapshot()
	if err != nil {
		return session.Restyle{}, err
	}
	edits := Edits(snap.Text, string(data))
	log.Debug(log.CatWatcher, "file changed", "path", path, "edits", len(edits))
	return s.Apply(ctx, edits)
}

// Follow watches cfg.Path and syncs s on every change until ctx is done or
// the session closes. onSync, when set, receives the result of each sync.
func Follow(ctx context.Context, s *session.Session, cfg Config, onSync func(session.Restyle, error)) error {
	w, err := New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}
	log.Info(log.CatWatcher, "following file", "path", w.Path(), "session", s.ID())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changes:
			r, err := Sync(ctx, s, w.Path())
			if onSync != nil {
				onSync(r, err)
			}
			if err == nil {
				continue
			}
			if errors.Is(err, session.ErrClosed) {
				return err
			}
			log.Warn(log.CatWatcher, "sync failed", "path", w.Path(), "error", err)
		}
	}
}
