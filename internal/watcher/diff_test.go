package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/stylex/internal/catalogue"
	"github.com/zjrosen/stylex/internal/session"
	"github.com/zjrosen/stylex/internal/watcher"
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	m := session.NewManager(catalogue.Default())
	t.Cleanup(func() { m.Shutdown(context.Background()) })
	return m
}

func sessionSettings() session.Settings {
	return session.Settings{}
}

func applyEdits(text string, edits []session.Edit) string {
	for _, e := range edits {
		text = text[:e.Pos] + e.Insert + text[e.Pos+e.Delete:]
	}
	return text
}

func TestEdits(t *testing.T) {
	tests := []struct {
		name          string
		before, after string
		want          []session.Edit
	}{
		{name: "unchanged", before: "a\nb\n", after: "a\nb\n"},
		{name: "append", before: "a\n", after: "a\nb\n", want: []session.Edit{{Pos: 2, Insert: "b\n"}}},
		{name: "delete", before: "a\nb\nc\n", after: "a\nc\n", want: []session.Edit{{Pos: 2, Delete: 2}}},
		{name: "replace", before: "a\nb\nc\n", after: "a\nx\nc\n", want: []session.Edit{{Pos: 2, Delete: 2, Insert: "x\n"}}},
		{name: "from empty", before: "", after: "a", want: []session.Edit{{Pos: 0, Insert: "a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := watcher.Edits(tt.before, tt.after)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.after, applyEdits(tt.before, got))
		})
	}
}

func TestEdits_Reproduce(t *testing.T) {
	line := rapid.StringMatching(`[ab ]{0,4}`)
	text := rapid.Custom(func(t *rapid.T) string {
		return strings.Join(rapid.SliceOfN(line, 0, 12).Draw(t, "lines"), "\n")
	})
	rapid.Check(t, func(t *rapid.T) {
		before := text.Draw(t, "before")
		after := text.Draw(t, "after")
		if got := applyEdits(before, watcher.Edits(before, after)); got != after {
			t.Fatalf("edits turn %q into %q, want %q", before, got, after)
		}
	})
}

func TestSync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.lua")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\ny = 2\n"), 0644))

	m := newManager(t)
	s, err := m.Open(context.Background(), "lua", "x = 1\ny = 2\n", sessionSettings())
	require.NoError(t, err)

	r, err := watcher.Sync(context.Background(), s, path)
	require.NoError(t, err)
	require.Equal(t, -1, r.FirstLine, "nothing to restyle")

	require.NoError(t, os.WriteFile(path, []byte("x = 1\nlocal y = 2\n"), 0644))
	r, err = watcher.Sync(context.Background(), s, path)
	require.NoError(t, err)
	require.Equal(t, 1, r.FirstLine)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	require.Equal(t, "x = 1\nlocal y = 2\n", snap.Text)

	_, err = watcher.Sync(context.Background(), s, filepath.Join(t.TempDir(), "missing.lua"))
	require.Error(t, err)
}

func TestFollow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.lua")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0644))

	m := newManager(t)
	s, err := m.Open(context.Background(), "lua", "x = 1\n", sessionSettings())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	synced := make(chan session.Restyle, 8)
	cfg := watcher.Config{Path: path, Debounce: 20 * time.Millisecond}
	go func() {
		_ = watcher.Follow(ctx, s, cfg, func(r session.Restyle, err error) {
			if err != nil {
				return
			}
			select {
			case synced <- r:
			default:
			}
		})
	}()

	// Writes repeat until the watcher has registered and the sync landed.
	want := "x = 1\nlocal y\n"
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(want), 0644)
		select {
		case <-synced:
		case <-time.After(100 * time.Millisecond):
		}
		snap, err := s.Snapshot()
		return err == nil && snap.Text == want
	}, 3*time.Second, 10*time.Millisecond)
}
