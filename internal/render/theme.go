// Package render turns session snapshots into styled terminal text.
package render

import (
	"io"
	"maps"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/zjrosen/stylex/internal/config"
)

// Theme maps lexical class tags to lipgloss styles.
type Theme struct {
	r      *lipgloss.Renderer
	colors map[string]string
	margin string

	mu    sync.Mutex
	cache map[string]lipgloss.Style
}

// Option configures a Theme.
type Option func(*Theme)

// WithProfile forces the colour profile instead of detecting it from the
// output.
func WithProfile(p termenv.Profile) Option {
	return func(t *Theme) { t.r.SetColorProfile(p) }
}

// NewTheme creates a theme writing to w. The colour profile and background
// are detected from w unless cfg.Mode or WithProfile say otherwise.
func NewTheme(w io.Writer, cfg config.ThemeConfig, opts ...Option) *Theme {
	t := &Theme{
		r:      lipgloss.NewRenderer(w),
		colors: cfg.FlattenedColors(),
		margin: cfg.FoldMargin,
		cache:  map[string]lipgloss.Style{},
	}
	switch cfg.Mode {
	case "light":
		t.r.SetHasDarkBackground(false)
	case "dark":
		t.r.SetHasDarkBackground(true)
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Colors returns a copy of the tag to colour map.
func (t *Theme) Colors() map[string]string {
	return maps.Clone(t.colors)
}

// Lookup returns the colour key used for tags. Tags are tried as dotted
// prefixes from longest to shortest: "comment documentation line" tries
// "comment.documentation.line", "comment.documentation" then "comment".
// The empty string means no colour applies.
func (t *Theme) Lookup(tags string) string {
	fields := strings.Fields(tags)
	for n := len(fields); n > 0; n-- {
		key := strings.Join(fields[:n], ".")
		if _, ok := t.colors[key]; ok {
			return key
		}
	}
	return ""
}

// Style returns the style for a space separated tag list.
func (t *Theme) Style(tags string) lipgloss.Style {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.cache[tags]; ok {
		return s
	}
	s := t.r.NewStyle()
	if key := t.Lookup(tags); key != "" {
		s = s.Foreground(lipgloss.Color(t.colors[key]))
	}
	if strings.HasPrefix(tags, "error") {
		s = s.Underline(true)
	}
	t.cache[tags] = s
	return s
}

// MarginStyle is used for line numbers and fold markers.
func (t *Theme) MarginStyle() lipgloss.Style {
	s := t.r.NewStyle()
	if t.margin != "" {
		s = s.Foreground(lipgloss.Color(t.margin))
	}
	return s
}

// CursorStyle draws the viewer's current line marker.
func (t *Theme) CursorStyle() lipgloss.Style {
	return t.r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#0066BF", Dark: "#4FC1FF"})
}

// StatusStyle is used for the viewer's status bar.
func (t *Theme) StatusStyle() lipgloss.Style {
	return t.r.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"}).
		Background(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#3C3C3C"})
}
