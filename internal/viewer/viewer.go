// Package viewer is a terminal preview of a styled document with
// collapsible folds that follows the document's restyle events.
package viewer

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/stylex/internal/keys"
	"github.com/zjrosen/stylex/internal/lexer"
	"github.com/zjrosen/stylex/internal/log"
	"github.com/zjrosen/stylex/internal/pubsub"
	"github.com/zjrosen/stylex/internal/render"
	"github.com/zjrosen/stylex/internal/session"
)

const (
	cursorMarker = "▸"
	wheelLines   = 3
)

// Config configures a viewer.
type Config struct {
	// Title is shown in the status bar, usually the file path.
	Title   string
	Session *session.Session
	// Events delivers restyles of Session. Nil disables live updates.
	Events pubsub.Subscriber[session.Restyle]
	Theme  *render.Theme
	// Margin shows line numbers and fold markers initially.
	Margin bool
	// Zone tracks clickable fold markers. A new manager is created if nil.
	Zone *zone.Manager
}

// Model is the viewer state.
type Model struct {
	title    string
	session  *session.Session
	listener *pubsub.Listener[session.Restyle]
	theme    *render.Theme
	keys     keys.KeyMap
	help     help.Model
	zone     *zone.Manager
	prefix   string

	doc      *render.Document
	folded   map[int]bool
	visible  []int
	cursor   int
	margin   bool
	showHelp bool
	status   string
	closed   bool

	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

// New creates a viewer over cfg.Session. Events are followed until ctx is
// done.
func New(ctx context.Context, cfg Config) (Model, error) {
	snap, err := cfg.Session.Snapshot()
	if err != nil {
		return Model{}, fmt.Errorf("viewer: %w", err)
	}
	z := cfg.Zone
	if z == nil {
		z = zone.New()
	}
	m := Model{
		title:   cfg.Title,
		session: cfg.Session,
		theme:   cfg.Theme,
		keys:    keys.DefaultKeyMap(),
		help:    help.New(),
		zone:    z,
		prefix:  z.NewPrefix(),
		folded:  map[int]bool{},
		margin:  cfg.Margin,
	}
	if cfg.Events != nil {
		m.listener = pubsub.NewListener(ctx, cfg.Events)
	}
	m.setDocument(render.NewDocument(snap))
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.listener == nil {
		return nil
	}
	return m.listener.Next()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case pubsub.Event[session.Restyle]:
		m = m.handleEvent(msg)
		if m.listener == nil || m.closed {
			return m, nil
		}
		return m, m.listener.Next()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.pageSize())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.pageSize())
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-len(m.visible))
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.visible))
	case key.Matches(msg, m.keys.NextFold):
		m.jumpFold(1)
	case key.Matches(msg, m.keys.PrevFold):
		m.jumpFold(-1)
	case key.Matches(msg, m.keys.ToggleFold):
		m.toggle(render.Enclosing(m.levels(), m.cursorLine()))
	case key.Matches(msg, m.keys.FoldAll):
		line := m.cursorLine()
		for _, h := range render.Headers(m.levels()) {
			m.folded[h] = true
		}
		m.refresh(line)
	case key.Matches(msg, m.keys.UnfoldAll):
		line := m.cursorLine()
		clear(m.folded)
		m.refresh(line)
	case key.Matches(msg, m.keys.ToggleMargin):
		m.margin = !m.margin
		m.render()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.layout()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if msg.Action == tea.MouseActionPress {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.moveCursor(-wheelLines)
			return m
		case tea.MouseButtonWheelDown:
			m.moveCursor(wheelLines)
			return m
		}
	}
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m
	}
	for _, line := range m.onScreen() {
		if z := m.zone.Get(m.foldZone(line)); z != nil && z.InBounds(msg) {
			m.toggle(line)
			return m
		}
	}
	return m
}

func (m Model) handleEvent(e pubsub.Event[session.Restyle]) Model {
	if e.Payload.DocumentID != m.session.ID() {
		return m
	}
	if e.Type == pubsub.ClosedEvent {
		m.closed = true
		m.status = "closed"
		return m
	}
	snap, err := m.session.Snapshot()
	if err != nil {
		log.Warn(log.CatUI, "snapshot failed", "id", e.Payload.DocumentID, "error", err)
		return m
	}
	line := m.cursorLine()
	m.setDocument(render.NewDocument(snap))
	m.status = fmt.Sprintf("%s lines %d-%d", e.Type, e.Payload.FirstLine+1, e.Payload.LastLine+1)
	log.Debug(log.CatUI, "document refreshed", "version", snap.Version, "first", e.Payload.FirstLine, "last", e.Payload.LastLine)
	m.refresh(line)
	return m
}

// setDocument replaces the document, dropping collapsed folds whose
// header is gone.
func (m *Model) setDocument(d *render.Document) {
	m.doc = d
	headers := render.Headers(d.Snapshot().Levels)
	maps.DeleteFunc(m.folded, func(line int, _ bool) bool {
		_, found := slices.BinarySearch(headers, line)
		return !found
	})
	m.visible = render.Visible(m.levels(), m.folded)
	m.cursor = min(m.cursor, len(m.visible)-1)
	m.render()
}

func (m Model) levels() []lexer.FoldLevel { return m.doc.Snapshot().Levels }

func (m *Model) toggle(header int) {
	if header < 0 {
		return
	}
	m.folded[header] = !m.folded[header]
	if !m.folded[header] {
		delete(m.folded, header)
	}
	m.refresh(header)
}

// refresh recomputes the visible lines and puts the cursor on line, or
// on the visible line folding it away.
func (m *Model) refresh(line int) {
	m.visible = render.Visible(m.levels(), m.folded)
	idx, found := slices.BinarySearch(m.visible, line)
	if !found && idx > 0 {
		idx--
	}
	m.cursor = min(idx, len(m.visible)-1)
	m.render()
	m.scrollToCursor()
}

func (m Model) cursorLine() int {
	if len(m.visible) == 0 {
		return 0
	}
	return m.visible[m.cursor]
}

func (m *Model) moveCursor(delta int) {
	m.cursor = max(0, min(m.cursor+delta, len(m.visible)-1))
	m.render()
	m.scrollToCursor()
}

func (m *Model) jumpFold(dir int) {
	levels := m.levels()
	for i := m.cursor + dir; i >= 0 && i < len(m.visible); i += dir {
		if render.FoldEnd(levels, m.visible[i]) > m.visible[i] {
			m.moveCursor(i - m.cursor)
			return
		}
	}
}

func (m Model) pageSize() int {
	return max(1, m.viewport.Height)
}

func (m *Model) scrollToCursor() {
	if !m.ready {
		return
	}
	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

// onScreen lists the document lines inside the viewport.
func (m Model) onScreen() []int {
	start := min(m.viewport.YOffset, len(m.visible))
	end := min(start+m.viewport.Height, len(m.visible))
	return m.visible[start:end]
}

func (m Model) foldZone(line int) string {
	return fmt.Sprintf("%sfold-%d", m.prefix, line)
}

func (m *Model) layout() {
	height := m.height - 1
	if m.showHelp {
		height -= lipgloss.Height(m.help.View(m.keys))
	}
	height = max(1, height)
	if !m.ready {
		m.viewport = viewport.New(m.width, height)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = height
	}
	m.help.Width = m.width
	m.render()
	m.scrollToCursor()
}

// render rebuilds the viewport content.
func (m *Model) render() {
	if !m.ready {
		return
	}
	numberWidth := render.NumberWidth(m.doc)
	avail := m.width - ansi.StringWidth(cursorMarker)
	if m.margin {
		avail -= render.MarginWidth(numberWidth)
	}
	levels := m.levels()

	lines := make([]string, len(m.visible))
	for i, line := range m.visible {
		var sb strings.Builder
		if i == m.cursor {
			sb.WriteString(m.theme.CursorStyle().Render(cursorMarker))
		} else {
			sb.WriteString(" ")
		}
		if m.margin {
			margin := m.theme.Margin(m.doc, line, numberWidth, m.folded[line])
			if render.FoldEnd(levels, line) > line {
				margin = m.zone.Mark(m.foldZone(line), margin)
			}
			sb.WriteString(margin)
		}
		sb.WriteString(ansi.Truncate(m.theme.Line(m.doc, line), max(0, avail), "…"))
		lines[i] = sb.String()
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}
	parts := []string{m.viewport.View(), m.statusBar()}
	if m.showHelp {
		parts = append(parts, m.help.View(m.keys))
	}
	return m.zone.Scan(strings.Join(parts, "\n"))
}

func (m Model) statusBar() string {
	snap := m.doc.Snapshot()
	left := fmt.Sprintf(" %s  %s  %d/%d", m.title, snap.Language, m.cursorLine()+1, m.doc.LineCount())
	if folds := len(m.folded); folds > 0 {
		left += fmt.Sprintf("  %d folded", folds)
	}
	right := m.status
	if !m.showHelp {
		right = strings.TrimSpace(right + "  ? help")
	}
	right += " "
	gap := max(1, m.width-ansi.StringWidth(left)-ansi.StringWidth(right))
	bar := ansi.Truncate(left+strings.Repeat(" ", gap)+right, m.width, "")
	return m.theme.StatusStyle().Render(bar)
}
