package session

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/stylex/internal/catalogue"
	"github.com/zjrosen/stylex/internal/document"
	"github.com/zjrosen/stylex/internal/lexer"
	"github.com/zjrosen/stylex/internal/log"
	"github.com/zjrosen/stylex/internal/pubsub"
	"github.com/zjrosen/stylex/internal/tracing"
)

// Restyle reports the lines a pass changed.
type Restyle struct {
	DocumentID string
	Language   string
	Version    uint64
	// FirstLine and LastLine bound the re-lexed lines, inclusive.
	FirstLine int
	LastLine  int
	// Converged is set when lexing stopped before the end of the document
	// because the state after the edit matched the previous pass.
	Converged bool
}

// Edit replaces Delete bytes at Pos with Insert.
type Edit struct {
	Pos    int
	Delete int
	Insert string
}

// Session is one open document with its own lexer instance. Calls are
// serialized.
type Session struct {
	mu      sync.Mutex
	id      string
	module  catalogue.Module
	lx      lexer.Lexer
	doc     *document.Buffer
	version uint64
	closed  bool

	tracer  trace.Tracer
	publish func(pubsub.EventType, Restyle)
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Language returns the module name.
func (s *Session) Language() string { return s.module.Name }

// Edit applies one edit and restyles.
func (s *Session) Edit(ctx context.Context, e Edit) (Restyle, error) {
	return s.Apply(ctx, []Edit{e})
}

// Apply applies edits in order, then restyles once from the first line
// any of them touched.
func (s *Session) Apply(ctx context.Context, edits []Edit) (r Restyle, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Restyle{}, ErrClosed
	}

	ctx, span := tracing.Start(ctx, s.tracer, tracing.SpanEdit, s.attrs(attribute.Int("stylex.edits", len(edits)))...)
	defer func() { tracing.End(span, err) }()

	if len(edits) == 0 {
		return Restyle{DocumentID: s.id, Language: s.module.Name, Version: s.version, FirstLine: -1, LastLine: -1}, nil
	}

	lo, hi := -1, -1
	for _, e := range edits {
		if e.Pos < 0 || e.Delete < 0 || e.Pos+e.Delete > s.doc.Length() {
			return Restyle{}, fmt.Errorf("edit at %d deleting %d: out of range for length %d", e.Pos, e.Delete, s.doc.Length())
		}
		if e.Delete > 0 {
			s.doc.Delete(e.Pos, e.Delete)
		}
		if e.Insert != "" {
			s.doc.Insert(e.Pos, e.Insert)
		}
		end := e.Pos + len(e.Insert)
		if lo < 0 {
			lo, hi = e.Pos, end
			continue
		}
		// Keep the touched range in current coordinates.
		if hi > e.Pos {
			hi = max(e.Pos, hi+len(e.Insert)-e.Delete)
		}
		lo, hi = min(lo, e.Pos), max(hi, end)
	}
	first, last := s.doc.LineFromPosition(lo), s.doc.LineFromPosition(hi)

	r = s.restyle(ctx, first, last, s.module.Converges)
	s.publish(pubsub.RestyledEvent, r)
	return r, nil
}

// Restyle re-lexes and re-folds the whole document.
func (s *Session) Restyle(ctx context.Context) (Restyle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Restyle{}, ErrClosed
	}
	r := s.restyle(ctx, 0, s.doc.LineCount()-1, false)
	s.publish(pubsub.RestyledEvent, r)
	return r, nil
}

// Reconfigure applies settings and restyles from the first position they
// affect. Nothing is restyled when no setting changed.
func (s *Session) Reconfigure(ctx context.Context, settings Settings) (r Restyle, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Restyle{}, ErrClosed
	}

	ctx, span := tracing.Start(ctx, s.tracer, tracing.SpanReconfigure, s.attrs()...)
	defer func() { tracing.End(span, err) }()

	codePageChanged := settings.CodePage != 0 && settings.CodePage != s.doc.CodePage()
	if codePageChanged {
		s.doc.SetCodePage(settings.CodePage)
	}
	pos := settings.apply(s.lx)
	if codePageChanged {
		pos = 0
	}
	if pos < 0 {
		log.Debug(log.CatSession, "reconfigure changed nothing", "id", s.id)
		return Restyle{DocumentID: s.id, Language: s.module.Name, Version: s.version, FirstLine: -1, LastLine: -1}, nil
	}

	line := s.doc.LineFromPosition(pos)
	r = s.restyle(ctx, line, s.doc.LineCount()-1, false)
	s.publish(pubsub.ReconfiguredEvent, r)
	return r, nil
}

// Snapshot is a consistent copy of a session's document.
type Snapshot struct {
	ID       string
	Language string
	Version  uint64
	Text     string
	CodePage int
	Styles   []byte
	Levels   []lexer.FoldLevel
	States   []int
	// Names and Tags describe every style number the lexer names.
	Names map[lexer.Style]string
	Tags  map[lexer.Style]string
}

// LineCount returns the number of lines in the snapshot.
func (s Snapshot) LineCount() int {
	return len(s.Levels)
}

// Snapshot copies the current text, styles and fold levels.
func (s *Session) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Snapshot{}, ErrClosed
	}
	snap := Snapshot{
		ID:       s.id,
		Language: s.module.Name,
		Version:  s.version,
		Text:     s.doc.Text(),
		CodePage: s.doc.CodePage(),
		Styles:   s.doc.Styles(),
		Levels:   s.doc.Levels(),
		States:   s.doc.LineStates(),
		Names:    map[lexer.Style]string{},
		Tags:     map[lexer.Style]string{},
	}
	for style := range lexer.Style(256) {
		named := style
		if s.lx.NameOfStyle(named) == "" {
			// Allocated sub-styles borrow their base style's name and tags.
			named = s.lx.StyleFromSubStyle(style)
		}
		if name := s.lx.NameOfStyle(named); name != "" {
			snap.Names[style] = name
			snap.Tags[style] = s.lx.TagsOfStyle(named)
		}
	}
	return snap, nil
}

// Property returns the current value of a lexer property.
func (s *Session) Property(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lx.PropertyGet(key)
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.publish(pubsub.ClosedEvent, Restyle{DocumentID: s.id, Language: s.module.Name, Version: s.version, FirstLine: -1, LastLine: -1})
}

func (s *Session) attrs(extra ...attribute.KeyValue) []attribute.KeyValue {
	return append([]attribute.KeyValue{
		attribute.String(tracing.AttrDocumentID, s.id),
		attribute.String(tracing.AttrLanguage, s.module.Name),
	}, extra...)
}
