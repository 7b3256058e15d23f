// Package session hosts open documents: each session pairs a document
// buffer with its own lexer instance and keeps styles and fold levels
// current as the document is edited.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/stylex/internal/cachemanager"
	"github.com/zjrosen/stylex/internal/catalogue"
	"github.com/zjrosen/stylex/internal/document"
	"github.com/zjrosen/stylex/internal/flags"
	"github.com/zjrosen/stylex/internal/log"
	"github.com/zjrosen/stylex/internal/modeline"
	"github.com/zjrosen/stylex/internal/pubsub"
	"github.com/zjrosen/stylex/internal/tracing"
)

var (
	// ErrNotFound is returned for an id with no open session.
	ErrNotFound = errors.New("session not found")
	// ErrClosed is returned by calls on a closed or expired session.
	ErrClosed = errors.New("session closed")
)

// Manager opens sessions and closes them when idle for longer than the
// session ttl.
type Manager struct {
	catalogue *catalogue.Catalogue
	sessions  *cachemanager.InMemoryCacheManager[string, *Session]
	broker    *pubsub.Broker[Restyle]
	tracer    trace.Tracer
	flags     *flags.Registry
	ttl       time.Duration
	cleanup   time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithTracer records spans with t.
func WithTracer(t trace.Tracer) Option {
	return func(m *Manager) { m.tracer = t }
}

// WithFlags supplies the feature flags; modelines are read when
// flags.FlagModelines is on.
func WithFlags(r *flags.Registry) Option {
	return func(m *Manager) { m.flags = r }
}

// WithTTL closes sessions idle for ttl, checking every cleanup interval.
func WithTTL(ttl, cleanup time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
		m.cleanup = cleanup
	}
}

// NewManager creates a manager for the languages in c.
func NewManager(c *catalogue.Catalogue, opts ...Option) *Manager {
	m := &Manager{
		catalogue: c,
		broker:    pubsub.NewBroker[Restyle](),
		tracer:    noop.NewTracerProvider().Tracer("stylex"),
		ttl:       cachemanager.DefaultExpiration,
		cleanup:   cachemanager.DefaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.sessions = cachemanager.NewInMemoryCacheManager[string, *Session]("sessions", m.ttl, m.cleanup)
	m.sessions.OnEvicted(func(id string, s *Session) {
		log.Debug(log.CatSession, "session closed", "id", id)
		s.close()
	})
	return m
}

// Open creates a session for text, lexes and folds it in full and returns
// it. Settings apply first, then any modeline in text.
func (m *Manager) Open(ctx context.Context, language, text string, settings Settings) (s *Session, err error) {
	ctx, span := tracing.Start(ctx, m.tracer, tracing.SpanOpen,
		attribute.String(tracing.AttrLanguage, language),
		attribute.Int(tracing.AttrEndPos, len(text)))
	defer func() { tracing.End(span, err) }()

	module, err := m.catalogue.Lookup(language)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	s = &Session{
		id:      uuid.NewString(),
		module:  module,
		lx:      module.New(),
		doc:     document.New(text),
		tracer:  m.tracer,
		publish: m.broker.Publish,
	}
	if settings.CodePage != 0 {
		s.doc.SetCodePage(settings.CodePage)
	}
	settings.apply(s.lx)

	if m.flags.Enabled(flags.FlagModelines) {
		ml, err := modeline.Find(text)
		if err != nil {
			log.Warn(log.CatSession, "ignoring modeline", "language", module.Name, "error", err)
		} else if !ml.Empty() {
			FromModeline(ml).apply(s.lx)
		}
	}

	s.mu.Lock()
	r := s.restyle(ctx, 0, s.doc.LineCount()-1, false)
	s.mu.Unlock()

	m.sessions.Set(ctx, s.id, s, m.ttl)
	log.Info(log.CatSession, "session opened", "id", s.id, "language", module.Name, "lines", s.doc.LineCount())
	m.broker.Publish(pubsub.RestyledEvent, r)
	return s, nil
}

// Get returns the open session id and restarts its idle timer.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	s, ok := m.sessions.GetWithRefresh(ctx, id, m.ttl)
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return s, nil
}

// Close closes session id.
func (m *Manager) Close(ctx context.Context, id string) error {
	if _, err := m.Get(ctx, id); err != nil {
		return err
	}
	return m.sessions.Delete(ctx, id)
}

// Edit applies edits to session id.
func (m *Manager) Edit(ctx context.Context, id string, edits ...Edit) (Restyle, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return Restyle{}, err
	}
	return s.Apply(ctx, edits)
}

// Restyle re-lexes session id in full.
func (m *Manager) Restyle(ctx context.Context, id string) (Restyle, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return Restyle{}, err
	}
	return s.Restyle(ctx)
}

// Reconfigure changes the lexer settings of session id.
func (m *Manager) Reconfigure(ctx context.Context, id string, settings Settings) (Restyle, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return Restyle{}, err
	}
	return s.Reconfigure(ctx, settings)
}

// Subscribe delivers restyle events of every session.
func (m *Manager) Subscribe(ctx context.Context) <-chan pubsub.Event[Restyle] {
	return m.broker.Subscribe(ctx)
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	return len(m.sessions.Items())
}

// Shutdown closes every session and the event stream.
func (m *Manager) Shutdown(ctx context.Context) {
	for id := range m.sessions.Items() {
		_ = m.sessions.Delete(ctx, id)
	}
	m.broker.Close()
}
