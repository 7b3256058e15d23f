package session

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/stylex/internal/lexer"
	"github.com/zjrosen/stylex/internal/log"
	"github.com/zjrosen/stylex/internal/tracing"
)

// firstChunk is how many lines past the edit are lexed before checking
// whether the new pass has caught up with the previous one. Each further
// chunk doubles.
const firstChunk = 32

// restyle re-lexes from the start of line first. Lines up to last were
// edited. With mayConverge, lexing stops at a line boundary after last
// where the style and line state match what the previous pass left, as
// long as the lexer reported no state change beyond what it styled. The
// fold pass then runs from the line before first to the end of the
// document, since folders look one line ahead.
func (s *Session) restyle(ctx context.Context, first, last int, mayConverge bool) Restyle {
	doc := s.doc
	lineCount := doc.LineCount()
	first = max(0, min(first, lineCount-1))
	last = max(first, min(last, lineCount-1))

	ctx, span := tracing.Start(ctx, s.tracer, tracing.SpanRestyle, s.attrs(
		attribute.Int(tracing.AttrFirstLine, first),
		attribute.Int(tracing.AttrLineCount, lineCount),
	)...)
	defer span.End()

	var oldStyles []byte
	var oldStates []int
	if mayConverge {
		oldStyles, oldStates = doc.Styles(), doc.LineStates()
	}
	doc.TakeStale()

	start := doc.LineStart(first)
	pos := start
	endLine := min(lineCount, last+1+firstChunk)
	converged := false
	for chunk := firstChunk; ; chunk *= 2 {
		end := doc.Length()
		if endLine < lineCount {
			end = doc.LineStart(endLine)
		}
		s.lex(ctx, pos, end)
		if end >= doc.Length() {
			break
		}
		stale := doc.TakeStale()
		if len(stale) > 0 {
			span.AddEvent(tracing.EventStateChanged)
		} else if mayConverge {
			last := endLine - 1
			if doc.LineState(last) == oldStates[last] && doc.StyleAt(end-1) == oldStyles[end-1] {
				converged = true
				break
			}
		}
		pos = end
		endLine = min(lineCount, endLine+chunk)
	}
	lastLexed := lineCount - 1
	if converged {
		lastLexed = endLine - 1
	}

	s.fold(ctx, doc.LineStart(max(0, first-1)))

	s.version++
	span.SetAttributes(
		attribute.Int(tracing.AttrLastLine, lastLexed),
		attribute.Bool(tracing.AttrConverged, converged),
	)
	log.Debug(log.CatSession, "restyled", "id", s.id, "language", s.module.Name,
		"first", first, "last", lastLexed, "converged", converged, "version", s.version)

	return Restyle{
		DocumentID: s.id,
		Language:   s.module.Name,
		Version:    s.version,
		FirstLine:  first,
		LastLine:   lastLexed,
		Converged:  converged,
	}
}

func (s *Session) lex(ctx context.Context, start, end int) {
	_, span := tracing.Start(ctx, s.tracer, tracing.SpanLex, tracing.Range(start, end)...)
	defer span.End()
	s.lx.Lex(start, end-start, s.styleBefore(start), s.doc)
}

func (s *Session) fold(ctx context.Context, start int) {
	end := s.doc.Length()
	_, span := tracing.Start(ctx, s.tracer, tracing.SpanFold, tracing.Range(start, end)...)
	defer span.End()
	s.lx.Fold(start, end-start, s.styleBefore(start), s.doc)
}

func (s *Session) styleBefore(pos int) lexer.Style {
	if pos == 0 {
		return 0
	}
	return lexer.Style(s.doc.StyleAt(pos - 1))
}
