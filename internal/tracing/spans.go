package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanOpen        = "session.open"
	SpanEdit        = "session.edit"
	SpanRestyle     = "session.restyle"
	SpanReconfigure = "session.reconfigure"
	SpanLex         = "lexer.lex"
	SpanFold        = "lexer.fold"
)

// Attribute keys.
const (
	AttrDocumentID = "stylex.document.id"
	AttrLanguage   = "stylex.language"
	AttrStartPos   = "stylex.range.start"
	AttrEndPos     = "stylex.range.end"
	AttrFirstLine  = "stylex.line.first"
	AttrLastLine   = "stylex.line.last"
	AttrLineCount  = "stylex.line.count"
	AttrConverged  = "stylex.converged"
	AttrProperty   = "stylex.property"
	AttrWordList   = "stylex.wordlist"
)

// Span events.
const (
	EventStateChanged = "lexer.state_changed"
	EventChunk        = "lexer.chunk"
)

// Range returns the attributes of a byte range.
func Range(start, end int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrStartPos, start),
		attribute.Int(AttrEndPos, end),
	}
}

// Start begins an internal span.
func Start(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal), trace.WithAttributes(attrs...))
}

// End records err on span, if any, and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
