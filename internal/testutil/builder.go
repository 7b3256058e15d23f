// Package testutil lexes documents for tests and checks the properties every
// lexer must hold.
package testutil

import (
	"strings"
	"testing"

	"github.com/zjrosen/stylex/internal/document"
	"github.com/zjrosen/stylex/internal/lexer"
)

// Run is a small piece of text with one style.
type Run struct {
	Start int
	Text  string
	Style lexer.Style
}

// Result is a lexed and folded document.
type Result struct {
	Lexer lexer.Lexer
	Doc   *document.Buffer
}

// Builder accumulates a document and lexer settings and lexes them.
type Builder struct {
	t       *testing.T
	factory lexer.Factory
	text    strings.Builder
	opts    []DocOption
}

// NewBuilder creates a builder for lexers made by factory.
func NewBuilder(t *testing.T, factory lexer.Factory) *Builder {
	t.Helper()
	return &Builder{t: t, factory: factory}
}

// WithText appends text to the document.
func (b *Builder) WithText(text string) *Builder {
	b.text.WriteString(text)
	return b
}

// WithLines appends each line followed by a newline.
func (b *Builder) WithLines(lines ...string) *Builder {
	for _, line := range lines {
		b.text.WriteString(line)
		b.text.WriteByte('\n')
	}
	return b
}

// With adds document options.
func (b *Builder) With(opts ...DocOption) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Build lexes and folds the whole document.
func (b *Builder) Build() *Result {
	b.t.Helper()
	return Lex(b.factory, b.text.String(), b.opts...)
}

// Configure creates a lexer from factory with opts applied, and a buffer
// holding text.
func Configure(factory lexer.Factory, text string, opts ...DocOption) (lexer.Lexer, *document.Buffer) {
	cfg := docConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	lx := factory()
	for _, kv := range cfg.properties {
		lx.PropertySet(kv[0], kv[1])
	}
	for n, words := range cfg.keywords {
		lx.WordListSet(n, words)
	}
	for _, ss := range cfg.subStyles {
		start := lx.AllocateSubStyles(lexer.Style(ss.base), len(ss.identifiers))
		for i, ids := range ss.identifiers {
			lx.SetIdentifiers(lexer.Style(start+i), ids)
		}
	}
	doc := document.New(text)
	if cfg.codePage != 0 {
		doc.SetCodePage(cfg.codePage)
	}
	return lx, doc
}

// Lex lexes and folds text in one pass with a fresh lexer.
func Lex(factory lexer.Factory, text string, opts ...DocOption) *Result {
	lx, doc := Configure(factory, text, opts...)
	lx.Lex(0, doc.Length(), 0, doc)
	lx.Fold(0, doc.Length(), 0, doc)
	return &Result{Lexer: lx, Doc: doc}
}

// StyleAt returns the style of the byte at pos.
func (r *Result) StyleAt(pos int) lexer.Style {
	return lexer.Style(r.Doc.StyleAt(pos))
}

// StyleOf returns the style of the first byte of the first occurrence of
// substr, or -1 when substr does not occur.
func (r *Result) StyleOf(substr string) lexer.Style {
	return r.StyleOfNth(substr, 0)
}

// StyleOfNth is StyleOf for the n-th occurrence, counting from 0.
func (r *Result) StyleOfNth(substr string, n int) lexer.Style {
	text := r.Doc.Text()
	offset := 0
	for {
		i := strings.Index(text[offset:], substr)
		if i < 0 {
			return -1
		}
		if n == 0 {
			return r.StyleAt(offset + i)
		}
		n--
		offset += i + 1
	}
}

// Runs splits the document into maximal runs of one style.
func (r *Result) Runs() []Run {
	text := r.Doc.Text()
	styles := r.Doc.Styles()
	var runs []Run
	for i := 0; i < len(text); {
		j := i + 1
		for j < len(text) && styles[j] == styles[i] {
			j++
		}
		runs = append(runs, Run{Start: i, Text: text[i:j], Style: lexer.Style(styles[i])})
		i = j
	}
	return runs
}

// Level returns the fold level of line.
func (r *Result) Level(line int) lexer.FoldLevel {
	return r.Doc.Level(line)
}

// Depth returns the fold depth of line relative to LevelBase.
func (r *Result) Depth(line int) int {
	return r.Doc.Level(line).Number() - int(lexer.LevelBase)
}
