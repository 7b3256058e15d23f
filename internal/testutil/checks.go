package testutil

import (
	"bytes"
	"slices"
	"strings"

	"pgregory.net/rapid"

	"github.com/zjrosen/stylex/internal/document"
	"github.com/zjrosen/stylex/internal/lexer"
)

// CheckRestartFromLine lexes text fully, then restyles it again from a
// drawn line with Restart. Both passes must agree on styles and line state.
func CheckRestartFromLine(t *rapid.T, factory lexer.Factory, text string, opts ...DocOption) {
	t.Helper()
	full := Lex(factory, text, opts...)
	want := full.Doc.Styles()
	wantStates := full.Doc.LineStates()

	line := rapid.IntRange(0, full.Doc.LineCount()-1).Draw(t, "line")
	doc := Restart(factory, text, line, opts...).Doc

	if got := doc.Styles(); !bytes.Equal(got, want) {
		pos := firstDifference(got, want)
		t.Fatalf("restart at line %d (pos %d): styles differ at %d: got %d want %d in %q",
			line, doc.LineStart(line), pos, got[pos], want[pos], text)
	}
	if got := doc.LineStates(); !slices.Equal(got, wantStates) {
		t.Fatalf("restart at line %d: line states %v, full lex %v in %q", line, got, wantStates, text)
	}
}

// Restart lexes text fully, wipes styles and line state from line onwards
// and lexes again from that line's start with the style before it.
func Restart(factory lexer.Factory, text string, line int, opts ...DocOption) *Result {
	lx, doc := Configure(factory, text, opts...)
	lx.Lex(0, doc.Length(), 0, doc)

	start := doc.LineStart(line)
	doc.StartStyling(start)
	doc.SetStyleFor(doc.Length()-start, 0)
	for l := line; l < doc.LineCount(); l++ {
		doc.SetLineState(l, 0)
	}

	initStyle := lexer.Style(0)
	if start > 0 {
		initStyle = lexer.Style(doc.StyleAt(start - 1))
	}
	lx.Lex(start, doc.Length()-start, initStyle, doc)
	return &Result{Lexer: lx, Doc: doc}
}

// Tokens generates text joined from up to maxParts fragments, so constructs
// that need several characters in a row show up often.
func Tokens(fragments []string, maxParts int) *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		parts := rapid.SliceOfN(rapid.SampledFrom(fragments), 0, maxParts).Draw(t, "fragments")
		return strings.Join(parts, "")
	})
}

// CheckIncrementalEdit applies a drawn insertion to text, restyles from the
// edited line to the end and compares with a fresh full lex of the result.
func CheckIncrementalEdit(t *rapid.T, factory lexer.Factory, text string, insert *rapid.Generator[string], opts ...DocOption) {
	t.Helper()
	lx, doc := Configure(factory, text, opts...)
	lx.Lex(0, doc.Length(), 0, doc)

	pos := rapid.IntRange(0, doc.Length()).Draw(t, "pos")
	line := doc.Insert(pos, insert.Draw(t, "insert"))
	start := doc.LineStart(line)
	initStyle := lexer.Style(0)
	if start > 0 {
		initStyle = lexer.Style(doc.StyleAt(start - 1))
	}
	lx.Lex(start, doc.Length()-start, initStyle, doc)

	want := Lex(factory, doc.Text(), opts...).Doc.Styles()
	if got := doc.Styles(); !bytes.Equal(got, want) {
		i := firstDifference(got, want)
		t.Fatalf("edit at %d: styles differ at %d: got %d want %d in %q", pos, i, got[i], want[i], doc.Text())
	}
}

// CheckFoldContinuity asserts that for packed levels the next level of each
// folded line equals the level of the line after it.
func CheckFoldContinuity(t *rapid.T, doc *document.Buffer) {
	t.Helper()
	if doc.Length() == 0 {
		return
	}
	last := doc.LineFromPosition(doc.Length() - 1)
	for line := 0; line < last; line++ {
		if next, cur := doc.Level(line).Next(), doc.Level(line+1).Number(); next != cur {
			t.Fatalf("line %d: next level %#x but line %d has %#x in %q", line, next, line+1, cur, doc.Text())
		}
	}
}

// CheckHeaders asserts the header flag is set exactly on non-blank lines
// whose level is below the next line's packed level.
func CheckHeaders(t *rapid.T, doc *document.Buffer) {
	t.Helper()
	if doc.Length() == 0 {
		return
	}
	last := doc.LineFromPosition(doc.Length() - 1)
	for line := 0; line <= last; line++ {
		lev := doc.Level(line)
		if want := lev.Number() < lev.Next(); lev.IsHeader() != want {
			t.Fatalf("line %d: header %v with level %#x next %#x in %q", line, lev.IsHeader(), lev.Number(), lev.Next(), doc.Text())
		}
	}
}

// CheckStylesNamed asserts every style written is below the lexer's named
// style count, so no state leaks out as an unknown style.
func CheckStylesNamed(t *rapid.T, r *Result) {
	t.Helper()
	limit := r.Lexer.NamedStyles()
	for i, s := range r.Doc.Styles() {
		if int(s) >= limit {
			t.Fatalf("pos %d has style %d, lexer names %d styles, in %q", i, s, limit, r.Doc.Text())
		}
	}
}

func firstDifference(a, b []byte) int {
	for i := range min(len(a), len(b)) {
		if a[i] != b[i] {
			return i
		}
	}
	return min(len(a), len(b))
}
