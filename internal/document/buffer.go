// Package document provides an in-memory text buffer that hosts lexers:
// it stores bytes, one style per byte, and per-line state and fold levels,
// and keeps them aligned across edits.
package document

import (
	"slices"
	"sort"

	"github.com/zjrosen/stylex/internal/lexer"
)

// CodePageUTF8 is the default code page of a Buffer.
const CodePageUTF8 = 65001

// Span is a half-open byte range.
type Span struct {
	Start int
	End   int
}

// Buffer implements lexer.Document. It is not safe for concurrent use.
type Buffer struct {
	text       []byte
	styles     []byte
	lineStarts []int
	lineStates []int
	levels     []lexer.FoldLevel
	indicators map[int][]int
	codePage   int

	styleCursor int
	endStyled   int
	stale       []Span
}

var _ lexer.Document = (*Buffer)(nil)

// New returns a UTF-8 buffer holding text, unstyled.
func New(text string) *Buffer {
	b := &Buffer{
		text:       []byte(text),
		styles:     make([]byte, len(text)),
		codePage:   CodePageUTF8,
		indicators: map[int][]int{},
	}
	b.lineStarts = computeLineStarts(b.text)
	b.lineStates = make([]int, len(b.lineStarts))
	b.levels = make([]lexer.FoldLevel, len(b.lineStarts))
	for i := range b.levels {
		b.levels[i] = lexer.LevelBase
	}
	return b
}

// computeLineStarts finds line starts after LF, CR and CRLF line ends.
func computeLineStarts(text []byte) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		case '\n':
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (b *Buffer) Length() int { return len(b.text) }

func (b *Buffer) CharRange(dst []byte, pos int) int {
	if pos < 0 || pos >= len(b.text) {
		return 0
	}
	return copy(dst, b.text[pos:])
}

func (b *Buffer) CodePage() int { return b.codePage }

// SetCodePage changes how multi-byte characters are decoded. 0 means
// single-byte text.
func (b *Buffer) SetCodePage(codePage int) {
	b.codePage = codePage
}

func (b *Buffer) StyleAt(pos int) byte {
	if pos < 0 || pos >= len(b.styles) {
		return 0
	}
	return b.styles[pos]
}

func (b *Buffer) StartStyling(pos int) {
	b.styleCursor = max(0, min(pos, len(b.text)))
}

func (b *Buffer) SetStyleFor(length int, style byte) {
	end := min(b.styleCursor+length, len(b.styles))
	for i := b.styleCursor; i < end; i++ {
		b.styles[i] = style
	}
	b.styleCursor = end
	b.endStyled = max(b.endStyled, end)
}

func (b *Buffer) SetStyles(styles []byte) {
	n := copy(b.styles[b.styleCursor:], styles)
	b.styleCursor += n
	b.endStyled = max(b.endStyled, b.styleCursor)
}

// EndStyled is the position up to which styles are valid.
func (b *Buffer) EndStyled() int { return b.endStyled }

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int { return len(b.lineStarts) }

func (b *Buffer) LineFromPosition(pos int) int {
	if pos <= 0 {
		return 0
	}
	return sort.SearchInts(b.lineStarts, pos+1) - 1
}

func (b *Buffer) LineStart(line int) int {
	if line <= 0 {
		return 0
	}
	if line >= len(b.lineStarts) {
		return len(b.text)
	}
	return b.lineStarts[line]
}

func (b *Buffer) LineEnd(line int) int {
	if line >= len(b.lineStarts)-1 {
		return len(b.text)
	}
	if line < 0 {
		line = 0
	}
	end := b.lineStarts[line+1]
	if end > 0 && b.text[end-1] == '\n' {
		end--
		if end > b.lineStarts[line] && b.text[end-1] == '\r' {
			end--
		}
	} else if end > 0 && b.text[end-1] == '\r' {
		end--
	}
	return end
}

func (b *Buffer) Level(line int) lexer.FoldLevel {
	if line < 0 || line >= len(b.levels) {
		return lexer.LevelBase
	}
	return b.levels[line]
}

func (b *Buffer) SetLevel(line int, level lexer.FoldLevel) {
	if line >= 0 && line < len(b.levels) {
		b.levels[line] = level
	}
}

func (b *Buffer) LineState(line int) int {
	if line < 0 || line >= len(b.lineStates) {
		return 0
	}
	return b.lineStates[line]
}

func (b *Buffer) SetLineState(line, state int) {
	if line >= 0 && line < len(b.lineStates) {
		b.lineStates[line] = state
	}
}

func (b *Buffer) ChangeLexerState(start, end int) {
	b.stale = append(b.stale, Span{Start: start, End: end})
}

// TakeStale returns and clears the ranges reported by ChangeLexerState.
func (b *Buffer) TakeStale() []Span {
	s := b.stale
	b.stale = nil
	return s
}

func (b *Buffer) FillIndicator(indicator, pos, length, value int) {
	values, ok := b.indicators[indicator]
	if !ok {
		values = make([]int, len(b.text))
		b.indicators[indicator] = values
	}
	end := min(pos+length, len(values))
	for i := max(pos, 0); i < end; i++ {
		values[i] = value
	}
}

// Indicator returns the value of indicator at pos.
func (b *Buffer) Indicator(indicator, pos int) int {
	values := b.indicators[indicator]
	if pos < 0 || pos >= len(values) {
		return 0
	}
	return values[pos]
}

// Text returns the whole document.
func (b *Buffer) Text() string { return string(b.text) }

// Line returns line n including its line end.
func (b *Buffer) Line(n int) string {
	return string(b.text[b.LineStart(n):b.LineStart(n+1)])
}

// Styles returns a copy of the style bytes.
func (b *Buffer) Styles() []byte { return slices.Clone(b.styles) }

// Levels returns a copy of the fold levels.
func (b *Buffer) Levels() []lexer.FoldLevel { return slices.Clone(b.levels) }

// LineStates returns a copy of the line states.
func (b *Buffer) LineStates() []int { return slices.Clone(b.lineStates) }

// Insert adds text at pos and returns the first line that needs restyling.
// Lines created by the insert inherit the state and level of the line the
// insert happened in.
func (b *Buffer) Insert(pos int, text string) int {
	pos = max(0, min(pos, len(b.text)))
	line := b.LineFromPosition(pos)
	before := len(b.lineStarts)

	b.text = slices.Insert(b.text, pos, []byte(text)...)
	b.styles = slices.Insert(b.styles, pos, make([]byte, len(text))...)
	for id, values := range b.indicators {
		b.indicators[id] = slices.Insert(values, pos, make([]int, len(text))...)
	}
	b.lineStarts = computeLineStarts(b.text)

	if added := len(b.lineStarts) - before; added > 0 {
		states := make([]int, added)
		levels := make([]lexer.FoldLevel, added)
		for i := range added {
			states[i] = b.lineStates[line]
			levels[i] = b.levels[line]
		}
		b.lineStates = slices.Insert(b.lineStates, line+1, states...)
		b.levels = slices.Insert(b.levels, line+1, levels...)
	}
	b.endStyled = min(b.endStyled, b.LineStart(line))
	return line
}

// Delete removes n bytes at pos and returns the first line that needs
// restyling.
func (b *Buffer) Delete(pos, n int) int {
	pos = max(0, min(pos, len(b.text)))
	n = max(0, min(n, len(b.text)-pos))
	line := b.LineFromPosition(pos)
	before := len(b.lineStarts)

	b.text = slices.Delete(b.text, pos, pos+n)
	b.styles = slices.Delete(b.styles, pos, pos+n)
	for id, values := range b.indicators {
		b.indicators[id] = slices.Delete(values, pos, pos+n)
	}
	b.lineStarts = computeLineStarts(b.text)

	if removed := before - len(b.lineStarts); removed > 0 {
		b.dropLines(line, removed)
	}
	b.endStyled = min(b.endStyled, b.LineStart(line))
	return line
}

func (b *Buffer) dropLines(line, count int) {
	end := min(line+1+count, len(b.lineStates))
	b.lineStates = slices.Delete(b.lineStates, line+1, end)
	b.levels = slices.Delete(b.levels, line+1, end)
}
