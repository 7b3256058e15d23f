// Package lexer is the engine shared by every language lexer: the document
// seam, the buffered accessor, the style context that walks characters, the
// option table and the Lexer contract.
package lexer

// Document is the host side of lexing. Positions are byte offsets and lines
// are zero based. Implementations clamp out-of-range arguments instead of
// failing.
type Document interface {
	Length() int
	// CharRange copies bytes starting at pos into dst and returns the count.
	CharRange(dst []byte, pos int) int
	CodePage() int

	StyleAt(pos int) byte
	// StartStyling positions the style cursor used by SetStyleFor and SetStyles.
	StartStyling(pos int)
	SetStyleFor(length int, style byte)
	SetStyles(styles []byte)

	LineFromPosition(pos int) int
	LineStart(line int) int
	// LineEnd returns the position before the line end characters.
	LineEnd(line int) int

	Level(line int) FoldLevel
	SetLevel(line int, level FoldLevel)
	LineState(line int) int
	SetLineState(line, state int)

	// ChangeLexerState tells the host that styling of [start, end) is stale
	// because lexer state outside the styled range changed.
	ChangeLexerState(start, end int)
	// FillIndicator sets indicator over [pos, pos+length) to value.
	FillIndicator(indicator, pos, length, value int)
}
