package lexer

import (
	"unicode/utf8"

	"github.com/zjrosen/stylex/internal/charset"
)

// StyleContext walks the characters of [startPos, startPos+length) and
// turns state changes into styled runs. Ch, ChNext and ChPrev are code
// points: UTF-8 documents are decoded, DBCS documents combine lead and trail
// bytes, every other code page yields single bytes.
//
// When the range reaches the end of the document the walk continues one
// position past it with Ch == 0, so a lexer can close its final run.
type StyleContext struct {
	styler         *Accessor
	multiByte      bool
	endPos         int
	lengthDocument int

	posRelative       int
	currentPosLastRel int
	offsetRelative    int

	CurrentPos    int
	CurrentLine   int
	LineDocEnd    int
	LineStartNext int
	AtLineStart   bool
	AtLineEnd     bool
	State         Style
	ChPrev        rune
	Ch            rune
	Width         int
	ChNext        rune
	WidthNext     int
}

// NewStyleContext starts a walk at startPos in state initStyle.
func NewStyleContext(startPos, length int, initStyle Style, styler *Accessor) *StyleContext {
	sc := &StyleContext{
		styler:            styler,
		multiByte:         styler.Encoding() != EncodingEightBit,
		endPos:            startPos + length,
		currentPosLastRel: -1,
		CurrentPos:        startPos,
		State:             initStyle,
		WidthNext:         1,
	}
	styler.StartAt(startPos)
	styler.StartSegment(startPos)
	sc.CurrentLine = styler.GetLine(startPos)
	sc.LineStartNext = styler.LineStart(sc.CurrentLine + 1)
	sc.lengthDocument = styler.Length()
	if sc.endPos == sc.lengthDocument {
		sc.endPos++
	}
	sc.LineDocEnd = styler.GetLine(sc.lengthDocument)
	sc.AtLineStart = styler.LineStart(sc.CurrentLine) == startPos

	sc.Width = 0
	sc.getNextChar()
	sc.Ch = sc.ChNext
	sc.Width = sc.WidthNext
	sc.getNextChar()
	return sc
}

// characterAt decodes the character at pos and its byte width. Outside the
// document it returns 0 with width 1.
func (sc *StyleContext) characterAt(pos int) (rune, int) {
	b := sc.styler.SafeGetCharAt(pos, 0)
	if !sc.multiByte || b < 0x80 || pos >= sc.lengthDocument {
		return rune(b), 1
	}
	if sc.styler.Encoding() == EncodingDBCS {
		if sc.styler.IsLeadByte(b) && pos+1 < sc.lengthDocument {
			trail := sc.styler.SafeGetCharAt(pos+1, 0)
			return rune(b)<<8 | rune(trail), 2
		}
		return rune(b), 1
	}
	var raw [utf8.UTFMax]byte
	n := 0
	for ; n < utf8.UTFMax && pos+n < sc.lengthDocument; n++ {
		raw[n] = sc.styler.SafeGetCharAt(pos+n, 0)
	}
	r, w := utf8.DecodeRune(raw[:n])
	return r, w
}

func (sc *StyleContext) getNextChar() {
	sc.ChNext, sc.WidthNext = sc.characterAt(sc.CurrentPos + sc.Width)
	if sc.CurrentLine < sc.LineDocEnd {
		sc.AtLineEnd = sc.CurrentPos >= sc.LineStartNext-1
	} else {
		sc.AtLineEnd = sc.CurrentPos >= sc.LineStartNext
	}
}

// Styler exposes the accessor the context writes through.
func (sc *StyleContext) Styler() *Accessor {
	return sc.styler
}

func (sc *StyleContext) colourPos() int {
	if sc.CurrentPos > sc.lengthDocument {
		return sc.CurrentPos - 2
	}
	return sc.CurrentPos - 1
}

// Complete closes the open run and flushes queued styles.
func (sc *StyleContext) Complete() {
	sc.styler.ColourTo(sc.colourPos(), sc.State)
	sc.styler.Flush()
}

// More reports whether characters remain in the range.
func (sc *StyleContext) More() bool {
	return sc.CurrentPos < sc.endPos
}

// Forward advances one character. Past the end it yields spaces.
func (sc *StyleContext) Forward() {
	if sc.CurrentPos < sc.endPos {
		sc.AtLineStart = sc.AtLineEnd
		if sc.AtLineStart {
			sc.CurrentLine++
			sc.LineStartNext = sc.styler.LineStart(sc.CurrentLine + 1)
		}
		sc.ChPrev = sc.Ch
		sc.CurrentPos += sc.Width
		sc.Ch = sc.ChNext
		sc.Width = sc.WidthNext
		sc.getNextChar()
	} else {
		sc.AtLineStart = false
		sc.ChPrev = ' '
		sc.Ch = ' '
		sc.ChNext = ' '
		sc.AtLineEnd = true
	}
}

// ForwardN advances n characters.
func (sc *StyleContext) ForwardN(n int) {
	for i := 0; i < n; i++ {
		sc.Forward()
	}
}

// ForwardBytes advances until at least n bytes have been passed.
func (sc *StyleContext) ForwardBytes(n int) {
	target := sc.CurrentPos + n
	for target > sc.CurrentPos && sc.CurrentPos < sc.endPos {
		sc.Forward()
	}
}

// ChangeState relabels the open run without closing it.
func (sc *StyleContext) ChangeState(state Style) {
	sc.State = state
}

// SetState closes the open run before the current character and opens a
// new run in state.
func (sc *StyleContext) SetState(state Style) {
	sc.styler.ColourTo(sc.colourPos(), sc.State)
	sc.State = state
}

// ForwardSetState includes the current character in the open run, then
// switches to state.
func (sc *StyleContext) ForwardSetState(state Style) {
	sc.Forward()
	sc.styler.ColourTo(sc.colourPos(), sc.State)
	sc.State = state
}

// LengthCurrent is the byte length of the open run so far.
func (sc *StyleContext) LengthCurrent() int {
	return sc.CurrentPos - sc.styler.GetStartSegment()
}

// GetRelative returns the byte n bytes away, or 0 outside the document.
func (sc *StyleContext) GetRelative(n int) rune {
	return rune(sc.styler.SafeGetCharAt(sc.CurrentPos+n, 0))
}

// GetRelativeCharacter returns the character n characters away.
func (sc *StyleContext) GetRelativeCharacter(n int) rune {
	if n == 0 {
		return sc.Ch
	}
	if !sc.multiByte {
		return rune(sc.styler.SafeGetCharAt(sc.CurrentPos+n, 0))
	}
	if sc.currentPosLastRel != sc.CurrentPos ||
		(n > 0 && (sc.offsetRelative < 0 || n < sc.offsetRelative)) ||
		(n < 0 && (sc.offsetRelative > 0 || n > sc.offsetRelative)) {
		sc.posRelative = sc.CurrentPos
		sc.offsetRelative = 0
	}
	pos := sc.relativePosition(sc.posRelative, n-sc.offsetRelative)
	if pos < 0 {
		sc.currentPosLastRel = -1
		return 0
	}
	sc.posRelative = pos
	sc.currentPosLastRel = sc.CurrentPos
	sc.offsetRelative = n
	if pos >= sc.lengthDocument {
		return 0
	}
	ch, _ := sc.characterAt(pos)
	return ch
}

// relativePosition moves delta characters from pos, returning -1 when that
// leaves the document.
func (sc *StyleContext) relativePosition(pos, delta int) int {
	for delta > 0 {
		if pos >= sc.lengthDocument {
			return -1
		}
		_, w := sc.characterAt(pos)
		pos += w
		delta--
	}
	for delta < 0 {
		if pos <= 0 {
			return -1
		}
		pos = sc.previousCharStart(pos)
		delta++
	}
	return pos
}

func (sc *StyleContext) previousCharStart(pos int) int {
	if sc.styler.Encoding() == EncodingDBCS {
		if pos >= 2 && sc.styler.IsLeadByte(sc.styler.SafeGetCharAt(pos-2, 0)) {
			return pos - 2
		}
		return pos - 1
	}
	start := pos - 1
	for i := 0; i < utf8.UTFMax-1 && start > 0; i++ {
		if !utf8.RuneStart(sc.styler.SafeGetCharAt(start, 0)) {
			start--
			continue
		}
		break
	}
	if r, w := sc.characterAt(start); r != utf8.RuneError && start+w == pos {
		return start
	}
	return pos - 1
}

// MatchChar reports whether the current character is c.
func (sc *StyleContext) MatchChar(c byte) bool {
	return sc.Ch == rune(c)
}

// MatchPair reports whether the current and next characters are c0 and c1.
func (sc *StyleContext) MatchPair(c0, c1 byte) bool {
	return sc.Ch == rune(c0) && sc.ChNext == rune(c1)
}

// Match reports whether the text at the current position is s.
func (sc *StyleContext) Match(s string) bool {
	if s == "" {
		return true
	}
	if sc.Ch != rune(s[0]) {
		return false
	}
	if len(s) == 1 {
		return true
	}
	if sc.ChNext != rune(s[1]) {
		return false
	}
	for n := 2; n < len(s); n++ {
		if s[n] != sc.styler.SafeGetCharAt(sc.CurrentPos+n, 0) {
			return false
		}
	}
	return true
}

// MatchIgnoreCase is Match with ASCII case folding; s must be lower case.
func (sc *StyleContext) MatchIgnoreCase(s string) bool {
	if s == "" {
		return true
	}
	if charset.MakeLowerCase(sc.Ch) != rune(s[0]) {
		return false
	}
	if len(s) == 1 {
		return true
	}
	if charset.MakeLowerCase(sc.ChNext) != rune(s[1]) {
		return false
	}
	for n := 2; n < len(s); n++ {
		if rune(s[n]) != charset.MakeLowerCase(rune(sc.styler.SafeGetCharAt(sc.CurrentPos+n, 0))) {
			return false
		}
	}
	return true
}

// MatchLineEnd reports whether the current character ends its line.
func (sc *StyleContext) MatchLineEnd() bool {
	return sc.CurrentPos == sc.LineStartNext-1
}

// GetCurrent returns the text of the open run.
func (sc *StyleContext) GetCurrent() string {
	return sc.styler.GetRange(sc.styler.GetStartSegment(), sc.CurrentPos)
}

// GetCurrentLowered returns the text of the open run, ASCII lowered.
func (sc *StyleContext) GetCurrentLowered() string {
	return sc.styler.GetRangeLowered(sc.styler.GetStartSegment(), sc.CurrentPos)
}
