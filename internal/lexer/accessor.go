package lexer

import (
	"strings"

	"github.com/zjrosen/stylex/internal/charset"
)

// Encoding is the multi-byte scheme of the document's code page.
type Encoding int

const (
	EncodingEightBit Encoding = iota
	EncodingUnicode
	EncodingDBCS
)

const (
	bufferSize = 4000
	slopSize   = bufferSize / 8
)

// Accessor is a buffered window over a Document. Character reads are served
// from a fetched block and style writes are queued and flushed in batches.
// Reads outside the document return a default instead of failing.
type Accessor struct {
	doc      Document
	codePage int
	encoding Encoding
	lenDoc   int

	buf      [bufferSize]byte
	startPos int
	endPos   int

	styleBuf        [bufferSize]byte
	validLen        int
	startSeg        int
	startPosStyling int
}

// NewAccessor wraps doc. The document length and code page are captured
// once, so an Accessor must not outlive a single Lex or Fold call.
func NewAccessor(doc Document) *Accessor {
	a := &Accessor{
		doc:      doc,
		codePage: doc.CodePage(),
		lenDoc:   doc.Length(),
		startPos: 0x7FFFFFFF,
	}
	switch {
	case a.codePage == 65001:
		a.encoding = EncodingUnicode
	case charset.IsDBCSCodePage(a.codePage):
		a.encoding = EncodingDBCS
	}
	return a
}

func (a *Accessor) fill(pos int) {
	a.startPos = pos - slopSize
	if a.startPos+bufferSize > a.lenDoc {
		a.startPos = a.lenDoc - bufferSize
	}
	if a.startPos < 0 {
		a.startPos = 0
	}
	a.endPos = a.startPos + bufferSize
	if a.endPos > a.lenDoc {
		a.endPos = a.lenDoc
	}
	a.doc.CharRange(a.buf[:a.endPos-a.startPos], a.startPos)
}

// CharAt returns the byte at pos, or 0 outside the document.
func (a *Accessor) CharAt(pos int) byte {
	return a.SafeGetCharAt(pos, 0)
}

// SafeGetCharAt returns the byte at pos, or def outside the document.
func (a *Accessor) SafeGetCharAt(pos int, def byte) byte {
	if pos < a.startPos || pos >= a.endPos {
		a.fill(pos)
		if pos < a.startPos || pos >= a.endPos {
			return def
		}
	}
	return a.buf[pos-a.startPos]
}

func (a *Accessor) Document() Document { return a.doc }
func (a *Accessor) CodePage() int      { return a.codePage }
func (a *Accessor) Encoding() Encoding { return a.encoding }
func (a *Accessor) Length() int        { return a.lenDoc }

// IsLeadByte reports whether b starts a double-byte character. It is only
// ever true for the DBCS code pages.
func (a *Accessor) IsLeadByte(b byte) bool {
	return b >= 0x80 && a.encoding == EncodingDBCS && charset.IsDBCSLeadByte(a.codePage, b)
}

// Match reports whether the bytes at pos equal s.
func (a *Accessor) Match(pos int, s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != a.SafeGetCharAt(pos+i, ' ') {
			return false
		}
	}
	return true
}

// MatchIgnoreCase is Match with ASCII case folding of the document bytes.
// s must be lower case.
func (a *Accessor) MatchIgnoreCase(pos int, s string) bool {
	for i := 0; i < len(s); i++ {
		if rune(s[i]) != charset.MakeLowerCase(rune(a.SafeGetCharAt(pos+i, ' '))) {
			return false
		}
	}
	return true
}

// GetRange returns the bytes in [start, end).
func (a *Accessor) GetRange(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > a.lenDoc {
		end = a.lenDoc
	}
	if end <= start {
		return ""
	}
	var sb strings.Builder
	sb.Grow(end - start)
	for pos := start; pos < end; pos++ {
		sb.WriteByte(a.SafeGetCharAt(pos, 0))
	}
	return sb.String()
}

// GetRangeLowered is GetRange with ASCII letters lowered.
func (a *Accessor) GetRangeLowered(start, end int) string {
	return strings.Map(charset.MakeLowerCase, a.GetRange(start, end))
}

// StyleAt returns the committed style at pos.
func (a *Accessor) StyleAt(pos int) Style {
	return Style(a.doc.StyleAt(pos))
}

// BufferStyleAt returns a queued style when pos is still in the write
// buffer, otherwise the committed one.
func (a *Accessor) BufferStyleAt(pos int) Style {
	if index := pos - a.startPosStyling; index >= 0 && index < a.validLen {
		return Style(a.styleBuf[index])
	}
	return Style(a.doc.StyleAt(pos))
}

func (a *Accessor) GetLine(pos int) int        { return a.doc.LineFromPosition(pos) }
func (a *Accessor) LineStart(line int) int     { return a.doc.LineStart(line) }
func (a *Accessor) LineEnd(line int) int       { return a.doc.LineEnd(line) }
func (a *Accessor) LevelAt(line int) FoldLevel { return a.doc.Level(line) }
func (a *Accessor) GetLineState(line int) int  { return a.doc.LineState(line) }

func (a *Accessor) SetLineState(line, state int) {
	a.doc.SetLineState(line, state)
}

// SetLevel writes the fold level of line.
func (a *Accessor) SetLevel(line int, level FoldLevel) {
	a.doc.SetLevel(line, level)
}

// SetLevelIfChanged writes level only when it differs from the stored one.
func (a *Accessor) SetLevelIfChanged(line int, level FoldLevel) {
	if level != a.doc.Level(line) {
		a.doc.SetLevel(line, level)
	}
}

// Flush sends queued styles to the document.
func (a *Accessor) Flush() {
	if a.validLen > 0 {
		a.doc.SetStyles(a.styleBuf[:a.validLen])
		a.startPosStyling += a.validLen
		a.validLen = 0
	}
}

// StartAt positions the document's style cursor.
func (a *Accessor) StartAt(start int) {
	a.doc.StartStyling(start)
	a.startPosStyling = start
}

func (a *Accessor) GetStartSegment() int { return a.startSeg }

func (a *Accessor) StartSegment(pos int) {
	a.startSeg = pos
}

// ColourTo styles [startSegment, pos] with style and starts the next segment
// after pos. A pos before the segment start is ignored.
func (a *Accessor) ColourTo(pos int, style Style) {
	if pos != a.startSeg-1 {
		if pos < a.startSeg {
			return
		}
		n := pos - a.startSeg + 1
		if a.validLen+n >= bufferSize {
			a.Flush()
		}
		attr := style.Byte()
		if a.validLen+n >= bufferSize {
			a.doc.SetStyleFor(n, attr)
			a.startPosStyling += n
		} else {
			for i := 0; i < n; i++ {
				a.styleBuf[a.validLen] = attr
				a.validLen++
			}
		}
	}
	a.startSeg = pos + 1
}

// IndicatorFill sets indicator over [start, end) to value.
func (a *Accessor) IndicatorFill(start, end, indicator, value int) {
	a.doc.FillIndicator(indicator, start, end-start, value)
}

// ChangeLexerState marks [start, end) as needing a restyle.
func (a *Accessor) ChangeLexerState(start, end int) {
	a.doc.ChangeLexerState(start, end)
}
