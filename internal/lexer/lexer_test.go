package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/stylex/internal/document"
	"github.com/zjrosen/stylex/internal/lexer"
)

func TestAccessor_SafeGetCharAt(t *testing.T) {
	doc := document.New("hello")
	a := lexer.NewAccessor(doc)

	require.Equal(t, byte('h'), a.SafeGetCharAt(0, '?'))
	require.Equal(t, byte('o'), a.SafeGetCharAt(4, '?'))
	require.Equal(t, byte('?'), a.SafeGetCharAt(5, '?'))
	require.Equal(t, byte('?'), a.SafeGetCharAt(-1, '?'))
	require.True(t, a.Match(1, "ell"))
	require.False(t, a.Match(3, "lox"))
	require.Equal(t, "ell", a.GetRange(1, 4))
}

func TestAccessor_ColourTo(t *testing.T) {
	doc := document.New("abcdef")
	a := lexer.NewAccessor(doc)
	a.StartAt(0)
	a.StartSegment(0)

	a.ColourTo(1, 4)
	a.ColourTo(1, 9) // empty range: segment already past 1
	a.ColourTo(0, 9) // before the segment: ignored
	a.ColourTo(5, 2)
	a.Flush()

	require.Equal(t, []byte{4, 4, 2, 2, 2, 2}, doc.Styles())
}

func TestAccessor_ColourTo_LargeRunsBypassBuffer(t *testing.T) {
	text := make([]byte, 10000)
	for i := range text {
		text[i] = 'x'
	}
	doc := document.New(string(text))
	a := lexer.NewAccessor(doc)
	a.StartAt(0)
	a.StartSegment(0)

	a.ColourTo(9, 1)
	a.ColourTo(9999, 5)
	a.Flush()

	styles := doc.Styles()
	require.Equal(t, byte(1), styles[9])
	require.Equal(t, byte(5), styles[10])
	require.Equal(t, byte(5), styles[9999])
}

func TestAccessor_IsLeadByte(t *testing.T) {
	doc := document.New("")
	doc.SetCodePage(932)
	require.True(t, lexer.NewAccessor(doc).IsLeadByte(0x82))

	doc.SetCodePage(65001)
	require.False(t, lexer.NewAccessor(doc).IsLeadByte(0xC3))

	doc.SetCodePage(1252)
	require.False(t, lexer.NewAccessor(doc).IsLeadByte(0x82))
}

func TestIndentAmount(t *testing.T) {
	doc := document.New("if x:\n    a\n\tb\n  \t c\n\n# note\n")
	a := lexer.NewAccessor(doc)
	isComment := func(a *lexer.Accessor, pos, _ int) bool { return a.CharAt(pos) == '#' }

	tests := []struct {
		line   int
		indent int
		white  bool
		flags  int
	}{
		{line: 0, indent: 0},
		{line: 1, indent: 4, flags: lexer.IndentSpace},
		{line: 2, indent: 8, flags: lexer.IndentTab | lexer.IndentInconsistent},
		{line: 3, indent: 9, flags: lexer.IndentSpace | lexer.IndentTab | lexer.IndentSpaceTab | lexer.IndentInconsistent},
		{line: 4, indent: 0, white: true},
		{line: 5, indent: 0, white: true},
		{line: 6, indent: 0, white: true},
	}
	for _, tt := range tests {
		var flags int
		level := a.IndentAmount(tt.line, &flags, isComment)
		assert.Equal(t, tt.indent, level.Number()-int(lexer.LevelBase), "line %d indent", tt.line)
		assert.Equal(t, tt.white, level.IsWhite(), "line %d white", tt.line)
		assert.Equal(t, tt.flags, flags, "line %d flags", tt.line)
	}
}

// styleWords styles runs of letters as 1 and everything else as 0.
func styleWords(startPos, length int, doc lexer.Document) {
	sc := lexer.NewStyleContext(startPos, length, 0, lexer.NewAccessor(doc))
	for ; sc.More(); sc.Forward() {
		isLetter := sc.Ch >= 'a' && sc.Ch <= 'z'
		if sc.State == 0 && isLetter {
			sc.SetState(1)
		} else if sc.State == 1 && !isLetter {
			sc.SetState(0)
		}
	}
	sc.Complete()
}

func TestStyleContext_StylesEveryCharacterOnce(t *testing.T) {
	doc := document.New("ab 12 cd")
	styleWords(0, doc.Length(), doc)

	require.Equal(t, []byte{1, 1, 0, 0, 0, 0, 1, 1}, doc.Styles())
}

func TestStyleContext_LineFlags(t *testing.T) {
	doc := document.New("ab\r\ncd\n")
	sc := lexer.NewStyleContext(0, doc.Length(), 0, lexer.NewAccessor(doc))

	var starts, ends []int
	for ; sc.More(); sc.Forward() {
		if sc.AtLineStart {
			starts = append(starts, sc.CurrentPos)
		}
		if sc.AtLineEnd {
			ends = append(ends, sc.CurrentPos)
		}
	}
	sc.Complete()

	require.Equal(t, []int{0, 4, 7}, starts)
	require.Equal(t, []int{3, 6, 7}, ends)
}

func TestStyleContext_DecodesUTF8(t *testing.T) {
	doc := document.New("aé名b")
	sc := lexer.NewStyleContext(0, doc.Length(), 0, lexer.NewAccessor(doc))

	var chars []rune
	for ; sc.More() && sc.CurrentPos < doc.Length(); sc.Forward() {
		chars = append(chars, sc.Ch)
	}
	sc.Complete()

	require.Equal(t, []rune{'a', 'é', '名', 'b'}, chars)
}

func TestStyleContext_DecodesDBCS(t *testing.T) {
	doc := document.New("a\x82\xa0b")
	doc.SetCodePage(932)
	sc := lexer.NewStyleContext(0, doc.Length(), 0, lexer.NewAccessor(doc))

	sc.Forward()
	require.Equal(t, rune(0x82a0), sc.Ch)
	require.Equal(t, 2, sc.Width)
	require.Equal(t, 'b', sc.ChNext)
}

func TestStyleContext_Relative(t *testing.T) {
	doc := document.New("xé名yz")
	sc := lexer.NewStyleContext(0, doc.Length(), 0, lexer.NewAccessor(doc))

	require.Equal(t, '名', sc.GetRelativeCharacter(2))
	require.Equal(t, 'y', sc.GetRelativeCharacter(3))
	require.Equal(t, rune(0), sc.GetRelativeCharacter(-1))
	sc.ForwardN(3)
	require.Equal(t, 'y', sc.Ch)
	require.Equal(t, '名', sc.GetRelativeCharacter(-1))
	require.Equal(t, 'é', sc.GetRelativeCharacter(-2))
	require.Equal(t, 'z', sc.GetRelative(1))
}

func TestStyleContext_Match(t *testing.T) {
	doc := document.New("Hello World")
	sc := lexer.NewStyleContext(0, doc.Length(), 0, lexer.NewAccessor(doc))

	require.True(t, sc.Match("Hello"))
	require.False(t, sc.Match("Help"))
	require.True(t, sc.MatchIgnoreCase("hello w"))
	require.True(t, sc.MatchPair('H', 'e'))
	sc.SetState(3)
	sc.ForwardN(5)
	require.Equal(t, "Hello", sc.GetCurrent())
	require.Equal(t, "hello", sc.GetCurrentLowered())
	require.Equal(t, 5, sc.LengthCurrent())
}

func TestOptionSet(t *testing.T) {
	var opts struct {
		fold    bool
		level   int
		pattern string
	}
	o := lexer.NewOptionSet()
	o.DefineBool("fold", &opts.fold, "Enable folding.")
	o.DefineInt("level", &opts.level, "Level.")
	o.DefineString("pattern", &opts.pattern, "Pattern.")
	o.DefineWordListSets([]string{"Keywords", "Types"})

	require.True(t, o.PropertySet("fold", "1"))
	require.True(t, opts.fold)
	require.False(t, o.PropertySet("fold", "5"), "still true")
	require.True(t, o.PropertySet("level", "  -12abc"))
	require.Equal(t, -12, opts.level)
	require.True(t, o.PropertySet("pattern", "x*"))
	require.False(t, o.PropertySet("unknown", "1"))

	require.Equal(t, "5", o.PropertyGet("fold"))
	require.Equal(t, "fold\nlevel\npattern", o.PropertyNames())
	require.Equal(t, lexer.PropertyInt, o.PropertyType("level"))
	require.Equal(t, "Pattern.", o.DescribeProperty("pattern"))
	require.Equal(t, "Keywords\nTypes", o.DescribeWordListSets())
}

func TestAtoi(t *testing.T) {
	tests := map[string]int{
		"":      0,
		"12":    12,
		" +7":   7,
		"-3x":   -3,
		"x3":    0,
		"\t42 ": 42,
	}
	for in, want := range tests {
		assert.Equal(t, want, lexer.Atoi(in), "Atoi(%q)", in)
	}
}

func TestBitField(t *testing.T) {
	depth := lexer.BitField{Shift: 4, Width: 4}
	flag := lexer.BitField{Shift: 0, Width: 1}

	state := depth.Put(0, 9)
	state = flag.PutFlag(state, true)
	require.Equal(t, 9, depth.Get(state))
	require.True(t, flag.Flag(state))

	state = depth.Put(state, 100)
	require.Equal(t, 15, depth.Get(state), "values clamp to the field width")
	require.True(t, flag.Flag(state), "other fields untouched")

	state = depth.Put(state, -3)
	require.Equal(t, 0, depth.Get(state))
}

func TestPackLevel(t *testing.T) {
	lev := lexer.PackLevel(int(lexer.LevelBase), int(lexer.LevelBase)+1, false)
	require.True(t, lev.IsHeader())
	require.False(t, lev.IsWhite())
	require.Equal(t, int(lexer.LevelBase), lev.Number())
	require.Equal(t, int(lexer.LevelBase)+1, lev.Next())

	blank := lexer.PackLevel(int(lexer.LevelBase)+2, int(lexer.LevelBase)+2, true)
	require.False(t, blank.IsHeader())
	require.True(t, blank.IsWhite())
	require.Equal(t, "2 white", blank.String())
}

func TestCommitIndentLevels(t *testing.T) {
	doc := document.New("a\n b\n\n")
	a := lexer.NewAccessor(doc)
	base := lexer.LevelBase

	a.CommitIndentLevels(0, []lexer.FoldLevel{base, base + 1, base | lexer.LevelWhiteFlag})

	require.True(t, doc.Level(0).IsHeader())
	require.Equal(t, int(base)+1, doc.Level(0).Next())
	require.False(t, doc.Level(1).IsHeader())
	require.Equal(t, int(base), doc.Level(1).Next())
	require.True(t, doc.Level(2).IsWhite())
	require.Equal(t, int(base), doc.Level(2).Next(), "the next level comes from the document")
}
