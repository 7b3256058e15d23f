package nim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/stylex/internal/lexer"
	"github.com/zjrosen/stylex/internal/testutil"
)

func TestLex_Tokens(t *testing.T) {
	r := testutil.NewBuilder(t, New).
		WithLines(
			"proc `+`(a: int): int =",
			"  ## doc line",
			"  result = 0x1F + 0b102 + 1.5 + 1_000'i32",
			`  let s = r"a\b" & "x\"y" & """tri"ple"""`,
			"  # note",
			"#[ outer #[ inner ]# still ]# var",
			"x.var = 'c'",
		).
		With(testutil.Keywords(0, DefaultKeywords[0])).
		Build()

	tests := []struct {
		text  string
		style lexer.Style
	}{
		{"proc", StyleWord},
		{"`+`", StyleFuncName},
		{"(a", StyleOperator},
		{"a:", StyleIdentifier},
		{"## doc", StyleCommentLineDoc},
		{"result", StyleIdentifier},
		{"0x1F", StyleNumber},
		{"0b102", StyleNumError},
		{"1.5", StyleNumber},
		{"5 +", StyleNumber},
		{"1_000'i32", StyleNumber},
		{"i32", StyleNumber},
		{"let", StyleWord},
		{`r"a\b"`, StyleString},
		{`b" &`, StyleString},
		{`"x\"y"`, StyleString},
		{`y" &`, StyleString},
		{`"""tri"ple"""`, StyleTripleDouble},
		{`ple"""`, StyleTripleDouble},
		{"# note", StyleCommentLine},
		{"#[ outer", StyleComment},
		{"still ]#", StyleComment},
		{"'c'", StyleCharacter},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.style, r.StyleOf(tt.text), "style of %q", tt.text)
	}
	assert.Equal(t, StyleWord, r.StyleOfNth("var", 0), "keyword after a comment")
	assert.Equal(t, StyleIdentifier, r.StyleOfNth("var", 1), "keyword after a dot")
	assert.Equal(t, StyleOperator, r.StyleOf(".var"))
}

func TestLex_NestedCommentLineState(t *testing.T) {
	r := testutil.Lex(New, "#[ a\n#[ b\n]#\n]#\nx\n")

	require.Equal(t, StyleComment, r.StyleOf("b"))
	require.Equal(t, StyleComment, r.StyleOfNth("]#", 1))
	require.Equal(t, StyleIdentifier, r.StyleOf("x"))
	for line, depth := range []int{1, 2, 1, 0, 0} {
		require.Equal(t, depth, stateCommentDepth.Get(r.Doc.LineState(line)), "line %d", line)
	}
}

func TestLex_NestingLimit(t *testing.T) {
	r := testutil.Lex(New, "#[ a\n#[ b\n]#\n]#\n",
		testutil.Property("lexer.nim.comment.nesting.limit", "1"))

	require.Equal(t, 1, r.Doc.LineState(1), "the inner opener does not nest")
	require.Equal(t, StyleOperator, r.StyleOfNth("]", 1), "the first closer ends the comment")
	require.Equal(t, StyleCommentLine, r.StyleOfNth("#", 3))
}

func TestLex_RawStringIdentifiers(t *testing.T) {
	plain := testutil.Lex(New, `x = fmt"a\"`+"\n")
	require.Equal(t, StyleIdentifier, plain.StyleOf("fmt"))
	require.Equal(t, StyleString, plain.StyleOf(`"a\"`), "a backslash does not escape")

	highlighted := testutil.Lex(New, `x = fmt"a\"`+"\n",
		testutil.Property("lexer.nim.raw.strings.highlight.ident", "1"))
	require.Equal(t, StyleString, highlighted.StyleOf("fmt"))
}

func TestLex_UnclosedStringEndsAtLineEnd(t *testing.T) {
	r := testutil.Lex(New, "s = \"open\nx\n")

	require.Equal(t, StyleStringEOL, r.StyleOf(`"open`))
	require.Equal(t, StyleIdentifier, r.StyleOf("x"))
}

func TestLex_ContinuedCharacter(t *testing.T) {
	for _, text := range []string{"'\\\nproc", "\"\\\nproc", "c = 'a\\\nb'\nx\n"} {
		want := testutil.Lex(New, text).Doc.Styles()
		got := testutil.Restart(New, text, 1).Doc.Styles()
		require.Equal(t, want, got, "restart at line 1 of %q", text)
	}

	r := testutil.Lex(New, "'\\\nproc")
	require.Equal(t, StyleStringEOL, r.StyleOf("proc"))
	require.Equal(t, StyleCharacter, r.StyleAt(0))
}

func TestFold_Indentation(t *testing.T) {
	r := testutil.NewBuilder(t, New).
		WithLines(
			"proc f() =",
			"  if x:",
			"    echo 1",
			"",
			"  echo 2",
			"echo 3",
		).
		Build()

	require.True(t, r.Level(0).IsHeader())
	require.Equal(t, 0, r.Depth(0))
	require.True(t, r.Level(1).IsHeader())
	require.Equal(t, 2, r.Depth(1))
	require.Equal(t, 4, r.Depth(2))
	require.True(t, r.Level(3).IsWhite())
	require.Equal(t, 2, r.Depth(3), "a blank line takes the next code line's level")
	require.False(t, r.Level(4).IsHeader())
	require.Equal(t, 0, r.Depth(5))
}

func TestFold_SkippedLines(t *testing.T) {
	r := testutil.Lex(New, "if x:\n  a\n   \n  # c\nb\n")

	require.True(t, r.Level(0).IsHeader())
	require.False(t, r.Level(1).IsHeader())
	require.True(t, r.Level(2).IsWhite())
	require.Equal(t, 2, r.Depth(2), "a deeper blank line stays in the block")
	require.True(t, r.Level(3).IsWhite())
	require.Equal(t, 0, r.Depth(3), "a comment line takes the next code line's level")
	require.Equal(t, 0, r.Depth(4))
}

func TestFold_Disabled(t *testing.T) {
	r := testutil.Lex(New, "if x:\n  a\n", testutil.Property("fold", "0"))
	require.Equal(t, lexer.LevelBase, r.Level(0))
}

func TestWordListSet(t *testing.T) {
	l := New()

	require.Equal(t, 0, l.WordListSet(0, "proc"))
	require.Equal(t, -1, l.WordListSet(1, "x"))
	require.Equal(t, 0, l.PropertySet("lexer.nim.comment.nesting.limit", "3"))
	require.Equal(t, "3", l.PropertyGet("lexer.nim.comment.nesting.limit"))
	require.Equal(t, "SCE_NIM_IDENTIFIER", l.NameOfStyle(StyleIdentifier))
	require.Equal(t, 17, l.NamedStyles())
}

// nimFragments favour literals continued or left open at a line end.
var nimFragments = []string{
	"'", "\"", "`", "\\", "\\\n", "r\"", "\"\"\"", "#[", "]#", "##[", "]##", "#",
	"proc", "a", "x", "1", " ", "  ", "\n",
}

func TestProperties(t *testing.T) {
	text := rapid.OneOf(
		rapid.StringMatching(`[a1r#\[\]"'\\ ._x:\n]{0,60}`),
		testutil.Tokens(nimFragments, 20),
	)
	rapid.Check(t, func(t *rapid.T) {
		src := text.Draw(t, "src")
		opts := []testutil.DocOption{testutil.Keywords(0, "proc a x")}

		testutil.CheckRestartFromLine(t, New, src, opts...)
		testutil.CheckIncrementalEdit(t, New, src, text, opts...)

		r := testutil.Lex(New, src, opts...)
		testutil.CheckFoldContinuity(t, r.Doc)
		testutil.CheckHeaders(t, r.Doc)
		testutil.CheckStylesNamed(t, r)
	})
}
