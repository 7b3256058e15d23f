package lua

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
			`#!/usr/bin/lua`,
			`local x = string.format("%d", 0x1F) -- note`,
			`print('a\'b')`,
			`::top:: goto top`,
			`s = [==[long ]] still]==]`,
			`--[[ block`,
			`]] ---doc`,
			`--more`,
			`y = "open`,
		).
		With(
			testutil.Keywords(0, DefaultKeywords[0]),
			testutil.Keywords(1, "print"),
			testutil.Keywords(2, "string.format"),
		).
		Build()

	tests := []struct {
		text  string
		style lexer.Style
	}{
		{"#!/usr/bin/lua", StyleCommentLine},
		{"local", StyleWord},
		{"x", StyleIdentifier},
		{"=", StyleOperator},
		{"string.format", StyleWord3},
		{`"%d"`, StyleString},
		{"0x1F", StyleNumber},
		{"-- note", StyleCommentLine},
		{"print", StyleWord2},
		{`'a`, StyleCharacter},
		{`b'`, StyleCharacter},
		{"::top::", StyleLabel},
		{"goto", StyleWord},
		{"[==[long", StyleLiteralString},
		{"still]==]", StyleLiteralString},
		{"--[[ block", StyleComment},
		{"]] ---", StyleComment},
		{"---doc", StyleCommentDoc},
		{"--more", StyleCommentDoc},
		{`"open`, StyleStringEOL},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.style, r.StyleOf(tt.text), "style of %q", tt.text)
	}
	assert.Equal(t, StyleLabel, r.StyleOfNth("top", 1), "goto target")
}

func TestLex_DottedIdentifiers(t *testing.T) {
	r := testutil.Lex(New, "string.bad = string\n",
		testutil.Keywords(2, "string"))

	require.Equal(t, StyleWord3, r.StyleOf("string.bad"))
	require.Equal(t, StyleIdentifier, r.StyleOf(".bad"), "the unmatched tail stays an identifier")
	require.Equal(t, StyleWord3, r.StyleOfNth("string", 1))
}

func TestLex_LongBracketLineState(t *testing.T) {
	r := testutil.Lex(New, "s = [=[\nx\n]=]\n")

	require.Equal(t, StyleLiteralString, r.StyleOf("x"))
	require.Equal(t, 2, stateSeparator.Get(r.Doc.LineState(0)))
	require.Equal(t, 0, r.Doc.LineState(2), "nothing carries past the close")
}

func TestLex_StringWhitespaceEscape(t *testing.T) {
	r := testutil.Lex(New, "s = \"a\\z\n   b\"\n")

	require.Equal(t, StyleString, r.StyleOf("b\""), "\\z skips the line end")
	require.True(t, stateStringWs.Flag(r.Doc.LineState(0)))
}

func TestLex_ContinuedQuotes(t *testing.T) {
	for _, text := range []string{"'\\\nfunction", "\"\\\nfunction", "x = 'a\\\nb'\nend\n"} {
		want := testutil.Lex(New, text).Doc.Styles()
		got := testutil.Restart(New, text, 1).Doc.Styles()
		require.Equal(t, want, got, "restart at line 1 of %q", text)
	}

	r := testutil.Lex(New, "'\\\nfunction")
	require.Equal(t, StyleStringEOL, r.StyleOf("function"))
	require.Equal(t, StyleCharacter, r.StyleAt(0), "the first line keeps its style")
}

func TestFold_Keywords(t *testing.T) {
	r := testutil.NewBuilder(t, New).
		WithLines(
			"function f()",
			"  if x then",
			"    y = {",
			"    }",
			"  end",
			"",
			"end",
		).
		With(testutil.Keywords(0, DefaultKeywords[0])).
		Build()

	require.True(t, r.Level(0).IsHeader())
	require.Equal(t, 0, r.Depth(0))
	require.True(t, r.Level(1).IsHeader())
	require.Equal(t, 1, r.Depth(1))
	require.True(t, r.Level(2).IsHeader())
	require.Equal(t, 3, r.Depth(3))
	require.Equal(t, 2, r.Depth(4))
	require.True(t, r.Level(5).IsWhite())
	require.Equal(t, 1, r.Depth(6))
	require.Equal(t, 0, r.Depth(7))
}

func TestFold_LongString(t *testing.T) {
	r := testutil.Lex(New, "s = [[\na\n]]\nb\n")

	require.True(t, r.Level(0).IsHeader())
	require.Equal(t, 1, r.Depth(1))
	require.Equal(t, 1, r.Depth(2))
	require.Equal(t, 0, r.Depth(3))
}

func TestWordListSet(t *testing.T) {
	l := New()

	require.Equal(t, 0, l.WordListSet(7, "mine"))
	require.Equal(t, -1, l.WordListSet(8, "x"))
	require.Equal(t, 0, l.PropertySet("fold.compact", "0"))
	require.Equal(t, "0", l.PropertyGet("fold.compact"))
	require.Equal(t, "SCE_LUA_LABEL", l.NameOfStyle(StyleLabel))
	require.Equal(t, 21, l.NamedStyles())
}

// luaFragments favour quotes and brackets continued across lines.
var luaFragments = []string{
	"'", "\"", "\\", "\\\n", "\\z", "[[", "]]", "[=[", "]=]", "--", "--[[",
	"function", "end", "do", "goto", "::", "a", " ", "\n",
}

func TestProperties(t *testing.T) {
	text := rapid.OneOf(
		rapid.StringMatching(`[abdegotz.:\[\]="'\-\\(){} \n]{0,60}`),
		testutil.Tokens(luaFragments, 20),
	)
	rapid.Check(t, func(t *rapid.T) {
		src := text.Draw(t, "src")
		opts := []testutil.DocOption{
			testutil.Keywords(0, "do end goto"),
			testutil.Keywords(1, "a a.b"),
		}

		testutil.CheckRestartFromLine(t, New, src, opts...)
		testutil.CheckIncrementalEdit(t, New, src, text, opts...)

		r := testutil.Lex(New, src, opts...)
		testutil.CheckFoldContinuity(t, r.Doc)
		testutil.CheckHeaders(t, r.Doc)
		testutil.CheckStylesNamed(t, r)
	})
}
