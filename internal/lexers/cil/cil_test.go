package cil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/stylex/internal/lexer"
	"github.com/zjrosen/stylex/internal/testutil"
)

func keywords() []testutil.DocOption {
	return []testutil.DocOption{
		testutil.Keywords(0, ".method .class"),
		testutil.Keywords(1, "public static void"),
		testutil.Keywords(2, "ldstr call ret"),
	}
}

func TestLex_Tokens(t *testing.T) {
	r := testutil.NewBuilder(t, New).
		WithLines(
			`.method public static void Main() {`,
			`  // entry`,
			`  ldstr "hi \"there\""`,
			`  call void Print(string)`,
			`  /* done */ ret`,
			`}`,
		).
		With(keywords()...).
		Build()

	tests := []struct {
		text  string
		style lexer.Style
	}{
		{".method", StyleWord},
		{"public", StyleWord2},
		{"Main", StyleIdentifier},
		{"(", StyleOperator},
		{"// entry", StyleCommentLine},
		{"ldstr", StyleWord3},
		{`"hi`, StyleString},
		{`there\""`, StyleString},
		{"Print", StyleIdentifier},
		{"/* done */", StyleComment},
		{"ret", StyleWord3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.style, r.StyleOf(tt.text), "style of %q", tt.text)
	}
}

func TestLex_Labels(t *testing.T) {
	r := testutil.NewBuilder(t, New).
		WithLines(
			"IL_0001: nop",
			"  loop: br loop",
			"  x::y",
			"  .L1: nop",
			"  br done: ",
		).
		Build()

	require.Equal(t, StyleLabel, r.StyleOf("IL_0001:"))
	require.Equal(t, StyleLabel, r.StyleOfNth(":", 0))
	require.Equal(t, StyleLabel, r.StyleOf("loop:"))
	require.Equal(t, StyleIdentifier, r.StyleOf("x::y"), "a double colon is not a label")
	require.Equal(t, StyleIdentifier, r.StyleOf(".L1"), "labels cannot start with a dot")
	require.Equal(t, StyleIdentifier, r.StyleOf("done"), "only the first token of a line can be a label")
}

func TestLex_UnterminatedString(t *testing.T) {
	r := testutil.Lex(New, "ldstr \"open\nret\n")

	require.Equal(t, StyleStringEOL, r.StyleOf(`"open`))
	require.Equal(t, StyleIdentifier, r.StyleOf("ret"))
}

func TestLex_StringContinuation(t *testing.T) {
	r := testutil.Lex(New, "ldstr \"one \\\ntwo\" ret\n")

	require.Equal(t, StyleString, r.StyleOf("two"))
	require.Equal(t, StyleIdentifier, r.StyleOf("ret"))
}

func TestLex_LabelAfterUnterminatedString(t *testing.T) {
	for _, text := range []string{"\"\nIL_0001:", "\"\n  loop: br loop\n", "\"a\\\nb\"\nIL_0002: nop\n"} {
		full := testutil.Lex(New, text)
		require.Equal(t, StyleLabel, full.StyleOf(":"), "label in %q", text)
		require.Equal(t, full.Doc.Styles(), testutil.Restart(New, text, 1).Doc.Styles(), "restart at line 1 of %q", text)
	}
}

func TestFold_Braces(t *testing.T) {
	r := testutil.NewBuilder(t, New).
		WithLines(
			".class A {",
			"  .method m() {",
			"  }",
			"",
			"}",
		).
		Build()

	require.True(t, r.Level(0).IsHeader())
	require.True(t, r.Level(1).IsHeader())
	require.Equal(t, 1, r.Depth(1))
	require.Equal(t, 2, r.Depth(2))
	require.True(t, r.Level(3).IsWhite(), "fold.compact marks blank lines")
	require.Equal(t, 1, r.Depth(4))
	require.True(t, r.Level(5).IsWhite(), "the empty last line is white")
	require.Equal(t, 0, r.Depth(5))
}

func TestFold_MultilineComments(t *testing.T) {
	text := "/* a\n b\n*/\nnop\n"

	off := testutil.Lex(New, text)
	require.False(t, off.Level(0).IsHeader(), "fold.comment defaults to off")

	on := testutil.Lex(New, text, testutil.Property("fold.comment", "1"))
	require.True(t, on.Level(0).IsHeader())
	require.Equal(t, 1, on.Depth(1))
	require.Equal(t, 0, on.Depth(3))
}

func TestFold_Disabled(t *testing.T) {
	r := testutil.Lex(New, "{\n}\n", testutil.Property("fold", "0"))
	require.Equal(t, lexer.LevelBase, r.Level(0))
}

func TestWordListSet(t *testing.T) {
	l := New()

	require.Equal(t, 0, l.WordListSet(0, "ret"))
	require.Equal(t, -1, l.WordListSet(0, "ret"), "unchanged list")
	require.Equal(t, -1, l.WordListSet(3, "x"), "no such slot")
	require.Equal(t, 0, l.PropertySet("fold.compact", "0"))
	require.Equal(t, -1, l.PropertySet("fold.compact", "0"))
	require.Equal(t, -1, l.PropertySet("lexer.unknown", "1"))
	require.Equal(t, "Primary CIL keywords\nMetadata\nOpcode instructions", l.DescribeWordListSets())
	require.Equal(t, "SCE_CIL_LABEL", l.NameOfStyle(StyleLabel))
}

// cilFragments favour strings and comments that end at a line end.
var cilFragments = []string{
	"\"", "\\", "\\\n", "/*", "*/", "//", "IL_0001", "loop", ".method", "ret", ":", "::",
	"{", "}", " ", "\n",
}

func TestProperties(t *testing.T) {
	text := rapid.OneOf(
		rapid.StringMatching(`[a.:"/*{} \\\n]{0,60}`),
		testutil.Tokens(cilFragments, 20),
	)
	rapid.Check(t, func(t *rapid.T) {
		src := text.Draw(t, "src")
		opts := append(keywords(), testutil.Property("fold.comment", "1"))

		testutil.CheckRestartFromLine(t, New, src, opts...)
		testutil.CheckIncrementalEdit(t, New, src, text, opts...)

		r := testutil.Lex(New, src, opts...)
		testutil.CheckFoldContinuity(t, r.Doc)
		testutil.CheckHeaders(t, r.Doc)
		testutil.CheckStylesNamed(t, r)
	})
}
