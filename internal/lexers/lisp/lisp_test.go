package lisp

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
			`(defun square (x) ; comment`,
			`  (* x x))`,
			`(setq *count* 42 +limit+ 3.5 :key 'sym "str \" esc")`,
			`#| block`,
			`   comment |# (list nil)`,
		).
		With(testutil.Keywords(0, "defun setq list *"), testutil.Keywords(1, "nil")).
		Build()

	tests := []struct {
		text  string
		style lexer.Style
	}{
		{"(defun", StyleOperator},
		{"defun", StyleKeyword},
		{"square", StyleIdentifier},
		{"; comment", StyleComment},
		{"* x", StyleKeyword},
		{"*count*", StyleSpecial},
		{"42", StyleNumber},
		{"+limit+", StyleSpecial},
		{"3.5", StyleNumber},
		{":key", StyleSymbol},
		{"'sym", StyleOperator},
		{"sym", StyleSymbol},
		{`"str`, StyleString},
		{`esc"`, StyleString},
		{"#| block", StyleMultiComment},
		{"comment |#", StyleMultiComment},
		{"nil", StyleKeywordKW},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.style, r.StyleOf(tt.text), "style of %q", tt.text)
	}
}

func TestLex_ReaderMacros(t *testing.T) {
	r := testutil.Lex(New, "#x1F #b102 #\\a #\\( #'car #:gensym #(1 2)\n")

	require.Equal(t, StyleSpecial, r.StyleOf("1F"))
	require.Equal(t, StyleSpecial, r.StyleOf("10"))
	require.Equal(t, StyleDefault, r.StyleOf("2 #"), "digit outside the radix ends the number")
	require.Equal(t, StyleSpecial, r.StyleOf("a #"))
	require.Equal(t, StyleSpecial, r.StyleOf("( #"))
	require.Equal(t, StyleSpecial, r.StyleOf("car"))
	require.Equal(t, StyleSpecial, r.StyleOf("gensym"))
	require.Equal(t, StyleOperator, r.StyleOfNth("(", 1))
}

func TestLex_TrailingDispatchIsDefault(t *testing.T) {
	r := testutil.Lex(New, "(a) #")
	require.Equal(t, StyleDefault, r.StyleOf("#"))
}

func TestFold_Brackets(t *testing.T) {
	r := testutil.NewBuilder(t, New).
		WithLines(
			"(defun f (x)",
			"  (let ((y 1))",
			"",
			"    y))",
			"(f 2)",
		).
		Build()

	require.True(t, r.Level(0).IsHeader())
	require.Equal(t, 0, r.Depth(0))
	require.True(t, r.Level(1).IsHeader())
	require.Equal(t, 1, r.Depth(1))
	require.True(t, r.Level(2).IsWhite())
	require.Equal(t, 2, r.Depth(3))
	require.Equal(t, 0, r.Depth(4))
	require.False(t, r.Level(4).IsHeader())
}

func TestFold_IgnoresBracketsInStrings(t *testing.T) {
	r := testutil.Lex(New, "\"(((\"\n(a)\n")
	require.False(t, r.Level(0).IsHeader())
	require.Equal(t, 0, r.Depth(1))
}

func TestProperties(t *testing.T) {
	text := rapid.StringMatching(`[a1#|\\x:;'"()* \n]{0,60}`)
	rapid.Check(t, func(t *rapid.T) {
		src := text.Draw(t, "src")
		opts := []testutil.DocOption{testutil.Keywords(0, "a aa")}

		testutil.CheckRestartFromLine(t, New, src, opts...)
		testutil.CheckIncrementalEdit(t, New, src, text, opts...)

		r := testutil.Lex(New, src, opts...)
		testutil.CheckFoldContinuity(t, r.Doc)
		testutil.CheckHeaders(t, r.Doc)
		testutil.CheckStylesNamed(t, r)
	})
}
