package bash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/stylex/internal/lexer"
	"github.com/zjrosen/stylex/internal/testutil"
)

func TestLex_ShebangAndScalar(t *testing.T) {
	r := testutil.NewBuilder(t, New).
		WithLines(
			"#!/bin/bash",
			"echo $x",
		).
		With(testutil.Keywords(0, DefaultKeywords[0])).
		Build()

	require.Equal(t, StyleCommentLine, r.StyleOf("#!"))
	require.Equal(t, StyleCommentLine, r.StyleOf("bash\n"))
	require.Equal(t, StyleWord, r.StyleOf("echo"))
	require.Equal(t, StyleScalar, r.StyleOf("$x"))
	require.Equal(t, StyleScalar, r.StyleOf("x\n"))
	require.Equal(t, int(cmdStart), lineCmdState.Get(r.Doc.LineState(1)))
}

func TestLex_Tokens(t *testing.T) {
	r := testutil.NewBuilder(t, New).
		WithLines(
			"if [ -f x ]; then echo; fi",
			"ls -la",
			"x=16#ff y=2#102 z=0x1F v=123abc",
			"echo 'a $b' `date`",
			"echo $((1+2))",
		).
		With(testutil.Keywords(0, DefaultKeywords[0])).
		Build()

	tests := []struct {
		text  string
		style lexer.Style
	}{
		{"if", StyleWord},
		{"[ -f", StyleOperator},
		{"-f", StyleWord},
		{"x ]", StyleIdentifier},
		{"]; then", StyleOperator},
		{"then", StyleWord},
		{"fi", StyleWord},
		{"ls", StyleWord},
		{"-la", StyleIdentifier},
		{"16#ff", StyleNumber},
		{"ff y", StyleNumber},
		{"2#102", StyleError},
		{"0x1F", StyleNumber},
		{"123abc", StyleIdentifier},
		{"'a $b'", StyleCharacter},
		{"$b", StyleCharacter},
		{"`date`", StyleBackticks},
		{"date`", StyleBackticks},
		{"$((", StyleOperator},
		{"1+", StyleNumber},
		{"+2", StyleOperator},
		{"))", StyleOperator},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.style, r.StyleOf(tt.text), "style of %q", tt.text)
	}
}

func TestLex_KeywordsOnlyAtCommandStart(t *testing.T) {
	plain := testutil.Lex(New, "echo x echo\n")
	require.Equal(t, StyleIdentifier, plain.StyleOf("echo"), "not in the keyword list")

	r := testutil.Lex(New, "echo x echo\nif x\n", testutil.Keywords(0, "echo"))
	require.Equal(t, StyleWord, r.StyleOf("echo"))
	require.Equal(t, StyleIdentifier, r.StyleOfNth("echo", 1), "argument position")
	require.Equal(t, StyleWord, r.StyleOf("if"), "construct keywords need no list")
}

func TestLex_CommandDelimiters(t *testing.T) {
	kw := testutil.Keywords(0, "echo")
	r := testutil.Lex(New, "x && echo; echo | echo || echo\n", kw)

	for n := 0; n < 4; n++ {
		assert.Equal(t, StyleWord, r.StyleOfNth("echo", n), "echo %d follows a delimiter", n)
	}
	require.True(t, cmdDelimiters.InList("&&"))
	require.True(t, cmdDelimiters.InList(";;"))
	require.False(t, cmdDelimiters.InList("&|"))
}

func TestLex_LineContinuation(t *testing.T) {
	kw := testutil.Keywords(0, DefaultKeywords[0])

	continued := testutil.Lex(New, "x \\\necho\n", kw)
	require.Equal(t, StyleIdentifier, continued.StyleOf("echo"), "still arguments of x")
	require.Equal(t, int(cmdBody), lineCmdState.Get(continued.Doc.LineState(1)))

	fresh := testutil.Lex(New, "x\necho\n", kw)
	require.Equal(t, StyleWord, fresh.StyleOf("echo"))
	require.Equal(t, int(cmdStart), lineCmdState.Get(fresh.Doc.LineState(1)))
}

func TestLex_MultilineStringForcesBacktrack(t *testing.T) {
	r := testutil.Lex(New, "echo \"a\nb\"\nc\n")

	require.Equal(t, StyleString, r.StyleOf("b\""))
	require.Equal(t, StyleIdentifier, r.StyleOf("c"))
	require.Equal(t, int(cmdStart), lineCmdState.Get(r.Doc.LineState(0)))
	require.Equal(t, int(cmdBody), lineCmdState.Get(r.Doc.LineState(1)))
	require.Equal(t, int(cmdStart), lineCmdState.Get(r.Doc.LineState(2)))
}

func TestLex_HereDoc(t *testing.T) {
	lines := []string{
		"cat <<EOF",
		"hello $name",
		"EOF",
		"echo ok",
	}
	r := testutil.NewBuilder(t, New).
		WithLines(lines...).
		With(testutil.Keywords(0, DefaultKeywords[0]), testutil.Property("fold", "1")).
		Build()

	require.Equal(t, StyleWord, r.StyleOf("cat"))
	require.Equal(t, StyleHereDelim, r.StyleOf("<<EOF"))
	require.Equal(t, StyleHereQ, r.StyleOf("hello"))
	require.Equal(t, StyleHereQ, r.StyleOf("$name"))
	require.Equal(t, StyleHereDelim, r.StyleOfNth("EOF", 1))
	require.Equal(t, StyleWord, r.StyleOf("echo"))
	require.Equal(t, StyleIdentifier, r.StyleOf("ok"))

	for line, want := range []cmdState{cmdStart, cmdBody, cmdBody, cmdStart, cmdStart} {
		require.Equal(t, int(want), lineCmdState.Get(r.Doc.LineState(line)), "line %d", line)
	}

	require.True(t, r.Level(0).IsHeader())
	require.Equal(t, 1, r.Depth(1))
	require.Equal(t, 1, r.Depth(2))
	require.Equal(t, 0, r.Depth(3))

	styled := testutil.NewBuilder(t, New).
		WithLines(lines...).
		With(testutil.Property("lexer.bash.styling.inside.heredoc", "1")).
		Build()
	require.Equal(t, StyleScalar, styled.StyleOf("$name"))
	require.Equal(t, StyleHereQ, styled.StyleOf("\nEOF"))
}

func TestLex_HereDocQuotedAndIndented(t *testing.T) {
	quoted := testutil.Lex(New, "cat <<'EOF'\n$x\nEOF\n",
		testutil.Property("lexer.bash.styling.inside.heredoc", "1"))
	require.Equal(t, StyleHereDelim, quoted.StyleOf("'EOF'"))
	require.Equal(t, StyleHereQ, quoted.StyleOf("$x"), "no expansion in a quoted here document")
	require.Equal(t, StyleHereDelim, quoted.StyleOf("EOF\n"))

	indented := testutil.Lex(New, "cat <<-EOF\n\tbody\n\tEOF\nx\n")
	require.Equal(t, StyleHereQ, indented.StyleOf("\tbody"))
	require.Equal(t, StyleHereQ, indented.StyleOf("\tEOF"))
	require.Equal(t, StyleHereDelim, indented.StyleOf("EOF\nx"))
	require.Equal(t, StyleIdentifier, indented.StyleOf("x\n"))
}

func TestLex_HereString(t *testing.T) {
	r := testutil.Lex(New, "cat <<< word\n")

	require.Equal(t, StyleHereDelim, r.StyleOf("<<<"))
	require.Equal(t, StyleIdentifier, r.StyleOf("word"))
}

func TestLex_StylingInsideString(t *testing.T) {
	text := "echo \"a $b c\"\n"

	plain := testutil.Lex(New, text)
	require.Equal(t, StyleString, plain.StyleOf("$b"))

	styled := testutil.Lex(New, text, testutil.Property("lexer.bash.styling.inside.string", "1"))
	require.Equal(t, StyleScalar, styled.StyleOf("$b"))
	require.Equal(t, StyleString, styled.StyleOf(" c\""))
}

func TestLex_CommandSubstitution(t *testing.T) {
	text := "a=$(ls -l)\n"
	kw := testutil.Keywords(0, DefaultKeywords[0])

	backticks := testutil.Lex(New, text, kw)
	require.Equal(t, StyleBackticks, backticks.StyleOf("$("))
	require.Equal(t, StyleBackticks, backticks.StyleOf("ls"))
	require.Equal(t, StyleBackticks, backticks.StyleOf(")"))

	inside := testutil.Lex(New, text, kw, testutil.Property("lexer.bash.command.substitution", "1"))
	require.Equal(t, StyleOperator, inside.StyleOf("$("))
	require.Equal(t, StyleWord, inside.StyleOf("ls"))
	require.Equal(t, StyleIdentifier, inside.StyleOf("-l"))
	require.Equal(t, StyleOperator, inside.StyleOf(")"))

	tracked := testutil.Lex(New, text, kw, testutil.Property("lexer.bash.command.substitution", "2"))
	require.Equal(t, StyleIdentifier, tracked.StyleOf("a"))
	require.Equal(t, StyleOperator|insideCommand, tracked.StyleOf("$("))
	require.Equal(t, StyleWord|insideCommand, tracked.StyleOf("ls"))
	require.Equal(t, StyleOperator|insideCommand, tracked.StyleOf(")"))
	require.Equal(t, StyleDefault, tracked.StyleOf("\n"))
	require.Equal(t, "SCE_SH_WORD_COMMAND", tracked.Lexer.NameOfStyle(StyleWord|insideCommand))
}

func TestLex_SpecialParameter(t *testing.T) {
	plain := testutil.Lex(New, "x $%\n")
	require.Equal(t, StyleDefault, plain.StyleOf("$%"))
	require.Equal(t, StyleOperator, plain.StyleOf("%"))

	special := testutil.Lex(New, "x $%\n", testutil.Property("lexer.bash.special.parameter", "%"))
	require.Equal(t, StyleScalar, special.StyleOf("$%"))
	require.Equal(t, StyleScalar, special.StyleOf("%"))
}

func TestLex_SubStyles(t *testing.T) {
	r := testutil.Lex(New, "echo $HOME; mytool\n",
		testutil.SubStyles(int(StyleIdentifier), "mytool"),
		testutil.SubStyles(int(StyleScalar), "HOME"))

	require.Equal(t, lexer.Style(0x81), r.StyleOf("$HOME"))
	require.Equal(t, lexer.Style(0x80), r.StyleOf("mytool"))
	require.Equal(t, StyleIdentifier, r.StyleOf("echo"))
	require.Equal(t, StyleScalar, r.Lexer.StyleFromSubStyle(0x81))
	require.Equal(t, string([]byte{byte(StyleIdentifier), byte(StyleScalar)}), r.Lexer.SubStyleBases())
	require.Equal(t, 0x82, r.Lexer.NamedStyles())
}

func TestFold_Blocks(t *testing.T) {
	r := testutil.NewBuilder(t, New).
		WithLines(
			"if x; then",
			"  f() {",
			"    y",
			"  }",
			"fi",
		).
		With(testutil.Property("fold", "1")).
		Build()

	require.True(t, r.Level(0).IsHeader())
	require.True(t, r.Level(1).IsHeader())
	for line, depth := range []int{0, 1, 2, 2, 1, 0} {
		require.Equal(t, depth, r.Depth(line), "line %d", line)
	}
}

func TestFold_Comments(t *testing.T) {
	text := "# a\n# b\nx\n"

	r := testutil.Lex(New, text, testutil.Property("fold", "1"), testutil.Property("fold.comment", "1"))
	require.True(t, r.Level(0).IsHeader())
	require.Equal(t, 1, r.Depth(1))
	require.Equal(t, 0, r.Depth(2))

	off := testutil.Lex(New, text, testutil.Property("fold", "1"))
	require.False(t, off.Level(0).IsHeader())
}

func TestFold_Disabled(t *testing.T) {
	r := testutil.Lex(New, "if x; then\nfi\n")

	require.Equal(t, lexer.LevelBase, r.Level(0))
}

func TestWordListSet(t *testing.T) {
	l := New()

	require.Equal(t, 0, l.WordListSet(0, "ls"))
	require.Equal(t, -1, l.WordListSet(0, "ls"), "unchanged list")
	require.Equal(t, -1, l.WordListSet(1, "x"))
	require.Equal(t, 0, l.PropertySet("lexer.bash.nesting.limit", "3"))
	require.Equal(t, "3", l.PropertyGet("lexer.bash.nesting.limit"))
	require.Equal(t, -1, l.PropertySet("lexer.bash.unknown", "1"))
	require.Equal(t, lexer.PropertyString, l.PropertyType("lexer.bash.special.parameter"))
	require.Equal(t, "SCE_SH_HERE_Q", l.NameOfStyle(StyleHereQ))
	require.Equal(t, int(StyleHereQ|insideCommand)+1, l.NamedStyles())
}

func TestProperties(t *testing.T) {
	text := rapid.StringMatching("[abdfiEO $\"'`(){}\\[\\]<>#\\\\;|=\n\t-]{0,60}")
	optionSets := [][]testutil.DocOption{
		{
			testutil.Keywords(0, "if fi do done echo"),
			testutil.Property("fold", "1"),
			testutil.Property("fold.comment", "1"),
		},
		{
			testutil.Keywords(0, "if fi do done echo"),
			testutil.Property("fold", "1"),
			testutil.Property("lexer.bash.command.substitution", "2"),
			testutil.Property("lexer.bash.styling.inside.string", "1"),
			testutil.Property("lexer.bash.styling.inside.heredoc", "1"),
			testutil.Property("lexer.bash.styling.inside.backticks", "1"),
			testutil.Property("lexer.bash.nesting.limit", "2"),
		},
	}
	rapid.Check(t, func(t *rapid.T) {
		src := text.Draw(t, "src")
		opts := rapid.SampledFrom(optionSets).Draw(t, "opts")

		testutil.CheckRestartFromLine(t, New, src, opts...)
		testutil.CheckIncrementalEdit(t, New, src, text, opts...)

		r := testutil.Lex(New, src, opts...)
		testutil.CheckFoldContinuity(t, r.Doc)
		testutil.CheckHeaders(t, r.Doc)
		testutil.CheckStylesNamed(t, r)
	})
}
