package modeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFind_Header(t *testing.T) {
	text := "#!/bin/sh\n# stylex: lang=bash fold=1 lexer.bash.nested.backticks=0\necho hi\n"

	m, err := Find(text)
	require.NoError(t, err)
	require.Equal(t, "bash", m.Language)
	require.Equal(t, map[string]string{"fold": "1", "lexer.bash.nested.backticks": "0"}, m.Properties)
	require.Empty(t, m.Keywords)
}

func TestFind_TrailerWithCommentCloser(t *testing.T) {
	body := strings.Repeat("int x;\n", 20)
	text := body + "/* stylex: fold=1 keywords.1=\"Widget Gadget\" */\n"

	m, err := Find(text)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"fold": "1"}, m.Properties)
	require.Equal(t, map[int]string{1: "Widget Gadget"}, m.Keywords)
}

func TestFind_IgnoresMiddle(t *testing.T) {
	lines := make([]string, 30)
	lines[15] = "-- stylex: fold=1"
	m, err := Find(strings.Join(lines, "\n"))
	require.NoError(t, err)
	require.True(t, m.Empty())
}

func TestFind_LaterOverrides(t *testing.T) {
	m, err := Find("# stylex: fold=0 lang=lua\n# stylex: fold=1\n")
	require.NoError(t, err)
	require.Equal(t, "1", m.Properties["fold"])
	require.Equal(t, "lua", m.Language)
}

func TestFind_Errors(t *testing.T) {
	_, err := Find("# stylex: fold='1\n")
	require.ErrorContains(t, err, "line 1")

	_, err = Find("x\n# stylex: keywords.x=a\n")
	require.ErrorContains(t, err, "line 2")

	_, err = Parse("=1")
	require.Error(t, err)
}

func TestParse_CRLF(t *testing.T) {
	m, err := Parse(" fold.compact=0\r")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"fold.compact": "0"}, m.Properties)
}
