package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"github.com/zjrosen/stylex/internal/catalogue"
	"github.com/zjrosen/stylex/internal/config"
	"github.com/zjrosen/stylex/internal/lexer"
	"github.com/zjrosen/stylex/internal/lexers/lua"
	"github.com/zjrosen/stylex/internal/session"
)

func openDocument(t *testing.T, language, text string, settings session.Settings) *Document {
	t.Helper()
	m := session.NewManager(catalogue.Default())
	t.Cleanup(func() { m.Shutdown(context.Background()) })
	s, err := m.Open(context.Background(), language, text, settings)
	require.NoError(t, err)
	snap, err := s.Snapshot()
	require.NoError(t, err)
	return NewDocument(snap)
}

func plainTheme() *Theme {
	return NewTheme(&bytes.Buffer{}, config.Defaults().Theme, WithProfile(termenv.Ascii))
}

const luaFunction = "function f()\n  return 1\nend\n"

func TestTheme_Lookup(t *testing.T) {
	theme := NewTheme(&bytes.Buffer{}, config.ThemeConfig{Colors: map[string]any{
		"comment":               "#111111",
		"comment.documentation": "#222222",
		"literal.string":        "#333333",
	}})

	tests := []struct {
		tags string
		want string
	}{
		{tags: "comment", want: "comment"},
		{tags: "comment line", want: "comment"},
		{tags: "comment documentation line", want: "comment.documentation"},
		{tags: "literal string character", want: "literal.string"},
		{tags: "literal numeric", want: ""},
		{tags: "inactive comment", want: ""},
		{tags: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.tags, func(t *testing.T) {
			assert.Equal(t, tt.want, theme.Lookup(tt.tags))
		})
	}
}

func TestTheme_Style(t *testing.T) {
	colored := NewTheme(&bytes.Buffer{}, config.Defaults().Theme, WithProfile(termenv.TrueColor))
	require.Contains(t, colored.Style("keyword").Render("if"), "\x1b[")
	require.Equal(t, "x", colored.Style("identifier").Render("x"), "identifiers have no colour by default")

	require.Equal(t, "if", plainTheme().Style("keyword").Render("if"))
}

func TestTheme_Colors(t *testing.T) {
	colors := plainTheme().Colors()
	colors["keyword"] = "#000000"
	require.Equal(t, "#569CD6", plainTheme().Colors()["keyword"])
}

func TestRender_PlainText(t *testing.T) {
	d := openDocument(t, "lua", luaFunction, session.Settings{})

	var out bytes.Buffer
	require.NoError(t, plainTheme().Render(&out, d, Options{}))
	require.Equal(t, luaFunction, out.String())
}

func TestRender_Margin(t *testing.T) {
	d := openDocument(t, "lua", luaFunction, session.Settings{})

	var out bytes.Buffer
	require.NoError(t, plainTheme().Render(&out, d, Options{Margin: true}))
	require.Equal(t, "1 - function f()\n2 |   return 1\n3 | end\n", out.String())

	out.Reset()
	require.NoError(t, plainTheme().Render(&out, d, Options{Margin: true, Folded: map[int]bool{0: true}}))
	require.Equal(t, "1 + function f()\n", out.String())
}

func TestRender_Colored(t *testing.T) {
	d := openDocument(t, "lua", "-- note\nx = 1\n", session.Settings{})
	theme := NewTheme(&bytes.Buffer{}, config.Defaults().Theme, WithProfile(termenv.TrueColor))

	line := theme.Line(d, 0)
	require.Contains(t, line, "\x1b[")
	require.Contains(t, line, "-- note")
}

func TestDocument_Runs(t *testing.T) {
	d := openDocument(t, "lua", "local x = 1\n", session.Settings{})

	runs := d.Runs(0)
	require.Len(t, runs, 7)
	require.Equal(t, Run{Start: 0, End: 5, Style: lua.StyleWord, Text: "local"}, runs[0])
	require.Equal(t, "x", runs[2].Text)
	require.Equal(t, lua.StyleIdentifier, runs[2].Style)
	require.Equal(t, "SCE_LUA_WORD", d.Name(lua.StyleWord))
	require.Equal(t, "keyword", d.Tags(lua.StyleWord))

	require.Empty(t, d.Runs(1), "the empty last line has no runs")
	require.Equal(t, 2, d.LineCount())
}

func TestTokens(t *testing.T) {
	d := openDocument(t, "lua", "\"é\" x\nlocal y\n", session.Settings{})

	tokens := Tokens(d)
	require.Len(t, tokens, 6)

	require.Equal(t, Token{Line: 1, Column: 1, Pos: 0, Length: 4, Style: lua.StyleString, Name: "SCE_LUA_STRING", Tags: "literal string", Text: "\"é\""}, tokens[0])
	require.Equal(t, 4, tokens[1].Column)
	require.Equal(t, 5, tokens[2].Column, "columns count characters, not bytes")
	require.Equal(t, 5, tokens[2].Pos)

	require.Equal(t, 2, tokens[3].Line)
	require.Equal(t, 1, tokens[3].Column)
	require.Equal(t, "local", tokens[3].Text)
}

func TestDecode(t *testing.T) {
	sjis, err := japanese.ShiftJIS.NewEncoder().String("日本")
	require.NoError(t, err)
	require.NotEqual(t, "日本", sjis)

	require.Equal(t, "日本", Decode(932, []byte(sjis)))
	require.Equal(t, sjis, Decode(0, []byte(sjis)), "UTF-8 documents pass through")
	require.Equal(t, "plain", Decode(949, []byte("plain")))
}

func TestDocument_DBCSText(t *testing.T) {
	sjis, err := japanese.ShiftJIS.NewEncoder().String("-- 日本\nx = 1\n")
	require.NoError(t, err)

	d := openDocument(t, "lua", sjis, session.Settings{CodePage: 932})

	require.Equal(t, "-- 日本", d.Text(0))
	runs := d.Runs(0)
	require.Len(t, runs, 1)
	require.Equal(t, lua.StyleCommentLine, runs[0].Style)
	require.Equal(t, "-- 日本", runs[0].Text)
}

func TestFolds(t *testing.T) {
	d := openDocument(t, "lua", luaFunction, session.Settings{})

	folds := Folds(d.Snapshot().Levels)
	require.Len(t, folds, 4)
	require.True(t, folds[0].Header)
	require.Equal(t, 0, folds[0].Depth)
	require.Equal(t, 1, folds[0].Next)
	require.Equal(t, 1, folds[1].Depth)
	require.False(t, folds[1].Header)
	require.Equal(t, 0, folds[2].Next)
}

func TestFoldEnd(t *testing.T) {
	base := int(lexer.LevelBase)
	header := func(n int) lexer.FoldLevel { return lexer.PackLevel(base+n, base+n+1, false) }
	body := func(n int) lexer.FoldLevel { return lexer.PackLevel(base+n, base+n, false) }
	white := func(n int) lexer.FoldLevel { return lexer.PackLevel(base+n, base+n, true) }

	levels := []lexer.FoldLevel{
		header(0), // 0
		header(1), // 1
		body(2),   // 2
		white(1),  // 3
		body(1),   // 4
		white(0),  // 5
		body(0),   // 6
		header(0), // 7
	}

	assert.Equal(t, 4, FoldEnd(levels, 0))
	assert.Equal(t, 2, FoldEnd(levels, 1))
	assert.Equal(t, 6, FoldEnd(levels, 6), "not a header")
	assert.Equal(t, 7, FoldEnd(levels, 7), "header with nothing under it")

	assert.Equal(t, []int{0, 1}, Headers(levels))
	assert.Equal(t, []int{0, 5, 6, 7}, Visible(levels, map[int]bool{0: true}))
	assert.Equal(t, []int{0, 1, 3, 4, 5, 6, 7}, Visible(levels, map[int]bool{1: true}))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, Visible(levels, nil))

	assert.Equal(t, 1, Enclosing(levels, 2))
	assert.Equal(t, 0, Enclosing(levels, 3))
	assert.Equal(t, 0, Enclosing(levels, 0))
	assert.Equal(t, -1, Enclosing(levels, 6))
	assert.Equal(t, -1, Enclosing(levels, 99))
}

func TestMarker(t *testing.T) {
	d := openDocument(t, "lua", luaFunction, session.Settings{})

	assert.Equal(t, MarkerExpanded, Marker(d, 0, false))
	assert.Equal(t, MarkerCollapsed, Marker(d, 0, true))
	assert.Equal(t, MarkerBody, Marker(d, 1, false))
	assert.Equal(t, " ", Marker(d, 3, false))
	assert.Equal(t, 4, MarginWidth(NumberWidth(d)))
}
