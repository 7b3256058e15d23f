package presentation

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/stylex/internal/catalogue"
	"github.com/zjrosen/stylex/internal/lexer"
	"github.com/zjrosen/stylex/internal/pubsub"
	"github.com/zjrosen/stylex/internal/render"
	"github.com/zjrosen/stylex/internal/session"
)

func TestFromFoldLine(t *testing.T) {
	dto := FromFoldLine(render.FoldLine{Line: 0, Level: lexer.LevelBase | lexer.LevelHeaderFlag, Depth: 0, Header: true, Next: 1})
	require.Equal(t, 1, dto.Line)
	require.NotNil(t, dto.Next)
	require.Equal(t, 1, *dto.Next)

	dto = FromFoldLine(render.FoldLine{Line: 4, Depth: 2, Next: -1})
	require.Nil(t, dto.Next)
}

func TestFromModule(t *testing.T) {
	m, err := catalogue.Default().Lookup("lua")
	require.NoError(t, err)

	short := FromModule(m, false)
	assert.Equal(t, "lua", short.Name)
	assert.Contains(t, short.Extensions, ".lua")
	assert.True(t, short.Converges)
	assert.Empty(t, short.Properties)

	full := FromModule(m, true)
	require.NotEmpty(t, full.Properties)
	require.NotEmpty(t, full.WordLists)
	require.NotEmpty(t, full.Styles)
	assert.Equal(t, "fold.compact", full.Properties[0].Name)
	assert.Equal(t, 0, full.WordLists[0].Slot)
	assert.Equal(t, "SCE_LUA_DEFAULT", full.Styles[0].Name)
}

func TestFromEvent(t *testing.T) {
	dto := FromEvent(pubsub.Event[session.Restyle]{
		Type:      pubsub.RestyledEvent,
		Timestamp: time.Now(),
		Payload:   session.Restyle{DocumentID: "doc", Language: "cpp", Version: 3, FirstLine: 4, LastLine: 9},
	})
	assert.Equal(t, RestyleDTO{Event: "restyled", DocumentID: "doc", Language: "cpp", Version: 3, FirstLine: 5, LastLine: 10}, dto)

	closed := FromEvent(pubsub.Event[session.Restyle]{
		Type:    pubsub.ClosedEvent,
		Payload: session.Restyle{DocumentID: "doc", FirstLine: -1, LastLine: -1},
	})
	out, err := json.Marshal(closed)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "first_line")
}

func TestFormatter_FormatTokens(t *testing.T) {
	var buf bytes.Buffer
	tokens := []TokenDTO{{Line: 1, Column: 1, Length: 5, Style: 5, Name: "SCE_LUA_WORD", Tags: "keyword", Text: "local"}}

	require.NoError(t, NewFormatter(&buf).FormatTokens(tokens))

	var back []TokenDTO
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, tokens, back)
	assert.Contains(t, buf.String(), "\n  {", "output is indented")
}

func TestFormatter_FormatTokensText(t *testing.T) {
	var buf bytes.Buffer
	tokens := []TokenDTO{
		{Line: 1, Column: 1, Name: "SCE_LUA_WORD", Text: "local"},
		{Line: 1, Column: 6, Name: "SCE_LUA_DEFAULT", Text: " "},
		{Line: 10, Column: 12, Name: "SCE_LUA_STRING", Text: "\"a\tb\""},
	}

	require.NoError(t, NewFormatter(&buf).FormatTokensText(tokens))
	assert.Equal(t, ""+
		"1:1    SCE_LUA_WORD     \"local\"\n"+
		"1:6    SCE_LUA_DEFAULT  \" \"\n"+
		"10:12  SCE_LUA_STRING   \"\\\"a\\tb\\\"\"\n", buf.String())
}

func TestFormatter_FormatFoldsText(t *testing.T) {
	var buf bytes.Buffer
	one, zero := 1, 0
	folds := []FoldDTO{
		{Line: 1, Depth: 0, Header: true, Next: &one},
		{Line: 2, Depth: 1, Next: &one},
		{Line: 3, Depth: 1, White: true, Next: &zero},
	}

	require.NoError(t, NewFormatter(&buf).FormatFoldsText(folds))
	assert.Equal(t, ""+
		"1    0  H   next=1\n"+
		"2    1      next=1\n"+
		"3    1  W   next=0\n", buf.String())
}

func TestFormatter_FormatEvent(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	require.NoError(t, f.FormatEvent(RestyleDTO{Event: "restyled", FirstLine: 1, LastLine: 2}))
	require.NoError(t, f.FormatEvent(RestyleDTO{Event: "closed"}))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2, "one JSON object per line")
}

func TestFormatter_FormatEventText(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	require.NoError(t, f.FormatEventText(RestyleDTO{Event: "restyled", Version: 2, FirstLine: 3, LastLine: 5}))
	require.NoError(t, f.FormatEventText(RestyleDTO{Event: "restyled", Version: 3, FirstLine: 4, LastLine: 4, Converged: true}))
	require.NoError(t, f.FormatEventText(RestyleDTO{Event: "closed", Version: 3}))

	assert.Equal(t, ""+
		"v2  restyled  lines 3-5\n"+
		"v3  restyled  line 4  converged\n"+
		"v3  closed  no lines\n", buf.String())
}

func TestFormatter_FormatLanguagesText(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(&buf).FormatLanguagesText([]LanguageDTO{
		{Name: "lua", Extensions: []string{".lua"}, Description: "Lua"},
		{Name: "bash", Extensions: []string{".sh", ".bash"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "lua   .lua       Lua\nbash  .sh .bash\n", buf.String())
}

func TestFormatter_FormatLanguageText(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(&buf).FormatLanguageText(LanguageDTO{
		Name: "lua",
		ID:   15,
		Properties: []PropertyDTO{
			{Name: "fold.compact", Type: "bool", Default: "1", Description: "Fold blank lines into the block after them"},
		},
		WordLists: []WordListDTO{{Slot: 0, Description: "Keywords"}},
		Styles:    []StyleDTO{{Value: 0, Name: "SCE_LUA_DEFAULT", Tags: "default"}},
	}, 30)
	require.NoError(t, err)

	want := "lua (lexer 15)\n" +
		"\nProperties\n" +
		"  fold.compact  bool   default \"1\"\n" +
		"      Fold blank lines into\n" +
		"      the block after them\n" +
		"\nKeyword lists\n" +
		"  0. Keywords\n" +
		"\nStyles\n" +
		"    0  SCE_LUA_DEFAULT  default\n"
	assert.Equal(t, want, buf.String())
}
