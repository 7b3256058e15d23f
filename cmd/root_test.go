package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/stylex/internal/config"
	"github.com/zjrosen/stylex/internal/paths"
	"github.com/zjrosen/stylex/internal/presentation"
)

const luaFunction = "function f()\n  return 1\nend\n"

// syncBuffer is written by the command while the test reads it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// workspace runs the test in an empty directory with its own home.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", filepath.Join(dir, "home"))
	t.Setenv("STYLEX_DEBUG", "")
	return dir
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// resetFlags puts every flag back to its default so runs do not leak into
// each other through the package level flag variables.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runContext(ctx context.Context, t *testing.T, stdin string, out *syncBuffer, args ...string) error {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.ExecuteContext(ctx)
	if env != nil {
		env.close()
		env = nil
	}
	return err
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out syncBuffer
	err := runContext(context.Background(), t, "", &out, args...)
	return out.String(), err
}

func TestLex_Plain(t *testing.T) {
	workspace(t)
	writeFile(t, "main.lua", "local x = 1\n")

	out, err := run(t, "lex", "main.lua")
	require.NoError(t, err)
	require.Equal(t, "local x = 1\n", out)
}

func TestLex_Margin(t *testing.T) {
	workspace(t)
	writeFile(t, "main.lua", luaFunction)

	out, err := run(t, "lex", "--margin", "main.lua")
	require.NoError(t, err)
	require.Equal(t, "1 - function f()\n2 |   return 1\n3 | end\n", out)
}

func TestLex_Tokens(t *testing.T) {
	workspace(t)
	writeFile(t, "main.lua", "local x = 1\n")

	out, err := run(t, "lex", "--tokens", "main.lua")
	require.NoError(t, err)
	first := strings.SplitN(out, "\n", 2)[0]
	require.Contains(t, first, "1:1")
	require.Contains(t, first, "SCE_LUA_WORD")
	require.Contains(t, first, `"local"`)
}

func TestLex_JSONFromStdin(t *testing.T) {
	workspace(t)

	var out syncBuffer
	err := runContext(context.Background(), t, "local x = 1\n", &out, "lex", "--json", "--lang", "lua", "-")
	require.NoError(t, err)

	var tokens []presentation.TokenDTO
	require.NoError(t, json.Unmarshal([]byte(out.String()), &tokens))
	require.NotEmpty(t, tokens)
	require.Equal(t, "local", tokens[0].Text)
	require.Equal(t, "SCE_LUA_WORD", tokens[0].Name)
}

func TestLex_DetectsInterpreter(t *testing.T) {
	workspace(t)
	writeFile(t, "build", "#!/bin/bash\necho hi\n")

	out, err := run(t, "lex", "--tokens", "build")
	require.NoError(t, err)
	require.Contains(t, out, "SCE_SH_")
}

func TestLex_Errors(t *testing.T) {
	workspace(t)
	writeFile(t, "main.lua", "x = 1\n")
	writeFile(t, "notes.unknownext", "hello\n")

	_, err := run(t, "lex", "notes.unknownext")
	require.ErrorContains(t, err, "--lang")

	_, err = run(t, "lex", "--prop", "no.such.option=1", "main.lua")
	require.ErrorIs(t, err, config.ErrUnknownProperty)

	_, err = run(t, "lex", "--prop", "fold.compact", "main.lua")
	require.ErrorContains(t, err, "key=value")

	_, err = run(t, "lex", "missing.lua")
	require.Error(t, err)
}

func TestFold_JSON(t *testing.T) {
	workspace(t)
	writeFile(t, "main.lua", luaFunction)

	out, err := run(t, "fold", "--json", "main.lua")
	require.NoError(t, err)

	var folds []presentation.FoldDTO
	require.NoError(t, json.Unmarshal([]byte(out), &folds))
	require.Len(t, folds, 4)
	require.Equal(t, 1, folds[0].Line)
	require.True(t, folds[0].Header)
	require.Equal(t, 1, folds[1].Depth)
	require.False(t, folds[1].Header)
}

func TestFold_Text(t *testing.T) {
	workspace(t)
	writeFile(t, "main.lua", luaFunction)

	out, err := run(t, "fold", "main.lua")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "1    0  H   next=1", lines[0])
}

func TestLanguages(t *testing.T) {
	workspace(t)

	out, err := run(t, "languages")
	require.NoError(t, err)
	require.Contains(t, out, "lua")
	require.Contains(t, out, "cpp")

	out, err = run(t, "languages", "--json", "--ext", "lua")
	require.NoError(t, err)
	var langs []presentation.LanguageDTO
	require.NoError(t, json.Unmarshal([]byte(out), &langs))
	require.Len(t, langs, 1)
	require.Equal(t, "lua", langs[0].Name)
}

func TestLanguages_ConfiguredExtension(t *testing.T) {
	workspace(t)
	writeFile(t, paths.LocalConfigFile, "extensions:\n  luau: lua\n")

	out, err := run(t, "languages", "--json", "--ext", ".luau")
	require.NoError(t, err)
	var langs []presentation.LanguageDTO
	require.NoError(t, json.Unmarshal([]byte(out), &langs))
	require.Len(t, langs, 1)
	require.Equal(t, "lua", langs[0].Name)
}

func TestDescribe(t *testing.T) {
	workspace(t)

	out, err := run(t, "describe", "--plain", "lua")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "lua (lexer "), out)
	require.Contains(t, out, "fold.compact")
	require.Contains(t, out, "SCE_LUA_WORD")

	out, err = run(t, "describe", "--json", "LUA")
	require.NoError(t, err)
	var lang presentation.LanguageDTO
	require.NoError(t, json.Unmarshal([]byte(out), &lang))
	require.Equal(t, "lua", lang.Name)
	require.NotEmpty(t, lang.Styles)

	out, err = run(t, "describe", "lua")
	require.NoError(t, err)
	require.Contains(t, out, "Styles")

	_, err = run(t, "describe", "cobol")
	require.Error(t, err)
}

func TestConfig_DefaultWrittenOnFirstRun(t *testing.T) {
	workspace(t)

	_, err := run(t, "languages")
	require.NoError(t, err)
	data, err := os.ReadFile(paths.LocalConfigFile)
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfigTemplate(), string(data))

	out, err := run(t, "config", "path")
	require.NoError(t, err)
	require.Equal(t, paths.LocalConfigFile+"\n", out)
}

func TestConfig_Init(t *testing.T) {
	workspace(t)

	_, err := run(t, "config", "init")
	require.NoError(t, err, "a freshly written default counts as initialized")

	writeFile(t, paths.LocalConfigFile, "watch:\n  debounce: 1s\n")
	_, err = run(t, "config", "init")
	require.ErrorContains(t, err, "--force")

	_, err = run(t, "config", "init", "--force")
	require.NoError(t, err)
	data, err := os.ReadFile(paths.LocalConfigFile)
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfigTemplate(), string(data))
}

func TestConfig_ExplicitFile(t *testing.T) {
	workspace(t)

	_, err := run(t, "--config", "custom.yaml", "languages")
	require.ErrorIs(t, err, errConfigNotFound)

	_, err = run(t, "--config", "custom.yaml", "config", "init")
	require.NoError(t, err)
	_, err = os.Stat("custom.yaml")
	require.NoError(t, err)

	_, err = run(t, "--config", "custom.yaml", "languages")
	require.NoError(t, err)
}

func TestConfig_Invalid(t *testing.T) {
	workspace(t)
	writeFile(t, paths.LocalConfigFile, "languages:\n  lua:\n    properties:\n      bogus: 1\n")

	_, err := run(t, "languages")
	require.ErrorContains(t, err, "invalid configuration")
	require.ErrorIs(t, err, config.ErrUnknownProperty)
}

func TestConfig_Export(t *testing.T) {
	workspace(t)
	writeFile(t, paths.LocalConfigFile, "watch:\n  debounce: 250ms\n")

	out, err := run(t, "config", "export", "--format", "toml")
	require.NoError(t, err)
	require.Contains(t, out, "[watch]")
	require.Contains(t, out, "250ms")

	_, err = run(t, "config", "export", "--format", "ini")
	require.Error(t, err)
}

func TestConfig_Set(t *testing.T) {
	workspace(t)
	writeFile(t, paths.LocalConfigFile, "# keep me\nwatch:\n  debounce: 250ms\n")

	_, err := run(t, "config", "set", "lua", "fold.compact=0", "--keywords", "1=assert pcall")
	require.NoError(t, err)

	data, err := os.ReadFile(paths.LocalConfigFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "# keep me")
	require.Contains(t, string(data), "assert pcall")

	v := config.NewViper()
	v.SetConfigFile(paths.LocalConfigFile)
	require.NoError(t, v.ReadInConfig())
	loaded, err := config.Load(v)
	require.NoError(t, err)
	lua := loaded.Language("lua")
	assert.Equal(t, "0", lua.FlattenedProperties()["fold.compact"])
	assert.Equal(t, []config.KeywordList{{Slot: 1, Words: "assert pcall"}}, lua.Keywords)

	_, err = run(t, "config", "set", "lua", "bogus=1")
	require.ErrorIs(t, err, config.ErrUnknownProperty)

	_, err = run(t, "config", "set", "lua", "--keywords", "x=words")
	require.ErrorContains(t, err, "SLOT=WORDS")
}

func TestDebugLog(t *testing.T) {
	dir := workspace(t)
	writeFile(t, "main.lua", "x = 1\n")

	_, err := run(t, "--debug", "--log-level", "debug", "lex", "main.lua")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "home", ".config", "stylex", "stylex.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "Starting")
	require.Contains(t, string(data), "Opening file")
}

func TestWatch(t *testing.T) {
	workspace(t)
	path := writeFile(t, "main.lua", "x = 1\n")
	writeFile(t, paths.LocalConfigFile, "watch:\n  debounce: 20ms\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var out syncBuffer
	done := make(chan error, 1)
	go func() { done <- runContext(ctx, t, "", &out, "watch", "main.lua") }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Watching")
	}, 5*time.Second, 10*time.Millisecond, "the file is read before it changes")

	// The watch may register after the first write, so every write differs.
	writes := 0
	require.Eventually(t, func() bool {
		writes++
		content := fmt.Sprintf("x = 1\nlocal y = %d\n", writes)
		_ = os.WriteFile(path, []byte(content), 0o600)
		return strings.Contains(out.String(), "restyled")
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	require.Contains(t, out.String(), "Watching main.lua as lua")
}

func TestWatch_RejectsStdin(t *testing.T) {
	workspace(t)

	_, err := run(t, "watch", "-")
	require.ErrorContains(t, err, "standard input")
}
