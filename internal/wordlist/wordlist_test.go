package wordlist

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestList_Set_ReportsChange(t *testing.T) {
	l := New()

	require.True(t, l.Set("if else  while\tfor\r\nend", false))
	require.Equal(t, 5, l.Length())
	require.Equal(t, []string{"else", "end", "for", "if", "while"}, l.Words())

	require.False(t, l.Set("while for if end else", false), "same words in another order are unchanged")
	require.True(t, l.Set("while for if", false))
	require.Equal(t, 3, l.Length())
}

func TestList_Set_LowerCase(t *testing.T) {
	l := New()
	l.Set("BEGIN End", true)

	require.True(t, l.InList("begin"))
	require.True(t, l.InList("end"))
	require.False(t, l.InList("BEGIN"))
}

func TestList_LineSeparated(t *testing.T) {
	l := NewLineSeparated()
	l.Set("long word\nother", false)

	require.True(t, l.InList("long word"))
	require.False(t, l.InList("long"))
	require.True(t, l.InList("other"))
}

func TestList_InList(t *testing.T) {
	l := New()
	l.Set("function local ^GTK_ end", false)

	tests := []struct {
		word     string
		expected bool
	}{
		{"function", true},
		{"func", false},
		{"functions", false},
		{"local", true},
		{"GTK_WINDOW", true},
		{"GTK_", true},
		{"GTK", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, l.InList(tt.word), "InList(%q)", tt.word)
	}
}

func TestList_InList_Empty(t *testing.T) {
	l := New()
	require.False(t, l.InList("anything"))
	require.True(t, l.Empty())
}

func TestList_InListAbbreviated(t *testing.T) {
	l := New()
	l.Set("def~ine else", false)

	tests := []struct {
		word     string
		expected bool
	}{
		{"def", true},
		{"defi", true},
		{"define", true},
		{"de", false},
		{"defines", false},
		{"else", true},
		{"els", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, l.InListAbbreviated(tt.word, '~'), "InListAbbreviated(%q)", tt.word)
	}
}

func TestList_InListAbridged(t *testing.T) {
	l := New()
	l.Set("after.~: ~.is.valid plain", false)

	tests := []struct {
		word     string
		expected bool
	}{
		{"after.field:", true},
		{"after.form.item:", true},
		{"after.field", false},
		{"field.is.valid", true},
		{"form.is.valid", true},
		{"is.valid", false},
		{"plain", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, l.InListAbridged(tt.word, '~'), "InListAbridged(%q)", tt.word)
	}
}

func TestList_InList_MatchesLinearScan(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gen := rapid.StringMatching(`[a-c]{1,4}`)
		words := rapid.SliceOf(gen).Draw(t, "words")
		word := gen.Draw(t, "word")

		l := New()
		l.Set(strings.Join(words, " "), false)

		if got, want := l.InList(word), slices.Contains(words, word); got != want {
			t.Fatalf("InList(%q) = %v, linear scan says %v (words %v)", word, got, want, words)
		}
	})
}

func TestSubStyles_Allocate(t *testing.T) {
	s := NewSubStyles([]int{11, 12}, 0x80, 0x40, 0)

	first := s.Allocate(11, 3)
	require.Equal(t, 0x80, first)
	require.Equal(t, 0x80, s.Start(11))
	require.Equal(t, 3, s.Length(11))

	second := s.Allocate(12, 2)
	require.Equal(t, 0x83, second)
	require.Equal(t, 0x80, s.FirstAllocated())
	require.Equal(t, 0x84, s.LastAllocated())

	require.Equal(t, 11, s.BaseStyle(0x81))
	require.Equal(t, 12, s.BaseStyle(0x84))
	require.Equal(t, 5, s.BaseStyle(5))

	require.Equal(t, -1, s.Allocate(3, 1), "style without sub-styles")
	require.Equal(t, -1, s.Allocate(11, 0x40), "not enough room")
}

func TestSubStyles_SetIdentifiers(t *testing.T) {
	s := NewSubStyles([]int{11}, 0x80, 0x40, 0)
	start := s.Allocate(11, 2)

	s.SetIdentifiers(start, "alpha beta")
	s.SetIdentifiers(start+1, "gamma\nbeta")

	c := s.Classifier(11)
	require.Equal(t, start, c.ValueFor("alpha"))
	require.Equal(t, start+1, c.ValueFor("beta"), "later assignment wins")
	require.Equal(t, start+1, c.ValueFor("gamma"))
	require.Equal(t, -1, c.ValueFor("delta"))

	s.SetIdentifiers(start, "")
	require.Equal(t, -1, c.ValueFor("alpha"))

	s.Free()
	require.Equal(t, -1, s.FirstAllocated())
	require.Equal(t, -1, c.ValueFor("gamma"))
}
