package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSet_Contains(t *testing.T) {
	tests := []struct {
		name     string
		set      Set
		ch       rune
		expected bool
	}{
		{name: "lower letter in alpha", set: New(Alpha, ""), ch: 'q', expected: true},
		{name: "digit not in alpha", set: New(Alpha, ""), ch: '7', expected: false},
		{name: "digit in alphanum", set: New(AlphaNum, ""), ch: '7', expected: true},
		{name: "extra char included", set: New(AlphaNum, "_"), ch: '_', expected: true},
		{name: "negative never member", set: New(AlphaNum, ""), ch: -1, expected: false},
		{name: "high char uses valueAfter false", set: New(AlphaNum, ""), ch: 'é', expected: false},
		{name: "high char uses valueAfter true", set: NewAfter(AlphaNum, "", true), ch: 'é', expected: true},
		{name: "upper only excludes lower", set: New(Upper, ""), ch: 'a', expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.set.Contains(tt.ch))
		})
	}
}

func TestSet_Union(t *testing.T) {
	a := New(Digits, "")
	b := NewAfter(None, "+-", true)

	u := a.Union(b)

	require.True(t, u.Contains('5'))
	require.True(t, u.Contains('+'))
	require.True(t, u.Contains(0x3b1))
	require.False(t, a.Contains('+'), "union must not mutate the receiver")
}

func TestIsADigitBase(t *testing.T) {
	tests := []struct {
		ch       rune
		base     int
		expected bool
	}{
		{'1', 2, true},
		{'2', 2, false},
		{'7', 8, true},
		{'8', 8, false},
		{'f', 16, true},
		{'F', 16, true},
		{'g', 16, false},
		{'z', 36, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, IsADigitBase(tt.ch, tt.base), "%q base %d", tt.ch, tt.base)
	}
}

func TestIsOperator(t *testing.T) {
	for _, ch := range "%^&*()-+=|{}[]:;<>,/?!.~" {
		assert.True(t, IsOperator(ch), "%q", ch)
	}
	for _, ch := range "aZ09 _\"'#$@\\`" {
		assert.False(t, IsOperator(ch), "%q", ch)
	}
}

func TestIsDBCSLeadByte(t *testing.T) {
	require.True(t, IsDBCSLeadByte(932, 0x82))
	require.False(t, IsDBCSLeadByte(932, 0xA0))
	require.True(t, IsDBCSLeadByte(936, 0xB0))
	require.True(t, IsDBCSLeadByte(1361, 0xD8))
	require.False(t, IsDBCSLeadByte(1361, 0xD5))
	require.False(t, IsDBCSLeadByte(65001, 0xC3))
	require.False(t, IsDBCSLeadByte(0, 0x82))
}

func TestIsXIDStart(t *testing.T) {
	require.True(t, IsXIDStart('a'))
	require.True(t, IsXIDStart('é'))
	require.True(t, IsXIDStart('名'))
	require.False(t, IsXIDStart('1'))
	require.False(t, IsXIDStart('_'))
	require.True(t, IsXIDContinue('_'))
	require.True(t, IsXIDContinue('1'))
	require.False(t, IsXIDContinue('+'))
	require.False(t, IsXIDContinue(-1))
}

func TestCaseMapping_OnlyTouchesASCII(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ch := rapid.Rune().Draw(t, "ch")
		lowered := MakeLowerCase(ch)
		if ch >= 'A' && ch <= 'Z' {
			if lowered != ch+('a'-'A') {
				t.Fatalf("MakeLowerCase(%q) = %q", ch, lowered)
			}
		} else if lowered != ch {
			t.Fatalf("MakeLowerCase(%q) changed a non-upper rune to %q", ch, lowered)
		}
		if MakeUpperCase(MakeLowerCase(ch)) != MakeUpperCase(ch) {
			t.Fatalf("case round trip broke for %q", ch)
		}
	})
}
