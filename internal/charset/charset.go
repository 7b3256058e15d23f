// Package charset provides character classification used by the lexers.
// All predicates take a code point and are safe to call with any value,
// including negative sentinels and values beyond the ASCII range.
package charset

import (
	"strings"
	"unicode"
)

// Base selects the predefined members of a Set.
type Base int

const (
	None     Base = 0
	Lower    Base = 1
	Upper    Base = 2
	Digits   Base = 4
	Alpha         = Lower | Upper
	AlphaNum      = Alpha | Digits
)

const setSize = 0x80

// Set is a membership table for ASCII characters. Characters at or beyond
// 0x80 report the set's valueAfter flag, which lets word sets accept any
// non-ASCII byte or code point.
type Set struct {
	members    [setSize]bool
	valueAfter bool
}

// New creates a set from a base class plus the characters in extra.
func New(base Base, extra string) Set {
	return NewAfter(base, extra, false)
}

// NewAfter is like New but also decides membership of characters >= 0x80.
func NewAfter(base Base, extra string, valueAfter bool) Set {
	var s Set
	s.valueAfter = valueAfter
	if base&Lower != 0 {
		s.AddString("abcdefghijklmnopqrstuvwxyz")
	}
	if base&Upper != 0 {
		s.AddString("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}
	if base&Digits != 0 {
		s.AddString("0123456789")
	}
	s.AddString(extra)
	return s
}

// Add includes ch in the set. Values outside the table are ignored.
func (s *Set) Add(ch rune) {
	if ch >= 0 && ch < setSize {
		s.members[ch] = true
	}
}

// AddString includes every byte of chars in the set.
func (s *Set) AddString(chars string) {
	for i := 0; i < len(chars); i++ {
		s.Add(rune(chars[i]))
	}
}

// Union returns a set holding the members of both sets.
func (s Set) Union(other Set) Set {
	for i := range s.members {
		s.members[i] = s.members[i] || other.members[i]
	}
	s.valueAfter = s.valueAfter || other.valueAfter
	return s
}

// Contains reports whether ch is a member.
func (s *Set) Contains(ch rune) bool {
	if ch < 0 {
		return false
	}
	if ch >= setSize {
		return s.valueAfter
	}
	return s.members[ch]
}

// ContainsByte reports whether the byte b is a member.
func (s *Set) ContainsByte(b byte) bool {
	return s.Contains(rune(b))
}

func IsASCII(ch rune) bool {
	return ch >= 0 && ch < 0x80
}

func IsLowerCase(ch rune) bool {
	return ch >= 'a' && ch <= 'z'
}

func IsUpperCase(ch rune) bool {
	return ch >= 'A' && ch <= 'Z'
}

func IsUpperOrLowerCase(ch rune) bool {
	return IsUpperCase(ch) || IsLowerCase(ch)
}

// IsADigit reports whether ch is a decimal digit.
func IsADigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// IsADigitBase reports whether ch is a digit in the given base (2..36).
func IsADigitBase(ch rune, base int) bool {
	if base <= 10 {
		return ch >= '0' && ch < '0'+rune(base)
	}
	return (ch >= '0' && ch <= '9') ||
		(ch >= 'A' && ch < 'A'+rune(base)-10) ||
		(ch >= 'a' && ch < 'a'+rune(base)-10)
}

func IsAlphaNumeric(ch rune) bool {
	return IsADigit(ch) || IsUpperOrLowerCase(ch)
}

// IsASpace matches space and the C0 whitespace controls \t \n \v \f \r.
func IsASpace(ch rune) bool {
	return ch == ' ' || (ch >= 0x09 && ch <= 0x0d)
}

func IsASpaceOrTab(ch rune) bool {
	return ch == ' ' || ch == '\t'
}

// IsSpaceChar is IsASpace for callers that read raw bytes.
func IsSpaceChar(b byte) bool {
	return IsASpace(rune(b))
}

func IsNewline(ch rune) bool {
	return ch == '\n' || ch == '\r'
}

// IsGraphic reports printable, non-space ASCII.
func IsGraphic(ch rune) bool {
	return ch > 0x20 && ch < 0x7f
}

// IsPunctuation reports ASCII punctuation.
func IsPunctuation(ch rune) bool {
	return IsGraphic(ch) && !IsAlphaNumeric(ch)
}

// IsWordChar matches identifier characters that may also contain dots.
func IsWordChar(ch rune) bool {
	return IsASCII(ch) && (IsAlphaNumeric(ch) || ch == '.' || ch == '_')
}

// IsWordStart matches the first character of a plain identifier.
func IsWordStart(ch rune) bool {
	return IsASCII(ch) && (IsAlphaNumeric(ch) || ch == '_')
}

const operatorChars = "%^&*()-+=|{}[]:;<>,/?!.~"

// IsOperator reports the ASCII operator characters common to C-like languages.
func IsOperator(ch rune) bool {
	if !IsASCII(ch) || IsAlphaNumeric(ch) {
		return false
	}
	return strings.ContainsRune(operatorChars, ch)
}

// MakeLowerCase lowers ASCII letters and leaves everything else alone.
func MakeLowerCase(ch rune) rune {
	if IsUpperCase(ch) {
		return ch - 'A' + 'a'
	}
	return ch
}

// MakeUpperCase raises ASCII letters and leaves everything else alone.
func MakeUpperCase(ch rune) rune {
	if IsLowerCase(ch) {
		return ch - 'a' + 'A'
	}
	return ch
}

// IsXIDStart reports whether ch may begin a Unicode identifier (UAX #31).
func IsXIDStart(ch rune) bool {
	if ch < 0 {
		return false
	}
	return unicode.In(ch, unicode.L, unicode.Nl, unicode.Other_ID_Start) &&
		!unicode.In(ch, unicode.Pattern_Syntax, unicode.Pattern_White_Space)
}

// IsXIDContinue reports whether ch may continue a Unicode identifier.
func IsXIDContinue(ch rune) bool {
	if ch < 0 {
		return false
	}
	if IsXIDStart(ch) {
		return true
	}
	return unicode.In(ch, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue) &&
		!unicode.In(ch, unicode.Pattern_Syntax, unicode.Pattern_White_Space)
}

// AnyOf reports whether v equals any of the candidates.
func AnyOf[T comparable](v T, candidates ...T) bool {
	for _, c := range candidates {
		if v == c {
			return true
		}
	}
	return false
}

// IsDBCSLeadByte reports whether b starts a two-byte character in one of
// the double-byte code pages. Every other code page has no lead bytes.
func IsDBCSLeadByte(codePage int, b byte) bool {
	switch codePage {
	case 932:
		// Shift-JIS
		return (b >= 0x81 && b <= 0x9F) || (b >= 0xE0 && b <= 0xFC)
	case 936, 949, 950:
		// GBK, Korean Unified Hangul Code, Big5
		return b >= 0x81 && b <= 0xFE
	case 1361:
		// Korean Johab
		return (b >= 0x84 && b <= 0xD3) || (b >= 0xD8 && b <= 0xDE) || (b >= 0xE0 && b <= 0xF9)
	}
	return false
}

// IsDBCSCodePage reports whether codePage is one of the double-byte code pages.
func IsDBCSCodePage(codePage int) bool {
	return AnyOf(codePage, 932, 936, 949, 950, 1361)
}
