package lexer

import "fmt"

// Style is a lexical style number as stored per byte in the document.
// Each language package declares its states as typed Style constants.
type Style int

// Byte returns the style in its stored form.
func (s Style) Byte() byte {
	return byte(s & 0xff)
}

// LexicalClass describes one style for hosts and themes.
type LexicalClass struct {
	Value       Style
	Name        string
	Tags        string
	Description string
}

// FoldLevel is the per-line fold value: the level number in the low bits,
// the white and header flags above it, and for folders that pack it, the
// next line's level in the upper 16 bits.
type FoldLevel int

const (
	LevelBase       FoldLevel = 0x400
	LevelNumberMask FoldLevel = 0x0FFF
	LevelWhiteFlag  FoldLevel = 0x1000
	LevelHeaderFlag FoldLevel = 0x2000
)

// Number returns the fold depth including LevelBase.
func (l FoldLevel) Number() int {
	return int(l & LevelNumberMask)
}

// Next returns the packed level of the following line.
func (l FoldLevel) Next() int {
	return int(l>>16) & int(LevelNumberMask)
}

func (l FoldLevel) IsHeader() bool {
	return l&LevelHeaderFlag != 0
}

func (l FoldLevel) IsWhite() bool {
	return l&LevelWhiteFlag != 0
}

func (l FoldLevel) String() string {
	s := fmt.Sprintf("%d", l.Number()-int(LevelBase))
	if l.IsHeader() {
		s += " header"
	}
	if l.IsWhite() {
		s += " white"
	}
	return s
}

// PackLevel builds the packed level of a line from its own level and the
// level of the next line. The header flag is set when the next line is
// deeper. blank adds the white flag.
func PackLevel(current, next int, blank bool) FoldLevel {
	lev := FoldLevel(current) | FoldLevel(next)<<16
	if blank {
		lev |= LevelWhiteFlag
	}
	if current < next {
		lev |= LevelHeaderFlag
	}
	return lev
}
