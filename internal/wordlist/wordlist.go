// Package wordlist holds keyword sets and identifier classifiers for lexers.
package wordlist

import (
	"slices"
	"strings"

	"github.com/zjrosen/stylex/internal/charset"
)

// List is an immutable-between-Set sorted keyword list with an index on the
// first byte of each word, so lookups only scan words sharing that byte.
//
// Words starting with '^' are prefix entries: "^GTK_" matches every word
// beginning with "GTK_".
type List struct {
	words        []string
	starts       [256]int
	onlyLineEnds bool
}

// New returns an empty list whose words are separated by any whitespace.
func New() *List {
	l := &List{}
	l.resetStarts()
	return l
}

// NewLineSeparated returns an empty list whose words are separated only by
// line ends, so a single entry may contain spaces.
func NewLineSeparated() *List {
	l := New()
	l.onlyLineEnds = true
	return l
}

func (l *List) resetStarts() {
	for i := range l.starts {
		l.starts[i] = -1
	}
}

func (l *List) isSeparator(b byte) bool {
	if b == '\r' || b == '\n' {
		return true
	}
	return !l.onlyLineEnds && (b == ' ' || b == '\t')
}

// Set replaces the list with the words in text. When lowerCase is set the
// words are ASCII-lowered first. It reports whether the sorted word set
// differs from the previous one.
func (l *List) Set(text string, lowerCase bool) bool {
	if lowerCase {
		text = strings.Map(charset.MakeLowerCase, text)
	}
	var words []string
	start := -1
	for i := 0; i <= len(text); i++ {
		if i == len(text) || l.isSeparator(text[i]) {
			if start >= 0 {
				words = append(words, text[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	slices.Sort(words)

	if slices.Equal(words, l.words) {
		return false
	}

	l.words = words
	l.resetStarts()
	for i := len(words) - 1; i >= 0; i-- {
		l.starts[words[i][0]] = i
	}
	return true
}

// Length returns the number of words.
func (l *List) Length() int {
	return len(l.words)
}

// Empty reports whether the list has no words.
func (l *List) Empty() bool {
	return len(l.words) == 0
}

// WordAt returns the n-th word in sorted order.
func (l *List) WordAt(n int) string {
	return l.words[n]
}

// Words returns a copy of the sorted words.
func (l *List) Words() []string {
	return slices.Clone(l.words)
}

// at returns the byte at i or 0 past the end, mirroring a terminated string.
func at(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func (l *List) inPrefixEntries(s string) bool {
	j := l.starts['^']
	if j < 0 {
		return false
	}
	for ; j < len(l.words) && l.words[j][0] == '^'; j++ {
		if strings.HasPrefix(s, l.words[j][1:]) {
			return true
		}
	}
	return false
}

// InList reports whether s is a word or matches a '^' prefix entry.
func (l *List) InList(s string) bool {
	if len(l.words) == 0 || s == "" {
		return false
	}
	first := s[0]
	if j := l.starts[first]; j >= 0 {
		for ; j < len(l.words) && l.words[j][0] == first; j++ {
			if l.words[j] == s {
				return true
			}
		}
	}
	return l.inPrefixEntries(s)
}

// InListAbbreviated is like InList but a word may contain marker to show
// where it may be cut short: "def~ine" matches def, defi, defin and define.
func (l *List) InListAbbreviated(s string, marker byte) bool {
	if len(l.words) == 0 || s == "" {
		return false
	}
	first := s[0]
	if j := l.starts[first]; j >= 0 {
		for ; j < len(l.words) && l.words[j][0] == first; j++ {
			w := l.words[j]
			isSubword := false
			start := 1
			if at(w, 1) == marker {
				isSubword = true
				start++
			}
			if at(s, 1) != at(w, start) {
				continue
			}
			a, b := start, 1
			for at(w, a) != 0 && at(w, a) == at(s, b) {
				a++
				if at(w, a) == marker {
					isSubword = true
					a++
				}
				b++
			}
			if (at(w, a) == 0 || isSubword) && at(s, b) == 0 {
				return true
			}
		}
	}
	return l.inPrefixEntries(s)
}

// InListAbridged is like InList but marker at the start of a word makes it a
// suffix match and marker inside a word separates a required prefix from a
// required suffix: "after.~:" matches "after.field:".
func (l *List) InListAbridged(s string, marker byte) bool {
	if len(l.words) == 0 || s == "" {
		return false
	}
	first := s[0]
	if j := l.starts[first]; j >= 0 {
		for ; j < len(l.words) && l.words[j][0] == first; j++ {
			w := l.words[j]
			a, b := 0, 0
			for at(w, a) != 0 && at(w, a) == at(s, b) {
				a++
				if at(w, a) == marker {
					a++
					suffixA := len(w) - a
					suffixB := len(s) - b
					if suffixA >= suffixB {
						break
					}
					b = b + suffixB - suffixA - 1
				}
				b++
			}
			if at(w, a) == 0 && at(s, b) == 0 {
				return true
			}
		}
	}

	if j := l.starts[marker]; j >= 0 {
		for ; j < len(l.words) && l.words[j][0] == marker; j++ {
			suffix := l.words[j][1:]
			if len(suffix) > len(s) {
				continue
			}
			if strings.HasSuffix(s, suffix) {
				return true
			}
		}
	}
	return false
}
