// Package modeline reads per-file lexer settings embedded in a comment:
//
//	# stylex: lang=bash fold=1 keywords.1="ls grep"
//
// Only the first and last five lines of a document are searched.
package modeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"
)

const (
	marker = "stylex:"
	window = 5
)

// Modeline is the merged content of every modeline in a document. Later
// lines override earlier ones.
type Modeline struct {
	// Language is set by lang=NAME.
	Language string
	// Properties maps lexer property names to values.
	Properties map[string]string
	// Keywords maps slot numbers set by keywords.N=WORDS.
	Keywords map[int]string
}

// Empty reports whether nothing was found.
func (m Modeline) Empty() bool {
	return m.Language == "" && len(m.Properties) == 0 && len(m.Keywords) == 0
}

// Find scans text for modelines.
func Find(text string) (Modeline, error) {
	lines := strings.Split(text, "\n")
	m := Modeline{}
	for i, line := range lines {
		if i >= window && i < len(lines)-window {
			continue
		}
		_, rest, ok := strings.Cut(line, marker)
		if !ok {
			continue
		}
		if err := m.parse(rest); err != nil {
			return Modeline{}, fmt.Errorf("modeline on line %d: %w", i+1, err)
		}
	}
	return m, nil
}

// Parse reads the assignments after the marker of a single line.
func Parse(assignments string) (Modeline, error) {
	m := Modeline{}
	err := m.parse(assignments)
	return m, err
}

func (m *Modeline) parse(rest string) error {
	words, err := shellwords.Parse(strings.TrimRight(rest, "\r"))
	if err != nil {
		return err
	}
	for _, w := range words {
		key, value, ok := strings.Cut(w, "=")
		if !ok {
			// A comment closer such as */ or --> ends the assignments.
			break
		}
		switch {
		case key == "":
			return fmt.Errorf("assignment %q has no name", w)
		case key == "lang":
			m.Language = value
		case strings.HasPrefix(key, "keywords."):
			n, err := strconv.Atoi(strings.TrimPrefix(key, "keywords."))
			if err != nil || n < 0 {
				return fmt.Errorf("bad keyword slot in %q", key)
			}
			if m.Keywords == nil {
				m.Keywords = map[int]string{}
			}
			m.Keywords[n] = value
		default:
			if m.Properties == nil {
				m.Properties = map[string]string{}
			}
			m.Properties[key] = value
		}
	}
	return nil
}
