package session

import (
	"maps"
	"slices"

	"github.com/zjrosen/stylex/internal/lexer"
	"github.com/zjrosen/stylex/internal/modeline"
)

// Settings are the lexer settings of one document.
type Settings struct {
	Properties map[string]string
	// Keywords replace whole keyword slots, keyed by slot number.
	Keywords map[int]string
	// SubStyles allocates one sub-style per identifier list, keyed by the
	// base style.
	SubStyles map[int][]string
	// CodePage of the document; 0 keeps UTF-8.
	CodePage int
}

// FromModeline converts the settings a modeline carries.
func FromModeline(m modeline.Modeline) Settings {
	return Settings{Properties: m.Properties, Keywords: m.Keywords}
}

// apply configures lx and returns the first position whose styling may have
// changed, or -1.
func (s Settings) apply(lx lexer.Lexer) int {
	first := -1
	lower := func(pos int) {
		if pos >= 0 && (first < 0 || pos < first) {
			first = pos
		}
	}
	for _, key := range slices.Sorted(maps.Keys(s.Properties)) {
		lower(lx.PropertySet(key, s.Properties[key]))
	}
	for _, n := range slices.Sorted(maps.Keys(s.Keywords)) {
		lower(lx.WordListSet(n, s.Keywords[n]))
	}
	for _, base := range slices.Sorted(maps.Keys(s.SubStyles)) {
		ids := s.SubStyles[base]
		start := lx.AllocateSubStyles(lexer.Style(base), len(ids))
		if start < 0 {
			continue
		}
		for i, words := range ids {
			lx.SetIdentifiers(lexer.Style(start+i), words)
		}
		lower(0)
	}
	return first
}
