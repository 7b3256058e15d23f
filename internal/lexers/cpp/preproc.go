package cpp

import (
	"maps"
	"slices"

	"github.com/zjrosen/stylex/internal/lexer"
)

// ppState tracks the #if nesting at a point in the document. state and
// ifTaken hold one bit per level: a set state bit marks the level inactive,
// a set ifTaken bit records that some branch at that level was taken.
// Levels at or past limit are counted but not tracked.
type ppState struct {
	state   uint64
	ifTaken uint64
	level   int
	limit   int
}

func newPPState(limit int) ppState {
	return ppState{level: -1, limit: limit}
}

func (p ppState) maskLevel() uint64 {
	if p.level >= 0 {
		return 1 << p.level
	}
	return 1
}

func (p ppState) validLevel() bool {
	return p.level >= 0 && p.level < p.limit
}

func (p ppState) isActive() bool   { return p.state == 0 }
func (p ppState) isInactive() bool { return p.state != 0 }

func (p ppState) currentIfTaken() bool {
	return p.ifTaken&p.maskLevel() != 0
}

// activity is the flag or-ed into styles lexed in this state.
func (p ppState) activity() lexer.Style {
	if p.isInactive() {
		return Inactive
	}
	return 0
}

func (p *ppState) startSection(on bool) {
	p.level++
	if !p.validLevel() {
		return
	}
	if on {
		p.state &^= p.maskLevel()
		p.ifTaken |= p.maskLevel()
	} else {
		p.state |= p.maskLevel()
		p.ifTaken &^= p.maskLevel()
	}
}

func (p *ppState) endSection() {
	if p.validLevel() {
		p.state &^= p.maskLevel()
		p.ifTaken &^= p.maskLevel()
	}
	p.level--
}

func (p *ppState) invertCurrentLevel() {
	if p.validLevel() {
		p.state ^= p.maskLevel()
		p.ifTaken |= p.maskLevel()
	}
}

// symbol is a preprocessor definition. A symbol with arguments is a
// function-like macro.
type symbol struct {
	value     string
	arguments string
}

func (s symbol) isMacro() bool {
	return s.arguments != ""
}

type symbolTable map[string]symbol

// definition is one #define or #undef seen while lexing.
type definition struct {
	line  int
	key   string
	value symbol
	undef bool
}

// lineContext is what a line inherits from the lines above it beyond its
// line state: the #if nesting, the open raw string terminator and the
// template literal interpolations still open.
type lineContext struct {
	pp            ppState
	rawTerminator string
	interpolating []interpolation
}

// interpolation is an open ${ } inside a template literal.
type interpolation struct {
	state      lexer.Style
	braceCount int
}

// contextFor returns the context recorded for the start of line.
func (l *Lexer) contextFor(line int) lineContext {
	if line > 0 && line < len(l.lines) {
		c := l.lines[line]
		c.interpolating = slices.Clone(c.interpolating)
		return c
	}
	return lineContext{pp: newPPState(l.opts.limit())}
}

// setContext records the context at the start of line and reports whether
// it differs from what was recorded there before.
func (l *Lexer) setContext(line int, c lineContext) bool {
	c.interpolating = slices.Clone(c.interpolating)
	if line < len(l.lines) {
		changed := !l.lines[line].equal(c)
		l.lines[line] = c
		return changed
	}
	fresh := lineContext{pp: newPPState(l.opts.limit())}
	for len(l.lines) < line {
		l.lines = append(l.lines, fresh)
	}
	l.lines = append(l.lines, c)
	return !fresh.equal(c)
}

func (c lineContext) equal(o lineContext) bool {
	return c.pp == o.pp && c.rawTerminator == o.rawTerminator && slices.Equal(c.interpolating, o.interpolating)
}

// definitionsAt rebuilds the symbol table in force at the start of line,
// dropping the history from line on.
func (l *Lexer) definitionsAt(line int) (symbolTable, bool) {
	changed := false
	if !l.opts.updatePreprocessor {
		changed = len(l.defineHistory) > 0
		l.defineHistory = nil
	}
	if i := slices.IndexFunc(l.defineHistory, func(d definition) bool { return d.line >= line }); i >= 0 {
		l.defineHistory = l.defineHistory[:i]
		changed = true
	}
	defs := maps.Clone(l.definitionsStart)
	if defs == nil {
		defs = symbolTable{}
	}
	for _, d := range l.defineHistory {
		if d.undef {
			delete(defs, d.key)
		} else {
			defs[d.key] = d.value
		}
	}
	return defs, changed
}
