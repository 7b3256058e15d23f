package bash

import (
	"unicode/utf8"

	"github.com/zjrosen/stylex/internal/charset"
	"github.com/zjrosen/stylex/internal/lexer"
)

// cmdState is the position within a command segment. Body, Test and
// Arithmetic persist to the end of the segment; Word ends with "in" or "do".
type cmdState int

const (
	cmdBody cmdState = iota
	cmdStart
	cmdWord
	cmdTest
	cmdSingleBracket
	cmdDoubleBracket
	cmdArithmetic
	cmdDelimiter
)

// lineCmdState is the persisted line state: the command state at the
// start of the line, or cmdBody when lexing cannot resume there.
var lineCmdState = lexer.BitField{Shift: 0, Width: 3}

type quoteStyle int

const (
	quoteLiteral       quoteStyle = iota // ''
	quoteCString                         // $''
	quoteString                          // ""
	quoteLString                         // $""
	quoteHereDoc                         // here document body
	quoteBacktick                        // ``
	quoteParameter                       // ${}
	quoteCommand                         // $()
	quoteCommandInside                   // $() styled as code
	quoteArithmetic                      // $(()) and $[]
)

type commandSubstitution int

const (
	substBacktick commandSubstitution = iota
	substInside
	substInsideTrack
)

func opposite(ch rune) rune {
	switch ch {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	case '<':
		return '>'
	}
	return ch
}

// quote is one open delimiter pair.
type quote struct {
	count int
	up    rune
	down  rune
	style quoteStyle
	outer lexer.Style
	cmd   cmdState
}

func (q *quote) begin(up rune, style quoteStyle, outer lexer.Style, cmd cmdState) {
	*q = quote{count: 1, up: up, down: opposite(up), style: style, outer: outer, cmd: cmd}
}

// quoteStack tracks nested quotes and substitutions. Pushes beyond limit
// are dropped.
type quoteStack struct {
	current quote
	saved   []quote
	limit   int

	// state is the style a scalar or single quoted string returns to.
	state            lexer.Style
	lineContinuation bool
	nestedBackticks  bool
	substitution     commandSubstitution
	insideCommand    lexer.Style
	backtickLevel    uint
	paramStart       *charset.Set
}

func newQuoteStack(limit int, paramStart *charset.Set) *quoteStack {
	return &quoteStack{limit: limit, saved: make([]quote, 0, limit), paramStart: paramStart}
}

func (q *quoteStack) empty() bool {
	return q.current.up == 0
}

func (q *quoteStack) depth() int {
	return len(q.saved)
}

func (q *quoteStack) start(up rune, style quoteStyle, outer lexer.Style, cmd cmdState) {
	if !q.empty() {
		q.push(up, style, outer, cmd)
		return
	}
	q.current.begin(up, style, outer, cmd)
	if style == quoteBacktick {
		q.backtickLevel++
	}
}

func (q *quoteStack) push(up rune, style quoteStyle, outer lexer.Style, cmd cmdState) {
	if len(q.saved) >= q.limit {
		return
	}
	q.saved = append(q.saved, q.current)
	q.current.begin(up, style, outer, cmd)
	if style == quoteBacktick {
		q.backtickLevel++
	}
}

func (q *quoteStack) pop() {
	if len(q.saved) == 0 {
		q.clear()
		return
	}
	if q.backtickLevel != 0 && q.current.style == quoteBacktick {
		q.backtickLevel--
	}
	if q.insideCommand != 0 && q.current.style == quoteCommandInside {
		q.insideCommand = 0
		for _, s := range q.saved {
			if s.style == quoteCommandInside {
				q.insideCommand = insideCommand
				break
			}
		}
	}
	q.current = q.saved[len(q.saved)-1]
	q.saved = q.saved[:len(q.saved)-1]
}

func (q *quoteStack) clear() {
	q.saved = q.saved[:0]
	q.state = StyleDefault
	q.insideCommand = 0
	q.backtickLevel = 0
	q.current = quote{}
}

// countDown consumes closing delimiters and, once the pair is balanced,
// pops it and moves past it in the outer style.
func (q *quoteStack) countDown(sc *lexer.StyleContext, cmd *cmdState) bool {
	q.current.count--
	for q.current.count > 0 && sc.ChNext == q.current.down {
		q.current.count--
		sc.Forward()
	}
	if q.current.count != 0 {
		return false
	}
	*cmd = q.current.cmd
	outer := q.current.outer
	q.pop()
	sc.ForwardSetState(outer | q.insideCommand)
	return true
}

// expand handles a '$': a scalar, ${}, $'', $"", $(), $(()) or $[].
// Without stylingInside the expansion keeps the surrounding style.
func (q *quoteStack) expand(sc *lexer.StyleContext, cmd *cmdState, stylingInside bool) {
	current := *cmd
	state := sc.State
	style := quoteLiteral
	q.state = state
	sc.SetState(StyleScalar)
	sc.Forward()
	switch {
	case sc.Ch == '{':
		style = quoteParameter
		sc.ChangeState(StyleParam)
	case sc.Ch == '\'':
		style = quoteCString
		sc.ChangeState(StyleString)
	case sc.Ch == '"':
		style = quoteLString
		sc.ChangeState(StyleString)
	case sc.Ch == '(' || sc.Ch == '[':
		switch {
		case sc.Ch == '[' || sc.ChNext == '(':
			style = quoteArithmetic
			*cmd = cmdArithmetic
			sc.ChangeState(StyleOperator)
		case stylingInside && q.substitution >= substInside:
			style = quoteCommandInside
			*cmd = cmdDelimiter
			sc.ChangeState(StyleOperator)
			if q.substitution == substInsideTrack {
				q.insideCommand = insideCommand
			}
		default:
			style = quoteCommand
			sc.ChangeState(StyleBackticks)
		}
	default:
		if !q.paramStart.Contains(sc.Ch) {
			stylingInside = false
		}
	}
	if stylingInside {
		sc.ChangeState(sc.State | q.insideCommand)
	} else {
		sc.ChangeState(state)
	}
	if style != quoteLiteral {
		q.start(sc.Ch, style, state, current)
		sc.Forward()
	}
}

// escape handles a run of backslashes, consuming the escaped character.
// Inside backticks the meaning of each backslash depends on the nesting
// level: with N backslashes at level k a following '$' is escaped when
// N/2^k is odd, a quote when (N-1)/2^k is even, and a backtick either
// stays escaped, opens an inner substitution or closes the current one.
func (q *quoteStack) escape(sc *lexer.StyleContext) {
	count := uint(1)
	for sc.ChNext == '\\' {
		count++
		sc.Forward()
	}
	escaped := count&1 != 0
	if escaped && (sc.ChNext == '\r' || sc.ChNext == '\n') {
		q.lineContinuation = true
		if maskCommand(sc.State) == StyleIdentifier {
			sc.SetState(StyleOperator | q.insideCommand)
		}
		return
	}
	if q.backtickLevel > 0 && q.nestedBackticks {
		switch {
		case sc.ChNext == '$':
			escaped = (count>>q.backtickLevel)&1 != 0
		case sc.ChNext == '"' || sc.ChNext == '\'':
			escaped = ((count-1)>>q.backtickLevel)&1 == 0
		case sc.ChNext == '`' && escaped:
			mask := uint(1) << (q.backtickLevel + 1)
			count++
			escaped = count&(mask-1) == 0
			if !escaped {
				remain := count - (mask >> 1)
				if int(remain) >= 0 && remain&(mask-1) == 0 {
					escaped = true
					q.backtickLevel++
				} else if q.backtickLevel > 1 {
					mask >>= 1
					remain = count - (mask >> 1)
					if int(remain) >= 0 && remain&(mask-1) == 0 {
						escaped = true
						q.backtickLevel--
					}
				}
			}
		}
	}
	if escaped {
		sc.Forward()
	}
}

type hereState int

const (
	hereStart     hereState = iota // "<<" seen
	hereDelimiter                  // collecting the delimiter
	hereBody                       // lines after the delimiter
)

const hereDelimMax = 256

// hereDoc is the here document being opened or read.
type hereDoc struct {
	state       hereState
	quote       rune
	quoted      bool
	escaped     bool
	indent      bool
	backslashes int
	delimiter   []byte
}

func (h *hereDoc) append(ch rune) {
	h.delimiter = utf8.AppendRune(h.delimiter, ch)
}
