package bash

import (
	"github.com/zjrosen/stylex/internal/charset"
	"github.com/zjrosen/stylex/internal/lexer"
	"github.com/zjrosen/stylex/internal/wordlist"
)

const (
	baseError   = 65
	baseDecimal = 66
	baseHex     = 67
)

// translateDigit maps a character to its value in a DD#digits number:
// 0-9, a-z, A-Z, '@' then '_'.
func translateDigit(ch rune) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'z':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'Z':
		return int(ch-'A') + 36
	case ch == '@':
		return 62
	case ch == '_':
		return 63
	}
	return baseError
}

// numberBase parses the base before '#'; bases above 64 are errors.
func numberBase(s string) int {
	if len(s) > 2 {
		return baseError
	}
	base := 0
	for i := 0; i < len(s); i++ {
		base = base*10 + int(s[i]-'0')
	}
	if base > 64 {
		return baseError
	}
	return base
}

// forceBacktrack reports styles that may continue onto the next line, so
// lexing cannot resume at a line starting in them.
func forceBacktrack(style lexer.Style) bool {
	return charset.AnyOf(style, StyleCharacter, StyleString, StyleBackticks, StyleHereQ, StyleParam,
		StyleHereDelim, StyleError)
}

// globScan looks ahead from a '(' for a zsh glob qualifier such as
// (#i) and returns its length, or 0 when it is not one.
func globScan(sc *lexer.StyleContext) int {
	pCount := 0
	hash := 0
	for n := 1; ; n++ {
		c := sc.GetRelativeCharacter(n)
		switch {
		case c == 0 || charset.IsASpace(c):
			return 0
		case c == '\'' || c == '"':
			if hash != 2 {
				return 0
			}
		case c == '#' && hash == 0:
			hash = 1
			if n == 1 {
				hash = 2
			}
		case c == '(':
			pCount++
		case c == ')':
			if pCount == 0 {
				if hash != 0 {
					return n
				}
				return 0
			}
			pCount--
		}
	}
}

// scanner holds the state of one Lex call.
type scanner struct {
	l      *Lexer
	sc     *lexer.StyleContext
	styler *lexer.Accessor
	quotes *quoteStack
	here   hereDoc
	cmd    cmdState

	numBase   int
	savedLine int

	identifiers *wordlist.Classifier
	scalars     *wordlist.Classifier
}

// Lex always restarts at the beginning of a line whose command state was
// recorded as a clean command start, so nested quotes, here documents and
// continued lines are rebuilt from their opening text.
func (l *Lexer) Lex(startPos, length int, initStyle lexer.Style, doc lexer.Document) {
	styler := lexer.NewAccessor(doc)
	endPos := startPos + length

	ln := styler.GetLine(startPos)
	if ln > 0 && startPos == styler.LineStart(ln) {
		ln--
	}
	for ln > 0 && lineCmdState.Get(styler.GetLineState(ln)) != int(cmdStart) {
		ln--
	}
	startPos = styler.LineStart(ln)

	q := newQuoteStack(lexer.Clamp(l.opts.nestingLimit, 1, maxNestingLimit), &l.paramStart)
	q.nestedBackticks = l.opts.nestedBackticks
	q.substitution = commandSubstitution(lexer.Clamp(l.opts.commandSubstitution, 0, int(substInsideTrack)))

	sc := lexer.NewStyleContext(startPos, endPos-startPos, StyleDefault, styler)
	s := &scanner{
		l:           l,
		sc:          sc,
		styler:      styler,
		quotes:      q,
		cmd:         cmdStart,
		savedLine:   sc.CurrentLine - 1,
		identifiers: l.SubStyles.Classifier(int(StyleIdentifier)),
		scalars:     l.SubStyles.Classifier(int(StyleScalar)),
	}

	for sc.More() {
		s.markLine()

		// Body, Test and Arithmetic last until the segment ends; Word
		// until "in" or "do".
		cmdNew := cmdBody
		if s.cmd >= cmdWord && s.cmd <= cmdArithmetic {
			cmdNew = s.cmd
		}
		stylePrev := maskCommand(sc.State)
		inside := q.insideCommand

		if s.resume(&cmdNew, inside) {
			continue
		}

		// The delimiter line ends before the default state is handled.
		s.beginHereDoc(inside)

		if stylePrev != StyleDefault && maskCommand(sc.State) == StyleDefault {
			s.cmd = cmdNew
		}
		if maskCommand(sc.State) == StyleDefault && s.startToken(stylePrev, inside) {
			continue
		}
		sc.Forward()
	}
	sc.Complete()
	if maskCommand(sc.State) == StyleHereQ {
		styler.ChangeLexerState(sc.CurrentPos, styler.Length())
	}
}

// markLine records the line state the first time the walk is on a line.
// A line entered in the middle of a token is never a restart point.
func (s *scanner) markLine() {
	sc := s.sc
	if sc.CurrentLine <= s.savedLine {
		return
	}
	s.savedLine = sc.CurrentLine
	state := cmdBody
	if sc.AtLineStart {
		if !forceBacktrack(maskCommand(sc.State)) {
			// Arithmetic and [[ ]] may span lines without a continuation.
			if !s.quotes.lineContinuation && s.cmd != cmdDoubleBracket && s.cmd != cmdArithmetic {
				s.cmd = cmdStart
			}
			if s.quotes.empty() {
				state = s.cmd
			}
		}
		s.quotes.lineContinuation = false
	}
	s.styler.SetLineState(sc.CurrentLine, lineCmdState.Put(0, int(state)))
}

func subStyle(c *wordlist.Classifier, word string, inside lexer.Style) lexer.Style {
	if inside != 0 {
		return -1
	}
	return lexer.Style(c.ValueFor(word))
}

// resume advances the open token and reports whether the walk position
// has already moved on.
func (s *scanner) resume(cmdNew *cmdState, inside lexer.Style) bool {
	sc := s.sc
	q := s.quotes
	switch maskCommand(sc.State) {
	case StyleOperator:
		sc.SetState(StyleDefault | inside)
		if s.cmd == cmdDelimiter {
			*cmdNew = cmdStart
		} else if sc.ChPrev == '\\' {
			*cmdNew = s.cmd
		}
	case StyleWord:
		// '.' never occurs in variable names but does in file names.
		if !setWord.Contains(sc.Ch) || sc.MatchPair('+', '=') || sc.MatchPair('.', '.') {
			s.classifyWord(cmdNew, inside)
		}
	case StyleIdentifier:
		if !setWord.Contains(sc.Ch) || (s.cmd == cmdArithmetic && !setWordStart.Contains(sc.Ch)) {
			if sub := subStyle(s.identifiers, sc.GetCurrent(), inside); sub >= 0 {
				sc.ChangeState(sub)
			}
			sc.SetState(StyleDefault | inside)
		}
	case StyleNumber:
		s.resumeNumber(inside)
	case StyleCommentLine, StyleError:
		if sc.MatchLineEnd() {
			sc.SetState(StyleDefault | inside)
		}
	case StyleHereDelim:
		s.resumeHereDelim(inside)
	case StyleScalar:
		if !setParam.Contains(sc.Ch) {
			if text := sc.GetCurrent(); len(text) > 0 {
				if sub := subStyle(s.scalars, text[1:], inside); sub >= 0 {
					sc.ChangeState(sub)
				}
			}
			if sc.LengthCurrent() == 1 {
				// special parameter such as $? or $$
				sc.Forward()
			}
			sc.SetState(q.state | inside)
			return true
		}
	case StyleHereQ:
		if sc.AtLineStart && q.current.style == quoteHereDoc && s.endHereDoc(inside) {
			return false
		}
		if s.here.quoted || s.here.escaped {
			return false
		}
		return s.resumeNested(inside)
	case StyleString, StyleParam, StyleBackticks:
		return s.resumeNested(inside)
	case StyleCharacter:
		if sc.Ch == '\'' {
			sc.ForwardSetState(q.state | inside)
			return true
		}
	}
	return false
}

func (s *scanner) classifyWord(cmdNew *cmdState, inside lexer.Style) {
	sc := s.sc
	word := sc.GetCurrent()
	identifierStyle := StyleIdentifier | inside
	if sub := subStyle(s.identifiers, word, inside); sub >= 0 {
		identifierStyle = sub
	}
	// keywords end at whitespace, a metacharacter or a command delimiter
	keywordEnds := charset.IsASpace(sc.Ch) || setMetaCharacter.Contains(sc.Ch) ||
		cmdDelimiters.InList(string(sc.Ch))

	if s.cmd == cmdWord {
		switch {
		case word == "in" && keywordEnds:
			*cmdNew = cmdBody
		case word == "do" && keywordEnds:
			*cmdNew = cmdStart
		default:
			sc.ChangeState(identifierStyle)
		}
		sc.SetState(StyleDefault | inside)
		return
	}

	atStart := s.cmd == cmdStart && keywordEnds
	switch {
	case word == "test":
		if atStart {
			*cmdNew = cmdTest
		} else {
			sc.ChangeState(identifierStyle)
		}
	case bashStruct.InList(word):
		if atStart {
			*cmdNew = cmdStart
		} else {
			sc.ChangeState(identifierStyle)
		}
	case bashStructIn.InList(word):
		// for, case and select wait for "in" or "do"
		if atStart {
			*cmdNew = cmdWord
		} else {
			sc.ChangeState(identifierStyle)
		}
	case len(word) > 0 && word[0] == '-':
		// options versus file test operators
		inTest := charset.AnyOf(s.cmd, cmdTest, cmdSingleBracket, cmdDoubleBracket)
		if !inTest || !keywordEnds || !isTestOperator(word) {
			sc.ChangeState(identifierStyle)
		}
	default:
		if s.cmd != cmdStart || !(s.l.WordList(0).InList(word) && keywordEnds) {
			sc.ChangeState(identifierStyle)
		}
	}
	sc.SetState(StyleDefault | inside)
}

func (s *scanner) resumeNumber(inside lexer.Style) {
	sc := s.sc
	digit := translateDigit(sc.Ch)
	switch s.numBase {
	case baseDecimal:
		if sc.Ch == '#' {
			s.numBase = numberBase(sc.GetCurrent())
			if s.numBase != baseError {
				return
			}
		} else if charset.IsADigit(sc.Ch) {
			return
		}
	case baseHex:
		if charset.IsADigitBase(sc.Ch, 16) {
			return
		}
	case baseError:
		if digit <= 9 {
			return
		}
	default:
		// DD#digits, case insensitive up to base 36
		if digit != baseError {
			if s.numBase <= 36 && digit >= 36 {
				digit -= 26
			}
			if digit < s.numBase {
				return
			}
			if digit <= 9 {
				s.numBase = baseError
				return
			}
		}
	}
	if s.numBase == baseError {
		sc.ChangeState(StyleError | inside)
	} else if digit < 62 || digit == 63 ||
		(s.cmd != cmdArithmetic && (sc.Ch == '-' || (sc.Ch == '.' && sc.ChNext != '.'))) {
		// alphanumerics, '_', '-' and '.' turn the number into a word
		sc.ChangeState(StyleIdentifier | inside)
		return
	}
	sc.SetState(StyleDefault | inside)
}

// resumeHereDelim reads the "<<[-]WORD" specifier.
func (s *scanner) resumeHereDelim(inside lexer.Style) {
	sc := s.sc
	h := &s.here
	switch h.state {
	case hereStart:
		h.quote = sc.ChNext
		h.quoted = false
		h.escaped = false
		h.backslashes = 0
		h.delimiter = h.delimiter[:0]
		switch {
		case sc.ChNext == '\'' || sc.ChNext == '"':
			sc.Forward()
			h.quoted = true
			h.state = hereDelimiter
		case setHereDoc.Contains(sc.ChNext) || (sc.ChNext == '=' && s.cmd != cmdArithmetic):
			h.state = hereDelimiter
		case sc.ChNext == '<':
			// here string <<<
			sc.Forward()
			sc.ForwardSetState(StyleDefault | inside)
		case charset.IsASpace(sc.ChNext):
			// whitespace between << and the word
		case setLeftShift.Contains(sc.ChNext) || (sc.ChNext == '=' && s.cmd == cmdArithmetic):
			// <<$var and <<= are shifts
			sc.ChangeState(StyleOperator | inside)
			sc.ForwardSetState(StyleDefault | inside)
		default:
			// zero-length delimiter
			h.state = hereDelimiter
		}
	case hereDelimiter:
		// single quotes have no escapes, double quotes \\ and \"
		switch {
		case h.quoted && sc.Ch == h.quote && h.backslashes&1 == 0:
			sc.ForwardSetState(StyleDefault | inside)
		case sc.Ch == '\\' && h.quote != '\'':
			h.escaped = true
			h.backslashes++
			if h.backslashes&1 == 0 || (h.quoted && !charset.AnyOf(sc.ChNext, '"', '\\')) {
				h.append(sc.Ch)
			}
		case h.quoted || setHereDoc2.Contains(sc.Ch) || (sc.Ch > 32 && sc.Ch < 127 && h.backslashes&1 != 0):
			h.backslashes = 0
			h.append(sc.Ch)
		default:
			sc.SetState(StyleDefault | inside)
		}
		if len(h.delimiter) >= hereDelimMax-1 {
			sc.SetState(StyleError | inside)
			h.state = hereStart
		}
	}
}

// beginHereDoc switches to the here document body at the end of the line
// holding its delimiter.
func (s *scanner) beginHereDoc(inside lexer.Style) {
	sc := s.sc
	if s.here.state != hereDelimiter || !sc.MatchLineEnd() {
		return
	}
	s.here.state = hereBody
	missingQuote := s.here.quoted && maskCommand(sc.State) == StyleHereDelim
	if missingQuote || (!s.here.quoted && len(s.here.delimiter) == 0) {
		sc.ChangeState(StyleError | inside)
		sc.SetState(StyleDefault | inside)
		return
	}
	sc.SetState(StyleHereQ | inside)
	s.quotes.start(-1, quoteHereDoc, StyleDefault, s.cmd)
}

// endHereDoc checks a body line for the closing delimiter.
func (s *scanner) endHereDoc(inside lexer.Style) bool {
	sc := s.sc
	h := &s.here
	sc.SetState(StyleHereQ | inside)
	if h.indent {
		for sc.Ch == '\t' {
			sc.Forward()
		}
	}
	n := len(h.delimiter)
	if sc.CurrentPos+n != s.styler.LineEnd(sc.CurrentLine) ||
		(n != 0 && !s.styler.Match(sc.CurrentPos, string(h.delimiter))) {
		return false
	}
	if n != 0 {
		sc.SetState(StyleHereDelim | inside)
		for !sc.MatchLineEnd() && sc.More() {
			sc.Forward()
		}
	}
	s.quotes.pop()
	sc.SetState(StyleDefault | s.quotes.insideCommand)
	return true
}

// resumeNested handles escapes, delimiters and nested expansions inside
// strings, parameters, backticks and here documents.
func (s *scanner) resumeNested(inside lexer.Style) bool {
	sc := s.sc
	q := s.quotes
	switch {
	case sc.Ch == '\\':
		if q.current.style != quoteLiteral {
			q.escape(sc)
		}
	case sc.Ch == q.current.down:
		return q.countDown(sc, &s.cmd)
	case sc.Ch == q.current.up:
		if q.current.style != quoteParameter {
			q.current.count++
		}
	default:
		stylingInside := s.l.opts.stylingInside(maskCommand(sc.State))
		switch q.current.style {
		case quoteString, quoteHereDoc, quoteLString:
			if sc.Ch == '`' {
				q.push(sc.Ch, quoteBacktick, sc.State, s.cmd)
				if stylingInside {
					sc.SetState(StyleBackticks | inside)
				}
			} else if sc.Ch == '$' && !charset.AnyOf(sc.ChNext, '"', '\'') {
				q.expand(sc, &s.cmd, stylingInside)
				return true
			}
		case quoteCommand, quoteParameter, quoteBacktick:
			switch sc.Ch {
			case '\'':
				if stylingInside {
					q.state = sc.State
					sc.SetState(StyleCharacter | inside)
				} else {
					q.push(sc.Ch, quoteLiteral, sc.State, s.cmd)
				}
			case '"':
				q.push(sc.Ch, quoteString, sc.State, s.cmd)
				if stylingInside {
					sc.SetState(StyleString | inside)
				}
			case '`':
				q.push(sc.Ch, quoteBacktick, sc.State, s.cmd)
				if stylingInside {
					sc.SetState(StyleBackticks | inside)
				}
			case '$':
				q.expand(sc, &s.cmd, stylingInside)
				return true
			}
		}
	}
	return false
}

// startToken opens a token in the default state and reports whether the
// walk position has already moved on.
func (s *scanner) startToken(stylePrev, inside lexer.Style) bool {
	sc := s.sc
	q := s.quotes
	switch {
	case sc.Ch == '\\':
		// any character but a newline can be escaped into a word
		sc.SetState(StyleIdentifier | inside)
		q.escape(sc)
	case charset.IsADigit(sc.Ch):
		sc.SetState(StyleNumber | inside)
		s.numBase = baseDecimal
		if sc.Ch == '0' && (sc.ChNext == 'x' || sc.ChNext == 'X') {
			s.numBase = baseHex
			sc.Forward()
		}
	case setWordStart.Contains(sc.Ch):
		if s.cmd == cmdArithmetic {
			sc.SetState(StyleIdentifier | inside)
		} else {
			sc.SetState(StyleWord | inside)
		}
	case sc.Ch == '#':
		s.startHash(stylePrev, inside)
	case sc.Ch == '"':
		sc.SetState(StyleString | inside)
		q.start(sc.Ch, quoteString, StyleDefault, s.cmd)
	case sc.Ch == '\'':
		q.state = StyleDefault
		sc.SetState(StyleCharacter | inside)
	case sc.Ch == '`':
		sc.SetState(StyleBackticks | inside)
		q.start(sc.Ch, quoteBacktick, StyleDefault, s.cmd)
	case sc.Ch == '$':
		q.expand(sc, &s.cmd, true)
		return true
	case s.cmd != cmdArithmetic && sc.MatchPair('<', '<'):
		sc.SetState(StyleHereDelim | inside)
		s.here.state = hereStart
		s.here.indent = sc.GetRelative(2) == '-'
		if s.here.indent {
			sc.Forward()
		}
	case sc.Ch == '-' && s.cmd != cmdArithmetic && sc.ChPrev != '~' && !charset.IsADigit(sc.ChNext):
		// test operator or option
		if charset.IsASpace(sc.ChPrev) || setMetaCharacter.Contains(sc.ChPrev) {
			sc.SetState(StyleWord | inside)
		} else {
			sc.SetState(StyleIdentifier | inside)
		}
	case setBashOperator.Contains(sc.Ch):
		return s.startOperator(inside)
	}
	return false
}

func (s *scanner) startHash(stylePrev, inside lexer.Style) {
	sc := s.sc
	if stylePrev != StyleWord && stylePrev != StyleIdentifier &&
		(sc.CurrentPos == 0 || setMetaCharacter.Contains(sc.ChPrev)) {
		sc.SetState(StyleCommentLine | inside)
	} else {
		sc.SetState(StyleWord | inside)
	}
	if s.cmd != cmdArithmetic {
		return
	}
	// zsh arithmetic: [#8] output base, ##^A and ##a character codes, #name
	switch {
	case sc.ChPrev == '[':
		sc.SetState(StyleWord | inside)
		if sc.ChNext == '#' {
			sc.Forward()
		}
	case sc.Match("##^") && charset.IsUpperCase(sc.GetRelative(3)):
		sc.SetState(StyleIdentifier | inside)
		sc.ForwardN(3)
	case sc.ChNext == '#' && !charset.IsASpace(sc.GetRelative(2)):
		sc.SetState(StyleIdentifier | inside)
		sc.ForwardN(2)
	case setWordStart.Contains(sc.ChNext):
		sc.SetState(StyleIdentifier | inside)
	}
}

func (s *scanner) startOperator(inside lexer.Style) bool {
	sc := s.sc
	q := s.quotes
	sc.SetState(StyleOperator | inside)

	// closing arithmetic expansion and command substitution
	if q.current.style == quoteArithmetic || q.current.style == quoteCommandInside {
		if sc.Ch == q.current.down {
			if q.countDown(sc, &s.cmd) {
				return true
			}
		} else if sc.Ch == q.current.up {
			q.current.count++
		}
	}

	// globs have no whitespace and never occur in arithmetic
	if s.cmd != cmdArithmetic && sc.Ch == '(' && sc.ChNext != '(' {
		if n := globScan(sc); n > 1 {
			sc.SetState(StyleIdentifier | inside)
			sc.ForwardN(n + 1)
			return true
		}
	}

	if s.cmd == cmdStart || s.cmd == cmdBody {
		switch {
		case sc.MatchPair('(', '('):
			s.cmd = cmdArithmetic
			sc.Forward()
		case sc.MatchPair('[', '[') && charset.IsASpace(sc.GetRelative(2)):
			s.cmd = cmdDoubleBracket
			sc.Forward()
		case sc.Ch == '[' && charset.IsASpace(sc.ChNext):
			s.cmd = cmdSingleBracket
		}
	}

	// for ((x; y; z)) loops
	if s.cmd == cmdWord && sc.MatchPair('(', '(') {
		s.cmd = cmdArithmetic
		sc.ForwardN(2)
		return true
	}

	if s.cmd < cmdDoubleBracket {
		isDelim := false
		if setBashOperator.Contains(sc.ChNext) {
			isDelim = cmdDelimiters.InList(string([]rune{sc.Ch, sc.ChNext}))
			if isDelim {
				sc.Forward()
			}
		}
		if !isDelim {
			isDelim = cmdDelimiters.InList(string(sc.Ch))
		}
		if isDelim {
			s.cmd = cmdDelimiter
			sc.Forward()
			return true
		}
	}

	if s.cmd == cmdArithmetic && sc.MatchPair(')', ')') {
		s.cmd = cmdBody
		sc.Forward()
	} else if sc.Ch == ']' && charset.IsASpace(sc.ChPrev) {
		if s.cmd == cmdSingleBracket {
			s.cmd = cmdBody
		} else if s.cmd == cmdDoubleBracket && sc.ChNext == ']' {
			s.cmd = cmdBody
			sc.Forward()
		}
	}
	return false
}
