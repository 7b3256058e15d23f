package cpp

import (
	"strings"

	"github.com/zjrosen/stylex/internal/charset"
	"github.com/zjrosen/stylex/internal/lexer"
)

// Line state layout: everything a line inherits from a line continuation
// or an open doc comment keyword, task marker or escape sequence.
var (
	stateContinued        = lexer.BitField{Shift: 0, Width: 1}
	stateStringInPP       = lexer.BitField{Shift: 1, Width: 1}
	stateDocKeyBrace      = lexer.BitField{Shift: 2, Width: 1}
	statePrevNonWhite     = lexer.BitField{Shift: 3, Width: 7}
	stateBeforeDocKeyword = lexer.BitField{Shift: 10, Width: 5}
	stateBeforeTaskMarker = lexer.BitField{Shift: 15, Width: 5}
	stateEscapeOuter      = lexer.BitField{Shift: 20, Width: 7}
	stateEscapeDigits     = lexer.BitField{Shift: 27, Width: 4}
	stateEscapeSet        = lexer.BitField{Shift: 31, Width: 2}
)

var (
	setOKBeforeRE      = charset.New(charset.None, "([{=,:;!%^&*|?~+-")
	setCouldBePostOp   = charset.New(charset.None, "+-")
	setDoxygen         = charset.New(charset.Alpha, "$@\\&<>#{}[]")
	setInvalidRawFirst = charset.New(charset.None, " )\\\t\v\f\n")
	setHexDigits       = charset.New(charset.Digits, "ABCDEFabcdef")
	setOctDigits       = charset.New(charset.None, "01234567")
)

// maxRawDelimiter bounds the delimiter of R"delim( ... )delim".
const maxRawDelimiter = 16

func isSpaceEquiv(state lexer.Style) bool {
	return state <= StyleCommentDoc || charset.AnyOf(state,
		StyleCommentLineDoc, StyleCommentDocKeyword, StyleCommentDocKeywordError)
}

func isOperatorOrSpace(ch rune) bool {
	return charset.IsOperator(ch) || charset.IsASpace(ch)
}

func isStreamCommentStyle(style lexer.Style) bool {
	return charset.AnyOf(style, StyleComment, StyleCommentDoc,
		StyleCommentDocKeyword, StyleCommentDocKeywordError)
}

type escapeSet int

const (
	escapeNone escapeSet = iota
	escapeHex
	escapeOct
)

// escape tracks a highlighted escape sequence: the style to return to
// and how many more digits of which kind it may take.
type escape struct {
	outer      lexer.Style
	digitsLeft int
	set        escapeSet
}

func (e *escape) reset(outer lexer.Style, next rune) {
	e.outer = outer
	e.digitsLeft = 0
	e.set = escapeNone
	switch {
	case next == 'U':
		e.digitsLeft, e.set = 9, escapeHex
	case next == 'u', next == 'x':
		e.digitsLeft, e.set = 5, escapeHex
	case setOctDigits.Contains(next):
		e.digitsLeft, e.set = 3, escapeOct
	}
}

func (e *escape) atEnd(ch rune) bool {
	if e.digitsLeft <= 0 {
		return true
	}
	switch e.set {
	case escapeHex:
		return !setHexDigits.Contains(ch)
	case escapeOct:
		return !setOctDigits.Contains(ch)
	}
	return true
}

// restOfLine returns the text from start to the end of its logical line,
// following backslash continuations and stopping at a comment.
func restOfLine(styler *lexer.Accessor, start int, allowSpace bool) string {
	var sb strings.Builder
	line := styler.GetLine(start)
	pos := start
	endLine := styler.LineEnd(line)
	ch := styler.SafeGetCharAt(start, '\n')
	for pos < endLine {
		if ch == '\\' && pos+1 == endLine {
			line++
			pos = styler.LineStart(line)
			endLine = styler.LineEnd(line)
			ch = styler.SafeGetCharAt(pos, '\n')
			continue
		}
		chNext := styler.SafeGetCharAt(pos+1, '\n')
		if ch == '/' && (chNext == '/' || chNext == '*') {
			break
		}
		if allowSpace || ch != ' ' {
			sb.WriteByte(ch)
		}
		pos++
		ch = chNext
	}
	return sb.String()
}

// followsPostfixOperator reports whether the nearest + or - before the
// current position is doubled, as in a++ /x/.
func followsPostfixOperator(sc *lexer.StyleContext) bool {
	styler := sc.Styler()
	for pos := sc.CurrentPos - 1; pos > 0; pos-- {
		if ch := styler.CharAt(pos); ch == '+' || ch == '-' {
			return styler.CharAt(pos-1) == ch
		}
	}
	return false
}

// followsReturnKeyword reports whether the current position follows
// "return" on the same line, so a '/' starts a regex.
func followsReturnKeyword(sc *lexer.StyleContext) bool {
	styler := sc.Styler()
	lineStart := styler.LineStart(sc.CurrentLine)
	pos := sc.CurrentPos - 1
	for pos > lineStart && isSpaceOrTab(styler.SafeGetCharAt(pos, ' ')) {
		pos--
	}
	const word = "return"
	for i := len(word) - 1; i >= 0; i-- {
		if pos < lineStart || styler.SafeGetCharAt(pos, ' ') != word[i] {
			return false
		}
		pos--
	}
	return true
}

// scanner holds the auxiliary state of one Lex call.
type scanner struct {
	l      *Lexer
	sc     *lexer.StyleContext
	styler *lexer.Accessor
	defs   symbolTable
	ctx    lineContext

	activity       lexer.Style
	chPrevNonWhite rune
	continuation   bool
	stringInPP     bool
	docKeyBrace    bool
	beforeDocKey   lexer.Style
	beforeTask     lexer.Style
	esc            escape

	visibleChars    int
	lastWordWasUUID bool
	includePP       bool
	inRERange       bool

	savedLine          int
	definitionsChanged bool
	contextChanged     bool
}

func (s *scanner) restore(state int) {
	s.continuation = stateContinued.Flag(state)
	s.stringInPP = stateStringInPP.Flag(state)
	s.docKeyBrace = stateDocKeyBrace.Flag(state)
	s.chPrevNonWhite = rune(statePrevNonWhite.Get(state))
	s.beforeDocKey = lexer.Style(stateBeforeDocKeyword.Get(state))
	s.beforeTask = lexer.Style(stateBeforeTaskMarker.Get(state))
	s.esc = escape{
		outer:      lexer.Style(stateEscapeOuter.Get(state)),
		digitsLeft: stateEscapeDigits.Get(state),
		set:        escapeSet(stateEscapeSet.Get(state)),
	}
}

// saveLine records the state carried into the line now starting: the
// line state of the line before it and the context table entry of this
// one.
func (s *scanner) saveLine() {
	line := s.sc.CurrentLine
	state := stateContinued.PutFlag(0, s.continuation)
	state = stateStringInPP.PutFlag(state, s.stringInPP)
	prev := s.chPrevNonWhite
	if !charset.IsASCII(prev) {
		prev = 0
	}
	state = statePrevNonWhite.Put(state, int(prev))
	switch MaskActive(s.sc.State) {
	case StyleCommentDocKeyword:
		state = stateDocKeyBrace.PutFlag(state, s.docKeyBrace)
		state = stateBeforeDocKeyword.Put(state, int(s.beforeDocKey))
	case StyleTaskMarker:
		state = stateBeforeTaskMarker.Put(state, int(s.beforeTask))
	case StyleEscapeSequence:
		state = stateEscapeOuter.Put(state, int(s.esc.outer))
		state = stateEscapeDigits.Put(state, s.esc.digitsLeft)
		state = stateEscapeSet.Put(state, int(s.esc.set))
	}
	s.styler.SetLineState(line-1, state)
	if s.l.setContext(line, s.ctx) {
		s.contextChanged = true
	}
	s.savedLine = line
}

// lineStart runs at the first character of every line.
func (s *scanner) lineStart() {
	sc := s.sc
	s.activity = s.ctx.pp.activity()
	// Close the open run so later relabelling stays on this line.
	sc.SetState(sc.State)
	if MaskActive(sc.State) == StylePreprocessor && !s.continuation {
		sc.SetState(StyleDefault | s.activity)
	}
	s.visibleChars = 0
	s.lastWordWasUUID = false
	s.includePP = false
	s.inRERange = false
	if s.activity != 0 {
		sc.SetState(sc.State | s.activity)
	}
}

// current returns the open run's text, lowered for the case insensitive
// variant.
func (s *scanner) current() string {
	if s.l.caseSensitive {
		return s.sc.GetCurrent()
	}
	return s.sc.GetCurrentLowered()
}

func (l *Lexer) Lex(startPos, length int, initStyle lexer.Style, doc lexer.Document) {
	styler := lexer.NewAccessor(doc)
	s := &scanner{l: l, styler: styler, chPrevNonWhite: ' '}

	line := styler.GetLine(startPos)
	// Directives read ahead over continued lines, so resume at the start
	// of the logical line.
	for line > 0 && startPos == styler.LineStart(line) && stateContinued.Flag(styler.GetLineState(line-1)) {
		line--
		start := styler.LineStart(line)
		length += startPos - start
		startPos = start
		initStyle = 0
		if startPos > 0 {
			initStyle = styler.StyleAt(startPos - 1)
		}
	}
	s.savedLine = line
	s.ctx = l.contextFor(line)
	if l.opts.backQuotedStrings != backQuotedTemplate {
		s.ctx.interpolating = nil
	}
	if line > 0 {
		s.restore(styler.GetLineState(line - 1))
	}
	s.defs, s.definitionsChanged = l.definitionsAt(line)
	s.activity = s.ctx.pp.activity()

	sc := lexer.NewStyleContext(startPos, length, initStyle, styler)
	s.sc = sc
	if startPos > 0 && sc.AtLineStart {
		sc.ChPrev = '\n'
	}

	for sc.More() {
		if sc.AtLineStart {
			if sc.CurrentLine > s.savedLine {
				s.saveLine()
			}
			s.lineStart()
		}

		// Line continuation, in any state.
		if sc.Ch == '\\' && sc.CurrentPos+1 >= styler.LineEnd(sc.CurrentLine) {
			sc.Forward()
			if sc.Ch == '\r' && sc.ChNext == '\n' {
				sc.Forward()
			}
			s.continuation = true
			sc.Forward()
			continue
		}

		if s.resume() {
			continue
		}
		if MaskActive(sc.State) == StyleDefault && s.enter() {
			continue
		}

		if !charset.IsASpace(sc.Ch) && !isSpaceEquiv(MaskActive(sc.State)) {
			s.chPrevNonWhite = sc.Ch
			s.visibleChars++
		}
		s.continuation = false
		sc.Forward()
	}
	if sc.AtLineStart && sc.CurrentLine > s.savedLine {
		s.saveLine()
	}
	if s.definitionsChanged || s.contextChanged {
		styler.ChangeLexerState(startPos, startPos+length)
	}
	sc.Complete()
}

// resume advances the current state, ending it where it terminates. It
// reports true when the iteration must restart without advancing.
func (s *scanner) resume() bool {
	sc, l, act := s.sc, s.l, s.activity
	switch MaskActive(sc.State) {
	case StyleOperator:
		sc.SetState(StyleDefault | act)
	case StyleNumber:
		// Almost anything goes because of hex digits and suffixes.
		if sc.Ch == '_' {
			sc.ChangeState(StyleUserLiteral | act)
		} else if !(l.setWord.Contains(sc.Ch) || sc.Ch == '\'' ||
			((sc.Ch == '+' || sc.Ch == '-') && charset.AnyOf(sc.ChPrev, 'e', 'E', 'p', 'P'))) {
			sc.SetState(StyleDefault | act)
		}
	case StyleUserLiteral:
		if !l.setWord.Contains(sc.Ch) {
			sc.SetState(StyleDefault | act)
		}
	case StyleIdentifier:
		if sc.AtLineStart || sc.AtLineEnd || !l.setWord.Contains(sc.Ch) || sc.Ch == '.' {
			s.classifyIdentifier()
		}
	case StylePreprocessor:
		s.resumePreprocessor()
	case StylePreprocessorComment, StylePreprocessorCommentDoc:
		if sc.MatchPair('*', '/') {
			sc.Forward()
			sc.ForwardSetState(StylePreprocessor | act)
			return true
		}
	case StyleComment:
		if sc.MatchPair('*', '/') {
			sc.Forward()
			sc.ForwardSetState(StyleDefault | act)
		} else {
			s.beforeTask = StyleComment
			s.taskMarker()
		}
	case StyleCommentDoc:
		switch {
		case sc.MatchPair('*', '/'):
			sc.Forward()
			sc.ForwardSetState(StyleDefault | act)
		case sc.Ch == '@' || sc.Ch == '\\':
			if (charset.IsASpace(sc.ChPrev) || sc.ChPrev == '*') && !charset.IsASpace(sc.ChNext) {
				s.beforeDocKey = StyleCommentDoc
				sc.SetState(StyleCommentDocKeyword | act)
			}
		case (sc.Ch == '<' && sc.ChNext != '/') || (sc.Ch == '/' && sc.ChPrev == '<'):
			s.beforeDocKey = StyleCommentDoc
			sc.ForwardSetState(StyleCommentDocKeyword | act)
		}
	case StyleCommentLine:
		if sc.AtLineStart && !s.continuation {
			sc.SetState(StyleDefault | act)
		} else {
			s.beforeTask = StyleCommentLine
			s.taskMarker()
		}
	case StyleCommentLineDoc:
		switch {
		case sc.AtLineStart && !s.continuation:
			sc.SetState(StyleDefault | act)
		case sc.Ch == '@' || sc.Ch == '\\':
			if (charset.IsASpace(sc.ChPrev) || sc.ChPrev == '/' || sc.ChPrev == '!') && !charset.IsASpace(sc.ChNext) {
				s.beforeDocKey = StyleCommentLineDoc
				sc.SetState(StyleCommentDocKeyword | act)
			}
		case (sc.Ch == '<' && sc.ChNext != '/') || (sc.Ch == '/' && sc.ChPrev == '<'):
			s.beforeDocKey = StyleCommentLineDoc
			sc.ForwardSetState(StyleCommentDocKeyword | act)
		}
	case StyleCommentDocKeyword:
		s.resumeDocKeyword()
	case StyleString:
		switch {
		case sc.AtLineEnd:
			sc.ChangeState(StyleStringEOL | act)
		case s.includePP:
			if sc.Ch == '>' {
				sc.ForwardSetState(StyleDefault | act)
				s.includePP = false
			}
		case sc.Ch == '\\':
			if l.opts.escapeSequence {
				s.esc.reset(sc.State, sc.ChNext)
				sc.SetState(StyleEscapeSequence | act)
			}
			sc.Forward()
		case sc.Ch == '"':
			if sc.ChNext == '_' {
				sc.ChangeState(StyleUserLiteral | act)
			} else {
				sc.ForwardSetState(StyleDefault | act)
			}
		}
	case StyleEscapeSequence:
		s.esc.digitsLeft--
		if s.esc.atEnd(sc.Ch) {
			sc.SetState(s.esc.outer)
			return true
		}
	case StyleHashQuotedString:
		if sc.Ch == '\\' {
			if charset.AnyOf(sc.ChNext, '"', '\'', '\\') {
				sc.Forward()
			}
		} else if sc.Ch == '"' {
			sc.ForwardSetState(StyleDefault | act)
		}
	case StyleStringRaw:
		s.resumeRawString()
	case StyleCharacter:
		switch {
		case sc.AtLineEnd:
			sc.ChangeState(StyleStringEOL | act)
		case sc.Ch == '\\':
			if charset.AnyOf(sc.ChNext, '"', '\'', '\\') {
				sc.Forward()
			}
		case sc.Ch == '\'':
			if sc.ChNext == '_' {
				sc.ChangeState(StyleUserLiteral | act)
			} else {
				sc.ForwardSetState(StyleDefault | act)
			}
		}
	case StyleRegex:
		switch {
		case sc.AtLineStart:
			sc.SetState(StyleDefault | act)
		case !s.inRERange && sc.Ch == '/':
			sc.Forward()
			for charset.IsLowerCase(sc.Ch) {
				sc.Forward()
			}
			sc.SetState(StyleDefault | act)
		case sc.Ch == '\\' && sc.CurrentPos+1 < s.styler.LineEnd(sc.CurrentLine):
			sc.Forward()
		case sc.Ch == '[':
			s.inRERange = true
		case sc.Ch == ']':
			s.inRERange = false
		}
	case StyleStringEOL:
		if sc.AtLineStart {
			sc.SetState(StyleDefault | act)
		}
	case StyleVerbatim:
		if l.opts.verbatimStringsAllowEscapes && sc.Ch == '\\' {
			sc.Forward()
		} else if sc.Ch == '"' {
			if sc.ChNext == '"' {
				sc.Forward()
			} else {
				sc.ForwardSetState(StyleDefault | act)
			}
		}
	case StyleTripleVerbatim:
		if sc.Match(`"""`) {
			for sc.MatchChar('"') {
				sc.Forward()
			}
			sc.SetState(StyleDefault | act)
		}
	case StyleUUID:
		if sc.AtLineEnd || sc.Ch == ')' {
			sc.SetState(StyleDefault | act)
		}
	case StyleTaskMarker:
		if isOperatorOrSpace(sc.Ch) {
			sc.SetState(s.beforeTask | act)
			s.beforeTask = StyleDefault
		}
	}
	return false
}

// classifyIdentifier ends an identifier, styling it as a keyword, global
// class or sub-style, and turns string prefixes such as L, u8 and R into
// the string they introduce.
func (s *scanner) classifyIdentifier() {
	sc, l, act := s.sc, s.l, s.activity
	text := s.current()
	switch {
	case l.WordList(slotKeywords).InList(text):
		s.lastWordWasUUID = text == "uuid"
		sc.ChangeState(StyleWord | act)
	case l.WordList(slotKeywords2).InList(text):
		sc.ChangeState(StyleWord2 | act)
	case l.WordList(slotGlobalClasses).InList(text):
		sc.ChangeState(StyleGlobalClass | act)
	default:
		if sub := l.SubStyles.Classifier(int(StyleIdentifier)).ValueFor(text); sub >= 0 {
			sc.ChangeState(lexer.Style(sub) | act)
		}
	}

	literalString := sc.Ch == '"'
	if !literalString && sc.Ch != '\'' {
		sc.SetState(StyleDefault | act)
		return
	}
	prefix := sc.GetCurrent()
	raw := literalString && sc.ChPrev == 'R' && !setInvalidRawFirst.Contains(sc.ChNext) && prefix != ""
	if raw {
		prefix = prefix[:len(prefix)-1]
	}
	valid := prefix == "" || prefix == "L" || prefix == "u" || prefix == "U" ||
		(literalString && prefix == "u8")
	switch {
	case !valid:
		sc.SetState(StyleDefault | act)
	case raw:
		// The prefix takes the raw string style so the opening quote can
		// recognise it.
		sc.ChangeState(StyleStringRaw | act)
		sc.SetState(StyleDefault | act)
	case literalString:
		sc.ChangeState(StyleString | act)
	default:
		sc.ChangeState(StyleCharacter | act)
	}
}

func (s *scanner) resumePreprocessor() {
	sc, act := s.sc, s.activity
	switch {
	case s.l.opts.stylingWithinPreprocessor:
		if charset.IsASpace(sc.Ch) || sc.Ch == '(' {
			sc.SetState(StyleDefault | act)
		}
	case s.stringInPP:
		if sc.Ch == '>' || sc.Ch == '"' || sc.AtLineEnd {
			s.stringInPP = false
		}
	case (s.includePP && sc.Ch == '<') || sc.Ch == '"':
		s.stringInPP = true
	case sc.MatchPair('/', '*'):
		if sc.Match("/**") || sc.Match("/*!") {
			sc.SetState(StylePreprocessorCommentDoc | act)
		} else {
			sc.SetState(StylePreprocessorComment | act)
		}
		sc.Forward()
	case sc.MatchPair('/', '/'):
		sc.SetState(StyleDefault | act)
	}
}

func (s *scanner) resumeDocKeyword() {
	sc, l, act := s.sc, s.l, s.activity
	docKeywords := l.WordList(slotDocKeywords)
	classifier := l.SubStyles.Classifier(int(StyleCommentDocKeyword))
	switch {
	case s.beforeDocKey == StyleCommentDoc && sc.MatchPair('*', '/'):
		sc.ChangeState(StyleCommentDocKeywordError | act)
		sc.Forward()
		sc.ForwardSetState(StyleDefault | act)
		s.docKeyBrace = false
	case sc.Ch == '[' || sc.Ch == '{':
		s.docKeyBrace = true
	case !setDoxygen.Contains(sc.Ch) && !(s.docKeyBrace && (sc.Ch == ',' || sc.Ch == '.')):
		if !charset.IsASpace(sc.Ch) && sc.Ch != 0 {
			sc.ChangeState(StyleCommentDocKeywordError | act)
		} else {
			text := s.current()
			suffix := ""
			if text != "" {
				suffix = text[1:]
			}
			if !docKeywords.InList(suffix) && !docKeywords.InList(text) {
				if sub := classifier.ValueFor(suffix); sub >= 0 {
					sc.ChangeState(lexer.Style(sub) | act)
				} else {
					sc.ChangeState(StyleCommentDocKeywordError | act)
				}
			}
		}
		sc.SetState(s.beforeDocKey | act)
		s.docKeyBrace = false
	case sc.Ch == '>':
		text := s.current()
		if !docKeywords.InList(text) {
			suffix := ""
			if text != "" {
				suffix = text[1:]
			}
			if sub := classifier.ValueFor(suffix); sub >= 0 {
				sc.ChangeState(lexer.Style(sub) | act)
			} else {
				sc.ChangeState(StyleCommentDocKeywordError | act)
			}
		}
		sc.SetState(s.beforeDocKey | act)
		s.docKeyBrace = false
	}
}

func (s *scanner) resumeRawString() {
	sc, act := s.sc, s.activity
	term := s.ctx.rawTerminator
	switch {
	case term != "" && sc.Match(term):
		sc.ForwardBytes(len(term))
		sc.SetState(StyleDefault | act)
		if len(s.ctx.interpolating) == 0 {
			s.ctx.rawTerminator = ""
		}
	case s.l.opts.backQuotedStrings == backQuotedTemplate:
		if sc.Ch == '\\' {
			if s.l.opts.escapeSequence {
				s.esc.reset(sc.State, sc.ChNext)
				sc.SetState(StyleEscapeSequence | act)
			}
			sc.Forward()
		} else if sc.MatchPair('$', '{') {
			s.ctx.interpolating = append(s.ctx.interpolating, interpolation{state: sc.State, braceCount: 1})
			sc.SetState(StyleOperator | act)
			sc.Forward()
		}
	}
}

// taskMarker switches to the task marker style when a listed marker word
// starts at the current position.
func (s *scanner) taskMarker() {
	sc := s.sc
	markers := s.l.WordList(slotTaskMarkers)
	if !isOperatorOrSpace(sc.ChPrev) || isOperatorOrSpace(sc.Ch) || markers.Empty() {
		return
	}
	var marker []byte
	for pos := sc.CurrentPos; pos < s.styler.Length(); pos++ {
		ch := s.styler.SafeGetCharAt(pos, ' ')
		if isOperatorOrSpace(rune(ch)) {
			break
		}
		if !s.l.caseSensitive {
			ch = byte(charset.MakeLowerCase(rune(ch)))
		}
		marker = append(marker, ch)
	}
	if markers.InList(string(marker)) {
		sc.SetState(StyleTaskMarker | s.activity)
	}
}

// enter starts a new token from the default state. It reports true when
// the iteration must restart without advancing.
func (s *scanner) enter() bool {
	sc, l, act := s.sc, s.l, s.activity
	switch {
	case sc.MatchPair('@', '"'):
		sc.SetState(StyleVerbatim | act)
		sc.Forward()
	case l.opts.tripleQuotedStrings && sc.Match(`"""`):
		sc.SetState(StyleTripleVerbatim | act)
		sc.ForwardN(2)
	case l.opts.hashQuotedStrings && sc.MatchPair('#', '"'):
		sc.SetState(StyleHashQuotedString | act)
		sc.Forward()
	case l.opts.backQuotedStrings != backQuotedNone && sc.MatchChar('`'):
		sc.SetState(StyleStringRaw | act)
		s.ctx.rawTerminator = "`"
	case charset.IsADigit(sc.Ch) || (sc.Ch == '.' && charset.IsADigit(sc.ChNext)):
		if s.lastWordWasUUID {
			sc.SetState(StyleUUID | act)
			s.lastWordWasUUID = false
		} else {
			sc.SetState(StyleNumber | act)
		}
	case !sc.AtLineEnd && (l.setWordStart.Contains(sc.Ch) || sc.Ch == '@'):
		if s.lastWordWasUUID {
			sc.SetState(StyleUUID | act)
			s.lastWordWasUUID = false
		} else {
			sc.SetState(StyleIdentifier | act)
		}
	case sc.MatchPair('/', '*'):
		if sc.Match("/**") || sc.Match("/*!") {
			sc.SetState(StyleCommentDoc | act)
		} else {
			sc.SetState(StyleComment | act)
		}
		sc.Forward()
	case sc.MatchPair('/', '/'):
		if (sc.Match("///") && !sc.Match("////")) || sc.Match("//!") {
			sc.SetState(StyleCommentLineDoc | act)
		} else {
			sc.SetState(StyleCommentLine | act)
		}
	case sc.Ch == '/' &&
		(setOKBeforeRE.Contains(s.chPrevNonWhite) || followsReturnKeyword(sc)) &&
		(!setCouldBePostOp.Contains(s.chPrevNonWhite) || !followsPostfixOperator(sc)):
		sc.SetState(StyleRegex | act)
		s.inRERange = false
	case sc.Ch == '"':
		s.openString()
	case s.includePP && sc.Ch == '<':
		sc.SetState(StyleString | act)
	case sc.Ch == '\'':
		sc.SetState(StyleCharacter | act)
	case sc.Ch == '#' && s.visibleChars == 0:
		s.directive()
	case charset.IsOperator(sc.Ch):
		sc.SetState(StyleOperator | act)
		if n := len(s.ctx.interpolating); n > 0 && (sc.Ch == '{' || sc.Ch == '}') {
			top := &s.ctx.interpolating[n-1]
			if sc.Ch == '{' {
				top.braceCount++
			} else if top.braceCount--; top.braceCount == 0 {
				sc.ForwardSetState(top.state)
				s.ctx.interpolating = s.ctx.interpolating[:n-1]
				return true
			}
		}
	}
	return false
}

// openString starts a string at '"'. After a raw prefix it reads the
// delimiter up to '(' on the same line to build the terminator.
func (s *scanner) openString() {
	sc, act := s.sc, s.activity
	s.includePP = false
	if sc.ChPrev != 'R' || MaskActive(s.styler.BufferStyleAt(sc.CurrentPos-1)) != StyleStringRaw {
		sc.SetState(StyleString | act)
		return
	}
	sc.SetState(StyleStringRaw | act)
	var term strings.Builder
	term.WriteByte(')')
	for pos := sc.CurrentPos + 1; term.Len() <= maxRawDelimiter; pos++ {
		ch := s.styler.SafeGetCharAt(pos, '(')
		if ch == '(' || ch == '\r' || ch == '\n' {
			break
		}
		term.WriteByte(ch)
	}
	term.WriteByte('"')
	s.ctx.rawTerminator = term.String()
}

// directive styles a preprocessor line from its '#' and, when tracking
// is on, updates the #if nesting and the symbol table.
func (s *scanner) directive() {
	sc, l := s.sc, s.l
	sc.SetState(StylePreprocessor | s.activity)
	for {
		sc.Forward()
		if !(sc.Ch == ' ' || sc.Ch == '\t') || !sc.More() {
			break
		}
	}
	if sc.Match("include") {
		s.includePP = true
		return
	}
	if !l.opts.trackPreprocessor || !charset.IsAlphaNumeric(sc.Ch) {
		return
	}
	pp := &s.ctx.pp
	switch {
	case sc.Match("ifdef") || sc.Match("ifndef"):
		isIfDef := sc.Match("ifdef")
		skip := 6
		if isIfDef {
			skip = 5
		}
		name := restOfLine(s.styler, sc.CurrentPos+skip+1, false)
		_, found := s.defs[name]
		pp.startSection(isIfDef == found)
	case sc.Match("if"):
		pp.startSection(l.evaluateExpression(restOfLine(s.styler, sc.CurrentPos+2, true), s.defs))
	case sc.Match("else"):
		// #else shows active when either side of it is active.
		if !pp.validLevel() {
			return
		}
		if !pp.currentIfTaken() {
			pp.invertCurrentLevel()
			s.activity = pp.activity()
			if s.activity == 0 {
				sc.ChangeState(StylePreprocessor)
			}
		} else if pp.isActive() {
			pp.invertCurrentLevel()
			s.activity = pp.activity()
		}
	case sc.Match("elif"):
		// Only one branch of #if .. #elif .. #else is taken.
		if !pp.validLevel() {
			return
		}
		if !pp.currentIfTaken() {
			if l.evaluateExpression(restOfLine(s.styler, sc.CurrentPos+4, true), s.defs) {
				pp.invertCurrentLevel()
				s.activity = pp.activity()
				if s.activity == 0 {
					sc.ChangeState(StylePreprocessor)
				}
			}
		} else if pp.isActive() {
			pp.invertCurrentLevel()
			s.activity = pp.activity()
		}
	case sc.Match("endif"):
		pp.endSection()
		s.activity = pp.activity()
		sc.ChangeState(StylePreprocessor | s.activity)
	case sc.Match("define"):
		if l.opts.updatePreprocessor && pp.isActive() {
			s.define(restOfLine(s.styler, sc.CurrentPos+6, true))
		}
	case sc.Match("undef"):
		if l.opts.updatePreprocessor && pp.isActive() {
			if tokens := l.tokenize(restOfLine(s.styler, sc.CurrentPos+5, false)); len(tokens) > 0 {
				delete(s.defs, tokens[0])
				s.record(definition{key: tokens[0], undef: true})
			}
		}
	}
}

// define parses the text after #define: NAME value or NAME(args) value.
// A definition without a value is 1.
func (s *scanner) define(rest string) {
	start := 0
	for start < len(rest) && isSpaceOrTab(rest[start]) {
		start++
	}
	end := start
	for end < len(rest) && s.l.setWord.ContainsByte(rest[end]) {
		end++
	}
	key := rest[start:end]
	var sym symbol
	if end < len(rest) && rest[end] == '(' {
		closing := strings.IndexByte(rest[end:], ')')
		if closing < 0 {
			closing = len(rest) - end
		}
		sym.arguments = rest[end+1 : end+closing]
		sym.value = strings.TrimLeft(rest[min(end+closing+1, len(rest)):], " \t")
	} else {
		sym.value = strings.TrimLeft(rest[end:], " \t")
		if onlySpaceOrTab(sym.value) {
			sym.value = "1"
		}
	}
	s.defs[key] = sym
	s.record(definition{key: key, value: sym})
}

func (s *scanner) record(d definition) {
	d.line = s.sc.CurrentLine
	s.l.defineHistory = append(s.l.defineHistory, d)
	s.definitionsChanged = true
}
