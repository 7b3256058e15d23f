// Package nim lexes Nim source and folds it by indentation.
package nim

import (
	"strings"

	"github.com/zjrosen/stylex/internal/charset"
	"github.com/zjrosen/stylex/internal/lexer"
)

// ID is the numeric lexer identifier.
const ID = 126

const (
	StyleDefault        lexer.Style = 0
	StyleComment        lexer.Style = 1
	StyleCommentDoc     lexer.Style = 2
	StyleCommentLine    lexer.Style = 3
	StyleCommentLineDoc lexer.Style = 4
	StyleNumber         lexer.Style = 5
	StyleString         lexer.Style = 6
	StyleCharacter      lexer.Style = 7
	StyleWord           lexer.Style = 8
	StyleTriple         lexer.Style = 9
	StyleTripleDouble   lexer.Style = 10
	StyleBackticks      lexer.Style = 11
	StyleFuncName       lexer.Style = 12
	StyleStringEOL      lexer.Style = 13
	StyleNumError       lexer.Style = 14
	StyleOperator       lexer.Style = 15
	StyleIdentifier     lexer.Style = 16
)

var lexicalClasses = []lexer.LexicalClass{
	{Value: StyleDefault, Name: "SCE_NIM_DEFAULT", Tags: "default", Description: "White space"},
	{Value: StyleComment, Name: "SCE_NIM_COMMENT", Tags: "comment block", Description: "Block comment"},
	{Value: StyleCommentDoc, Name: "SCE_NIM_COMMENTDOC", Tags: "comment block doc", Description: "Block doc comment"},
	{Value: StyleCommentLine, Name: "SCE_NIM_COMMENTLINE", Tags: "comment line", Description: "Line comment"},
	{Value: StyleCommentLineDoc, Name: "SCE_NIM_COMMENTLINEDOC", Tags: "comment doc", Description: "Line doc comment"},
	{Value: StyleNumber, Name: "SCE_NIM_NUMBER", Tags: "literal numeric", Description: "Number"},
	{Value: StyleString, Name: "SCE_NIM_STRING", Tags: "literal string", Description: "String"},
	{Value: StyleCharacter, Name: "SCE_NIM_CHARACTER", Tags: "literal string", Description: "Single quoted string"},
	{Value: StyleWord, Name: "SCE_NIM_WORD", Tags: "keyword", Description: "Keyword"},
	{Value: StyleTriple, Name: "SCE_NIM_TRIPLE", Tags: "literal string", Description: "Triple quotes"},
	{Value: StyleTripleDouble, Name: "SCE_NIM_TRIPLEDOUBLE", Tags: "literal string", Description: "Triple double quotes"},
	{Value: StyleBackticks, Name: "SCE_NIM_BACKTICKS", Tags: "operator definition", Description: "Identifiers"},
	{Value: StyleFuncName, Name: "SCE_NIM_FUNCNAME", Tags: "identifier", Description: "Function name definition"},
	{Value: StyleStringEOL, Name: "SCE_NIM_STRINGEOL", Tags: "error literal string", Description: "String is not closed"},
	{Value: StyleNumError, Name: "SCE_NIM_NUMERROR", Tags: "numeric error", Description: "Numeric format error"},
	{Value: StyleOperator, Name: "SCE_NIM_OPERATOR", Tags: "operator", Description: "Operators"},
	{Value: StyleIdentifier, Name: "SCE_NIM_IDENTIFIER", Tags: "identifier", Description: "Identifiers"},
}

// WordListDescriptions names the keyword slots.
var WordListDescriptions = []string{
	"Keywords",
}

// stateCommentDepth holds the block comment nesting depth at the end of a
// line.
var stateCommentDepth = lexer.BitField{Shift: 0, Width: 16}

const (
	defaultNestingLimit = 255
	maxNestingLimit     = 1<<16 - 1
)

type options struct {
	fold                 bool
	foldCompact          bool
	highlightRawStrIdent bool
	nestingLimit         int
}

// Lexer is the Nim lexer.
type Lexer struct {
	lexer.Base
	opts options
}

// New returns a Nim lexer with default options.
func New() lexer.Lexer {
	l := &Lexer{opts: options{
		fold:         true,
		foldCompact:  true,
		nestingLimit: defaultNestingLimit,
	}}
	o := lexer.NewOptionSet()
	o.DefineBool("lexer.nim.raw.strings.highlight.ident", &l.opts.highlightRawStrIdent,
		"Set to 1 to enable highlighting generalized raw string identifiers. "+
			"Generalized raw string identifiers are anything other than r (or R).")
	o.DefineBool("fold", &l.opts.fold, "")
	o.DefineBool("fold.compact", &l.opts.foldCompact, "")
	o.DefineInt("lexer.nim.comment.nesting.limit", &l.opts.nestingLimit,
		"Deepest block comment nesting that is tracked (1 to 65535). Deeper openers do not nest.")
	o.DefineWordListSets(WordListDescriptions)
	l.Base = lexer.NewBase("nim", ID, lexicalClasses, o)
	return l
}

type numType int

const (
	numBinary numType = iota
	numOctal
	numExponent
	numHexadecimal
	numDecimal
	numFormatError
)

func (n numType) style() lexer.Style {
	if n == numFormatError {
		return StyleNumError
	}
	return StyleNumber
}

// numberStep is what the current character does to a number being scanned.
type numberStep int

const (
	numContinue numberStep = iota
	numEnd
	numOperator
)

const operators = "()[]{}:=;-\\/&%$!+<>|^?,.*~@"

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isFuncName(s string) bool {
	switch s {
	case "proc", "func", "macro", "method", "template", "iterator", "converter":
		return true
	}
	return false
}

func isTypeSuffix(ch rune) bool {
	switch ch {
	case 'i', 'I', 'u', 'U', 'f', 'F', 'd', 'D':
		return true
	}
	return false
}

// scanner holds the auxiliary state of one Lex call.
type scanner struct {
	sc           *lexer.StyleContext
	limit        int
	commentDepth int
	lineSaved    int

	num          numType
	decimalCount int
	suffix       bool

	funcNameExists          bool
	isStylingRawString      bool
	isStylingRawStringIdent bool
}

func (s *scanner) saveLineState() {
	s.sc.Styler().SetLineState(s.sc.CurrentLine, stateCommentDepth.Put(0, s.commentDepth))
}

// startLine resets what does not carry over a line end and records the
// comment depth the line starts with.
func (s *scanner) startLine() {
	s.funcNameExists = false
	s.isStylingRawString = false
	s.isStylingRawStringIdent = false
	s.saveLineState()
	s.lineSaved = s.sc.CurrentLine
}

func (s *scanner) openComment() {
	if s.commentDepth < s.limit {
		s.commentDepth++
	}
	s.saveLineState()
}

func (s *scanner) closeComment() {
	if s.commentDepth > 0 {
		s.commentDepth--
	}
	s.saveLineState()
}

// numberStep decides whether the current character continues the number.
// Fraction digits, digit separators and type suffixes such as 0x80'u8 stay
// inside the literal.
func (s *scanner) numberStep() numberStep {
	sc := s.sc
	if s.suffix {
		if charset.IsAlphaNumeric(sc.Ch) {
			return numContinue
		}
		return numEnd
	}
	switch {
	case sc.Ch == '\'':
		if isTypeSuffix(sc.ChNext) {
			sc.Forward()
			s.suffix = true
			return numContinue
		}
		return numEnd
	case sc.Ch == '.':
		if s.num == numDecimal && s.decimalCount == 0 && charset.IsADigit(sc.ChNext) {
			s.decimalCount++
			return numContinue
		}
		if s.num <= numExponent {
			return numOperator
		}
		s.decimalCount++
		switch s.num {
		case numDecimal:
			if s.decimalCount <= 1 && !charset.IsWordChar(sc.ChNext) {
				return numContinue
			}
		case numHexadecimal:
			if s.decimalCount <= 1 && charset.IsADigitBase(sc.ChNext, 16) {
				return numContinue
			}
			return numOperator
		}
		return numEnd
	case sc.Ch == '_':
		// One underscore between digits.
		if charset.IsADigitBase(sc.ChNext, 16) && (s.num == numHexadecimal || charset.IsADigit(sc.ChNext)) {
			return numContinue
		}
		return numEnd
	case s.num == numDecimal:
		if sc.Ch == 'e' || sc.Ch == 'E' {
			s.num = numExponent
			if sc.ChNext == '-' || sc.ChNext == '+' {
				sc.Forward()
			}
			return numContinue
		}
		if charset.IsADigit(sc.Ch) {
			return numContinue
		}
		return numEnd
	case s.num == numHexadecimal:
		if charset.IsADigitBase(sc.Ch, 16) {
			return numContinue
		}
		return numEnd
	case charset.IsADigit(sc.Ch):
		switch {
		case s.num == numExponent:
			return numContinue
		case s.num == numOctal && sc.Ch <= '7':
			return numContinue
		case s.num == numBinary && sc.Ch <= '1':
			return numContinue
		}
		s.num = numFormatError
		return numContinue
	}
	return numEnd
}

func (l *Lexer) Lex(startPos, length int, initStyle lexer.Style, doc lexer.Document) {
	if initStyle == StyleStringEOL {
		initStyle = StyleDefault
	}
	styler := lexer.NewAccessor(doc)
	sc := lexer.NewStyleContext(startPos, length, initStyle, styler)

	s := &scanner{
		sc:        sc,
		limit:     lexer.Clamp(l.opts.nestingLimit, 1, maxNestingLimit),
		lineSaved: -1,
		num:       numDecimal,
	}
	if line := styler.GetLine(startPos); line > 0 {
		s.commentDepth = min(stateCommentDepth.Get(styler.GetLineState(line-1)), s.limit)
	}

	for ; sc.More(); sc.Forward() {
		if sc.AtLineStart {
			if sc.State == StyleString || sc.State == StyleCharacter {
				sc.SetState(sc.State)
			}
			s.startLine()
		}

		// String line continuation.
		if sc.Ch == '\\' && charset.IsNewline(sc.ChNext) &&
			(sc.State == StyleString || sc.State == StyleCharacter) && !s.isStylingRawString {
			sc.Forward()
			if sc.MatchPair('\r', '\n') {
				sc.Forward()
			}
			continue
		}

		switch sc.State {
		case StyleOperator:
			s.funcNameExists = false
			sc.SetState(StyleDefault)

		case StyleNumber:
			switch s.numberStep() {
			case numOperator:
				sc.SetState(StyleOperator)
			case numEnd:
				sc.ChangeState(s.num.style())
				sc.SetState(StyleDefault)
			}

		case StyleIdentifier:
			if !charset.IsWordChar(sc.Ch) || sc.Ch == '.' {
				l.classifyIdentifier(s)
			}
			if charset.IsAlphaNumeric(sc.Ch) && sc.ChNext == '"' {
				s.isStylingRawStringIdent = true
				if l.opts.highlightRawStrIdent {
					if styler.Match(sc.CurrentPos+1, `"""`) {
						sc.ChangeState(StyleTripleDouble)
					} else {
						sc.ChangeState(StyleString)
					}
				}
				sc.ForwardSetState(StyleDefault)
			}

		case StyleFuncName:
			if sc.Ch == '`' {
				s.funcNameExists = false
				sc.ForwardSetState(StyleDefault)
			} else if sc.AtLineEnd {
				s.funcNameExists = false
				sc.ChangeState(StyleStringEOL)
				sc.ForwardSetState(StyleDefault)
			}

		case StyleComment:
			if sc.MatchPair(']', '#') {
				s.closeComment()
				sc.Forward()
				if s.commentDepth == 0 {
					sc.ForwardSetState(StyleDefault)
				}
			} else if sc.MatchPair('#', '[') {
				s.openComment()
			}

		case StyleCommentDoc:
			if sc.Match("]##") {
				s.closeComment()
				sc.ForwardN(2)
				if s.commentDepth == 0 {
					sc.ForwardSetState(StyleDefault)
				}
			} else if sc.Match("##[") {
				s.openComment()
			}

		case StyleCommentLine, StyleCommentLineDoc:
			if sc.AtLineStart {
				sc.SetState(StyleDefault)
			}

		case StyleString:
			switch {
			case !s.isStylingRawStringIdent && !s.isStylingRawString && sc.Ch == '\\':
				if sc.ChNext == '"' || sc.ChNext == '\'' || sc.ChNext == '\\' {
					sc.Forward()
				}
			case s.isStylingRawString && sc.MatchPair('"', '"'):
				// r"a""b" holds a doubled quote.
				sc.Forward()
			case sc.Ch == '"':
				sc.ForwardSetState(StyleDefault)
			case sc.AtLineEnd:
				sc.ChangeState(StyleStringEOL)
				sc.ForwardSetState(StyleDefault)
			}

		case StyleCharacter:
			switch {
			case sc.Ch == '\\':
				if sc.ChNext == '"' || sc.ChNext == '\'' || sc.ChNext == '\\' {
					sc.Forward()
				}
			case sc.Ch == '\'':
				sc.ForwardSetState(StyleDefault)
			case sc.AtLineEnd:
				sc.ChangeState(StyleStringEOL)
				sc.ForwardSetState(StyleDefault)
			}

		case StyleBackticks:
			if sc.Ch == '`' {
				sc.ForwardSetState(StyleDefault)
			} else if sc.AtLineEnd {
				sc.ChangeState(StyleStringEOL)
				sc.ForwardSetState(StyleDefault)
			}

		case StyleTripleDouble:
			if sc.Match(`"""`) {
				// Quotes after the closing triple belong to the literal.
				for sc.Ch == '"' {
					sc.Forward()
				}
				sc.SetState(StyleDefault)
			}

		case StyleTriple:
			if sc.Match("'''") {
				sc.ForwardN(2)
				sc.ForwardSetState(StyleDefault)
			}
		}

		// A run closed by ForwardSetState at a line end leaves the walk on
		// the first character of the next line.
		if sc.AtLineStart && s.lineSaved != sc.CurrentLine {
			s.startLine()
		}

		if sc.State == StyleDefault {
			l.startToken(s)
		}
	}
	sc.Complete()
}

// classifyIdentifier closes an identifier as a keyword, a function name
// after proc and friends, or a plain identifier. Keywords after a dot are
// plain identifiers.
func (l *Lexer) classifyIdentifier(s *scanner) {
	sc := s.sc
	word := sc.GetCurrent()
	style := StyleIdentifier
	if l.WordList(0).InList(word) && !s.funcNameExists {
		segStart := sc.Styler().GetStartSegment() - 1
		if segStart < 0 || sc.Styler().SafeGetCharAt(segStart, 0) != '.' {
			style = StyleWord
		}
	} else if s.funcNameExists {
		style = StyleFuncName
	}
	sc.ChangeState(style)
	sc.SetState(StyleDefault)
	s.funcNameExists = style == StyleWord && isFuncName(word)
}

func (l *Lexer) startToken(s *scanner) {
	sc := s.sc
	styler := sc.Styler()
	switch {
	case charset.IsADigit(sc.Ch):
		sc.SetState(StyleNumber)
		s.num = numDecimal
		s.decimalCount = 0
		s.suffix = false
		if sc.Ch == '0' {
			switch {
			case sc.ChNext == 'x' || sc.ChNext == 'X':
				s.num = numHexadecimal
			case sc.ChNext == 'b' || sc.ChNext == 'B':
				s.num = numBinary
			case charset.IsADigit(sc.ChNext) || sc.ChNext == 'o':
				s.num = numOctal
			}
			if s.num != numDecimal {
				sc.Forward()
			}
		}

	case charset.IsAlphaNumeric(sc.Ch) && sc.ChNext == '"':
		// Raw string, or a call with a generalized raw string argument.
		s.isStylingRawString = true
		if styler.Match(sc.CurrentPos+1, `"""`) {
			sc.SetState(StyleTripleDouble)
		} else {
			sc.SetState(StyleString)
		}
		raw := sc.Ch == 'r' || sc.Ch == 'R'
		if l.opts.highlightRawStrIdent {
			raw = isLetter(sc.Ch)
		}
		if raw {
			sc.Forward()
			if sc.State == StyleTripleDouble {
				sc.ForwardN(2)
			}
		} else {
			s.isStylingRawStringIdent = true
			sc.SetState(StyleIdentifier)
		}

	case sc.Ch == '"':
		s.isStylingRawString = false
		if sc.Match(`"""`) {
			sc.SetState(StyleTripleDouble)
			// Up to five quotes open the literal: """""x""" starts with "".
			for sc.Ch == '"' {
				sc.Forward()
				if sc.Match(`"""`) {
					sc.Forward()
					break
				}
			}
		} else {
			sc.SetState(StyleString)
		}

	case sc.Ch == '\'':
		if sc.Match("'''") {
			sc.SetState(StyleTriple)
		} else {
			sc.SetState(StyleCharacter)
		}

	case sc.Ch == '`':
		if s.funcNameExists {
			sc.SetState(StyleFuncName)
		} else {
			sc.SetState(StyleBackticks)
		}

	case charset.IsWordStart(sc.Ch):
		sc.SetState(StyleIdentifier)

	case sc.Ch == '#':
		switch {
		case sc.Match("##["):
			s.openComment()
			sc.SetState(StyleCommentDoc)
			sc.Forward()
		case sc.Match("#["):
			s.openComment()
			sc.SetState(StyleComment)
			sc.Forward()
		case sc.Match("##"):
			sc.SetState(StyleCommentLineDoc)
		default:
			sc.SetState(StyleCommentLine)
		}

	case sc.Ch != 0 && strings.ContainsRune(operators, sc.Ch):
		sc.SetState(StyleOperator)
	}
}

func isTripleLiteral(style lexer.Style) bool {
	return style == StyleTriple || style == StyleTripleDouble
}

func isComment(style lexer.Style) bool {
	return style == StyleComment || style == StyleCommentDoc ||
		style == StyleCommentLine || style == StyleCommentLineDoc
}

// indentAmount measures the indentation of line with tab stops of 8. The
// inside of triple quoted literals counts as indentation so no fold points
// start there. Comment lines and blank lines are white, and comment lines
// are left below LevelBase so they never deepen a block.
func indentAmount(styler *lexer.Accessor, line int) lexer.FoldLevel {
	pos := styler.LineStart(line)
	eol := styler.LineStart(line+1) - 1
	ch := styler.CharAt(pos)
	style := styler.StyleAt(pos)

	indent := 0
	for (charset.IsASpaceOrTab(rune(ch)) || isTripleLiteral(style)) && pos < eol {
		if ch == '\t' {
			indent = (indent/8 + 1) * 8
		} else {
			indent++
		}
		pos++
		ch = styler.CharAt(pos)
		style = styler.StyleAt(pos)
	}

	level := lexer.FoldLevel(indent)
	if !isComment(style) {
		level += lexer.LevelBase
	}
	if styler.LineStart(line) == styler.Length() || charset.IsASpaceOrTab(rune(ch)) ||
		charset.IsNewline(rune(ch)) || isComment(style) {
		level |= lexer.LevelWhiteFlag
	}
	return level
}

// Fold derives levels from indentation. Blank and comment lines take the
// level of the next code line, or stay in the block before them when they
// are indented deeper than that line.
func (l *Lexer) Fold(startPos, length int, _ lexer.Style, doc lexer.Document) {
	if !l.opts.fold {
		return
	}
	styler := lexer.NewAccessor(doc)
	docLines := styler.GetLine(styler.Length())
	maxPos := startPos + length
	lastPos := maxPos - 1
	if maxPos == styler.Length() {
		lastPos = maxPos
	}
	maxLines := styler.GetLine(lastPos)

	lineCurrent := styler.GetLine(startPos)
	indentCurrent := indentAmount(styler, lineCurrent)
	for lineCurrent > 0 {
		lineCurrent--
		indentCurrent = indentAmount(styler, lineCurrent)
		if !indentCurrent.IsWhite() {
			break
		}
	}
	// Leading blank and comment lines sit at the level of the first code
	// line.
	if indentCurrent.IsWhite() {
		first := lexer.LevelBase
		for line := lineCurrent + 1; line <= docLines; line++ {
			if lev := indentAmount(styler, line); !lev.IsWhite() {
				first = lev
				break
			}
		}
		indentCurrent = lexer.FoldLevel(first.Number()) | lexer.LevelWhiteFlag
	}
	indentCurrentLevel := indentCurrent.Number()

	firstLine := lineCurrent
	var levels []lexer.FoldLevel
	set := func(line int, level lexer.FoldLevel) {
		for len(levels) <= line-firstLine {
			levels = append(levels, 0)
		}
		levels[line-firstLine] = level
	}

	for lineCurrent <= docLines && lineCurrent <= maxLines {
		lineNext := lineCurrent + 1
		indentNext := indentCurrent
		if lineNext <= docLines {
			indentNext = indentAmount(styler, lineNext)
		}
		if indentNext.IsWhite() {
			indentNext = lexer.LevelWhiteFlag | lexer.FoldLevel(indentCurrentLevel)
		}
		for lineNext < docLines && indentNext.IsWhite() {
			lineNext++
			indentNext = indentAmount(styler, lineNext)
		}
		// Trailing blank and comment lines stay in the last block.
		if indentNext.IsWhite() {
			indentNext = lexer.LevelWhiteFlag | lexer.FoldLevel(indentCurrentLevel)
		}
		indentNextLevel := indentNext.Number()
		levelBeforeComments := max(indentCurrentLevel, indentNextLevel)

		skipLevel := indentNextLevel
		for skipLine := lineNext - 1; skipLine > lineCurrent; skipLine-- {
			skipIndent := indentAmount(styler, skipLine)
			if l.opts.foldCompact {
				if skipIndent.Number() > indentNextLevel {
					skipLevel = levelBeforeComments
				}
				set(skipLine, lexer.FoldLevel(skipLevel)|skipIndent&lexer.LevelWhiteFlag)
			} else {
				if skipIndent.Number() > indentNextLevel && !skipIndent.IsWhite() {
					skipLevel = levelBeforeComments
				}
				set(skipLine, lexer.FoldLevel(skipLevel))
			}
		}

		lev := indentCurrent
		if !l.opts.foldCompact {
			lev &^= lexer.LevelWhiteFlag
		}
		set(lineCurrent, lev)

		indentCurrent = indentNext
		indentCurrentLevel = indentNextLevel
		lineCurrent = lineNext
	}

	styler.CommitIndentLevels(firstLine, levels)
}
