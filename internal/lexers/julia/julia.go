// Package julia lexes Julia source and folds it by syntax.
package julia

import (
	"github.com/zjrosen/stylex/internal/charset"
	"github.com/zjrosen/stylex/internal/lexer"
)

// ID is the numeric lexer identifier.
const ID = 133

const (
	StyleDefault        lexer.Style = 0
	StyleComment        lexer.Style = 1
	StyleNumber         lexer.Style = 2
	StyleKeyword1       lexer.Style = 3
	StyleKeyword2       lexer.Style = 4
	StyleKeyword3       lexer.Style = 5
	StyleChar           lexer.Style = 6
	StyleOperator       lexer.Style = 7
	StyleBracket        lexer.Style = 8
	StyleIdentifier     lexer.Style = 9
	StyleString         lexer.Style = 10
	StyleSymbol         lexer.Style = 11
	StyleMacro          lexer.Style = 12
	StyleStringInterp   lexer.Style = 13
	StyleDocString      lexer.Style = 14
	StyleStringLiteral  lexer.Style = 15
	StyleCommand        lexer.Style = 16
	StyleCommandLiteral lexer.Style = 17
	StyleTypeAnnot      lexer.Style = 18
	StyleLexError       lexer.Style = 19
	StyleKeyword4       lexer.Style = 20
	StyleTypeOperator   lexer.Style = 21
)

var lexicalClasses = []lexer.LexicalClass{
	{Value: StyleDefault, Name: "SCE_JULIA_DEFAULT", Tags: "default", Description: "White space"},
	{Value: StyleComment, Name: "SCE_JULIA_COMMENT", Tags: "comment", Description: "Comment"},
	{Value: StyleNumber, Name: "SCE_JULIA_NUMBER", Tags: "literal numeric", Description: "Number"},
	{Value: StyleKeyword1, Name: "SCE_JULIA_KEYWORD1", Tags: "keyword", Description: "Reserved keywords"},
	{Value: StyleKeyword2, Name: "SCE_JULIA_KEYWORD2", Tags: "identifier", Description: "Builtin type names"},
	{Value: StyleKeyword3, Name: "SCE_JULIA_KEYWORD3", Tags: "identifier", Description: "Constants"},
	{Value: StyleChar, Name: "SCE_JULIA_CHAR", Tags: "literal string character", Description: "Single quoted string"},
	{Value: StyleOperator, Name: "SCE_JULIA_OPERATOR", Tags: "operator", Description: "Operator"},
	{Value: StyleBracket, Name: "SCE_JULIA_BRACKET", Tags: "bracket operator", Description: "Bracket operator"},
	{Value: StyleIdentifier, Name: "SCE_JULIA_IDENTIFIER", Tags: "identifier", Description: "Identifier"},
	{Value: StyleString, Name: "SCE_JULIA_STRING", Tags: "literal string", Description: "Double quoted String"},
	{Value: StyleSymbol, Name: "SCE_JULIA_SYMBOL", Tags: "literal string symbol", Description: "Symbol"},
	{Value: StyleMacro, Name: "SCE_JULIA_MACRO", Tags: "macro preprocessor", Description: "Macro"},
	{Value: StyleStringInterp, Name: "SCE_JULIA_STRINGINTERP", Tags: "literal string interpolated", Description: "String interpolation"},
	{Value: StyleDocString, Name: "SCE_JULIA_DOCSTRING", Tags: "literal string documentation", Description: "Docstring"},
	{Value: StyleStringLiteral, Name: "SCE_JULIA_STRINGLITERAL", Tags: "literal string", Description: "String literal prefix"},
	{Value: StyleCommand, Name: "SCE_JULIA_COMMAND", Tags: "literal string command", Description: "Command"},
	{Value: StyleCommandLiteral, Name: "SCE_JULIA_COMMANDLITERAL", Tags: "literal string command", Description: "Command literal prefix"},
	{Value: StyleTypeAnnot, Name: "SCE_JULIA_TYPEANNOT", Tags: "identifier type", Description: "Type annotation identifier"},
	{Value: StyleLexError, Name: "SCE_JULIA_LEXERROR", Tags: "lexer error", Description: "Lexing error"},
	{Value: StyleKeyword4, Name: "SCE_JULIA_KEYWORD4", Tags: "identifier", Description: "Builtin function names"},
	{Value: StyleTypeOperator, Name: "SCE_JULIA_TYPEOPERATOR", Tags: "operator type", Description: "Type annotation operator"},
}

// WordListDescriptions names the keyword slots.
var WordListDescriptions = []string{
	"Primary keywords and identifiers",
	"Built in types",
	"Other keywords",
	"Built in functions",
}

// wordStyles maps keyword slots to their styles, in match priority order.
var wordStyles = []lexer.Style{StyleKeyword1, StyleKeyword2, StyleKeyword3, StyleKeyword4}

// Line state layout.
var (
	stateTranspose      = lexer.BitField{Shift: 0, Width: 1}
	stateTripleDoc      = lexer.BitField{Shift: 1, Width: 1}
	stateTripleBacktick = lexer.BitField{Shift: 2, Width: 1}
	stateRawString      = lexer.BitField{Shift: 3, Width: 1}
	stateIndexing       = lexer.BitField{Shift: 4, Width: 8}
	stateBrackets       = lexer.BitField{Shift: 12, Width: 8}
	stateCommentDepth   = lexer.BitField{Shift: 20, Width: 8}
)

const (
	defaultNestingLimit = 15
	maxNestingLimit     = 255
)

// lineState is what carries over a line end.
type lineState struct {
	// transpose is set when ' after the previous token is the transpose
	// operator rather than a character literal.
	transpose      bool
	tripleDoc      bool
	tripleBacktick bool
	rawString      bool
	// indexing counts open [ and brackets counts open [ and (.
	indexing     int
	brackets     int
	commentDepth int
}

func decodeLineState(v int) lineState {
	return lineState{
		transpose:      stateTranspose.Flag(v),
		tripleDoc:      stateTripleDoc.Flag(v),
		tripleBacktick: stateTripleBacktick.Flag(v),
		rawString:      stateRawString.Flag(v),
		indexing:       stateIndexing.Get(v),
		brackets:       stateBrackets.Get(v),
		commentDepth:   stateCommentDepth.Get(v),
	}
}

func (s lineState) encode() int {
	v := stateTranspose.PutFlag(0, s.transpose)
	v = stateTripleDoc.PutFlag(v, s.tripleDoc)
	v = stateTripleBacktick.PutFlag(v, s.tripleBacktick)
	v = stateRawString.PutFlag(v, s.rawString)
	v = stateIndexing.Put(v, s.indexing)
	v = stateBrackets.Put(v, s.brackets)
	return stateCommentDepth.Put(v, s.commentDepth)
}

type options struct {
	fold                    bool
	foldComment             bool
	foldCompact             bool
	foldDocstring           bool
	foldSyntaxBased         bool
	highlightTypeAnnotation bool
	highlightLexError       bool
	nestingLimit            int
}

// Lexer is the Julia lexer.
type Lexer struct {
	lexer.Base
	opts options
}

// New returns a Julia lexer with default options.
func New() lexer.Lexer {
	l := &Lexer{opts: options{
		fold:            true,
		foldComment:     true,
		foldDocstring:   true,
		foldSyntaxBased: true,
		nestingLimit:    defaultNestingLimit,
	}}
	o := lexer.NewOptionSet()
	o.DefineBool("fold", &l.opts.fold, "")
	o.DefineBool("fold.compact", &l.opts.foldCompact, "")
	o.DefineBool("fold.comment", &l.opts.foldComment, "")
	o.DefineBool("fold.julia.docstring", &l.opts.foldDocstring,
		"Fold multiline triple-doublequote strings, usually used to document a function or type above the definition.")
	o.DefineBool("fold.julia.syntax.based", &l.opts.foldSyntaxBased,
		"Set this property to 0 to disable syntax based folding.")
	o.DefineBool("lexer.julia.highlight.typeannotation", &l.opts.highlightTypeAnnotation,
		"This option enables highlighting of the type identifier after `::`.")
	o.DefineBool("lexer.julia.highlight.lexerror", &l.opts.highlightLexError,
		"This option enables highlighting of syntax error int character or number definition.")
	o.DefineInt("lexer.julia.nesting.limit", &l.opts.nestingLimit,
		"Deepest nesting of block comments and brackets that is tracked (1 to 255).")
	o.DefineWordListSets(WordListDescriptions)
	l.Base = lexer.NewBase("julia", ID, lexicalClasses, o)
	return l
}

// scanner holds the auxiliary state of one Lex call.
type scanner struct {
	sc        *lexer.StyleContext
	st        lineState
	limit     int
	savedLine int

	// Number being scanned.
	base    int
	withDot bool
}

func (s *scanner) save(line int) {
	s.sc.Styler().SetLineState(line, s.st.encode())
	s.savedLine = line
}

func (s *scanner) inc(n *int) {
	if *n < s.limit {
		*n++
	}
}

func dec(n *int) {
	if *n > 0 {
		*n--
	}
}

func (l *Lexer) Lex(startPos, length int, initStyle lexer.Style, doc lexer.Document) {
	styler := lexer.NewAccessor(doc)
	s := &scanner{
		limit:     lexer.Clamp(l.opts.nestingLimit, 1, maxNestingLimit),
		savedLine: -1,
		base:      10,
	}
	if line := styler.GetLine(startPos); line > 0 {
		s.st = decodeLineState(styler.GetLineState(line - 1))
		s.st.indexing = min(s.st.indexing, s.limit)
		s.st.brackets = min(s.st.brackets, s.limit)
		s.st.commentDepth = min(s.st.commentDepth, s.limit)
		s.savedLine = line - 1
	}
	sc := lexer.NewStyleContext(startPos, length, initStyle, styler)
	s.sc = sc

	for ; sc.More(); sc.Forward() {
		switch sc.State {
		case StyleBracket, StyleTypeOperator, StyleLexError:
			// Error runs always close with the character after them.
			sc.SetState(StyleDefault)

		case StyleOperator:
			resumeOperator(sc)

		case StyleTypeAnnot, StyleSymbol:
			if !isIdentifierChar(sc.Ch) {
				sc.SetState(StyleDefault)
			}

		case StyleMacro:
			if charset.IsASpace(sc.Ch) || !isIdentifierChar(sc.Ch) {
				sc.SetState(StyleDefault)
			}

		case StyleIdentifier:
			switch {
			case sc.Ch == '"':
				// A prefixed string is raw: no interpolation.
				s.st.rawString = true
				sc.ChangeState(StyleStringLiteral)
				sc.SetState(StyleDefault)
			case sc.Ch == '`':
				s.st.rawString = true
				sc.ChangeState(StyleCommandLiteral)
				sc.SetState(StyleDefault)
			case !isIdentifierChar(sc.Ch):
				l.classifyIdentifier(s)
			}

		case StyleNumber:
			s.resumeNumber(l.opts.highlightLexError)

		case StyleChar:
			s.resumeCharacter(l.opts.highlightLexError)

		case StyleDocString, StyleString:
			s.resumeStringLike('"', sc.State == StyleDocString, !s.st.rawString)
			if sc.State == StyleDefault {
				s.st.rawString = false
			}

		case StyleCommand:
			s.resumeStringLike('`', s.st.tripleBacktick, !s.st.rawString)
			if sc.State == StyleDefault {
				s.st.rawString = false
			}

		case StyleComment:
			if s.st.commentDepth > 0 {
				if sc.MatchPair('=', '#') {
					s.st.commentDepth--
					sc.Forward()
					if s.st.commentDepth == 0 {
						sc.ForwardSetState(StyleDefault)
					}
				} else if sc.MatchPair('#', '=') {
					s.inc(&s.st.commentDepth)
					sc.Forward()
				}
			} else if sc.AtLineEnd || sc.Ch == '\r' || sc.Ch == '\n' {
				sc.SetState(StyleDefault)
				s.st.transpose = false
			}
		}

		// A run closed by ForwardSetState past a line end leaves the walk
		// on the first character of the next line.
		if sc.AtLineStart && sc.CurrentLine-1 > s.savedLine {
			s.save(sc.CurrentLine - 1)
		}

		if sc.State == StyleDefault {
			l.startToken(s)
		}

		if sc.AtLineEnd {
			s.save(sc.CurrentLine)
		}
	}
	sc.Complete()
}

func (l *Lexer) classifyIdentifier(s *scanner) {
	sc := s.sc
	word := sc.GetCurrent()
	if s.st.indexing > 0 && (word == "begin" || word == "end") {
		// Inside [] begin and end are indices, not block keywords.
		sc.ChangeState(StyleNumber)
		s.st.transpose = false
	} else {
		for i, style := range wordStyles {
			if l.WordList(i).InList(word) {
				sc.ChangeState(style)
				// Builtin function names double as variables, so a
				// transpose may follow them.
				if style != StyleKeyword4 {
					s.st.transpose = false
				}
				break
			}
		}
	}
	sc.SetState(StyleDefault)
}

func (l *Lexer) startToken(s *scanner) {
	sc := s.sc
	st := &s.st
	switch {
	case sc.Ch == '#':
		sc.SetState(StyleComment)
		if sc.ChNext == '=' {
			s.inc(&st.commentDepth)
			sc.Forward()
		}

	case sc.Ch == '!':
		sc.SetState(StyleOperator)
		st.transpose = false

	case sc.Ch == '\'':
		if st.transpose {
			sc.SetState(StyleOperator)
		} else {
			sc.SetState(StyleChar)
		}

	case sc.Ch == '"':
		st.tripleDoc = sc.ChNext == '"' && sc.GetRelativeCharacter(2) == '"'
		if st.tripleDoc {
			sc.SetState(StyleDocString)
			sc.ForwardN(2)
		} else {
			sc.SetState(StyleString)
		}

	case sc.Ch == '`':
		st.tripleBacktick = sc.ChNext == '`' && sc.GetRelativeCharacter(2) == '`'
		sc.SetState(StyleCommand)
		if st.tripleBacktick {
			sc.ForwardN(2)
		}

	case charset.IsADigit(sc.Ch) || (sc.Ch == '.' && charset.IsADigit(sc.ChNext)):
		s.initNumber()

	case isIdentifierStart(sc.Ch):
		sc.SetState(StyleIdentifier)
		st.transpose = true

	case sc.Ch == '@':
		sc.SetState(StyleMacro)
		st.transpose = false

	// The operator cases are order dependent.
	case (sc.Ch == ':' || sc.Ch == '<' || sc.Ch == '>') && sc.ChNext == ':':
		sc.SetState(StyleTypeOperator)
		sc.Forward()
		if l.opts.highlightTypeAnnotation && isIdentifierStart(sc.ChNext) {
			sc.ForwardSetState(StyleTypeAnnot)
		}

	case sc.Ch == ':':
		if isIdentifierStart(sc.ChNext) && !isIdentifierChar(sc.ChPrev) &&
			sc.ChPrev != ')' && sc.ChPrev != ']' {
			sc.SetState(StyleSymbol)
		} else {
			sc.SetState(StyleOperator)
		}

	case isParen(sc.Ch):
		switch sc.Ch {
		case '[':
			s.inc(&st.brackets)
			s.inc(&st.indexing)
		case ']':
			if st.indexing > 0 {
				dec(&st.brackets)
				st.indexing--
			}
		case '(':
			s.inc(&st.brackets)
		case ')':
			dec(&st.brackets)
		}
		st.transpose = sc.Ch == ')' || sc.Ch == ']' || sc.Ch == '}'
		sc.SetState(StyleBracket)

	case isOperatorStart(sc.Ch):
		st.transpose = false
		sc.SetState(StyleOperator)

	default:
		st.transpose = false
	}
}

func resumeOperator(sc *lexer.StyleContext) {
	switch {
	case sc.ChNext == ':' && (sc.Ch == ':' || sc.Ch == '<' ||
		(sc.Ch == '>' && sc.ChPrev != '-' && sc.ChPrev != '=')):
		// :a=>:b
		sc.Forward()
		sc.ForwardSetState(StyleDefault)
	case sc.Ch == ':', sc.Ch == '\'':
		// The default state decides whether : opens a symbol.
		sc.SetState(StyleDefault)
	case (sc.Ch == '.' && sc.ChPrev != '.') || isIdentifierStart(sc.Ch) ||
		(!(sc.ChPrev == '.' && isOperatorStart(sc.Ch)) && !isOperatorChar(sc.Ch)):
		sc.SetState(StyleDefault)
	}
}

func (s *scanner) initNumber() {
	sc := s.sc
	s.base = 10
	s.withDot = false
	sc.SetState(StyleNumber)
	switch {
	case sc.Ch == '0' && sc.ChNext == 'x':
		sc.Forward()
		s.base = 16
		if sc.ChNext == '.' {
			sc.Forward()
			s.withDot = true
		}
	case sc.Ch == '0' && sc.ChNext == 'o':
		sc.Forward()
		s.base = 8
	case sc.Ch == '0' && sc.ChNext == 'b':
		sc.Forward()
		s.base = 2
	case sc.Ch == '.':
		s.withDot = true
	}
}

// scanDigits advances over the digits following the current character.
func (s *scanner) scanDigits(base int, allowSep bool) {
	for charset.IsADigitBase(s.sc.ChNext, base) || (allowSep && s.sc.ChNext == '_') {
		s.sc.Forward()
	}
}

func isExponent(ch rune, base int) bool {
	return (base == 10 && (ch == 'e' || ch == 'E' || ch == 'f')) ||
		(base == 16 && (ch == 'p' || ch == 'P'))
}

func (s *scanner) resumeNumber(lexError bool) {
	sc := s.sc
	switch {
	case isExponent(sc.Ch, s.base):
		if charset.IsADigit(sc.ChNext) || sc.ChNext == '+' || sc.ChNext == '-' {
			sc.Forward()
			s.scanDigits(10, false)
			sc.Forward()
		}
		sc.SetState(StyleDefault)
	case sc.MatchPair('.', '.'):
		// Interval operator.
		sc.SetState(StyleOperator)
		sc.Forward()
		sc.ForwardSetState(StyleDefault)
	case sc.Ch == '.' && !s.withDot:
		s.withDot = true
		s.scanDigits(s.base, true)
	case charset.IsADigitBase(sc.Ch, s.base) || sc.Ch == '_':
		s.scanDigits(s.base, true)
	case charset.IsADigit(sc.Ch):
		if lexError {
			sc.ChangeState(StyleLexError)
		}
		s.scanDigits(10, false)
		sc.ForwardSetState(StyleDefault)
	default:
		sc.SetState(StyleDefault)
	}
}

// scanHex consumes up to max hex digits after the current character and
// reports whether none were found.
func (s *scanner) scanHex(max int) bool {
	sc := s.sc
	sc.Forward()
	if !charset.IsADigitBase(sc.Ch, 16) {
		return true
	}
	for n := 0; charset.IsADigitBase(sc.Ch, 16) && n < max; n++ {
		sc.Forward()
	}
	return false
}

// skipToQuote marks a malformed character literal up to its closing quote
// or the line end.
func (s *scanner) skipToQuote() {
	sc := s.sc
	for sc.Ch != '\'' && sc.Ch != '\r' && sc.Ch != '\n' && sc.More() {
		sc.Forward()
	}
	sc.ChangeState(StyleLexError)
	sc.ForwardSetState(StyleDefault)
}

func (s *scanner) resumeCharacter(lexError bool) {
	sc := s.sc
	switch {
	case sc.ChPrev == '\'' && sc.Ch == '\'' && sc.ChNext == '\'':
		sc.Forward()
		sc.ForwardSetState(StyleDefault)
		return

	case lexError && sc.ChPrev == '\'' && sc.Ch == '\'':
		sc.ChangeState(StyleLexError)
		sc.ForwardSetState(StyleDefault)
		return

	case sc.Ch == '\\':
		sc.Forward()
		invalid := false
		switch {
		case charset.AnyOf(sc.Ch, '\'', '\\', 'n', 't', 'a', 'b', 'e', 'f', 'r', 'v'):
			sc.Forward()
		case sc.Ch == 'x':
			invalid = s.scanHex(2)
		case sc.Ch == 'u':
			invalid = s.scanHex(4)
		case sc.Ch == 'U':
			invalid = s.scanHex(8)
		case charset.IsADigitBase(sc.Ch, 8):
			sc.Forward()
			for n := 1; charset.IsADigitBase(sc.Ch, 8) && n < 3; n++ {
				sc.Forward()
			}
		}
		if lexError && (invalid || sc.Ch != '\'') {
			s.skipToQuote()
			return
		}

	case lexError:
		if sc.Ch < 0x20 {
			sc.ChangeState(StyleLexError)
			sc.ForwardSetState(StyleDefault)
			return
		}
		sc.Forward()
		if sc.Ch != '\'' {
			s.skipToQuote()
			return
		}
	}

	if sc.Ch == '\'' {
		if sc.ChNext == '\'' {
			sc.Forward()
		} else {
			sc.ForwardSetState(StyleDefault)
		}
	}
}

// scanParenInterpolation walks a $( ) interpolation to its closing
// parenthesis, ignoring parentheses inside nested strings. It stops at the
// line end and reports whether the interpolation closed.
func (s *scanner) scanParenInterpolation() bool {
	sc := s.sc
	level := 0
	inString := false
	for ; sc.More() && !sc.AtLineEnd; sc.Forward() {
		isChar := sc.ChPrev == '\'' && sc.ChNext == '\''
		switch {
		case sc.Ch == '"' && sc.ChPrev != '\\':
			inString = !inString
		case inString:
		case sc.Ch == '(' && !isChar:
			level++
		case sc.Ch == ')' && !isChar && level > 0:
			level--
			if level == 0 {
				return true
			}
		}
	}
	return false
}

// resumeStringLike continues a string or command closed by quote.
// Interpolation with $ is highlighted when interp is set.
func (s *scanner) resumeStringLike(quote rune, triple, interp bool) {
	sc := s.sc
	stylePrev := sc.State
	switch {
	case sc.Ch == '\\':
		if sc.ChNext == quote || sc.ChNext == '\\' || sc.ChNext == '$' {
			sc.Forward()
		}

	case interp && sc.Ch == '$':
		if sc.ChNext == '(' {
			sc.SetState(StyleStringInterp)
			if !s.scanParenInterpolation() {
				sc.SetState(stylePrev)
				return
			}
			sc.ForwardSetState(stylePrev)
		} else if isIdentifierStart(sc.ChNext) {
			sc.SetState(StyleStringInterp)
			sc.ForwardN(2)
			for sc.More() && isIdentifierChar(sc.Ch) {
				sc.Forward()
			}
			sc.SetState(stylePrev)
		} else {
			return
		}
		// The character after the interpolation may close the string.
		s.resumeStringLike(quote, triple, interp)

	case sc.Ch == quote:
		if !triple {
			sc.ForwardSetState(StyleDefault)
		} else if sc.ChNext == quote && sc.GetRelativeCharacter(2) == quote {
			sc.ForwardN(2)
			sc.ForwardSetState(StyleDefault)
		}
	}
}

func (l *Lexer) Fold(startPos, length int, initStyle lexer.Style, doc lexer.Document) {
	if !l.opts.fold {
		return
	}
	styler := lexer.NewAccessor(doc)
	endPos := startPos + length
	lineCurrent := styler.GetLine(startPos)
	levelCurrent := int(lexer.LevelBase)
	var st lineState
	if lineCurrent > 0 {
		levelCurrent = styler.LevelAt(lineCurrent - 1).Next()
		st = decodeLineState(styler.GetLineState(lineCurrent - 1))
	}
	indexing, brackets := st.indexing, st.brackets

	lineStartNext := styler.LineStart(lineCurrent + 1)
	levelNext := levelCurrent
	visibleChars := 0
	chNext := styler.SafeGetCharAt(startPos, ' ')
	stylePrev := styler.StyleAt(startPos - 1)
	styleNext := styler.StyleAt(startPos)
	var word []byte

	for i := startPos; i < endPos; i++ {
		ch := chNext
		chNext = styler.SafeGetCharAt(i+1, 0)
		style := styleNext
		styleNext = styler.StyleAt(i + 1)
		atEOL := i == lineStartNext-1

		if l.opts.foldComment && style == StyleComment {
			if ch == '#' && chNext == '=' {
				levelNext++
			}
			if ch == '=' && chNext == '#' {
				levelNext--
			}
		}

		if l.opts.foldSyntaxBased {
			// Comprehensions allow for, if and begin without end.
			if style == StyleBracket {
				switch ch {
				case '[':
					brackets++
					indexing++
					levelNext++
				case ']':
					brackets = max(brackets-1, 0)
					indexing = max(indexing-1, 0)
					levelNext--
				case '(':
					brackets++
					levelNext++
				case ')':
					brackets = max(brackets-1, 0)
					levelNext--
				}
			}
			if style == StyleKeyword1 {
				word = append(word, ch)
				if styleNext != StyleKeyword1 {
					if brackets == 0 && indexing == 0 {
						levelNext += keywordFoldPoint(string(word))
					}
					word = word[:0]
				}
			}
		}

		if l.opts.foldDocstring {
			if stylePrev != StyleDocString && style == StyleDocString {
				levelNext++
			} else if style == StyleDocString && styleNext != StyleDocString {
				levelNext--
			}
		}

		levelNext = max(levelNext, int(lexer.LevelBase))
		if !charset.IsSpaceChar(ch) {
			visibleChars++
		}
		stylePrev = style

		if atEOL || i == endPos-1 {
			blank := visibleChars == 0 && l.opts.foldCompact
			styler.SetLevelIfChanged(lineCurrent, lexer.PackLevel(levelCurrent, levelNext, blank))
			lineCurrent++
			lineStartNext = styler.LineStart(lineCurrent + 1)
			levelCurrent = levelNext
			if ch == '\n' && i == styler.Length()-1 {
				// The empty last line.
				styler.SetLevel(lineCurrent, lexer.PackLevel(levelCurrent, levelCurrent, true))
			}
			visibleChars = 0
		}
	}
}

func keywordFoldPoint(word string) int {
	switch word {
	case "if", "for", "while", "try", "do", "begin", "let", "baremodule", "quote",
		"module", "struct", "type", "macro", "function":
		return 1
	case "end":
		return -1
	}
	return 0
}
