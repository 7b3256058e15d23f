// Package gdscript lexes Godot's GDScript and folds it by indentation.
package gdscript

import (
	"github.com/zjrosen/stylex/internal/charset"
	"github.com/zjrosen/stylex/internal/lexer"
	"github.com/zjrosen/stylex/internal/wordlist"
)

// ID is the numeric lexer identifier.
const ID = 135

const (
	StyleDefault      lexer.Style = 0
	StyleCommentLine  lexer.Style = 1
	StyleNumber       lexer.Style = 2
	StyleString       lexer.Style = 3
	StyleCharacter    lexer.Style = 4
	StyleWord         lexer.Style = 5
	StyleTriple       lexer.Style = 6
	StyleTripleDouble lexer.Style = 7
	StyleClassName    lexer.Style = 8
	StyleFuncName     lexer.Style = 9
	StyleOperator     lexer.Style = 10
	StyleIdentifier   lexer.Style = 11
	StyleCommentBlock lexer.Style = 12
	StyleStringEOL    lexer.Style = 13
	StyleWord2        lexer.Style = 14
	StyleAnnotation   lexer.Style = 15
	StyleNodePath     lexer.Style = 16
)

var lexicalClasses = []lexer.LexicalClass{
	{Value: StyleDefault, Name: "SCE_GD_DEFAULT", Tags: "default", Description: "White space"},
	{Value: StyleCommentLine, Name: "SCE_GD_COMMENTLINE", Tags: "comment line", Description: "Comment"},
	{Value: StyleNumber, Name: "SCE_GD_NUMBER", Tags: "literal numeric", Description: "Number"},
	{Value: StyleString, Name: "SCE_GD_STRING", Tags: "literal string", Description: "String"},
	{Value: StyleCharacter, Name: "SCE_GD_CHARACTER", Tags: "literal string", Description: "Single quoted string"},
	{Value: StyleWord, Name: "SCE_GD_WORD", Tags: "keyword", Description: "Keyword"},
	{Value: StyleTriple, Name: "SCE_GD_TRIPLE", Tags: "literal string", Description: "Triple quotes"},
	{Value: StyleTripleDouble, Name: "SCE_GD_TRIPLEDOUBLE", Tags: "literal string", Description: "Triple double quotes"},
	{Value: StyleClassName, Name: "SCE_GD_CLASSNAME", Tags: "identifier", Description: "Class name definition"},
	{Value: StyleFuncName, Name: "SCE_GD_FUNCNAME", Tags: "identifier", Description: "Function or method name definition"},
	{Value: StyleOperator, Name: "SCE_GD_OPERATOR", Tags: "operator", Description: "Operators"},
	{Value: StyleIdentifier, Name: "SCE_GD_IDENTIFIER", Tags: "identifier", Description: "Identifiers"},
	{Value: StyleCommentBlock, Name: "SCE_GD_COMMENTBLOCK", Tags: "comment", Description: "Comment-blocks"},
	{Value: StyleStringEOL, Name: "SCE_GD_STRINGEOL", Tags: "error literal string", Description: "End of line where string is not closed"},
	{Value: StyleWord2, Name: "SCE_GD_WORD2", Tags: "identifier", Description: "Highlighted identifiers"},
	{Value: StyleAnnotation, Name: "SCE_GD_ANNOTATION", Tags: "annotation", Description: "Annotations"},
	{Value: StyleNodePath, Name: "SCE_GD_NODEPATH", Tags: "path", Description: "Node path"},
}

// WordListDescriptions names the keyword slots.
var WordListDescriptions = []string{
	"Keywords",
	"Highlighted identifiers",
}

// IndicatorWhitespace marks indentation that fails the whinge check.
const IndicatorWhitespace = 1

// whinge selects which indentation is reported as inconsistent.
type whinge int

const (
	whingeOff whinge = iota
	whingeInconsistent
	whingeSpaceTab
	whingeSpace
	whingeTab
)

func (w whinge) String() string {
	switch w {
	case whingeOff:
		return "off"
	case whingeInconsistent:
		return "inconsistent"
	case whingeSpaceTab:
		return "space-before-tab"
	case whingeSpace:
		return "spaces"
	case whingeTab:
		return "tabs"
	}
	return "unknown"
}

// good reports whether indentation with the lexer.Indent* flags passes.
func (w whinge) good(flags int) bool {
	switch w {
	case whingeInconsistent:
		return flags&lexer.IndentInconsistent == 0
	case whingeSpaceTab:
		return flags&lexer.IndentSpaceTab == 0
	case whingeSpace:
		return flags&lexer.IndentSpace == 0
	case whingeTab:
		return flags&lexer.IndentTab == 0
	}
	return true
}

type options struct {
	whingeLevel               int
	base2or8Literals          bool
	stringsOverNewline        bool
	keywords2NoSubIdentifiers bool
	fold                      bool
	foldQuotes                bool
	foldCompact               bool
	unicodeIdentifiers        bool
}

// Lexer is the GDScript lexer.
type Lexer struct {
	lexer.Base
	opts options
}

// New returns a GDScript lexer with default options.
func New() lexer.Lexer {
	l := &Lexer{opts: options{
		base2or8Literals:   true,
		unicodeIdentifiers: true,
	}}
	o := lexer.NewOptionSet()
	o.DefineInt("lexer.gdscript.whinge.level", &l.opts.whingeLevel,
		"For GDScript code, checks whether indenting is consistent. "+
			"The default, 0 turns off indentation checking, "+
			"1 checks whether each line is potentially inconsistent with the previous line, "+
			"2 checks whether any space characters occur before a tab character in the indentation, "+
			"3 checks whether any spaces are in the indentation, and "+
			"4 checks for any tab characters in the indentation. "+
			"1 is a good level to use.")
	o.DefineBool("lexer.gdscript.literals.binary", &l.opts.base2or8Literals,
		"Set to 0 to not recognise binary and octal literals: 0b1011 0o712.")
	o.DefineBool("lexer.gdscript.strings.over.newline", &l.opts.stringsOverNewline,
		"Set to 1 to allow strings to span newline characters.")
	o.DefineBool("lexer.gdscript.keywords2.no.sub.identifiers", &l.opts.keywords2NoSubIdentifiers,
		"When enabled, it will not style keywords2 items that are used as a sub-identifier. "+
			"Example: when set, will not highlight \"foo.open\" when \"open\" is a keywords2 item.")
	o.DefineBool("fold", &l.opts.fold, "")
	o.DefineBool("fold.gdscript.quotes", &l.opts.foldQuotes,
		"This option enables folding multi-line quoted strings when using the GDScript lexer.")
	o.DefineBool("fold.compact", &l.opts.foldCompact, "")
	o.DefineBool("lexer.gdscript.unicode.identifiers", &l.opts.unicodeIdentifiers,
		"Set to 0 to not recognise Unicode identifiers.")
	o.DefineWordListSets(WordListDescriptions)
	l.Base = lexer.NewBase("gdscript", ID, lexicalClasses, o)
	l.SubStyles = wordlist.NewSubStyles([]int{int(StyleIdentifier)}, 0x80, 0x40, 0)
	return l
}

// kwType is the kind of the last keyword, which decides how the following
// identifier is styled.
type kwType int

const (
	kwOther kwType = iota
	kwClass
	kwDef
	kwExtends
)

func isSingleQuoteString(st lexer.Style) bool {
	return st == StyleCharacter || st == StyleString
}

func isTripleQuoteString(st lexer.Style) bool {
	return st == StyleTriple || st == StyleTripleDouble
}

func quoteChar(st lexer.Style) rune {
	switch st {
	case StyleCharacter, StyleTriple:
		return '\''
	case StyleString, StyleTripleDouble:
		return '"'
	}
	return 0
}

// stringState returns the style of the string starting at pos and the
// number of quote characters that open it.
func stringState(styler *lexer.Accessor, pos int) (lexer.Style, int) {
	ch := styler.SafeGetCharAt(pos, 0)
	if ch != '"' && ch != '\'' {
		return StyleDefault, 1
	}
	if ch == styler.SafeGetCharAt(pos+1, 0) && ch == styler.SafeGetCharAt(pos+2, 0) {
		if ch == '"' {
			return StyleTripleDouble, 3
		}
		return StyleTriple, 3
	}
	if ch == '"' {
		return StyleString, 1
	}
	return StyleCharacter, 1
}

func isWordChar(ch rune, unicode bool) bool {
	if charset.IsASCII(ch) {
		return charset.IsAlphaNumeric(ch) || ch == '.' || ch == '_'
	}
	return unicode && charset.IsXIDContinue(ch)
}

func isNodePathChar(ch rune, unicode bool) bool {
	if charset.IsASCII(ch) {
		return charset.IsAlphaNumeric(ch) || ch == '_' || ch == '/' || ch == '%'
	}
	return unicode && charset.IsXIDContinue(ch)
}

func isWordStart(ch rune, unicode bool) bool {
	if charset.IsASCII(ch) {
		return charset.IsUpperOrLowerCase(ch) || ch == '_'
	}
	return unicode && charset.IsXIDStart(ch)
}

func isFirstNonWhitespace(styler *lexer.Accessor, pos int) bool {
	for i := styler.LineStart(styler.GetLine(pos)); i < pos; i++ {
		if ch := styler.CharAt(i); ch != ' ' && ch != '\t' {
			return false
		}
	}
	return true
}

func isCommentLeader(a *lexer.Accessor, pos, length int) bool {
	return length > 0 && a.CharAt(pos) == '#'
}

// scanner holds the auxiliary state of one Lex call.
type scanner struct {
	l      *Lexer
	sc     *lexer.StyleContext
	styler *lexer.Accessor

	kwLast            kwType
	baseN             bool
	inContinuedString bool
	percentIsNodePath bool
	nodePathQuote     rune

	indentGood     bool
	startIndicator int
}

// lineEnd commits whitespace and triple quoted runs at each line end and
// ends single quoted strings that do not continue.
func (s *scanner) lineEnd() {
	sc := s.sc
	s.kwLast = kwOther
	s.percentIsNodePath = false
	if sc.State == StyleDefault || isTripleQuoteString(sc.State) {
		sc.SetState(sc.State)
	}
	if isSingleQuoteString(sc.State) {
		if s.inContinuedString || s.l.opts.stringsOverNewline {
			s.inContinuedString = false
		} else {
			sc.ChangeState(StyleStringEOL)
			sc.ForwardSetState(StyleDefault)
		}
	}
}

// checkIndent runs at each line start and opens a whitespace indicator run
// when the line's indentation fails the whinge level.
func (s *scanner) checkIndent() {
	var flags int
	s.styler.IndentAmount(s.sc.CurrentLine, &flags, isCommentLeader)
	s.indentGood = whinge(s.l.opts.whingeLevel).good(flags)
	if !s.indentGood {
		s.styler.IndicatorFill(s.startIndicator, s.sc.CurrentPos, IndicatorWhitespace, 0)
		s.startIndicator = s.sc.CurrentPos
	}
}

func (l *Lexer) Lex(startPos, length int, initStyle lexer.Style, doc lexer.Document) {
	styler := lexer.NewAccessor(doc)
	endPos := startPos + length

	// Restart one line earlier, and before any string continued onto it,
	// so the previous line's indentation indicator is refreshed.
	if startPos > 0 {
		line := styler.GetLine(startPos)
		if line > 0 {
			line--
			for line > 0 {
				eolStyle := styler.StyleAt(styler.LineStart(line) - 1)
				if eolStyle != StyleString && eolStyle != StyleCharacter && eolStyle != StyleStringEOL {
					break
				}
				line--
			}
			startPos = styler.LineStart(line)
		}
		initStyle = StyleDefault
		if startPos > 0 {
			initStyle = styler.StyleAt(startPos - 1)
		}
	}
	initStyle = l.StyleFromSubStyle(initStyle)
	if initStyle == StyleStringEOL || int(initStyle) >= len(lexicalClasses) {
		initStyle = StyleDefault
	}

	classifier := l.SubStyles.Classifier(int(StyleIdentifier))
	sc := lexer.NewStyleContext(startPos, endPos-startPos, initStyle, styler)
	s := &scanner{
		l:              l,
		sc:             sc,
		styler:         styler,
		indentGood:     true,
		startIndicator: sc.CurrentPos,
	}

	for ; sc.More(); sc.Forward() {
		if sc.AtLineStart {
			s.kwLast = kwOther
			s.percentIsNodePath = false
			s.checkIndent()
		}

		if sc.AtLineEnd {
			s.lineEnd()
			if !sc.More() {
				break
			}
		}

		needEOLCheck := false

		switch {
		case sc.State == StyleOperator:
			s.kwLast = kwOther
			sc.SetState(StyleDefault)

		case sc.State == StyleNumber:
			exponentSign := !s.baseN && (sc.Ch == '+' || sc.Ch == '-') && (sc.ChPrev == 'e' || sc.ChPrev == 'E')
			if !isWordChar(sc.Ch, false) && !exponentSign {
				sc.SetState(StyleDefault)
			}

		case sc.State == StyleIdentifier:
			if sc.Ch == '.' || !isWordChar(sc.Ch, l.opts.unicodeIdentifiers) {
				l.classifyIdentifier(s, classifier)
			}

		case sc.State == StyleCommentLine || sc.State == StyleCommentBlock:
			if sc.Ch == '\r' || sc.Ch == '\n' {
				sc.SetState(StyleDefault)
			}

		case sc.State == StyleAnnotation:
			if !isWordStart(sc.Ch, l.opts.unicodeIdentifiers) {
				sc.SetState(StyleDefault)
			}

		case sc.State == StyleNodePath:
			switch {
			case sc.AtLineEnd:
				s.nodePathQuote = 0
				sc.SetState(StyleDefault)
			case s.nodePathQuote != 0:
				if sc.Ch == s.nodePathQuote {
					s.nodePathQuote = 0
				}
			case sc.Ch == '"' || sc.Ch == '\'':
				s.nodePathQuote = sc.Ch
			case !isNodePathChar(sc.Ch, l.opts.unicodeIdentifiers):
				sc.SetState(StyleDefault)
			}

		case isSingleQuoteString(sc.State):
			if sc.Ch == '\\' {
				if sc.ChNext == '\r' && sc.GetRelative(2) == '\n' {
					sc.Forward()
				}
				if sc.ChNext == '\n' || sc.ChNext == '\r' {
					s.inContinuedString = true
				} else {
					// Stay before the line end so it is seen.
					sc.Forward()
				}
			} else if sc.Ch == quoteChar(sc.State) {
				sc.ForwardSetState(StyleDefault)
				needEOLCheck = true
			}

		case isTripleQuoteString(sc.State):
			if sc.Ch == '\\' {
				sc.Forward()
			} else if (sc.State == StyleTriple && sc.Match("'''")) ||
				(sc.State == StyleTripleDouble && sc.Match(`"""`)) {
				sc.ForwardN(2)
				sc.ForwardSetState(StyleDefault)
				needEOLCheck = true
			}
		}

		if !s.indentGood && !charset.IsASpaceOrTab(sc.Ch) {
			styler.IndicatorFill(s.startIndicator, sc.CurrentPos, IndicatorWhitespace, 1)
			s.startIndicator = sc.CurrentPos
			s.indentGood = true
		}

		// Closing a literal may have moved onto the line end.
		if needEOLCheck && sc.AtLineEnd {
			s.lineEnd()
			if !sc.More() {
				break
			}
		}

		if sc.State == StyleDefault {
			l.startToken(s)
		}
	}
	styler.IndicatorFill(s.startIndicator, sc.CurrentPos, IndicatorWhitespace, 0)
	sc.Complete()
}

func (l *Lexer) classifyIdentifier(s *scanner, classifier *wordlist.Classifier) {
	sc := s.sc
	word := sc.GetCurrent()
	style := StyleIdentifier
	switch {
	case l.WordList(0).InList(word):
		style = StyleWord
	case s.kwLast == kwClass:
		style = StyleClassName
	case s.kwLast == kwDef:
		style = StyleFuncName
	case l.WordList(1).InList(word):
		style = StyleWord2
		if l.opts.keywords2NoSubIdentifiers {
			// Not "open" in "foo.open".
			pos := s.styler.GetStartSegment() - 1
			if pos >= 0 && s.styler.SafeGetCharAt(pos, 0) == '.' {
				style = StyleIdentifier
			}
		}
	default:
		if sub := classifier.ValueFor(word); sub >= 0 {
			style = lexer.Style(sub)
		}
	}
	sc.ChangeState(style)
	sc.SetState(StyleDefault)

	s.kwLast = kwOther
	if style == StyleWord {
		switch word {
		case "class":
			s.kwLast = kwClass
		case "func":
			s.kwLast = kwDef
		case "extends":
			s.kwLast = kwExtends
		}
	}
}

func (l *Lexer) startToken(s *scanner) {
	sc := s.sc
	switch {
	case charset.IsADigit(sc.Ch) || (sc.Ch == '.' && charset.IsADigit(sc.ChNext)):
		s.baseN = false
		switch {
		case sc.Ch == '0' && (sc.ChNext == 'x' || sc.ChNext == 'X'):
			s.baseN = true
			sc.SetState(StyleNumber)
		case sc.Ch == '0' && charset.AnyOf(sc.ChNext, 'o', 'O', 'b', 'B'):
			if l.opts.base2or8Literals {
				s.baseN = true
				sc.SetState(StyleNumber)
			} else {
				sc.SetState(StyleNumber)
				sc.ForwardSetState(StyleIdentifier)
			}
		default:
			sc.SetState(StyleNumber)
		}

	case sc.Ch == '$' || (sc.Ch == '%' && (s.percentIsNodePath || isFirstNonWhitespace(s.styler, sc.CurrentPos))):
		s.percentIsNodePath = false
		s.nodePathQuote = 0
		sc.SetState(StyleNodePath)

	case charset.IsOperator(sc.Ch) || sc.Ch == '`':
		s.percentIsNodePath = !charset.AnyOf(sc.Ch, ')', ']', '}')
		sc.SetState(StyleOperator)

	case sc.Ch == '#':
		if sc.ChNext == '#' {
			sc.SetState(StyleCommentBlock)
		} else {
			sc.SetState(StyleCommentLine)
		}

	case sc.Ch == '@':
		if isFirstNonWhitespace(s.styler, sc.CurrentPos) {
			sc.SetState(StyleAnnotation)
		} else {
			sc.SetState(StyleOperator)
		}

	case sc.Ch == '"' || sc.Ch == '\'':
		state, quotes := stringState(s.styler, sc.CurrentPos)
		sc.SetState(state)
		for range quotes - 1 {
			if !sc.More() {
				break
			}
			sc.Forward()
		}

	case isWordStart(sc.Ch, l.opts.unicodeIdentifiers):
		sc.SetState(StyleIdentifier)
	}
}

func isCommentLine(styler *lexer.Accessor, line int) bool {
	eol := styler.LineStart(line+1) - 1
	for i := styler.LineStart(line); i < eol; i++ {
		switch styler.CharAt(i) {
		case '#':
			return true
		case ' ', '\t':
		default:
			return false
		}
	}
	return false
}

func isQuoteLine(styler *lexer.Accessor, line int) bool {
	return isTripleQuoteString(styler.StyleAt(styler.LineStart(line)))
}

// Fold derives levels from indentation. Blank and comment lines fold into
// the code around them, and with fold.gdscript.quotes a triple quoted
// string spanning lines folds under the line that opens it.
func (l *Lexer) Fold(startPos, length int, _ lexer.Style, doc lexer.Document) {
	if !l.opts.fold {
		return
	}
	styler := lexer.NewAccessor(doc)
	maxPos := startPos + length
	lastPos := maxPos - 1
	if maxPos == styler.Length() {
		lastPos = maxPos
	}
	maxLines := styler.GetLine(lastPos)
	docLines := styler.GetLine(styler.Length())
	indentOf := func(line int) lexer.FoldLevel {
		return styler.IndentAmount(line, nil, nil)
	}

	// Back up to a code line so blank lines and strings before the range
	// get their levels fixed too.
	lineCurrent := styler.GetLine(startPos)
	indentCurrent := indentOf(lineCurrent)
	for lineCurrent > 0 {
		lineCurrent--
		indentCurrent = indentOf(lineCurrent)
		if !indentCurrent.IsWhite() && !isCommentLine(styler, lineCurrent) && !isQuoteLine(styler, lineCurrent) {
			break
		}
	}
	indentCurrentLevel := indentCurrent.Number()

	prevState := StyleDefault
	if lineCurrent >= 1 {
		prevState = styler.StyleAt(styler.LineStart(lineCurrent) - 1)
	}
	prevQuote := l.opts.foldQuotes && isTripleQuoteString(prevState)

	firstLine := lineCurrent
	var levels []lexer.FoldLevel
	set := func(line int, level lexer.FoldLevel) {
		for len(levels) <= line-firstLine {
			levels = append(levels, 0)
		}
		levels[line-firstLine] = level
	}

	// A string hanging over the end of the range is folded to its end.
	for lineCurrent <= docLines && (lineCurrent <= maxLines || prevQuote) {
		lev := indentCurrent
		lineNext := lineCurrent + 1
		indentNext := indentCurrent
		quote := false
		if lineNext <= docLines {
			indentNext = indentOf(lineNext)
			lookAt := styler.LineStart(lineNext)
			if lookAt == styler.Length() {
				lookAt = styler.Length() - 1
			}
			quote = l.opts.foldQuotes && isTripleQuoteString(styler.StyleAt(lookAt))
		}
		if !quote || !prevQuote {
			indentCurrentLevel = indentCurrent.Number()
		}
		if quote {
			indentNext = lexer.FoldLevel(indentCurrentLevel)
		}
		if indentNext.IsWhite() {
			indentNext = lexer.LevelWhiteFlag | lexer.FoldLevel(indentCurrentLevel)
		}
		if prevQuote {
			lev++
		}

		// Comments fold into the surrounding code. When comments end the
		// document the shallowest of them sets the level after.
		minCommentLevel := indentCurrentLevel
		for !quote && lineNext < docLines && (indentNext.IsWhite() || isCommentLine(styler, lineNext)) {
			if isCommentLine(styler, lineNext) && indentNext.Number() < minCommentLevel {
				minCommentLevel = indentNext.Number()
			}
			lineNext++
			indentNext = indentOf(lineNext)
		}

		levelAfterComments := minCommentLevel
		if lineNext < docLines {
			levelAfterComments = indentNext.Number()
		}
		levelBeforeComments := max(indentCurrentLevel, levelAfterComments)

		// Skipped lines take the level after them until one is indented
		// deeper, then the level before.
		skipLevel := levelAfterComments
		for skipLine := lineNext - 1; skipLine > lineCurrent; skipLine-- {
			skipIndent := indentOf(skipLine)
			if l.opts.foldCompact {
				if skipIndent.Number() > levelAfterComments {
					skipLevel = levelBeforeComments
				}
				set(skipLine, lexer.FoldLevel(skipLevel)|skipIndent&lexer.LevelWhiteFlag)
			} else {
				if skipIndent.Number() > levelAfterComments && !skipIndent.IsWhite() && !isCommentLine(styler, skipLine) {
					skipLevel = levelBeforeComments
				}
				set(skipLine, lexer.FoldLevel(skipLevel))
			}
		}

		prevQuote = quote
		if !l.opts.foldCompact {
			lev &^= lexer.LevelWhiteFlag
		}
		set(lineCurrent, lev)
		indentCurrent = indentNext
		lineCurrent = lineNext
	}

	styler.CommitIndentLevels(firstLine, levels)
}
