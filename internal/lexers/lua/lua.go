// Package lua lexes and folds Lua source.
package lua

import (
	"github.com/zjrosen/stylex/internal/charset"
	"github.com/zjrosen/stylex/internal/lexer"
)

// ID is the numeric lexer identifier.
const ID = 15

const (
	StyleDefault       lexer.Style = 0
	StyleComment       lexer.Style = 1
	StyleCommentLine   lexer.Style = 2
	StyleCommentDoc    lexer.Style = 3
	StyleNumber        lexer.Style = 4
	StyleWord          lexer.Style = 5
	StyleString        lexer.Style = 6
	StyleCharacter     lexer.Style = 7
	StyleLiteralString lexer.Style = 8
	StylePreprocessor  lexer.Style = 9
	StyleOperator      lexer.Style = 10
	StyleIdentifier    lexer.Style = 11
	StyleStringEOL     lexer.Style = 12
	StyleWord2         lexer.Style = 13
	StyleWord3         lexer.Style = 14
	StyleWord4         lexer.Style = 15
	StyleWord5         lexer.Style = 16
	StyleWord6         lexer.Style = 17
	StyleWord7         lexer.Style = 18
	StyleWord8         lexer.Style = 19
	StyleLabel         lexer.Style = 20
)

var lexicalClasses = []lexer.LexicalClass{
	{Value: StyleDefault, Name: "SCE_LUA_DEFAULT", Tags: "default", Description: "White space"},
	{Value: StyleComment, Name: "SCE_LUA_COMMENT", Tags: "comment", Description: "Block comment"},
	{Value: StyleCommentLine, Name: "SCE_LUA_COMMENTLINE", Tags: "comment line", Description: "Line comment"},
	{Value: StyleCommentDoc, Name: "SCE_LUA_COMMENTDOC", Tags: "comment documentation", Description: "Doc comment"},
	{Value: StyleNumber, Name: "SCE_LUA_NUMBER", Tags: "literal numeric", Description: "Number"},
	{Value: StyleWord, Name: "SCE_LUA_WORD", Tags: "keyword", Description: "Keyword"},
	{Value: StyleString, Name: "SCE_LUA_STRING", Tags: "literal string", Description: "Double quoted string"},
	{Value: StyleCharacter, Name: "SCE_LUA_CHARACTER", Tags: "literal string character", Description: "Single quoted string"},
	{Value: StyleLiteralString, Name: "SCE_LUA_LITERALSTRING", Tags: "literal string", Description: "Long bracket string"},
	{Value: StylePreprocessor, Name: "SCE_LUA_PREPROCESSOR", Tags: "preprocessor", Description: "Preprocessor line"},
	{Value: StyleOperator, Name: "SCE_LUA_OPERATOR", Tags: "operator", Description: "Operators"},
	{Value: StyleIdentifier, Name: "SCE_LUA_IDENTIFIER", Tags: "identifier", Description: "Identifier"},
	{Value: StyleStringEOL, Name: "SCE_LUA_STRINGEOL", Tags: "error literal string", Description: "End of line where string is not closed"},
	{Value: StyleWord2, Name: "SCE_LUA_WORD2", Tags: "identifier", Description: "Basic functions"},
	{Value: StyleWord3, Name: "SCE_LUA_WORD3", Tags: "identifier", Description: "String, table and math functions"},
	{Value: StyleWord4, Name: "SCE_LUA_WORD4", Tags: "identifier", Description: "Coroutines, I/O and system facilities"},
	{Value: StyleWord5, Name: "SCE_LUA_WORD5", Tags: "identifier", Description: "User keywords 1"},
	{Value: StyleWord6, Name: "SCE_LUA_WORD6", Tags: "identifier", Description: "User keywords 2"},
	{Value: StyleWord7, Name: "SCE_LUA_WORD7", Tags: "identifier", Description: "User keywords 3"},
	{Value: StyleWord8, Name: "SCE_LUA_WORD8", Tags: "identifier", Description: "User keywords 4"},
	{Value: StyleLabel, Name: "SCE_LUA_LABEL", Tags: "label", Description: "Labels"},
}

// WordListDescriptions names the keyword slots.
var WordListDescriptions = []string{
	"Keywords",
	"Basic functions",
	"String, (table) & math functions",
	"(coroutines), I/O & system facilities",
	"user1",
	"user2",
	"user3",
	"user4",
}

// wordStyles maps keyword slots to their styles, in match priority order.
var wordStyles = []lexer.Style{
	StyleWord, StyleWord2, StyleWord3, StyleWord4,
	StyleWord5, StyleWord6, StyleWord7, StyleWord8,
}

// Line state layout. A long bracket level is only stored for lines ending
// inside a long string or block comment, the \z flag only inside a quoted
// string.
var (
	stateSeparator  = lexer.BitField{Shift: 0, Width: 8}
	stateStringWs   = lexer.BitField{Shift: 8, Width: 1}
	stateDocComment = lexer.BitField{Shift: 9, Width: 1}
)

// maxSeparator bounds the number of '=' in a long bracket.
const maxSeparator = 0xFF

type options struct {
	foldCompact bool
}

// Lexer is the Lua lexer.
type Lexer struct {
	lexer.Base
	opts options
}

// New returns a Lua lexer with default options.
func New() lexer.Lexer {
	l := &Lexer{opts: options{foldCompact: true}}
	o := lexer.NewOptionSet()
	o.DefineBool("fold.compact", &l.opts.foldCompact, "")
	o.DefineWordListSets(WordListDescriptions)
	l.Base = lexer.NewBase("lua", ID, lexicalClasses, o)
	return l
}

var (
	setWordStart   = charset.NewAfter(charset.Alpha, "_", true)
	setWord        = charset.NewAfter(charset.AlphaNum, "_", true)
	setNumber      = charset.New(charset.Digits, ".-+abcdefpABCDEFP")
	setExponent    = charset.New(charset.None, "eEpP")
	setLuaOperator = charset.New(charset.None, "*/-+()={}~[];<>,.^%:#&|")
	setEscapeSkip  = charset.New(charset.None, "\"'\\")
)

// longDelimCheck measures the long bracket at the current position: 0 for a
// lone bracket, 1 for [[ or ]], 2 for [=[ and so on.
func longDelimCheck(sc *lexer.StyleContext) int {
	sep := 1
	for sc.GetRelative(sep) == '=' && sep < maxSeparator {
		sep++
	}
	if sc.GetRelative(sep) == sc.Ch {
		return sep
	}
	return 0
}

func (l *Lexer) keyword(word string) bool {
	return l.WordList(0).InList(word)
}

// scanner holds the auxiliary state of one Lex call.
type scanner struct {
	sc                 *lexer.StyleContext
	sepCount           int
	stringWs           bool
	lastLineDocComment bool
	savedLine          int
}

// saveLineState records what the next line needs to resume: the long
// bracket level inside long strings and block comments, the \z flag inside
// quoted strings and whether a doc comment run is in progress.
func (s *scanner) saveLineState() {
	state := 0
	switch s.sc.State {
	case StyleLiteralString, StyleComment:
		state = stateSeparator.Put(state, s.sepCount)
	case StyleString, StyleCharacter:
		state = stateStringWs.PutFlag(state, s.stringWs)
	}
	if charset.AnyOf(s.sc.State, StyleDefault, StyleCommentDoc) {
		state = stateDocComment.PutFlag(state, s.lastLineDocComment)
	}
	s.sc.Styler().SetLineState(s.sc.CurrentLine, state)
	s.savedLine = s.sc.CurrentLine
}

func (l *Lexer) Lex(startPos, length int, initStyle lexer.Style, doc lexer.Document) {
	styler := lexer.NewAccessor(doc)
	s := &scanner{savedLine: -1}

	currentLine := styler.GetLine(startPos)
	if currentLine > 0 && charset.AnyOf(initStyle, StyleDefault, StyleLiteralString, StyleComment,
		StyleCommentDoc, StyleString, StyleCharacter) {
		state := styler.GetLineState(currentLine - 1)
		s.sepCount = stateSeparator.Get(state)
		s.stringWs = stateStringWs.Flag(state)
		s.lastLineDocComment = stateDocComment.Flag(state)
	}

	// Results of identifier and keyword matching, as absolute end positions.
	idenEnd := 0
	idenWordEnd := -1
	idenStyle := StyleIdentifier
	foundGoto := false

	if charset.AnyOf(initStyle, StyleStringEOL, StyleCommentLine, StyleCommentDoc, StylePreprocessor) {
		initStyle = StyleDefault
	}

	sc := lexer.NewStyleContext(startPos, length, initStyle, styler)
	s.sc = sc
	if startPos == 0 && sc.MatchPair('#', '!') {
		sc.SetState(StyleCommentLine)
	}
	for ; sc.More(); sc.Forward() {
		if sc.AtLineEnd {
			s.saveLineState()
		}
		if sc.AtLineStart && (sc.State == StyleString || sc.State == StyleCharacter) {
			sc.SetState(sc.State)
		}

		// String line continuation.
		if (sc.State == StyleString || sc.State == StyleCharacter) && sc.Ch == '\\' && charset.IsNewline(sc.ChNext) {
			sc.Forward()
			if sc.MatchPair('\r', '\n') {
				sc.Forward()
			}
			s.saveLineState()
			continue
		}

		switch {
		case sc.State == StyleOperator:
			if sc.Ch == ':' && sc.ChPrev == ':' {
				sc.Forward()
				l.scanLabel(sc)
			}
			sc.SetState(StyleDefault)

		case sc.State == StyleNumber:
			// Several dots or signs are accepted; [pP] is for hex floats.
			if !setNumber.Contains(sc.Ch) {
				sc.SetState(StyleDefault)
			} else if sc.Ch == '-' || sc.Ch == '+' {
				if !setExponent.Contains(sc.ChPrev) {
					sc.SetState(StyleDefault)
				}
			}

		case sc.State == StyleIdentifier:
			// Commit the identifier and word parts scanned at its start.
			if idenWordEnd >= 0 {
				sc.ChangeState(idenStyle)
				sc.ForwardBytes(idenWordEnd - sc.CurrentPos)
				if idenEnd > sc.CurrentPos {
					sc.SetState(StyleIdentifier)
					sc.ForwardBytes(idenEnd - sc.CurrentPos)
				}
			} else {
				sc.ForwardBytes(idenEnd - sc.CurrentPos)
			}
			sc.SetState(StyleDefault)
			if foundGoto {
				for charset.IsASpaceOrTab(sc.Ch) && !sc.AtLineEnd {
					sc.Forward()
				}
				if setWordStart.Contains(sc.Ch) {
					sc.SetState(StyleLabel)
					sc.Forward()
					for setWord.Contains(sc.Ch) {
						sc.Forward()
					}
					if l.keyword(sc.GetCurrent()) {
						sc.ChangeState(StyleWord)
					}
				}
				sc.SetState(StyleDefault)
			}

		case charset.AnyOf(sc.State, StyleCommentLine, StyleCommentDoc, StylePreprocessor):
			if sc.AtLineEnd {
				sc.ForwardSetState(StyleDefault)
			}

		case sc.State == StyleString || sc.State == StyleCharacter:
			closer := rune('"')
			if sc.State == StyleCharacter {
				closer = '\''
			}
			if s.stringWs && !charset.IsASpace(sc.Ch) {
				s.stringWs = false
			}
			switch {
			case sc.Ch == '\\':
				if setEscapeSkip.Contains(sc.ChNext) {
					sc.Forward()
				} else if sc.ChNext == 'z' {
					sc.Forward()
					s.stringWs = true
				}
			case sc.Ch == closer:
				sc.ForwardSetState(StyleDefault)
			case !s.stringWs && sc.AtLineEnd:
				sc.ChangeState(StyleStringEOL)
				sc.ForwardSetState(StyleDefault)
			}

		case sc.Ch == ']' && (sc.State == StyleLiteralString || sc.State == StyleComment):
			if sep := longDelimCheck(sc); sep == s.sepCount {
				sc.ForwardN(sep)
				sc.ForwardSetState(StyleDefault)
			}
		}

		// Inner scans above may have stepped onto a line end without
		// passing the top of the loop.
		if sc.AtLineEnd && s.savedLine != sc.CurrentLine {
			s.saveLineState()
		}

		if sc.State == StyleDefault {
			switch {
			case charset.IsADigit(sc.Ch) || (sc.Ch == '.' && charset.IsADigit(sc.ChNext)):
				sc.SetState(StyleNumber)
				if sc.Ch == '0' && (sc.ChNext == 'x' || sc.ChNext == 'X') {
					sc.Forward()
				}
			case setWordStart.Contains(sc.Ch):
				idenPos, idenWordPos, style, isGoto := l.scanIdentifier(sc)
				idenEnd = sc.CurrentPos + idenPos
				idenWordEnd = -1
				if idenWordPos > 0 {
					idenWordEnd = sc.CurrentPos + idenWordPos
				}
				idenStyle, foundGoto = style, isGoto
				sc.SetState(StyleIdentifier)
			case sc.Ch == '"':
				sc.SetState(StyleString)
				s.stringWs = false
			case sc.Ch == '\'':
				sc.SetState(StyleCharacter)
				s.stringWs = false
			case sc.Ch == '[':
				s.sepCount = longDelimCheck(sc)
				if s.sepCount == 0 {
					sc.SetState(StyleOperator)
				} else {
					sc.SetState(StyleLiteralString)
					sc.ForwardN(s.sepCount)
				}
			case sc.MatchPair('-', '-'):
				if s.lastLineDocComment {
					sc.SetState(StyleCommentDoc)
				} else {
					sc.SetState(StyleCommentLine)
				}
				switch {
				case sc.Match("--["):
					sc.ForwardN(2)
					s.sepCount = longDelimCheck(sc)
					if s.sepCount > 0 {
						sc.ChangeState(StyleComment)
						sc.ForwardN(s.sepCount)
					}
				case sc.Match("---"):
					sc.SetState(StyleCommentDoc)
					s.lastLineDocComment = true
				default:
					sc.Forward()
				}
			case sc.AtLineStart && sc.MatchChar('$'):
				// Obsolete since Lua 4.0.
				sc.SetState(StylePreprocessor)
			case setLuaOperator.Contains(sc.Ch):
				sc.SetState(StyleOperator)
			}
			if !charset.AnyOf(sc.State, StyleDefault, StyleCommentDoc) {
				s.lastLineDocComment = false
			}
		}
	}
	sc.Complete()
}

// scanLabel styles "::name::" once the second colon has been passed. The
// name may not be a keyword and spaces are allowed around it.
func (l *Lexer) scanLabel(sc *lexer.StyleContext) {
	ln := 0
	for charset.IsASpaceOrTab(sc.GetRelative(ln)) {
		ln++
	}
	ws1 := ln
	if !setWordStart.Contains(sc.GetRelative(ln)) {
		return
	}
	var name []byte
	for c := sc.GetRelative(ln); setWord.Contains(c); c = sc.GetRelative(ln) {
		name = append(name, byte(c))
		ln++
	}
	lbl := ln
	if l.keyword(string(name)) {
		return
	}
	for charset.IsASpaceOrTab(sc.GetRelative(ln)) {
		ln++
	}
	ws2 := ln - lbl
	if sc.GetRelative(ln) != ':' || sc.GetRelative(ln+1) != ':' {
		return
	}
	sc.ChangeState(StyleLabel)
	if ws1 > 0 {
		sc.SetState(StyleDefault)
		sc.ForwardBytes(ws1)
	}
	sc.SetState(StyleLabel)
	sc.ForwardBytes(lbl - ws1)
	if ws2 > 0 {
		sc.SetState(StyleDefault)
		sc.ForwardBytes(ws2)
	}
	sc.SetState(StyleLabel)
	sc.ForwardBytes(2)
}

// scanIdentifier looks ahead over a dotted or colon separated identifier
// and finds its longest prefix that is in a keyword list. It returns the
// identifier length, the matched prefix length, the prefix style and
// whether the word is goto. Lengths are relative to the current position.
func (l *Lexer) scanIdentifier(sc *lexer.StyleContext) (idenPos, idenWordPos int, idenStyle lexer.Style, foundGoto bool) {
	idenStyle = StyleIdentifier
	var ident []byte
	for {
		idenPosOld := idenPos
		segment := []byte{byte(sc.GetRelative(idenPos))}
		idenPos++
		c := sc.GetRelative(idenPos)
		for setWord.Contains(c) {
			segment = append(segment, byte(c))
			idenPos++
			c = sc.GetRelative(idenPos)
		}
		if idenPosOld > 0 && l.keyword(string(segment)) {
			// Keywords cannot be part of a dotted name.
			idenPos = idenPosOld - 1
			ident = ident[:len(ident)-1]
			break
		}
		ident = append(ident, segment...)
		for n, style := range wordStyles {
			if l.WordList(n).InList(string(ident)) {
				idenStyle = style
				idenWordPos = idenPos
				break
			}
		}
		if idenStyle == StyleWord {
			break
		}
		if (c == '.' || c == ':') && setWordStart.Contains(sc.GetRelative(idenPos+1)) {
			ident = append(ident, byte(c))
			idenPos++
			continue
		}
		break
	}
	foundGoto = idenStyle == StyleWord && string(ident) == "goto"
	return idenPos, idenWordPos, idenStyle, foundGoto
}

// Fold nests on if, do, function and repeat against end and until, on
// braces and parentheses, and on long strings and block comments.
func (l *Lexer) Fold(startPos, length int, initStyle lexer.Style, doc lexer.Document) {
	styler := lexer.NewAccessor(doc)
	lengthDoc := startPos + length
	visibleChars := 0
	lineCurrent := styler.GetLine(startPos)
	levelPrev := int(lexer.LevelBase)
	if lineCurrent > 0 {
		levelPrev = styler.LevelAt(lineCurrent - 1).Next()
	}
	levelCurrent := levelPrev
	chNext := styler.CharAt(startPos)
	style := initStyle
	styleNext := styler.StyleAt(startPos)

	for i := startPos; i < lengthDoc; i++ {
		ch := chNext
		chNext = styler.SafeGetCharAt(i+1, 0)
		stylePrev := style
		style = styleNext
		styleNext = styler.StyleAt(i + 1)
		atEOL := (ch == '\r' && chNext != '\n') || ch == '\n'

		switch style {
		case StyleWord:
			if style != stylePrev && charset.AnyOf(ch, 'i', 'd', 'f', 'e', 'r', 'u') {
				end := i
				for end < i+8 && end < styler.Length() && isFoldWordChar(styler.CharAt(end)) {
					end++
				}
				switch styler.GetRange(i, end) {
				case "if", "do", "function", "repeat":
					levelCurrent++
				case "end", "until":
					levelCurrent--
				}
			}
		case StyleOperator:
			switch ch {
			case '{', '(':
				levelCurrent++
			case '}', ')':
				levelCurrent--
			}
		case StyleLiteralString, StyleComment:
			if stylePrev != style {
				levelCurrent++
			} else if styleNext != style {
				levelCurrent--
			}
		}

		if !charset.IsSpaceChar(ch) {
			visibleChars++
		}

		if atEOL || i == lengthDoc-1 {
			blank := visibleChars == 0 && l.opts.foldCompact
			styler.SetLevelIfChanged(lineCurrent, lexer.PackLevel(levelPrev, levelCurrent, blank))
			if !atEOL {
				return
			}
			lineCurrent++
			levelPrev = levelCurrent
			visibleChars = 0
		}
	}
	next := styler.LevelAt(lineCurrent)
	styler.SetLevel(lineCurrent, lexer.PackLevel(levelPrev, next.Next(), next.IsWhite()))
}

func isFoldWordChar(ch byte) bool {
	return ch >= 0x80 || charset.IsAlphaNumeric(rune(ch)) || ch == '.' || ch == '_'
}
