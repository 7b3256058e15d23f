// Package cil lexes and folds Common Intermediate Language (ECMA-335)
// assembly source.
package cil

import (
	"strings"

	"github.com/zjrosen/stylex/internal/charset"
	"github.com/zjrosen/stylex/internal/lexer"
)

// ID is the numeric lexer identifier.
const ID = 127

const (
	StyleDefault     lexer.Style = 0
	StyleComment     lexer.Style = 1
	StyleCommentLine lexer.Style = 2
	StyleWord        lexer.Style = 3
	StyleWord2       lexer.Style = 4
	StyleWord3       lexer.Style = 5
	StyleString      lexer.Style = 6
	StyleLabel       lexer.Style = 7
	StyleOperator    lexer.Style = 8
	StyleStringEOL   lexer.Style = 9
	StyleIdentifier  lexer.Style = 10
)

var lexicalClasses = []lexer.LexicalClass{
	{Value: StyleDefault, Name: "SCE_CIL_DEFAULT", Tags: "default", Description: "White space"},
	{Value: StyleComment, Name: "SCE_CIL_COMMENT", Tags: "comment", Description: "Multi-line comment"},
	{Value: StyleCommentLine, Name: "SCE_CIL_COMMENTLINE", Tags: "comment line", Description: "Line comment"},
	{Value: StyleWord, Name: "SCE_CIL_WORD", Tags: "keyword", Description: "Keyword 1"},
	{Value: StyleWord2, Name: "SCE_CIL_WORD2", Tags: "keyword", Description: "Keyword 2"},
	{Value: StyleWord3, Name: "SCE_CIL_WORD3", Tags: "keyword", Description: "Keyword 3"},
	{Value: StyleString, Name: "SCE_CIL_STRING", Tags: "literal string", Description: "Double quoted string"},
	{Value: StyleLabel, Name: "SCE_CIL_LABEL", Tags: "label", Description: "Code label"},
	{Value: StyleOperator, Name: "SCE_CIL_OPERATOR", Tags: "operator", Description: "Operators"},
	{Value: StyleStringEOL, Name: "SCE_CIL_STRINGEOL", Tags: "error literal string", Description: "String is not closed"},
	{Value: StyleIdentifier, Name: "SCE_CIL_IDENTIFIER", Tags: "identifier", Description: "Identifiers"},
}

// WordListDescriptions names the keyword slots.
var WordListDescriptions = []string{
	"Primary CIL keywords",
	"Metadata",
	"Opcode instructions",
}

type options struct {
	fold                 bool
	foldComment          bool
	foldCommentMultiline bool
	foldCompact          bool
}

// Lexer is the CIL lexer.
type Lexer struct {
	lexer.Base
	opts options
}

// New returns a CIL lexer with default options.
func New() lexer.Lexer {
	l := &Lexer{opts: options{
		fold:                 true,
		foldCommentMultiline: true,
		foldCompact:          true,
	}}
	o := lexer.NewOptionSet()
	o.DefineBool("fold", &l.opts.fold, "")
	o.DefineBool("fold.comment", &l.opts.foldComment, "")
	o.DefineBool("fold.cil.comment.multiline", &l.opts.foldCommentMultiline,
		"Set this property to 0 to disable folding multi-line comments when fold.comment=1.")
	o.DefineBool("fold.compact", &l.opts.foldCompact, "")
	o.DefineWordListSets(WordListDescriptions)
	l.Base = lexer.NewBase("cil", ID, lexicalClasses, o)
	return l
}

func isWordChar(ch rune) bool {
	return charset.IsASCII(ch) && (charset.IsAlphaNumeric(ch) || ch == '_' || ch == '.')
}

func isOperator(ch rune) bool {
	if charset.IsAlphaNumeric(ch) || !charset.IsASCII(ch) || ch == 0 {
		return false
	}
	return strings.ContainsRune("!%&*+-/<=>@^|~()[]{}", ch)
}

func (l *Lexer) Lex(startPos, length int, initStyle lexer.Style, doc lexer.Document) {
	if initStyle == StyleStringEOL {
		initStyle = StyleDefault
	}
	sc := lexer.NewStyleContext(startPos, length, initStyle, lexer.NewAccessor(doc))

	// identAtLineStart: only whitespace precedes the current character.
	identAtLineStart := false
	canStyleLabels := false

	for ; sc.More(); sc.Forward() {
		if sc.AtLineStart && sc.State == StyleString {
			sc.SetState(StyleString)
		}

		// String line continuation.
		if sc.Ch == '\\' && charset.IsNewline(sc.ChNext) && sc.State == StyleString {
			sc.Forward()
			if sc.MatchPair('\r', '\n') {
				sc.Forward()
			}
			continue
		}

		switch sc.State {
		case StyleOperator:
			sc.SetState(StyleDefault)
		case StyleIdentifier:
			if !isWordChar(sc.Ch) {
				if canStyleLabels && sc.Ch == ':' && sc.ChNext != ':' {
					sc.ChangeState(StyleLabel)
					sc.ForwardSetState(StyleDefault)
				} else {
					word := sc.GetCurrent()
					switch {
					case l.WordList(0).InList(word):
						sc.ChangeState(StyleWord)
					case l.WordList(1).InList(word):
						sc.ChangeState(StyleWord2)
					case l.WordList(2).InList(word):
						sc.ChangeState(StyleWord3)
					}
					sc.SetState(StyleDefault)
				}
			}
		case StyleComment:
			if sc.MatchPair('*', '/') {
				sc.Forward()
				sc.ForwardSetState(StyleDefault)
			}
		case StyleCommentLine:
			if sc.AtLineStart {
				sc.SetState(StyleDefault)
			}
		case StyleString:
			if sc.Ch == '\\' {
				if sc.ChNext == '"' || sc.ChNext == '\\' {
					sc.Forward()
				}
			} else if sc.Ch == '"' {
				sc.ForwardSetState(StyleDefault)
			} else if sc.AtLineEnd {
				sc.ChangeState(StyleStringEOL)
				sc.ForwardSetState(StyleDefault)
			}
		}

		// Closing a run at a line end can leave the walk on the next line.
		if sc.AtLineStart {
			identAtLineStart = true
		}

		if sc.State == StyleDefault {
			switch {
			case sc.Ch == '"':
				sc.SetState(StyleString)
			case isWordChar(sc.Ch):
				// A label must be the first token on its line and may not
				// start with a dot or a digit.
				canStyleLabels = identAtLineStart && !(sc.Ch == '.' || charset.IsADigit(sc.Ch))
				sc.SetState(StyleIdentifier)
			case sc.MatchPair('/', '*'):
				sc.SetState(StyleComment)
				sc.Forward()
			case sc.MatchPair('/', '/'):
				sc.SetState(StyleCommentLine)
			case isOperator(sc.Ch):
				sc.SetState(StyleOperator)
			}
		}

		if !charset.IsASpace(sc.Ch) {
			identAtLineStart = false
		}
	}
	sc.Complete()
}

func (l *Lexer) Fold(startPos, length int, initStyle lexer.Style, doc lexer.Document) {
	if !l.opts.fold {
		return
	}
	styler := lexer.NewAccessor(doc)
	endPos := startPos + length
	lineCurrent := styler.GetLine(startPos)

	levelCurrent := int(lexer.LevelBase)
	if lineCurrent > 0 {
		levelCurrent = styler.LevelAt(lineCurrent - 1).Next()
	}
	levelNext := levelCurrent
	visibleChars := 0

	style := initStyle
	styleNext := styler.StyleAt(startPos)
	chNext := styler.CharAt(startPos)

	for i := startPos; i < endPos; i++ {
		ch := chNext
		stylePrev := style
		chNext = styler.SafeGetCharAt(i+1, ' ')
		style = styleNext
		styleNext = styler.StyleAt(i + 1)
		atEOL := (ch == '\r' && chNext != '\n') || ch == '\n'

		if l.opts.foldComment && l.opts.foldCommentMultiline && style == StyleComment {
			if stylePrev != StyleComment {
				levelNext++
			} else if styleNext != StyleComment && !atEOL {
				levelNext--
			}
		}

		if style == StyleOperator {
			switch ch {
			case '{':
				levelNext++
			case '}':
				levelNext--
			}
		}

		if !charset.IsSpaceChar(ch) {
			visibleChars++
		}

		if atEOL || i == endPos-1 {
			blank := visibleChars == 0 && l.opts.foldCompact
			styler.SetLevelIfChanged(lineCurrent, lexer.PackLevel(levelCurrent, levelNext, blank))
			lineCurrent++
			levelCurrent = levelNext

			if l.opts.foldCompact && i == styler.Length()-1 && atEOL {
				styler.SetLevel(lineCurrent, lexer.PackLevel(levelCurrent, levelCurrent, true))
			}
			visibleChars = 0
		}
	}
}
