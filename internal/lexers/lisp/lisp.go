// Package lisp lexes and folds Common Lisp and similar Lisp dialects.
package lisp

import (
	"github.com/zjrosen/stylex/internal/charset"
	"github.com/zjrosen/stylex/internal/lexer"
)

// ID is the numeric lexer identifier.
const ID = 21

const (
	StyleDefault      lexer.Style = 0
	StyleComment      lexer.Style = 1
	StyleNumber       lexer.Style = 2
	StyleKeyword      lexer.Style = 3
	StyleKeywordKW    lexer.Style = 4
	StyleSymbol       lexer.Style = 5
	StyleString       lexer.Style = 6
	StyleStringEOL    lexer.Style = 8
	StyleIdentifier   lexer.Style = 9
	StyleOperator     lexer.Style = 10
	StyleSpecial      lexer.Style = 11
	StyleMultiComment lexer.Style = 12

	// Scanner states that never reach the document.
	stateCharacter     lexer.Style = 29
	stateMacro         lexer.Style = 30
	stateMacroDispatch lexer.Style = 31
)

var lexicalClasses = []lexer.LexicalClass{
	{Value: StyleDefault, Name: "SCE_LISP_DEFAULT", Tags: "default", Description: "White space"},
	{Value: StyleComment, Name: "SCE_LISP_COMMENT", Tags: "comment", Description: "Line comment"},
	{Value: StyleNumber, Name: "SCE_LISP_NUMBER", Tags: "literal numeric", Description: "Number"},
	{Value: StyleKeyword, Name: "SCE_LISP_KEYWORD", Tags: "keyword", Description: "Functions and special operators"},
	{Value: StyleKeywordKW, Name: "SCE_LISP_KEYWORD_KW", Tags: "keyword", Description: "Keywords"},
	{Value: StyleSymbol, Name: "SCE_LISP_SYMBOL", Tags: "literal symbol", Description: "Symbol"},
	{Value: StyleString, Name: "SCE_LISP_STRING", Tags: "literal string", Description: "String"},
	{Value: StyleStringEOL, Name: "SCE_LISP_STRINGEOL", Tags: "error literal string", Description: "End of line where string is not closed"},
	{Value: StyleIdentifier, Name: "SCE_LISP_IDENTIFIER", Tags: "identifier", Description: "Identifiers"},
	{Value: StyleOperator, Name: "SCE_LISP_OPERATOR", Tags: "operator", Description: "Operators"},
	{Value: StyleSpecial, Name: "SCE_LISP_SPECIAL", Tags: "literal", Description: "Special: radix numbers, characters, reader macros"},
	{Value: StyleMultiComment, Name: "SCE_LISP_MULTI_COMMENT", Tags: "comment", Description: "Block comment"},
}

// WordListDescriptions names the keyword slots.
var WordListDescriptions = []string{
	"Functions and special operators",
	"Keywords",
}

// Lexer is the Lisp lexer.
type Lexer struct {
	lexer.Base
}

// New returns a Lisp lexer.
func New() lexer.Lexer {
	l := &Lexer{}
	o := lexer.NewOptionSet()
	o.DefineWordListSets(WordListDescriptions)
	l.Base = lexer.NewBase("lisp", ID, lexicalClasses, o)
	return l
}

func isOperator(ch byte) bool {
	switch ch {
	case '\'', '`', '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

func isWordStart(ch byte) bool {
	return ch < 0x80 && ch != ';' && !charset.IsSpaceChar(ch) && !isOperator(ch) && ch != '"'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// classifyWord styles [start, end] as a number, keyword, special variable
// (*x* or +x+) or identifier.
func (l *Lexer) classifyWord(styler *lexer.Accessor, start, end int) {
	word := styler.GetRange(start, min(end+1, start+99))
	allDigits := true
	for i := 0; i < len(word); i++ {
		if !isDigit(word[i]) && word[i] != '.' {
			allDigits = false
		}
	}
	style := StyleIdentifier
	switch {
	case allDigits:
		style = StyleNumber
	case l.WordList(0).InList(word):
		style = StyleKeyword
	case l.WordList(1).InList(word):
		style = StyleKeywordKW
	case (word[0] == '*' && word[len(word)-1] == '*') || (word[0] == '+' && word[len(word)-1] == '+'):
		style = StyleSpecial
	}
	styler.ColourTo(end, style)
}

// operator styles ch as an operator. A quote directly before a word starts
// a symbol.
func operator(styler *lexer.Accessor, i int, ch, chNext byte, state lexer.Style) lexer.Style {
	styler.ColourTo(i-1, state)
	styler.ColourTo(i, StyleOperator)
	if ch == '\'' && isWordStart(chNext) {
		return StyleSymbol
	}
	return state
}

func (l *Lexer) Lex(startPos, length int, initStyle lexer.Style, doc lexer.Document) {
	styler := lexer.NewAccessor(doc)
	styler.StartAt(startPos)

	state := initStyle
	if state >= stateCharacter {
		state = StyleDefault
	}
	radix := -1
	chNext := styler.CharAt(startPos)
	lengthDoc := startPos + length
	styler.StartSegment(startPos)

	for i := startPos; i < lengthDoc; i++ {
		ch := chNext
		chNext = styler.SafeGetCharAt(i+1, ' ')
		atEOL := (ch == '\r' && chNext != '\n') || ch == '\n'

		if styler.IsLeadByte(ch) {
			chNext = styler.SafeGetCharAt(i+2, ' ')
			i++
			continue
		}

		switch state {
		case StyleDefault:
			switch {
			case ch == '#':
				styler.ColourTo(i-1, state)
				radix = -1
				state = stateMacroDispatch
			case ch == ':' && isWordStart(chNext):
				styler.ColourTo(i-1, state)
				state = StyleSymbol
			case isWordStart(ch):
				styler.ColourTo(i-1, state)
				state = StyleIdentifier
			case ch == ';':
				styler.ColourTo(i-1, state)
				state = StyleComment
			case isOperator(ch):
				state = operator(styler, i, ch, chNext, state)
			case ch == '"':
				styler.ColourTo(i-1, state)
				state = StyleString
			}

		case StyleIdentifier, StyleSymbol:
			if !isWordStart(ch) {
				if state == StyleIdentifier {
					l.classifyWord(styler, styler.GetStartSegment(), i-1)
				} else {
					styler.ColourTo(i-1, state)
				}
				state = StyleDefault
			}
			if isOperator(ch) {
				state = operator(styler, i, ch, chNext, state)
			}

		case stateMacroDispatch:
			if isDigit(ch) {
				break
			}
			if ch != 'r' && ch != 'R' && i-styler.GetStartSegment() > 1 {
				state = StyleDefault
				break
			}
			switch ch {
			case '|':
				state = StyleMultiComment
			case 'o', 'O':
				radix = 8
				state = stateMacro
			case 'x', 'X':
				radix = 16
				state = stateMacro
			case 'b', 'B':
				radix = 2
				state = stateMacro
			case '\\':
				state = stateCharacter
			case ':', '-', '+':
				state = stateMacro
			case '\'':
				if isWordStart(chNext) {
					state = StyleSpecial
				} else {
					styler.ColourTo(i-1, StyleDefault)
					styler.ColourTo(i, StyleOperator)
					state = StyleDefault
				}
			default:
				if isOperator(ch) {
					styler.ColourTo(i-1, StyleDefault)
					styler.ColourTo(i, StyleOperator)
				}
				state = StyleDefault
			}

		case stateMacro:
			if isWordStart(ch) && (radix == -1 || charset.IsADigitBase(rune(ch), radix)) {
				state = StyleSpecial
			} else {
				state = StyleDefault
			}

		case stateCharacter:
			switch {
			case isOperator(ch):
				styler.ColourTo(i, StyleSpecial)
				state = StyleDefault
			case isWordStart(ch):
				styler.ColourTo(i, StyleSpecial)
				state = StyleSpecial
			default:
				state = StyleDefault
			}

		case StyleSpecial:
			if !isWordStart(ch) || (radix != -1 && !charset.IsADigitBase(rune(ch), radix)) {
				styler.ColourTo(i-1, state)
				state = StyleDefault
			}
			if isOperator(ch) {
				state = operator(styler, i, ch, chNext, state)
			}

		case StyleComment:
			if atEOL {
				styler.ColourTo(i-1, state)
				state = StyleDefault
			}

		case StyleMultiComment:
			if ch == '|' && chNext == '#' {
				i++
				chNext = styler.SafeGetCharAt(i+1, ' ')
				styler.ColourTo(i, state)
				state = StyleDefault
			}

		case StyleString:
			if ch == '\\' {
				if chNext == '"' || chNext == '\'' || chNext == '\\' {
					i++
					chNext = styler.SafeGetCharAt(i+1, ' ')
				}
			} else if ch == '"' {
				styler.ColourTo(i, state)
				state = StyleDefault
			}
		}
	}
	if state >= stateCharacter {
		state = StyleDefault
	}
	styler.ColourTo(lengthDoc-1, state)
	styler.Flush()
}

// Fold nests on operator brackets. Blank lines are always white.
func (l *Lexer) Fold(startPos, length int, _ lexer.Style, doc lexer.Document) {
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
	styleNext := styler.StyleAt(startPos)

	for i := startPos; i < lengthDoc; i++ {
		ch := chNext
		chNext = styler.SafeGetCharAt(i+1, ' ')
		style := styleNext
		styleNext = styler.StyleAt(i + 1)
		atEOL := (ch == '\r' && chNext != '\n') || ch == '\n'

		if style == StyleOperator {
			switch ch {
			case '(', '[', '{':
				levelCurrent++
			case ')', ']', '}':
				levelCurrent--
			}
		}
		if !atEOL && !charset.IsSpaceChar(ch) {
			visibleChars++
		}

		if atEOL || i == lengthDoc-1 {
			styler.SetLevelIfChanged(lineCurrent, lexer.PackLevel(levelPrev, levelCurrent, visibleChars == 0))
			if !atEOL {
				return
			}
			lineCurrent++
			levelPrev = levelCurrent
			visibleChars = 0
		}
	}
	// The line after the range starts at the level reached; its flags are
	// decided when it is folded.
	next := styler.LevelAt(lineCurrent)
	styler.SetLevel(lineCurrent, lexer.PackLevel(levelPrev, next.Next(), next.IsWhite()))
}
