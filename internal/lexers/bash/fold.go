package bash

import (
	"github.com/zjrosen/stylex/internal/charset"
	"github.com/zjrosen/stylex/internal/lexer"
)

// isCommentLine reports whether the first visible character of line is '#'.
func isCommentLine(styler *lexer.Accessor, line int) bool {
	if line < 0 {
		return false
	}
	end := styler.LineStart(line+1) - 1
	for i := styler.LineStart(line); i < end; i++ {
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

// Fold folds on if/case/do blocks, braces, here documents and, with
// fold.comment, runs of comment lines.
func (l *Lexer) Fold(startPos, length int, initStyle lexer.Style, doc lexer.Document) {
	if !l.opts.fold {
		return
	}
	styler := lexer.NewAccessor(doc)
	endPos := startPos + length
	lineCurrent := styler.GetLine(startPos)
	levelPrev := int(lexer.LevelBase)
	if lineCurrent > 0 {
		levelPrev = styler.LevelAt(lineCurrent - 1).Next()
	}
	levelCurrent := levelPrev
	down := func() {
		if levelCurrent > int(lexer.LevelBase) {
			levelCurrent--
		}
	}

	visibleChars := 0
	chNext := styler.SafeGetCharAt(startPos, 0)
	style := StyleDefault
	if startPos > 0 {
		style = maskCommand(styler.StyleAt(startPos - 1))
	}
	styleNext := maskCommand(styler.StyleAt(startPos))
	var word []byte

	for i := startPos; i < endPos; i++ {
		ch := chNext
		chNext = styler.SafeGetCharAt(i+1, 0)
		stylePrev := style
		style = styleNext
		styleNext = maskCommand(styler.StyleAt(i + 1))
		atEOL := (ch == '\r' && chNext != '\n') || ch == '\n'

		if l.opts.foldComment && atEOL && isCommentLine(styler, lineCurrent) {
			prev := isCommentLine(styler, lineCurrent-1)
			next := isCommentLine(styler, lineCurrent+1)
			if !prev && next {
				levelCurrent++
			} else if prev && !next {
				down()
			}
		}

		switch style {
		case StyleWord:
			if len(word) < 7 {
				word = append(word, ch)
			}
			if styleNext != style {
				switch string(word) {
				case "if", "case", "do":
					levelCurrent++
				case "fi", "esac", "done":
					down()
				}
				word = word[:0]
			}
		case StyleOperator:
			if ch == '{' {
				levelCurrent++
			} else if ch == '}' {
				down()
			}
		case StyleHereDelim:
			if stylePrev == StyleHereQ {
				down()
			} else if stylePrev != StyleHereDelim && ch == '<' && chNext == '<' &&
				styler.SafeGetCharAt(i+2, 0) != '<' {
				levelCurrent++
			}
		case StyleHereQ:
			if styleNext == StyleDefault {
				down()
			}
		}

		if !charset.IsSpaceChar(ch) {
			visibleChars++
		}

		if atEOL || i == endPos-1 {
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
