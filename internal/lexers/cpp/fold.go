package cpp

import (
	"github.com/zjrosen/stylex/internal/charset"
	"github.com/zjrosen/stylex/internal/lexer"
)

// Fold folds on braces, brackets and parentheses, stream comments,
// explicit //{ //} markers and, with fold.preprocessor, #if and #region
// blocks. With fold.at.else a "} else {" line folds at its lowest level.
func (l *Lexer) Fold(startPos, length int, initStyle lexer.Style, doc lexer.Document) {
	if !l.opts.fold {
		return
	}
	o := &l.opts
	styler := lexer.NewAccessor(doc)
	endPos := startPos + length
	lineCurrent := styler.GetLine(startPos)
	levelCurrent := int(lexer.LevelBase)
	if lineCurrent > 0 {
		levelCurrent = styler.LevelAt(lineCurrent - 1).Next()
	}
	levelMinCurrent := levelCurrent
	levelNext := levelCurrent
	down := func(level *int) {
		if *level > int(lexer.LevelBase) {
			*level--
		}
	}
	lineStartNext := styler.LineStart(lineCurrent + 1)
	userMarkers := o.foldExplicitStart != "" && o.foldExplicitEnd != ""
	atElse := (o.foldSyntaxBased && o.foldAtElse) || (o.foldPreprocessor && o.foldPreprocessorElse)

	visibleChars := 0
	inLineComment := false
	chNext := styler.SafeGetCharAt(startPos, ' ')
	style := MaskActive(initStyle)
	if startPos > 0 {
		style = MaskActive(styler.StyleAt(startPos - 1))
	}
	styleNext := MaskActive(styler.StyleAt(startPos))

	for i := startPos; i < endPos; i++ {
		ch := chNext
		chNext = styler.SafeGetCharAt(i+1, ' ')
		stylePrev := style
		style = styleNext
		styleNext = MaskActive(styler.StyleAt(i + 1))
		atEOL := i == lineStartNext-1

		if style == StyleCommentLine || style == StyleCommentLineDoc {
			inLineComment = true
		}
		if o.foldComment && o.foldCommentMultiline && isStreamCommentStyle(style) && !inLineComment {
			if !isStreamCommentStyle(stylePrev) {
				levelNext++
			} else if !isStreamCommentStyle(styleNext) && !atEOL {
				// The character after a comment may not be styled yet.
				down(&levelNext)
			}
		}
		if o.foldComment && o.foldCommentExplicit && (style == StyleCommentLine || o.foldExplicitAnywhere) {
			switch {
			case userMarkers:
				if styler.Match(i, o.foldExplicitStart) {
					levelNext++
				} else if styler.Match(i, o.foldExplicitEnd) {
					down(&levelNext)
				}
			case ch == '/' && chNext == '/':
				switch styler.SafeGetCharAt(i+2, ' ') {
				case '{':
					levelNext++
				case '}':
					down(&levelNext)
				}
			}
		}
		if o.foldPreprocessor && style == StylePreprocessor && ch == '#' {
			j := i + 1
			for j < endPos && charset.IsASpaceOrTab(rune(styler.SafeGetCharAt(j, ' '))) {
				j++
			}
			switch {
			case styler.Match(j, "region") || styler.Match(j, "if"):
				levelNext++
			case styler.Match(j, "end"):
				down(&levelNext)
			}
			if o.foldPreprocessorElse && (styler.Match(j, "else") || styler.Match(j, "elif")) {
				down(&levelMinCurrent)
			}
		}
		if o.foldSyntaxBased && style == StyleOperator {
			switch ch {
			case '{', '[', '(':
				// The minimum before an opening brace lets "} else {" fold.
				if o.foldAtElse && levelMinCurrent > levelNext {
					levelMinCurrent = levelNext
				}
				levelNext++
			case '}', ']', ')':
				down(&levelNext)
			}
		}
		if !charset.IsASpace(rune(ch)) {
			visibleChars++
		}

		if atEOL || i == endPos-1 {
			levelUse := levelCurrent
			if atElse {
				levelUse = levelMinCurrent
			}
			blank := visibleChars == 0 && o.foldCompact
			styler.SetLevelIfChanged(lineCurrent, lexer.PackLevel(levelUse, levelNext, blank))
			lineCurrent++
			lineStartNext = styler.LineStart(lineCurrent + 1)
			levelCurrent = levelNext
			levelMinCurrent = levelCurrent
			if atEOL && i == styler.Length()-1 {
				// The empty last line takes the level of the line before.
				styler.SetLevel(lineCurrent, lexer.PackLevel(levelCurrent, levelCurrent, true))
			}
			visibleChars = 0
			inLineComment = false
		}
	}
}
