package lexer

// Indentation flags reported by IndentAmount.
const (
	IndentSpace        = 1
	IndentTab          = 2
	IndentSpaceTab     = 4 // a tab follows a space
	IndentInconsistent = 8 // differs from the previous line's indentation prefix
)

// IsCommentLeader reports whether a comment starts at pos. length is the
// number of bytes left in the document.
type IsCommentLeader func(a *Accessor, pos, length int) bool

// IndentAmount measures the leading whitespace of line with tab stops of 8
// and returns it offset by LevelBase. The white flag is set for empty lines,
// whitespace-only lines and lines whose first token satisfies isComment.
// flags receives the Indent* bits.
func (a *Accessor) IndentAmount(line int, flags *int, isComment IsCommentLeader) FoldLevel {
	end := a.Length()
	spaceFlags := 0

	pos := a.LineStart(line)
	ch := a.CharAt(pos)
	indent := 0
	inPrevPrefix := line > 0
	posPrev := 0
	if inPrevPrefix {
		posPrev = a.LineStart(line - 1)
	}
	for (ch == ' ' || ch == '\t') && pos < end {
		if inPrevPrefix {
			chPrev := a.CharAt(posPrev)
			posPrev++
			if chPrev == ' ' || chPrev == '\t' {
				if chPrev != ch {
					spaceFlags |= IndentInconsistent
				}
			} else {
				inPrevPrefix = false
			}
		}
		if ch == ' ' {
			spaceFlags |= IndentSpace
			indent++
		} else {
			spaceFlags |= IndentTab
			if spaceFlags&IndentSpace != 0 {
				spaceFlags |= IndentSpaceTab
			}
			indent = (indent/8 + 1) * 8
		}
		pos++
		ch = a.CharAt(pos)
	}

	if flags != nil {
		*flags = spaceFlags
	}
	level := FoldLevel(indent) + LevelBase
	if a.LineStart(line) == end || ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' ||
		(isComment != nil && isComment(a, pos, end-pos)) {
		return level | LevelWhiteFlag
	}
	return level
}

// CommitIndentLevels packs the unpacked levels of the consecutive lines
// starting at firstLine and stores the ones that changed. The last line
// takes its next level from the document, or from itself at the end.
func (a *Accessor) CommitIndentLevels(firstLine int, levels []FoldLevel) {
	lastLine := a.GetLine(a.Length())
	for i, lev := range levels {
		line := firstLine + i
		next := lev.Number()
		if i+1 < len(levels) {
			next = levels[i+1].Number()
		} else if line < lastLine {
			next = a.LevelAt(line + 1).Number()
		}
		a.SetLevelIfChanged(line, PackLevel(lev.Number(), next, lev.IsWhite()))
	}
}
