package render

import "github.com/zjrosen/stylex/internal/lexer"

// FoldLine describes the fold level of one line.
type FoldLine struct {
	Line  int
	Level lexer.FoldLevel
	// Depth is the level number relative to lexer.LevelBase.
	Depth  int
	Header bool
	White  bool
	// Next is the packed next-line level relative to lexer.LevelBase, for
	// folders that store it, or -1.
	Next int
}

// Folds lists the fold level of every line.
func Folds(levels []lexer.FoldLevel) []FoldLine {
	lines := make([]FoldLine, len(levels))
	for i, lv := range levels {
		next := -1
		if lv.Next() != 0 {
			next = lv.Next() - int(lexer.LevelBase)
		}
		lines[i] = FoldLine{
			Line:   i,
			Level:  lv,
			Depth:  lv.Number() - int(lexer.LevelBase),
			Header: lv.IsHeader(),
			White:  lv.IsWhite(),
			Next:   next,
		}
	}
	return lines
}

// FoldEnd returns the last line folded away under header, or header itself
// when it is not a fold header. Blank lines at the header's depth stay in
// the fold only when deeper lines follow them.
func FoldEnd(levels []lexer.FoldLevel, header int) int {
	if header < 0 || header >= len(levels) || !levels[header].IsHeader() {
		return header
	}
	depth := levels[header].Number()
	end := header
	for line := header + 1; line < len(levels); line++ {
		lv := levels[line]
		if lv.Number() > depth {
			end = line
			continue
		}
		if lv.IsWhite() {
			continue
		}
		break
	}
	return end
}

// Visible lists the lines shown when the headers in folded are collapsed.
func Visible(levels []lexer.FoldLevel, folded map[int]bool) []int {
	lines := make([]int, 0, len(levels))
	for line := 0; line < len(levels); line++ {
		lines = append(lines, line)
		if folded[line] {
			line = FoldEnd(levels, line)
		}
	}
	return lines
}

// Headers lists the fold header lines.
func Headers(levels []lexer.FoldLevel) []int {
	var headers []int
	for line, lv := range levels {
		if lv.IsHeader() && FoldEnd(levels, line) > line {
			headers = append(headers, line)
		}
	}
	return headers
}

// Enclosing returns the innermost header whose fold contains line, line
// itself when it is a header, or -1.
func Enclosing(levels []lexer.FoldLevel, line int) int {
	if line < 0 || line >= len(levels) {
		return -1
	}
	if levels[line].IsHeader() && FoldEnd(levels, line) > line {
		return line
	}
	for h := line - 1; h >= 0; h-- {
		if levels[h].IsHeader() && FoldEnd(levels, h) >= line {
			return h
		}
	}
	return -1
}
