package render

import (
	"github.com/rivo/uniseg"

	"github.com/zjrosen/stylex/internal/lexer"
)

// Token is one styled run with its position in the document.
type Token struct {
	// Line and Column are 1-based. Column counts grapheme clusters.
	Line   int
	Column int
	Pos    int
	Length int
	Style  lexer.Style
	Name   string
	Tags   string
	Text   string
}

// Tokens lists every styled run of the document in order. Line ends are
// left out.
func Tokens(d *Document) []Token {
	var tokens []Token
	for line := range d.LineCount() {
		column := 1
		for _, run := range d.Runs(line) {
			tokens = append(tokens, Token{
				Line:   line + 1,
				Column: column,
				Pos:    run.Start,
				Length: run.End - run.Start,
				Style:  run.Style,
				Name:   d.Name(run.Style),
				Tags:   d.Tags(run.Style),
				Text:   run.Text,
			})
			column += uniseg.GraphemeClusterCount(run.Text)
		}
	}
	return tokens
}
