package render

import (
	"github.com/zjrosen/stylex/internal/document"
	"github.com/zjrosen/stylex/internal/lexer"
	"github.com/zjrosen/stylex/internal/session"
)

// Document indexes the lines of a snapshot.
type Document struct {
	snap session.Snapshot
	buf  *document.Buffer
}

// NewDocument wraps snap. The snapshot is not copied.
func NewDocument(snap session.Snapshot) *Document {
	buf := document.New(snap.Text)
	buf.SetStyles(snap.Styles)
	return &Document{snap: snap, buf: buf}
}

// Snapshot returns the wrapped snapshot.
func (d *Document) Snapshot() session.Snapshot { return d.snap }

// LineCount returns the number of lines, counting the empty line after a
// final line end.
func (d *Document) LineCount() int { return d.buf.LineCount() }

// Level returns the fold level of line.
func (d *Document) Level(line int) lexer.FoldLevel {
	if line < 0 || line >= len(d.snap.Levels) {
		return lexer.LevelBase
	}
	return d.snap.Levels[line]
}

// Text returns line without its line end, decoded to UTF-8.
func (d *Document) Text(line int) string {
	start, end := d.bounds(line)
	return Decode(d.snap.CodePage, []byte(d.snap.Text[start:end]))
}

func (d *Document) bounds(line int) (int, int) {
	return d.buf.LineStart(line), d.buf.LineEnd(line)
}

// Run is a stretch of one style within a line.
type Run struct {
	// Start and End are byte positions in the document.
	Start, End int
	Style      lexer.Style
	// Text is decoded to UTF-8.
	Text string
}

// Runs splits line into runs of equal style. Line ends are not included.
func (d *Document) Runs(line int) []Run {
	start, end := d.bounds(line)
	var runs []Run
	for pos := start; pos < end; {
		style := d.buf.StyleAt(pos)
		next := pos + 1
		for next < end && d.buf.StyleAt(next) == style {
			next++
		}
		runs = append(runs, Run{
			Start: pos,
			End:   next,
			Style: lexer.Style(style),
			Text:  Decode(d.snap.CodePage, []byte(d.snap.Text[pos:next])),
		})
		pos = next
	}
	return runs
}

// Name returns the lexer's name for style.
func (d *Document) Name(style lexer.Style) string { return d.snap.Names[style] }

// Tags returns the lexer's tags for style.
func (d *Document) Tags(style lexer.Style) string { return d.snap.Tags[style] }
