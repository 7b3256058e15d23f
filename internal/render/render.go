package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/stylex/internal/lexer"
	"github.com/zjrosen/stylex/internal/log"
)

// Fold margin markers.
const (
	MarkerExpanded  = "-"
	MarkerCollapsed = "+"
	MarkerBody      = "|"
)

// Options control Render.
type Options struct {
	// Margin adds line numbers and fold markers.
	Margin bool
	// Folded holds collapsed fold headers.
	Folded map[int]bool
}

// Line renders line's text with each run in its theme style.
func (t *Theme) Line(d *Document, line int) string {
	var sb strings.Builder
	for _, run := range d.Runs(line) {
		sb.WriteString(t.Style(d.Tags(run.Style)).Render(run.Text))
	}
	return sb.String()
}

// NumberWidth is the width of the widest line number in d.
func NumberWidth(d *Document) int {
	return len(strconv.Itoa(d.LineCount()))
}

// Marker returns the fold margin marker for line.
func Marker(d *Document, line int, folded bool) string {
	levels := d.Snapshot().Levels
	if FoldEnd(levels, line) > line {
		if folded {
			return MarkerCollapsed
		}
		return MarkerExpanded
	}
	if d.Level(line).Number() > int(lexer.LevelBase) {
		return MarkerBody
	}
	return " "
}

// Margin renders the line number and fold marker of line, padded to width
// digits and followed by a space.
func (t *Theme) Margin(d *Document, line, width int, folded bool) string {
	number := runewidth.FillLeft(strconv.Itoa(line+1), width)
	return t.MarginStyle().Render(number+" "+Marker(d, line, folded)) + " "
}

// MarginWidth is the display width of Margin's output.
func MarginWidth(numberWidth int) int {
	return numberWidth + 3
}

// Render writes the visible lines of d to w, one per output line.
func (t *Theme) Render(w io.Writer, d *Document, opts Options) error {
	levels := d.Snapshot().Levels
	width := NumberWidth(d)
	visible := Visible(levels, opts.Folded)
	log.Debug(log.CatRender, "rendering document", "language", d.Snapshot().Language, "lines", len(visible))

	var sb strings.Builder
	for _, line := range visible {
		if line > 0 && line == d.LineCount()-1 && d.Text(line) == "" {
			// The empty line after a final line end.
			break
		}
		if opts.Margin {
			sb.WriteString(t.Margin(d, line, width, opts.Folded[line]))
		}
		sb.WriteString(t.Line(d, line))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
