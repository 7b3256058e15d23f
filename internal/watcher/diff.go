package watcher

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/stylex/internal/session"
)

// Edits returns the edits that turn before into after, line by line. Each edit's
// position is in the coordinates left by the edits before it, which is how
// session.Apply reads a batch.
func Edits(before, after string) []session.Edit {
	if before == after {
		return nil
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var edits []session.Edit
	pos := 0
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			pos += len(d.Text)
		case diffmatchpatch.DiffDelete:
			edits = append(edits, session.Edit{Pos: pos, Delete: len(d.Text)})
		case diffmatchpatch.DiffInsert:
			// A replacement is a delete at the same position followed by an insert.
			if n := len(edits); n > 0 && edits[n-1].Pos == pos && edits[n-1].Insert == "" {
				edits[n-1].Insert = d.Text
			} else {
				edits = append(edits, session.Edit{Pos: pos, Insert: d.Text})
			}
			pos += len(d.Text)
		}
	}
	return edits
}
