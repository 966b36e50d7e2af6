package document

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Dirty reports whether the buffer differs from the last saved snapshot.
func (d *Document) Dirty() bool {
	if len(d.lines) != len(d.saved) {
		return true
	}
	for i, line := range d.lines {
		if line != d.saved[i] {
			return true
		}
	}
	return false
}

// MarkSaved records the current buffer as the saved snapshot.
func (d *Document) MarkSaved() {
	d.saved = append(d.saved[:0:0], d.lines...)
}

// ModifiedLines returns the set of line indexes (in the current buffer) that
// differ from the saved snapshot. A deletion marks the line it happened at.
// The result drives the change markers in the editor gutter.
func (d *Document) ModifiedLines() map[int]bool {
	modified := make(map[int]bool)
	if !d.Dirty() {
		return modified
	}

	dmp := diffmatchpatch.New()
	a, b, lineText := dmp.DiffLinesToChars(strings.Join(d.saved, "\n"), strings.Join(d.lines, "\n"))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineText)

	lineNo := 0
	for _, diff := range diffs {
		n := strings.Count(diff.Text, "\n")
		if !strings.HasSuffix(diff.Text, "\n") {
			n++ // trailing segment without newline is still a line
		}
		switch diff.Type {
		case diffmatchpatch.DiffEqual:
			lineNo += n
		case diffmatchpatch.DiffInsert:
			for i := 0; i < n; i++ {
				if lineNo+i < len(d.lines) {
					modified[lineNo+i] = true
				}
			}
			lineNo += n
		case diffmatchpatch.DiffDelete:
			at := lineNo
			if at >= len(d.lines) {
				at = len(d.lines) - 1
			}
			if at >= 0 {
				modified[at] = true
			}
		}
	}
	return modified
}
