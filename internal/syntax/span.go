package syntax

// Span describes one highlighted region of a line. Spans are ephemeral:
// recomputed every time a line is highlighted, never persisted.
type Span struct {
	// Start is the starting byte offset within the line (0-indexed).
	Start int

	// Len is the span length in bytes, always positive.
	Len int

	// Category is the lexical class to style the region with.
	Category Category
}

// End returns the exclusive end offset of the span.
func (s Span) End() int { return s.Start + s.Len }

// painter resolves overlapping category matches with last-writer-wins
// semantics. Each cell of a line holds at most one category; applying a
// region overwrites whatever was painted there before.
type painter struct {
	cells []Category
	used  []bool
}

func newPainter(n int) *painter {
	return &painter{
		cells: make([]Category, n),
		used:  make([]bool, n),
	}
}

// paint marks [start, end) with the category, clamping to line bounds.
func (p *painter) paint(start, end int, c Category) {
	if start < 0 {
		start = 0
	}
	if end > len(p.cells) {
		end = len(p.cells)
	}
	for i := start; i < end; i++ {
		p.cells[i] = c
		p.used[i] = true
	}
}

// spans coalesces the painted cells into maximal runs, sorted by Start.
func (p *painter) spans() []Span {
	var out []Span
	i := 0
	for i < len(p.cells) {
		if !p.used[i] {
			i++
			continue
		}
		j := i + 1
		for j < len(p.cells) && p.used[j] && p.cells[j] == p.cells[i] {
			j++
		}
		out = append(out, Span{Start: i, Len: j - i, Category: p.cells[i]})
		i = j
	}
	return out
}
