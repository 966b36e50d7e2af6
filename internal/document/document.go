// Package document owns the per-document line model: text lines, the
// per-line block-state sequence the highlighter needs, and the cached
// formatting spans the UI renders. All mutation happens through the
// document so the state sequence always advances in strict line order.
package document

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Wraith29/harmony/internal/log"
	"github.com/Wraith29/harmony/internal/syntax"
)

// Document is an ordered sequence of lines with their highlight results.
// The block-state slice holds each line's end-of-line state; line i is
// highlighted with the stored end state of line i-1, never by recomputing
// from the top of the document.
type Document struct {
	id       uuid.UUID
	path     string
	language string

	hl     *syntax.Highlighter
	tracer trace.Tracer

	lines  []string
	states []syntax.BlockState
	spans  [][]syntax.Span

	saved  []string
	closed bool
}

// Option configures a Document.
type Option func(*Document)

// WithTracer records highlight rescans as trace spans.
func WithTracer(t trace.Tracer) Option {
	return func(d *Document) {
		if t != nil {
			d.tracer = t
		}
	}
}

// New creates a document from file content and highlights every line.
func New(path, language, content string, hl *syntax.Highlighter, opts ...Option) *Document {
	lines := strings.Split(content, "\n")
	d := &Document{
		id:       uuid.New(),
		path:     path,
		language: language,
		hl:       hl,
		tracer:   noop.NewTracerProvider().Tracer("document"),
		lines:    lines,
		states:   make([]syntax.BlockState, len(lines)),
		spans:    make([][]syntax.Span, len(lines)),
		saved:    append([]string(nil), lines...),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.rescanAll()
	return d
}

// ID returns the document's identity, stable across edits.
func (d *Document) ID() uuid.UUID { return d.id }

// Path returns the file path the document was opened from.
func (d *Document) Path() string { return d.path }

// Language returns the language id the document is highlighted as.
func (d *Document) Language() string { return d.language }

// LineCount returns the number of lines.
func (d *Document) LineCount() int { return len(d.lines) }

// Line returns the text of line i, or "" when out of range.
func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

// Spans returns the cached formatting spans for line i. The slice must not
// be modified by the caller.
func (d *Document) Spans(i int) []syntax.Span {
	if i < 0 || i >= len(d.spans) {
		return nil
	}
	return d.spans[i]
}

// State returns the end-of-line block state of line i. Lines before the
// start of the document are always OutsideComment.
func (d *Document) State(i int) syntax.BlockState {
	if i < 0 || i >= len(d.states) {
		return syntax.OutsideComment
	}
	return d.states[i]
}

// Content returns the full buffer text.
func (d *Document) Content() string {
	return strings.Join(d.lines, "\n")
}

// SetHighlighter swaps the grammar/theme pair and re-highlights the whole
// document. Called when a .lang or .theme file changes on disk.
func (d *Document) SetHighlighter(hl *syntax.Highlighter) {
	if d.closed || hl == nil {
		return
	}
	d.hl = hl
	d.rescanAll()
}

// OnLineChanged replaces the text of line i and re-highlights it, cascading
// forward while the change moves a multi-line comment boundary.
func (d *Document) OnLineChanged(i int, text string) {
	if d.closed || i < 0 || i >= len(d.lines) {
		return
	}
	d.lines[i] = text
	d.rescanFrom(i)
}

// InsertLine inserts text as a new line at index i (0 <= i <= LineCount).
func (d *Document) InsertLine(i int, text string) {
	if d.closed || i < 0 || i > len(d.lines) {
		return
	}
	d.lines = append(d.lines[:i], append([]string{text}, d.lines[i:]...)...)
	// Seed the new line's stored end state with the carried-over state so
	// the rescan's stop condition compares against "no change in flow".
	d.states = append(d.states[:i], append([]syntax.BlockState{d.stateBefore(i)}, d.states[i:]...)...)
	d.spans = append(d.spans[:i], append([][]syntax.Span{nil}, d.spans[i:]...)...)
	d.rescanFrom(i)
}

// RemoveLine deletes line i.
func (d *Document) RemoveLine(i int) {
	if d.closed || i < 0 || i >= len(d.lines) || len(d.lines) == 1 {
		return
	}
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
	d.states = append(d.states[:i], d.states[i+1:]...)
	d.spans = append(d.spans[:i], d.spans[i+1:]...)
	d.rescanFrom(i)
}

// SplitLine splits line i at byte offset col into two lines.
func (d *Document) SplitLine(i, col int) {
	if d.closed || i < 0 || i >= len(d.lines) {
		return
	}
	line := d.lines[i]
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}
	head, tail := line[:col], line[col:]
	d.lines[i] = head
	d.InsertLine(i+1, tail)
	// InsertLine rescans from i+1; line i itself changed too.
	d.rescanFrom(i)
}

// JoinLine appends line i+1 onto line i and removes it.
func (d *Document) JoinLine(i int) {
	if d.closed || i < 0 || i+1 >= len(d.lines) {
		return
	}
	d.lines[i] += d.lines[i+1]
	d.RemoveLine(i + 1)
	d.rescanFrom(i)
}

// Close abandons the document. Every later mutation becomes a no-op, so
// closing mid-cascade leaves no partial formatting behind.
func (d *Document) Close() {
	d.closed = true
}

// Closed reports whether the document has been closed.
func (d *Document) Closed() bool { return d.closed }

func (d *Document) stateBefore(i int) syntax.BlockState {
	if i <= 0 {
		return syntax.OutsideComment
	}
	return d.states[i-1]
}

// rescanFrom re-highlights line start and every following line whose
// incoming state changed. The cascade stops at the first line whose
// end-of-line state comes out the same as before, because every line after
// it sees identical inputs with still-valid cached spans.
func (d *Document) rescanFrom(start int) {
	d.rescan(start, false)
}

// rescanAll highlights every line in order with no early stop. Used when no
// cached result can be trusted: at open and after a grammar or theme swap.
func (d *Document) rescanAll() {
	d.rescan(0, true)
}

func (d *Document) rescan(start int, full bool) {
	if d.closed || start < 0 || start >= len(d.lines) {
		return
	}

	_, span := d.tracer.Start(context.Background(), "document.rescan",
		trace.WithAttributes(
			attribute.String("document.path", d.path),
			attribute.Int("rescan.start_line", start),
		))
	defer span.End()

	scanned := 0
	for i := start; i < len(d.lines); i++ {
		if d.closed {
			break
		}
		prevEnd := d.states[i]
		spans, next := d.hl.HighlightLine(d.lines[i], d.stateBefore(i))
		d.spans[i] = spans
		d.states[i] = next
		scanned++
		if !full && next == prevEnd {
			break
		}
	}

	span.SetAttributes(attribute.Int("rescan.lines", scanned))
	if scanned > 1 {
		log.Debug(log.CatDoc, "cascading rescan", "path", d.path, "start", start, "lines", scanned)
	}
}
