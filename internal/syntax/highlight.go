package syntax

import (
	"regexp"
	"strings"

	"github.com/Wraith29/harmony/internal/report"
)

// String rules are fixed and language-independent: double- and single-quoted
// spans with backslash-escaped delimiters. Go's regexp engine guarantees
// matching time linear in the line length, so no rule can backtrack
// catastrophically.
var stringRules = []*regexp.Regexp{
	regexp.MustCompile(`"(?:\\.|[^"\\])*"`),
	regexp.MustCompile(`'(?:\\.|[^'\\])*'`),
}

// Highlighter applies one grammar and one theme to lines of text. It holds
// no per-line state; the caller owns the per-line BlockState sequence and
// feeds each line the state left by its predecessor.
type Highlighter struct {
	grammar  *Grammar
	theme    *Theme
	reporter report.Reporter
}

// NewHighlighter creates a highlighter. A nil reporter discards reports.
func NewHighlighter(grammar *Grammar, theme *Theme, rep report.Reporter) *Highlighter {
	if rep == nil {
		rep = report.Discard{}
	}
	return &Highlighter{grammar: grammar, theme: theme, reporter: rep}
}

// Grammar returns the grammar the highlighter was built with.
func (h *Highlighter) Grammar() *Grammar { return h.grammar }

// Theme returns the theme the highlighter was built with.
func (h *Highlighter) Theme() *Theme { return h.theme }

// HighlightLine produces the formatting spans for one line and the block
// state to carry to the next line. It is deterministic, mutates nothing,
// and has no side effects beyond reporting recovered configuration errors.
//
// A line that begins inside a multi-line comment is styled as comment up to
// the closing delimiter (or in full) and skips every other category.
// Otherwise categories apply in a fixed order with last-writer-wins on
// overlap: keyword, operator, brace, special, definition, string, comment,
// multiline.
func (h *Highlighter) HighlightLine(text string, prev BlockState) ([]Span, BlockState) {
	if text == "" {
		return nil, prev
	}

	var (
		mlRegions [][2]int
		next      = prev
	)
	if h.grammar.HasMultiline() {
		mlRegions, next = h.scanMultiline(text, prev)
	}

	p := newPainter(len(text))

	if prev == InsideComment {
		// The line starts inside a comment: multiline styling only.
		h.paintRegions(p, mlRegions, CategoryMultiline)
		return p.spans(), next
	}

	h.paintCategory(p, text, CategoryKeyword, h.grammar.keywords)
	h.paintCategory(p, text, CategoryOperator, h.grammar.operators)
	h.paintCategory(p, text, CategoryBrace, h.grammar.braces)
	h.paintCategory(p, text, CategorySpecial, h.grammar.specials)
	h.paintDefinitions(p, text)
	h.paintStrings(p, text)
	h.paintComment(p, text)
	h.paintRegions(p, mlRegions, CategoryMultiline)

	return p.spans(), next
}

// scanMultiline walks the line alternating between the grammar's start and
// end delimiters, collecting comment regions and the end-of-line state.
func (h *Highlighter) scanMultiline(text string, prev BlockState) ([][2]int, BlockState) {
	var (
		regions   [][2]int
		state     = prev
		pos       = 0
		spanStart = 0
	)

	for pos <= len(text) {
		if state == InsideComment {
			loc := h.grammar.mlEnd.FindStringIndex(text[pos:])
			if loc == nil {
				regions = append(regions, [2]int{spanStart, len(text)})
				return regions, InsideComment
			}
			end := pos + loc[1]
			regions = append(regions, [2]int{spanStart, end})
			state = OutsideComment
			pos = end
			if loc[0] == loc[1] {
				pos++ // zero-width delimiter, force progress
			}
		} else {
			loc := h.grammar.mlStart.FindStringIndex(text[pos:])
			if loc == nil {
				return regions, OutsideComment
			}
			spanStart = pos + loc[0]
			state = InsideComment
			pos += loc[1]
			if loc[0] == loc[1] {
				pos++
			}
		}
	}
	return regions, state
}

func (h *Highlighter) paintCategory(p *painter, text string, cat Category, rules []*regexp.Regexp) {
	if len(rules) == 0 {
		return
	}
	if !h.themed(cat) {
		return
	}
	for _, rule := range rules {
		for _, loc := range rule.FindAllStringIndex(text, -1) {
			p.paint(loc[0], loc[1], cat)
		}
	}
}

// paintDefinitions styles only the captured identifier, not the leading
// definition keyword.
func (h *Highlighter) paintDefinitions(p *painter, text string) {
	if len(h.grammar.definitions) == 0 {
		return
	}
	if !h.themed(CategoryDefinition) {
		return
	}
	for _, rule := range h.grammar.definitions {
		for _, m := range rule.FindAllStringSubmatchIndex(text, -1) {
			if len(m) >= 4 && m[2] >= 0 {
				p.paint(m[2], m[3], CategoryDefinition)
			}
		}
	}
}

func (h *Highlighter) paintStrings(p *painter, text string) {
	if !strings.ContainsAny(text, `"'`) {
		return
	}
	if !h.themed(CategoryString) {
		return
	}
	for _, rule := range stringRules {
		for _, loc := range rule.FindAllStringIndex(text, -1) {
			p.paint(loc[0], loc[1], CategoryString)
		}
	}
}

func (h *Highlighter) paintComment(p *painter, text string) {
	marker := h.grammar.comment
	if marker == "" {
		return
	}
	idx := strings.Index(text, marker)
	if idx < 0 {
		return
	}
	if !h.themed(CategoryComment) {
		return
	}
	p.paint(idx, len(text), CategoryComment)
}

func (h *Highlighter) paintRegions(p *painter, regions [][2]int, cat Category) {
	if len(regions) == 0 {
		return
	}
	if !h.themed(cat) {
		return
	}
	for _, r := range regions {
		p.paint(r[0], r[1], cat)
	}
}

// themed reports whether the theme styles the category. A missing category
// is a configuration error: it is reported and the category is skipped for
// the current line without aborting the rest. Throttling repeated reports
// across keystrokes is the subscriber's job, not the core's.
func (h *Highlighter) themed(cat Category) bool {
	if _, ok := h.theme.Style(cat); ok {
		return true
	}
	h.reporter.Report(report.ConfigurationInvalid,
		"theme %q has no style for category %q", h.theme.Name, cat)
	return false
}
