package syntax

import (
	"regexp"

	"github.com/Wraith29/harmony/internal/log"
	"github.com/Wraith29/harmony/internal/report"
)

// MultilineDelims holds the start and end patterns of a language's
// multi-line comment construct. Start and End may be the same pattern
// (Python's triple quote) or distinct (C's /* and */).
type MultilineDelims struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// GrammarFile is the on-disk shape of a .lang file.
//
//	keywords: [if, else, for]
//	operators: ['=', '\+', '-']
//	braces: ['\(', '\)', '\{', '\}']
//	definitions: [def, class]
//	specials: [self, None]
//	comment: '#'
//	multiline:
//	  start: '"""'
//	  end: '"""'
type GrammarFile struct {
	Keywords    []string         `yaml:"keywords"`
	Operators   []string         `yaml:"operators"`
	Braces      []string         `yaml:"braces"`
	Definitions []string         `yaml:"definitions"`
	Specials    []string         `yaml:"specials"`
	Comment     string           `yaml:"comment"`
	Multiline   *MultilineDelims `yaml:"multiline"`
}

// Grammar is a compiled, immutable description of a language's lexical
// categories. All patterns are compiled once at load time; the highlighter
// never compiles anything on the keystroke path.
type Grammar struct {
	language string
	comment  string

	keywords    []*regexp.Regexp
	operators   []*regexp.Regexp
	braces      []*regexp.Regexp
	specials    []*regexp.Regexp
	definitions []*regexp.Regexp // each with the identifier in capture group 1

	mlStart *regexp.Regexp // nil when the language has no multi-line comments
	mlEnd   *regexp.Regexp
}

// Language returns the language id the grammar was loaded for.
func (g *Grammar) Language() string { return g.language }

// HasMultiline reports whether the language defines a multi-line comment
// construct.
func (g *Grammar) HasMultiline() bool { return g.mlStart != nil && g.mlEnd != nil }

// EmptyGrammar returns a grammar with no rules. It is the graceful
// degradation for a missing .lang file: every line highlights to nothing.
func EmptyGrammar(language string) *Grammar {
	return &Grammar{language: language}
}

// CompileGrammar compiles a GrammarFile into a Grammar. A rule that fails to
// compile is skipped and reported as a PatternCompileFailure; the remaining
// rules still load. Keywords and definition keywords are word-boundary
// delimited so that "for" never matches inside "forint".
func CompileGrammar(language string, file GrammarFile, rep report.Reporter) *Grammar {
	g := &Grammar{
		language: language,
		comment:  file.Comment,
	}

	for _, kw := range file.Keywords {
		g.keywords = append(g.keywords, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	for _, kw := range file.Definitions {
		g.definitions = append(g.definitions, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b\s+(\w+)`))
	}

	g.operators = compileRules(language, CategoryOperator, file.Operators, rep)
	g.braces = compileRules(language, CategoryBrace, file.Braces, rep)
	g.specials = compileRules(language, CategorySpecial, file.Specials, rep)

	if file.Multiline != nil {
		start, err := regexp.Compile(file.Multiline.Start)
		if err != nil {
			rep.Report(report.PatternCompileFailure,
				"grammar %q: multiline start pattern %q: %v", language, file.Multiline.Start, err)
		}
		end, err2 := regexp.Compile(file.Multiline.End)
		if err2 != nil {
			rep.Report(report.PatternCompileFailure,
				"grammar %q: multiline end pattern %q: %v", language, file.Multiline.End, err2)
		}
		// Both delimiters must compile for the construct to be usable.
		if err == nil && err2 == nil {
			g.mlStart = start
			g.mlEnd = end
		}
	}

	log.Debug(log.CatSyntax, "compiled grammar",
		"language", language,
		"keywords", len(g.keywords),
		"operators", len(g.operators),
		"braces", len(g.braces),
		"specials", len(g.specials),
		"definitions", len(g.definitions),
		"multiline", g.HasMultiline())

	return g
}

func compileRules(language string, cat Category, patterns []string, rep report.Reporter) []*regexp.Regexp {
	var rules []*regexp.Regexp
	for i, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			rep.Report(report.PatternCompileFailure,
				"grammar %q: %s rule %d (%q): %v", language, cat, i, pattern, err)
			continue
		}
		rules = append(rules, re)
	}
	return rules
}
