package syntax

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Wraith29/harmony/internal/report"
)

func TestCompileGrammar_BadPatternSkipsOnlyThatRule(t *testing.T) {
	var rec report.Recorder
	g := CompileGrammar("c", GrammarFile{
		Operators: []string{`==`, `(`, `\+`},
	}, &rec)

	require.Equal(t, 1, rec.Count(report.PatternCompileFailure))
	require.Len(t, g.operators, 2)
}

func TestCompileGrammar_BadMultilineDisablesConstruct(t *testing.T) {
	var rec report.Recorder
	g := CompileGrammar("c", GrammarFile{
		Multiline: &MultilineDelims{Start: `[`, End: `\*/`},
	}, &rec)

	require.Equal(t, 1, rec.Count(report.PatternCompileFailure))
	require.False(t, g.HasMultiline())
}

func writeGrammarDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

const pyLang = `
keywords: [if, else, for, while, pass, import]
operators: ['=', '\+', '-']
braces: ['\(', '\)', '\[', '\]']
definitions: [def, class]
specials: [self, None, True, False]
comment: '#'
multiline:
  start: "'''"
  end: "'''"
`

func TestGrammarLoader_LoadAndCache(t *testing.T) {
	dir := writeGrammarDir(t, map[string]string{"py.lang": pyLang})
	loader := NewGrammarLoader(dir, report.Discard{})

	first, err := loader.Load("py")
	require.NoError(t, err)
	require.Equal(t, "py", first.Language())
	require.True(t, first.HasMultiline())

	second, err := loader.Load("py")
	require.NoError(t, err)
	require.Same(t, first, second, "cached grammar should be shared by reference")
}

func TestGrammarLoader_NotFound(t *testing.T) {
	loader := NewGrammarLoader(t.TempDir(), report.Discard{})

	_, err := loader.Load("zig")
	require.ErrorIs(t, err, ErrGrammarNotFound)
}

func TestGrammarLoader_InvalidateForcesReload(t *testing.T) {
	dir := writeGrammarDir(t, map[string]string{"py.lang": pyLang})
	loader := NewGrammarLoader(dir, report.Discard{})

	first, err := loader.Load("py")
	require.NoError(t, err)

	loader.Invalidate("py")
	second, err := loader.Load("py")
	require.NoError(t, err)
	require.NotSame(t, first, second)
}

func TestGrammarLoader_Available(t *testing.T) {
	dir := writeGrammarDir(t, map[string]string{
		"py.lang":  pyLang,
		"c.lang":   "keywords: [if]\n",
		"README":   "not a grammar",
		"py.theme": "font: mono\n",
	})
	loader := NewGrammarLoader(dir, report.Discard{})

	langs, err := loader.Available()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"py", "c"}, langs)
}

func TestGrammarLoader_MalformedYAML(t *testing.T) {
	dir := writeGrammarDir(t, map[string]string{"bad.lang": "keywords: [unclosed\n"})
	loader := NewGrammarLoader(dir, report.Discard{})

	_, err := loader.Load("bad")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrGrammarNotFound)
}
