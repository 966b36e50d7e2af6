package syntax

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/patrickmn/go-cache"
	"gopkg.in/yaml.v3"

	"github.com/Wraith29/harmony/internal/log"
	"github.com/Wraith29/harmony/internal/report"
)

// ErrGrammarNotFound is returned when no .lang file exists for a language id.
var ErrGrammarNotFound = errors.New("grammar not found")

// GrammarLoader loads and caches compiled grammars from a directory of
// .lang files. One grammar is loaded per distinct language id; subsequent
// loads for the same id share the compiled grammar by reference, which is
// safe because grammars are immutable.
type GrammarLoader struct {
	dir      string
	reporter report.Reporter
	grammars *cache.Cache
}

// NewGrammarLoader creates a loader reading from dir.
func NewGrammarLoader(dir string, rep report.Reporter) *GrammarLoader {
	return &GrammarLoader{
		dir:      dir,
		reporter: rep,
		grammars: cache.New(cache.NoExpiration, 0),
	}
}

// Load returns the grammar for the language id, loading and compiling it on
// first use. A missing file returns ErrGrammarNotFound; the caller should
// degrade to EmptyGrammar rather than fail the document open.
func (l *GrammarLoader) Load(language string) (*Grammar, error) {
	if cached, ok := l.grammars.Get(language); ok {
		return cached.(*Grammar), nil
	}

	path := filepath.Join(l.dir, language+".lang")
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is built from the configured grammar dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrGrammarNotFound, path)
		}
		return nil, fmt.Errorf("reading grammar %s: %w", path, err)
	}

	var file GrammarFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing grammar %s: %w", path, err)
	}

	g := CompileGrammar(language, file, l.reporter)
	l.grammars.Set(language, g, cache.NoExpiration)
	log.Info(log.CatSyntax, "loaded grammar", "language", language, "path", path)
	return g, nil
}

// Invalidate drops a cached grammar so the next Load re-reads the file.
// Used by the live-reload watcher.
func (l *GrammarLoader) Invalidate(language string) {
	l.grammars.Delete(language)
}

// Available lists the language ids with a .lang file present.
func (l *GrammarLoader) Available() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("reading grammar directory %s: %w", l.dir, err)
	}

	var languages []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name := e.Name(); filepath.Ext(name) == ".lang" {
			languages = append(languages, name[:len(name)-len(".lang")])
		}
	}
	return languages, nil
}
