package highlight

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	tree_sitter_markdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"
)

var ErrUnknownLanguage = errors.New("unknown language")

// Language is a grammar plus its compiled highlight query. Query is nil when
// the language has no highlight rules; the tree is still built for syntax
// navigation.
type Language struct {
	Name    string
	Grammar *sitter.Language
	Query   *sitter.Query
}

// Loader returns a grammar and the source of its highlight query.
type Loader func() (*sitter.Language, string)

type entry struct {
	once sync.Once
	load Loader
	lang *Language
	err  error
}

// Registry maps language names to lazily compiled grammars. It is safe for
// concurrent use; each language is compiled at most once.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	r.Register("go", func() (*sitter.Language, string) { return golang.GetLanguage(), goHighlightQuery })
	r.Register("bash", func() (*sitter.Language, string) { return bash.GetLanguage(), bashHighlightQuery })
	r.Register("toml", func() (*sitter.Language, string) { return toml.GetLanguage(), tomlHighlightQuery })
	r.Register("yaml", func() (*sitter.Language, string) { return yaml.GetLanguage(), yamlHighlightQuery })
	r.Register("markdown", func() (*sitter.Language, string) {
		return tree_sitter_markdown.GetLanguage(), markdownHighlightQuery
	})
	return r
})

// Default returns the process-wide registry holding the built-in grammars.
func Default() *Registry { return defaultRegistry() }

// Register adds or replaces a language. A replaced language is compiled
// again on its next lookup.
func (r *Registry) Register(name string, load Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = &entry{load: load}
}

func (r *Registry) Lookup(name string) (*Language, error) {
	r.mu.Lock()
	e, ok := r.entries[name]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("highlight: %q: %w", name, ErrUnknownLanguage)
	}
	e.once.Do(func() {
		grammar, src := e.load()
		if grammar == nil {
			e.err = fmt.Errorf("highlight: %q has no grammar: %w", name, ErrUnknownLanguage)
			return
		}
		lang := &Language{Name: name, Grammar: grammar}
		if src != "" {
			q, err := sitter.NewQuery([]byte(src), grammar)
			if err != nil {
				e.err = fmt.Errorf("highlight: compile %s query: %w", name, err)
				return
			}
			lang.Query = q
		}
		e.lang = lang
	})
	return e.lang, e.err
}

// Names lists the registered languages in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
