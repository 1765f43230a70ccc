package specfmt

import (
	"sync"

	"github.com/dekarrin/padd/internal/automaton"
	"github.com/dekarrin/padd/internal/earley"
	"github.com/dekarrin/padd/internal/format"
	"github.com/dekarrin/padd/internal/grammar"
	"github.com/dekarrin/padd/internal/perrors"
	"github.com/dekarrin/padd/internal/scan"
	"github.com/dekarrin/padd/internal/symbol"
)

// specLang bundles the hard-coded ECDFA and grammar for the specification
// language itself, built once and shared by every Parse call (spec.md §5:
// a lazily-initialized process-wide singleton).
type specLang struct {
	ecdfa *automaton.ECDFA
	gram  *grammar.Grammar
}

var (
	specOnce sync.Once
	spec     *specLang
	specErr  error
)

func getSpecLang() (*specLang, error) {
	specOnce.Do(func() {
		ecdfa, err := buildSpecECDFA()
		if err != nil {
			specErr = err
			return
		}
		gram, err := buildSpecGrammar()
		if err != nil {
			specErr = err
			return
		}
		spec = &specLang{ecdfa: ecdfa, gram: gram}
	})
	return spec, specErr
}

// Parse scans and parses a specification document's source text against the
// hard-coded spec language, returning its parse tree.
func Parse(src string) (*symbol.Tree, error) {
	sl, err := getSpecLang()
	if err != nil {
		return nil, err
	}

	tokens, err := scan.Scan([]rune(src), sl.ecdfa)
	if err != nil {
		return nil, perrors.SpecParse(err)
	}

	symName := func(id symbol.ID) string {
		name, _ := sl.ecdfa.SymbolName(id)
		return name
	}

	tree, err := earley.Parse(tokens, sl.gram, symName)
	if err != nil {
		return nil, perrors.SpecParse(err)
	}
	return tree, nil
}

// Compile parses src and generates the engine components it describes, the
// full spec.md §4.8 pipeline: Parse followed by Generate.
func Compile(src string) (*automaton.ECDFA, *grammar.Grammar, *format.Formatter, error) {
	tree, err := Parse(src)
	if err != nil {
		return nil, nil, nil, err
	}
	return Generate(tree)
}
