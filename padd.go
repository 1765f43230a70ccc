/*
Package padd implements a specification-driven source-code formatter. A
specification written in padd's own small language (an alphabet, a
context-sensitive scanner, a grammar, and formatting patterns) is compiled
into an Engine; the Engine then formats arbitrary source text matching
that specification's grammar.

	eng, err := padd.Build(specSource)
	if err != nil {
		// err is a BuildError: SpecParse or SpecGen
	}
	out, err := eng.Format(sourceText)
	if err != nil {
		// err is a FormatError: Scan or Parse
	}
*/
package padd

import (
	"github.com/dekarrin/padd/internal/automaton"
	"github.com/dekarrin/padd/internal/earley"
	"github.com/dekarrin/padd/internal/format"
	"github.com/dekarrin/padd/internal/grammar"
	"github.com/dekarrin/padd/internal/perrors"
	"github.com/dekarrin/padd/internal/scan"
	"github.com/dekarrin/padd/internal/specfmt"
	"github.com/dekarrin/padd/internal/symbol"
)

// Engine is a compiled, immutable artifact: an ECDFA, a Grammar, and a
// Formatter, built once from a specification and safe to share by reference
// across any number of concurrent Format calls (spec.md §5).
type Engine struct {
	ecdfa     *automaton.ECDFA
	gram      *grammar.Grammar
	formatter *format.Formatter
}

// Build compiles a specification written in padd's specification language
// into an Engine. The only error types returned are those in the BuildError
// taxonomy (spec.md §7): a SpecParse failure (the spec text itself failed to
// scan or parse) or a SpecGen failure (Matcher, Mapping, CDFA, Formatter, or
// Region).
func Build(spec string) (*Engine, error) {
	ecdfa, gram, formatter, err := specfmt.Compile(spec)
	if err != nil {
		return nil, err
	}
	return &Engine{ecdfa: ecdfa, gram: gram, formatter: formatter}, nil
}

// Format scans and parses text against the Engine's compiled grammar, then
// runs the pattern-directed formatter over the resulting parse tree. The
// only error types returned are those in the FormatError taxonomy (spec.md
// §7): Scan or Parse.
func (e *Engine) Format(text string) (string, error) {
	tokens, err := scan.Scan([]rune(text), e.ecdfa)
	if err != nil {
		return "", perrors.Scan(err)
	}

	symName := func(id symbol.ID) string {
		name, _ := e.ecdfa.SymbolName(id)
		return name
	}

	tree, err := earley.Parse(tokens, e.gram, symName)
	if err != nil {
		return "", perrors.Parse(err)
	}

	return e.formatter.Format(tree), nil
}
