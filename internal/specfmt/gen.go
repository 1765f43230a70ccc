package specfmt

import (
	"fmt"
	"strings"

	"github.com/dekarrin/padd/internal/automaton"
	"github.com/dekarrin/padd/internal/format"
	"github.com/dekarrin/padd/internal/grammar"
	"github.com/dekarrin/padd/internal/pattern"
	"github.com/dekarrin/padd/internal/perrors"
	"github.com/dekarrin/padd/internal/symbol"
	"github.com/dekarrin/padd/internal/util"
)

// generator accumulates the target engine's ECDFA builder, grammar builder,
// and pattern map while walking a parsed spec tree, plus the bookkeeping
// orphan_check needs at the end.
type generator struct {
	ecdfa       *automaton.Builder
	gram        *grammar.Builder
	patterns    map[string][]pattern.Segment
	tokenized   util.StringSet
	startMarked bool
	synthCount  int
}

// Generate walks specTree (the output of Parse) and produces the compiled
// ECDFA, Grammar, and Formatter for the engine the spec describes. Mirrors
// the original implementation's generate_spec: traverse every region,
// build both builders, then cross-check for orphaned terminals.
func Generate(specTree *symbol.Tree) (*automaton.ECDFA, *grammar.Grammar, *format.Formatter, error) {
	g := &generator{
		ecdfa:     automaton.NewBuilder(),
		gram:      grammar.NewBuilder(),
		patterns:  map[string][]pattern.Segment{},
		tokenized: util.NewStringSet(),
	}

	err := traverseRegions(specTree, func(inner *symbol.Tree, kind regionKind) error {
		switch kind {
		case regionAlphabet:
			return g.traverseAlphabetRegion(inner)
		case regionCDFA:
			return g.traverseCDFARegion(inner)
		case regionGrammar:
			return g.traverseGrammarRegion(inner)
		case regionIgnorable:
			return g.traverseIgnorableRegion(inner)
		case regionInjectable:
			return g.traverseInjectableRegion(inner)
		}
		return nil
	})
	if err != nil {
		return nil, nil, nil, perrors.SpecGen(err)
	}

	ecdfa, err := g.ecdfa.Build()
	if err != nil {
		return nil, nil, nil, perrors.SpecGen(err)
	}
	gram, err := g.gram.Build()
	if err != nil {
		return nil, nil, nil, perrors.SpecGen(err)
	}

	if err := g.orphanCheck(gram); err != nil {
		return nil, nil, nil, perrors.SpecGen(err)
	}

	return ecdfa, gram, format.New(g.patterns), nil
}

// orphanCheck mirrors orphan_check: every terminal the grammar references
// must be some ECDFA state's tokenizer output.
func (g *generator) orphanCheck(gram *grammar.Grammar) error {
	for _, term := range gram.Terminals() {
		if !g.tokenized.Has(term) {
			return perrors.Mapping(fmt.Sprintf("Orphaned terminal '%s' is not tokenized by the ECDFA", term))
		}
	}
	return nil
}

func (g *generator) tokenize(state, sym string) {
	g.ecdfa.Tokenize(state, sym)
	g.tokenized.Add(sym)
}

// --- alphabet region: alphabet '...' ---

func (g *generator) traverseAlphabetRegion(inner *symbol.Tree) error {
	cil := inner.Children[1].Token.Lexeme
	g.ecdfa.SetAlphabet(unescapeCIL(cil))
	return nil
}

// --- ignorable region: ignore ID ---

func (g *generator) traverseIgnorableRegion(inner *symbol.Tree) error {
	term := inner.Children[1].Token.Lexeme
	g.gram.MarkIgnorable(term)
	return nil
}

// --- injectable region: inject left|right ID [`pattern`] ---

func (g *generator) traverseInjectableRegion(inner *symbol.Tree) error {
	affLexeme := inner.Children[1].Token.Lexeme
	var aff grammar.Affinity
	switch affLexeme {
	case "left":
		aff = grammar.Left
	case "right":
		aff = grammar.Right
	default:
		return perrors.Mapping(fmt.Sprintf("unexpected injection affinity '%s'", affLexeme))
	}

	term := inner.Children[2].Token.Lexeme

	var patt *string
	if text, ok := pattOptText(inner.Children[3]); ok {
		unescaped := unescapeCIL(stripBackticks(text))
		patt = &unescaped
	}

	g.gram.AddInjectable(grammar.Injectable{Terminal: term, Affinity: aff, Pattern: patt})
	return nil
}

// --- cdfa region: cdfa { states } ---

func (g *generator) traverseCDFARegion(inner *symbol.Tree) error {
	states := collectLeftRecursive(inner.Children[2], nStates)
	for _, st := range states {
		if err := g.processState(st); err != nil {
			return err
		}
	}
	return nil
}

// processState handles a single "state -> sdec trans_opt SEMI" node: the
// set of state names this line declares (its targets), the optional
// acceptor clause, and the transitions leading out of every declared name.
func (g *generator) processState(stateNode *symbol.Tree) error {
	sdec := stateNode.Children[0]
	transOpt := stateNode.Children[1]

	targetsNode := sdec.Children[0]
	names := collectTargets(targetsNode)

	if !g.startMarked && len(names) > 0 {
		g.ecdfa.MarkStart(names[0])
		g.startMarked = true
	}

	if len(sdec.RHS) == 2 {
		if err := g.applyAcceptor(names, sdec.Children[1]); err != nil {
			return err
		}
	}

	if len(transOpt.RHS) == 0 {
		return nil
	}
	transNode := transOpt.Children[0]
	trans := collectLeftRecursive(transNode, nTrans)
	for _, tran := range trans {
		if err := g.processTran(names, tran); err != nil {
			return err
		}
	}
	return nil
}

// collectTargets walks "targets -> ID | targets OR ID", returning the
// declared state names in left-to-right order.
func collectTargets(t *symbol.Tree) []string {
	if len(t.RHS) == 1 {
		return []string{t.Children[0].Token.Lexeme}
	}
	return append(collectTargets(t.Children[0]), t.Children[2].Token.Lexeme)
}

// collectLeftRecursive walks any "X -> X item | item" shaped node (states,
// trans, prods, rhss), returning the item nodes in left-to-right order.
// lhs identifies the left-recursive non-terminal so the two-child case can
// be distinguished from a single wrapped item.
func collectLeftRecursive(t *symbol.Tree, lhs string) []*symbol.Tree {
	if t.LHS == lhs && len(t.Children) == 2 && t.Children[0].LHS == lhs {
		return append(collectLeftRecursive(t.Children[0], lhs), t.Children[1])
	}
	return []*symbol.Tree{t.Children[0]}
}

func (g *generator) processTran(targets []string, tran *symbol.Tree) error {
	// tran -> mtcs consumer trand | DEF consumer trand
	isDef := tran.Children[0].Leaf && tran.Children[0].LHS == tDEF
	consumer := consumerOf(tran.Children[1])

	dest, err := g.resolveTrand(tran.Children[2])
	if err != nil {
		return err
	}

	for _, from := range targets {
		if isDef {
			if err := g.ecdfa.DefaultTo(from, automaton.Transit{Dest: dest, Consumer: consumer}); err != nil {
				return err
			}
			continue
		}
		mtcs := collectMtcs(tran.Children[0])
		for _, m := range mtcs {
			if err := g.applyMtc(from, dest, consumer, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func consumerOf(t *symbol.Tree) automaton.ConsumerStrategy {
	if t.Children[0].LHS == tDARROW {
		return automaton.ConsumeNone
	}
	return automaton.ConsumeAll
}

// collectMtcs walks "mtcs -> mtcs OR mtc | mtc".
func collectMtcs(t *symbol.Tree) []*symbol.Tree {
	if len(t.RHS) == 3 {
		return append(collectMtcs(t.Children[0]), t.Children[2])
	}
	return []*symbol.Tree{t.Children[0]}
}

// applyMtc handles a single "mtc -> CILC | CILC RANGE CILC" node.
func (g *generator) applyMtc(from, dest string, consumer automaton.ConsumerStrategy, mtc *symbol.Tree) error {
	transit := automaton.Transit{Dest: dest, Consumer: consumer}
	lo := []rune(unescapeCIL(stripQuotes(mtc.Children[0].Token.Lexeme)))
	if len(mtc.RHS) == 1 {
		return g.ecdfa.MarkChain(from, transit, lo)
	}
	hi := []rune(unescapeCIL(stripQuotes(mtc.Children[2].Token.Lexeme)))
	if len(lo) != 1 || len(hi) != 1 {
		return perrors.Matcher("range matcher endpoints must be exactly one character")
	}
	return g.ecdfa.MarkRange(from, transit, lo[0], hi[0])
}

// resolveTrand handles "trand -> ID | acceptor": a transition's destination
// is either an existing state name, or an inline "-> ^TOK -> next" style
// pass-through acceptor, modeled here as a freshly synthesized state that
// the acceptor clause configures.
func (g *generator) resolveTrand(trand *symbol.Tree) (string, error) {
	if trand.Children[0].Leaf {
		return trand.Children[0].Token.Lexeme, nil
	}
	g.synthCount++
	name := fmt.Sprintf("__synth#%d", g.synthCount)
	if err := g.applyAcceptor([]string{name}, trand.Children[0]); err != nil {
		return "", err
	}
	return name, nil
}

// applyAcceptor handles "acceptor -> HAT id_or_def accd_opt": marks every
// name in targets as accepting, optionally tokenizing (id_or_def is DEF for
// an accepting-but-silent state, like whitespace), with an optional
// AcceptToFromAll override naming where scanning resumes after acceptance.
func (g *generator) applyAcceptor(targets []string, acceptor *symbol.Tree) error {
	idOrDef := acceptor.Children[1]
	accdOpt := acceptor.Children[2]

	isDef := idOrDef.Children[0].LHS == tDEF
	var tokName string
	if !isDef {
		tokName = idOrDef.Children[0].Token.Lexeme
	}

	for _, t := range targets {
		g.ecdfa.Accept(t)
		if !isDef {
			g.tokenize(t, tokName)
		}
	}

	if len(accdOpt.RHS) == 0 {
		return nil
	}
	dest := accdOpt.Children[1].Token.Lexeme
	for _, t := range targets {
		if err := g.ecdfa.AcceptToFromAll(t, dest); err != nil {
			return err
		}
	}
	return nil
}

// --- grammar region: grammar { prods } ---

func (g *generator) traverseGrammarRegion(inner *symbol.Tree) error {
	prods := collectLeftRecursive(inner.Children[2], nProds)
	for _, prodNode := range prods {
		if err := g.processProd(prodNode); err != nil {
			return err
		}
	}
	return nil
}

// processProd handles "prod -> ID patt_opt rhss SEMI".
func (g *generator) processProd(prodNode *symbol.Tree) error {
	lhs := prodNode.Children[0].Token.Lexeme
	g.gram.TryMarkStart(lhs)

	defPattNode := prodNode.Children[1]
	rhss := collectLeftRecursive(prodNode.Children[2], nRHSs)

	for _, rhsNode := range rhss {
		if err := g.processRHS(lhs, rhsNode, defPattNode); err != nil {
			return err
		}
	}
	return nil
}

// processRHS handles "rhs -> OR ids patt_opt", inheriting the production's
// default pattern when the alternative has none of its own.
func (g *generator) processRHS(lhs string, rhsNode, defPattNode *symbol.Tree) error {
	symbols, err := g.collectIDs(rhsNode.Children[1])
	if err != nil {
		return err
	}

	g.gram.AddProduction(grammar.Production{LHS: lhs, RHS: symbols})

	pattNode := rhsNode.Children[2]
	if len(pattNode.RHS) == 0 {
		pattNode = defPattNode
	}
	text, ok := pattOptText(pattNode)
	if !ok {
		return nil
	}

	segs, err := pattern.Compile(unescapeCIL(stripBackticks(text)), len(symbols))
	if err != nil {
		return err
	}
	g.patterns[format.RuleKey(lhs, symbols)] = segs
	return nil
}

// collectIDs walks "ids -> ids ID | ids COPTID | ε", expanding each COPTID
// bracket reference `[Name]` into the grammar's `opt#Name -> Name | ε`
// optional-shorthand productions (spec.md §4.8) and substituting `opt#Name`
// in the symbol's place.
func (g *generator) collectIDs(t *symbol.Tree) ([]string, error) {
	if len(t.RHS) == 0 {
		return nil, nil
	}
	prefix, err := g.collectIDs(t.Children[0])
	if err != nil {
		return nil, err
	}
	last := t.Children[1]
	if last.LHS == tCOPTID {
		dest := strings.TrimSuffix(strings.TrimPrefix(last.Token.Lexeme, "["), "]")
		optName := "opt#" + dest
		g.gram.AddOptionalState(optName, dest)
		return append(prefix, optName), nil
	}
	return append(prefix, last.Token.Lexeme), nil
}

// pattOptText extracts the PATTC lexeme from a "patt_opt -> PATTC | ε" node.
func pattOptText(t *symbol.Tree) (string, bool) {
	if len(t.RHS) == 0 {
		return "", false
	}
	return t.Children[0].Token.Lexeme, true
}

func stripQuotes(s string) string  { return strings.Trim(s, "'") }
func stripBackticks(s string) string { return strings.Trim(s, "`") }

// unescapeCIL replaces the spec language's backslash escapes (\n \t \' \\)
// with their literal characters, the same four escapes the pattern
// sub-language supports.
func unescapeCIL(s string) string {
	var sb strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) {
			i++
			switch runes[i] {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '\'':
				sb.WriteRune('\'')
			case '\\':
				sb.WriteRune('\\')
			default:
				sb.WriteRune(runes[i])
			}
			continue
		}
		sb.WriteRune(runes[i])
	}
	return sb.String()
}
