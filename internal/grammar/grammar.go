// Package grammar implements the context-free grammar: productions, the
// nullable set, terminal/non-terminal partitioning, the ignorable set,
// injectables, and optional-shorthand expansion.
package grammar

import "github.com/dekarrin/padd/internal/util"

// Affinity is the side an injectable terminal attaches to.
type Affinity int

const (
	Left Affinity = iota
	Right
)

// Injectable is a terminal to be inserted into formatted output with a given
// affinity and optional surrounding pattern text.
type Injectable struct {
	Terminal string
	Affinity Affinity
	Pattern  *string
}

// Production is a single grammar rule lhs -> rhs[0] rhs[1] ... rhs[n-1]. An
// empty RHS represents lhs -> epsilon.
type Production struct {
	LHS string
	RHS []string
}

// Grammar is an immutable context-free grammar.
type Grammar struct {
	productions  []Production
	byLHS        map[string][]int
	nullable     util.StringSet
	nonTerminals util.StringSet
	terminals    util.StringSet
	ignorable    util.StringSet
	injectables  []Injectable
	start        string
}

// Productions returns every production in the grammar, in declaration order.
func (g *Grammar) Productions() []Production { return g.productions }

// ProductionsForLHS returns every production whose left-hand side is sym, in
// declaration order.
func (g *Grammar) ProductionsForLHS(sym string) []Production {
	idxs := g.byLHS[sym]
	out := make([]Production, len(idxs))
	for i, idx := range idxs {
		out[i] = g.productions[idx]
	}
	return out
}

// IsNullable returns whether sym can derive the empty string.
func (g *Grammar) IsNullable(sym string) bool { return g.nullable.Has(sym) }

// IsNonTerminal returns whether sym appears as the left-hand side of some
// production.
func (g *Grammar) IsNonTerminal(sym string) bool { return g.nonTerminals.Has(sym) }

// IsIgnorable returns whether sym is a terminal the parser skips anywhere
// without affecting structure.
func (g *Grammar) IsIgnorable(sym string) bool { return g.ignorable.Has(sym) }

// Terminals returns every terminal symbol appearing on some rhs.
func (g *Grammar) Terminals() []string { return g.terminals.Elements() }

// Start returns the grammar's start symbol.
func (g *Grammar) Start() string { return g.start }

// Injectables returns the grammar's injectable terminals.
func (g *Grammar) Injectables() []Injectable { return g.injectables }
