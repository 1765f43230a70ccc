package grammar

import (
	"github.com/dekarrin/padd/internal/perrors"
	"github.com/dekarrin/padd/internal/util"
)

// Builder constructs a Grammar. Builders are create-configure-freeze: once
// Build succeeds the returned Grammar is immutable.
type Builder struct {
	productions  []Production
	start        string
	startSet     bool
	ignorable    util.StringSet
	injectables  []Injectable
	optionalSeen util.StringSet
}

// NewBuilder returns a new, empty Builder.
func NewBuilder() *Builder {
	return &Builder{ignorable: util.NewStringSet(), optionalSeen: util.NewStringSet()}
}

// AddProduction appends a single production.
func (b *Builder) AddProduction(p Production) {
	b.productions = append(b.productions, p)
}

// AddProductions appends every production in ps.
func (b *Builder) AddProductions(ps []Production) {
	b.productions = append(b.productions, ps...)
}

// TryMarkStart sets the start symbol. Only the first call has any effect.
func (b *Builder) TryMarkStart(sym string) {
	if b.startSet {
		return
	}
	b.start = sym
	b.startSet = true
}

// MarkIgnorable marks terminal as ignorable.
func (b *Builder) MarkIgnorable(terminal string) {
	b.ignorable.Add(terminal)
}

// AddInjectable registers an injectable terminal.
func (b *Builder) AddInjectable(i Injectable) {
	b.injectables = append(b.injectables, i)
}

// AddOptionalState expands a single-reference optional `[dest]` into two
// productions: `optName -> dest` and `optName -> epsilon`. Idempotent on
// optName: calling this more than once for the same optName has no further
// effect.
func (b *Builder) AddOptionalState(optName, dest string) {
	if b.optionalSeen.Has(optName) {
		return
	}
	b.optionalSeen.Add(optName)
	b.AddProduction(Production{LHS: optName, RHS: []string{dest}})
	b.AddProduction(Production{LHS: optName, RHS: nil})
}

// Build freezes the builder into an immutable Grammar. It panics if no start
// symbol was marked or the start symbol has no productions (a programmer
// error in the caller, not a data error), and returns an error if an
// ignorable terminal is also used as a non-terminal.
func (b *Builder) Build() (*Grammar, error) {
	if !b.startSet {
		panic("grammar: no start symbol marked")
	}

	nonTerminals := util.NewStringSet()
	byLHS := map[string][]int{}
	for i, p := range b.productions {
		nonTerminals.Add(p.LHS)
		byLHS[p.LHS] = append(byLHS[p.LHS], i)
	}
	if len(byLHS[b.start]) == 0 {
		panic("grammar: start symbol " + b.start + " has no productions")
	}

	terminals := util.NewStringSet()
	for _, p := range b.productions {
		for _, s := range p.RHS {
			if !nonTerminals.Has(s) {
				terminals.Add(s)
			}
		}
	}

	for sym := range b.ignorable {
		if nonTerminals.Has(sym) {
			return nil, perrors.NonTerminalIgnored(sym)
		}
	}

	nullable := computeNullable(b.productions, nonTerminals)

	return &Grammar{
		productions:  b.productions,
		byLHS:        byLHS,
		nullable:     nullable,
		nonTerminals: nonTerminals,
		terminals:    terminals,
		ignorable:    b.ignorable,
		injectables:  b.injectables,
		start:        b.start,
	}, nil
}

// computeNullable builds the reverse index sym -> productions containing sym
// in their rhs, seeds the work list with every empty-rhs production's lhs,
// and propagates nullability to any lhs whose rhs is now entirely nullable.
func computeNullable(productions []Production, nonTerminals util.StringSet) util.StringSet {
	nullable := util.NewStringSet()

	reverse := map[string][]int{}
	for i, p := range productions {
		seen := util.NewStringSet()
		for _, s := range p.RHS {
			if seen.Has(s) {
				continue
			}
			seen.Add(s)
			reverse[s] = append(reverse[s], i)
		}
	}

	var worklist []string
	for _, p := range productions {
		if len(p.RHS) == 0 && !nullable.Has(p.LHS) {
			nullable.Add(p.LHS)
			worklist = append(worklist, p.LHS)
		}
	}

	isRHSNullable := func(p Production) bool {
		for _, s := range p.RHS {
			if !nullable.Has(s) {
				return false
			}
		}
		return true
	}

	for len(worklist) > 0 {
		sym := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		for _, idx := range reverse[sym] {
			p := productions[idx]
			if nullable.Has(p.LHS) {
				continue
			}
			if isRHSNullable(p) {
				nullable.Add(p.LHS)
				worklist = append(worklist, p.LHS)
			}
		}
	}

	return nullable
}
