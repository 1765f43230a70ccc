// Package earley implements the Earley-style parser described in spec.md
// §4.5: a recognition chart with nullable-aware prediction, an ignorable
// insertion ("ignorable cross") step, and minimum-weight parse-tree
// extraction from the resulting parse chart.
package earley

import (
	"sort"
	"strings"

	"github.com/dekarrin/padd/internal/grammar"
	"github.com/dekarrin/padd/internal/perrors"
	"github.com/dekarrin/padd/internal/symbol"
)

// ignoredSymbol is the synthetic rhs element a shadow inserts in place of an
// ignorable token the parser chose to skip over.
const ignoredSymbol = "\x00ignored\x00"

// item is a single Earley item: a dotted production, possibly with a shadow
// rhs recording ignored-token insertions, and a depth inherited from the
// predict step that produced it (used as a tie-break during extraction).
type item struct {
	rule       int // index into the grammar's flat production list
	shadow     []string
	shadowTop  int
	start      int
	next       int
	depth      int
	ignoreNext bool
}

func (it item) rhs(prods []grammar.Production) []string {
	if it.shadow != nil {
		return it.shadow
	}
	return prods[it.rule].RHS
}

func (it item) isComplete(prods []grammar.Production) bool {
	return it.next >= len(it.rhs(prods))
}

func (it item) nextSymbol(prods []grammar.Production) (string, bool) {
	r := it.rhs(prods)
	if it.next >= len(r) {
		return "", false
	}
	return r[it.next], true
}

type itemKey struct {
	rule       int
	shadow     string
	shadowTop  int
	start      int
	next       int
	ignoreNext bool
}

func keyOf(it item) itemKey {
	return itemKey{it.rule, strings.Join(it.shadow, "\x1f"), it.shadowTop, it.start, it.next, it.ignoreNext}
}

// row is a single state set: the items known at one input position.
type row struct {
	items []item
	seen  map[itemKey]bool
}

func newRow() *row { return &row{seen: map[itemKey]bool{}} }

// add inserts it if not already present, returning whether it was new.
func (r *row) add(it item) bool {
	k := keyOf(it)
	if r.seen[k] {
		return false
	}
	r.seen[k] = true
	r.items = append(r.items, it)
	return true
}

// edge is a parse-chart entry: a recognized span of a production, used only
// for minimum-weight tree extraction, never for recognition itself.
type edge struct {
	rule      int
	shadow    []string
	shadowTop int
	start     int
	finish    int
	weight    int
	depth     int
}

func (e *edge) rhs(prods []grammar.Production) []string {
	if e.shadow != nil {
		return e.shadow
	}
	return prods[e.rule].RHS
}

// Parse recognizes tokens against g and extracts the minimum-weight parse
// tree. symName resolves a scanned token's symbol id back to the terminal
// name used by the grammar (the two must share the same symbol namespace,
// as they do for any engine produced by the spec compiler).
func Parse(tokens []symbol.Token, g *grammar.Grammar, symName func(symbol.ID) string) (*symbol.Tree, error) {
	n := len(tokens)
	if n == 0 {
		return nil, perrors.NoTokens()
	}

	prods := g.Productions()

	symNames := make([]string, n)
	for i, t := range tokens {
		if t.Kind != nil {
			symNames[i] = symName(*t.Kind)
		}
	}

	rows := make([]*row, n+1)
	for i := range rows {
		rows[i] = newRow()
	}
	for idx, p := range prods {
		if p.LHS == g.Start() {
			rows[0].add(item{rule: idx, start: 0, next: 0, depth: 0})
		}
	}

	parseChart := make([][]edge, n+1)

	lastRow := 0
	for c := 0; c <= n; c++ {
		runCycle(c, rows, prods, g, parseChart)
		lastRow = c
		if c == n {
			break
		}
		next := scanStep(symNames[c], g.IsIgnorable(symNames[c]), rows[c], prods)
		rows[c+1] = next
		if len(next.items) == 0 {
			break
		}
	}

	for _, e := range parseChart[0] {
		if e.finish == n && prods[e.rule].LHS == g.Start() {
			return extractTree(parseChart, prods, g, tokens, symNames, n)
		}
	}

	largest := -1
	for _, e := range parseChart[0] {
		if prods[e.rule].LHS == g.Start() && e.finish > largest {
			largest = e.finish
		}
	}
	if largest >= 0 {
		return nil, perrors.Partial(largest, n)
	}

	if lastRow == n {
		return nil, perrors.Exhausted()
	}

	return nil, perrors.AtToken(lastRow, tokens[lastRow].String())
}

// runCycle runs the complete/predict fixed point for row c: repeatedly
// completing finished items against their producing row and predicting the
// productions of any non-terminal sitting next to a dot, until no more items
// can be added. Every item with ignoreNext set is excluded from both steps,
// per spec.md §4.5.
func runCycle(c int, rows []*row, prods []grammar.Production, g *grammar.Grammar, parseChart [][]edge) {
	predicted := map[string]bool{}
	cur := rows[c]

	i := 0
	for i < len(cur.items) {
		it := cur.items[i]
		i++
		if it.ignoreNext {
			continue
		}

		if it.isComplete(prods) {
			lhs := prods[it.rule].LHS
			for _, parent := range rows[it.start].items {
				if parent.ignoreNext || parent.isComplete(prods) {
					continue
				}
				if sym, ok := parent.nextSymbol(prods); ok && sym == lhs {
					advancePastSymbol(parent, c, rows, prods, g)
				}
			}

			w := 0
			if it.shadow != nil {
				w = len(it.shadow) - it.shadowTop + 1
			}
			parseChart[it.start] = append(parseChart[it.start], edge{
				rule: it.rule, shadow: it.shadow, shadowTop: it.shadowTop,
				start: it.start, finish: c, weight: w, depth: it.depth,
			})
			continue
		}

		sym, _ := it.nextSymbol(prods)
		if !g.IsNonTerminal(sym) {
			continue
		}
		if g.IsNullable(sym) {
			nullAdvance := it
			nullAdvance.next = it.next + 1
			cur.add(nullAdvance)
		}
		if !predicted[sym] {
			predicted[sym] = true
			for idx, p := range prods {
				if p.LHS == sym {
					cur.add(item{rule: idx, start: c, next: 0, depth: it.depth + 1})
				}
			}
		}
	}
}

// advancePastSymbol clones parent with its dot advanced by one past the just
// completed symbol, adds it to row c, and keeps advancing through any
// trailing nullable non-terminals so nullable chains collapse eagerly on the
// left of the dot.
func advancePastSymbol(parent item, c int, rows []*row, prods []grammar.Production, g *grammar.Grammar) {
	next := parent
	next.next = parent.next + 1
	if !rows[c].add(next) {
		return
	}
	for {
		sym, ok := next.nextSymbol(prods)
		if !ok || !g.IsNonTerminal(sym) || !g.IsNullable(sym) {
			return
		}
		advanced := next
		advanced.next = next.next + 1
		if !rows[c].add(advanced) {
			return
		}
		next = advanced
	}
}

// scanStep advances the items of the just-stabilized row c across the token
// symbol sym, producing row c+1. If sym is ignorable, items whose next
// symbol matches sym still advance normally; every other item additionally
// produces an ignoreNext shadow copy representing "the parser chose to skip
// this token here" (the ignorable cross).
func scanStep(sym string, ignorable bool, cur *row, prods []grammar.Production) *row {
	next := newRow()

	for _, it := range cur.items {
		matched := false
		if !it.isComplete(prods) {
			if s, ok := it.nextSymbol(prods); ok && s == sym {
				advanced := it
				advanced.next = it.next + 1
				advanced.ignoreNext = false
				next.add(advanced)
				matched = true
			}
		}
		if matched || !ignorable {
			continue
		}

		r := it.rhs(prods)
		shadow := make([]string, 0, len(r)+1)
		shadow = append(shadow, r[:it.next]...)
		shadow = append(shadow, ignoredSymbol)
		shadow = append(shadow, r[it.next:]...)
		next.add(item{
			rule: it.rule, shadow: shadow, shadowTop: it.next,
			start: it.start, next: it.next + 1, depth: it.depth, ignoreNext: true,
		})
	}

	return next
}

// scoredEdge is a parse-chart edge annotated with its minimum-weight
// derivation: the aggregate weight of that derivation plus, for each rhs
// position, either the matched token index or the chosen child edge.
type scoredEdge struct {
	e        edge
	weight   int
	children []childRef
}

type childRef struct {
	ignored  bool
	terminal bool
	tokenIdx int
	sub      *scoredEdge
}

// extractTree scores every parse-chart edge in increasing width (breaking
// ties by decreasing depth), then walks down from the minimum-weight
// start-symbol edge spanning the whole input to materialize the tree.
func extractTree(parseChart [][]edge, prods []grammar.Production, g *grammar.Grammar, tokens []symbol.Token, symNames []string, n int) (*symbol.Tree, error) {
	var all []*edge
	for s := range parseChart {
		for i := range parseChart[s] {
			all = append(all, &parseChart[s][i])
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		wi, wj := all[i].finish-all[i].start, all[j].finish-all[j].start
		if wi != wj {
			return wi < wj
		}
		return all[i].depth > all[j].depth
	})

	byStartLHS := map[int]map[string][]*scoredEdge{}
	addCandidate := func(start int, lhs string, se *scoredEdge) {
		m, ok := byStartLHS[start]
		if !ok {
			m = map[string][]*scoredEdge{}
			byStartLHS[start] = m
		}
		m[lhs] = append(m[lhs], se)
	}

	var root *scoredEdge
	for _, e := range all {
		lhs := prods[e.rule].LHS
		rhs := e.rhs(prods)

		pos := e.start
		weight := e.weight
		var children []childRef
		ok := true

		for _, sym := range rhs {
			if sym == ignoredSymbol {
				children = append(children, childRef{ignored: true})
				pos++
				continue
			}
			if g.IsNonTerminal(sym) {
				var best *scoredEdge
				for _, c := range byStartLHS[pos][sym] {
					if best == nil || c.weight < best.weight {
						best = c
					}
				}
				if best == nil {
					ok = false
					break
				}
				children = append(children, childRef{sub: best})
				weight += best.weight
				pos = best.e.finish
				continue
			}
			if pos >= n || symNames[pos] != sym {
				ok = false
				break
			}
			children = append(children, childRef{terminal: true, tokenIdx: pos})
			pos++
		}

		if !ok || pos != e.finish {
			continue
		}

		se := &scoredEdge{e: *e, weight: weight, children: children}
		addCandidate(e.start, lhs, se)

		if e.start == 0 && e.finish == n && lhs == g.Start() {
			if root == nil || se.weight < root.weight {
				root = se
			}
		}
	}

	if root == nil {
		return nil, perrors.Exhausted()
	}

	return buildTree(root, prods, tokens, symNames), nil
}

func buildTree(se *scoredEdge, prods []grammar.Production, tokens []symbol.Token, symNames []string) *symbol.Tree {
	p := prods[se.e.rule]

	if len(se.children) == 0 {
		return &symbol.Tree{LHS: p.LHS, Children: []*symbol.Tree{{Leaf: true, Token: symbol.Null()}}}
	}

	var kids []*symbol.Tree
	for _, c := range se.children {
		switch {
		case c.ignored:
			continue
		case c.terminal:
			tok := tokens[c.tokenIdx]
			kids = append(kids, &symbol.Tree{LHS: symNames[c.tokenIdx], Leaf: true, Token: tok})
		default:
			kids = append(kids, buildTree(c.sub, prods, tokens, symNames))
		}
	}
	return &symbol.Tree{LHS: p.LHS, RHS: p.RHS, Children: kids}
}
