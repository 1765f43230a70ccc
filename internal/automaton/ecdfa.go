// Package automaton implements the Encoded Context-sensitive DFA (ECDFA): a
// deterministic automaton whose states are dense integer ids, each with a
// character-keyed transition trie and an acceptance-destination mux that
// supports scanning mode switches ("context switches").
package automaton

import (
	"github.com/dekarrin/padd/internal/encode"
	"github.com/dekarrin/padd/internal/symbol"
	"github.com/dekarrin/padd/internal/util"
)

// ConsumerStrategy controls how many input characters a matched transition
// consumes.
type ConsumerStrategy int

const (
	// ConsumeAll consumes every character traversed to reach the matched
	// leaf ('->' in the specification language).
	ConsumeAll ConsumerStrategy = iota
	// ConsumeNone consumes zero characters regardless of how many were
	// traversed ('=>' in the specification language).
	ConsumeNone
)

// TransitionDestination is what a matched trie leaf (or a default) resolves
// to: the destination state, how many characters to consume, and an
// optional inline acceptor destination used by pass-through accepting
// transitions.
type TransitionDestination struct {
	Dest         int
	Consumer     ConsumerStrategy
	AcceptorDest *int
}

// TransitionResult is the outcome of calling ECDFA.Transition.
type TransitionResult struct {
	Ok           bool
	Dest         int
	Consumed     int
	AcceptorDest *int
}

// ECDFA is an immutable, encoded context-sensitive DFA. It is built and
// frozen by a Builder and is safe to share by reference across any number of
// readers for the remaining lifetime of the process.
type ECDFA struct {
	alphabet   util.StringSet
	start      int
	trans      []*transitionTrie // indexed by state id
	acceptMux  []*acceptorMux    // indexed by state id
	tokenizer  []*symbol.ID      // indexed by state id
	accepting  []bool            // indexed by state id
	stateNames *encode.Encoder[string]
	symNames   *encode.Encoder[string]
}

// Start returns the start state id.
func (e *ECDFA) Start() int { return e.start }

// Accepts returns whether state s is an accepting state.
func (e *ECDFA) Accepts(s int) bool {
	return s >= 0 && s < len(e.accepting) && e.accepting[s]
}

// Tokenize returns the token symbol emitted when state s accepts, if any.
func (e *ECDFA) Tokenize(s int) (symbol.ID, bool) {
	if s < 0 || s >= len(e.tokenizer) || e.tokenizer[s] == nil {
		return 0, false
	}
	return *e.tokenizer[s], true
}

// AlphabetContains returns whether c is a declared alphabet character.
func (e *ECDFA) AlphabetContains(c rune) bool {
	return e.alphabet.Has(string(c))
}

// StateName returns the human-readable name of state id s.
func (e *ECDFA) StateName(s int) (string, bool) {
	return e.stateNames.Decode(s)
}

// SymbolName returns the terminal name a token symbol id was interned from.
func (e *ECDFA) SymbolName(id symbol.ID) (string, bool) {
	return e.symNames.Decode(int(id))
}

// AcceptorDestination returns the post-accept reset target for state s when
// transitioned into from fromState, if the mux defines one.
func (e *ECDFA) AcceptorDestination(s, fromState int) (int, bool) {
	if s < 0 || s >= len(e.acceptMux) || e.acceptMux[s] == nil {
		return 0, false
	}
	return e.acceptMux[s].resolve(fromState)
}

// Transition attempts to match input from state s, using the trie-walk
// algorithm: descend one character at a time following existing edges,
// stopping at a leaf (success) or falling back to the state's default
// destination (consuming one character, or none for a consume-none default)
// when an edge is missing. If
// the trie's root has no children at all, the default is used immediately.
func (e *ECDFA) Transition(s int, input []rune) TransitionResult {
	if s < 0 || s >= len(e.trans) || e.trans[s] == nil {
		return TransitionResult{}
	}
	return e.trans[s].walk(input)
}

// transitionTrie is the per-state character-keyed trie described in
// spec.md §3/§4.2: a util.Trie of TransitionDestination, prefix-free on
// leaves, plus an optional default fallback.
type transitionTrie struct {
	trie           *util.Trie[TransitionDestination]
	def            *TransitionDestination
	defaultMatcher rune // only meaningful for conflict diagnostics
	hasDefault     bool
}

func newTransitionTrie() *transitionTrie {
	return &transitionTrie{trie: util.NewTrie[TransitionDestination]()}
}

func (tt *transitionTrie) walk(input []rune) TransitionResult {
	if len(input) == 0 {
		if tt.hasDefault {
			return TransitionResult{} // no input to consume for a default
		}
		return TransitionResult{}
	}

	if !tt.trie.HasChildren() {
		if tt.hasDefault {
			d := *tt.def
			consumed := 1
			if d.Consumer == ConsumeNone {
				consumed = 0
			}
			return TransitionResult{Ok: true, Dest: d.Dest, Consumed: consumed, AcceptorDest: d.AcceptorDest}
		}
		return TransitionResult{}
	}

	if dest, depth, ok := tt.trie.LongestMatch(input); ok {
		consumed := depth
		if dest.Consumer == ConsumeNone {
			consumed = 0
		}
		return TransitionResult{Ok: true, Dest: dest.Dest, Consumed: consumed, AcceptorDest: dest.AcceptorDest}
	}

	if tt.hasDefault {
		d := *tt.def
		consumed := 1
		if d.Consumer == ConsumeNone {
			consumed = 0
		}
		return TransitionResult{Ok: true, Dest: d.Dest, Consumed: consumed, AcceptorDest: d.AcceptorDest}
	}

	return TransitionResult{}
}

// acceptorMux resolves the "accept destination" for an accepting state:
// either a constant destination applied from every source state, or a map
// from specific source states to specific destinations. The two storage
// modes are mutually exclusive, enforced at build time.
type acceptorMux struct {
	fromAll    *int
	perSource  map[int]int
}

func (m *acceptorMux) resolve(fromState int) (int, bool) {
	if m.fromAll != nil {
		return *m.fromAll, true
	}
	d, ok := m.perSource[fromState]
	return d, ok
}
