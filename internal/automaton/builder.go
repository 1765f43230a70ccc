package automaton

import (
	"github.com/dekarrin/padd/internal/encode"
	"github.com/dekarrin/padd/internal/perrors"
	"github.com/dekarrin/padd/internal/symbol"
	"github.com/dekarrin/padd/internal/util"
)

// Transit names a transition's destination state, its consumption strategy,
// and an optional inline acceptor destination (the "pass-through accepting
// state" form of a transition rule, `... -> ^TOK -> next`).
type Transit struct {
	Dest         string
	Consumer     ConsumerStrategy
	AcceptorDest string // empty means none
}

// Builder constructs an ECDFA. Builders are create-configure-freeze: once
// Build succeeds the returned ECDFA is immutable for the rest of the
// process's lifetime.
type Builder struct {
	states     *encode.Encoder[string]
	syms       *encode.Encoder[string]
	alphabet      util.StringSet
	alphabetRunes []rune
	start      string
	startSet   bool
	tries      map[string]*transitionTrie
	accepting  util.StringSet
	mux        map[string]*acceptorMux
	tokenizers map[string]string
	err        error
}

// NewBuilder returns a new, empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		states:     encode.New[string](),
		syms:       encode.New[string](),
		alphabet:   util.NewStringSet(),
		tries:      map[string]*transitionTrie{},
		accepting:  util.NewStringSet(),
		mux:        map[string]*acceptorMux{},
		tokenizers: map[string]string{},
	}
}

// SetAlphabet declares the set of characters the ECDFA may legally traverse.
func (b *Builder) SetAlphabet(alphabet string) {
	for _, c := range alphabet {
		if !b.alphabet.Has(string(c)) {
			b.alphabetRunes = append(b.alphabetRunes, c)
		}
		b.alphabet.Add(string(c))
	}
}

// MarkStart sets the start state. Only the first call has any effect.
func (b *Builder) MarkStart(state string) {
	if b.startSet {
		return
	}
	b.start = state
	b.startSet = true
}

// Accept marks state as accepting.
func (b *Builder) Accept(state string) {
	b.accepting.Add(state)
}

// AcceptTo records that, when state accepts having been transitioned into
// from fromState, the scanner should reset its next start state to to. It is
// an error to also call AcceptToFromAll for the same state, or to register
// two different destinations for the same fromState.
func (b *Builder) AcceptTo(state, fromState, to string) error {
	m := b.muxFor(state)
	if m.fromAll != nil {
		return perrors.CDFABuild("state " + state + " already has a from-all acceptor destination")
	}
	fromID := b.states.Encode(fromState)
	toID := b.states.Encode(to)
	if existing, ok := m.perSource[fromID]; ok && existing != toID {
		return perrors.CDFABuild("state " + state + " already has a conflicting acceptor destination from " + fromState)
	}
	if m.perSource == nil {
		m.perSource = map[int]int{}
	}
	m.perSource[fromID] = toID
	return nil
}

// AcceptToFromAll records a constant acceptor destination for state, applied
// regardless of which state was transitioned from. It is an error to also
// call AcceptTo for the same state.
func (b *Builder) AcceptToFromAll(state, to string) error {
	m := b.muxFor(state)
	if len(m.perSource) > 0 {
		return perrors.CDFABuild("state " + state + " already has per-source acceptor destinations")
	}
	toID := b.states.Encode(to)
	if m.fromAll != nil && *m.fromAll != toID {
		return perrors.CDFABuild("state " + state + " already has a conflicting from-all acceptor destination")
	}
	m.fromAll = &toID
	return nil
}

func (b *Builder) muxFor(state string) *acceptorMux {
	m, ok := b.mux[state]
	if !ok {
		m = &acceptorMux{}
		b.mux[state] = m
	}
	return m
}

func (b *Builder) trieFor(state string) *transitionTrie {
	t, ok := b.tries[state]
	if !ok {
		t = newTransitionTrie()
		b.tries[state] = t
	}
	return t
}

func (b *Builder) resolveTransit(transit Transit) TransitionDestination {
	destID := b.states.Encode(transit.Dest)
	td := TransitionDestination{Dest: destID, Consumer: transit.Consumer}
	if transit.AcceptorDest != "" {
		a := b.states.Encode(transit.AcceptorDest)
		td.AcceptorDest = &a
	}
	return td
}

// MarkTrans inserts a single-character transition key into from's trie.
func (b *Builder) MarkTrans(from string, transit Transit, char rune) error {
	return b.MarkChain(from, transit, []rune{char})
}

// MarkChain inserts a multi-character transition key into from's trie. It is
// an error for chars to be a proper prefix of, or have as a proper prefix,
// an already-inserted key (the "not prefix free" build error).
func (b *Builder) MarkChain(from string, transit Transit, chars []rune) error {
	tt := b.trieFor(from)
	td := b.resolveTransit(transit)
	if err := tt.trie.Insert(chars, td); err != nil {
		return perrors.CDFABuild("trie not prefix free on character '" + string(chars[len(chars)-1]) + "'")
	}
	return nil
}

// MarkRange expands to MarkTrans for each alphabet character between the
// first occurrence of lo and the first occurrence of hi (inclusive) in the
// alphabet's encounter order.
func (b *Builder) MarkRange(from string, transit Transit, lo, hi rune) error {
	inRange := false
	for _, c := range b.alphabetOrder() {
		if c == lo {
			inRange = true
		}
		if inRange {
			if err := b.MarkTrans(from, transit, c); err != nil {
				return err
			}
		}
		if c == hi {
			break
		}
	}
	return nil
}

func (b *Builder) alphabetOrder() []rune {
	// alphabet encounter order is tracked implicitly by re-deriving it from
	// the StringSet's insertion is not possible (map has no order), so
	// alphabet order is instead recorded at SetAlphabet time.
	return b.alphabetRunes
}

// DefaultTo sets from's trie default fallback, used for single-character
// matchers that apply to any character not otherwise claimed. It is an error
// to call this twice for the same state.
func (b *Builder) DefaultTo(from string, transit Transit) error {
	tt := b.trieFor(from)
	if tt.hasDefault {
		return perrors.CDFABuild("default matcher used twice for state " + from)
	}
	td := b.resolveTransit(transit)
	tt.def = &td
	tt.hasDefault = true
	return nil
}

// Tokenize marks state as emitting symbol sym when accepted.
func (b *Builder) Tokenize(state, sym string) {
	b.tokenizers[state] = sym
}

// Build freezes the builder into an immutable ECDFA, or returns an error if
// no start state was marked, or the start state has no transitions or
// acceptance registered.
func (b *Builder) Build() (*ECDFA, error) {
	if !b.startSet {
		return nil, perrors.CDFABuild("no start state marked")
	}
	startID := b.states.Encode(b.start)

	n := b.states.Len()
	e := &ECDFA{
		alphabet:   b.alphabet,
		start:      startID,
		trans:      make([]*transitionTrie, n),
		acceptMux:  make([]*acceptorMux, n),
		tokenizer:  make([]*symbol.ID, n),
		accepting:  make([]bool, n),
		stateNames: b.states,
		symNames:   b.syms,
	}

	for name, tt := range b.tries {
		e.trans[b.states.Encode(name)] = tt
	}
	for name := range b.accepting {
		e.accepting[b.states.Encode(name)] = true
	}
	for name, m := range b.mux {
		e.acceptMux[b.states.Encode(name)] = m
	}
	for name, symName := range b.tokenizers {
		id := symbol.ID(b.syms.Encode(symName))
		e.tokenizer[b.states.Encode(name)] = &id
	}

	if startID >= n || (e.trans[startID] == nil && !e.accepting[startID]) {
		return nil, perrors.CDFABuild("invalid start state: " + b.start)
	}

	return e, nil
}

// SymbolEncoder exposes the Builder's symbol Encoder so callers (the spec
// compiler and grammar builder) can agree on the same dense ids for
// terminal names.
func (b *Builder) SymbolEncoder() *encode.Encoder[string] {
	return b.syms
}

// StateEncoder exposes the Builder's state Encoder.
func (b *Builder) StateEncoder() *encode.Encoder[string] {
	return b.states
}
