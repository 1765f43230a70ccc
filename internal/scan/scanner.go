// Package scan implements the context-sensitive maximal-munch scanner: it
// drives an ECDFA over a rune slice and emits a token stream.
package scan

import (
	"github.com/dekarrin/padd/internal/automaton"
	"github.com/dekarrin/padd/internal/perrors"
	"github.com/dekarrin/padd/internal/symbol"
)

type lastAccept struct {
	consumed     int
	state        int
	acceptorDest int
	hasDest      bool
}

// Scan drives cdfa over input, producing tokens in input order. States with
// no tokenizer are dropped (emit nothing); 1-indexed line/column are tracked
// for error reporting.
func Scan(input []rune, cdfa *automaton.ECDFA) ([]symbol.Token, error) {
	var tokens []symbol.Token

	nextStart := cdfa.Start()
	pos := 0
	line, col := 1, 1

	for pos < len(input) {
		la, consumed, err := scanOne(input[pos:], cdfa, nextStart)
		if err != nil {
			return nil, err
		}
		if la == nil {
			preview := input[pos:]
			if len(preview) > 10 {
				preview = preview[:10]
			}
			return nil, perrors.Unaccepted(string(preview), line, col)
		}

		lexeme := string(input[pos : pos+consumed])

		if sym, ok := cdfa.Tokenize(la.state); ok {
			tokens = append(tokens, symbol.NewToken(sym, lexeme, line, col))
		}

		for _, r := range lexeme {
			if r == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		pos += consumed

		if la.hasDest {
			nextStart = la.acceptorDest
		}
	}

	return tokens, nil
}

// scanOne walks the ECDFA from start over remaining, tracking the last
// accepting prefix seen, and returns it along with how many characters it
// consumed.
func scanOne(remaining []rune, cdfa *automaton.ECDFA, start int) (*lastAccept, int, error) {
	state := start
	consumed := 0
	var best *lastAccept

	if cdfa.Accepts(state) {
		if dest, ok := cdfa.AcceptorDestination(state, state); ok && dest != state {
			best = &lastAccept{consumed: 0, state: state, acceptorDest: dest, hasDest: true}
		}
	}

	for {
		res := cdfa.Transition(state, remaining[consumed:])
		if !res.Ok {
			break
		}

		for _, r := range remaining[consumed : consumed+res.Consumed] {
			if !cdfa.AlphabetContains(r) {
				return nil, 0, perrors.Alphabet(r)
			}
		}

		state = res.Dest
		consumed += res.Consumed

		if cdfa.Accepts(state) {
			acceptorDest, hasDest := 0, false
			if res.AcceptorDest != nil {
				acceptorDest, hasDest = *res.AcceptorDest, true
			} else if d, ok := cdfa.AcceptorDestination(state, state); ok {
				acceptorDest, hasDest = d, true
			}
			best = &lastAccept{consumed: consumed, state: state, acceptorDest: acceptorDest, hasDest: hasDest}
		}

		if res.Consumed == 0 {
			// ConsumeNone transitions do not advance input, so the walk
			// ends here rather than looping on the same position.
			break
		}
	}

	if best == nil {
		return nil, 0, nil
	}
	return best, best.consumed, nil
}
