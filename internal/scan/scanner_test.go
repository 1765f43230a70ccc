package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/padd/internal/automaton"
)

// buildWordsAndSpacesECDFA tokenizes runs of letters as WORD and silently
// drops runs of spaces (accepting but untokenized, per the ignore-layering
// decision recorded in DESIGN.md).
func buildWordsAndSpacesECDFA(t *testing.T) *automaton.ECDFA {
	t.Helper()
	b := automaton.NewBuilder()
	b.SetAlphabet("abcdefghijklmnopqrstuvwxyz ")
	b.MarkStart("start")

	require.NoError(t, b.MarkRange("start", automaton.Transit{Dest: "word"}, 'a', 'z'))
	require.NoError(t, b.MarkRange("word", automaton.Transit{Dest: "word"}, 'a', 'z'))
	b.Accept("word")
	b.Tokenize("word", "WORD")
	require.NoError(t, b.AcceptToFromAll("word", "start"))

	require.NoError(t, b.MarkTrans("start", automaton.Transit{Dest: "ws"}, ' '))
	require.NoError(t, b.MarkTrans("ws", automaton.Transit{Dest: "ws"}, ' '))
	b.Accept("ws")
	require.NoError(t, b.AcceptToFromAll("ws", "start"))

	ecdfa, err := b.Build()
	require.NoError(t, err)
	return ecdfa
}

func Test_Scan_emitsTokensAndDropsUntokenizedStates(t *testing.T) {
	e := buildWordsAndSpacesECDFA(t)

	tokens, err := Scan([]rune("foo  bar"), e)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "foo", tokens[0].Lexeme)
	assert.Equal(t, "bar", tokens[1].Lexeme)
}

func Test_Scan_rejectsUnacceptedInput(t *testing.T) {
	e := buildWordsAndSpacesECDFA(t)

	_, err := Scan([]rune("foo1"), e)
	assert.Error(t, err)
}

func Test_Scan_emptyInputProducesNoTokens(t *testing.T) {
	e := buildWordsAndSpacesECDFA(t)

	tokens, err := Scan(nil, e)
	require.NoError(t, err)
	assert.Empty(t, tokens)
}
