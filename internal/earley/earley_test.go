package earley

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/padd/internal/grammar"
	"github.com/dekarrin/padd/internal/symbol"
)

const (
	symNUM symbol.ID = iota
	symPLUS
)

func sumGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder()
	b.TryMarkStart("s")
	b.AddProductions([]grammar.Production{
		{LHS: "s", RHS: []string{"s", "PLUS", "NUM"}},
		{LHS: "s", RHS: []string{"NUM"}},
	})
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func sumSymName(id symbol.ID) string {
	switch id {
	case symNUM:
		return "NUM"
	case symPLUS:
		return "PLUS"
	default:
		return ""
	}
}

func tok(kind symbol.ID, lexeme string) symbol.Token {
	return symbol.NewToken(kind, lexeme, 1, 1)
}

func Test_Parse_buildsLeftRecursiveSumTree(t *testing.T) {
	g := sumGrammar(t)
	tokens := []symbol.Token{
		tok(symNUM, "1"),
		tok(symPLUS, "+"),
		tok(symNUM, "2"),
		tok(symPLUS, "+"),
		tok(symNUM, "3"),
	}

	tree, err := Parse(tokens, g, sumSymName)
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, "s", tree.LHS)
	assert.Equal(t, []string{"1", "+", "2", "+", "3"}, leafLexemes(tree))
}

func leafLexemes(t *symbol.Tree) []string {
	if t.Leaf {
		if t.Token.IsNull() {
			return nil
		}
		return []string{t.Token.Lexeme}
	}
	var out []string
	for _, c := range t.Children {
		out = append(out, leafLexemes(c)...)
	}
	return out
}

func Test_Parse_rejectsUnrecognizedToken(t *testing.T) {
	g := sumGrammar(t)
	tokens := []symbol.Token{tok(symPLUS, "+")}

	_, err := Parse(tokens, g, sumSymName)
	assert.Error(t, err)
}

func Test_Parse_emptyTokensIsError(t *testing.T) {
	g := sumGrammar(t)

	_, err := Parse(nil, g, sumSymName)
	assert.Error(t, err)
}
