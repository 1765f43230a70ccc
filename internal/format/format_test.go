package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/padd/internal/pattern"
	"github.com/dekarrin/padd/internal/symbol"
)

func leaf(lexeme string) *symbol.Tree {
	return &symbol.Tree{LHS: "TOK", Leaf: true, Token: symbol.NewToken(0, lexeme, 1, 1)}
}

func Test_RuleKey_distinguishesDifferentRHS(t *testing.T) {
	a := RuleKey("s", []string{"A", "B"})
	b := RuleKey("s", []string{"A"})
	assert.NotEqual(t, a, b)
}

func Test_Format_appliesPatternAndFallsBackToConcatenation(t *testing.T) {
	tree := &symbol.Tree{
		LHS: "s",
		RHS: []string{"A", "B"},
		Children: []*symbol.Tree{
			leaf("a"),
			leaf("b"),
		},
	}

	segs, err := pattern.Compile("{1}-{0}", 2)
	require.NoError(t, err)

	f := New(map[string][]pattern.Segment{
		RuleKey("s", []string{"A", "B"}): segs,
	})
	assert.Equal(t, "b-a", f.Format(tree))

	noPattern := New(map[string][]pattern.Segment{})
	assert.Equal(t, "ab", noPattern.Format(tree))
}

func Test_Format_captureDeclarationSetsScopeForDescendant(t *testing.T) {
	child := &symbol.Tree{LHS: "CHILD", RHS: []string{"A"}, Children: []*symbol.Tree{leaf("y")}}
	tree := &symbol.Tree{LHS: "s", RHS: []string{"CHILD"}, Children: []*symbol.Tree{child}}

	sSegs, err := pattern.Compile("{0;indent=>>}", 1)
	require.NoError(t, err)
	childSegs, err := pattern.Compile("[indent]{0}", 1)
	require.NoError(t, err)

	f := New(map[string][]pattern.Segment{
		RuleKey("s", []string{"CHILD"}): sSegs,
		RuleKey("CHILD", []string{"A"}): childSegs,
	})
	assert.Equal(t, ">>y", f.Format(tree))
}

func Test_Format_nullLeafProducesEmptyString(t *testing.T) {
	tree := &symbol.Tree{LHS: "EPS", Leaf: true, Token: symbol.Null()}
	f := New(nil)
	assert.Equal(t, "", f.Format(tree))
}
