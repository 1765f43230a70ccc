package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Builder_Build_computesNullableFixpoint(t *testing.T) {
	b := NewBuilder()
	b.TryMarkStart("s")
	b.AddProductions([]Production{
		{LHS: "s", RHS: []string{"a", "b"}},
		{LHS: "a", RHS: nil},
		{LHS: "b", RHS: []string{"a"}},
	})

	g, err := b.Build()
	require.NoError(t, err)

	assert.True(t, g.IsNullable("a"))
	assert.True(t, g.IsNullable("b"))
	assert.True(t, g.IsNullable("s"))
}

func Test_Builder_Build_nonNullableWhenAnyRHSSymbolIsNot(t *testing.T) {
	b := NewBuilder()
	b.TryMarkStart("s")
	b.AddProductions([]Production{
		{LHS: "s", RHS: []string{"a", "TERM"}},
		{LHS: "a", RHS: nil},
	})

	g, err := b.Build()
	require.NoError(t, err)

	assert.True(t, g.IsNullable("a"))
	assert.False(t, g.IsNullable("s"))
	assert.False(t, g.IsNullable("TERM"))
}

func Test_Builder_AddOptionalState_expandsToTwoProductionsOnce(t *testing.T) {
	b := NewBuilder()
	b.TryMarkStart("s")
	b.AddProduction(Production{LHS: "s", RHS: []string{"opt#B"}})
	b.AddOptionalState("opt#B", "B")
	b.AddOptionalState("opt#B", "B")

	g, err := b.Build()
	require.NoError(t, err)

	optProds := g.ProductionsForLHS("opt#B")
	require.Len(t, optProds, 2)
	assert.True(t, g.IsNullable("opt#B"))
}

func Test_Builder_Build_rejectsIgnorableNonTerminal(t *testing.T) {
	b := NewBuilder()
	b.TryMarkStart("s")
	b.AddProduction(Production{LHS: "s", RHS: []string{"a"}})
	b.AddProduction(Production{LHS: "a", RHS: nil})
	b.MarkIgnorable("a")

	_, err := b.Build()
	assert.Error(t, err)
}

func Test_Grammar_TerminalsExcludesNonTerminals(t *testing.T) {
	b := NewBuilder()
	b.TryMarkStart("s")
	b.AddProduction(Production{LHS: "s", RHS: []string{"a", "TERM"}})
	b.AddProduction(Production{LHS: "a", RHS: nil})

	g, err := b.Build()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"TERM"}, g.Terminals())
	assert.True(t, g.IsNonTerminal("a"))
	assert.False(t, g.IsNonTerminal("TERM"))
}
