package specfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Compile_balancedBrackets(t *testing.T) {
	spec := `
alphabet '[]ab'

cdfa {
	start
		'[' -> ^LBRACKET
		']' -> ^RBRACKET
		'a' | 'b' -> ^LETTER;
}

grammar {
	s
		| s LBRACKET s RBRACKET ` + "`{} [{}] `" + `
		| s LETTER ` + "`{}{} `" + `
		| ` + "`, `" + `;
}
`
	ecdfa, gram, formatter, err := Compile(spec)
	require.NoError(t, err)
	require.NotNil(t, ecdfa)
	require.NotNil(t, gram)
	require.NotNil(t, formatter)
}

func Test_Compile_optionalShorthand(t *testing.T) {
	spec := `
alphabet 'ab'

cdfa {
	start
		'a' -> ^A
		'b' -> ^B;
}

grammar {
	s | A [B] ` + "`{}{}`" + `;
}
`
	_, gram, _, err := Compile(spec)
	require.NoError(t, err)
	require.NotNil(t, gram)
}

func Test_Compile_ignorableWhitespace(t *testing.T) {
	spec := `
alphabet 'ab '

cdfa {
	start
		'a' -> ^A
		'b' -> ^B
		' ' -> ^WS;
}

ignore WS

grammar {
	s
		| s A ` + "`{}a`" + `
		| s B ` + "`{}b`" + `
		| ` + "``" + `;
}
`
	_, _, formatter, err := Compile(spec)
	require.NoError(t, err)
	require.NotNil(t, formatter)
}

func Test_Compile_missingCDFARegion(t *testing.T) {
	spec := `
alphabet 'ab'

grammar {
	s | A;
}
`
	_, _, _, err := Compile(spec)
	assert.Error(t, err)
}

func Test_Compile_orphanedTerminal(t *testing.T) {
	spec := `
alphabet 'ab'

cdfa {
	start
		'a' -> ^A;
}

grammar {
	s | A B;
}
`
	_, _, _, err := Compile(spec)
	assert.Error(t, err, "B is never tokenized by the ECDFA")
}

func Test_Parse_returnsTreeForValidSpec(t *testing.T) {
	spec := `
alphabet 'a'

cdfa {
	start
		'a' -> ^A;
}

grammar {
	s | A;
}
`
	tree, err := Parse(spec)
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, nSpec, tree.LHS)
}
