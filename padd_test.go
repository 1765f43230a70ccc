package padd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Grounded on original_source/tests/concept.rs's test_def_non_terminal_pattern:
// a production-level default pattern is inherited by every alternative that
// does not declare its own.
func Test_Build_and_Format_defaultPatternInheritance(t *testing.T) {
	spec := `
alphabet 'ab'

cdfa {
	start
		'a' -> ^A
		'b' -> ^B;
}

grammar {
	s ` + "`{} {}`" + `
		| s A
		| s B
		| ` + "`SEPARATED:`" + `;
}
`

	eng, err := Build(spec)
	require.NoError(t, err)

	out, err := eng.Format("abbaba")
	require.NoError(t, err)
	assert.Equal(t, "SEPARATED: a b b a b a", out)
}

// Grounded on original_source/tests/concept.rs's test_range_based_matcher:
// character ranges expand through the declared alphabet and ordinary
// numbered captures reorder children.
func Test_Build_and_Format_rangeMatcher(t *testing.T) {
	spec := `
alphabet 'abcdefghijklmnopqrstuvwxyz'

cdfa {
	start
		'a' .. 'k' -> ^FIRST
		'l' .. 'z' -> ^LAST;
}

grammar {
	s
		| first last ` + "`{1} {0}`" + `;

	first
		| first FIRST
		| FIRST;

	last
		| last LAST
		| LAST;
}
`

	eng, err := Build(spec)
	require.NoError(t, err)

	out, err := eng.Format("abcdefghijklmnopqrstuvwxyz")
	require.NoError(t, err)
	assert.Equal(t, "lmnopqrstuvwxyz abcdefghijk", out)
}

func Test_Build_missingRequiredRegion(t *testing.T) {
	spec := `
alphabet 'ab'

grammar {
	s | ;
}
`
	_, err := Build(spec)
	assert.Error(t, err)
}

func Test_Format_rejectsUnacceptedInput(t *testing.T) {
	spec := `
alphabet 'ab'

cdfa {
	start
		'a' -> ^A;
}

grammar {
	s
		| A;
}
`
	eng, err := Build(spec)
	require.NoError(t, err)

	_, err = eng.Format("b")
	assert.Error(t, err)
}
