package perrors

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Unaccepted_and_Alphabet(t *testing.T) {
	err := Unaccepted("abc", 1, 2)
	assert.Contains(t, err.Error(), "abc")

	err = Alphabet('$')
	assert.Contains(t, err.Error(), "$")
}

func Test_ParseErrors(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{"no tokens", NoTokens()},
		{"partial", Partial(3, 10)},
		{"exhausted", Exhausted()},
		{"at token", AtToken(2, "ID")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}

func Test_FormatError_Unwrap(t *testing.T) {
	cause := Unaccepted("xyz", 0, 0)

	scanErr := Scan(cause)
	assert.Same(t, cause, scanErr.(interface{ Unwrap() error }).Unwrap())

	parseErr := Parse(cause)
	assert.Same(t, cause, parseErr.(interface{ Unwrap() error }).Unwrap())
}

func Test_BuildError_Unwrap(t *testing.T) {
	cause := Mapping("orphaned terminal FOO")

	specParseErr := SpecParse(cause)
	assert.Same(t, cause, specParseErr.(interface{ Unwrap() error }).Unwrap())

	specGenErr := SpecGen(cause)
	assert.Same(t, cause, specGenErr.(interface{ Unwrap() error }).Unwrap())
}

func Test_Region_requiresMissing(t *testing.T) {
	err := Region("grammar")
	assert.Contains(t, err.Error(), "grammar")
}

func Test_NonTerminalIgnored(t *testing.T) {
	err := NonTerminalIgnored("expr")
	assert.Contains(t, err.Error(), "expr")
}

func Test_Report(t *testing.T) {
	cause := Mapping("orphaned terminal FOO")
	wrapped := SpecGen(cause)

	var buf bytes.Buffer
	Report(&buf, wrapped)

	out := buf.String()
	assert.Contains(t, out, "spec gen")
	assert.Contains(t, out, "orphaned terminal FOO")
}
