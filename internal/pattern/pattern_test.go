package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Compile_fillerAndCapture(t *testing.T) {
	segs, err := Compile("x={} y", 1)
	require.NoError(t, err)
	require.Len(t, segs, 3)

	assert.Equal(t, Segment{Kind: Filler, Text: "x="}, segs[0])
	assert.Equal(t, Capture, segs[1].Kind)
	assert.Equal(t, 0, segs[1].ChildIndex)
	assert.Equal(t, Segment{Kind: Filler, Text: " y"}, segs[2])
}

func Test_Compile_explicitAndAutoIndicesMix(t *testing.T) {
	segs, err := Compile("{1}{}", 3)
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, 1, segs[0].ChildIndex)
	assert.Equal(t, 2, segs[1].ChildIndex) // auto cursor resumes after the explicit index
}

func Test_Compile_substitution(t *testing.T) {
	segs, err := Compile("[indent]text", 0)
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, Substitution, segs[0].Kind)
	assert.Equal(t, "indent", segs[0].SubstName)
}

func Test_Compile_captureDeclarations(t *testing.T) {
	segs, err := Compile("{0;indent=[indent]  ;bare}", 1)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	require.Len(t, segs[0].Declarations, 2)

	assert.Equal(t, "indent", segs[0].Declarations[0].Key)
	require.Len(t, segs[0].Declarations[0].Value, 2)
	assert.Equal(t, "bare", segs[0].Declarations[1].Key)
	assert.Nil(t, segs[0].Declarations[1].Value)
}

func Test_Compile_escapeSequences(t *testing.T) {
	segs, err := Compile(`a\nb\tc\\d\'e`, 0)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, "a\nb\tc\\d'e", segs[0].Text)
}

func Test_Compile_rejectsOutOfRangeCapture(t *testing.T) {
	_, err := Compile("{2}", 2)
	assert.Error(t, err)
}

func Test_Compile_rejectsCaptureInsideDeclarationValue(t *testing.T) {
	_, err := Compile("{0;k={1}}", 2)
	assert.Error(t, err)
}

func Test_Compile_rejectsDanglingEscape(t *testing.T) {
	_, err := Compile(`a\`, 0)
	assert.Error(t, err)
}
