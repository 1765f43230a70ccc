package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Encoder_assignsDenseIncreasingIds(t *testing.T) {
	e := New[string]()

	assert.Equal(t, 0, e.Encode("a"))
	assert.Equal(t, 1, e.Encode("b"))
	assert.Equal(t, 0, e.Encode("a"), "re-encoding a seen value returns its existing id")
	assert.Equal(t, 2, e.Len())
}

func Test_Encoder_Decode(t *testing.T) {
	e := New[string]()
	e.Encode("x")
	e.Encode("y")

	v, ok := e.Decode(1)
	assert.True(t, ok)
	assert.Equal(t, "y", v)

	_, ok = e.Decode(5)
	assert.False(t, ok)

	_, ok = e.Decode(-1)
	assert.False(t, ok)
}

func Test_Encoder_Lookup(t *testing.T) {
	e := New[string]()
	e.Encode("a")

	id, ok := e.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, 0, id)

	_, ok = e.Lookup("never-seen")
	assert.False(t, ok)
}
