package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_StringSet_AddHasRemove(t *testing.T) {
	s := NewStringSet()
	assert.True(t, s.Empty())

	s.Add("a")
	s.Add("b")
	assert.True(t, s.Has("a"))
	assert.Equal(t, 2, s.Len())

	s.Remove("a")
	assert.False(t, s.Has("a"))
	assert.Equal(t, 1, s.Len())
}

func Test_StringSet_UnionIntersectionDifference(t *testing.T) {
	a := StringSetOf([]string{"x", "y", "z"})
	b := StringSetOf([]string{"y", "z", "w"})

	assert.ElementsMatch(t, []string{"x", "y", "z", "w"}, a.Union(b).Elements())
	assert.ElementsMatch(t, []string{"y", "z"}, a.Intersection(b).Elements())
	assert.ElementsMatch(t, []string{"x"}, a.Difference(b).Elements())
}

func Test_StringSet_DisjointWith(t *testing.T) {
	a := StringSetOf([]string{"x"})
	b := StringSetOf([]string{"y"})
	c := StringSetOf([]string{"x", "z"})

	assert.True(t, a.DisjointWith(b))
	assert.False(t, a.DisjointWith(c))
}

func Test_StringSet_Equal(t *testing.T) {
	a := StringSetOf([]string{"x", "y"})
	b := StringSetOf([]string{"y", "x"})
	c := StringSetOf([]string{"y"})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
