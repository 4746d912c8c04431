package favorites

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_NilIsEmpty(t *testing.T) {
	var s *Set
	assert.False(t, s.Has("a"))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, []string{}, s.IDs())
	assert.True(t, s.Equal(NewSet()))
	assert.Equal(t, "[]", s.encode())
}

func TestSet_EqualIgnoresOrder(t *testing.T) {
	assert.True(t, NewSet("a", "b").Equal(NewSet("b", "a")))
	assert.False(t, NewSet("a").Equal(NewSet("b")))
	assert.False(t, NewSet("a").Equal(NewSet("a", "b")))
}

func TestDecode(t *testing.T) {
	d := decode(` ["b", "a", "b"] `)
	assert.True(t, d.valid)
	assert.Equal(t, []string{"a", "b"}, d.set().IDs())

	assert.True(t, decode(`[]`).valid)
	assert.False(t, decode(``).valid)
	assert.False(t, decode(`"a"`).valid)
	assert.Equal(t, 0, decode(`{}`).set().Len())
}
