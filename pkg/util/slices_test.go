package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInPlaceFilter(t *testing.T) {
	s := []int{1, 2, 3, 4, 5, 6}
	InPlaceFilter(&s, func(n int) bool { return n%2 == 0 })

	assert.Equal(t, []int{2, 4, 6}, s)
}

func TestIndexFrom(t *testing.T) {
	s := []string{"A", "B", "A", "C"}
	isA := func(v string) bool { return v == "A" }

	assert.Equal(t, 0, IndexFrom(s, 0, isA))
	assert.Equal(t, 2, IndexFrom(s, 1, isA))
	assert.Equal(t, -1, IndexFrom(s, 3, isA))
}

func TestChunk(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Chunk([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1, 2}}, Chunk([]int{1, 2}, 2))
	assert.Nil(t, Chunk([]int{}, 2))
}
