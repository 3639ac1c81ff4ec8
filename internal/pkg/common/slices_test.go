package common

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

type word string

func (w word) String() string { return string(w) }

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, Map(strconv.Itoa, []int{1, 2, 3}))
	assert.Equal(t, []string{}, Map(strconv.Itoa, nil))
}

func TestMapIf(t *testing.T) {
	evens := MapIf(func(x int) (int, bool) { return x * 10, x%2 == 0 }, []int{1, 2, 3, 4})
	assert.Equal(t, []int{20, 40}, evens)
}

func TestConcatMap(t *testing.T) {
	assert.Equal(t, []int{1, 1, 2, 2}, ConcatMap(func(x int) []int { return []int{x, x} }, []int{1, 2}))
}

func TestRepeat(t *testing.T) {
	assert.Equal(t, []int{7, 7, 7}, Repeat(7, 3))
	assert.Empty(t, Repeat(7, 0))
}

func TestAnyAll(t *testing.T) {
	odd := func(x int) bool { return x%2 == 1 }
	assert.True(t, Any(odd, []int{2, 3}))
	assert.False(t, Any(odd, []int{2, 4}))
	assert.True(t, All(odd, []int{1, 3}))
	assert.False(t, All(odd, []int{1, 2}))
	assert.True(t, All(odd, nil))
}

func TestFold(t *testing.T) {
	sum := Fold(func(x, acc int) int { return acc + x }, 0, []int{1, 2, 3})
	assert.Equal(t, 6, sum)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "a, b", Join([]word{"a", "b"}, ", "))
	assert.Equal(t, "", Join([]word(nil), ", "))
}

func TestSystemErrorMessage(t *testing.T) {
	err := SystemError{Message: "invalid case"}
	assert.Equal(t, "system error: invalid case", err.Error())
}
