package internal

import (
	"iter"
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pairs(keys ...string) iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		for n, key := range keys {
			if !yield(key, n) {
				return
			}
		}
	}
}

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	var keys []string
	var values []int
	for key, value := range IterSeq2Concat(pairs("a", "b"), pairs(), pairs("c")) {
		keys = append(keys, key)
		values = append(values, value)
	}
	assert.Equal([]string{"a", "b", "c"}, keys)
	assert.Equal([]int{0, 1, 0}, values)

	count := 0
	for range IterSeq2Concat(pairs("a", "b"), pairs("c")) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(2, count)

	assert.Empty(maps.Collect(IterSeq2Concat[string, int]()))
}

func TestIterSeq2Filter(t *testing.T) {
	assert := assert.New(t)

	odd := IterSeq2Filter(pairs("a", "b", "c", "d"), func(key string, value int) bool {
		return value%2 == 1
	})

	assert.Equal(map[string]int{"b": 1, "d": 3}, maps.Collect(odd))

	var keys []string
	for key := range odd {
		keys = append(keys, key)
		break
	}
	assert.Equal([]string{"b"}, keys)
	assert.Equal([]string{"b", "d"}, slices.Sorted(maps.Keys(maps.Collect(odd))))
}
