package util

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"fade", "hocket", "loop"}, SortedKeys(map[string]int{"loop": 1, "fade": 2, "hocket": 3}))
}

func TestNumbers(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(2, Min(2, 5))
	assert.Equal(uint8(1), Min[uint8](3, 1))
	assert.Equal(6.5, Sum([]float64{1, 2.5, 3}))
	assert.Equal(6, Sum([]int{1, 2, 3}))
	assert.Equal([]float64{1, 1, 1}, Repeat(1.0, 3))
}

func TestDefaults(t *testing.T) {
	assert := assert.New(t)
	r := rand.New(rand.NewSource(1))
	assert.Same(r, RandOrNew(r))
	assert.NotNil(RandOrNew(nil))
	assert.NotNil(LoggerOrDiscard(nil))
	LoggerOrDiscard(nil).Info("dropped")
}
