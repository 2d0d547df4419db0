package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestWindow(t *testing.T) {
	assert.Equal(t, []int{2, 3}, Window(seq(5), 2, 2))
	assert.Equal(t, []int{4}, Window(seq(5), 2, 4))
	assert.Empty(t, Window(seq(5), 2, 5))
	assert.NotNil(t, Window(seq(5), 2, 9))
}

func TestWindow_Defaults(t *testing.T) {
	assert.Len(t, Window(seq(80), 0, 0), DefaultLimit)
	assert.Len(t, Window(seq(200), 500, 0), MaxLimit)
	assert.Equal(t, []int{0, 1}, Window(seq(2), 10, -3))
}
