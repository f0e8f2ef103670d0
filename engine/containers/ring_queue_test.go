package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueFIFO(t *testing.T) {
	rq := NewRingQueue[int](3)
	require.NoError(t, rq.Push(1))
	require.NoError(t, rq.Push(2))
	require.NoError(t, rq.Push(3))
	assert.ErrorIs(t, rq.Push(4), ErrRingFull)

	v, err := rq.Pop()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.NoError(t, rq.Push(4))
	var got []int
	rq.Each(func(v int) { got = append(got, v) })
	assert.Equal(t, []int{2, 3, 4}, got)
}

func TestRingQueueOverwriteDropsOldest(t *testing.T) {
	rq := NewRingQueue[float64](2)
	rq.Overwrite(1)
	rq.Overwrite(2)
	rq.Overwrite(3)

	assert.Equal(t, 2, rq.Len())
	front, err := rq.Peek()
	require.NoError(t, err)
	assert.Equal(t, 2.0, front)
}

func TestRingQueueEmpty(t *testing.T) {
	rq := NewRingQueue[string](0)
	assert.Equal(t, 1, rq.Cap())
	_, err := rq.Pop()
	assert.ErrorIs(t, err, ErrRingEmpty)
	_, err = rq.Peek()
	assert.ErrorIs(t, err, ErrRingEmpty)
}
