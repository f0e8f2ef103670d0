package containers

import "errors"

var (
	ErrRingEmpty = errors.New("ring queue is empty")
	ErrRingFull  = errors.New("ring queue is full")
)

/**
 * @brief A fixed size FIFO. Push fails when full, Overwrite drops the
 * oldest element instead.
 */
type RingQueue[T any] struct {
	data       []T
	readIndex  int
	writeIndex int
	count      int
}

func NewRingQueue[T any](size int) *RingQueue[T] {
	return &RingQueue[T]{
		data: make([]T, max(size, 1)),
	}
}

func (rq *RingQueue[T]) Push(value T) error {
	if rq.IsFull() {
		return ErrRingFull
	}
	rq.data[rq.writeIndex] = value
	rq.writeIndex = (rq.writeIndex + 1) % len(rq.data)
	rq.count++
	return nil
}

// Overwrite pushes value, dropping the oldest element when the queue is full.
func (rq *RingQueue[T]) Overwrite(value T) {
	if rq.IsFull() {
		_, _ = rq.Pop()
	}
	_ = rq.Push(value)
}

func (rq *RingQueue[T]) Pop() (T, error) {
	var zero T
	if rq.IsEmpty() {
		return zero, ErrRingEmpty
	}
	value := rq.data[rq.readIndex]
	rq.data[rq.readIndex] = zero
	rq.readIndex = (rq.readIndex + 1) % len(rq.data)
	rq.count--
	return value, nil
}

func (rq *RingQueue[T]) Peek() (T, error) {
	if rq.IsEmpty() {
		var zero T
		return zero, ErrRingEmpty
	}
	return rq.data[rq.readIndex], nil
}

// Each visits the elements oldest first.
func (rq *RingQueue[T]) Each(fn func(T)) {
	for i := 0; i < rq.count; i++ {
		fn(rq.data[(rq.readIndex+i)%len(rq.data)])
	}
}

func (rq *RingQueue[T]) Len() int {
	return rq.count
}

func (rq *RingQueue[T]) Cap() int {
	return len(rq.data)
}

func (rq *RingQueue[T]) IsEmpty() bool {
	return rq.count == 0
}

func (rq *RingQueue[T]) IsFull() bool {
	return rq.count == len(rq.data)
}
