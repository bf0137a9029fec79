package ring

import (
	"sync"
)

// Buffer is a fixed-capacity FIFO that overwrites its oldest item when full.
type Buffer[T any] struct {
	mu    sync.Mutex
	items []T
	head  int
	count int
}

func NewBuffer[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{
		items: make([]T, capacity),
	}
}

func (rb *Buffer[T]) Push(item T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	size := len(rb.items)
	rb.items[(rb.head+rb.count)%size] = item
	if rb.count == size {
		rb.head = (rb.head + 1) % size
	} else {
		rb.count++
	}
}

// Items returns a copy of the buffered items, oldest first.
func (rb *Buffer[T]) Items() []T {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	out := make([]T, rb.count)
	for i := range out {
		out[i] = rb.items[(rb.head+i)%len(rb.items)]
	}
	return out
}
