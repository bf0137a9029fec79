package ring

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferOverwritesOldest(t *testing.T) {
	rb := NewBuffer[int](3)
	for i := 1; i <= 5; i++ {
		rb.Push(i)
	}
	assert.Equal(t, []int{3, 4, 5}, rb.Items())

	rb.Push(6)
	assert.Equal(t, []int{4, 5, 6}, rb.Items())
}

func TestBufferPartiallyFilled(t *testing.T) {
	rb := NewBuffer[string](4)
	rb.Push("a")
	rb.Push("b")
	assert.Equal(t, []string{"a", "b"}, rb.Items())
}

func TestBufferMinimumCapacity(t *testing.T) {
	rb := NewBuffer[float64](0)
	assert.Empty(t, rb.Items())

	rb.Push(1)
	rb.Push(2)
	assert.Equal(t, []float64{2}, rb.Items())
}

func TestBufferItemsIsCopy(t *testing.T) {
	rb := NewBuffer[int](2)
	rb.Push(1)
	items := rb.Items()
	items[0] = 99
	assert.Equal(t, []int{1}, rb.Items())
}

func TestBufferConcurrentPush(t *testing.T) {
	rb := NewBuffer[int](8)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			rb.Push(v)
			rb.Items()
		}(i)
	}
	wg.Wait()
	assert.Len(t, rb.Items(), 8)
}
