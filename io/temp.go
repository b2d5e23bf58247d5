package io

import (
	"iter"
)

// Temporary is a bounded in-memory FIFO of values.
type Temporary struct {
	Capacity int // Maximum number of values held.

	values []int64
	head   int // Index of the oldest unread value.
}

var _ Channel = (*Temporary)(nil)

// Len returns the number of values waiting to be received.
func (temp *Temporary) Len() int {
	return len(temp.values) - temp.head
}

// Rewind discards all waiting values, keeping the storage.
func (temp *Temporary) Rewind() {
	temp.values = temp.values[:0]
	temp.head = 0
}

// Receive returns an iterator that drains values in the order they were sent.
func (temp *Temporary) Receive() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		for temp.Len() > 0 {
			value := temp.values[temp.head]
			temp.head++
			if temp.Len() == 0 {
				temp.Rewind()
			}
			if !yield(value) {
				return
			}
		}
	}
}

// Send queues a value, or returns ErrChannelFull at capacity.
func (temp *Temporary) Send(value int64) (err error) {
	if temp.Len() >= temp.Capacity {
		err = ErrChannelFull
		return
	}

	// Reclaim drained space before the slice would grow.
	if temp.head > 0 && len(temp.values) == cap(temp.values) {
		n := copy(temp.values, temp.values[temp.head:])
		temp.values = temp.values[:n]
		temp.head = 0
	}

	temp.values = append(temp.values, value)

	return
}
