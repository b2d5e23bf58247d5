// Package io provides program image loading and the value channels used to
// feed and drain an IntCode machine.
// It includes fixed input (Rom), stream I/O (Tape), and an in-memory
// queue (Temporary).
package io

import (
	"iter"
)

// Channel defines the interface for all value channels.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive returns an iterator that yields values from the channel.
	Receive() iter.Seq[int64]
	// Send writes a single value to the channel.
	Send(value int64) error
}
