package io

import (
	"iter"
	"slices"
)

// Rom is a read-only channel replaying a fixed list of values.
type Rom struct {
	Data []int64
}

var _ Channel = (*Rom)(nil)

// Rewind has nothing to reset on a Rom.
func (rc *Rom) Rewind() {
}

func (rc *Rom) Receive() iter.Seq[int64] {
	return slices.Values(rc.Data)
}

func (rc *Rom) Send(value int64) error {
	return ErrChannelFull
}
